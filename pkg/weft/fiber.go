package weft

import (
	"slices"
	"strings"
)

// EffectTag classifies the host mutation a fiber needs at commit.
type EffectTag uint8

const (
	EffectNone EffectTag = iota
	EffectPlacement
	EffectUpdate
	EffectDeletion
)

// String returns the string representation of the EffectTag.
func (t EffectTag) String() string {
	switch t {
	case EffectNone:
		return "none"
	case EffectPlacement:
		return "placement"
	case EffectUpdate:
		return "update"
	case EffectDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// fiberID addresses a fiber inside one tree's arena.
type fiberID int32

const noFiber fiberID = -1

// topFiber is the synthetic fiber owning the container in every tree.
const topFiber fiberID = 0

// fiber is the unit of work for one tree position. Links are arena
// indices: parent/child/sibling point into the same tree, alternate points
// into the other one.
type fiber struct {
	kind      Kind
	tag       string
	component *Component
	props     Props

	// children holds the elements to reconcile under this fiber: the
	// element's children for host fibers, the render result for components.
	children []*Element

	node Node

	parent    fiberID
	child     fiberID
	sibling   fiberID
	alternate fiberID

	effect EffectTag
	hooks  []hook
}

func newFiber(el *Element, parent fiberID) *fiber {
	return &fiber{
		kind:      el.Kind,
		tag:       el.Tag,
		component: el.Component,
		props:     el.Props,
		children:  el.Children,
		parent:    parent,
		child:     noFiber,
		sibling:   noFiber,
		alternate: noFiber,
	}
}

// sameType reports whether el can update f in place.
func (f *fiber) sameType(el *Element) bool {
	if f.kind != el.Kind {
		return false
	}
	switch el.Kind {
	case KindHost:
		return f.tag == el.Tag
	case KindText:
		return true
	case KindComponent:
		return f.component == el.Component
	default:
		return false
	}
}

// label names f in error paths and logs.
func (f *fiber) label() string {
	switch f.kind {
	case KindHost:
		if f.tag == "" {
			return "root"
		}
		return f.tag
	case KindText:
		return "#text"
	case KindComponent:
		return f.component.Name
	default:
		return "<unknown>"
	}
}

// tree is one generation of fibers. Dropping a tree drops every fiber in it.
type tree struct {
	fibers []*fiber
}

func newTree(top *fiber) *tree {
	return &tree{fibers: []*fiber{top}}
}

func (t *tree) add(f *fiber) fiberID {
	t.fibers = append(t.fibers, f)
	return fiberID(len(t.fibers) - 1)
}

func (t *tree) get(id fiberID) *fiber {
	return t.fibers[id]
}

// next returns the fiber after id in depth-first pre-order: first child,
// else the nearest next sibling walking up through ancestors.
func (t *tree) next(id fiberID) fiberID {
	f := t.get(id)
	if f.child != noFiber {
		return f.child
	}
	for id != noFiber {
		f = t.get(id)
		if f.sibling != noFiber {
			return f.sibling
		}
		id = f.parent
	}
	return noFiber
}

// hostParent returns the host node of the nearest ancestor of id that owns one.
func (t *tree) hostParent(id fiberID) Node {
	for p := t.get(id).parent; p != noFiber; p = t.get(p).parent {
		if n := t.get(p).node; n != nil {
			return n
		}
	}
	return nil
}

// walk visits id's subtree in depth-first pre-order without leaving it.
func (t *tree) walk(id fiberID, visit func(fiberID, *fiber)) {
	if id == noFiber {
		return
	}
	cur := id
	for {
		f := t.get(cur)
		visit(cur, f)
		if f.child != noFiber {
			cur = f.child
			continue
		}
		for cur != id && t.get(cur).sibling == noFiber {
			cur = t.get(cur).parent
		}
		if cur == id {
			return
		}
		cur = t.get(cur).sibling
	}
}

// path names id by its ancestors, e.g. "root/App/div".
func (t *tree) path(id fiberID) string {
	var parts []string
	for cur := id; cur != noFiber; cur = t.get(cur).parent {
		parts = append(parts, t.get(cur).label())
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}
