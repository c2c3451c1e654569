package weft

import "fmt"

// reconcileChildren diffs elements against the alternate's children by
// position and links the resulting fibers under parentID.
//
//   - same type at the same index: update, reusing the old host node
//   - new element without a same-type old fiber: placement
//   - old fiber past the end of elements or replaced: deletion
func (r *Root) reconcileChildren(parentID fiberID, elements []*Element) error {
	wip := r.wip
	parent := wip.get(parentID)
	parent.child = noFiber

	old := noFiber
	if parent.alternate != noFiber {
		old = r.current.get(parent.alternate).child
	}

	elements = compact(elements)
	prev := noFiber
	for i := 0; i < len(elements) || old != noFiber; i++ {
		var el *Element
		if i < len(elements) {
			el = elements[i]
			if reason := el.check(); reason != "" {
				return &InvalidElementError{
					Path:   fmt.Sprintf("%s/%d:%s", wip.path(parentID), i, el.label()),
					Reason: reason,
				}
			}
		}

		var oldFiber *fiber
		if old != noFiber {
			oldFiber = r.current.get(old)
		}
		same := oldFiber != nil && el != nil && oldFiber.sameType(el)

		id := noFiber
		switch {
		case same:
			nf := newFiber(el, parentID)
			nf.node = oldFiber.node
			nf.alternate = old
			nf.effect = EffectUpdate
			id = wip.add(nf)
		case el != nil:
			nf := newFiber(el, parentID)
			nf.effect = EffectPlacement
			id = wip.add(nf)
		}

		if oldFiber != nil {
			if !same {
				oldFiber.effect = EffectDeletion
				r.deletions = append(r.deletions, old)
			}
			old = oldFiber.sibling
		}

		if id == noFiber {
			continue
		}
		if prev == noFiber {
			parent.child = id
		} else {
			wip.get(prev).sibling = id
		}
		prev = id
	}
	return nil
}

// compact drops nil entries so positions count rendered elements only.
func compact(elements []*Element) []*Element {
	for i, el := range elements {
		if el != nil {
			continue
		}
		out := make([]*Element, 0, len(elements)-1)
		out = append(out, elements[:i]...)
		for _, rest := range elements[i+1:] {
			if rest != nil {
				out = append(out, rest)
			}
		}
		return out
	}
	return elements
}
