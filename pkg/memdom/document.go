package memdom

import (
	"fmt"
	"reflect"
	"slices"
	"unsafe"

	"github.com/vango-dev/weft/pkg/weft"
)

// Stats counts the mutations a Document has received.
type Stats struct {
	Created          int
	Attached         int
	Removed          int
	PropertiesSet    int
	PropertiesReset  int
	ListenersAdded   int
	ListenersRemoved int
}

// Document creates nodes and applies the engine's host mutations to them.
type Document struct {
	stats Stats
}

var (
	_ weft.Host     = (*Document)(nil)
	_ weft.Inserter = (*Document)(nil)
)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Stats returns the mutation counters.
func (d *Document) Stats() Stats {
	return d.stats
}

// ResetStats zeroes the mutation counters.
func (d *Document) ResetStats() {
	d.stats = Stats{}
}

// CreateElement creates a detached element node, typically a container.
func (d *Document) CreateElement(tag string) *Node {
	d.stats.Created++
	return &Node{Type: ElementNode, Tag: tag, doc: d}
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) *Node {
	d.stats.Created++
	return &Node{Type: TextNode, Text: text, doc: d}
}

// CreateHostNode implements weft.Host.
func (d *Document) CreateHostNode(tag string) weft.Node {
	return d.CreateElement(tag)
}

// CreateTextNode implements weft.Host.
func (d *Document) CreateTextNode(text string) weft.Node {
	return d.CreateText(text)
}

// SetProperty implements weft.Host.
func (d *Document) SetProperty(node weft.Node, key string, value any) {
	n := d.node(node)
	d.stats.PropertiesSet++
	if n.Type == TextNode {
		if key == weft.NodeValueKey {
			n.Text = propToString(value)
		}
		return
	}
	name := attributeName(key)
	if b, ok := value.(bool); ok {
		if b {
			n.setAttr(name, "", true)
		} else {
			n.removeAttr(name)
		}
		return
	}
	n.setAttr(name, propToString(value), false)
}

// RemoveProperty implements weft.Host. Removed attributes disappear from
// the serialization; a text node's value becomes empty.
func (d *Document) RemoveProperty(node weft.Node, key string) {
	n := d.node(node)
	d.stats.PropertiesReset++
	if n.Type == TextNode {
		if key == weft.NodeValueKey {
			n.Text = ""
		}
		return
	}
	n.removeAttr(attributeName(key))
}

// AddEventListener implements weft.Host.
func (d *Document) AddEventListener(node weft.Node, event string, handler any) {
	n := d.node(node)
	if n.listeners == nil {
		n.listeners = make(map[string][]any)
	}
	n.listeners[event] = append(n.listeners[event], handler)
	d.stats.ListenersAdded++
}

// RemoveEventListener implements weft.Host. Functions are matched by the
// closure they refer to, other handler values by equality. The first match
// is removed.
func (d *Document) RemoveEventListener(node weft.Node, event string, handler any) {
	n := d.node(node)
	list := n.listeners[event]
	for i, h := range list {
		if sameHandler(h, handler) {
			n.listeners[event] = slices.Delete(list, i, i+1)
			d.stats.ListenersRemoved++
			return
		}
	}
}

// AppendChild implements weft.Host. A child attached elsewhere is moved.
func (d *Document) AppendChild(parent, child weft.Node) {
	p, c := d.node(parent), d.node(child)
	if c.parent != nil {
		c.parent.detach(c)
	}
	p.children = append(p.children, c)
	c.parent = p
	d.stats.Attached++
}

// InsertBefore implements weft.Inserter. If before is not a child of
// parent, child is appended.
func (d *Document) InsertBefore(parent, child, before weft.Node) {
	p, c, b := d.node(parent), d.node(child), d.node(before)
	if c.parent != nil {
		c.parent.detach(c)
	}
	i := p.indexOf(b)
	if i < 0 {
		i = len(p.children)
	}
	p.children = slices.Insert(p.children, i, c)
	c.parent = p
	d.stats.Attached++
}

// RemoveChild implements weft.Host.
func (d *Document) RemoveChild(parent, child weft.Node) {
	if d.node(parent).detach(d.node(child)) {
		d.stats.Removed++
	}
}

// ContainsChild implements weft.Host.
func (d *Document) ContainsChild(parent, child weft.Node) bool {
	return d.node(parent).indexOf(d.node(child)) >= 0
}

// node unwraps a weft.Node created by this package. Anything else is a
// wiring error in the caller.
func (d *Document) node(n weft.Node) *Node {
	node, ok := n.(*Node)
	if !ok || node == nil {
		panic(fmt.Sprintf("memdom: foreign node %T", n))
	}
	return node
}

func sameHandler(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
		return va.Type() == vb.Type() && closure(a) == closure(b)
	}
	if va.IsValid() && vb.IsValid() && va.Type().Comparable() && vb.Type().Comparable() {
		return a == b
	}
	return false
}

// closure returns the data word of an interface holding a func: the closure
// object itself. Closures created from one literal share a code pointer but
// not this word.
func closure(f any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&f))[1]
}
