package memdom

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NodeType distinguishes element nodes from text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// Attr is one serialized attribute.
type Attr struct {
	Key   string
	Value string
	Bare  bool // rendered without a value, e.g. disabled
}

// Node is an element or text node.
type Node struct {
	Type NodeType
	Tag  string
	Text string

	attrs     []Attr
	listeners map[string][]any
	parent    *Node
	children  []*Node
	doc       *Document
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Attrs returns the attributes in the order they were first set.
func (n *Node) Attrs() []Attr {
	return slices.Clone(n.attrs)
}

// Attr returns the value of attribute key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// ListenerCount returns the number of listeners registered for event.
func (n *Node) ListenerCount(event string) int {
	return len(n.listeners[event])
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// QueryAll returns every descendant element with the given tag in document
// order.
func (n *Node) QueryAll(tag string) []*Node {
	var out []*Node
	n.visit(func(d *Node) {
		if d != n && d.Type == ElementNode && d.Tag == tag {
			out = append(out, d)
		}
	})
	return out
}

// ByID returns the first descendant whose id attribute equals id.
func (n *Node) ByID(id string) *Node {
	var found *Node
	n.visit(func(d *Node) {
		if found != nil || d == n {
			return
		}
		if v, ok := d.Attr("id"); ok && v == id {
			found = d
		}
	})
	return found
}

func (n *Node) visit(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.visit(fn)
	}
}

func (n *Node) setAttr(key, value string, bare bool) {
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Value = value
			n.attrs[i].Bare = bare
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Value: value, Bare: bare})
}

func (n *Node) removeAttr(key string) {
	n.attrs = slices.DeleteFunc(n.attrs, func(a Attr) bool { return a.Key == key })
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.children, child)
}

func (n *Node) detach(child *Node) bool {
	i := n.indexOf(child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

// attributeName maps a property key to its attribute name.
func attributeName(key string) string {
	switch key {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	default:
		return key
	}
}

// propToString converts a prop value to its attribute text.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
