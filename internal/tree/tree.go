// Package tree decodes YAML element documents into weft elements.
//
// A document is one node. A node is either a mapping with exactly one of
// tag, text or component, or a plain scalar, which is shorthand for text:
//
//	tag: div
//	props:
//	  id: app
//	  className: main
//	children:
//	  - tag: h1
//	    children: [Hello]
//	  - component: Counter
//	    props:
//	      start: 3
//
// Components are resolved by name through a Registry. Event handler props
// cannot be expressed in a document and are rejected.
package tree

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/weft"
)

// Registry maps document component names to components.
type Registry map[string]*weft.Component

// Node is one decoded document node.
type Node struct {
	Tag       string         `yaml:"tag,omitempty"`
	Text      *string        `yaml:"text,omitempty"`
	Component string         `yaml:"component,omitempty"`
	Props     map[string]any `yaml:"props,omitempty"`
	Children  []*Node        `yaml:"children,omitempty"`

	// Line is the node's line in the source document.
	Line int `yaml:"-"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	n.Line = value.Line
	if value.Kind == yaml.ScalarNode {
		text := value.Value
		n.Text = &text
		return nil
	}
	type plain Node
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	p.Line = value.Line
	*n = Node(p)
	return nil
}

// Parse decodes a document without resolving it.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errors.New("E050").
			WithDetail("Failed to parse element document: " + err.Error()).
			Wrap(err)
	}
	if n.Line == 0 {
		return nil, errors.New("E050").WithDetail("Element document is empty")
	}
	return &n, nil
}

// Decode parses a document and builds its element tree.
func Decode(data []byte, reg Registry) (*weft.Element, error) {
	n, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return n.Build(reg)
}

// DecodeFile is Decode on the contents of path. Errors carry path and line.
func DecodeFile(path string, reg Registry) (*weft.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E050").Wrap(err)
	}
	el, err := Decode(data, reg)
	if err != nil {
		var we *errors.WeftError
		var be *buildError
		if stderrors.As(err, &we) && stderrors.As(err, &be) {
			we.WithLocation(path, be.line, 0)
		}
		return nil, err
	}
	return el, nil
}

// buildError is the cause recorded on E050 errors raised while building.
type buildError struct {
	line int
	msg  string
}

func (e *buildError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

func (n *Node) fail(format string, args ...any) error {
	be := &buildError{line: n.Line, msg: fmt.Sprintf(format, args...)}
	return errors.New("E050").WithDetail(be.Error()).Wrap(be)
}

// Build converts n and its children into an element.
func (n *Node) Build(reg Registry) (*weft.Element, error) {
	kinds := 0
	if n.Tag != "" {
		kinds++
	}
	if n.Text != nil {
		kinds++
	}
	if n.Component != "" {
		kinds++
	}
	if kinds != 1 {
		return nil, n.fail("node needs exactly one of tag, text or component")
	}

	if n.Text != nil {
		if len(n.Props) > 0 || len(n.Children) > 0 {
			return nil, n.fail("text nodes take no props or children")
		}
		return weft.Text(*n.Text), nil
	}

	props := make(weft.Props, len(n.Props))
	for k, v := range n.Props {
		if k == weft.ChildrenKey {
			return nil, n.fail("%q is reserved, use the children list", k)
		}
		if len(k) > 2 && strings.EqualFold(k[:2], "on") {
			return nil, n.fail("event handler %q cannot be declared in a document", k)
		}
		props[k] = v
	}

	children := make([]any, 0, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		el, err := c.Build(reg)
		if err != nil {
			return nil, err
		}
		children = append(children, el)
	}

	var typ any = n.Tag
	if n.Component != "" {
		comp, ok := reg[n.Component]
		if !ok {
			return nil, n.fail("unknown component %q", n.Component)
		}
		typ = comp
	}

	el := weft.CreateElement(typ, props, children...)
	if err := weft.Validate(el); err != nil {
		return nil, n.fail("%v", err)
	}
	return el, nil
}
