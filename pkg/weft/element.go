package weft

import (
	"fmt"
	"strconv"
)

// Kind is the element type discriminator.
type Kind uint8

const (
	KindHost      Kind = iota + 1 // <div>, <button>, etc.
	KindText                      // Plain text node
	KindComponent                 // Function component
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindHost:
		return "Host"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

const (
	// ChildrenKey is the reserved prop under which a component receives
	// the children it was created with.
	ChildrenKey = "children"

	// NodeValueKey is the prop carrying a text element's content.
	NodeValueKey = "nodeValue"
)

// Props holds attributes, event handlers and, for components, children.
type Props map[string]any

// Children returns the elements stored under ChildrenKey.
func (p Props) Children() []*Element {
	children, _ := p[ChildrenKey].([]*Element)
	return children
}

// RenderFunc renders a component. It must be a pure function of its props
// and the hook state reached through c.
type RenderFunc func(c *Ctx, props Props) *Element

// Component is a named render function. Components are compared by pointer:
// two elements have the same component type only if they share the same
// *Component.
type Component struct {
	Name   string
	Render RenderFunc
}

// Func creates a component from a render function.
func Func(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// Element is an immutable description of what to render.
type Element struct {
	Kind      Kind
	Tag       string     // KindHost
	Text      string     // KindText
	Component *Component // KindComponent
	Props     Props
	Children  []*Element

	// invalid records why construction rejected this element.
	invalid string
}

// Text creates a text element.
func Text(s string) *Element {
	return &Element{
		Kind:  KindText,
		Text:  s,
		Props: Props{NodeValueKey: s},
	}
}

// CreateElement creates an element of the given type.
//
// typ is a host tag name or a *Component. Children can be: nil (skipped),
// bool (skipped), *Element, []*Element, []any, string, fmt.Stringer or any
// integer, float or unsigned number (rendered as text). Any other type yields
// an element that fails Validate with an InvalidElementError.
func CreateElement(typ any, props Props, children ...any) *Element {
	el := &Element{Props: make(Props, len(props)+1)}
	for k, v := range props {
		el.Props[k] = v
	}

	switch t := typ.(type) {
	case string:
		el.Kind = KindHost
		el.Tag = t
		if !validTag(t) {
			el.invalid = fmt.Sprintf("invalid host tag %q", t)
		}
	case *Component:
		el.Kind = KindComponent
		el.Component = t
		if t == nil || t.Render == nil {
			el.invalid = "component has no render function"
		}
	case RenderFunc, func(*Ctx, Props) *Element:
		el.invalid = "bare render functions are not comparable; wrap them with weft.Func"
	default:
		el.invalid = fmt.Sprintf("unsupported element type %T", typ)
	}

	delete(el.Props, ChildrenKey)
	for _, child := range children {
		if reason := el.appendChild(child); reason != "" && el.invalid == "" {
			el.invalid = reason
		}
	}
	if el.Kind == KindComponent {
		el.Props[ChildrenKey] = el.Children
	}
	return el
}

// appendChild flattens one child argument into el.Children.
func (el *Element) appendChild(child any) string {
	switch v := child.(type) {
	case nil:
	case bool:
	case *Element:
		if v != nil {
			el.Children = append(el.Children, v)
		}
	case []*Element:
		for _, c := range v {
			if c != nil {
				el.Children = append(el.Children, c)
			}
		}
	case []any:
		for _, c := range v {
			if reason := el.appendChild(c); reason != "" {
				return reason
			}
		}
	case string:
		el.Children = append(el.Children, Text(v))
	case int:
		el.Children = append(el.Children, Text(strconv.Itoa(v)))
	case int64:
		el.Children = append(el.Children, Text(strconv.FormatInt(v, 10)))
	case int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		el.Children = append(el.Children, Text(fmt.Sprintf("%d", v)))
	case float64:
		el.Children = append(el.Children, Text(strconv.FormatFloat(v, 'f', -1, 64)))
	case float32:
		el.Children = append(el.Children, Text(strconv.FormatFloat(float64(v), 'f', -1, 32)))
	case fmt.Stringer:
		el.Children = append(el.Children, Text(v.String()))
	default:
		return fmt.Sprintf("unsupported child type %T", child)
	}
	return ""
}

// validTag reports whether tag is usable as a host element name.
func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == ':' || r == '.' || r == '_'):
		default:
			return false
		}
	}
	return true
}

// check reports why el alone (not its children) cannot be rendered.
func (el *Element) check() string {
	if el.invalid != "" {
		return el.invalid
	}
	switch el.Kind {
	case KindHost:
		if !validTag(el.Tag) {
			return fmt.Sprintf("invalid host tag %q", el.Tag)
		}
	case KindText:
	case KindComponent:
		if el.Component == nil || el.Component.Render == nil {
			return "component has no render function"
		}
	default:
		return fmt.Sprintf("unknown element kind %d", el.Kind)
	}
	return ""
}

// label names el in error paths.
func (el *Element) label() string {
	switch el.Kind {
	case KindHost:
		return el.Tag
	case KindText:
		return "#text"
	case KindComponent:
		if el.Component != nil && el.Component.Name != "" {
			return el.Component.Name
		}
		return "<component>"
	default:
		return "<invalid>"
	}
}

// Validate checks el and its host children recursively. Component output is
// only known at render time and is checked when first visited.
func Validate(el *Element) error {
	if el == nil {
		return nil
	}
	return validate(el, el.label())
}

func validate(el *Element, path string) error {
	if reason := el.check(); reason != "" {
		return &InvalidElementError{Path: path, Reason: reason}
	}
	for i, child := range el.Children {
		if child == nil {
			continue
		}
		if err := validate(child, fmt.Sprintf("%s/%d:%s", path, i, child.label())); err != nil {
			return err
		}
	}
	return nil
}
