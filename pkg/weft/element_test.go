package weft

import (
	"errors"
	"testing"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func TestCreateElementChildren(t *testing.T) {
	el := CreateElement("div", Props{"children": "ignored"},
		"a", 1, int64(2), uint8(3), 4.5, float32(0.25), label("x"),
		nil, false,
		[]*Element{Text("b"), nil},
		[]any{"c", []any{"d"}},
	)
	if el.Kind != KindHost || el.Tag != "div" {
		t.Fatalf("Kind/Tag = %v/%q", el.Kind, el.Tag)
	}
	if _, ok := el.Props[ChildrenKey]; ok {
		t.Error("host element kept a children prop")
	}

	var texts []string
	for _, c := range el.Children {
		if c.Kind != KindText {
			t.Fatalf("child kind = %v, want Text", c.Kind)
		}
		texts = append(texts, c.Text)
	}
	want := []string{"a", "1", "2", "3", "4.5", "0.25", "label:x", "b", "c", "d"}
	if len(texts) != len(want) {
		t.Fatalf("children = %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("child %d = %q, want %q", i, texts[i], want[i])
		}
	}
	if err := Validate(el); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestCreateElementComponentChildren(t *testing.T) {
	comp := Func("Box", func(c *Ctx, p Props) *Element { return nil })
	el := CreateElement(comp, Props{"title": "t"}, CreateElement("p", nil))

	if el.Kind != KindComponent || el.Component != comp {
		t.Fatalf("Kind = %v, Component = %p", el.Kind, el.Component)
	}
	children := el.Props.Children()
	if len(children) != 1 || children[0].Tag != "p" {
		t.Errorf("Props.Children() = %v", children)
	}
	if el.Props["title"] != "t" {
		t.Errorf("title prop = %v", el.Props["title"])
	}
}

func TestCreateElementCopiesProps(t *testing.T) {
	props := Props{"id": "a"}
	el := CreateElement("div", props)
	props["id"] = "b"
	if el.Props["id"] != "a" {
		t.Error("element shares the caller's props map")
	}
}

func TestValidatePath(t *testing.T) {
	el := CreateElement("ul", nil, CreateElement("li", nil), CreateElement("li", nil, CreateElement("", nil)))
	err := Validate(el)

	var iee *InvalidElementError
	if !errors.As(err, &iee) {
		t.Fatalf("Validate() error = %v, want *InvalidElementError", err)
	}
	if iee.Path != "ul/1:li/0:" {
		t.Errorf("Path = %q", iee.Path)
	}
}

func TestValidTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"div", true},
		{"my-element", true},
		{"svg:path", true},
		{"h1", true},
		{"", false},
		{"1h", false},
		{"a b", false},
		{"<div>", false},
	}
	for _, tt := range tests {
		if got := validTag(tt.tag); got != tt.want {
			t.Errorf("validTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestKindStrings(t *testing.T) {
	if KindComponent.String() != "Component" || Kind(0).String() != "Unknown" {
		t.Error("Kind.String mismatch")
	}
	if EffectDeletion.String() != "deletion" || EffectTag(9).String() != "unknown" {
		t.Error("EffectTag.String mismatch")
	}
}
