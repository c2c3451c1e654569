package weft

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recordingHost logs every mutation as a string.
type recordingHost struct {
	calls []string
	seq   int
}

type recNode struct {
	name     string
	children []*recNode
}

func (h *recordingHost) CreateHostNode(tag string) Node {
	h.seq++
	return &recNode{name: fmt.Sprintf("%s#%d", tag, h.seq)}
}

func (h *recordingHost) CreateTextNode(text string) Node {
	h.seq++
	return &recNode{name: fmt.Sprintf("text#%d", h.seq)}
}

func (h *recordingHost) SetProperty(node Node, key string, value any) {
	h.calls = append(h.calls, fmt.Sprintf("set %s %s=%v", node.(*recNode).name, key, value))
}

func (h *recordingHost) RemoveProperty(node Node, key string) {
	h.calls = append(h.calls, fmt.Sprintf("remove %s %s", node.(*recNode).name, key))
}

func (h *recordingHost) AddEventListener(node Node, event string, handler any) {
	h.calls = append(h.calls, fmt.Sprintf("listen %s %s", node.(*recNode).name, event))
}

func (h *recordingHost) RemoveEventListener(node Node, event string, handler any) {
	h.calls = append(h.calls, fmt.Sprintf("unlisten %s %s", node.(*recNode).name, event))
}

func (h *recordingHost) AppendChild(parent, child Node) {
	p, c := parent.(*recNode), child.(*recNode)
	p.children = append(p.children, c)
	h.calls = append(h.calls, fmt.Sprintf("append %s %s", p.name, c.name))
}

func (h *recordingHost) RemoveChild(parent, child Node) {
	p, c := parent.(*recNode), child.(*recNode)
	for i, n := range p.children {
		if n == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	h.calls = append(h.calls, fmt.Sprintf("removeChild %s %s", p.name, c.name))
}

func (h *recordingHost) ContainsChild(parent, child Node) bool {
	for _, n := range parent.(*recNode).children {
		if n == child.(*recNode) {
			return true
		}
	}
	return false
}

func TestIsEvent(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"onClick", true},
		{"onclick", true},
		{"ONCLICK", true},
		{"on", false},
		{"one", true},
		{"id", false},
		{"children", false},
		{"o", false},
	}
	for _, tt := range tests {
		if got := isEvent(tt.key); got != tt.want {
			t.Errorf("isEvent(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}

	if got := eventName("onMouseDown"); got != "mousedown" {
		t.Errorf("eventName(onMouseDown) = %q", got)
	}
	if isProperty(ChildrenKey) {
		t.Error("children must not be a property")
	}
}

func TestApplyPropsOrder(t *testing.T) {
	host := &recordingHost{}
	e := &Engine{host: host}
	node := &recNode{name: "n"}

	prev := Props{"onClick": func() {}, "id": "a", "title": "t", "keep": 1}
	next := Props{"onClick": func() {}, "id": "b", "className": "c", "keep": 1, ChildrenKey: []*Element{}}

	e.applyProps(node, prev, next)

	want := []string{
		"unlisten n click",
		"remove n title",
		"set n className=c",
		"set n id=b",
		"listen n click",
	}
	if diff := cmp.Diff(want, host.calls); diff != "" {
		t.Errorf("host calls mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPropsFromEmpty(t *testing.T) {
	host := &recordingHost{}
	e := &Engine{host: host}
	node := &recNode{name: "n"}

	e.applyProps(node, nil, Props{"b": 2, "a": 1, "onInput": func() {}, "onBlur": nil})

	want := []string{"set n a=1", "set n b=2", "listen n input"}
	if diff := cmp.Diff(want, host.calls); diff != "" {
		t.Errorf("host calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPropsEqual(t *testing.T) {
	fn := func() {}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same string", "a", "a", true},
		{"different string", "a", "b", false},
		{"int vs int64", 1, int64(1), false},
		{"same float", 1.5, 1.5, true},
		{"bools", true, false, false},
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, "", false},
		{"slices", []string{"a"}, []string{"a"}, true},
		{"maps", map[string]int{"a": 1}, map[string]int{"a": 2}, false},
		{"same func", fn, fn, false},
	}
	for _, tt := range tests {
		if got := propsEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: propsEqual = %v, want %v", tt.name, got, tt.want)
		}
	}
}
