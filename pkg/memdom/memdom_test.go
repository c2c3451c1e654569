package memdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetPropertySerialization(t *testing.T) {
	tests := []struct {
		name  string
		props [][2]any
		want  string
	}{
		{"string", [][2]any{{"id", "foo"}}, `<div id="foo"></div>`},
		{"className maps to class", [][2]any{{"className", "btn"}}, `<div class="btn"></div>`},
		{"htmlFor maps to for", [][2]any{{"htmlFor", "name"}}, `<div for="name"></div>`},
		{"bool true is bare", [][2]any{{"disabled", true}}, `<div disabled></div>`},
		{"bool false is absent", [][2]any{{"disabled", true}, {"disabled", false}}, `<div></div>`},
		{"int", [][2]any{{"tabindex", 3}}, `<div tabindex="3"></div>`},
		{"overwrite keeps position", [][2]any{{"a", "1"}, {"b", "2"}, {"a", "3"}}, `<div a="3" b="2"></div>`},
		{"escaped", [][2]any{{"title", `"x" & <y>`}}, `<div title="&quot;x&quot; &amp; &lt;y&gt;"></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument()
			n := doc.CreateElement("div")
			for _, kv := range tt.props {
				doc.SetProperty(n, kv[0].(string), kv[1])
			}
			if got := n.OuterHTML(); got != tt.want {
				t.Errorf("OuterHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveProperty(t *testing.T) {
	doc := NewDocument()
	n := doc.CreateElement("div")
	doc.SetProperty(n, "className", "a")
	doc.SetProperty(n, "id", "x")
	doc.RemoveProperty(n, "className")

	if _, ok := n.Attr("class"); ok {
		t.Error("class should be removed")
	}
	if got := n.OuterHTML(); got != `<div id="x"></div>` {
		t.Errorf("OuterHTML() = %q", got)
	}
}

func TestTextNode(t *testing.T) {
	doc := NewDocument()
	n := doc.CreateText("a < b")
	if got := n.OuterHTML(); got != "a &lt; b" {
		t.Errorf("OuterHTML() = %q", got)
	}

	doc.SetProperty(n, "nodeValue", "changed")
	if n.Text != "changed" {
		t.Errorf("Text = %q, want changed", n.Text)
	}
	doc.RemoveProperty(n, "nodeValue")
	if n.Text != "" {
		t.Errorf("Text = %q, want empty", n.Text)
	}
}

func TestChildOperations(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateElement("div")
	a := doc.CreateElement("a")
	b := doc.CreateElement("b")
	c := doc.CreateElement("i")

	doc.AppendChild(root, a)
	doc.AppendChild(root, c)
	doc.InsertBefore(root, b, c)

	if got := root.InnerHTML(); got != "<a></a><b></b><i></i>" {
		t.Fatalf("InnerHTML() = %q", got)
	}
	if !doc.ContainsChild(root, b) {
		t.Error("ContainsChild(root, b) = false")
	}
	if b.Parent() != root {
		t.Error("b.Parent() != root")
	}

	doc.RemoveChild(root, b)
	if doc.ContainsChild(root, b) {
		t.Error("b still attached")
	}
	if b.Parent() != nil {
		t.Error("removed node keeps parent")
	}

	// Appending an attached node moves it.
	doc.AppendChild(root, a)
	if got := root.InnerHTML(); got != "<i></i><a></a>" {
		t.Errorf("InnerHTML() after move = %q", got)
	}

	// Inserting before a stranger appends.
	doc.InsertBefore(root, b, doc.CreateElement("p"))
	if got := root.InnerHTML(); got != "<i></i><a></a><b></b>" {
		t.Errorf("InnerHTML() after insert = %q", got)
	}
}

func TestVoidElements(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateElement("div")
	doc.AppendChild(root, doc.CreateElement("br"))
	doc.AppendChild(root, doc.CreateElement("input"))
	if got := root.InnerHTML(); got != "<br><input>" {
		t.Errorf("InnerHTML() = %q", got)
	}
}

func TestEventListeners(t *testing.T) {
	doc := NewDocument()
	btn := doc.CreateElement("button")

	var calls []string
	first := func() { calls = append(calls, "first") }
	second := func(e *Event) { calls = append(calls, "second:"+e.Type) }

	doc.AddEventListener(btn, "click", first)
	doc.AddEventListener(btn, "click", second)
	if btn.ListenerCount("click") != 2 {
		t.Fatalf("ListenerCount = %d, want 2", btn.ListenerCount("click"))
	}

	if err := btn.Click(); err != nil {
		t.Fatalf("Click() error = %v", err)
	}

	doc.RemoveEventListener(btn, "click", first)
	if err := btn.Click(); err != nil {
		t.Fatalf("Click() error = %v", err)
	}

	want := []string{"first", "second:click", "second:click"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveListenerDistinguishesClosures(t *testing.T) {
	doc := NewDocument()
	btn := doc.CreateElement("button")

	var calls []int
	handler := func(n int) func() {
		return func() { calls = append(calls, n) }
	}
	one, two := handler(1), handler(2)

	doc.AddEventListener(btn, "click", one)
	doc.AddEventListener(btn, "click", two)
	doc.RemoveEventListener(btn, "click", two)
	if err := btn.Click(); err != nil {
		t.Fatalf("Click() error = %v", err)
	}

	doc.RemoveEventListener(btn, "click", handler(1))
	if btn.ListenerCount("click") != 1 {
		t.Errorf("ListenerCount = %d, want 1 after removing an unregistered closure", btn.ListenerCount("click"))
	}

	doc.RemoveEventListener(btn, "click", one)
	if err := btn.Click(); err != nil {
		t.Fatalf("Click() error = %v", err)
	}

	if diff := cmp.Diff([]int{1}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchInput(t *testing.T) {
	doc := NewDocument()
	in := doc.CreateElement("input")

	var got string
	doc.AddEventListener(in, "input", func(v string) { got = v })
	if err := in.Input("hello"); err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("handler got %q, want hello", got)
	}
}

func TestDispatchUnsupportedHandler(t *testing.T) {
	doc := NewDocument()
	btn := doc.CreateElement("button")
	doc.AddEventListener(btn, "click", 42)
	if err := btn.Click(); err == nil {
		t.Error("expected error for unsupported handler")
	}
}

func TestQueries(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateElement("div")
	outer := doc.CreateElement("div")
	doc.SetProperty(outer, "id", "foo")
	inner := doc.CreateElement("span")
	doc.SetProperty(inner, "id", "bar")
	doc.AppendChild(root, outer)
	doc.AppendChild(outer, inner)
	doc.AppendChild(inner, doc.CreateText("hi"))

	if root.ByID("bar") != inner {
		t.Error("ByID(bar) did not find span")
	}
	if root.ByID("missing") != nil {
		t.Error("ByID(missing) should be nil")
	}
	if got := len(root.QueryAll("div")); got != 1 {
		t.Errorf("QueryAll(div) = %d nodes, want 1", got)
	}
	if got := root.TextContent(); got != "hi" {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestStats(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateElement("div")
	child := doc.CreateElement("p")
	doc.AppendChild(root, child)
	doc.RemoveChild(root, child)
	doc.RemoveChild(root, child)

	want := Stats{Created: 2, Attached: 1, Removed: 1}
	if diff := cmp.Diff(want, doc.Stats()); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}
	doc.ResetStats()
	if doc.Stats() != (Stats{}) {
		t.Error("ResetStats did not zero counters")
	}
}

func TestForeignNodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for foreign node")
		}
	}()
	NewDocument().AppendChild("not a node", "nor this")
}
