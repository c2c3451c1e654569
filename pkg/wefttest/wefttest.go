// Package wefttest provides a test harness for weft components.
//
// A Harness wires an engine to an in-memory document and a manual
// scheduler, so tests decide exactly when slots run:
//
//	func TestCounter(t *testing.T) {
//	    h := wefttest.New(t, 0)
//	    h.MustRender(weft.CreateElement(Counter, nil))
//	    h.ExpectHTML(`<button>0</button>`)
//
//	    h.Click("inc")
//	    h.ExpectHTML(`<button>1</button>`)
//	}
//
// A budget of 0 lets each slot run to completion; a positive budget caps
// the number of fibers processed per slot.
package wefttest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/weft/pkg/memdom"
	"github.com/vango-dev/weft/pkg/sched"
	"github.com/vango-dev/weft/pkg/weft"
)

// Harness is an engine rendering one root into a memdom container.
type Harness struct {
	t testing.TB

	Doc       *memdom.Document
	Container *memdom.Node
	Sched     *sched.Manual
	Engine    *weft.Engine
	Root      *weft.Root
}

// New creates a harness whose scheduler grants budget fibers per slot.
// Engine logs are discarded unless opts set a logger.
func New(t testing.TB, budget int, opts ...weft.Option) *Harness {
	t.Helper()
	doc := memdom.NewDocument()
	container := doc.CreateElement("div")
	s := sched.NewManual(budget)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]weft.Option{weft.WithLogger(quiet)}, opts...)
	engine := weft.NewEngine(doc, s, opts...)

	return &Harness{
		t:         t,
		Doc:       doc,
		Container: container,
		Sched:     s,
		Engine:    engine,
		Root:      engine.CreateRoot(container),
	}
}

// Render schedules el without running any slot.
func (h *Harness) Render(el *weft.Element) error {
	return h.Root.Render(el)
}

// Flush runs fn, then every slot until the engine is idle, and returns the
// errors of passes aborted meanwhile.
func (h *Harness) Flush(fn func()) error {
	return h.Engine.Flush(context.Background(), fn)
}

// MustFlush is Flush failing the test on error.
func (h *Harness) MustFlush(fn func()) {
	h.t.Helper()
	if err := h.Flush(fn); err != nil {
		h.t.Fatalf("flush failed: %v", err)
	}
}

// MustRender renders el and flushes, failing the test on any error.
func (h *Harness) MustRender(el *weft.Element) {
	h.t.Helper()
	h.MustFlush(func() {
		if err := h.Root.Render(el); err != nil {
			h.t.Fatalf("render failed: %v", err)
		}
	})
}

// HTML returns the container's inner HTML.
func (h *Harness) HTML() string {
	return h.Container.InnerHTML()
}

// ExpectHTML asserts the container's inner HTML.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("container HTML mismatch:\n got: %s\nwant: %s", got, want)
	}
}

// ExpectContains asserts that the container's HTML contains substr.
func (h *Harness) ExpectContains(substr string) {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, substr) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", substr, html)
	}
}

// ByID returns the rendered node with the given id, failing the test if
// there is none.
func (h *Harness) ByID(id string) *memdom.Node {
	h.t.Helper()
	n := h.Container.ByID(id)
	if n == nil {
		h.t.Fatalf("no element with id %q in:\n%s", id, h.HTML())
	}
	return n
}

// Click dispatches a click on the element with the given id and flushes the
// resulting passes.
func (h *Harness) Click(id string) {
	h.t.Helper()
	n := h.ByID(id)
	h.MustFlush(func() {
		if err := n.Click(); err != nil {
			h.t.Fatalf("click #%s: %v", id, err)
		}
	})
}
