// Package weft is an incremental, fiber-based rendering engine.
//
// It turns a declarative Element tree into mutations on a mutable host tree
// (anything implementing Host) using two phases: an interruptible render
// phase that builds a work-in-progress fiber tree a few fibers at a time, and
// an atomic commit phase that flushes the resulting effects to the host.
//
// # Elements
//
// Elements are immutable descriptions built with CreateElement, Text and
// Func:
//
//	counter := weft.Func("Counter", func(c *weft.Ctx, props weft.Props) *weft.Element {
//	    n, set := weft.UseState(c, 0)
//	    return weft.CreateElement("button", weft.Props{
//	        "onClick": func() { set.Update(func(v int) int { return v + 1 }) },
//	    }, n)
//	})
//
// # Engine and roots
//
// An Engine owns the scheduler, the host adapter and all per-pass state.
// Each host container gets a Root:
//
//	engine := weft.NewEngine(doc, sched.NewManual(0))
//	root := engine.CreateRoot(container)
//	_ = root.Render(weft.CreateElement(counter, nil))
//	_ = engine.Flush(ctx, nil)
//
// Nothing reaches the host until a pass commits. A pass runs on the slots
// granted by the Scheduler and yields only between fibers; commit never
// yields.
//
// # Diffing
//
// Children are matched by position only. Same type at the same index is an
// update that keeps the host node; anything else is a placement plus a
// deletion. Reordering is not detected.
//
// # Hooks
//
// UseState and UseReducer keep per-component state in positional slots.
// Hooks must be called in the same order on every render; divergence aborts
// the pass with a HookOrderError.
package weft
