// Package sched provides scheduling adapters for the weft engine.
//
// Manual is deterministic: units run only when the caller asks, and each
// deadline grants a fixed number of fibers. It backs tests and the
// wefttest harness.
//
// Loop runs units on a dedicated goroutine, emulating an idle callback: a
// unit fires after a short delay and its deadline expires a fixed budget
// after it was requested. External goroutines reach the engine through
// Loop.Do and Loop.Post.
//
//	loop := sched.NewLoop(sched.WithBudget(50 * time.Millisecond))
//	defer loop.Close()
//	engine := weft.NewEngine(doc, loop)
//	err := engine.Flush(ctx, func() { root.Render(app) })
package sched
