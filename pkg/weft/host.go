package weft

import (
	"context"
	"time"
)

// Node is an opaque host tree node. The engine never inspects it; it only
// hands nodes back to the Host that created them.
type Node any

// Host mutates the target tree. The engine calls it only from the render
// phase (node creation) and the commit phase (everything else).
type Host interface {
	CreateHostNode(tag string) Node
	CreateTextNode(text string) Node
	SetProperty(node Node, key string, value any)
	RemoveProperty(node Node, key string)
	AddEventListener(node Node, event string, handler any)
	RemoveEventListener(node Node, event string, handler any)
	AppendChild(parent, child Node)
	RemoveChild(parent, child Node)
	ContainsChild(parent, child Node) bool
}

// Deadline reports how much of the current scheduling slot is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// Handle identifies a requested scheduling unit.
type Handle uint64

// Scheduler grants the work loop slots of time. RequestUnit arranges for
// callback to be invoked later, once, on the engine's execution context.
type Scheduler interface {
	RequestUnit(callback func(Deadline)) Handle
	CancelUnit(h Handle)
}

// Flusher is implemented by schedulers that can run fn on their execution
// context and then block until no units remain pending.
type Flusher interface {
	Flush(ctx context.Context, fn func()) error
}
