package weft

import (
	"fmt"
	"reflect"
)

// hookKind records which hook created a slot, so a render calling a
// different hook at the same position is caught.
type hookKind uint8

const (
	hookState hookKind = iota + 1
	hookReducer
)

func (k hookKind) String() string {
	switch k {
	case hookState:
		return "UseState"
	case hookReducer:
		return "UseReducer"
	default:
		return "unknown"
	}
}

// action is a queued state change: a replacement value, or an updater
// applied to the running state.
type action struct {
	value  any
	update func(any) any
}

func (a action) apply(state any) any {
	if a.update != nil {
		return a.update(state)
	}
	return a.value
}

// hookCell is the part of a hook slot that outlives a single render: the
// pending action queue. Every render of the slot shares one cell, so a
// dispatch always lands on the committed slot's queue. Actions are removed
// only when the render that consumed them commits; an aborted or discarded
// pass leaves them queued.
type hookCell struct {
	root      *Root
	queue     []action
	unmounted bool
}

func (c *hookCell) dispatch(a action) {
	e := c.root.engine
	if c.unmounted {
		e.logger.Debug("weft: dispatch on unmounted component ignored", "root", c.root.id)
		return
	}
	c.queue = append(c.queue, a)
	e.recorder.HookAction()
	c.root.begin()
}

func (c *hookCell) unmount() {
	c.unmounted = true
	c.queue = nil
}

// hook is one positional state slot of a component fiber.
type hook struct {
	kind     hookKind
	typ      reflect.Type
	state    any
	cell     *hookCell
	consumed int // queued actions folded into state by this render
}

// commit drops the actions this render consumed.
func (h *hook) commit() {
	if h.consumed == 0 {
		return
	}
	if h.consumed >= len(h.cell.queue) {
		h.cell.queue = nil
		h.consumed = 0
		return
	}
	h.cell.queue = append([]action(nil), h.cell.queue[h.consumed:]...)
	h.consumed = 0
}

// Ctx is handed to a component's render function and gives access to its
// hook slots. It is valid only for the duration of that call.
type Ctx struct {
	root   *Root
	fiber  *fiber
	prev   *fiber
	name   string
	cursor int
	done   bool
}

// Component returns the name of the component being rendered.
func (c *Ctx) Component() string {
	return c.name
}

// use returns the state of the next hook slot. On an update it starts from
// the previous render's state and applies every queued action in order.
// The slot must be called with the same hook kind and state type as before.
func (c *Ctx) use(kind hookKind, typ reflect.Type, initial any) (any, *hookCell) {
	if c.done {
		panic(hookOutsideRender{})
	}
	idx := c.cursor
	c.cursor++

	if c.prev == nil {
		cell := &hookCell{root: c.root}
		c.fiber.hooks = append(c.fiber.hooks, hook{kind: kind, typ: typ, state: initial, cell: cell})
		return initial, cell
	}

	if idx >= len(c.prev.hooks) {
		panic(&HookOrderError{Component: c.name, Index: idx, Want: "none", Got: kind.String()})
	}
	old := c.prev.hooks[idx]
	if old.kind != kind {
		panic(&HookOrderError{Component: c.name, Index: idx, Want: old.kind.String(), Got: kind.String()})
	}
	if old.typ != typ {
		panic(&HookOrderError{
			Component: c.name,
			Index:     idx,
			Want:      fmt.Sprintf("%s[%v]", old.kind, old.typ),
			Got:       fmt.Sprintf("%s[%v]", kind, typ),
		})
	}

	state := old.state
	for _, a := range old.cell.queue {
		state = a.apply(state)
	}
	c.fiber.hooks = append(c.fiber.hooks, hook{
		kind:     kind,
		typ:      typ,
		state:    state,
		cell:     old.cell,
		consumed: len(old.cell.queue),
	})
	return state, old.cell
}

// finish checks that no hook of the previous render was skipped.
func (c *Ctx) finish() {
	if c.prev != nil && c.cursor < len(c.prev.hooks) {
		panic(&HookOrderError{
			Component: c.name,
			Index:     c.cursor,
			Want:      c.prev.hooks[c.cursor].kind.String(),
			Got:       "none",
		})
	}
}

// Setter updates one state slot. Its identity is stable across renders:
// setters returned for the same slot compare equal.
type Setter[T any] struct {
	cell *hookCell
}

// Set queues a replacement value and schedules a pass.
func (s Setter[T]) Set(v T) {
	s.cell.dispatch(action{value: v})
}

// Update queues fn to be applied to the state as of the preceding queued
// actions, and schedules a pass.
func (s Setter[T]) Update(fn func(T) T) {
	s.cell.dispatch(action{update: func(state any) any {
		v, _ := state.(T)
		return fn(v)
	}})
}

// Dispatch accepts either a T or a func(T) T.
func (s Setter[T]) Dispatch(a any) {
	switch v := a.(type) {
	case func(T) T:
		s.Update(v)
	case T:
		s.Set(v)
	default:
		panic(fmt.Sprintf("weft: Dispatch on %s setter got %T", s.typeName(), a))
	}
}

func (s Setter[T]) typeName() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// UseState returns the slot's current state and its setter. initial is used
// only on the first render of this component position.
func UseState[T any](c *Ctx, initial T) (T, Setter[T]) {
	state, cell := c.use(hookState, reflect.TypeFor[T](), initial)
	v, _ := state.(T)
	return v, Setter[T]{cell: cell}
}

// UseReducer is UseState whose dispatch applies reducer to the running state.
func UseReducer[S, A any](c *Ctx, reducer func(S, A) S, initial S) (S, func(A)) {
	state, cell := c.use(hookReducer, reflect.TypeFor[S](), initial)
	set := Setter[S]{cell: cell}
	v, _ := state.(S)
	return v, func(a A) {
		set.Update(func(s S) S { return reducer(s, a) })
	}
}
