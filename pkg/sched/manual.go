package sched

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/vango-dev/weft/pkg/weft"
)

// DefaultMaxSlots bounds Manual.Flush so a callback that requests a new unit
// every time it runs cannot spin forever.
const DefaultMaxSlots = 100000

var _ interface {
	weft.Scheduler
	weft.Flusher
} = (*Manual)(nil)

type unit struct {
	handle   weft.Handle
	callback func(weft.Deadline)
}

// Manual is a deterministic scheduler. Every deadline it hands out answers
// TimeRemaining with a positive value exactly budget times, then zero, so a
// slot processes at most budget fibers. A budget <= 0 never expires.
//
// Manual is not safe for concurrent use.
type Manual struct {
	budget   int
	maxSlots int
	next     weft.Handle
	units    []unit
	slots    int
}

// NewManual creates a manual scheduler granting budget fibers per slot.
func NewManual(budget int) *Manual {
	return &Manual{budget: budget, maxSlots: DefaultMaxSlots}
}

// SetBudget changes the budget of slots run from now on.
func (m *Manual) SetBudget(budget int) {
	m.budget = budget
}

// RequestUnit implements weft.Scheduler.
func (m *Manual) RequestUnit(callback func(weft.Deadline)) weft.Handle {
	m.next++
	m.units = append(m.units, unit{handle: m.next, callback: callback})
	return m.next
}

// CancelUnit implements weft.Scheduler.
func (m *Manual) CancelUnit(h weft.Handle) {
	m.units = slices.DeleteFunc(m.units, func(u unit) bool { return u.handle == h })
}

// Pending returns the number of requested units not yet run.
func (m *Manual) Pending() int {
	return len(m.units)
}

// Slots returns the number of units run so far.
func (m *Manual) Slots() int {
	return m.slots
}

// RunNext runs the oldest pending unit. It reports false if none was
// pending.
func (m *Manual) RunNext() bool {
	if len(m.units) == 0 {
		return false
	}
	u := m.units[0]
	m.units = m.units[1:]
	m.slots++
	u.callback(&countdown{left: m.budget, unlimited: m.budget <= 0})
	return true
}

// Flush implements weft.Flusher: it calls fn, then runs units until none
// remain.
func (m *Manual) Flush(ctx context.Context, fn func()) error {
	fn()
	for ran := 0; m.RunNext(); ran++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ran >= m.maxSlots {
			return fmt.Errorf("sched: still busy after %d slots", ran)
		}
	}
	return nil
}

// countdown is a deadline measured in TimeRemaining calls.
type countdown struct {
	left      int
	unlimited bool
}

func (c *countdown) TimeRemaining() time.Duration {
	if c.unlimited {
		return time.Hour
	}
	if c.left <= 0 {
		return 0
	}
	c.left--
	return time.Duration(c.left+1) * time.Millisecond
}
