package sched

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/weft/pkg/weft"
)

func TestManualDeadlineBudget(t *testing.T) {
	tests := []struct {
		budget int
		want   int
	}{
		{budget: 1, want: 1},
		{budget: 3, want: 3},
		{budget: 0, want: 1000},
		{budget: -1, want: 1000},
	}

	for _, tt := range tests {
		m := NewManual(tt.budget)
		var granted int
		m.RequestUnit(func(d weft.Deadline) {
			for granted < 1000 && d.TimeRemaining() > 0 {
				granted++
			}
		})
		m.RunNext()
		if granted != tt.want {
			t.Errorf("budget %d: granted %d, want %d", tt.budget, granted, tt.want)
		}
	}
}

func TestManualOrderAndCancel(t *testing.T) {
	m := NewManual(1)
	var ran []string
	m.RequestUnit(func(weft.Deadline) { ran = append(ran, "a") })
	h := m.RequestUnit(func(weft.Deadline) { ran = append(ran, "b") })
	m.RequestUnit(func(weft.Deadline) { ran = append(ran, "c") })
	m.CancelUnit(h)

	if m.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", m.Pending())
	}
	for m.RunNext() {
	}
	if diff := cmp.Diff([]string{"a", "c"}, ran); diff != "" {
		t.Errorf("run order mismatch (-want +got):\n%s", diff)
	}
	if m.Slots() != 2 {
		t.Errorf("Slots() = %d, want 2", m.Slots())
	}
	if m.RunNext() {
		t.Error("RunNext() on empty queue = true")
	}
}

func TestManualFlushRunsChainedUnits(t *testing.T) {
	m := NewManual(1)
	remaining := 5
	var step func(weft.Deadline)
	step = func(weft.Deadline) {
		remaining--
		if remaining > 0 {
			m.RequestUnit(step)
		}
	}

	err := m.Flush(context.Background(), func() { m.RequestUnit(step) })
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", m.Pending())
	}
}

func TestManualFlushGivesUp(t *testing.T) {
	m := NewManual(1)
	m.maxSlots = 10
	var forever func(weft.Deadline)
	forever = func(weft.Deadline) { m.RequestUnit(forever) }

	if err := m.Flush(context.Background(), func() { m.RequestUnit(forever) }); err == nil {
		t.Fatal("Flush() should fail for endless work")
	}
}

func TestManualFlushContext(t *testing.T) {
	m := NewManual(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Flush(ctx, func() { m.RequestUnit(func(weft.Deadline) {}) })
	if err != context.Canceled {
		t.Errorf("Flush() error = %v, want context.Canceled", err)
	}
}

func TestCountdownValues(t *testing.T) {
	c := &countdown{left: 2}
	got := []time.Duration{c.TimeRemaining(), c.TimeRemaining(), c.TimeRemaining()}
	want := []time.Duration{2 * time.Millisecond, time.Millisecond, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TimeRemaining mismatch (-want +got):\n%s", diff)
	}
}
