package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/weft/pkg/weft"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestCollectorRecords(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))

	c.SlotRan(4)
	c.SlotRan(3)
	c.PassCommitted(weft.CommitStats{Placements: 3, Updates: 2, Deletions: 1, Duration: time.Millisecond})
	c.PassAborted("hook_order")
	c.PassDiscarded()
	c.HookAction()
	c.HookAction()

	tests := []struct {
		name string
		c    prometheus.Counter
		want float64
	}{
		{"slots", c.slotsTotal, 2},
		{"fibers", c.fibersProcessed, 7},
		{"committed", c.passesTotal.WithLabelValues("committed"), 1},
		{"aborted", c.passesTotal.WithLabelValues("aborted"), 1},
		{"discarded", c.passesTotal.WithLabelValues("discarded"), 1},
		{"abort reason", c.abortsTotal.WithLabelValues("hook_order"), 1},
		{"placements", c.effectsTotal.WithLabelValues("placement"), 3},
		{"updates", c.effectsTotal.WithLabelValues("update"), 2},
		{"deletions", c.effectsTotal.WithLabelValues("deletion"), 1},
		{"hook actions", c.hookActions, 2},
	}
	for _, tt := range tests {
		if got := metricCounterValue(t, tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
	if got := metricHistogramCount(t, c.commitDuration); got != 1 {
		t.Errorf("commit_duration_seconds count = %d, want 1", got)
	}
}

func TestCollectorRegistersNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("app"), WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}), WithBuckets([]float64{0.001, 0.01}))
	c.PassDiscarded()
	c.PassCommitted(weft.CommitStats{})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
		for _, m := range f.GetMetric() {
			found := false
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "env" && lp.GetValue() == "test" {
					found = true
				}
			}
			if !found {
				t.Errorf("%s missing const label env=test", f.GetName())
			}
		}
	}
	for _, want := range []string{
		"app_ui_passes_total",
		"app_ui_effects_total",
		"app_ui_commit_duration_seconds",
		"app_ui_slots_total",
		"app_ui_fibers_processed_total",
		"app_ui_hook_actions_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}

func TestCollectorDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(WithRegistry(reg))
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	New(WithRegistry(reg))
}
