package weft

import "time"

// CommitStats summarizes the effects flushed by one commit.
type CommitStats struct {
	Placements int
	Updates    int
	Deletions  int
	Fibers     int
	Duration   time.Duration
}

// Recorder receives engine measurements. pkg/metrics provides a Prometheus
// implementation.
type Recorder interface {
	SlotRan(fibers int)
	PassCommitted(stats CommitStats)
	PassAborted(reason string)
	PassDiscarded()
	HookAction()
}

type nopRecorder struct{}

func (nopRecorder) SlotRan(int)               {}
func (nopRecorder) PassCommitted(CommitStats) {}
func (nopRecorder) PassAborted(string)        {}
func (nopRecorder) PassDiscarded()            {}
func (nopRecorder) HookAction()               {}
