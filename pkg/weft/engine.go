package weft

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Engine owns everything a render pass touches: the host adapter, the
// scheduler, and the queue of roots waiting for a pass. Exactly one pass is
// in flight at a time; other roots wait in FIFO order.
//
// An Engine is not safe for concurrent use. All calls, including hook
// dispatches from event handlers, must happen on the scheduler's execution
// context (see sched.Loop.Do).
type Engine struct {
	host     Host
	sched    Scheduler
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
	onError  func(error)

	queue     []*Root
	handle    Handle
	scheduled bool
	rendering bool
	renderID  fiberID
	rootSeq   int

	// errs collects aborted pass errors until the next Flush returns them.
	// Flush may be waiting on another goroutine, hence the lock.
	mu   sync.Mutex
	errs []error
}

// maxRestarts bounds how many passes in a row a root may rerun because a
// component dispatched while rendering.
const maxRestarts = 50

// NewEngine creates an engine that mutates host and runs on sched.
func NewEngine(host Host, sched Scheduler, opts ...Option) *Engine {
	e := &Engine{
		host:     host,
		sched:    sched,
		logger:   slog.Default(),
		recorder: nopRecorder{},
		tracer:   defaultTracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateRoot creates a root rendering into container. The engine takes
// ownership of container's children.
func (e *Engine) CreateRoot(container Node) *Root {
	e.rootSeq++
	return &Root{
		engine:    e,
		id:        e.rootSeq,
		container: container,
		next:      noFiber,
	}
}

// Idle reports whether no root has a pass pending.
func (e *Engine) Idle() bool {
	return len(e.queue) == 0
}

// Flush runs fn on the scheduler's execution context, then waits until every
// scheduled pass has committed or aborted. It returns the errors of passes
// aborted since the previous Flush, joined.
func (e *Engine) Flush(ctx context.Context, fn func()) error {
	f, ok := e.sched.(Flusher)
	if !ok {
		return ErrNoFlusher
	}
	if fn == nil {
		fn = func() {}
	}
	if err := f.Flush(ctx, fn); err != nil {
		return err
	}
	return e.takeErrors()
}

func (e *Engine) takeErrors() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := errors.Join(e.errs...)
	e.errs = nil
	return err
}

// active returns the root whose pass is in flight.
func (e *Engine) active() *Root {
	if len(e.queue) == 0 {
		return nil
	}
	return e.queue[0]
}

func (e *Engine) enqueue(r *Root) {
	if !r.queued {
		r.queued = true
		e.queue = append(e.queue, r)
	}
	e.ensureScheduled()
}

func (e *Engine) dequeue(r *Root) {
	if !r.queued {
		return
	}
	r.queued = false
	if i := slices.Index(e.queue, r); i >= 0 {
		e.queue = slices.Delete(e.queue, i, i+1)
	}
	if len(e.queue) == 0 && e.scheduled {
		e.sched.CancelUnit(e.handle)
		e.scheduled = false
	}
}

func (e *Engine) ensureScheduled() {
	if e.scheduled || len(e.queue) == 0 {
		return
	}
	e.scheduled = true
	e.handle = e.sched.RequestUnit(e.step)
}

// step is the scheduler callback. It processes fibers while the slot has
// budget, commits every pass that runs out of fibers, and requests another
// slot if work remains.
func (e *Engine) step(d Deadline) {
	e.scheduled = false

	ctx, span := e.tracer.Start(context.Background(), "weft.slot")
	defer span.End()

	processed := 0
	for len(e.queue) > 0 {
		r := e.queue[0]
		for r.next != noFiber && d.TimeRemaining() > 0 {
			if err := r.performUnitOfWork(); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "render pass aborted")
				e.abort(r, err)
				break
			}
			processed++
		}
		if r.wip == nil {
			continue
		}
		if r.next != noFiber {
			break
		}
		e.dequeue(r)
		e.commit(ctx, r)
		if !r.restart {
			r.restarts = 0
			continue
		}
		r.restart = false
		r.restarts++
		if r.restarts > maxRestarts {
			err := r.restartErr
			r.restarts = 0
			span.RecordError(err)
			span.SetStatus(codes.Error, "render loop")
			e.abort(r, err)
			continue
		}
		// A rerun always starts in a new slot.
		r.begin()
		break
	}

	span.SetAttributes(
		attribute.Int("weft.fibers", processed),
		attribute.Int("weft.pending_roots", len(e.queue)),
	)
	e.recorder.SlotRan(processed)
	e.ensureScheduled()
}

// abort discards r's pass and records err for the next Flush.
func (e *Engine) abort(r *Root, err error) {
	r.discard()
	e.dequeue(r)

	e.logger.Warn("weft: render pass aborted", "root", r.id, "error", err)
	e.recorder.PassAborted(abortReason(err))

	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()

	if e.onError != nil {
		e.onError(err)
	}
}

func abortReason(err error) string {
	switch {
	case errors.Is(err, ErrComponentRender):
		return "component_render"
	case errors.Is(err, ErrInvalidElement):
		return "invalid_element"
	case errors.Is(err, ErrHookOrder):
		return "hook_order"
	default:
		return "unknown"
	}
}
