package sched

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/weft/pkg/weft"
)

// Defaults mirror a browser idle callback: a unit starts about a
// millisecond after it is requested and may run until 50ms after the
// request.
const (
	DefaultDelay  = time.Millisecond
	DefaultBudget = 50 * time.Millisecond
)

// ErrClosed is returned when work is submitted to a closed Loop.
var ErrClosed = errors.New("sched: loop closed")

var _ interface {
	weft.Scheduler
	weft.Flusher
} = (*Loop)(nil)

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithDelay sets how long a requested unit waits before running.
func WithDelay(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d >= 0 {
			l.delay = d
		}
	}
}

// WithBudget sets how long after its request a unit's deadline expires.
func WithBudget(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.budget = d
		}
	}
}

// WithLoopLogger sets the logger used for recovered task panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

type timedUnit struct {
	callback func(weft.Deadline)
	deadline time.Time
	timer    *time.Timer
}

// Loop runs tasks and scheduled units on a single goroutine.
//
// RequestUnit and CancelUnit must be called on the loop goroutine, which is
// where the engine runs when it is driven through Do, Post or Flush.
type Loop struct {
	delay  time.Duration
	budget time.Duration
	logger *slog.Logger

	ingressMu sync.Mutex
	ingress   []func()
	wake      chan struct{}

	stopOnce sync.Once
	stop     chan struct{}
	loopDone chan struct{}

	// Owned by the loop goroutine.
	units   map[weft.Handle]*timedUnit
	next    weft.Handle
	waiters []chan struct{}
}

// NewLoop starts a loop goroutine. Call Close to stop it.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		delay:    DefaultDelay,
		budget:   DefaultBudget,
		logger:   slog.Default(),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
		units:    make(map[weft.Handle]*timedUnit),
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.loopDone)
	for {
		select {
		case <-l.stop:
			l.shutdown()
			return
		case <-l.wake:
		}
		for _, fn := range l.drain() {
			l.safeExecute(fn)
		}
	}
}

func (l *Loop) drain() []func() {
	l.ingressMu.Lock()
	defer l.ingressMu.Unlock()
	tasks := l.ingress
	l.ingress = nil
	return tasks
}

// shutdown stops pending timers and releases Flush waiters.
func (l *Loop) shutdown() {
	for h, u := range l.units {
		u.timer.Stop()
		delete(l.units, h)
	}
	for _, ch := range l.waiters {
		close(ch)
	}
	l.waiters = nil
}

// safeExecute runs a task, logging instead of crashing the loop if it
// panics.
func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("sched: task panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stop:
		return ErrClosed
	default:
	}

	l.ingressMu.Lock()
	l.ingress = append(l.ingress, fn)
	l.ingressMu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	return l.wait(ctx, done)
}

// Flush implements weft.Flusher. It runs fn on the loop goroutine, then
// waits until no unit is pending.
func (l *Loop) Flush(ctx context.Context, fn func()) error {
	idle := make(chan struct{})
	if err := l.Post(func() {
		fn()
		if len(l.units) == 0 {
			close(idle)
			return
		}
		l.waiters = append(l.waiters, idle)
	}); err != nil {
		return err
	}
	return l.wait(ctx, idle)
}

func (l *Loop) wait(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.loopDone:
		return ErrClosed
	}
}

// RequestUnit implements weft.Scheduler.
func (l *Loop) RequestUnit(callback func(weft.Deadline)) weft.Handle {
	l.next++
	h := l.next
	u := &timedUnit{
		callback: callback,
		deadline: time.Now().Add(l.budget),
	}
	u.timer = time.AfterFunc(l.delay, func() {
		// The loop may be closed by the time the timer fires.
		_ = l.Post(func() { l.runUnit(h) })
	})
	l.units[h] = u
	return h
}

// CancelUnit implements weft.Scheduler.
func (l *Loop) CancelUnit(h weft.Handle) {
	u, ok := l.units[h]
	if !ok {
		return
	}
	u.timer.Stop()
	delete(l.units, h)
	l.notifyIdle()
}

func (l *Loop) runUnit(h weft.Handle) {
	u, ok := l.units[h]
	if !ok {
		return
	}
	delete(l.units, h)
	defer l.notifyIdle()
	u.callback(wallDeadline(u.deadline))
}

func (l *Loop) notifyIdle() {
	if len(l.units) > 0 {
		return
	}
	for _, ch := range l.waiters {
		close(ch)
	}
	l.waiters = nil
}

// Close stops the loop and waits for its goroutine to exit. Pending units
// are dropped.
func (l *Loop) Close() error {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.loopDone
	return nil
}

type wallDeadline time.Time

func (d wallDeadline) TimeRemaining() time.Duration {
	return max(0, time.Until(time.Time(d)))
}
