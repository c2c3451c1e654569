package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/pkg/memdom"
	"github.com/vango-dev/weft/pkg/sched"
	"github.com/vango-dev/weft/pkg/weft"
)

// runner is a scheduler the CLI can drive from any goroutine.
type runner interface {
	weft.Scheduler
	weft.Flusher
	Do(ctx context.Context, fn func()) error
	Close() error
}

// manualRunner runs a Manual scheduler on the calling goroutine.
type manualRunner struct {
	*sched.Manual
}

func (manualRunner) Do(_ context.Context, fn func()) error {
	fn()
	return nil
}

func (manualRunner) Close() error { return nil }

// newRunner builds the scheduler selected by cfg.
func newRunner(cfg *config.Config, logger *slog.Logger) runner {
	if cfg.Engine.Scheduler == config.SchedulerManual {
		return manualRunner{sched.NewManual(cfg.Engine.ManualBudget)}
	}
	return sched.NewLoop(
		sched.WithBudget(cfg.Engine.SlotBudget),
		sched.WithDelay(cfg.Engine.SlotDelay),
		sched.WithLoopLogger(logger),
	)
}

// session is one engine rendering one document into its own memdom
// container.
type session struct {
	run       runner
	doc       *memdom.Document
	container *memdom.Node
	engine    *weft.Engine
	root      *weft.Root
}

func newSession(run runner, opts ...weft.Option) *session {
	doc := memdom.NewDocument()
	s := &session{
		run:       run,
		doc:       doc,
		container: doc.CreateElement("div"),
	}
	s.engine = weft.NewEngine(doc, run, opts...)
	return s
}

// render renders el and waits for every pass to finish.
func (s *session) render(ctx context.Context, el *weft.Element) error {
	var renderErr error
	err := s.engine.Flush(ctx, func() {
		if s.root == nil {
			s.root = s.engine.CreateRoot(s.container)
		}
		renderErr = s.root.Render(el)
	})
	if renderErr != nil {
		return renderErr
	}
	return err
}

// dispatch fires event on the element with the given id and waits for the
// passes it triggers.
func (s *session) dispatch(ctx context.Context, id, event string, data map[string]any) error {
	var dispatchErr error
	err := s.engine.Flush(ctx, func() {
		n := s.container.ByID(id)
		if n == nil {
			dispatchErr = fmt.Errorf("no element with id %q", id)
			return
		}
		dispatchErr = n.Dispatch(event, data)
	})
	if dispatchErr != nil {
		return dispatchErr
	}
	return err
}

// html serializes the container on the scheduler's goroutine.
func (s *session) html(ctx context.Context) (string, error) {
	var out string
	err := s.run.Do(ctx, func() { out = s.container.InnerHTML() })
	return out, err
}

// stats returns the root's last commit counts.
func (s *session) stats(ctx context.Context) (weft.CommitStats, error) {
	var st weft.CommitStats
	err := s.run.Do(ctx, func() {
		if s.root != nil {
			st = s.root.LastCommit()
		}
	})
	return st, err
}

func (s *session) close() {
	_ = s.run.Do(context.Background(), func() {
		if s.root != nil {
			s.root.Unmount()
		}
	})
	_ = s.run.Close()
}
