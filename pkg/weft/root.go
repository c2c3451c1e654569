package weft

// Root renders into one host container. It holds the committed tree, the
// tree under construction, and the deletions collected for the next commit.
type Root struct {
	engine    *Engine
	id        int
	container Node

	// children are the top-level elements every pass starts from.
	children []*Element

	current   *tree
	wip       *tree
	next      fiberID
	deletions []fiberID

	queued     bool
	restart    bool
	restarts   int
	restartErr error
	last       CommitStats
}

// Container returns the host node this root renders into.
func (r *Root) Container() Node {
	return r.container
}

// Pending reports whether a pass for this root is in flight.
func (r *Root) Pending() bool {
	return r.wip != nil
}

// LastCommit returns the effect counts of the most recent commit.
func (r *Root) LastCommit() CommitStats {
	return r.last
}

// Render schedules a pass rendering el into the container. The host is not
// touched until that pass commits. A pass already in flight is discarded.
// Render(nil) schedules removal of everything rendered so far.
//
// el is validated synchronously; component output is validated when the
// work loop first visits it.
func (r *Root) Render(el *Element) error {
	if err := Validate(el); err != nil {
		return err
	}
	if el == nil {
		r.children = nil
	} else {
		r.children = []*Element{el}
	}
	r.begin()
	return nil
}

// Unmount synchronously removes everything this root committed, discards
// any pass in flight and detaches every hook so later dispatches are no-ops.
func (r *Root) Unmount() {
	r.discard()
	r.engine.dequeue(r)
	r.children = nil

	cur := r.current
	if cur == nil {
		return
	}
	for c := cur.get(topFiber).child; c != noFiber; c = cur.get(c).sibling {
		r.removeHostNodes(cur, c, r.container)
	}
	cur.walk(topFiber, unmountHooks)
	r.current = nil
}

// begin starts a fresh pass from the committed tree plus whatever hook
// actions are queued. An in-flight pass is dropped, never spliced.
func (r *Root) begin() {
	e := r.engine
	if e.rendering && e.active() == r {
		// Dispatch from inside a render: finish this pass, then rerun.
		r.restart = true
		f := r.wip.get(e.renderID)
		r.restartErr = &ComponentRenderError{
			Component: f.component.Name,
			Path:      r.wip.path(e.renderID),
			Value:     ErrTooManyRenders,
			render:    f.component.Render,
		}
		return
	}
	if r.wip != nil {
		e.logger.Debug("weft: discarding in-flight pass", "root", r.id)
		e.recorder.PassDiscarded()
	}

	top := &fiber{
		kind:      KindHost,
		props:     Props{},
		children:  r.children,
		node:      r.container,
		parent:    noFiber,
		child:     noFiber,
		sibling:   noFiber,
		alternate: noFiber,
	}
	if r.current != nil {
		top.alternate = topFiber
	}
	r.wip = newTree(top)
	r.next = topFiber
	r.deletions = nil

	e.logger.Debug("weft: pass scheduled", "root", r.id)
	e.enqueue(r)
}

// discard drops the work-in-progress tree.
func (r *Root) discard() {
	r.wip = nil
	r.next = noFiber
	r.deletions = nil
	r.restart = false
}
