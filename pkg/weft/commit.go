package weft

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Inserter is an optional Host extension. When the host implements it,
// placements are inserted before the next already-attached sibling instead
// of appended, so a type change in the middle of a list keeps host order.
type Inserter interface {
	InsertBefore(parent, child, before Node)
}

// commit flushes r's finished work-in-progress tree to the host and makes
// it current. It never yields.
func (e *Engine) commit(ctx context.Context, r *Root) {
	_, span := e.tracer.Start(ctx, "weft.commit")
	defer span.End()

	start := time.Now()
	stats := CommitStats{Deletions: len(r.deletions)}

	for _, id := range r.deletions {
		r.commitDeletion(id)
	}

	wip := r.wip
	wip.walk(topFiber, func(id fiberID, f *fiber) {
		switch f.effect {
		case EffectPlacement:
			stats.Placements++
			if f.node != nil {
				e.applyProps(f.node, nil, f.props)
				e.attach(wip, id, f.node)
			}
		case EffectUpdate:
			stats.Updates++
			if f.node != nil {
				e.applyProps(f.node, r.current.get(f.alternate).props, f.props)
			}
		}
		for i := range f.hooks {
			f.hooks[i].commit()
		}
		f.alternate = noFiber
	})

	stats.Fibers = len(wip.fibers)
	r.current = wip
	r.wip = nil
	r.next = noFiber
	r.deletions = nil

	stats.Duration = time.Since(start)
	r.last = stats

	span.SetAttributes(
		attribute.Int("weft.root", r.id),
		attribute.Int("weft.placements", stats.Placements),
		attribute.Int("weft.updates", stats.Updates),
		attribute.Int("weft.deletions", stats.Deletions),
	)
	e.recorder.PassCommitted(stats)
	e.logger.Debug("weft: pass committed",
		"root", r.id,
		"fibers", stats.Fibers,
		"placements", stats.Placements,
		"updates", stats.Updates,
		"deletions", stats.Deletions,
		"duration", stats.Duration,
	)
}

// attach places node under the nearest host ancestor of id.
func (e *Engine) attach(t *tree, id fiberID, node Node) {
	parent := t.hostParent(id)
	if ins, ok := e.host.(Inserter); ok {
		if before := t.nextHostSibling(id); before != nil {
			ins.InsertBefore(parent, node, before)
			return
		}
	}
	e.host.AppendChild(parent, node)
}

// commitDeletion removes the host nodes of a fiber from the committed tree.
func (r *Root) commitDeletion(id fiberID) {
	cur := r.current
	r.removeHostNodes(cur, id, cur.hostParent(id))
	cur.walk(id, unmountHooks)
}

// removeHostNodes detaches the host node owned by id, or, for fibers that
// own none, the nodes of its children.
func (r *Root) removeHostNodes(t *tree, id fiberID, parent Node) {
	host := r.engine.host
	f := t.get(id)
	if f.node != nil {
		if parent != nil && host.ContainsChild(parent, f.node) {
			host.RemoveChild(parent, f.node)
		}
		return
	}
	for c := f.child; c != noFiber; c = t.get(c).sibling {
		r.removeHostNodes(t, c, parent)
	}
}

func unmountHooks(_ fiberID, f *fiber) {
	for i := range f.hooks {
		f.hooks[i].cell.unmount()
	}
}

// nextHostSibling returns the first host node after id, among nodes under
// the same host parent, that is already attached. Placements later in the
// walk are not attached yet and are skipped.
func (t *tree) nextHostSibling(id fiberID) Node {
	for cur := id; ; {
		for s := t.get(cur).sibling; s != noFiber; s = t.get(s).sibling {
			if n := t.firstAttached(s); n != nil {
				return n
			}
		}
		p := t.get(cur).parent
		if p == noFiber || t.get(p).node != nil {
			return nil
		}
		cur = p
	}
}

func (t *tree) firstAttached(id fiberID) Node {
	f := t.get(id)
	if f.effect == EffectPlacement {
		return nil
	}
	if f.node != nil {
		return f.node
	}
	for c := f.child; c != noFiber; c = t.get(c).sibling {
		if n := t.firstAttached(c); n != nil {
			return n
		}
	}
	return nil
}
