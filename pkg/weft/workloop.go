package weft

import "runtime/debug"

// performUnitOfWork processes r.next and advances r.next to the following
// fiber in depth-first pre-order.
func (r *Root) performUnitOfWork() error {
	id := r.next
	f := r.wip.get(id)
	host := r.engine.host

	switch f.kind {
	case KindComponent:
		child, err := r.renderComponent(id, f)
		if err != nil {
			return err
		}
		f.children = nil
		if child != nil {
			f.children = []*Element{child}
		}
	case KindHost:
		if f.node == nil {
			f.node = host.CreateHostNode(f.tag)
		}
	case KindText:
		if f.node == nil {
			text, _ := f.props[NodeValueKey].(string)
			f.node = host.CreateTextNode(text)
		}
	}

	if err := r.reconcileChildren(id, f.children); err != nil {
		return err
	}
	r.next = r.wip.next(id)
	return nil
}

// renderComponent calls the component's render function with a fresh hook
// cursor. Panics become ComponentRenderError, hook divergence HookOrderError.
func (r *Root) renderComponent(id fiberID, f *fiber) (child *Element, err error) {
	c := &Ctx{root: r, fiber: f, name: f.component.Name}
	if f.alternate != noFiber {
		c.prev = r.current.get(f.alternate)
	}
	f.hooks = nil

	e := r.engine
	e.rendering = true
	e.renderID = id
	defer func() {
		e.rendering = false
		c.done = true
		rec := recover()
		if rec == nil {
			return
		}
		if hoe, ok := rec.(*HookOrderError); ok {
			err = hoe
			return
		}
		err = &ComponentRenderError{
			Component: f.component.Name,
			Path:      r.wip.path(id),
			Value:     rec,
			Stack:     debug.Stack(),
			render:    f.component.Render,
		}
	}()

	child = f.component.Render(c, f.props)
	c.finish()
	return child, nil
}
