package weft

import (
	"reflect"
	"slices"
	"strings"
)

// isEvent reports whether key names an event handler ("onClick", "onclick").
// Case-insensitive so ONCLICK and OnLoad are not mistaken for attributes.
func isEvent(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// isProperty reports whether key is a plain attribute.
func isProperty(key string) bool {
	return key != ChildrenKey && !isEvent(key)
}

// eventName maps a handler key to its event: "onClick" -> "click".
func eventName(key string) string {
	return strings.ToLower(key[2:])
}

// applyProps brings node from prev to next. Order matters: stale handlers
// go first, then removed attributes, then new attributes, then new handlers,
// so an old handler is never registered alongside its replacement. Keys are
// visited in sorted order to keep host mutations deterministic.
func (e *Engine) applyProps(node Node, prev, next Props) {
	host := e.host
	prevKeys := sortedKeys(prev)
	nextKeys := sortedKeys(next)

	for _, key := range prevKeys {
		if !isEvent(key) || prev[key] == nil {
			continue
		}
		if nv, ok := next[key]; !ok || !propsEqual(prev[key], nv) {
			host.RemoveEventListener(node, eventName(key), prev[key])
		}
	}

	for _, key := range prevKeys {
		if !isProperty(key) {
			continue
		}
		if _, ok := next[key]; !ok {
			host.RemoveProperty(node, key)
		}
	}

	for _, key := range nextKeys {
		if !isProperty(key) {
			continue
		}
		if pv, ok := prev[key]; !ok || !propsEqual(pv, next[key]) {
			host.SetProperty(node, key, next[key])
		}
	}

	for _, key := range nextKeys {
		if !isEvent(key) || next[key] == nil {
			continue
		}
		if pv, ok := prev[key]; !ok || !propsEqual(pv, next[key]) {
			host.AddEventListener(node, eventName(key), next[key])
		}
	}
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// propsEqual compares two prop values for equality. Functions are never
// equal to anything but nil, so a re-created handler is always replaced.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}
