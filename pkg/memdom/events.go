package memdom

import "fmt"

// Event is passed to handlers that accept one.
type Event struct {
	Type   string
	Target *Node
	Data   map[string]any
}

// Dispatch invokes the listeners registered on n for event, in
// registration order. Supported handler types are func(), func(*Event) and
// func(string) (which receives the "value" entry of data).
func (n *Node) Dispatch(event string, data map[string]any) error {
	ev := &Event{Type: event, Target: n, Data: data}
	for _, h := range append([]any(nil), n.listeners[event]...) {
		switch fn := h.(type) {
		case func():
			fn()
		case func(*Event):
			fn(ev)
		case func(string):
			v, _ := data["value"].(string)
			fn(v)
		default:
			return fmt.Errorf("memdom: unsupported %s handler type %T", event, h)
		}
	}
	return nil
}

// Click dispatches a click event.
func (n *Node) Click() error {
	return n.Dispatch("click", nil)
}

// Input dispatches an input event carrying value.
func (n *Node) Input(value string) error {
	return n.Dispatch("input", map[string]any{"value": value})
}
