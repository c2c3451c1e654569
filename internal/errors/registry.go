package errors

import "sort"

// Template is the registered text of an error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://weft.dev/docs/errors/"

// Codes: E001-E019 render phase, E020-E039 scheduling, E040-E059 config and CLI.
var registry = map[string]Template{
	"E001": {
		Category: CategoryRender,
		Message:  "Component render failed",
		Detail:   "A component panicked while the work loop was rendering it. The in-progress pass was discarded and the previously committed tree is still shown.",
		DocURL:   docBase + "E001",
	},
	"E002": {
		Category: CategoryHook,
		Message:  "Hook order changed between renders",
		Detail:   "Hooks are identified by call position. A component must call the same hooks in the same order on every render.",
		DocURL:   docBase + "E002",
	},
	"E003": {
		Category: CategoryElement,
		Message:  "Invalid element",
		Detail:   "An element has an unrecognized type or is missing a required field. Build elements with CreateElement, Text or Func.",
		DocURL:   docBase + "E003",
	},
	"E004": {
		Category: CategoryHook,
		Message:  "Hook called outside render",
		Detail:   "Hooks may only be called synchronously from a component's render function using the context passed to it.",
		DocURL:   docBase + "E004",
	},

	"E020": {
		Category: CategoryScheduler,
		Message:  "Scheduler cannot flush",
		Detail:   "The scheduling adapter does not implement Flush. Use sched.Manual or sched.Loop, or drive the adapter yourself.",
		DocURL:   docBase + "E020",
	},
	"E021": {
		Category: CategoryScheduler,
		Message:  "Scheduler closed",
		Detail:   "The event loop was closed before the requested work could run.",
		DocURL:   docBase + "E021",
	},

	"E040": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "weft.yaml contains a value outside its allowed range.",
		DocURL:   docBase + "E040",
	},
	"E041": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "weft.yaml is missing where it was required, or could not be read or written.",
		DocURL:   docBase + "E041",
	},
	"E050": {
		Category: CategoryCLI,
		Message:  "Invalid element document",
		Detail:   "The YAML element document could not be decoded into an element tree.",
		DocURL:   docBase + "E050",
	},
}

// Codes returns every registered code in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
