package weft

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	werrors "github.com/vango-dev/weft/internal/errors"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrComponentRender = errors.New("weft: component render failed")
	ErrInvalidElement  = errors.New("weft: invalid element")
	ErrHookOrder       = errors.New("weft: hook order changed")

	// ErrTooManyRenders is the Value of a ComponentRenderError for a
	// component that updated its own state on every render.
	ErrTooManyRenders = errors.New("weft: too many re-renders")

	// ErrNoFlusher is returned by Engine.Flush when the scheduler cannot flush.
	ErrNoFlusher = errors.New("weft: scheduler does not implement Flusher")
)

// ComponentRenderError reports a component that panicked during the render
// phase, or that kept dispatching state updates while rendering. The pass it
// belonged to was discarded.
type ComponentRenderError struct {
	Component string
	Path      string
	Value     any
	Stack     []byte

	render RenderFunc
}

func (e *ComponentRenderError) Error() string {
	return fmt.Sprintf("weft: component %q at %s %s", e.Component, e.Path, e.failure())
}

func (e *ComponentRenderError) failure() string {
	if e.Value == ErrTooManyRenders {
		return fmt.Sprintf("updated its state during render %d passes in a row", maxRestarts)
	}
	return fmt.Sprintf("panicked: %v", e.Value)
}

// Is matches ErrComponentRender.
func (e *ComponentRenderError) Is(target error) bool { return target == ErrComponentRender }

// Unwrap returns the panic value when it was an error.
func (e *ComponentRenderError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Diagnostic describes the error with its registered code, pointing at the
// component's render function when its source location is known.
func (e *ComponentRenderError) Diagnostic() *werrors.WeftError {
	d := werrors.New("E001").
		WithDetail(fmt.Sprintf("Component %s (%s) %s", e.Component, e.Path, e.failure()))
	if file, line, ok := funcLocation(e.render); ok {
		d = d.WithLocation(file, line, 0)
	}
	return d
}

// InvalidElementError reports a malformed element, found either when the
// tree was handed to Render or when the work loop first visited it.
type InvalidElementError struct {
	Path   string
	Reason string
}

func (e *InvalidElementError) Error() string {
	return fmt.Sprintf("weft: invalid element at %s: %s", e.Path, e.Reason)
}

// Is matches ErrInvalidElement.
func (e *InvalidElementError) Is(target error) bool { return target == ErrInvalidElement }

// Diagnostic describes the error with its registered code.
func (e *InvalidElementError) Diagnostic() *werrors.WeftError {
	return werrors.New("E003").
		WithDetail(fmt.Sprintf("%s: %s", e.Path, e.Reason)).
		WithSuggestion("Build elements with weft.CreateElement, weft.Text or a *weft.Component from weft.Func")
}

// HookOrderError reports a component whose hook calls diverged from its
// previous render. When only the state type of a slot changed, Want and Got
// name it, as in "UseState[int]".
type HookOrderError struct {
	Component string
	Index     int
	Want      string // hook kind recorded last render, "none" past its end
	Got       string // hook kind called this render, "none" if it stopped early
}

func (e *HookOrderError) Error() string {
	return fmt.Sprintf("weft: hook order changed in %q at index %d: expected %s, got %s",
		e.Component, e.Index, e.Want, e.Got)
}

// Is matches ErrHookOrder.
func (e *HookOrderError) Is(target error) bool { return target == ErrHookOrder }

// Diagnostic describes the error with its registered code.
func (e *HookOrderError) Diagnostic() *werrors.WeftError {
	return werrors.New("E002").
		WithDetail(e.Error()).
		WithSuggestion("Call hooks unconditionally and in the same order at the top of the component")
}

// hookOutsideRender is the panic value for hooks called on a finished Ctx.
type hookOutsideRender struct{}

func (hookOutsideRender) Error() string { return werrors.New("E004").Error() }

// Describe formats err for a terminal, using the registered diagnostic when
// err (or anything it wraps) is a weft error.
func Describe(err error) string {
	if d, ok := werrors.Diagnose(err); ok {
		return d.Format()
	}
	return err.Error()
}

// funcLocation resolves the source position of a render function.
func funcLocation(fn RenderFunc) (string, int, bool) {
	if fn == nil {
		return "", 0, false
	}
	pc := reflect.ValueOf(fn).Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "", 0, false
	}
	file, line := f.FileLine(pc)
	return file, line, file != ""
}
