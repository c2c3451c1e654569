package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category groups codes by the part of weft that reports them.
type Category string

const (
	CategoryRender    Category = "render"
	CategoryElement   Category = "element"
	CategoryHook      Category = "hook"
	CategoryScheduler Category = "scheduler"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// Location is a position in a Go source file or an element document.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// SourceLine is one line of source shown around a Location.
type SourceLine struct {
	Number int
	Text   string
}

// WeftError is a coded error with an optional source position and fix hint.
type WeftError struct {
	Code       string
	Category   Category
	Message    string
	Detail     string
	Location   *Location
	Source     []SourceLine
	Suggestion string
	DocURL     string
	Wrapped    error
}

func (e *WeftError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WeftError) Unwrap() error {
	return e.Wrapped
}

// WithLocation records where the error happened and loads up to two lines
// of source on either side of it. Unreadable files leave Source empty.
func (e *WeftError) WithLocation(file string, line, column int) *WeftError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Source = sourceAround(file, line, 2)
	return e
}

func (e *WeftError) WithSuggestion(s string) *WeftError {
	e.Suggestion = s
	return e
}

func (e *WeftError) WithDetail(d string) *WeftError {
	e.Detail = d
	return e
}

func (e *WeftError) Wrap(err error) *WeftError {
	e.Wrapped = err
	return e
}

func sourceAround(file string, line, radius int) []SourceLine {
	f, err := os.Open(file)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []SourceLine
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan() && n <= line+radius; n++ {
		if n >= line-radius {
			out = append(out, SourceLine{Number: n, Text: sc.Text()})
		}
	}
	return out
}

// New returns a fresh error for a registered code. Unknown codes still
// produce an error so a typo never hides the failure.
func New(code string) *WeftError {
	t, ok := registry[code]
	if !ok {
		return &WeftError{Code: code, Message: "Unknown error"}
	}
	return &WeftError{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
		DocURL:   t.DocURL,
	}
}
