package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
	ansiBold  = "\033[1m"
)

var colorEnabled = true

// SetColor turns ANSI styling of Format output on or off.
func SetColor(on bool) {
	colorEnabled = on
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

// Format renders the error for a terminal: header, location with source
// excerpt, wrapped detail, hint and doc link.
func (e *WeftError) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		fmt.Fprintf(&b, "%s %s\n\n", paint(ansiRed+ansiBold, "ERROR "+e.Code+":"), e.Message)
	} else {
		fmt.Fprintf(&b, "%s %s\n\n", paint(ansiRed+ansiBold, "ERROR:"), e.Message)
	}

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(ansiCyan, e.Location.String()))
		if len(e.Source) > 0 {
			e.writeSource(&b)
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 72) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil && e.Code != "" {
		fmt.Fprintf(&b, "  %s %v\n\n", paint(ansiGray, "cause:"), e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", paint(ansiCyan, "Hint:"), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", paint(ansiGray, "Learn more:"), paint(ansiBlue, e.DocURL))
	}
	return b.String()
}

func (e *WeftError) writeSource(b *strings.Builder) {
	for _, sl := range e.Source {
		marker := "  "
		if sl.Number == e.Location.Line {
			marker = paint(ansiRed, "→ ")
		}
		fmt.Fprintf(b, "  %s%4d %s %s\n", marker, sl.Number, paint(ansiGray, "│"), sl.Text)
		if sl.Number == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(b, "         %s %s%s\n", paint(ansiGray, "│"),
				strings.Repeat(" ", e.Location.Column-1), paint(ansiRed, "^"))
		}
	}
}

func wrapText(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Diagnoser is implemented by errors that can describe themselves as a
// registered WeftError.
type Diagnoser interface {
	Diagnostic() *WeftError
}

// Diagnose extracts the WeftError describing err, if any error in its chain
// is one or can produce one.
func Diagnose(err error) (*WeftError, bool) {
	var d Diagnoser
	if stderrors.As(err, &d) {
		return d.Diagnostic(), true
	}
	var we *WeftError
	if stderrors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// Fprint writes err to w, formatted when it carries a diagnostic.
func Fprint(w io.Writer, err error) {
	if we, ok := Diagnose(err); ok {
		fmt.Fprint(w, we.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(ansiRed+ansiBold, "ERROR:"), err)
}

// PrintError writes err to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
