// Package rml compiles .rml documents into their three artifacts: an
// HTML fragment, a stylesheet, and the script that wires the document's
// reactive state.
package rml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grindlemire/go-rml/internal/rmlgen"
)

// Output holds the three artifacts compiled from one document.
type Output struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Error is a compilation diagnostic. Stage and Code are stable string
// identifiers suited to programmatic matching; Message and Hint are for
// people.
type Error struct {
	Stage   string `json:"stage"`
	Code    string `json:"code"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d:%d: %s error: %s", e.File, e.Line, e.Column, e.Stage, e.Message)
	if e.Hint != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Hint)
		sb.WriteString(")")
	}
	return sb.String()
}

// Compile compiles one document. filename labels diagnostics and is not
// read from disk; source is the document text. A failed compilation
// returns a *Error describing the first violation found.
func Compile(filename, source string) (Output, error) {
	out, err := rmlgen.Compile(filename, source)
	if err != nil {
		var cerr *rmlgen.Error
		if errors.As(err, &cerr) {
			return Output{}, &Error{
				Stage:   cerr.Stage.String(),
				Code:    cerr.Code.String(),
				File:    cerr.Pos.File,
				Line:    cerr.Pos.Line,
				Column:  cerr.Pos.Column,
				Message: cerr.Message,
				Hint:    cerr.Hint,
			}
		}
		return Output{}, err
	}
	return Output{HTML: out.HTML, CSS: out.CSS, JS: out.JS}, nil
}
