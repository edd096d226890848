package rmlgen

import (
	"fmt"
	"strings"
)

// Stage identifies the pipeline stage that produced an error.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageGen
)

// stageNames maps stages to the label used when rendering an error.
var stageNames = map[Stage]string{
	StageLex:   "lex",
	StageParse: "parse",
	StageGen:   "codegen",
}

// String returns the stage label.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// Code classifies an error within its stage. Codes are stable identifiers:
// callers (tests, the dev server's JSON surface) match on them rather than
// on message text.
type Code int

const (
	// Lex codes
	CodeUnexpectedDedent Code = iota
	CodeUnterminatedString
	CodeUnterminatedInterpolation
	CodeInvalidCharacter
	CodeNestingTooDeep

	// Parse codes
	CodeUnexpectedToken
	CodeUnknownDirective
	CodeUnknownEvent
	CodeUnknownModifier
	CodeMalformedExpression
	CodeUnsupportedSyntax
	CodeDuplicateStateField
	CodeDuplicateStateBlock
	CodeDuplicateAttribute
	CodeExpressionTooDeep

	// Gen codes
	CodeUnsupportedDirective
	CodeUnsupportedEvent
	CodeUnsupportedModifier
	CodeUndeclaredIdentifier
	CodeAssignmentNotAllowed
	CodeInvalidModelTarget
	CodeMixedContent
	CodeRenderFailed
)

// codeNames maps codes to their stable string form.
var codeNames = map[Code]string{
	CodeUnexpectedDedent:          "unexpected-dedent",
	CodeUnterminatedString:        "unterminated-string",
	CodeUnterminatedInterpolation: "unterminated-interpolation",
	CodeInvalidCharacter:          "invalid-character",
	CodeNestingTooDeep:            "nesting-too-deep",
	CodeUnexpectedToken:           "unexpected-token",
	CodeUnknownDirective:          "unknown-directive",
	CodeUnknownEvent:              "unknown-event",
	CodeUnknownModifier:           "unknown-modifier",
	CodeMalformedExpression:       "malformed-expression",
	CodeUnsupportedSyntax:         "unsupported-syntax",
	CodeDuplicateStateField:       "duplicate-state-field",
	CodeDuplicateStateBlock:       "duplicate-state-block",
	CodeDuplicateAttribute:        "duplicate-attribute",
	CodeExpressionTooDeep:         "expression-too-deep",
	CodeUnsupportedDirective:      "unsupported-directive",
	CodeUnsupportedEvent:          "unsupported-event",
	CodeUnsupportedModifier:       "unsupported-modifier",
	CodeUndeclaredIdentifier:      "undeclared-identifier",
	CodeAssignmentNotAllowed:      "assignment-not-allowed",
	CodeInvalidModelTarget:        "invalid-model-target",
	CodeMixedContent:              "mixed-content",
	CodeRenderFailed:              "render-failed",
}

// String returns the stable string form of the code.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", c)
}

// Error represents a compilation error with source location and optional hint.
// Each pipeline stage fails fast: a compilation produces at most one Error.
type Error struct {
	Stage   Stage
	Code    Code
	Pos     Position
	Message string
	Hint    string // optional suggestion for fixing the error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Pos.String())
	sb.WriteString(": ")
	sb.WriteString(e.Stage.String())
	sb.WriteString(" error: ")
	sb.WriteString(e.Message)
	if e.Hint != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Hint)
		sb.WriteString(")")
	}
	return sb.String()
}

// NewError creates a new Error with the given stage, code, position, and message.
func NewError(stage Stage, code Code, pos Position, message string) *Error {
	return &Error{Stage: stage, Code: code, Pos: pos, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(stage Stage, code Code, pos Position, format string, args ...any) *Error {
	return &Error{Stage: stage, Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithHint attaches a suggestion for fixing the error and returns the error.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}
