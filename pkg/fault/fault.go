// Package fault provides source position tracking and the error type shared
// by the scanner, parser, constructor, and dumper.
//
// Every error produced while loading or dumping carries a Mark pointing at
// the offending position in the source buffer, so callers can render a
// message with a line/column reference and a snippet of the surrounding
// text.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the failure class within the load/dump pipeline.
type Code string

const (
	// Scanner reports lexical faults: bad indentation, invalid escape
	// sequences, unterminated quotes, unexpected end of input.
	Scanner Code = "ScannerError"

	// Parser reports grammar faults: unexpected indicators, mismatched
	// flow brackets, inconsistent indentation.
	Parser Code = "ParserError"

	// UnresolvedTag reports an explicit tag with no matching schema type.
	UnresolvedTag Code = "UnresolvedTagError"

	// AliasNotFound reports an alias whose anchor was never registered
	// earlier in the document.
	AliasNotFound Code = "AliasNotFoundError"

	// Construct reports a type-specific construction fault, such as a
	// literal that passed implicit resolution but failed precise parsing.
	Construct Code = "ConstructError"

	// Unrepresentable reports a native value no schema type can dump.
	Unrepresentable Code = "UnrepresentableValueError"

	// CircularReference reports a cyclic value encountered while dumping
	// with reference emission disabled.
	CircularReference Code = "CircularReferenceError"

	// DepthExceeded reports input or value nesting beyond the configured
	// maximum depth.
	DepthExceeded Code = "DepthExceededError"

	// DuplicateKey is the recoverable anomaly routed through the caller's
	// warning hook: a mapping key that overwrites an earlier entry.
	DuplicateKey Code = "DuplicateKeyWarning"
)

// Mark is an immutable source position. Line and Column are 1-based; Offset
// is the byte offset into Buffer. Buffer holds the full source text so a
// snippet of the offending line can be produced; it may be empty when the
// position is synthetic.
type Mark struct {
	Name   string // source name, typically a file name; may be empty
	Line   int
	Column int
	Offset int
	Buffer string
}

// String renders the mark as "name: line L, column C" (the name part is
// omitted when unknown).
func (m Mark) String() string {
	pos := fmt.Sprintf("line %d, column %d", m.Line, m.Column)
	if m.Name != "" {
		return m.Name + ": " + pos
	}
	return pos
}

// Snippet extracts the source line around the mark, truncated to maxLength
// characters, followed by a caret line pointing at the column. Returns ""
// when no buffer is attached.
func (m Mark) Snippet(indent, maxLength int) string {
	if m.Buffer == "" || m.Offset < 0 || m.Offset > len(m.Buffer) {
		return ""
	}

	// Find the bounds of the line containing the offset.
	start := m.Offset
	for start > 0 && m.Buffer[start-1] != '\n' {
		start--
	}
	end := m.Offset
	for end < len(m.Buffer) && m.Buffer[end] != '\n' {
		end++
	}

	line := m.Buffer[start:end]
	caret := m.Offset - start

	// Truncate around the caret if the line is too wide.
	if caret > maxLength-8 {
		cut := caret - (maxLength - 8)
		line = " ... " + line[cut:]
		caret = caret - cut + 5
	}
	if len(line) > maxLength {
		line = line[:maxLength-4] + " ..."
	}

	pad := strings.Repeat(" ", indent)
	return pad + line + "\n" + pad + strings.Repeat(" ", caret) + "^"
}

// Error is the single fault type surfaced by every stage of the pipeline.
// It satisfies the error interface and supports errors.As for callers that
// want the structured fields.
type Error struct {
	Code   Code
	Reason string
	Mark   Mark
}

// New creates an Error with the given code, reason, and mark.
func New(code Code, reason string, mark Mark) *Error {
	return &Error{Code: code, Reason: reason, Mark: mark}
}

// Newf creates an Error with a formatted reason.
func Newf(code Code, mark Mark, format string, args ...interface{}) *Error {
	return &Error{Code: code, Reason: fmt.Sprintf(format, args...), Mark: mark}
}

// Name returns the exception name surfaced to callers.
func (e *Error) Name() string { return "FormatException" }

// Error formats the name, reason, mark, and snippet into one message:
//
//	FormatException: unexpected end of input at config.yaml: line 3, column 7
//
//	  key: "unterminated
//	        ^
//
// Faults raised while dumping carry no position; their message omits the
// mark.
func (e *Error) Error() string {
	msg := e.Name() + ": " + e.Reason
	if e.Mark.Line > 0 {
		msg += " at " + e.Mark.String()
	}
	if snippet := e.Mark.Snippet(2, 76); snippet != "" {
		msg += "\n\n" + snippet
	}
	return msg
}

// CodeOf returns the Code carried by err, or "" when err is not a *Error.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
