// Package errors defines the diagnostic vocabulary shared by the parser and
// its tools: error codes, error kinds, source locations and a formatter that
// renders diagnostics with source context.
package errors

import "fmt"

// Kind is the category of a diagnostic.
type Kind int

const (
	// Syntax is a malformed token: unterminated string or comment, invalid
	// number or character reference.
	Syntax Kind = iota
	// Grammar means no grammar alternative matched at a position.
	Grammar
	// Name is a name resolution failure: unknown prefix, undefined variable,
	// unknown function or duplicate binding.
	Name
	// Unsupported is a construct that is recognised but not implemented.
	Unsupported
	// Resource means a module or stop word list could not be loaded.
	Resource
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case Grammar:
		return "grammar error"
	case Name:
		return "name error"
	case Unsupported:
		return "unsupported"
	case Resource:
		return "resource error"
	default:
		return "error"
	}
}

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename  string
	Line      int    // 1-based line number
	Column    int    // 1-based column number
	EndColumn int    // 1-based end column for multi-character spans
	Source    string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}
