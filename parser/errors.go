package parser

import (
	"fmt"
	"strings"

	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/token"
)

// ErrorOpts holds the data used to build an Error. All fields are optional,
// although one of Cause or Message is recommended. If Cause is set and
// Message is empty, the cause's message is used.
type ErrorOpts struct {
	Code          errors.ErrorCode
	Kind          errors.Kind
	Message       string
	Cause         error
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
	Hint          string
}

// NewError returns a new Error populated with the given error data.
func NewError(opts ErrorOpts) *Error {
	msg := opts.Message
	if msg == "" && opts.Cause != nil {
		msg = opts.Cause.Error()
	}
	return &Error{
		Code:        opts.Code,
		Kind:        opts.Kind,
		Message:     msg,
		Position:    opts.StartPosition,
		EndPosition: opts.EndPosition,
		SourceCode:  opts.SourceCode,
		Hint:        opts.Hint,
		cause:       opts.Cause,
	}
}

// Error is the single terminal diagnostic of a failed parse.
type Error struct {
	Code    errors.ErrorCode
	Kind    errors.Kind
	Message string
	// Position is where the error was detected. The parser's cursor is
	// restored to this offset before the error is returned.
	Position    token.Position
	EndPosition token.Position
	// SourceCode is the text of the line containing Position.
	SourceCode string
	Hint       string
	// Suggestions holds completion candidates when the error was produced
	// in suggestion mode.
	Suggestions []string
	cause       error
}

func (e *Error) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Position.LineNumber(), e.Position.ColumnNumber())
	if e.Position.File != "" {
		loc = e.Position.File + ":" + loc
	}
	return fmt.Sprintf("%s %s at %s: %s", e.Kind, e.Code, loc, e.Message)
}

// Unwrap returns the underlying cause, such as a resolver error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Offset returns the byte offset of the error within its source.
func (e *Error) Offset() int {
	return e.Position.Char
}

// File returns the name of the file the error occurred in.
func (e *Error) File() string {
	return e.Position.File
}

func (e *Error) FriendlyErrorMessage() string {
	formatter := errors.NewFormatter(false)
	return formatter.Format(e.ToFormatted())
}

// ToFormatted converts the parser error to a FormattedError for display.
func (e *Error) ToFormatted() *errors.FormattedError {
	start := e.Position
	endColumn := 0
	if e.EndPosition.Char > start.Char && e.EndPosition.Line == start.Line {
		endColumn = e.EndPosition.ColumnNumber() - 1
	}
	f := &errors.FormattedError{
		Code:      e.Code,
		Kind:      e.Kind.String(),
		Message:   e.Message,
		Filename:  start.File,
		Line:      start.LineNumber(),
		Column:    start.ColumnNumber(),
		EndColumn: endColumn,
		Hint:      e.Hint,
	}
	if e.SourceCode != "" || start.IsValid() {
		f.SourceLines = []errors.SourceLineEntry{
			{Number: start.LineNumber(), Text: e.SourceCode, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		f.Note = "completions: " + strings.Join(e.Suggestions, ", ")
	}
	return f
}

// errorf builds an error at the current cursor position.
func (p *Parser) errorf(code errors.ErrorCode, kind errors.Kind, format string, args ...any) *Error {
	return p.errorAt(p.cur.Pos(), code, kind, format, args...)
}

// errorAt builds an error at a byte offset of the current source. A pending
// lexical error (an unclosed comment) takes precedence, since it explains
// why the grammar failed.
func (p *Parser) errorAt(offset int, code errors.ErrorCode, kind errors.Kind, format string, args ...any) *Error {
	if p.lexErr != nil {
		return p.lexErr
	}
	return p.newError(offset, code, kind, fmt.Sprintf(format, args...), nil)
}

func (p *Parser) newError(offset int, code errors.ErrorCode, kind errors.Kind, msg string, cause error) *Error {
	pos := p.lines.Position(offset)
	return NewError(ErrorOpts{
		Code:          code,
		Kind:          kind,
		Message:       msg,
		Cause:         cause,
		StartPosition: pos,
		SourceCode:    p.lines.LineText(pos),
	})
}

// errorAtPos builds an error from a node position, which may belong to a
// different module than the one currently being parsed.
func (p *Parser) errorAtPos(pos token.Position, code errors.ErrorCode, kind errors.Kind, format string, args ...any) *Error {
	e := NewError(ErrorOpts{
		Code:          code,
		Kind:          kind,
		Message:       fmt.Sprintf(format, args...),
		StartPosition: pos,
	})
	if pos.File == p.filename {
		e.SourceCode = p.lines.LineText(pos)
	}
	return e
}

// syntaxErr reports a grammar mismatch at the cursor.
func (p *Parser) syntaxErr(format string, args ...any) *Error {
	return p.errorf(errors.XPST0003, errors.Grammar, format, args...)
}

// unsupported reports a recognised construct that is not implemented.
func (p *Parser) unsupported(offset int, code errors.ErrorCode, what string) *Error {
	return p.errorAt(offset, code, errors.Unsupported, "%s is not supported", what)
}

// withHint attaches a "did you mean" hint built from candidates.
func withHint(e *Error, target string, candidates []string) *Error {
	if hint := errors.FormatSuggestions(errors.SuggestSimilar(target, candidates)); hint != "" {
		e.Hint = hint
	}
	return e
}
