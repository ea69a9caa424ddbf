package syntax

import (
	"fmt"
	"strings"

	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/internal/token"
)

// ValidationError represents a syntax restriction violation.
type ValidationError struct {
	Message  string         // description of the violation
	Node     ast.Node       // the offending node
	Position token.Position // source location
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	pos := e.Position
	if pos.File != "" {
		return fmt.Sprintf("%s at %s:%d:%d", e.Message, pos.File, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Message, pos.LineNumber(), pos.ColumnNumber())
}

// ValidationErrors wraps multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError
}

// NewValidationErrors creates a ValidationErrors from a slice of errors.
func NewValidationErrors(errs []ValidationError) *ValidationErrors {
	return &ValidationErrors{Errors: errs}
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return e.Errors[0].Error()
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
		for _, err := range e.Errors {
			fmt.Fprintf(&b, "  - %s\n", err.Error())
		}
		return b.String()
	}
}

// Unwrap returns the first error for errors.Is/As compatibility.
func (e *ValidationErrors) Unwrap() error {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}
	return nil
}

// Validator inspects a parsed module and returns validation errors.
type Validator interface {
	// Validate checks the module and returns any validation errors.
	// Multiple errors may be returned to show all violations at once.
	Validate(module *ast.Module) []ValidationError
}

// ValidatorFunc is an adapter to use a function as a Validator.
type ValidatorFunc func(*ast.Module) []ValidationError

// Validate implements the Validator interface.
func (f ValidatorFunc) Validate(m *ast.Module) []ValidationError {
	return f(m)
}

// ValidateAll runs each validator and collects their errors in order. It
// returns nil when the module passes.
func ValidateAll(module *ast.Module, validators ...Validator) error {
	var errs []ValidationError
	for _, v := range validators {
		errs = append(errs, v.Validate(module)...)
	}
	if len(errs) == 0 {
		return nil
	}
	return NewValidationErrors(errs)
}
