// Package scope tracks the names visible while a query is being parsed:
// lexically scoped variables, the namespace table and the module-wide
// function table.
package scope

import (
	"errors"

	"github.com/xqgo/xquery/ast"
)

// ErrDuplicate is returned when a name is declared twice in one scope.
var ErrDuplicate = errors.New("duplicate declaration")

// Var is a variable binding.
type Var struct {
	Name ast.QName
	Type *ast.SequenceType
	// Depth is the stack size when the binding was pushed; -1 for globals.
	Depth int
}

// Variables is the variable stack plus the module's global variables.
// Local bindings are pushed as binding constructs are parsed and dropped by
// truncating back to a saved size when the construct ends.
type Variables struct {
	stack   []*Var
	globals map[string]*Var
	order   []*Var
}

// NewVariables returns an empty variable table.
func NewVariables() *Variables {
	return &Variables{globals: map[string]*Var{}}
}

// Push binds a local variable and returns the binding.
func (v *Variables) Push(name ast.QName, typ *ast.SequenceType) *Var {
	b := &Var{Name: name, Type: typ, Depth: len(v.stack)}
	v.stack = append(v.stack, b)
	return b
}

// Size returns the number of live local bindings.
func (v *Variables) Size() int { return len(v.stack) }

// Truncate drops all local bindings pushed after the stack had size n.
func (v *Variables) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(v.stack) {
		clear(v.stack[n:])
		v.stack = v.stack[:n]
	}
}

// BoundSince reports whether name is bound by a local binding pushed after
// the stack had size mark.
func (v *Variables) BoundSince(mark int, name ast.QName) bool {
	for i := len(v.stack) - 1; i >= mark && i >= 0; i-- {
		if v.stack[i].Name.Equal(name) {
			return true
		}
	}
	return false
}

// Lookup returns the innermost binding of name, falling back to globals.
func (v *Variables) Lookup(name ast.QName) *Var {
	for i := len(v.stack) - 1; i >= 0; i-- {
		if v.stack[i].Name.Equal(name) {
			return v.stack[i]
		}
	}
	return v.globals[name.Expanded()]
}

// DeclareGlobal registers a global variable. Declaring the same name twice
// returns ErrDuplicate.
func (v *Variables) DeclareGlobal(name ast.QName, typ *ast.SequenceType) (*Var, error) {
	key := name.Expanded()
	if _, ok := v.globals[key]; ok {
		return nil, ErrDuplicate
	}
	g := &Var{Name: name, Type: typ, Depth: -1}
	v.globals[key] = g
	v.order = append(v.order, g)
	return g, nil
}

// Names returns the lexical names of all visible variables, innermost first.
func (v *Variables) Names() []string {
	names := make([]string, 0, len(v.stack)+len(v.order))
	for i := len(v.stack) - 1; i >= 0; i-- {
		names = append(names, v.stack[i].Name.String())
	}
	for _, g := range v.order {
		names = append(names, g.Name.String())
	}
	return names
}
