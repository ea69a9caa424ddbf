package scope

import (
	"strconv"

	"github.com/xqgo/xquery/ast"
)

func signature(name ast.QName, arity int) string {
	return name.Expanded() + "#" + strconv.Itoa(arity)
}

// Functions is the table of user-declared functions. It is shared between a
// module and the modules it imports. Calls to functions that are not yet
// declared are kept pending until Resolve is called at the end of the module.
type Functions struct {
	decls   map[string]*ast.FunctionDecl
	order   []*ast.FunctionDecl
	pending []*ast.FunctionCall
}

// NewFunctions returns an empty function table.
func NewFunctions() *Functions {
	return &Functions{decls: map[string]*ast.FunctionDecl{}}
}

// Declare registers a function signature. The declaration is visible to
// calls as soon as it is registered, before its body has been parsed.
func (f *Functions) Declare(decl *ast.FunctionDecl) error {
	key := signature(decl.Name, decl.Arity())
	if _, ok := f.decls[key]; ok {
		return ErrDuplicate
	}
	f.decls[key] = decl
	f.order = append(f.order, decl)
	return nil
}

// Lookup returns the declaration with the given name and arity.
func (f *Functions) Lookup(name ast.QName, arity int) *ast.FunctionDecl {
	return f.decls[signature(name, arity)]
}

// Call links call to its declaration, or records it as pending.
func (f *Functions) Call(call *ast.FunctionCall) {
	if decl := f.Lookup(call.Name, len(call.Args)); decl != nil {
		call.Decl = decl
		return
	}
	f.pending = append(f.pending, call)
}

// Resolve links pending calls to declarations made since they were parsed
// and returns the calls that remain unresolved, in source order.
func (f *Functions) Resolve() []*ast.FunctionCall {
	var unresolved []*ast.FunctionCall
	for _, call := range f.pending {
		if decl := f.Lookup(call.Name, len(call.Args)); decl != nil {
			call.Decl = decl
			continue
		}
		unresolved = append(unresolved, call)
	}
	f.pending = unresolved
	return unresolved
}

// Arities returns the arities declared for name.
func (f *Functions) Arities(name ast.QName) []int {
	var arities []int
	for _, d := range f.order {
		if d.Name.Equal(name) {
			arities = append(arities, d.Arity())
		}
	}
	return arities
}

// Names returns the lexical names of all declared functions.
func (f *Functions) Names() []string {
	names := make([]string, len(f.order))
	for i, d := range f.order {
		names[i] = d.Name.String()
	}
	return names
}
