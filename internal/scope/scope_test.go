package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xqgo/xquery/ast"
)

func qn(local string) ast.QName { return ast.QName{Local: local} }

func TestVariablesPushTruncate(t *testing.T) {
	vars := NewVariables()
	mark := vars.Size()
	vars.Push(qn("x"), nil)
	inner := vars.Size()
	vars.Push(qn("y"), nil)
	vars.Push(qn("x"), nil)

	x := vars.Lookup(qn("x"))
	require.NotNil(t, x)
	assert.Equal(t, 2, x.Depth)
	assert.True(t, vars.BoundSince(inner, qn("x")))
	assert.False(t, vars.BoundSince(inner+2, qn("y")))

	vars.Truncate(inner)
	assert.Equal(t, 0, vars.Lookup(qn("x")).Depth)
	assert.Nil(t, vars.Lookup(qn("y")))

	vars.Truncate(mark)
	assert.Nil(t, vars.Lookup(qn("x")))
	assert.Equal(t, 0, vars.Size())
}

func TestVariablesGlobals(t *testing.T) {
	vars := NewVariables()
	g, err := vars.DeclareGlobal(qn("g"), nil)
	require.NoError(t, err)
	assert.Equal(t, -1, g.Depth)

	_, err = vars.DeclareGlobal(qn("g"), nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	vars.Push(qn("g"), nil)
	assert.Equal(t, 0, vars.Lookup(qn("g")).Depth)
	vars.Truncate(0)
	assert.Same(t, g, vars.Lookup(qn("g")))
	assert.Equal(t, []string{"g"}, vars.Names())
}

func TestNamespacesResolve(t *testing.T) {
	ns := NewNamespaces()
	uri, err := ns.Resolve("xs")
	require.NoError(t, err)
	assert.Equal(t, ast.XSURI, uri)

	_, err = ns.Resolve("p")
	assert.ErrorIs(t, err, ErrUnknownPrefix)

	require.NoError(t, ns.Declare("p", "urn:p"))
	assert.ErrorIs(t, ns.Declare("p", "urn:q"), ErrDuplicate)

	uri, err = ns.Resolve("p")
	require.NoError(t, err)
	assert.Equal(t, "urn:p", uri)
	assert.Equal(t, "", ns.DefaultElement())
	assert.Equal(t, ast.FNURI, ns.DefaultFunction)
}

func TestNamespacesElementScope(t *testing.T) {
	ns := NewNamespaces()
	mark := ns.Size()
	ns.Push("p", "urn:inner")
	ns.Push("", "urn:default")

	uri, err := ns.Resolve("p")
	require.NoError(t, err)
	assert.Equal(t, "urn:inner", uri)
	assert.Equal(t, "urn:default", ns.DefaultElement())
	assert.Contains(t, ns.Prefixes(), "p")

	ns.Truncate(mark)
	_, err = ns.Resolve("p")
	assert.ErrorIs(t, err, ErrUnknownPrefix)
	assert.Equal(t, "", ns.DefaultElement())
}

func TestNamespacesUndeclare(t *testing.T) {
	ns := NewNamespaces()
	require.NoError(t, ns.Declare("p", "urn:p"))
	ns.Push("p", "")
	_, err := ns.Resolve("p")
	assert.ErrorIs(t, err, ErrUnknownPrefix)
}

func TestFunctionsPending(t *testing.T) {
	fns := NewFunctions()
	name := ast.QName{Prefix: "local", Local: "f", URI: ast.LocalURI}

	call := &ast.FunctionCall{Name: name, Args: []ast.Expr{&ast.IntegerLiteral{Value: 1}}}
	fns.Call(call)
	assert.Nil(t, call.Decl)

	decl := &ast.FunctionDecl{Name: name, Params: []*ast.Param{{Name: qn("a")}}}
	require.NoError(t, fns.Declare(decl))
	assert.ErrorIs(t, fns.Declare(&ast.FunctionDecl{Name: name, Params: []*ast.Param{{Name: qn("b")}}}), ErrDuplicate)
	require.NoError(t, fns.Declare(&ast.FunctionDecl{Name: name}))

	assert.Empty(t, fns.Resolve())
	assert.Same(t, decl, call.Decl)
	assert.Equal(t, []int{1, 0}, fns.Arities(name))

	wrong := &ast.FunctionCall{Name: name, Args: make([]ast.Expr, 3)}
	fns.Call(wrong)
	unresolved := fns.Resolve()
	require.Len(t, unresolved, 1)
	assert.Same(t, wrong, unresolved[0])
	assert.Equal(t, []string{"local:f", "local:f"}, fns.Names())
}
