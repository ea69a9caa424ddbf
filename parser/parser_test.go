package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xqgo/xquery/ast"
	xqerrors "github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/source"
)

func parseBody(t *testing.T, query string, opts ...Option) ast.Expr {
	t.Helper()
	mod, err := Parse(context.Background(), query, opts...)
	require.NoError(t, err, query)
	require.NotNil(t, mod.Body, query)
	return mod.Body
}

func parseErr(t *testing.T, query string, opts ...Option) *Error {
	t.Helper()
	_, err := Parse(context.Background(), query, opts...)
	require.Error(t, err, query)
	var e *Error
	require.True(t, errors.As(err, &e), "%s: %T", query, err)
	return e
}

func TestParseDeterministic(t *testing.T) {
	query := `for $b in /catalog/book[price > 10] order by $b/title return <r>{$b/title}</r>`
	first := parseBody(t, query).String()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, parseBody(t, query).String())
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"(1 to 2)", "(1 to 2)"},
		{"1 + 2 to 4", "((1 + 2) to 4)"},
		{"-+-1", "+(1)"},
		{"--1", "+(1)"},
		{"-1", "-(1)"},
		{"1 idiv 2 mod 3", "((1 idiv 2) mod 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseBody(t, tt.input).String())
		})
	}
}

func TestNonAssociativeOperators(t *testing.T) {
	tests := []string{
		"1 to 2 to 3",
		"1 = 2 = 3",
		"1 eq 2 eq 3",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			e := parseErr(t, input)
			assert.Equal(t, xqerrors.XPST0003, e.Code)
		})
	}
	r, ok := parseBody(t, "(1 to 2)").(*ast.Range)
	require.True(t, ok)
	assert.Equal(t, "1", r.From.String())
}

func TestLogical(t *testing.T) {
	or, ok := parseBody(t, "1 or 2 and 3").(*ast.Logical)
	require.True(t, ok)
	assert.False(t, or.And)
	require.Len(t, or.Operands, 2)
	and, ok := or.Operands[1].(*ast.Logical)
	require.True(t, ok)
	assert.True(t, and.And)
}

func TestSetOperators(t *testing.T) {
	set, ok := parseBody(t, "a intersect b except c").(*ast.SetExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpExcept, set.Op)
	inner, ok := set.Operands[0].(*ast.SetExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpIntersect, inner.Op)

	union, ok := parseBody(t, "a | b union c").(*ast.SetExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpUnion, union.Op)
	assert.Len(t, union.Operands, 3)
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.CompKind
		op    string
	}{
		{"1 eq 2", ast.ValueComp, "eq"},
		{"1 != 2", ast.GeneralComp, "!="},
		{"1 <= 2", ast.GeneralComp, "<="},
		{"1 < 2", ast.GeneralComp, "<"},
		{"a is b", ast.NodeComp, "is"},
		{"a << b", ast.NodeComp, "<<"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := parseBody(t, tt.input).(*ast.Comparison)
			require.True(t, ok)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.op, c.Op)
		})
	}
}

func TestMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 600) + "1" + strings.Repeat(")", 600)
	e := parseErr(t, deep)
	assert.Equal(t, xqerrors.XQP0002, e.Code)
	assert.Equal(t, xqerrors.Unsupported, e.Kind)

	e = parseErr(t, "((((((1))))))", WithMaxDepth(5))
	assert.Equal(t, xqerrors.XQP0002, e.Code)

	_, err := Parse(context.Background(), "((1))", WithMaxDepth(5))
	assert.NoError(t, err)
}

func TestUnclosedComment(t *testing.T) {
	e := parseErr(t, "1 (: abc")
	assert.Equal(t, xqerrors.XPST0003, e.Code)
	assert.Equal(t, "comment not closed", e.Message)
	assert.Equal(t, 2, e.Offset())

	assert.Equal(t, "1", parseBody(t, "(: a (: nested :) :) 1 (: b :)").String())
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "1")
	assert.True(t, errors.Is(err, context.Canceled))
}

// cancellingResolver cancels the parse while serving a module.
type cancellingResolver struct {
	source.Map
	cancel context.CancelFunc
}

func (r cancellingResolver) ResolveModule(ctx context.Context, uri string, hints []string) (source.Module, error) {
	r.cancel()
	return r.Map.ResolveModule(ctx, uri, hints)
}

func TestContextCancelledDuringParse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resolver := cancellingResolver{
		Map:    source.Map{"m.xq": `module namespace m = "urn:m"; declare function m:f() { 1 };`},
		cancel: cancel,
	}
	_, err := Parse(ctx, `import module namespace m = "urn:m" at "m.xq"; m:f()`,
		WithModuleResolver(resolver))
	require.Error(t, err)
	e, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, xqerrors.XQP0003, e.Code)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMissingReturn(t *testing.T) {
	query := "for $x in (1,2) retrn $x"
	p := New(query)
	_, err := p.Parse(context.Background())
	require.Error(t, err)
	e, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, xqerrors.XPST0003, e.Code)
	assert.Equal(t, strings.Index(query, ")")+1, e.Offset())
	assert.Equal(t, 15, e.Offset())
	assert.Equal(t, e.Offset(), p.Pos())
	assert.Equal(t, `expecting "return", found "retrn"`, e.Message)
	assert.Equal(t, "Did you mean 'return'?", e.Hint)
}

func TestExpectedKeywordPosition(t *testing.T) {
	tests := []struct {
		input   string
		offset  int
		message string
	}{
		{"for $x in 1 (: c :) retrn $x", 11, `expecting "return", found "retrn"`},
		{"for $x in 1  ", 11, `expecting "return", found end of input`},
		{"some $x in 1 satisfy $x", 12, `expecting "satisfies", found "satisfy"`},
		{"(1, 2", 5, `expecting ")", found end of input`},
		{"for $x in 1 order by $x empty big return $x", 29, `expecting "greatest" or "least", found "big"`},
		{"declare boundary-space  preserv; 1", 22, `expecting "preserve" or "strip", found "preserv"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := parseErr(t, tt.input)
			assert.Equal(t, xqerrors.XPST0003, e.Code)
			assert.Equal(t, tt.message, e.Message)
			assert.Equal(t, tt.offset, e.Offset())
		})
	}
}

func TestEmptyAndTrailingInput(t *testing.T) {
	e := parseErr(t, "")
	assert.Equal(t, "expecting expression", e.Message)

	e = parseErr(t, "1 2")
	assert.Equal(t, `unexpected "2"`, e.Message)
	assert.Equal(t, 2, e.Offset())

	e = parseErr(t, "1 +")
	assert.Equal(t, "incomplete expression", e.Message)
	assert.Equal(t, 3, e.Offset())
}

func TestErrorFormatting(t *testing.T) {
	e := parseErr(t, "1 +\n2 +", WithFilename("q.xq"))
	assert.Equal(t, "q.xq", e.File())
	assert.Equal(t, 2, e.Position.LineNumber())
	assert.Equal(t, "grammar error XPST0003 at q.xq:2:4: incomplete expression", e.Error())

	f := e.ToFormatted()
	assert.Equal(t, "q.xq", f.Filename)
	assert.Equal(t, 2, f.Line)
	assert.Equal(t, 4, f.Column)
	require.Len(t, f.SourceLines, 1)
	assert.Equal(t, "2 +", f.SourceLines[0].Text)

	msg := e.FriendlyErrorMessage()
	assert.Contains(t, msg, "XPST0003")
	assert.Contains(t, msg, "q.xq:2:4")
	assert.Contains(t, msg, "2 +")
}

func TestSuggestionsInFormattedNote(t *testing.T) {
	e := parseErr(t, "/a/")
	e.Suggestions = []string{"b", "c"}
	assert.Equal(t, "completions: b, c", e.ToFormatted().Note)
}
