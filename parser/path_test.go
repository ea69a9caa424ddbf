package parser

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xqgo/xquery/ast"
	xqerrors "github.com/xqgo/xquery/errors"
)

func TestAxisPaths(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/a/b", "/child::a/child::b"},
		{"//a", "/descendant-or-self::node()/child::a"},
		{"a//b", "child::a/descendant-or-self::node()/child::b"},
		{"../@id", "parent::node()/attribute::id"},
		{"a/text()", "child::a/child::text()"},
		{"a/attribute(id)", "child::a/attribute::attribute(id)"},
		{"descendant::a[1]", "descendant::a[1]"},
		{"ancestor-or-self::*", "ancestor-or-self::*"},
		{"a/.", "child::a"},
		{"*:a/xs:*", "child::*:a/child::xs:*"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			path, ok := parseBody(t, tt.input).(*ast.AxisPath)
			require.True(t, ok, "%T", parseBody(t, tt.input))
			assert.Equal(t, tt.expected, path.String())
		})
	}
}

func TestRootOnly(t *testing.T) {
	_, ok := parseBody(t, "/").(*ast.Root)
	assert.True(t, ok)

	e := parseErr(t, "//")
	assert.Equal(t, "expecting location step, found end of input", e.Message)
}

func TestMixedPaths(t *testing.T) {
	mixed, ok := parseBody(t, "/a[1]/(b,c)").(*ast.MixedPath)
	require.True(t, ok)
	_, rooted := mixed.Root.(*ast.Root)
	assert.True(t, rooted)
	require.Len(t, mixed.Steps, 2)
	_, isSeq := mixed.Steps[1].(*ast.Sequence)
	assert.True(t, isSeq)

	mixed, ok = parseBody(t, "(1)/a").(*ast.MixedPath)
	require.True(t, ok)
	assert.Equal(t, "1/child::a", mixed.String())

	filter, ok := parseBody(t, "(1, 2)[1]").(*ast.Filter)
	require.True(t, ok)
	assert.Len(t, filter.Predicates, 1)
}

func TestPathErrors(t *testing.T) {
	tests := []struct {
		input string
		code  xqerrors.ErrorCode
	}{
		{"a[", xqerrors.XPST0003},
		{"a[1", xqerrors.XPST0003},
		{"a/", xqerrors.XPST0003},
		{"child::", xqerrors.XPST0003},
		{"a/b:c", xqerrors.XPST0081},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.code, parseErr(t, tt.input).Code)
		})
	}
}

func TestDefaultElementNamespaceInPaths(t *testing.T) {
	body := parseBody(t, `declare default element namespace "urn:d"; a/@b`)
	path, ok := body.(*ast.AxisPath)
	require.True(t, ok)
	require.Len(t, path.Steps, 2)
	elem := path.Steps[0].Test.(*ast.NameTest)
	attr := path.Steps[1].Test.(*ast.NameTest)
	assert.Equal(t, "urn:d", elem.Name.URI)
	assert.Equal(t, "", attr.Name.URI)
	assert.True(t, attr.Attribute)
}

type recordingHooks struct {
	events []string
}

func (h *recordingHooks) Init() { h.events = append(h.events, "init") }

func (h *recordingHooks) Axis(axis ast.Axis) {
	h.events = append(h.events, "axis "+axis.String())
}

func (h *recordingHooks) NodeTest(test ast.NodeTest, attribute bool, more bool) {
	ev := "test " + test.String()
	if attribute {
		ev += " attr"
	}
	if more {
		ev += " more"
	}
	h.events = append(h.events, ev)
}

func (h *recordingHooks) Predicate(open bool) {
	h.events = append(h.events, fmt.Sprintf("predicate %t", open))
}

func TestHooks(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{
			"/catalog/book[price]/title",
			[]string{
				"init",
				"axis child", "test catalog more",
				"axis child", "test book more",
				"predicate true", "axis child", "test price more", "predicate false",
				"axis child", "test title",
			},
		},
		{
			"//a/@id",
			[]string{"init", "axis descendant", "test a more", "axis attribute", "test id attr"},
		},
		{
			"(1)[2]/b",
			[]string{"init", "axis child", "test b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h := &recordingHooks{}
			_, err := Parse(context.Background(), tt.input, WithHooks(h))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, h.events)
		})
	}
}

func TestHooksOnIncompletePath(t *testing.T) {
	h := &recordingHooks{}
	_, err := Parse(context.Background(), "/a/", WithHooks(h))
	require.Error(t, err)
	assert.Equal(t, []string{"init", "axis child", "test a more", "axis child"}, h.events)
}
