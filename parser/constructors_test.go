package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xqgo/xquery/ast"
	xqerrors "github.com/xqgo/xquery/errors"
)

func parseElement(t *testing.T, query string, opts ...Option) *ast.ElementConstructor {
	t.Helper()
	el, ok := parseBody(t, query, opts...).(*ast.ElementConstructor)
	require.True(t, ok, query)
	return el
}

func TestDirectElement(t *testing.T) {
	el := parseElement(t, `<a x="1" y="{1}">t{2}<b/></a>`)
	assert.Equal(t, "a", el.Name.Local)
	assert.False(t, el.Computed)
	require.Len(t, el.Attributes, 2)
	assert.Equal(t, "x", el.Attributes[0].Name.Local)
	require.Len(t, el.Attributes[0].Value, 1)
	assert.Equal(t, "1", el.Attributes[0].Value[0].(*ast.StringLiteral).Value)
	require.Len(t, el.Attributes[1].Value, 1)
	_, ok := el.Attributes[1].Value[0].(*ast.IntegerLiteral)
	assert.True(t, ok)

	require.Len(t, el.Content, 3)
	assert.Equal(t, "t", el.Content[0].(*ast.StringLiteral).Value)
	assert.Equal(t, "2", el.Content[1].String())
	child, ok := el.Content[2].(*ast.ElementConstructor)
	require.True(t, ok)
	assert.Equal(t, "b", child.Name.Local)
}

func TestAttributeValueTemplates(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{`<a x="a{1}b"/>`, []string{"a", "1", "b"}},
		{`<a x='it''s'/>`, []string{"it's"}},
		{`<a x="{{}}"/>`, []string{"{}"}},
		{`<a x="a&amp;b"/>`, []string{"a&b"}},
		{"<a x=\"a\tb\"/>", []string{"a b"}},
		{`<a x=""/>`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			el := parseElement(t, tt.input)
			require.Len(t, el.Attributes, 1)
			var got []string
			for _, v := range el.Attributes[0].Value {
				if s, ok := v.(*ast.StringLiteral); ok {
					got = append(got, s.Value)
				} else {
					got = append(got, v.String())
				}
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestElementContent(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"<a>  </a>", nil},
		{"<a> x </a>", []string{" x "}},
		{"<a>&#32;</a>", []string{" "}},
		{"<a>{{}}</a>", []string{"{}"}},
		{"<a><![CDATA[<x>]]></a>", []string{"<x>"}},
		{"<a>&lt;b&gt;</a>", []string{"<b>"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			el := parseElement(t, tt.input)
			var got []string
			for _, c := range el.Content {
				s, ok := c.(*ast.StringLiteral)
				require.True(t, ok, "%T", c)
				got = append(got, s.Value)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBoundarySpace(t *testing.T) {
	el := parseElement(t, "<a>  <b/>  </a>")
	assert.Len(t, el.Content, 1)

	el = parseElement(t, "<a>  <b/>  </a>", WithBoundarySpace(true))
	assert.Len(t, el.Content, 3)

	el = parseElement(t, "declare boundary-space preserve; <a> </a>")
	require.Len(t, el.Content, 1)
	assert.Equal(t, " ", el.Content[0].(*ast.StringLiteral).Value)

	el = parseElement(t, "declare boundary-space strip; <a> </a>", WithBoundarySpace(true))
	assert.Empty(t, el.Content)
}

func TestElementNamespaces(t *testing.T) {
	el := parseElement(t, `<p:a xmlns:p="urn:p" p:x="1"><p:b/></p:a>`)
	assert.Equal(t, "urn:p", el.Name.URI)
	require.Len(t, el.Namespaces, 1)
	assert.Equal(t, ast.NamespaceBinding{Prefix: "p", URI: "urn:p"}, el.Namespaces[0])
	require.Len(t, el.Attributes, 1)
	assert.Equal(t, "urn:p", el.Attributes[0].Name.URI)
	assert.Equal(t, "urn:p", el.Content[0].(*ast.ElementConstructor).Name.URI)

	el = parseElement(t, `<a xmlns="urn:d" x="1"><b/></a>`)
	assert.Equal(t, "urn:d", el.Name.URI)
	assert.Equal(t, "", el.Attributes[0].Name.URI)
	assert.Equal(t, "urn:d", el.Content[0].(*ast.ElementConstructor).Name.URI)

	e := parseErr(t, `(<a xmlns:p="urn:p"/>, <p:b/>)`)
	assert.Equal(t, xqerrors.XPST0081, e.Code)
	assert.Equal(t, `unknown namespace prefix "p"`, e.Message)
}

func TestDirectElementErrors(t *testing.T) {
	tests := []struct {
		input string
		code  xqerrors.ErrorCode
	}{
		{"<a></b>", xqerrors.XQST0118},
		{`<a x="1" x="2"/>`, xqerrors.XQST0040},
		{`<a xmlns:p="urn:p" p:x="1" xmlns:q="urn:p" q:x="2"/>`, xqerrors.XQST0040},
		{`<a xmlns="{1}"/>`, xqerrors.XQST0022},
		{`<a xmlns:xml="urn:x"/>`, xqerrors.XQST0070},
		{`<a xmlns:p=""/>`, xqerrors.XQST0085},
		{`<a xmlns:p="urn:a" xmlns:p="urn:b"/>`, xqerrors.XQST0071},
		{"<a>}</a>", xqerrors.XPST0003},
		{"<a>", xqerrors.XPST0003},
		{"<a", xqerrors.XPST0003},
		{`<a x="1"y="2"/>`, xqerrors.XPST0003},
		{`<a x="<"/>`, xqerrors.XPST0003},
		{`<a x="}"/>`, xqerrors.XPST0003},
		{"<a><![CDATA[x</a>", xqerrors.XPST0003},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.code, parseErr(t, tt.input).Code)
		})
	}
}

func TestDirectCommentsAndPIs(t *testing.T) {
	c, ok := parseBody(t, "<!-- c -->").(*ast.CommentConstructor)
	require.True(t, ok)
	assert.False(t, c.Computed)
	assert.Equal(t, " c ", c.Value.(*ast.StringLiteral).Value)

	pi, ok := parseBody(t, "<?php x?>").(*ast.PIConstructor)
	require.True(t, ok)
	assert.Equal(t, "php", pi.Target)
	assert.Equal(t, "x", pi.Value.(*ast.StringLiteral).Value)

	pi, ok = parseBody(t, "<?empty?>").(*ast.PIConstructor)
	require.True(t, ok)
	assert.Nil(t, pi.Value)

	el := parseElement(t, "<a><!--x--><?p v?></a>")
	require.Len(t, el.Content, 2)

	for _, input := range []string{"<!-- a -- b -->", "<!-- a --->", "<!-- a", "<?xml x?>", "<?p x"} {
		assert.Equal(t, xqerrors.XPST0003, parseErr(t, input).Code, input)
	}
}

func TestComputedConstructors(t *testing.T) {
	el, ok := parseBody(t, "element foo { 1 }").(*ast.ElementConstructor)
	require.True(t, ok)
	assert.True(t, el.Computed)
	assert.Equal(t, "foo", el.Name.Local)
	assert.Len(t, el.Content, 1)

	el, ok = parseBody(t, `element { "n" } { }`).(*ast.ElementConstructor)
	require.True(t, ok)
	assert.NotNil(t, el.NameExpr)
	assert.Empty(t, el.Content)

	attr, ok := parseBody(t, `attribute { "n" } { 1 }`).(*ast.AttributeConstructor)
	require.True(t, ok)
	assert.True(t, attr.Computed)
	assert.NotNil(t, attr.NameExpr)

	_, ok = parseBody(t, `text { "t" }`).(*ast.TextConstructor)
	assert.True(t, ok)
	_, ok = parseBody(t, `document { <a/> }`).(*ast.DocumentConstructor)
	assert.True(t, ok)

	c, ok := parseBody(t, `comment { "c" }`).(*ast.CommentConstructor)
	require.True(t, ok)
	assert.True(t, c.Computed)

	pi, ok := parseBody(t, `processing-instruction p { "v" }`).(*ast.PIConstructor)
	require.True(t, ok)
	assert.Equal(t, "p", pi.Target)

	// Without a following brace the keywords are ordinary element names.
	path, ok := parseBody(t, "element/text").(*ast.AxisPath)
	require.True(t, ok)
	assert.Equal(t, "child::element/child::text", path.String())

	assert.Equal(t, xqerrors.XPST0003, parseErr(t, `text { }`).Code)
	assert.Equal(t, xqerrors.XPST0003, parseErr(t, `processing-instruction xml { }`).Code)
}
