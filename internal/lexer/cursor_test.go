package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekAdvance(t *testing.T) {
	c := New("ab")
	assert.Equal(t, byte('a'), c.Peek())
	assert.Equal(t, byte('b'), c.PeekNext())
	assert.Equal(t, byte('a'), c.Advance())
	assert.Equal(t, byte('b'), c.Advance())
	assert.Equal(t, byte(0), c.Advance())
	assert.False(t, c.More())
	assert.Equal(t, 2, c.Pos())
}

func TestMarkReset(t *testing.T) {
	c := New("hello world")
	m := c.Mark()
	assert.True(t, c.ConsumeString("hello"))
	assert.Equal(t, 5, c.Pos())
	c.Reset(m)
	assert.Equal(t, 0, c.Pos())
	c.Reset(100)
	assert.Equal(t, 11, c.Pos())
}

func TestConsumeKeyword(t *testing.T) {
	tests := []struct {
		input string
		kw    string
		ok    bool
	}{
		{"for $x", "for", true},
		{"forest", "for", false},
		{"for-each", "for", false},
		{"for(", "for", true},
		{"for", "for", true},
		{"!=1", "!=", true},
		{"div3", "div", false},
	}
	for _, tt := range tests {
		c := New(tt.input)
		assert.Equal(t, tt.ok, c.ConsumeKeyword(tt.kw), tt.input)
		if !tt.ok {
			assert.Equal(t, 0, c.Pos(), tt.input)
		}
	}
}

func TestSkipInsignificant(t *testing.T) {
	c := New("  (: a (: nested :) comment :)\n\tx")
	skipped, err := c.SkipInsignificant()
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Equal(t, byte('x'), c.Peek())

	skipped, err = c.SkipInsignificant()
	require.NoError(t, err)
	assert.False(t, skipped)
}

func TestUnclosedComment(t *testing.T) {
	c := New("1 (: open (: inner :) ")
	c.Advance()
	_, err := c.SkipInsignificant()
	require.Error(t, err)
	lexErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, 2, lexErr.Offset)
	assert.Contains(t, lexErr.Message, "comment")
}

func TestNames(t *testing.T) {
	c := New("xs:integer(")
	assert.Equal(t, "xs:integer", c.QName())
	assert.Equal(t, byte('('), c.Peek())

	c = New("p:*")
	assert.Equal(t, "p", c.QName())
	assert.Equal(t, byte(':'), c.Peek())

	c = New("straße-1.x rest")
	assert.Equal(t, "straße-1.x", c.NCName())

	c = New("1abc")
	assert.Equal(t, "", c.NCName())
	assert.Equal(t, 0, c.Pos())
}

func TestWord(t *testing.T) {
	c := New("retrn $x")
	assert.Equal(t, "retrn", c.Word())
	c = New("(1)")
	assert.Equal(t, "(", c.Word())
	c = New("")
	assert.Equal(t, "", c.Word())
}

func TestEntity(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		entity   bool
	}{
		{"a", "a", false},
		{"é", "é", false},
		{"&lt;", "<", true},
		{"&amp;", "&", true},
		{"&#65;", "A", true},
		{"&#x20AC;", "€", true},
	}
	for _, tt := range tests {
		c := New(tt.input)
		var buf Buffer
		require.NoError(t, c.Entity(&buf), tt.input)
		assert.Equal(t, tt.expected, buf.String())
		assert.Equal(t, tt.entity, buf.Entity)
		assert.False(t, c.More())
	}
}

func TestInvalidEntity(t *testing.T) {
	for _, input := range []string{"&foo;", "&#0;", "&#xZZ;", "&lt", "&;"} {
		c := New(input)
		var buf Buffer
		assert.Error(t, c.Entity(&buf), input)
	}
}

func TestBufferFinish(t *testing.T) {
	var buf Buffer
	buf.AppendString("ab")
	buf.AppendByte('c')
	buf.Entity = true
	assert.Equal(t, 3, buf.Len())
	assert.Equal(t, "abc", buf.Finish())
	assert.Equal(t, 0, buf.Len())
	assert.False(t, buf.Entity)
}
