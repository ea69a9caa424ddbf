package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Buffer accumulates decoded text such as string literals, attribute values
// and element content.
type Buffer struct {
	sb strings.Builder
	// Entity is set once a character or entity reference (or CDATA section)
	// has been decoded into the buffer. Whitespace-only text containing one is
	// significant content.
	Entity bool
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) { b.sb.WriteByte(c) }

// AppendRune appends the UTF-8 encoding of r.
func (b *Buffer) AppendRune(r rune) { b.sb.WriteRune(r) }

// AppendString appends s.
func (b *Buffer) AppendString(s string) { b.sb.WriteString(s) }

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int { return b.sb.Len() }

// String returns the accumulated text without resetting the buffer.
func (b *Buffer) String() string { return b.sb.String() }

// Finish returns the accumulated text and resets the buffer.
func (b *Buffer) Finish() string {
	s := b.sb.String()
	b.Reset()
	return s
}

// Reset empties the buffer and clears the entity flag.
func (b *Buffer) Reset() {
	b.sb.Reset()
	b.Entity = false
}

var predefinedEntities = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"quot": '"',
	"apos": '\'',
}

// Entity consumes one character into buf, decoding a predefined entity
// reference or a character reference if one starts here.
func (c *Cursor) Entity(buf *Buffer) error {
	if c.Peek() != '&' {
		r := c.AdvanceRune()
		if r == utf8.RuneError {
			return &Error{Offset: c.pos - 1, Message: "invalid UTF-8 sequence"}
		}
		buf.AppendRune(r)
		return nil
	}
	start := c.pos
	c.pos++
	end := strings.IndexByte(c.src[c.pos:], ';')
	if end <= 0 {
		return &Error{Offset: start, Message: "invalid entity " + quoteExcerpt(c.src[start:])}
	}
	ref := c.src[c.pos : c.pos+end]
	c.pos += end + 1

	if r, ok := predefinedEntities[ref]; ok {
		buf.AppendRune(r)
		buf.Entity = true
		return nil
	}
	if ref[0] != '#' {
		return &Error{Offset: start, Message: "invalid entity \"&" + ref + ";\""}
	}
	digits, base := ref[1:], 10
	if strings.HasPrefix(digits, "x") {
		digits, base = digits[1:], 16
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || digits == "" || !IsXMLChar(rune(n)) {
		return &Error{Offset: start, Message: "invalid character reference \"&" + ref + ";\""}
	}
	buf.AppendRune(rune(n))
	buf.Entity = true
	return nil
}

func quoteExcerpt(s string) string {
	if len(s) > 10 {
		s = s[:10]
	}
	return strconv.Quote(s)
}
