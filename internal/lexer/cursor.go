// Package lexer provides character-level scanning over XQuery source text.
//
// XQuery cannot be tokenized up front: whether "<" starts a comparison or a
// direct element constructor, or whether "for" is a keyword or an element
// name, depends on the grammar production being parsed. The parser therefore
// drives a Cursor directly and backtracks with Mark and Reset.
package lexer

import (
	"fmt"
	"unicode/utf8"
)

// Error is a lexical error at a byte offset.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset)
}

// Cursor tracks a byte position within a query string.
type Cursor struct {
	src string
	pos int
}

// New returns a Cursor positioned at the start of src.
func New(src string) *Cursor {
	return &Cursor{src: src}
}

// Source returns the complete input.
func (c *Cursor) Source() string { return c.src }

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the length of the input in bytes.
func (c *Cursor) Len() int { return len(c.src) }

// More reports whether unread input remains.
func (c *Cursor) More() bool { return c.pos < len(c.src) }

// Mark returns a checkpoint that can later be passed to Reset.
func (c *Cursor) Mark() int { return c.pos }

// Reset moves the cursor back (or forward) to a checkpoint.
func (c *Cursor) Reset(mark int) {
	if mark < 0 {
		mark = 0
	}
	if mark > len(c.src) {
		mark = len(c.src)
	}
	c.pos = mark
}

// Peek returns the current byte, or 0 at the end of input.
func (c *Cursor) Peek() byte {
	if c.pos < len(c.src) {
		return c.src[c.pos]
	}
	return 0
}

// PeekNext returns the byte after the current one, or 0.
func (c *Cursor) PeekNext() byte {
	if c.pos+1 < len(c.src) {
		return c.src[c.pos+1]
	}
	return 0
}

// PeekRune decodes the rune at the current position. It returns
// utf8.RuneError and 0 at the end of input.
func (c *Cursor) PeekRune() (rune, int) {
	if c.pos >= len(c.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.src[c.pos:])
}

// Advance consumes and returns the current byte.
func (c *Cursor) Advance() byte {
	if c.pos >= len(c.src) {
		return 0
	}
	b := c.src[c.pos]
	c.pos++
	return b
}

// AdvanceRune consumes and returns the current rune.
func (c *Cursor) AdvanceRune() rune {
	r, n := c.PeekRune()
	c.pos += n
	return r
}

// ConsumeIf consumes ch if it is the current byte.
func (c *Cursor) ConsumeIf(ch byte) bool {
	if c.pos < len(c.src) && c.src[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return len(c.src)-c.pos >= len(s) && c.src[c.pos:c.pos+len(s)] == s
}

// ConsumeString consumes s if the unread input starts with it.
func (c *Cursor) ConsumeString(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.pos += len(s)
	return true
}

// ConsumeKeyword consumes kw if the unread input starts with it and, for
// keywords beginning with a letter, the next character cannot continue a name.
// This keeps "forest" from being read as "for" followed by "est".
func (c *Cursor) ConsumeKeyword(kw string) bool {
	if !c.HasPrefix(kw) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(kw)
	if IsNameStart(first) && c.pos+len(kw) < len(c.src) {
		next, _ := utf8.DecodeRuneInString(c.src[c.pos+len(kw):])
		if IsNameChar(next) {
			return false
		}
	}
	c.pos += len(kw)
	return true
}

// Word returns the name-like text (or the single character) at the current
// position without consuming it. Used in "found ..." diagnostics.
func (c *Cursor) Word() string {
	if !c.More() {
		return ""
	}
	end := c.pos
	for end < len(c.src) {
		r, n := utf8.DecodeRuneInString(c.src[end:])
		if !IsNameChar(r) && r != ':' {
			break
		}
		end += n
	}
	if end == c.pos {
		_, n := utf8.DecodeRuneInString(c.src[c.pos:])
		end += n
	}
	return c.src[c.pos:end]
}

// SkipSpace consumes whitespace only and reports whether any was found.
func (c *Cursor) SkipSpace() bool {
	start := c.pos
	for c.pos < len(c.src) && IsSpace(c.src[c.pos]) {
		c.pos++
	}
	return c.pos != start
}

// SkipInsignificant consumes whitespace and comments. Comments may nest
// arbitrarily; an unterminated comment is an error.
func (c *Cursor) SkipInsignificant() (bool, error) {
	start := c.pos
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if ch == '(' && c.PeekNext() == ':' {
			if err := c.comment(); err != nil {
				return true, err
			}
			continue
		}
		if !IsSpace(ch) {
			break
		}
		c.pos++
	}
	return c.pos != start, nil
}

func (c *Cursor) comment() error {
	open := c.pos
	c.pos += 2
	depth := 1
	for c.pos < len(c.src) {
		switch {
		case c.HasPrefix("(:"):
			depth++
			c.pos += 2
		case c.HasPrefix(":)"):
			depth--
			c.pos += 2
			if depth == 0 {
				return nil
			}
		default:
			c.pos++
		}
	}
	return &Error{Offset: open, Message: "comment not closed"}
}

// NCName scans a non-colonized name and returns it, or "" without moving if
// no name starts here.
func (c *Cursor) NCName() string {
	r, n := c.PeekRune()
	if n == 0 || !IsNameStart(r) {
		return ""
	}
	start := c.pos
	c.pos += n
	for c.pos < len(c.src) {
		r, n = utf8.DecodeRuneInString(c.src[c.pos:])
		if !IsNameChar(r) {
			break
		}
		c.pos += n
	}
	return c.src[start:c.pos]
}

// QName scans "prefix:local" or "local". A colon is only consumed when a
// name follows it, so "a:*" leaves the cursor on the colon.
func (c *Cursor) QName() string {
	start := c.pos
	if c.NCName() == "" {
		return ""
	}
	mark := c.pos
	if c.ConsumeIf(':') {
		if c.NCName() == "" {
			c.pos = mark
		}
	}
	return c.src[start:c.pos]
}
