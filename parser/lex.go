package parser

import (
	"strconv"

	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/lexer"
	"github.com/xqgo/xquery/internal/token"
)

// ws skips whitespace and comments. An unclosed comment is recorded as the
// parse error and the cursor moves to the end of input.
func (p *Parser) ws() bool {
	skipped, err := p.cur.SkipInsignificant()
	if err != nil {
		if p.lexErr == nil {
			p.lexErr = p.lexicalErr(err)
		}
		p.cur.Reset(p.cur.Len())
	}
	return skipped
}

// here skips whitespace and returns the position of the next token.
func (p *Parser) here() token.Position {
	p.ws()
	return p.lines.Position(p.cur.Pos())
}

func (p *Parser) posAt(offset int) token.Position {
	return p.lines.Position(offset)
}

// peek skips whitespace and returns the next byte without consuming it.
func (p *Parser) peek() byte {
	p.ws()
	return p.cur.Peek()
}

// nextIs reports whether the next token starts with ch, without moving.
func (p *Parser) nextIs(ch byte) bool {
	mark := p.cur.Mark()
	ok := p.peek() == ch
	p.cur.Reset(mark)
	return ok
}

// consume skips whitespace and consumes the keyword or symbol s. On failure
// the cursor is left exactly where it was, whitespace included.
func (p *Parser) consume(s string) bool {
	mark := p.cur.Mark()
	p.ws()
	if p.cur.ConsumeKeyword(s) {
		return true
	}
	p.cur.Reset(mark)
	return false
}

// consumePair consumes s1 followed by s2, or nothing.
func (p *Parser) consumePair(s1, s2 string) bool {
	mark := p.cur.Mark()
	if p.consume(s1) && p.consume(s2) {
		return true
	}
	p.cur.Reset(mark)
	return false
}

// consumeSeq consumes all of words in order, or nothing.
func (p *Parser) consumeSeq(words ...string) bool {
	mark := p.cur.Mark()
	for _, w := range words {
		if !p.consume(w) {
			p.cur.Reset(mark)
			return false
		}
	}
	return true
}

// expect consumes s or fails with a syntax error naming what was found.
func (p *Parser) expect(s string) error {
	if p.consume(s) {
		return nil
	}
	return p.expected(strconv.Quote(s))
}

// expected reports that want was expected at the cursor. The error is placed
// before any whitespace or comments; the found text and the hint describe
// the token after them.
func (p *Parser) expected(want string, hints ...string) *Error {
	start := p.cur.Pos()
	p.ws()
	found, word := p.found(), p.cur.Word()
	p.cur.Reset(start)
	e := p.syntaxErr("expecting %s, found %s", want, found)
	if len(hints) > 0 {
		return withHint(e, word, hints)
	}
	return e
}

// found describes the input at the cursor for diagnostics.
func (p *Parser) found() string {
	if !p.cur.More() {
		return "end of input"
	}
	return strconv.Quote(p.cur.Word())
}

// incomplete reports an operator or keyword whose operand is missing. A
// pending alternative takes precedence since it names the real cause.
func (p *Parser) incomplete() error {
	if p.alt != nil {
		return p.raise()
	}
	p.ws()
	if !p.cur.More() {
		return p.syntaxErr("incomplete expression")
	}
	return p.syntaxErr("incomplete expression, found %s", p.found())
}

// required parses a single expression that must be present.
func (p *Parser) required() (ast.Expr, error) {
	e, err := p.single()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, p.incomplete()
	}
	return e, nil
}

// enclosed parses "{" Expr "}". When optional is true the braces may be
// empty and a nil expression is returned.
func (p *Parser) enclosed(optional bool) (ast.Expr, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if e == nil && !optional {
		if p.peek() == '}' {
			return nil, p.syntaxErr("expecting expression")
		}
		return nil, p.incomplete()
	}
	if err := p.expect("}"); err != nil {
		if p.alt != nil {
			return nil, p.raise()
		}
		return nil, err
	}
	return e, nil
}

// stringLiteral parses a quoted string literal, or returns ok=false if no
// quote is next.
func (p *Parser) stringLiteral() (string, bool, error) {
	p.ws()
	q := p.cur.Peek()
	if !lexer.IsQuote(q) {
		return "", false, nil
	}
	start := p.cur.Pos()
	p.cur.Advance()
	var buf lexer.Buffer
	for {
		if !p.cur.More() {
			return "", false, p.errorAt(start, errors.XPST0003, errors.Syntax, "unterminated string literal")
		}
		ch := p.cur.Peek()
		if ch == q {
			p.cur.Advance()
			if p.cur.Peek() != q {
				break
			}
		}
		if err := p.cur.Entity(&buf); err != nil {
			return "", false, p.lexicalErr(err)
		}
	}
	return buf.Finish(), true, nil
}

// uriLiteral parses a string literal that must be present.
func (p *Parser) uriLiteral() (string, error) {
	s, ok, err := p.stringLiteral()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", p.syntaxErr("expecting string literal, found %s", p.found())
	}
	return s, nil
}

func (p *Parser) lexicalErr(err error) *Error {
	offset, msg := p.cur.Pos(), err.Error()
	if le, ok := err.(*lexer.Error); ok {
		offset, msg = le.Offset, le.Message
	}
	return p.newError(offset, errors.XPST0003, errors.Syntax, msg, err)
}
