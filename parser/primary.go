package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/lexer"
)

// primary parses a PrimaryExpr: literals, variable references, parenthesized
// expressions, the context item, constructors, ordered expressions and
// function calls.
func (p *Parser) primary() (ast.Expr, error) {
	p.ws()
	start := p.cur.Pos()
	ch := p.cur.Peek()
	switch {
	case ch == '$':
		return p.varRef()
	case ch == '(':
		if p.cur.HasPrefix("(#") {
			return nil, nil
		}
		return p.parenthesized()
	case lexer.IsQuote(ch):
		s, _, err := p.stringLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.StringLiteral{ValuePos: p.posAt(start), Value: s}, nil
	case lexer.IsDigit(ch), ch == '.' && lexer.IsDigit(p.cur.PeekNext()):
		return p.numeric()
	case ch == '.':
		if p.cur.PeekNext() == '.' {
			return nil, nil
		}
		p.cur.Advance()
		return &ast.ContextItem{Dot: p.posAt(start)}, nil
	case ch == '<':
		return p.direct()
	}
	if e, err := p.ordered(); err != nil || e != nil {
		return e, err
	}
	if e, err := p.computed(); err != nil || e != nil {
		return e, err
	}
	return p.functionCall()
}

// varRef parses "$" QName. The variable must be in scope.
func (p *Parser) varRef() (ast.Expr, error) {
	start := p.cur.Pos()
	p.cur.Advance()
	name, err := p.varName()
	if err != nil {
		return nil, err
	}
	if p.vars.Lookup(name) == nil {
		e := p.errorAt(start, errors.XPST0008, errors.Name, "undefined variable $%s", name)
		return nil, withHint(e, name.String(), p.vars.Names())
	}
	return &ast.VarRef{Dollar: p.posAt(start), Name: name}, nil
}

// parenthesized parses "(" Expr? ")". A non-empty parenthesized expression
// is returned as its content.
func (p *Parser) parenthesized() (ast.Expr, error) {
	start := p.cur.Pos()
	p.cur.Advance()
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.consume(")") {
		if p.alt != nil {
			return nil, p.raise()
		}
		if e == nil {
			return nil, p.expected(`expression or ")"`)
		}
		return nil, p.expected(`")"`)
	}
	if e == nil {
		return &ast.EmptySequence{Lparen: p.posAt(start)}, nil
	}
	return e, nil
}

// numeric parses IntegerLiteral, DecimalLiteral and DoubleLiteral.
func (p *Parser) numeric() (ast.Expr, error) {
	start := p.cur.Pos()
	digits := func() int {
		n := 0
		for lexer.IsDigit(p.cur.Peek()) {
			p.cur.Advance()
			n++
		}
		return n
	}
	digits()
	dec, dbl := false, false
	if p.cur.Peek() == '.' && p.cur.PeekNext() != '.' {
		p.cur.Advance()
		digits()
		dec = true
	}
	if ch := p.cur.Peek(); ch == 'e' || ch == 'E' {
		p.cur.Advance()
		if ch := p.cur.Peek(); ch == '+' || ch == '-' {
			p.cur.Advance()
		}
		if digits() == 0 {
			return nil, p.errorf(errors.XPST0003, errors.Syntax, "incomplete double value")
		}
		dbl = true
	}
	if r, _ := p.cur.PeekRune(); lexer.IsNameStart(r) {
		return nil, p.errorf(errors.XPST0003, errors.Syntax, "unexpected character after number")
	}
	text := p.cur.Source()[start:p.cur.Pos()]
	pos := p.posAt(start)
	switch {
	case dbl:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil && !isRangeErr(err) {
			return nil, p.errorAt(start, errors.XPST0003, errors.Syntax, "invalid double %q", text)
		}
		return &ast.DoubleLiteral{ValuePos: pos, Literal: text, Value: v}, nil
	case dec:
		v, err := decimal.NewFromString(text)
		if err != nil {
			return nil, p.errorAt(start, errors.XPST0003, errors.Syntax, "invalid decimal %q", text)
		}
		return &ast.DecimalLiteral{ValuePos: pos, Literal: text, Value: v}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorAt(start, errors.FOAR0002, errors.Syntax, "integer %s is out of range", text)
	}
	return &ast.IntegerLiteral{ValuePos: pos, Literal: text, Value: v}, nil
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// ordered parses "ordered { Expr }" and "unordered { Expr }".
func (p *Parser) ordered() (ast.Expr, error) {
	start := p.cur.Pos()
	var isOrdered bool
	switch {
	case p.consumePair("ordered", "{"):
		isOrdered = true
	case p.consumePair("unordered", "{"):
	default:
		return nil, nil
	}
	p.cur.Reset(p.cur.Pos() - 1)
	body, err := p.enclosed(false)
	if err != nil {
		return nil, err
	}
	return &ast.Ordered{Keyword: p.posAt(start), Ordered: isOrdered, Body: body}, nil
}

// extension parses "Pragma+ { Expr? }". Pragmas are not interpreted, so the
// enclosed expression is required.
func (p *Parser) extension() (ast.Expr, error) {
	pos := p.here()
	pragmas, err := p.pragmas()
	if err != nil {
		return nil, err
	}
	brace := p.here()
	body, err := p.enclosed(true)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, p.errorAt(brace.Char, errors.XQST0079, errors.Grammar, "extension expression has no fallback expression")
	}
	return &ast.Extension{Lpragma: pos, Pragmas: pragmas, Body: body}, nil
}

// pragmas parses one or more "(#" QName Contents? "#)".
func (p *Parser) pragmas() ([]ast.Pragma, error) {
	var pragmas []ast.Pragma
	for {
		p.ws()
		start := p.cur.Pos()
		if !p.cur.ConsumeString("(#") {
			return pragmas, nil
		}
		p.cur.SkipSpace()
		nameStart := p.cur.Pos()
		lexical := p.cur.QName()
		if lexical == "" {
			return nil, p.errorf(errors.XPST0003, errors.Syntax, "incomplete pragma expression")
		}
		if prefix, _ := ast.SplitQName(lexical); prefix == "" {
			return nil, p.errorAt(nameStart, errors.XPST0081, errors.Name, "pragma name %s has no namespace prefix", lexical)
		}
		name, err := p.resolveName(lexical, nameStart, "")
		if err != nil {
			return nil, err
		}
		if !p.cur.HasPrefix("#)") && !p.cur.SkipSpace() {
			return nil, p.errorf(errors.XPST0003, errors.Syntax, "incomplete pragma expression")
		}
		end := strings.Index(p.cur.Source()[p.cur.Pos():], "#)")
		if end < 0 {
			return nil, p.errorAt(start, errors.XPST0003, errors.Syntax, "pragma expression not closed")
		}
		content := p.cur.Source()[p.cur.Pos() : p.cur.Pos()+end]
		p.cur.Reset(p.cur.Pos() + end + 2)
		pragmas = append(pragmas, ast.Pragma{Name: name, Content: strings.TrimRight(content, " \t\r\n")})
	}
}

// reservedFunctionNames cannot be used as unprefixed function names
// (XQuery 1.0, appendix A.3).
var reservedFunctionNames = map[string]bool{
	"attribute":              true,
	"comment":                true,
	"document-node":          true,
	"element":                true,
	"empty-sequence":         true,
	"if":                     true,
	"item":                   true,
	"node":                   true,
	"processing-instruction": true,
	"schema-attribute":       true,
	"schema-element":         true,
	"text":                   true,
	"typeswitch":             true,
}

// functionCall parses "QName ( (ExprSingle ("," ExprSingle)*)? )".
// Calls into the fn namespace are checked against the built-in catalog and
// xs: calls against the atomic types; an unknown name is remembered as the
// alternative diagnostic and the production does not match. Other calls
// are linked to user declarations, possibly once the module is complete.
func (p *Parser) functionCall() (ast.Expr, error) {
	p.ws()
	start := p.cur.Pos()
	lexical := p.cur.QName()
	if lexical == "" {
		return nil, nil
	}
	if reservedFunctionNames[lexical] || !p.consume("(") {
		p.cur.Reset(start)
		return nil, nil
	}
	var args []ast.Expr
	if !p.consume(")") {
		for {
			arg, err := p.required()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.consume(",") {
				continue
			}
			if err := p.expect(")"); err != nil {
				if p.alt != nil {
					return nil, p.raise()
				}
				return nil, err
			}
			break
		}
	}

	prefix, local := ast.SplitQName(lexical)
	uri := p.ns.DefaultFunction
	if prefix != "" {
		var err error
		if uri, err = p.resolvePrefix(prefix, start); err != nil {
			return nil, err
		}
	}
	call := &ast.FunctionCall{
		NamePos: p.posAt(start),
		Name:    ast.QName{Prefix: prefix, Local: local, URI: uri},
		Args:    args,
	}
	switch uri {
	case ast.FNURI:
		if !p.checkBuiltin(call, start) {
			return nil, nil
		}
		call.Kind = ast.BuiltinCall
	case ast.XSURI:
		if !p.checkConstructor(call, start) {
			return nil, nil
		}
		call.Kind = ast.ConstructorCall
	default:
		call.Kind = ast.UserCall
		p.fns.Call(call)
	}
	p.alt = nil
	return call, nil
}

func (p *Parser) checkBuiltin(call *ast.FunctionCall, start int) bool {
	arity, known := builtins[call.Name.Local]
	if known && arity.accepts(len(call.Args)) {
		return true
	}
	if known {
		p.supersede(start, errors.XPST0017, errors.Name,
			"function %s does not accept %d argument(s)", call.Name, len(call.Args))
	} else if p.alt == nil {
		e := p.remember(start, errors.XPST0017, errors.Name, "unknown function %s", call.Name)
		withHint(e, call.Name.String(), builtinNames())
	}
	p.cur.Reset(start)
	return false
}

func (p *Parser) checkConstructor(call *ast.FunctionCall, start int) bool {
	name := call.Name.Local
	if atomicTypes[name] && !abstractTypes[name] && len(call.Args) == 1 {
		return true
	}
	if atomicTypes[name] && !abstractTypes[name] {
		p.supersede(start, errors.XPST0017, errors.Name,
			"constructor function %s takes exactly one argument", call.Name)
	} else if p.alt == nil {
		e := p.remember(start, errors.XPST0017, errors.Name, "unknown constructor function %s", call.Name)
		withHint(e, call.Name.String(), atomicTypeNames())
	}
	p.cur.Reset(start)
	return false
}
