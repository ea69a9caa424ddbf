package parser

import (
	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
)

// or parses "AndExpr ("or" AndExpr)*".
func (p *Parser) or() (ast.Expr, error) {
	return p.logical("or", false, p.and)
}

// and parses "ComparisonExpr ("and" ComparisonExpr)*".
func (p *Parser) and() (ast.Expr, error) {
	return p.logical("and", true, p.comparison)
}

func (p *Parser) logical(kw string, and bool, next func() (ast.Expr, error)) (ast.Expr, error) {
	first, err := next()
	if err != nil || first == nil {
		return nil, err
	}
	if !p.consume(kw) {
		return first, nil
	}
	operands := []ast.Expr{first}
	for {
		e, err := next()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, p.incomplete()
		}
		operands = append(operands, e)
		if !p.consume(kw) {
			return &ast.Logical{And: and, Operands: operands}, nil
		}
	}
}

var (
	valueComps = []string{"eq", "ne", "lt", "le", "gt", "ge"}
	nodeComps  = []string{"is", "<<", ">>"}
	// Two-character operators come before their one-character prefixes.
	generalComps = []string{"!=", "<=", ">=", "=", "<", ">"}
)

// comparison parses "FTContainsExpr (CompOp FTContainsExpr)?". Comparisons
// do not associate: "a = b = c" leaves "= c" unconsumed.
func (p *Parser) comparison() (ast.Expr, error) {
	x, err := p.ftContains()
	if err != nil || x == nil {
		return nil, err
	}
	kind, op := p.compOp()
	if op == "" {
		return x, nil
	}
	y, err := p.ftContains()
	if err != nil {
		return nil, err
	}
	if y == nil {
		return nil, p.incomplete()
	}
	return &ast.Comparison{Kind: kind, Op: op, X: x, Y: y}, nil
}

func (p *Parser) compOp() (ast.CompKind, string) {
	for _, op := range valueComps {
		if p.consume(op) {
			return ast.ValueComp, op
		}
	}
	for _, op := range nodeComps {
		if p.consume(op) {
			return ast.NodeComp, op
		}
	}
	for _, op := range generalComps {
		if p.consume(op) {
			return ast.GeneralComp, op
		}
	}
	return 0, ""
}

// ftContains parses "RangeExpr (ftcontains FTSelection FTIgnoreOption?)?".
// The XQuery Full Text 1.0 spelling "contains text" is accepted as well.
func (p *Parser) ftContains() (ast.Expr, error) {
	x, err := p.rangeExpr()
	if err != nil || x == nil {
		return nil, err
	}
	if !p.consume("ftcontains") && !p.consumePair("contains", "text") {
		return x, nil
	}
	sel, err := p.ftSelection()
	if err != nil {
		return nil, err
	}
	if sel == nil {
		return nil, p.syntaxErr("expecting full-text selection, found %s", p.found())
	}
	p.ws()
	if start := p.cur.Pos(); p.consumePair("without", "content") {
		return nil, p.unsupported(start, errors.XQP0001, "\"without content\"")
	}
	return &ast.FTContains{X: x, Selection: sel}, nil
}

// rangeExpr parses "AdditiveExpr ("to" AdditiveExpr)?".
func (p *Parser) rangeExpr() (ast.Expr, error) {
	from, err := p.additive()
	if err != nil || from == nil {
		return nil, err
	}
	if !p.consume("to") {
		return from, nil
	}
	to, err := p.additive()
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, p.incomplete()
	}
	return &ast.Range{From: from, To: to}, nil
}

// additive parses "MultiplicativeExpr (("+" | "-") MultiplicativeExpr)*".
func (p *Parser) additive() (ast.Expr, error) {
	return p.arithmetic(p.multiplicative, ast.OpAdd, ast.OpSub)
}

// multiplicative parses "UnionExpr (("*" | "div" | "idiv" | "mod") UnionExpr)*".
func (p *Parser) multiplicative() (ast.Expr, error) {
	return p.arithmetic(p.union, ast.OpMul, ast.OpDiv, ast.OpIDiv, ast.OpMod)
}

func (p *Parser) arithmetic(next func() (ast.Expr, error), ops ...ast.ArithOp) (ast.Expr, error) {
	x, err := next()
	if err != nil || x == nil {
		return nil, err
	}
	for {
		op, ok := p.arithOp(ops)
		if !ok {
			return x, nil
		}
		y, err := next()
		if err != nil {
			return nil, err
		}
		if y == nil {
			return nil, p.incomplete()
		}
		x = &ast.Arithmetic{Op: op, X: x, Y: y}
	}
}

func (p *Parser) arithOp(ops []ast.ArithOp) (ast.ArithOp, bool) {
	for _, op := range ops {
		if p.consume(string(op)) {
			return op, true
		}
	}
	return "", false
}

// union parses "IntersectExceptExpr (("union" | "|") IntersectExceptExpr)*".
func (p *Parser) union() (ast.Expr, error) {
	first, err := p.intersectExcept()
	if err != nil || first == nil {
		return nil, err
	}
	operands := []ast.Expr{first}
	for p.consume("union") || p.consume("|") {
		e, err := p.intersectExcept()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, p.incomplete()
		}
		operands = append(operands, e)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return &ast.SetExpr{Op: ast.OpUnion, Operands: operands}, nil
}

// intersectExcept parses "InstanceofExpr (("intersect" | "except")
// InstanceofExpr)*". A change of operator starts a new set expression with
// the previous one as its first operand.
func (p *Parser) intersectExcept() (ast.Expr, error) {
	x, err := p.instanceOf()
	if err != nil || x == nil {
		return nil, err
	}
	var set *ast.SetExpr
	for {
		var op ast.SetOp
		switch {
		case p.consume("intersect"):
			op = ast.OpIntersect
		case p.consume("except"):
			op = ast.OpExcept
		default:
			if set == nil {
				return x, nil
			}
			return set, nil
		}
		y, err := p.instanceOf()
		if err != nil {
			return nil, err
		}
		if y == nil {
			return nil, p.incomplete()
		}
		if set != nil && set.Op == op {
			set.Operands = append(set.Operands, y)
			continue
		}
		if set != nil {
			x = set
		}
		set = &ast.SetExpr{Op: op, Operands: []ast.Expr{x, y}}
	}
}

// instanceOf parses "TreatExpr ("instance" "of" SequenceType)?".
func (p *Parser) instanceOf() (ast.Expr, error) {
	x, err := p.treat()
	if err != nil || x == nil || !p.consumePair("instance", "of") {
		return x, err
	}
	typ, err := p.sequenceType()
	if err != nil {
		return nil, err
	}
	return &ast.InstanceOf{X: x, Type: typ}, nil
}

// treat parses "CastableExpr ("treat" "as" SequenceType)?".
func (p *Parser) treat() (ast.Expr, error) {
	x, err := p.castable()
	if err != nil || x == nil || !p.consumePair("treat", "as") {
		return x, err
	}
	typ, err := p.sequenceType()
	if err != nil {
		return nil, err
	}
	return &ast.Treat{X: x, Type: typ}, nil
}

// castable parses "CastExpr ("castable" "as" SingleType)?".
func (p *Parser) castable() (ast.Expr, error) {
	x, err := p.cast()
	if err != nil || x == nil || !p.consumePair("castable", "as") {
		return x, err
	}
	typ, err := p.singleType()
	if err != nil {
		return nil, err
	}
	return &ast.Castable{X: x, Type: typ}, nil
}

// cast parses "UnaryExpr ("cast" "as" SingleType)?".
func (p *Parser) cast() (ast.Expr, error) {
	x, err := p.unary()
	if err != nil || x == nil || !p.consumePair("cast", "as") {
		return x, err
	}
	typ, err := p.singleType()
	if err != nil {
		return nil, err
	}
	return &ast.Cast{X: x, Type: typ}, nil
}

// unary parses "("-" | "+")* ValueExpr". Only the parity of the minus signs
// is kept.
func (p *Parser) unary() (ast.Expr, error) {
	start := p.here()
	signs, negate := false, false
	for {
		switch {
		case p.consume("-"):
			negate = !negate
		case p.consume("+"):
		default:
			x, err := p.value()
			if err != nil {
				return nil, err
			}
			if !signs {
				return x, nil
			}
			if x == nil {
				return nil, p.incomplete()
			}
			return &ast.Unary{OpPos: start, Negate: negate, X: x}, nil
		}
		signs = true
	}
}

// value parses a ValueExpr: a validate expression, an extension expression
// or a path expression.
func (p *Parser) value() (ast.Expr, error) {
	p.ws()
	start := p.cur.Pos()
	if p.consumePair("validate", "{") || p.consumeSeq("validate", "lax", "{") ||
		p.consumeSeq("validate", "strict", "{") {
		return nil, p.unsupported(start, errors.XQST0075, "validate expression")
	}
	if p.cur.HasPrefix("(#") {
		return p.extension()
	}
	return p.path()
}
