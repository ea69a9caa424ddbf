package parser

import (
	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/token"
)

// expr parses "Expr ::= ExprSingle ("," ExprSingle)*".
func (p *Parser) expr() (ast.Expr, error) {
	first, err := p.single()
	if err != nil || first == nil {
		return nil, err
	}
	if !p.consume(",") {
		return first, nil
	}
	items := []ast.Expr{first}
	for {
		e, err := p.required()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if !p.consume(",") {
			break
		}
	}
	return &ast.Sequence{Items: items}, nil
}

// single parses an ExprSingle: the keyword-introduced forms, then the
// operator ladder starting at "or".
func (p *Parser) single() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.alt = nil

	productions := [...]func() (ast.Expr, error){
		p.flwor, p.quantified, p.typeswitch, p.ifExpr, p.tryCatch, p.update,
	}
	for _, parse := range productions {
		e, err := parse()
		if err != nil || e != nil {
			return e, err
		}
	}
	return p.or()
}

// flwor parses "(ForClause | LetClause)+ WhereClause? OrderByClause?
// return ExprSingle". Variables bound by the clauses are visible up to the
// end of the return expression.
func (p *Parser) flwor() (ast.Expr, error) {
	mark := p.vars.Size()
	defer p.vars.Truncate(mark)

	clauses, err := p.forLet()
	if err != nil || clauses == nil {
		return nil, err
	}
	f := &ast.FLWOR{Clauses: clauses}
	if p.consume("where") {
		if f.Where, err = p.required(); err != nil {
			return nil, err
		}
	}
	if p.consumeSeq("stable", "order", "by") {
		f.Stable = true
		if f.OrderBy, err = p.orderSpecs(); err != nil {
			return nil, err
		}
	} else if p.consumePair("order", "by") {
		if f.OrderBy, err = p.orderSpecs(); err != nil {
			return nil, err
		}
	}
	if !p.consume("return") {
		if p.alt != nil {
			return nil, p.raise()
		}
		return nil, p.expected(`"return"`, "return")
	}
	if f.Return, err = p.required(); err != nil {
		return nil, err
	}
	return f, nil
}

// forLet parses a run of for and let clauses.
func (p *Parser) forLet() ([]ast.Clause, error) {
	var clauses []ast.Clause
	for {
		switch {
		case p.consumePair("for", "$"):
			fors, err := p.forBindings(true)
			if err != nil {
				return nil, err
			}
			for _, c := range fors {
				clauses = append(clauses, c)
			}
		case p.consumePair("let", "$"):
			lets, err := p.letBindings(false)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, lets...)
		case p.consumeSeq("let", "score", "$"):
			lets, err := p.letBindings(true)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, lets...)
		default:
			return clauses, nil
		}
	}
}

// forBindings parses the bindings of a for clause or a quantified
// expression. The leading "$" of the first binding has been consumed.
// Each binding becomes visible after its "in" expression; the positional
// and score variables must differ from the binding and from each other.
func (p *Parser) forBindings(clause bool) ([]*ast.ForClause, error) {
	var bindings []*ast.ForClause
	for {
		dollar := p.posAt(p.cur.Pos() - 1)
		name, err := p.varName()
		if err != nil {
			return nil, err
		}
		b := &ast.ForClause{Dollar: dollar, Var: name}
		if p.consume("as") {
			if b.Type, err = p.sequenceType(); err != nil {
				return nil, err
			}
		}
		var atEnd, scoreEnd int
		if clause && p.consumePair("at", "$") {
			at, err := p.varName()
			if err != nil {
				return nil, err
			}
			b.At, atEnd = &at, p.cur.Pos()
		}
		if clause && p.consumePair("score", "$") {
			score, err := p.varName()
			if err != nil {
				return nil, err
			}
			b.Score, scoreEnd = &score, p.cur.Pos()
		}
		if err := p.expect("in"); err != nil {
			return nil, err
		}
		if b.In, err = p.required(); err != nil {
			return nil, err
		}
		if err := p.bindFor(b, atEnd, scoreEnd); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
		if !p.consumePair(",", "$") {
			return bindings, nil
		}
	}
}

// bindFor brings the variables of b into scope. A score variable that
// repeats the binding or positional name is reported before a positional
// variable that repeats the binding name.
func (p *Parser) bindFor(b *ast.ForClause, atEnd, scoreEnd int) error {
	mark := p.vars.Size()
	p.vars.Push(b.Var, b.Type)
	atClash := false
	if b.At != nil {
		atClash = p.vars.BoundSince(mark, *b.At)
		p.vars.Push(*b.At, nil)
	}
	if b.Score != nil {
		if p.vars.BoundSince(mark, *b.Score) {
			return p.errorAt(scoreEnd, errors.XQST0089, errors.Name,
				"score variable $%s has the same name as another variable of its binding", *b.Score)
		}
		p.vars.Push(*b.Score, nil)
	}
	if atClash {
		return p.errorAt(atEnd, errors.XQST0089, errors.Name,
			"positional variable $%s has the same name as its binding", *b.At)
	}
	return nil
}

// letBindings parses the bindings of a let clause. The leading "$" of the
// first binding has been consumed.
func (p *Parser) letBindings(score bool) ([]ast.Clause, error) {
	var clauses []ast.Clause
	for {
		dollar := p.posAt(p.cur.Pos() - 1)
		name, err := p.varName()
		if err != nil {
			return nil, err
		}
		c := &ast.LetClause{Dollar: dollar, Var: name, Score: score}
		if !score && p.consume("as") {
			if c.Type, err = p.sequenceType(); err != nil {
				return nil, err
			}
		}
		if err := p.expect(":="); err != nil {
			return nil, err
		}
		if c.Value, err = p.required(); err != nil {
			return nil, err
		}
		p.vars.Push(c.Var, c.Type)
		clauses = append(clauses, c)
		switch {
		case p.consumePair(",", "$"):
			score = false
		case p.consumeSeq(",", "score", "$"):
			score = true
		default:
			return clauses, nil
		}
	}
}

// orderSpecs parses the order specifications after "order by".
func (p *Parser) orderSpecs() ([]*ast.OrderSpec, error) {
	var specs []*ast.OrderSpec
	for {
		key, err := p.required()
		if err != nil {
			return nil, err
		}
		spec := &ast.OrderSpec{Key: key}
		if p.consume("descending") {
			spec.Descending = true
		} else {
			p.consume("ascending")
		}
		if p.consume("empty") {
			switch {
			case p.consume("greatest"):
				spec.EmptyGreatest = true
			case p.consume("least"):
			default:
				return nil, p.expected(`"greatest" or "least"`)
			}
		}
		if p.consume("collation") {
			start := p.here()
			uri, err := p.uriLiteral()
			if err != nil {
				return nil, err
			}
			if uri != ast.CodepointCollation {
				return nil, p.errorAt(start.Char, errors.XQST0076, errors.Unsupported, "unknown collation %q", uri)
			}
			spec.Collation = uri
		}
		specs = append(specs, spec)
		if !p.consume(",") {
			return specs, nil
		}
	}
}

// quantified parses "(some | every) $v in E (, $v in E)* satisfies E".
func (p *Parser) quantified() (ast.Expr, error) {
	start := p.cur.Mark()
	var every bool
	switch {
	case p.consumePair("some", "$"):
	case p.consumePair("every", "$"):
		every = true
	default:
		return nil, nil
	}
	mark := p.vars.Size()
	defer p.vars.Truncate(mark)

	q := &ast.Quantified{Keyword: p.posAfterSpace(start), Every: every}
	var err error
	if q.Bindings, err = p.forBindings(false); err != nil {
		return nil, err
	}
	if err := p.expect("satisfies"); err != nil {
		return nil, err
	}
	if q.Satisfies, err = p.required(); err != nil {
		return nil, err
	}
	return q, nil
}

// typeswitch parses "typeswitch (Expr) CaseClause+ default ($v)? return E".
func (p *Parser) typeswitch() (ast.Expr, error) {
	start := p.cur.Mark()
	if !p.consumePair("typeswitch", "(") {
		return nil, nil
	}
	ts := &ast.TypeSwitch{Typeswitch: p.posAfterSpace(start)}
	operand, err := p.expr()
	if err != nil {
		return nil, err
	}
	if operand == nil {
		return nil, p.incomplete()
	}
	ts.Operand = operand
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	for {
		caseStart := p.here()
		if !p.consume("case") {
			break
		}
		c, err := p.typeCase(caseStart, false)
		if err != nil {
			return nil, err
		}
		ts.Cases = append(ts.Cases, c)
	}
	if len(ts.Cases) == 0 {
		return nil, p.expected(`"case"`)
	}
	defStart := p.here()
	if err := p.expect("default"); err != nil {
		return nil, err
	}
	if ts.Default, err = p.typeCase(defStart, true); err != nil {
		return nil, err
	}
	return ts, nil
}

func (p *Parser) typeCase(pos token.Position, def bool) (*ast.TypeCase, error) {
	mark := p.vars.Size()
	defer p.vars.Truncate(mark)

	c := &ast.TypeCase{Case: pos}
	if p.consume("$") {
		name, err := p.varName()
		if err != nil {
			return nil, err
		}
		c.Var = &name
		if !def {
			if err := p.expect("as"); err != nil {
				return nil, err
			}
		}
	}
	if !def {
		typ, err := p.sequenceType()
		if err != nil {
			return nil, err
		}
		c.Type = typ
	}
	if c.Var != nil {
		p.vars.Push(*c.Var, c.Type)
	}
	if err := p.expect("return"); err != nil {
		return nil, err
	}
	var err error
	if c.Return, err = p.required(); err != nil {
		return nil, err
	}
	return c, nil
}

// ifExpr parses "if (Expr) then ExprSingle else ExprSingle".
func (p *Parser) ifExpr() (ast.Expr, error) {
	start := p.cur.Mark()
	if !p.consumePair("if", "(") {
		return nil, nil
	}
	x := &ast.If{If: p.posAfterSpace(start)}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, p.incomplete()
	}
	x.Cond = cond
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if err := p.expect("then"); err != nil {
		return nil, err
	}
	if x.Then, err = p.required(); err != nil {
		return nil, err
	}
	if err := p.expect("else"); err != nil {
		return nil, err
	}
	if x.Else, err = p.required(); err != nil {
		return nil, err
	}
	return x, nil
}

// tryCatch parses "try { Expr } (catch NameTests ($c, $d, $v)? { Expr })+".
func (p *Parser) tryCatch() (ast.Expr, error) {
	start := p.cur.Mark()
	if !p.consumePair("try", "{") {
		return nil, nil
	}
	p.cur.Reset(p.cur.Pos() - 1)
	x := &ast.TryCatch{Try: p.posAfterSpace(start)}
	body, err := p.enclosed(false)
	if err != nil {
		return nil, err
	}
	x.Body = body
	for {
		catchPos := p.here()
		if !p.consume("catch") {
			break
		}
		c, err := p.catchClause(catchPos)
		if err != nil {
			return nil, err
		}
		x.Catches = append(x.Catches, c)
	}
	if len(x.Catches) == 0 {
		return nil, p.expected(`"catch"`)
	}
	return x, nil
}

func (p *Parser) catchClause(pos token.Position) (*ast.Catch, error) {
	c := &ast.Catch{Catch: pos}
	for {
		test, err := p.nameTest(false)
		if err != nil {
			return nil, err
		}
		if test == nil {
			return nil, p.syntaxErr("expecting error name, found %s", p.found())
		}
		c.Codes = append(c.Codes, *test)
		if !p.consume("|") {
			break
		}
	}
	mark := p.vars.Size()
	defer p.vars.Truncate(mark)
	if p.consume("(") {
		for {
			if err := p.expect("$"); err != nil {
				return nil, err
			}
			name, err := p.varName()
			if err != nil {
				return nil, err
			}
			if p.vars.BoundSince(mark, name) {
				return nil, p.errorf(errors.XQST0039, errors.Name, "duplicate variable $%s", name)
			}
			c.Vars = append(c.Vars, name)
			p.vars.Push(name, nil)
			if len(c.Vars) == 3 || !p.consume(",") {
				break
			}
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
	}
	body, err := p.enclosed(false)
	if err != nil {
		return nil, err
	}
	c.Body = body
	return c, nil
}

// update recognises the update facility expressions, which are not
// implemented.
func (p *Parser) update() (ast.Expr, error) {
	mark := p.cur.Mark()
	p.ws()
	start := p.cur.Pos()
	switch {
	case p.consumePair("delete", "node"), p.consumePair("delete", "nodes"):
		return nil, p.unsupported(start, errors.XQP0001, "delete expression")
	case p.consumePair("insert", "node"), p.consumePair("insert", "nodes"):
		return nil, p.unsupported(start, errors.XQP0001, "insert expression")
	case p.consumePair("rename", "node"):
		return nil, p.unsupported(start, errors.XQP0001, "rename expression")
	case p.consumeSeq("replace", "value", "of", "node"), p.consumePair("replace", "node"):
		return nil, p.unsupported(start, errors.XQP0001, "replace expression")
	case p.consumePair("copy", "$"), p.consumePair("transform", "copy"):
		return nil, p.unsupported(start, errors.XQP0001, "transform expression")
	}
	p.cur.Reset(mark)
	return nil, nil
}

// posAfterSpace returns the position of the first token at or after offset.
func (p *Parser) posAfterSpace(offset int) token.Position {
	save := p.cur.Mark()
	p.cur.Reset(offset)
	pos := p.here()
	p.cur.Reset(save)
	return pos
}

// varName parses the QName of a variable after its "$" and resolves it.
// Unprefixed variable names are in no namespace.
func (p *Parser) varName() (ast.QName, error) {
	p.ws()
	start := p.cur.Pos()
	lexical := p.cur.QName()
	if lexical == "" {
		return ast.QName{}, p.syntaxErr("expecting variable name, found %s", p.found())
	}
	return p.resolveName(lexical, start, "")
}
