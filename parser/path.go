package parser

import (
	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/token"
)

// path parses "("/" RelativePath?) | ("//" RelativePath) | RelativePath".
// A path made only of axis steps becomes an AxisPath; a path containing
// filter steps, or rooted in a filter expression, becomes a MixedPath. A
// relative path with a single non-step expression is returned unwrapped.
func (p *Parser) path() (ast.Expr, error) {
	mark := p.cur.Mark()
	startPos := p.here()
	slashes := 0
	switch {
	case p.cur.ConsumeString("//"):
		slashes = 2
		p.descend = true
	case p.cur.ConsumeIf('/'):
		slashes = 1
	}

	first, err := p.step()
	if err != nil {
		return nil, err
	}
	if first == nil {
		switch slashes {
		case 2:
			return nil, p.missingStep()
		case 1:
			return &ast.Root{Slash: startPos}, nil
		}
		p.cur.Reset(mark)
		return nil, nil
	}
	_, firstIsStep := first.(*ast.Step)
	if slashes == 0 && !firstIsStep && !p.nextIs('/') {
		return first, nil
	}

	var root ast.Expr
	var steps []ast.Expr
	if slashes > 0 {
		root = &ast.Root{Slash: startPos}
		if slashes == 2 {
			steps = append(steps, descendantOrSelf(startPos))
		}
		steps = append(steps, first)
	} else if !firstIsStep {
		root = first
	} else {
		steps = append(steps, first)
	}

	for {
		mark := p.cur.Mark()
		sep := p.here()
		switch {
		case p.cur.ConsumeString("//"):
			steps = append(steps, descendantOrSelf(sep))
			p.descend = true
		case p.cur.ConsumeIf('/'):
		default:
			p.cur.Reset(mark)
			return p.buildPath(startPos, root, steps), nil
		}
		st, err := p.step()
		if err != nil {
			return nil, err
		}
		if st == nil {
			return nil, p.missingStep()
		}
		if _, ok := st.(*ast.ContextItem); !ok {
			steps = append(steps, st)
		}
	}
}

func (p *Parser) buildPath(start token.Position, root ast.Expr, steps []ast.Expr) ast.Expr {
	if len(steps) == 0 {
		return root
	}
	_, rooted := root.(*ast.Root)
	axisSteps := make([]*ast.Step, 0, len(steps))
	for _, s := range steps {
		if st, ok := s.(*ast.Step); ok {
			axisSteps = append(axisSteps, st)
		}
	}
	if len(axisSteps) == len(steps) && (root == nil || rooted) {
		return &ast.AxisPath{Start: start, Root: rooted, Steps: axisSteps}
	}
	return &ast.MixedPath{Start: start, Root: root, Steps: steps}
}

func descendantOrSelf(pos token.Position) *ast.Step {
	return &ast.Step{
		StepPos: pos,
		Axis:    ast.AxisDescendantOrSelf,
		Test:    &ast.KindTest{KindPos: pos, Kind: ast.KindNode},
	}
}

func (p *Parser) missingStep() error {
	if p.alt != nil {
		return p.raise()
	}
	return p.expected("location step")
}

// step parses a StepExpr: a filter expression, else an axis step.
func (p *Parser) step() (ast.Expr, error) {
	e, err := p.filter()
	if err != nil || e != nil {
		p.descend = false
		return e, err
	}
	st, err := p.axisStep()
	if err != nil || st == nil {
		return nil, err
	}
	return st, nil
}

// filter parses "PrimaryExpr Predicate*".
func (p *Parser) filter() (ast.Expr, error) {
	e, err := p.primary()
	if err != nil || e == nil {
		return nil, err
	}
	preds, err := p.predicates(false)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return e, nil
	}
	return &ast.Filter{X: e, Predicates: preds}, nil
}

// predicates parses "("[" Expr "]")*". Predicates of axis steps are
// reported to the hooks.
func (p *Parser) predicates(step bool) ([]ast.Expr, error) {
	var preds []ast.Expr
	for p.consume("[") {
		if step {
			p.hooks.Predicate(true)
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, p.incomplete()
		}
		if err := p.expect("]"); err != nil {
			if p.alt != nil {
				return nil, p.raise()
			}
			return nil, err
		}
		if step {
			p.hooks.Predicate(false)
		}
		preds = append(preds, e)
	}
	return preds, nil
}

// axisStep parses "(ReverseStep | ForwardStep) Predicate*", including the
// abbreviations "..", "@" and the implicit child axis.
func (p *Parser) axisStep() (*ast.Step, error) {
	pos := p.here()
	st := &ast.Step{StepPos: pos}
	switch {
	case p.cur.ConsumeString(".."):
		st.Axis = ast.AxisParent
		p.reportAxis(st.Axis)
		st.Test = &ast.KindTest{KindPos: pos, Kind: ast.KindNode}
	case p.cur.ConsumeIf('@'):
		st.Axis = ast.AxisAttribute
		p.reportAxis(st.Axis)
		test, err := p.nodeTest(true)
		if err != nil {
			return nil, err
		}
		if test == nil {
			return nil, p.expected("attribute name")
		}
		st.Test = test
	default:
		axis, explicit := p.axisName()
		if explicit {
			st.Axis = axis
			p.reportAxis(axis)
			test, err := p.nodeTest(axis == ast.AxisAttribute)
			if err != nil {
				return nil, err
			}
			if test == nil {
				return nil, p.expected("node test after " + axis.String() + "::")
			}
			st.Test = test
			break
		}
		st.Axis = ast.AxisChild
		p.reportAxis(st.Axis)
		test, err := p.nodeTest(false)
		if err != nil || test == nil {
			return nil, err
		}
		if kt, ok := test.(*ast.KindTest); ok && kt.Kind == ast.KindAttribute {
			st.Axis = ast.AxisAttribute
		}
		st.Test = test
	}
	p.hooks.NodeTest(st.Test, st.Axis == ast.AxisAttribute, p.cur.More())

	preds, err := p.predicates(true)
	if err != nil {
		return nil, err
	}
	st.Predicates = preds
	return st, nil
}

// axisName consumes "name ::" for one of the axis names.
func (p *Parser) axisName() (ast.Axis, bool) {
	for _, name := range ast.AxisNames() {
		mark := p.cur.Mark()
		if p.cur.ConsumeKeyword(name) && p.consume("::") {
			axis, _ := ast.LookupAxis(name)
			return axis, true
		}
		p.cur.Reset(mark)
	}
	return 0, false
}

// reportAxis notifies the hooks of a step's axis. The first implicit child
// step after "//" is reported as a descendant step.
func (p *Parser) reportAxis(axis ast.Axis) {
	if p.descend && axis == ast.AxisChild {
		axis = ast.AxisDescendant
	}
	p.descend = false
	p.hooks.Axis(axis)
}

// nodeTest parses a KindTest or a NameTest. attribute selects the name
// resolution rules of the attribute axis: unprefixed names are in no
// namespace instead of the default element namespace.
func (p *Parser) nodeTest(attribute bool) (ast.NodeTest, error) {
	p.ws()
	start := p.cur.Pos()
	if lexical := p.cur.QName(); lexical != "" && p.consume("(") {
		if kind, ok := ast.LookupKind(lexical); ok {
			return p.kindTest(kind, p.posAt(start))
		}
		p.cur.Reset(start)
		return nil, nil
	}
	p.cur.Reset(start)
	t, err := p.nameTest(attribute)
	if err != nil || t == nil {
		return nil, err
	}
	return t, nil
}

// nameTest parses "QName | * | p:* | *:n".
func (p *Parser) nameTest(attribute bool) (*ast.NameTest, error) {
	p.ws()
	start := p.cur.Pos()
	t := &ast.NameTest{NamePos: p.posAt(start), Attribute: attribute}
	if p.cur.ConsumeIf('*') {
		t.Kind = ast.NameAny
		if p.cur.Peek() == ':' {
			p.cur.Advance()
			if local := p.cur.NCName(); local != "" {
				t.Kind = ast.NameLocal
				t.Name = ast.QName{Local: local}
				return t, nil
			}
			p.cur.Reset(start + 1)
		}
		return t, nil
	}
	lexical := p.cur.QName()
	if lexical == "" {
		return nil, nil
	}
	if prefix, _ := ast.SplitQName(lexical); prefix == "" && p.cur.HasPrefix(":*") {
		p.cur.Advance()
		p.cur.Advance()
		uri, err := p.resolvePrefix(lexical, start)
		if err != nil {
			return nil, err
		}
		t.Kind = ast.NameNamespace
		t.Name = ast.QName{Prefix: lexical, URI: uri}
		return t, nil
	}
	def := ""
	if !attribute {
		def = p.ns.DefaultElement()
	}
	name, err := p.resolveName(lexical, start, def)
	if err != nil {
		return nil, err
	}
	t.Kind = ast.NameExact
	t.Name = name
	return t, nil
}

// resolveName expands a lexical QName. Unprefixed names get defaultURI.
func (p *Parser) resolveName(lexical string, offset int, defaultURI string) (ast.QName, error) {
	prefix, local := ast.SplitQName(lexical)
	if prefix == "" {
		return ast.QName{Local: local, URI: defaultURI}, nil
	}
	uri, err := p.resolvePrefix(prefix, offset)
	if err != nil {
		return ast.QName{}, err
	}
	return ast.QName{Prefix: prefix, Local: local, URI: uri}, nil
}

func (p *Parser) resolvePrefix(prefix string, offset int) (string, error) {
	uri, err := p.ns.Resolve(prefix)
	if err != nil {
		e := p.errorAt(offset, errors.XPST0081, errors.Name, "unknown namespace prefix %q", prefix)
		return "", withHint(e, prefix, p.ns.Prefixes())
	}
	return uri, nil
}
