package parser

import (
	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/token"
)

// sequenceType parses "empty-sequence() | ItemType OccurrenceIndicator?".
func (p *Parser) sequenceType() (*ast.SequenceType, error) {
	pos := p.here()
	start := p.cur.Pos()
	typ := &ast.SequenceType{TypePos: pos}
	switch {
	case p.consumePair("empty-sequence", "("):
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		p.ws()
		if ch := p.cur.Peek(); ch == '?' || ch == '*' || ch == '+' {
			return nil, p.errorf(errors.XPST0005, errors.Grammar,
				"empty-sequence() cannot have an occurrence indicator")
		}
		typ.Kind = ast.ItemEmpty
		return typ, nil
	case p.consumePair("item", "("):
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		typ.Kind = ast.ItemAny
	default:
		lexical := p.cur.QName()
		if lexical == "" {
			return nil, p.syntaxErr("expecting sequence type, found %s", p.found())
		}
		if kind, ok := ast.LookupKind(lexical); ok && p.consume("(") {
			test, err := p.kindTest(kind, pos)
			if err != nil {
				return nil, err
			}
			typ.Kind = ast.ItemNode
			typ.Test = test
			break
		}
		name, err := p.atomicType(lexical, start)
		if err != nil {
			return nil, err
		}
		typ.Kind = ast.ItemAtomic
		typ.Atomic = name
	}
	switch {
	case p.consume("?"):
		typ.Occurrence = ast.ZeroOrOne
	case p.consume("*"):
		typ.Occurrence = ast.ZeroOrMore
	case p.consume("+"):
		typ.Occurrence = ast.OneOrMore
	}
	return typ, nil
}

// singleType parses "AtomicType "?"?", the target of cast and castable.
func (p *Parser) singleType() (*ast.SingleType, error) {
	pos := p.here()
	start := p.cur.Pos()
	lexical := p.cur.QName()
	if lexical == "" {
		return nil, p.syntaxErr("expecting atomic type, found %s", p.found())
	}
	name, err := p.atomicType(lexical, start)
	if err != nil {
		return nil, err
	}
	if abstractTypes[name.Local] {
		return nil, p.errorAt(start, errors.XPST0080, errors.Grammar, "cannot cast to %s", name)
	}
	return &ast.SingleType{TypePos: pos, Type: name, Optional: p.consume("?")}, nil
}

// atomicType resolves the name of a built-in atomic type. Unprefixed names
// are in the default element namespace.
func (p *Parser) atomicType(lexical string, offset int) (ast.QName, error) {
	name, err := p.resolveName(lexical, offset, p.ns.DefaultElement())
	if err != nil {
		return ast.QName{}, err
	}
	if name.URI != ast.XSURI || !atomicTypes[name.Local] {
		e := p.errorAt(offset, errors.XPST0051, errors.Name, "unknown atomic type %s", lexical)
		return ast.QName{}, withHint(e, name.Local, atomicTypeNames())
	}
	return name, nil
}

// kindTest parses the arguments of a kind test whose name and "(" have been
// consumed, up to and including the closing ")".
func (p *Parser) kindTest(kind ast.NodeKind, pos token.Position) (*ast.KindTest, error) {
	t := &ast.KindTest{KindPos: pos, Kind: kind}
	switch kind {
	case ast.KindPI:
		p.ws()
		if target := p.cur.NCName(); target != "" {
			t.Target = target
		} else if s, ok, err := p.stringLiteral(); err != nil {
			return nil, err
		} else if ok {
			t.Target = s
		}
	case ast.KindElement, ast.KindAttribute:
		if err := p.elementOrAttributeTest(t); err != nil {
			return nil, err
		}
	case ast.KindDocument:
		p.ws()
		start := p.cur.Pos()
		switch {
		case p.consumePair("element", "("):
			elem, err := p.kindTest(ast.KindElement, p.posAt(start))
			if err != nil {
				return nil, err
			}
			t.Element = elem
		case p.consumePair("schema-element", "("):
			return nil, p.unsupported(start, errors.XQP0001, "schema-element()")
		}
	case ast.KindSchemaElement, ast.KindSchemaAttribute:
		return nil, p.unsupported(pos.Char, errors.XQP0001, kind.String()+"()")
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return t, nil
}

// elementOrAttributeTest parses "(QName | "*") ("," TypeName "?"?)?".
func (p *Parser) elementOrAttributeTest(t *ast.KindTest) error {
	p.ws()
	start := p.cur.Pos()
	if !p.cur.ConsumeIf('*') {
		lexical := p.cur.QName()
		if lexical == "" {
			return nil
		}
		def := ""
		if t.Kind == ast.KindElement {
			def = p.ns.DefaultElement()
		}
		name, err := p.resolveName(lexical, start, def)
		if err != nil {
			return err
		}
		t.Name = &name
	}
	if !p.consume(",") {
		return nil
	}
	p.ws()
	typeStart := p.cur.Pos()
	lexical := p.cur.QName()
	if lexical == "" {
		return p.syntaxErr("expecting type name, found %s", p.found())
	}
	typeName, err := p.resolveName(lexical, typeStart, p.ns.DefaultElement())
	if err != nil {
		return err
	}
	if typeName.URI != ast.XSURI || !(atomicTypes[typeName.Local] || complexTypes[typeName.Local]) {
		e := p.errorAt(typeStart, errors.XPST0008, errors.Name, "unknown type %s", lexical)
		return withHint(e, typeName.Local, append(atomicTypeNames(), sortedKeys(complexTypes)...))
	}
	t.TypeName = &typeName
	if t.Kind == ast.KindElement && p.consume("?") {
		t.Nillable = true
	}
	return nil
}
