package parser

import (
	"strings"

	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/lexer"
)

// direct parses a DirectConstructor at "<".
func (p *Parser) direct() (ast.Expr, error) {
	switch {
	case p.cur.HasPrefix("<!--"):
		return p.dirComment()
	case p.cur.HasPrefix("<?"):
		return p.dirPI()
	}
	return p.dirElement()
}

type dirAttr struct {
	lexical string
	offset  int
	attr    *ast.AttributeConstructor
}

// dirElement parses "<" QName DirAttributeList ("/>" | ">" DirElemContent*
// "</" QName S? ">")". Namespace declaration attributes are in scope for the
// element's name, its other attributes and its content.
func (p *Parser) dirElement() (ast.Expr, error) {
	start := p.cur.Pos()
	p.cur.Advance()
	nameStart := p.cur.Pos()
	lexical := p.cur.QName()
	if lexical == "" {
		p.cur.Reset(start)
		return nil, nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	nsMark := p.ns.Size()
	defer p.ns.Truncate(nsMark)

	el := &ast.ElementConstructor{Lt: p.posAt(start)}
	var attrs []dirAttr
	closed := false
	for {
		spaced := p.cur.SkipSpace()
		if p.cur.ConsumeString("/>") {
			closed = true
			break
		}
		if p.cur.ConsumeIf('>') {
			break
		}
		if !p.cur.More() {
			return nil, p.errorAt(start, errors.XPST0003, errors.Syntax, "start tag <%s> not closed", lexical)
		}
		if !spaced {
			return nil, p.syntaxErr("expecting whitespace, \">\" or \"/>\", found %s", p.found())
		}
		attrStart := p.cur.Pos()
		attrName := p.cur.QName()
		if attrName == "" {
			return nil, p.syntaxErr("expecting attribute name, found %s", p.found())
		}
		p.cur.SkipSpace()
		if !p.cur.ConsumeIf('=') {
			return nil, p.syntaxErr("expecting \"=\", found %s", p.found())
		}
		p.cur.SkipSpace()
		value, literal, err := p.attrValue()
		if err != nil {
			return nil, err
		}
		prefix, local := ast.SplitQName(attrName)
		switch {
		case attrName == "xmlns":
			local = ""
			fallthrough
		case prefix == "xmlns":
			if err := p.namespaceAttr(el, local, value, literal, attrStart); err != nil {
				return nil, err
			}
			continue
		}
		attrs = append(attrs, dirAttr{
			lexical: attrName,
			offset:  attrStart,
			attr:    &ast.AttributeConstructor{NamePos: p.posAt(attrStart), Value: value},
		})
	}

	name, err := p.resolveName(lexical, nameStart, p.ns.DefaultElement())
	if err != nil {
		return nil, err
	}
	el.Name = name
	seen := map[string]bool{}
	for _, a := range attrs {
		qn, err := p.resolveName(a.lexical, a.offset, "")
		if err != nil {
			return nil, err
		}
		if seen[qn.Expanded()] {
			return nil, p.errorAt(a.offset, errors.XQST0040, errors.Name, "duplicate attribute %s", a.lexical)
		}
		seen[qn.Expanded()] = true
		a.attr.Name = qn
		el.Attributes = append(el.Attributes, a.attr)
	}
	if closed {
		return el, nil
	}
	content, err := p.elementContent(lexical, start)
	if err != nil {
		return nil, err
	}
	el.Content = content
	return el, nil
}

// namespaceAttr declares the namespace of an xmlns or xmlns:prefix attribute.
func (p *Parser) namespaceAttr(el *ast.ElementConstructor, prefix string, value []ast.Expr, literal bool, offset int) error {
	if !literal {
		return p.errorAt(offset, errors.XQST0022, errors.Grammar, "namespace declaration attribute value must be a literal")
	}
	var uri string
	if len(value) > 0 {
		uri = value[0].(*ast.StringLiteral).Value
	}
	if prefix == "xmlns" || uri == ast.XMLNSURI || (prefix == "xml") != (uri == ast.XMLURI) {
		return p.errorAt(offset, errors.XQST0070, errors.Name, "cannot bind prefix %q to %q", prefix, uri)
	}
	if prefix != "" && uri == "" {
		return p.errorAt(offset, errors.XQST0085, errors.Name, "namespace URI of prefix %q is empty", prefix)
	}
	for _, b := range el.Namespaces {
		if b.Prefix == prefix {
			return p.errorAt(offset, errors.XQST0071, errors.Name, "duplicate namespace declaration attribute for prefix %q", prefix)
		}
	}
	el.Namespaces = append(el.Namespaces, ast.NamespaceBinding{Prefix: prefix, URI: uri})
	if prefix != "xml" {
		p.ns.Push(prefix, uri)
	}
	return nil
}

// attrValue parses a quoted direct attribute value into string parts and
// enclosed expressions. literal is false if any enclosed expression occurs.
func (p *Parser) attrValue() (parts []ast.Expr, literal bool, err error) {
	q := p.cur.Peek()
	if !lexer.IsQuote(q) {
		return nil, false, p.syntaxErr("expecting quoted attribute value, found %s", p.found())
	}
	start := p.cur.Pos()
	p.cur.Advance()
	literal = true
	var buf lexer.Buffer
	segment := p.cur.Pos()
	flush := func() {
		if buf.Len() > 0 {
			parts = append(parts, &ast.StringLiteral{ValuePos: p.posAt(segment), Value: buf.Finish()})
		}
		segment = p.cur.Pos()
	}
	for {
		if !p.cur.More() {
			return nil, false, p.errorAt(start, errors.XPST0003, errors.Syntax, "unterminated attribute value")
		}
		switch ch := p.cur.Peek(); ch {
		case q:
			p.cur.Advance()
			if p.cur.Peek() != q {
				flush()
				if literal && len(parts) > 1 {
					parts = []ast.Expr{joinLiterals(parts)}
				}
				return parts, literal, nil
			}
			p.cur.Advance()
			buf.AppendByte(q)
		case '{':
			if p.cur.PeekNext() == '{' {
				p.cur.Advance()
				p.cur.Advance()
				buf.AppendByte('{')
				continue
			}
			flush()
			literal = false
			e, err := p.enclosed(true)
			if err != nil {
				return nil, false, err
			}
			if e != nil {
				parts = append(parts, e)
			}
			segment = p.cur.Pos()
		case '}':
			if p.cur.PeekNext() != '}' {
				return nil, false, p.syntaxErr("unmatched \"}\" in attribute value")
			}
			p.cur.Advance()
			p.cur.Advance()
			buf.AppendByte('}')
		case '<':
			return nil, false, p.syntaxErr("\"<\" is not allowed in attribute values")
		case '\r':
			p.cur.Advance()
			p.cur.ConsumeIf('\n')
			buf.AppendByte(' ')
		case '\n', '\t':
			p.cur.Advance()
			buf.AppendByte(' ')
		default:
			if err := p.cur.Entity(&buf); err != nil {
				return nil, false, p.lexicalErr(err)
			}
		}
	}
}

func joinLiterals(parts []ast.Expr) *ast.StringLiteral {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.(*ast.StringLiteral).Value)
	}
	return &ast.StringLiteral{ValuePos: parts[0].Pos(), Value: sb.String()}
}

// elementContent parses content up to the end tag matching name. Boundary
// whitespace is dropped unless boundary-space is preserved.
func (p *Parser) elementContent(name string, start int) ([]ast.Expr, error) {
	var content []ast.Expr
	var buf lexer.Buffer
	segment := p.cur.Pos()
	flush := func() {
		text := buf.String()
		if text != "" && (p.preserveSpace || buf.Entity || strings.TrimLeft(text, " \t\r\n") != "") {
			content = append(content, &ast.StringLiteral{ValuePos: p.posAt(segment), Value: text})
		}
		buf.Reset()
		segment = p.cur.Pos()
	}
	add := func(e ast.Expr, err error) error {
		if err != nil {
			return err
		}
		content = append(content, e)
		segment = p.cur.Pos()
		return nil
	}
	for {
		if !p.cur.More() {
			return nil, p.errorAt(start, errors.XPST0003, errors.Syntax, "element <%s> not closed", name)
		}
		var err error
		switch {
		case p.cur.HasPrefix("</"):
			flush()
			endStart := p.cur.Pos()
			p.cur.Advance()
			p.cur.Advance()
			if end := p.cur.QName(); end != name {
				return nil, p.errorAt(endStart, errors.XQST0118, errors.Grammar,
					"end tag </%s> does not match start tag <%s>", end, name)
			}
			p.cur.SkipSpace()
			if !p.cur.ConsumeIf('>') {
				return nil, p.syntaxErr("expecting \">\", found %s", p.found())
			}
			return content, nil
		case p.cur.HasPrefix("<![CDATA["):
			cdataStart := p.cur.Pos()
			p.cur.Reset(cdataStart + len("<![CDATA["))
			end := strings.Index(p.cur.Source()[p.cur.Pos():], "]]>")
			if end < 0 {
				return nil, p.errorAt(cdataStart, errors.XPST0003, errors.Syntax, "CDATA section not closed")
			}
			buf.AppendString(p.cur.Source()[p.cur.Pos() : p.cur.Pos()+end])
			buf.Entity = true
			p.cur.Reset(p.cur.Pos() + end + len("]]>"))
		case p.cur.HasPrefix("<!--"):
			flush()
			err = add(p.dirComment())
		case p.cur.HasPrefix("<?"):
			flush()
			err = add(p.dirPI())
		case p.cur.Peek() == '<':
			flush()
			var e ast.Expr
			if e, err = p.dirElement(); err == nil && e == nil {
				err = p.syntaxErr("expecting element name, found %s", p.found())
			}
			if err == nil {
				content = append(content, e)
				segment = p.cur.Pos()
			}
		case p.cur.HasPrefix("{{"):
			p.cur.Advance()
			p.cur.Advance()
			buf.AppendByte('{')
		case p.cur.HasPrefix("}}"):
			p.cur.Advance()
			p.cur.Advance()
			buf.AppendByte('}')
		case p.cur.Peek() == '{':
			flush()
			var e ast.Expr
			if e, err = p.enclosed(true); err == nil && e != nil {
				content = append(content, e)
			}
			segment = p.cur.Pos()
		case p.cur.Peek() == '}':
			err = p.syntaxErr("unmatched \"}\" in element content")
		default:
			if lerr := p.cur.Entity(&buf); lerr != nil {
				err = p.lexicalErr(lerr)
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

// dirComment parses "<!--" Char* "-->". The content may not contain "--" or
// end with "-".
func (p *Parser) dirComment() (ast.Expr, error) {
	start := p.cur.Pos()
	p.cur.Reset(start + len("<!--"))
	rest := p.cur.Source()[p.cur.Pos():]
	end := strings.Index(rest, "--")
	if end < 0 {
		return nil, p.errorAt(start, errors.XPST0003, errors.Syntax, "comment not closed")
	}
	if !strings.HasPrefix(rest[end:], "-->") || strings.HasSuffix(rest[:end], "-") {
		return nil, p.errorAt(p.cur.Pos()+end, errors.XPST0003, errors.Syntax, "\"--\" is not allowed in comments")
	}
	text := rest[:end]
	p.cur.Reset(p.cur.Pos() + end + len("-->"))
	return &ast.CommentConstructor{
		Start: p.posAt(start),
		Value: &ast.StringLiteral{ValuePos: p.posAt(start + len("<!--")), Value: text},
	}, nil
}

// dirPI parses "<?" PITarget (S Char*)? "?>".
func (p *Parser) dirPI() (ast.Expr, error) {
	start := p.cur.Pos()
	p.cur.Reset(start + len("<?"))
	targetStart := p.cur.Pos()
	target := p.cur.NCName()
	if target == "" {
		return nil, p.syntaxErr("expecting processing-instruction target, found %s", p.found())
	}
	if strings.EqualFold(target, "xml") {
		return nil, p.errorAt(targetStart, errors.XPST0003, errors.Grammar, "processing-instruction target %q is reserved", target)
	}
	pi := &ast.PIConstructor{Start: p.posAt(start), Target: target}
	if p.cur.ConsumeString("?>") {
		return pi, nil
	}
	if !p.cur.SkipSpace() {
		return nil, p.syntaxErr("expecting whitespace or \"?>\", found %s", p.found())
	}
	valueStart := p.cur.Pos()
	end := strings.Index(p.cur.Source()[valueStart:], "?>")
	if end < 0 {
		return nil, p.errorAt(start, errors.XPST0003, errors.Syntax, "processing instruction not closed")
	}
	pi.Value = &ast.StringLiteral{ValuePos: p.posAt(valueStart), Value: p.cur.Source()[valueStart : valueStart+end]}
	p.cur.Reset(valueStart + end + len("?>"))
	return pi, nil
}

// computed parses the computed constructors: document, element, attribute,
// text, comment and processing-instruction. A keyword not followed by the
// constructor's shape is left for the other productions.
func (p *Parser) computed() (ast.Expr, error) {
	mark := p.cur.Mark()
	p.ws()
	start := p.cur.Pos()
	pos := p.posAt(start)
	switch {
	case p.consumePair("document", "{"):
		p.cur.Reset(p.cur.Pos() - 1)
		v, err := p.enclosed(false)
		if err != nil {
			return nil, err
		}
		return &ast.DocumentConstructor{Keyword: pos, Value: v}, nil
	case p.consumePair("text", "{"):
		p.cur.Reset(p.cur.Pos() - 1)
		v, err := p.enclosed(false)
		if err != nil {
			return nil, err
		}
		return &ast.TextConstructor{Keyword: pos, Value: v}, nil
	case p.consumePair("comment", "{"):
		p.cur.Reset(p.cur.Pos() - 1)
		v, err := p.enclosed(false)
		if err != nil {
			return nil, err
		}
		return &ast.CommentConstructor{Start: pos, Computed: true, Value: v}, nil
	case p.consume("element"):
		return p.computedNamed(ast.KindElement, mark, start)
	case p.consume("attribute"):
		return p.computedNamed(ast.KindAttribute, mark, start)
	case p.consume("processing-instruction"):
		return p.computedNamed(ast.KindPI, mark, start)
	}
	p.cur.Reset(mark)
	return nil, nil
}

// computedNamed parses the name and content of a computed element,
// attribute or processing-instruction constructor after its keyword.
func (p *Parser) computedNamed(kind ast.NodeKind, mark, start int) (ast.Expr, error) {
	p.ws()
	nameStart := p.cur.Pos()
	var lexical string
	var nameExpr ast.Expr
	if p.cur.Peek() == '{' {
		e, err := p.enclosed(false)
		if err != nil {
			return nil, err
		}
		nameExpr = e
	} else {
		if kind == ast.KindPI {
			lexical = p.cur.NCName()
		} else {
			lexical = p.cur.QName()
		}
		if lexical == "" || !p.nextIs('{') {
			p.cur.Reset(mark)
			return nil, nil
		}
	}
	content, err := p.enclosed(true)
	if err != nil {
		return nil, err
	}
	pos := p.posAt(start)

	switch kind {
	case ast.KindPI:
		if strings.EqualFold(lexical, "xml") {
			return nil, p.errorAt(nameStart, errors.XPST0003, errors.Grammar, "processing-instruction target %q is reserved", lexical)
		}
		return &ast.PIConstructor{Start: pos, Computed: true, Target: lexical, TargetExpr: nameExpr, Value: content}, nil
	case ast.KindAttribute:
		a := &ast.AttributeConstructor{NamePos: pos, Computed: true, NameExpr: nameExpr}
		if nameExpr == nil {
			if a.Name, err = p.resolveName(lexical, nameStart, ""); err != nil {
				return nil, err
			}
		}
		if content != nil {
			a.Value = []ast.Expr{content}
		}
		return a, nil
	}
	el := &ast.ElementConstructor{Lt: pos, Computed: true, NameExpr: nameExpr}
	if nameExpr == nil {
		if el.Name, err = p.resolveName(lexical, nameStart, p.ns.DefaultElement()); err != nil {
			return nil, err
		}
	}
	if content != nil {
		el.Content = []ast.Expr{content}
	}
	return el, nil
}
