package parser

import (
	"fmt"

	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/scope"
	"github.com/xqgo/xquery/internal/token"
)

// versionDecl parses "xquery version StringLiteral (encoding
// StringLiteral)? ;".
func (p *Parser) versionDecl(mod *ast.Module) error {
	if !p.consumePair("xquery", "version") {
		return nil
	}
	start := p.here().Char
	v, err := p.uriLiteral()
	if err != nil {
		return err
	}
	if v != "1.0" {
		return p.errorAt(start, errors.XQST0031, errors.Grammar, "unsupported version %q", v)
	}
	mod.Version = v
	if p.consume("encoding") {
		start := p.here().Char
		enc, err := p.uriLiteral()
		if err != nil {
			return err
		}
		if !validEncoding(enc) {
			return p.errorAt(start, errors.XQST0087, errors.Grammar, "invalid encoding %q", enc)
		}
		mod.Encoding = enc
	}
	return p.expect(";")
}

// validEncoding matches [A-Za-z] ([A-Za-z0-9._] | '-')*.
func validEncoding(enc string) bool {
	if enc == "" {
		return false
	}
	for i := 0; i < len(enc); i++ {
		c := enc[i]
		letter := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
		if i == 0 && !letter {
			return false
		}
		if !letter && !(c >= '0' && c <= '9') && c != '.' && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

// moduleDecl parses the rest of "module namespace NCName = URILiteral ;".
func (p *Parser) moduleDecl(mod *ast.Module) error {
	prefixStart := p.here().Char
	prefix := p.cur.NCName()
	if prefix == "" {
		return p.syntaxErr("expecting namespace prefix, found %s", p.found())
	}
	if err := p.expect("="); err != nil {
		return err
	}
	uriStart := p.here().Char
	uri, err := p.uriLiteral()
	if err != nil {
		return err
	}
	if uri == "" {
		return p.errorAt(uriStart, errors.XQST0088, errors.Grammar, "module namespace cannot be empty")
	}
	if err := p.checkBinding(prefix, uri, prefixStart); err != nil {
		return err
	}
	if err := p.ns.Declare(prefix, uri); err != nil {
		return p.errorAt(prefixStart, errors.XQST0033, errors.Name, "duplicate namespace prefix %q", prefix)
	}
	mod.Namespace = &ast.ModuleNamespace{Prefix: prefix, URI: uri}
	p.moduleURI = uri
	return p.expect(";")
}

// checkBinding rejects declarations of the xml and xmlns prefixes and
// their namespaces.
func (p *Parser) checkBinding(prefix, uri string, offset int) error {
	if prefix == "xml" || prefix == "xmlns" || uri == ast.XMLURI || uri == ast.XMLNSURI {
		return p.errorAt(offset, errors.XQST0070, errors.Name, "cannot bind prefix %q to %q", prefix, uri)
	}
	return nil
}

// prologDecls parses the declarations of the prolog, each ending in ";".
// Setters, namespace declarations and imports precede variable, function
// and option declarations.
func (p *Parser) prologDecls(mod *ast.Module) error {
	second := false
	for {
		if err := p.ctx.Err(); err != nil {
			return p.newError(p.cur.Pos(), errors.XQP0003, errors.Resource, "parse cancelled", err)
		}
		mark := p.cur.Mark()
		pos := p.here()
		first, err := p.firstDecl(pos)
		if err != nil {
			return err
		}
		if first {
			if second {
				return p.errorAt(pos.Char, errors.XPST0003, errors.Grammar,
					"setters, imports and namespace declarations must precede variable, function and option declarations")
			}
		} else {
			ok, err := p.secondDecl(pos)
			if err != nil {
				return err
			}
			if !ok {
				p.cur.Reset(mark)
				return nil
			}
			second = true
		}
		if err := p.expect(";"); err != nil {
			return err
		}
	}
}

// once records a prolog setter, failing if it was already declared.
func (p *Parser) once(what string, code errors.ErrorCode, offset int) error {
	if p.declared[what] {
		return p.errorAt(offset, code, errors.Grammar, "%s declared more than once", what)
	}
	p.declared[what] = true
	return nil
}

// choice consumes one of the keywords or fails naming them.
func (p *Parser) choice(words ...string) (string, error) {
	for _, w := range words {
		if p.consume(w) {
			return w, nil
		}
	}
	return "", p.expected(fmt.Sprintf("%q or %q", words[0], words[1]), words...)
}

// firstDecl parses a setter, a namespace declaration or an import.
func (p *Parser) firstDecl(pos token.Position) (bool, error) {
	s := &p.prolog.Settings
	at := pos.Char
	switch {
	case p.consumeSeq("declare", "default", "element", "namespace"):
		if err := p.once("default element namespace", errors.XQST0066, at); err != nil {
			return true, err
		}
		uri, err := p.uriLiteral()
		if err != nil {
			return true, err
		}
		p.ns.Push("", uri)
		s.DefaultElementNS = &uri
	case p.consumeSeq("declare", "default", "function", "namespace"):
		if err := p.once("default function namespace", errors.XQST0066, at); err != nil {
			return true, err
		}
		uri, err := p.uriLiteral()
		if err != nil {
			return true, err
		}
		p.ns.DefaultFunction = uri
		s.DefaultFunctionNS = &uri
	case p.consumeSeq("declare", "default", "collation"):
		if err := p.once("default collation", errors.XQST0038, at); err != nil {
			return true, err
		}
		start := p.here().Char
		uri, err := p.uriLiteral()
		if err != nil {
			return true, err
		}
		if uri != ast.CodepointCollation {
			return true, p.errorAt(start, errors.XQST0038, errors.Grammar, "unknown collation %q", uri)
		}
		s.DefaultCollation = uri
	case p.consumeSeq("declare", "default", "order", "empty"):
		if err := p.once("default order", errors.XQST0069, at); err != nil {
			return true, err
		}
		v, err := p.choice("greatest", "least")
		if err != nil {
			return true, err
		}
		s.EmptyOrder = v
	case p.consumePair("declare", "boundary-space"):
		if err := p.once("boundary-space", errors.XQST0068, at); err != nil {
			return true, err
		}
		v, err := p.choice("preserve", "strip")
		if err != nil {
			return true, err
		}
		p.preserveSpace = v == "preserve"
		s.BoundarySpace = v
	case p.consumePair("declare", "base-uri"):
		if err := p.once("base-uri", errors.XQST0032, at); err != nil {
			return true, err
		}
		uri, err := p.uriLiteral()
		if err != nil {
			return true, err
		}
		s.BaseURI = uri
	case p.consumePair("declare", "construction"):
		if err := p.once("construction", errors.XQST0067, at); err != nil {
			return true, err
		}
		v, err := p.choice("preserve", "strip")
		if err != nil {
			return true, err
		}
		s.Construction = v
	case p.consumePair("declare", "ordering"):
		if err := p.once("ordering", errors.XQST0065, at); err != nil {
			return true, err
		}
		v, err := p.choice("ordered", "unordered")
		if err != nil {
			return true, err
		}
		s.Ordering = v
	case p.consumePair("declare", "copy-namespaces"):
		if err := p.once("copy-namespaces", errors.XQST0055, at); err != nil {
			return true, err
		}
		preserve, err := p.choice("preserve", "no-preserve")
		if err != nil {
			return true, err
		}
		if err := p.expect(","); err != nil {
			return true, err
		}
		inherit, err := p.choice("inherit", "no-inherit")
		if err != nil {
			return true, err
		}
		s.CopyNamespaces = preserve + ", " + inherit
	case p.consumePair("declare", "namespace"):
		return true, p.namespaceDecl(pos)
	case p.consumePair("declare", "revalidation"):
		return true, p.unsupported(at, errors.XQP0001, "revalidation declaration")
	case p.consumePair("import", "schema"):
		return true, p.unsupported(at, errors.XQST0009, "schema import")
	case p.consumePair("import", "module"):
		return true, p.importModule(pos)
	default:
		return false, nil
	}
	return true, nil
}

// namespaceDecl parses the rest of "declare namespace NCName = URILiteral".
func (p *Parser) namespaceDecl(pos token.Position) error {
	start := p.here().Char
	prefix := p.cur.NCName()
	if prefix == "" {
		return p.syntaxErr("expecting namespace prefix, found %s", p.found())
	}
	if err := p.expect("="); err != nil {
		return err
	}
	uri, err := p.uriLiteral()
	if err != nil {
		return err
	}
	if err := p.checkBinding(prefix, uri, start); err != nil {
		return err
	}
	if err := p.ns.Declare(prefix, uri); err != nil {
		return p.errorAt(start, errors.XQST0033, errors.Name, "duplicate namespace prefix %q", prefix)
	}
	p.prolog.Namespaces = append(p.prolog.Namespaces, &ast.NamespaceDecl{Declare: pos, Prefix: prefix, URI: uri})
	return nil
}

// importModule parses the rest of "import module (namespace NCName =)?
// URILiteral (at URILiteral ("," URILiteral)*)?" and loads the module.
func (p *Parser) importModule(pos token.Position) error {
	imp := &ast.ModuleImport{Import: pos}
	prefixStart := -1
	if p.consume("namespace") {
		prefixStart = p.here().Char
		if imp.Prefix = p.cur.NCName(); imp.Prefix == "" {
			return p.syntaxErr("expecting namespace prefix, found %s", p.found())
		}
		if err := p.expect("="); err != nil {
			return err
		}
	}
	uriStart := p.here().Char
	uri, err := p.uriLiteral()
	if err != nil {
		return err
	}
	if uri == "" {
		return p.errorAt(uriStart, errors.XQST0088, errors.Grammar, "module namespace cannot be empty")
	}
	imp.URI = uri
	if p.consume("at") {
		for {
			loc, err := p.uriLiteral()
			if err != nil {
				return err
			}
			imp.Locations = append(imp.Locations, loc)
			if !p.consume(",") {
				break
			}
		}
	}
	if p.imported[uri] {
		return p.errorAt(uriStart, errors.XQST0047, errors.Grammar, "module %q imported more than once", uri)
	}
	p.imported[uri] = true
	if imp.Prefix != "" {
		if err := p.checkBinding(imp.Prefix, uri, prefixStart); err != nil {
			return err
		}
		if err := p.ns.Declare(imp.Prefix, uri); err != nil {
			return p.errorAt(prefixStart, errors.XQST0033, errors.Name, "duplicate namespace prefix %q", imp.Prefix)
		}
	}
	if err := p.loadModule(imp, uriStart); err != nil {
		return err
	}
	p.prolog.Imports = append(p.prolog.Imports, imp)
	return nil
}

// loadModule resolves and parses an imported library module. The module
// shares variable and function declarations with the importing parser but
// has its own namespace table. Each location is parsed once.
func (p *Parser) loadModule(imp *ast.ModuleImport, offset int) error {
	if p.modules == nil {
		return p.errorAt(offset, errors.XQST0059, errors.Resource, "cannot load module %q: no module resolver", imp.URI)
	}
	src, err := p.modules.ResolveModule(p.ctx, imp.URI, imp.Locations)
	if err != nil {
		return p.newError(offset, errors.XQST0059, errors.Resource,
			fmt.Sprintf("cannot load module %q: %v", imp.URI, err), err)
	}
	key := src.Location
	if key == "" {
		key = imp.URI
	}
	if mod, ok := p.loader.loaded[key]; ok {
		imp.Module = mod
		return p.checkImported(imp, mod, offset)
	}
	if p.loader.inProgress[key] {
		return p.errorAt(offset, errors.XQST0073, errors.Grammar, "cyclic import of module %q", imp.URI)
	}
	p.loader.inProgress[key] = true
	defer delete(p.loader.inProgress, key)

	p.log.Debug().Str("uri", imp.URI).Str("location", key).Msg("parsing imported module")
	sub := New(src.Text,
		WithFilename(key),
		WithMaxDepth(p.maxDepth),
		WithLogger(p.log),
		WithModuleResolver(p.modules),
		WithStopWords(p.stopWords))
	sub.ctx = p.ctx
	sub.vars = p.vars
	sub.fns = p.fns
	sub.loader = p.loader
	sub.sub = true
	mod, err := sub.parseModule()
	if err != nil {
		p.log.Debug().Err(err).Str("location", key).Msg("imported module failed to parse")
		return err
	}
	p.loader.loaded[key] = mod
	imp.Module = mod
	return p.checkImported(imp, mod, offset)
}

func (p *Parser) checkImported(imp *ast.ModuleImport, mod *ast.Module, offset int) error {
	if !mod.Library() {
		return p.errorAt(offset, errors.XQST0059, errors.Resource, "module for %q is not a library module", imp.URI)
	}
	if mod.Namespace.URI != imp.URI {
		return p.errorAt(offset, errors.XQST0059, errors.Resource,
			"module has namespace %q, expected %q", mod.Namespace.URI, imp.URI)
	}
	return nil
}

// secondDecl parses a variable, function, option or ft-option declaration.
func (p *Parser) secondDecl(pos token.Position) (bool, error) {
	switch {
	case p.consumePair("declare", "variable"):
		return true, p.varDecl(pos)
	case p.consumePair("declare", "function"):
		return true, p.functionDecl(pos)
	case p.consumeSeq("declare", "updating", "function"):
		return true, p.unsupported(pos.Char, errors.XQP0001, "updating function")
	case p.consumePair("declare", "option"):
		return true, p.optionDecl(pos)
	case p.consumePair("declare", "ft-option"):
		return true, p.ftOptionDecl(pos)
	}
	return false, nil
}

// varDecl parses the rest of "declare variable $QName TypeDeclaration?
// ((:= ExprSingle) | external)". The variable is in scope after its
// initializer.
func (p *Parser) varDecl(pos token.Position) error {
	if err := p.expect("$"); err != nil {
		return err
	}
	nameStart := p.here().Char
	name, err := p.varName()
	if err != nil {
		return err
	}
	if p.moduleURI != "" && name.URI != p.moduleURI {
		return p.errorAt(nameStart, errors.XQST0048, errors.Name,
			"variable $%s is not in the module namespace %q", name, p.moduleURI)
	}
	decl := &ast.VarDecl{Declare: pos, Name: name}
	if p.consume("as") {
		if decl.Type, err = p.sequenceType(); err != nil {
			return err
		}
	}
	if p.consume("external") {
		decl.External = true
	} else {
		if err := p.expect(":="); err != nil {
			return err
		}
		if decl.Value, err = p.required(); err != nil {
			return err
		}
	}
	if _, err := p.vars.DeclareGlobal(name, decl.Type); err != nil {
		if err == scope.ErrDuplicate {
			return p.errorAt(nameStart, errors.XQST0049, errors.Name, "variable $%s declared more than once", name)
		}
		return err
	}
	p.prolog.Variables = append(p.prolog.Variables, decl)
	return nil
}

// functionDecl parses the rest of "declare function QName ( ParamList? )
// (as SequenceType)? (EnclosedExpr | external)". The function is declared
// before its body so that it may call itself.
func (p *Parser) functionDecl(pos token.Position) error {
	nameStart := p.here().Char
	lexical := p.cur.QName()
	if lexical == "" {
		return p.syntaxErr("expecting function name, found %s", p.found())
	}
	if reservedFunctionNames[lexical] {
		return p.errorAt(nameStart, errors.XPST0003, errors.Grammar, "function name %s is reserved", lexical)
	}
	name, err := p.resolveName(lexical, nameStart, p.ns.DefaultFunction)
	if err != nil {
		return err
	}
	switch {
	case name.URI == "":
		return p.errorAt(nameStart, errors.XQST0060, errors.Name, "function %s is not in a namespace", lexical)
	case name.URI == ast.FNURI, name.URI == ast.XMLURI, name.URI == ast.XSURI, name.URI == ast.XSIURI:
		return p.errorAt(nameStart, errors.XQST0045, errors.Name, "function %s is in a reserved namespace", lexical)
	case p.moduleURI != "" && name.URI != p.moduleURI:
		return p.errorAt(nameStart, errors.XQST0048, errors.Name,
			"function %s is not in the module namespace %q", lexical, p.moduleURI)
	}
	decl := &ast.FunctionDecl{Declare: pos, Name: name}
	if err := p.expect("("); err != nil {
		return err
	}
	if !p.consume(")") {
		for {
			if err := p.expect("$"); err != nil {
				return err
			}
			paramStart := p.here().Char
			pname, err := p.varName()
			if err != nil {
				return err
			}
			for _, prm := range decl.Params {
				if prm.Name.Equal(pname) {
					return p.errorAt(paramStart, errors.XQST0039, errors.Name, "duplicate parameter $%s", pname)
				}
			}
			prm := &ast.Param{Name: pname}
			if p.consume("as") {
				if prm.Type, err = p.sequenceType(); err != nil {
					return err
				}
			}
			decl.Params = append(decl.Params, prm)
			if !p.consume(",") {
				break
			}
		}
		if err := p.expect(")"); err != nil {
			return err
		}
	}
	if p.consume("as") {
		if decl.Return, err = p.sequenceType(); err != nil {
			return err
		}
	}
	if err := p.fns.Declare(decl); err != nil {
		return p.errorAt(nameStart, errors.XQST0034, errors.Name,
			"function %s#%d declared more than once", lexical, decl.Arity())
	}
	p.prolog.Functions = append(p.prolog.Functions, decl)
	if p.consume("external") {
		decl.External = true
		return nil
	}
	mark := p.vars.Size()
	defer p.vars.Truncate(mark)
	for _, prm := range decl.Params {
		p.vars.Push(prm.Name, prm.Type)
	}
	decl.Body, err = p.enclosed(false)
	return err
}

// optionDecl parses the rest of "declare option QName StringLiteral".
func (p *Parser) optionDecl(pos token.Position) error {
	start := p.here().Char
	lexical := p.cur.QName()
	if lexical == "" {
		return p.syntaxErr("expecting option name, found %s", p.found())
	}
	if prefix, _ := ast.SplitQName(lexical); prefix == "" {
		return p.errorAt(start, errors.XPST0081, errors.Name, "option name %s has no namespace prefix", lexical)
	}
	name, err := p.resolveName(lexical, start, "")
	if err != nil {
		return err
	}
	value, err := p.uriLiteral()
	if err != nil {
		return err
	}
	p.prolog.Options = append(p.prolog.Options, &ast.OptionDecl{Declare: pos, Name: name, Value: value})
	return nil
}

// ftOptionDecl parses the rest of "declare ft-option FTMatchOptions". The
// options become the defaults of every full-text selection in the module.
func (p *Parser) ftOptionDecl(pos token.Position) error {
	opts := &ast.FTOptions{}
	n, err := p.ftMatchOptions(opts)
	if err != nil {
		return err
	}
	if n == 0 {
		return p.expected("match option")
	}
	p.ftDefaults = opts
	p.prolog.FTOptions = opts
	return nil
}
