// Package parser is used to generate the abstract syntax tree (AST) for an
// XQuery module.
//
// XQuery has no context-free token stream: keywords are not reserved and "<"
// may start a comparison or an element constructor, so the parser is a
// recursive-descent parser that works directly on characters and backtracks
// to saved offsets. Each production returns (node, error): a nil node with a
// nil error means the production did not match and the cursor is where it
// was; a non-nil error is terminal and unwinds the whole parse.
//
// A parser is created by calling New() with the query text as input. The
// parser should then be used only once, by calling parser.Parse() to produce
// the AST.
package parser

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/internal/lexer"
	"github.com/xqgo/xquery/internal/scope"
	"github.com/xqgo/xquery/internal/token"
	"github.com/xqgo/xquery/source"
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parse the provided input as an XQuery module and return the AST. This is
// shorthand for creating a Parser and calling Parse on it.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Module, error) {
	return New(input, options...).Parse(ctx)
}

// loader is shared by a parser and the parsers of the modules it imports.
type loader struct {
	// loaded holds the locations of modules that finished parsing.
	loaded map[string]*ast.Module
	// inProgress holds the locations of modules currently being parsed.
	inProgress map[string]bool
}

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// cur scans the query text
	cur *lexer.Cursor

	// lines maps byte offsets to line and column positions
	lines *token.LineIndex

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int

	log       zerolog.Logger
	hooks     Hooks
	modules   source.ModuleResolver
	stopWords source.StopWordResolver

	// preserveSpace is the boundary-space policy
	preserveSpace bool

	// alt is the pending alternative diagnostic, reported if no other
	// branch explains a failure
	alt *Error

	// lexErr is an unclosed comment found while skipping whitespace
	lexErr *Error

	// descend is set after "//" until the next step's axis is reported
	descend bool

	vars *scope.Variables
	ns   *scope.Namespaces
	fns  *scope.Functions

	prolog *ast.Prolog
	// declared records which once-only prolog setters have been seen
	declared map[string]bool
	// moduleURI is the target namespace of a library module
	moduleURI string
	// imported holds the namespace URIs imported by this module
	imported map[string]bool
	// ftDefaults are the options of "declare ft-option"
	ftDefaults *ast.FTOptions

	loader *loader
	// sub is set for parsers of imported modules
	sub bool
}

// New returns a Parser for the query text.
func New(input string, options ...Option) *Parser {
	p := &Parser{
		cur:      lexer.New(input),
		maxDepth: DefaultMaxDepth,
		log:      zerolog.Nop(),
		hooks:    NopHooks{},
		vars:     scope.NewVariables(),
		ns:       scope.NewNamespaces(),
		fns:      scope.NewFunctions(),
		prolog:   &ast.Prolog{},
		declared: map[string]bool{},
		imported: map[string]bool{},
		loader: &loader{
			loaded:     map[string]*ast.Module{},
			inProgress: map[string]bool{},
		},
	}
	for _, opt := range options {
		opt(p)
	}
	p.lines = token.NewLineIndex(p.filename, input)
	return p
}

// Parse the module provided to New. On failure the returned error is a
// *Error, or the context's error if ctx was already done.
func (p *Parser) Parse(ctx context.Context) (*ast.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.ctx = ctx
	p.hooks.Init()
	mod, err := p.parseModule()
	if err != nil {
		return nil, err
	}
	if err := p.checkPending(); err != nil {
		return nil, err
	}
	return mod, nil
}

// Pos returns the byte offset the parser stopped at. After a failed parse it
// is the offset of the error.
func (p *Parser) Pos() int {
	return p.cur.Pos()
}

// parseModule parses "VersionDecl? (LibraryModule | MainModule)".
func (p *Parser) parseModule() (*ast.Module, error) {
	mod := &ast.Module{Prolog: p.prolog}
	if err := p.versionDecl(mod); err != nil {
		return nil, err
	}
	if p.consumePair("module", "namespace") {
		if err := p.moduleDecl(mod); err != nil {
			return nil, err
		}
	}
	if err := p.prologDecls(mod); err != nil {
		return nil, err
	}
	if p.sub && !mod.Library() {
		return nil, p.errorAt(0, errors.XQST0059, errors.Resource, "imported module is not a library module")
	}
	if mod.Library() {
		p.ws()
		if p.cur.More() {
			if p.alt != nil {
				return nil, p.raise()
			}
			return nil, p.syntaxErr("unexpected %s after library module prolog", p.found())
		}
		return mod, p.lexError()
	}

	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	if body == nil {
		if p.alt != nil {
			return nil, p.raise()
		}
		p.ws()
		if !p.cur.More() {
			return nil, p.syntaxErr("expecting expression")
		}
		return nil, p.syntaxErr("expecting expression, found %s", p.found())
	}
	p.ws()
	if p.cur.More() {
		if p.alt != nil {
			return nil, p.raise()
		}
		return nil, p.syntaxErr("unexpected %s", p.found())
	}
	mod.Body = body
	return mod, p.lexError()
}

func (p *Parser) lexError() error {
	if p.lexErr != nil {
		return p.lexErr
	}
	return nil
}

// checkPending reports calls to user functions that were never declared.
func (p *Parser) checkPending() error {
	unresolved := p.fns.Resolve()
	if len(unresolved) == 0 {
		return nil
	}
	call := unresolved[0]
	if arities := p.fns.Arities(call.Name); len(arities) > 0 {
		return p.errorAtPos(call.NamePos, errors.XPST0017, errors.Name,
			"function %s does not accept %d argument(s)", call.Name, len(call.Args))
	}
	e := p.errorAtPos(call.NamePos, errors.XPST0017, errors.Name, "unknown function %s", call.Name)
	return withHint(e, call.Name.String(), p.fns.Names())
}

// enter increments the nesting depth, failing once it exceeds the limit or
// the context is done.
func (p *Parser) enter() error {
	if err := p.ctx.Err(); err != nil {
		return p.newError(p.cur.Pos(), errors.XQP0003, errors.Resource, "parse cancelled", err)
	}
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(errors.XQP0002, errors.Unsupported,
			"maximum nesting depth exceeded (%d)", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// remember records an alternative diagnostic unless one is already pending.
func (p *Parser) remember(offset int, code errors.ErrorCode, kind errors.Kind, format string, args ...any) *Error {
	if p.alt == nil {
		p.alt = p.errorAt(offset, code, kind, format, args...)
	}
	return p.alt
}

// supersede records an alternative diagnostic, replacing any pending one.
// It is used by productions that recognised their input but rejected it.
func (p *Parser) supersede(offset int, code errors.ErrorCode, kind errors.Kind, format string, args ...any) *Error {
	p.alt = p.errorAt(offset, code, kind, format, args...)
	return p.alt
}

// raise returns the pending alternative and moves the cursor back to where
// it was recorded.
func (p *Parser) raise() error {
	e := p.alt
	p.alt = nil
	p.cur.Reset(e.Position.Char)
	return e
}
