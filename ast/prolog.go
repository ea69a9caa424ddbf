package ast

import (
	"sort"
	"strings"

	"github.com/xqgo/xquery/internal/token"
)

// Module is a parsed main or library module.
type Module struct {
	Version  string
	Encoding string
	// Namespace is set for library modules ("module namespace p = uri;").
	Namespace *ModuleNamespace
	Prolog    *Prolog
	// Body is the query body of a main module; nil for library modules.
	Body Expr
}

func (m *Module) Pos() token.Position {
	if m.Body != nil {
		return m.Body.Pos()
	}
	return token.Position{}
}

func (m *Module) String() string {
	var b strings.Builder
	if m.Version != "" {
		b.WriteString("xquery version \"" + m.Version + "\"")
		if m.Encoding != "" {
			b.WriteString(" encoding \"" + m.Encoding + "\"")
		}
		b.WriteString("; ")
	}
	if m.Namespace != nil {
		b.WriteString("module namespace " + m.Namespace.Prefix + " = \"" + m.Namespace.URI + "\"; ")
	}
	if m.Prolog != nil {
		for _, d := range m.Prolog.Decls() {
			b.WriteString(d.String() + "; ")
		}
	}
	if m.Body != nil {
		b.WriteString(m.Body.String())
	}
	return strings.TrimSpace(b.String())
}

// Library reports whether the module is a library module.
func (m *Module) Library() bool { return m.Namespace != nil }

// ModuleNamespace is the target namespace of a library module.
type ModuleNamespace struct {
	Prefix string
	URI    string
}

// Prolog holds the declarations of a module.
type Prolog struct {
	Namespaces []*NamespaceDecl
	Settings   Settings
	Imports    []*ModuleImport
	Options    []*OptionDecl
	Variables  []*VarDecl
	Functions  []*FunctionDecl
	// FTOptions holds the defaults from "declare ft-option"; nil if absent.
	FTOptions *FTOptions
}

// Decls returns all declarations as nodes in a stable order.
func (p *Prolog) Decls() []Node {
	var nodes []Node
	for _, n := range p.Namespaces {
		nodes = append(nodes, n)
	}
	for _, i := range p.Imports {
		nodes = append(nodes, i)
	}
	for _, o := range p.Options {
		nodes = append(nodes, o)
	}
	for _, v := range p.Variables {
		nodes = append(nodes, v)
	}
	for _, f := range p.Functions {
		nodes = append(nodes, f)
	}
	return nodes
}

// Settings are the prolog setters. Empty strings mean "not declared".
type Settings struct {
	DefaultElementNS  *string
	DefaultFunctionNS *string
	DefaultCollation  string
	BaseURI           string
	BoundarySpace     string
	Construction      string
	Ordering          string
	EmptyOrder        string
	CopyNamespaces    string
}

// Keys returns the declared setting names, sorted.
func (s Settings) Keys() []string {
	var keys []string
	add := func(name, v string) {
		if v != "" {
			keys = append(keys, name)
		}
	}
	if s.DefaultElementNS != nil {
		keys = append(keys, "default element namespace")
	}
	if s.DefaultFunctionNS != nil {
		keys = append(keys, "default function namespace")
	}
	add("default collation", s.DefaultCollation)
	add("base-uri", s.BaseURI)
	add("boundary-space", s.BoundarySpace)
	add("construction", s.Construction)
	add("ordering", s.Ordering)
	add("default order empty", s.EmptyOrder)
	add("copy-namespaces", s.CopyNamespaces)
	sort.Strings(keys)
	return keys
}

// NamespaceDecl is "declare namespace p = uri;".
type NamespaceDecl struct {
	Declare token.Position
	Prefix  string
	URI     string
}

func (d *NamespaceDecl) Pos() token.Position { return d.Declare }

func (d *NamespaceDecl) String() string {
	return "declare namespace " + d.Prefix + " = \"" + d.URI + "\""
}

// ModuleImport is "import module ...".
type ModuleImport struct {
	Import    token.Position
	Prefix    string
	URI       string
	Locations []string
	// Module is the parsed library module.
	Module *Module `json:"-"`
}

func (d *ModuleImport) Pos() token.Position { return d.Import }

func (d *ModuleImport) String() string {
	s := "import module "
	if d.Prefix != "" {
		s += "namespace " + d.Prefix + " = "
	}
	s += "\"" + d.URI + "\""
	if len(d.Locations) > 0 {
		s += " at \"" + strings.Join(d.Locations, "\", \"") + "\""
	}
	return s
}

// OptionDecl is "declare option p:n "value";".
type OptionDecl struct {
	Declare token.Position
	Name    QName
	Value   string
}

func (d *OptionDecl) Pos() token.Position { return d.Declare }

func (d *OptionDecl) String() string {
	return "declare option " + d.Name.String() + " \"" + d.Value + "\""
}

// VarDecl is a global variable declaration.
type VarDecl struct {
	Declare  token.Position
	Name     QName
	Type     *SequenceType
	Value    Expr
	External bool
}

func (d *VarDecl) Pos() token.Position { return d.Declare }

func (d *VarDecl) String() string {
	s := "declare variable $" + d.Name.String()
	if d.Type != nil {
		s += " as " + d.Type.String()
	}
	if d.External {
		return s + " external"
	}
	return s + " := " + d.Value.String()
}

// Param is a function parameter.
type Param struct {
	Name QName
	Type *SequenceType
}

// FunctionDecl is a user-defined function.
type FunctionDecl struct {
	Declare  token.Position
	Name     QName
	Params   []*Param
	Return   *SequenceType
	Body     Expr
	External bool
}

func (d *FunctionDecl) Pos() token.Position { return d.Declare }

// Arity returns the number of parameters.
func (d *FunctionDecl) Arity() int { return len(d.Params) }

func (d *FunctionDecl) String() string {
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = "$" + p.Name.String()
		if p.Type != nil {
			params[i] += " as " + p.Type.String()
		}
	}
	s := "declare function " + d.Name.String() + "(" + strings.Join(params, ", ") + ")"
	if d.Return != nil {
		s += " as " + d.Return.String()
	}
	if d.External {
		return s + " external"
	}
	return s + " { " + d.Body.String() + " }"
}
