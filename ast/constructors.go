package ast

import (
	"strings"

	"github.com/xqgo/xquery/internal/token"
)

// NamespaceBinding is an xmlns attribute of a direct element constructor.
// An empty Prefix sets the default element namespace.
type NamespaceBinding struct {
	Prefix string
	URI    string
}

// ElementConstructor builds an element. Direct constructors always have a
// static Name; computed ones have either Name or NameExpr.
type ElementConstructor struct {
	Lt         token.Position
	Computed   bool
	Name       QName
	NameExpr   Expr
	Namespaces []NamespaceBinding
	Attributes []*AttributeConstructor
	// Content holds literal text (as *StringLiteral), enclosed expressions and
	// nested constructors in document order.
	Content []Expr
}

func (x *ElementConstructor) exprNode() {}

func (x *ElementConstructor) Pos() token.Position { return x.Lt }

func (x *ElementConstructor) String() string {
	items := make([]string, 0, len(x.Namespaces)+len(x.Attributes)+len(x.Content))
	for _, ns := range x.Namespaces {
		name := "xmlns"
		if ns.Prefix != "" {
			name += ":" + ns.Prefix
		}
		items = append(items, "namespace "+name+" { \""+ns.URI+"\" }")
	}
	for _, a := range x.Attributes {
		items = append(items, a.String())
	}
	for _, c := range x.Content {
		items = append(items, c.String())
	}
	return "element " + constructorName(x.Name, x.NameExpr) + " { " + strings.Join(items, ", ") + " }"
}

// AttributeConstructor builds an attribute. Value holds literal text and
// enclosed expressions of an attribute value template.
type AttributeConstructor struct {
	NamePos  token.Position
	Computed bool
	Name     QName
	NameExpr Expr
	Value    []Expr
}

func (x *AttributeConstructor) exprNode() {}

func (x *AttributeConstructor) Pos() token.Position { return x.NamePos }

func (x *AttributeConstructor) String() string {
	return "attribute " + constructorName(x.Name, x.NameExpr) + " { " + joinExprs(x.Value, ", ") + " }"
}

// TextConstructor is "text { ... }".
type TextConstructor struct {
	Keyword token.Position
	Value   Expr
}

func (x *TextConstructor) exprNode() {}

func (x *TextConstructor) Pos() token.Position { return x.Keyword }

func (x *TextConstructor) String() string { return "text { " + exprOrEmpty(x.Value) + " }" }

// CommentConstructor is a direct "<!-- -->" or computed "comment { }" node.
type CommentConstructor struct {
	Start    token.Position
	Computed bool
	Value    Expr
}

func (x *CommentConstructor) exprNode() {}

func (x *CommentConstructor) Pos() token.Position { return x.Start }

func (x *CommentConstructor) String() string { return "comment { " + exprOrEmpty(x.Value) + " }" }

// PIConstructor builds a processing instruction.
type PIConstructor struct {
	Start      token.Position
	Computed   bool
	Target     string
	TargetExpr Expr
	Value      Expr
}

func (x *PIConstructor) exprNode() {}

func (x *PIConstructor) Pos() token.Position { return x.Start }

func (x *PIConstructor) String() string {
	target := x.Target
	if x.TargetExpr != nil {
		target = "{ " + x.TargetExpr.String() + " }"
	}
	return "processing-instruction " + target + " { " + exprOrEmpty(x.Value) + " }"
}

// DocumentConstructor is "document { ... }".
type DocumentConstructor struct {
	Keyword token.Position
	Value   Expr
}

func (x *DocumentConstructor) exprNode() {}

func (x *DocumentConstructor) Pos() token.Position { return x.Keyword }

func (x *DocumentConstructor) String() string { return "document { " + x.Value.String() + " }" }

func constructorName(name QName, expr Expr) string {
	if expr != nil {
		return "{ " + expr.String() + " }"
	}
	return name.String()
}

func exprOrEmpty(x Expr) string {
	if x == nil {
		return "()"
	}
	return x.String()
}
