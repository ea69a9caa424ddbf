// Package ast defines the expression tree produced by the XQuery parser.
//
// Every node records the position of its first character. Nodes are built
// once by the parser and are not mutated afterwards; evaluation engines
// consume them read-only.
package ast

import (
	"strings"

	"github.com/xqgo/xquery/internal/token"
)

// Node represents a portion of the syntax tree.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns a canonical, fully parenthesized rendering of the node.
	// Equal trees render to equal strings.
	String() string
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

func joinExprs(list []Expr, sep string) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

func predicates(list []Expr) string {
	var b strings.Builder
	for _, p := range list {
		b.WriteString("[")
		b.WriteString(p.String())
		b.WriteString("]")
	}
	return b.String()
}
