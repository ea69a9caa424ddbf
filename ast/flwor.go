package ast

import (
	"strings"

	"github.com/xqgo/xquery/internal/token"
)

// Clause is a "for" or "let" clause of a FLWOR expression.
type Clause interface {
	Node
	clauseNode()
}

// ForClause binds Var to each item of In. It is also used for the bindings of
// quantified expressions, which carry neither a positional nor a score
// variable.
type ForClause struct {
	Dollar token.Position
	Var    QName
	Type   *SequenceType
	At     *QName
	Score  *QName
	In     Expr
}

func (c *ForClause) clauseNode() {}

func (c *ForClause) Pos() token.Position { return c.Dollar }

func (c *ForClause) String() string {
	var b strings.Builder
	b.WriteString("for $" + c.Var.String())
	if c.Type != nil {
		b.WriteString(" as " + c.Type.String())
	}
	if c.At != nil {
		b.WriteString(" at $" + c.At.String())
	}
	if c.Score != nil {
		b.WriteString(" score $" + c.Score.String())
	}
	b.WriteString(" in " + c.In.String())
	return b.String()
}

func (c *ForClause) binding() string {
	s := "$" + c.Var.String()
	if c.Type != nil {
		s += " as " + c.Type.String()
	}
	return s + " in " + c.In.String()
}

// LetClause binds Var to the value of Value. With Score set, the variable is
// bound to the full-text score of Value instead.
type LetClause struct {
	Dollar token.Position
	Var    QName
	Type   *SequenceType
	Score  bool
	Value  Expr
}

func (c *LetClause) clauseNode() {}

func (c *LetClause) Pos() token.Position { return c.Dollar }

func (c *LetClause) String() string {
	var b strings.Builder
	b.WriteString("let ")
	if c.Score {
		b.WriteString("score ")
	}
	b.WriteString("$" + c.Var.String())
	if c.Type != nil {
		b.WriteString(" as " + c.Type.String())
	}
	b.WriteString(" := " + c.Value.String())
	return b.String()
}

// OrderSpec is one ordering key.
type OrderSpec struct {
	Key           Expr
	Descending    bool
	EmptyGreatest bool
	Collation     string
}

func (s *OrderSpec) String() string {
	var b strings.Builder
	b.WriteString(s.Key.String())
	if s.Descending {
		b.WriteString(" descending")
	}
	if s.EmptyGreatest {
		b.WriteString(" empty greatest")
	}
	if s.Collation != "" {
		b.WriteString(" collation \"" + s.Collation + "\"")
	}
	return b.String()
}

// FLWOR is a for/let/where/order by/return expression.
type FLWOR struct {
	Clauses []Clause
	Where   Expr
	Stable  bool
	OrderBy []*OrderSpec
	Return  Expr
}

func (x *FLWOR) exprNode() {}

func (x *FLWOR) Pos() token.Position { return x.Clauses[0].Pos() }

func (x *FLWOR) String() string {
	var b strings.Builder
	for i, c := range x.Clauses {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.String())
	}
	if x.Where != nil {
		b.WriteString(" where " + x.Where.String())
	}
	if len(x.OrderBy) > 0 {
		if x.Stable {
			b.WriteString(" stable")
		}
		specs := make([]string, len(x.OrderBy))
		for i, s := range x.OrderBy {
			specs[i] = s.String()
		}
		b.WriteString(" order by " + strings.Join(specs, ", "))
	}
	b.WriteString(" return " + x.Return.String())
	return b.String()
}
