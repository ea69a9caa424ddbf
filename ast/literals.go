package ast

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xqgo/xquery/internal/token"
)

// StringLiteral is a quoted string with references already decoded.
type StringLiteral struct {
	ValuePos token.Position
	Value    string
}

func (x *StringLiteral) exprNode() {}

func (x *StringLiteral) Pos() token.Position { return x.ValuePos }

func (x *StringLiteral) String() string {
	return `"` + strings.ReplaceAll(x.Value, `"`, `""`) + `"`
}

// IntegerLiteral is an xs:integer literal.
type IntegerLiteral struct {
	ValuePos token.Position
	Literal  string
	Value    int64
}

func (x *IntegerLiteral) exprNode() {}

func (x *IntegerLiteral) Pos() token.Position { return x.ValuePos }

func (x *IntegerLiteral) String() string { return strconv.FormatInt(x.Value, 10) }

// DecimalLiteral is an xs:decimal literal. The value keeps full precision.
type DecimalLiteral struct {
	ValuePos token.Position
	Literal  string
	Value    decimal.Decimal
}

func (x *DecimalLiteral) exprNode() {}

func (x *DecimalLiteral) Pos() token.Position { return x.ValuePos }

func (x *DecimalLiteral) String() string { return x.Value.String() }

// DoubleLiteral is an xs:double literal.
type DoubleLiteral struct {
	ValuePos token.Position
	Literal  string
	Value    float64
}

func (x *DoubleLiteral) exprNode() {}

func (x *DoubleLiteral) Pos() token.Position { return x.ValuePos }

func (x *DoubleLiteral) String() string {
	return strconv.FormatFloat(x.Value, 'E', -1, 64)
}

// EmptySequence is "()".
type EmptySequence struct {
	Lparen token.Position
}

func (x *EmptySequence) exprNode() {}

func (x *EmptySequence) Pos() token.Position { return x.Lparen }

func (x *EmptySequence) String() string { return "()" }

// ContextItem is ".".
type ContextItem struct {
	Dot token.Position
}

func (x *ContextItem) exprNode() {}

func (x *ContextItem) Pos() token.Position { return x.Dot }

func (x *ContextItem) String() string { return "." }
