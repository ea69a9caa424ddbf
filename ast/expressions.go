package ast

import (
	"strings"

	"github.com/xqgo/xquery/internal/token"
)

// VarRef is a reference to a bound variable, "$name".
type VarRef struct {
	Dollar token.Position
	Name   QName
}

func (x *VarRef) exprNode() {}

func (x *VarRef) Pos() token.Position { return x.Dollar }

func (x *VarRef) String() string { return "$" + x.Name.String() }

// Sequence is a comma-separated list of two or more expressions.
type Sequence struct {
	Items []Expr
}

func (x *Sequence) exprNode() {}

func (x *Sequence) Pos() token.Position { return x.Items[0].Pos() }

func (x *Sequence) String() string { return "(" + joinExprs(x.Items, ", ") + ")" }

// Unary is a signed expression. Only the parity of the minus signs is kept.
type Unary struct {
	OpPos  token.Position
	Negate bool
	X      Expr
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() token.Position { return x.OpPos }

func (x *Unary) String() string {
	if x.Negate {
		return "-(" + x.X.String() + ")"
	}
	return "+(" + x.X.String() + ")"
}

// ArithOp is an arithmetic operator.
type ArithOp string

const (
	OpAdd  ArithOp = "+"
	OpSub  ArithOp = "-"
	OpMul  ArithOp = "*"
	OpDiv  ArithOp = "div"
	OpIDiv ArithOp = "idiv"
	OpMod  ArithOp = "mod"
)

// Arithmetic is a binary additive or multiplicative expression.
type Arithmetic struct {
	Op ArithOp
	X  Expr
	Y  Expr
}

func (x *Arithmetic) exprNode() {}

func (x *Arithmetic) Pos() token.Position { return x.X.Pos() }

func (x *Arithmetic) String() string {
	return "(" + x.X.String() + " " + string(x.Op) + " " + x.Y.String() + ")"
}

// Range is "from to to".
type Range struct {
	From Expr
	To   Expr
}

func (x *Range) exprNode() {}

func (x *Range) Pos() token.Position { return x.From.Pos() }

func (x *Range) String() string {
	return "(" + x.From.String() + " to " + x.To.String() + ")"
}

// CompKind distinguishes the three comparison families.
type CompKind int

const (
	ValueComp CompKind = iota
	NodeComp
	GeneralComp
)

func (k CompKind) String() string {
	switch k {
	case ValueComp:
		return "value"
	case NodeComp:
		return "node"
	default:
		return "general"
	}
}

// Comparison is a value ("eq"), node ("is", "<<") or general ("=") comparison.
type Comparison struct {
	Kind CompKind
	Op   string
	X    Expr
	Y    Expr
}

func (x *Comparison) exprNode() {}

func (x *Comparison) Pos() token.Position { return x.X.Pos() }

func (x *Comparison) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Logical is an n-ary "and" or "or" expression.
type Logical struct {
	And      bool
	Operands []Expr
}

func (x *Logical) exprNode() {}

func (x *Logical) Pos() token.Position { return x.Operands[0].Pos() }

func (x *Logical) String() string {
	op := " or "
	if x.And {
		op = " and "
	}
	return "(" + joinExprs(x.Operands, op) + ")"
}

// SetOp is a node-set operator.
type SetOp string

const (
	OpUnion     SetOp = "union"
	OpIntersect SetOp = "intersect"
	OpExcept    SetOp = "except"
)

// SetExpr combines node sequences. Consecutive operators of the same kind are
// collected into one node.
type SetExpr struct {
	Op       SetOp
	Operands []Expr
}

func (x *SetExpr) exprNode() {}

func (x *SetExpr) Pos() token.Position { return x.Operands[0].Pos() }

func (x *SetExpr) String() string {
	return "(" + joinExprs(x.Operands, " "+string(x.Op)+" ") + ")"
}

// InstanceOf is "X instance of T".
type InstanceOf struct {
	X    Expr
	Type *SequenceType
}

func (x *InstanceOf) exprNode() {}

func (x *InstanceOf) Pos() token.Position { return x.X.Pos() }

func (x *InstanceOf) String() string {
	return "(" + x.X.String() + " instance of " + x.Type.String() + ")"
}

// Treat is "X treat as T".
type Treat struct {
	X    Expr
	Type *SequenceType
}

func (x *Treat) exprNode() {}

func (x *Treat) Pos() token.Position { return x.X.Pos() }

func (x *Treat) String() string {
	return "(" + x.X.String() + " treat as " + x.Type.String() + ")"
}

// Castable is "X castable as T".
type Castable struct {
	X    Expr
	Type *SingleType
}

func (x *Castable) exprNode() {}

func (x *Castable) Pos() token.Position { return x.X.Pos() }

func (x *Castable) String() string {
	return "(" + x.X.String() + " castable as " + x.Type.String() + ")"
}

// Cast is "X cast as T".
type Cast struct {
	X    Expr
	Type *SingleType
}

func (x *Cast) exprNode() {}

func (x *Cast) Pos() token.Position { return x.X.Pos() }

func (x *Cast) String() string {
	return "(" + x.X.String() + " cast as " + x.Type.String() + ")"
}

// If is a conditional expression. Else is always present.
type If struct {
	If   token.Position
	Cond Expr
	Then Expr
	Else Expr
}

func (x *If) exprNode() {}

func (x *If) Pos() token.Position { return x.If }

func (x *If) String() string {
	return "if (" + x.Cond.String() + ") then " + x.Then.String() + " else " + x.Else.String()
}

// Quantified is "some" or "every" over one or more bindings.
type Quantified struct {
	Keyword   token.Position
	Every     bool
	Bindings  []*ForClause
	Satisfies Expr
}

func (x *Quantified) exprNode() {}

func (x *Quantified) Pos() token.Position { return x.Keyword }

func (x *Quantified) String() string {
	var b strings.Builder
	if x.Every {
		b.WriteString("every ")
	} else {
		b.WriteString("some ")
	}
	for i, c := range x.Bindings {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.binding())
	}
	b.WriteString(" satisfies ")
	b.WriteString(x.Satisfies.String())
	return b.String()
}

// TypeCase is one "case" (or the "default") branch of a typeswitch. Type is
// nil for the default branch; Var is nil when no variable is bound.
type TypeCase struct {
	Case   token.Position
	Var    *QName
	Type   *SequenceType
	Return Expr
}

func (c *TypeCase) String() string {
	var b strings.Builder
	if c.Type == nil {
		b.WriteString("default ")
	} else {
		b.WriteString("case ")
	}
	if c.Var != nil {
		b.WriteString("$" + c.Var.String() + " ")
	}
	if c.Type != nil {
		if c.Var != nil {
			b.WriteString("as ")
		}
		b.WriteString(c.Type.String() + " ")
	}
	b.WriteString("return " + c.Return.String())
	return b.String()
}

// TypeSwitch dispatches on the dynamic type of its operand.
type TypeSwitch struct {
	Typeswitch token.Position
	Operand    Expr
	Cases      []*TypeCase
	Default    *TypeCase
}

func (x *TypeSwitch) exprNode() {}

func (x *TypeSwitch) Pos() token.Position { return x.Typeswitch }

func (x *TypeSwitch) String() string {
	var b strings.Builder
	b.WriteString("typeswitch (" + x.Operand.String() + ")")
	for _, c := range x.Cases {
		b.WriteString(" " + c.String())
	}
	b.WriteString(" " + x.Default.String())
	return b.String()
}

// Catch is one catch clause. An empty Codes list catches everything ("*").
// Vars holds up to three variables: code, description and value.
type Catch struct {
	Catch token.Position
	Codes []NameTest
	Vars  []QName
	Body  Expr
}

func (c *Catch) String() string {
	codes := make([]string, len(c.Codes))
	for i := range c.Codes {
		codes[i] = c.Codes[i].String()
	}
	if len(codes) == 0 {
		codes = []string{"*"}
	}
	var b strings.Builder
	b.WriteString("catch " + strings.Join(codes, " | "))
	if len(c.Vars) > 0 {
		vars := make([]string, len(c.Vars))
		for i, v := range c.Vars {
			vars[i] = "$" + v.String()
		}
		b.WriteString(" (" + strings.Join(vars, ", ") + ")")
	}
	b.WriteString(" { " + c.Body.String() + " }")
	return b.String()
}

// TryCatch is "try { ... } catch ...".
type TryCatch struct {
	Try     token.Position
	Body    Expr
	Catches []*Catch
}

func (x *TryCatch) exprNode() {}

func (x *TryCatch) Pos() token.Position { return x.Try }

func (x *TryCatch) String() string {
	var b strings.Builder
	b.WriteString("try { " + x.Body.String() + " }")
	for _, c := range x.Catches {
		b.WriteString(" " + c.String())
	}
	return b.String()
}

// Filter applies predicates to a primary expression.
type Filter struct {
	X          Expr
	Predicates []Expr
}

func (x *Filter) exprNode() {}

func (x *Filter) Pos() token.Position { return x.X.Pos() }

func (x *Filter) String() string { return x.X.String() + predicates(x.Predicates) }

// CallKind classifies a resolved function call.
type CallKind int

const (
	// BuiltinCall is a call to a function in the fn namespace.
	BuiltinCall CallKind = iota
	// ConstructorCall is a call to an xs: type constructor.
	ConstructorCall
	// UserCall is a call to a declared function.
	UserCall
)

// FunctionCall is a static call. For user calls Decl points at the
// declaration once it has been resolved; the link may be filled in after the
// call itself is parsed when the function is declared later in the module.
type FunctionCall struct {
	NamePos token.Position
	Name    QName
	Kind    CallKind
	Args    []Expr
	Decl    *FunctionDecl `json:"-"`
}

func (x *FunctionCall) exprNode() {}

func (x *FunctionCall) Pos() token.Position { return x.NamePos }

func (x *FunctionCall) String() string {
	return x.Name.String() + "(" + joinExprs(x.Args, ", ") + ")"
}

// Pragma is "(# name content #)".
type Pragma struct {
	Name    QName
	Content string
}

func (p Pragma) String() string {
	if p.Content == "" {
		return "(# " + p.Name.String() + " #)"
	}
	return "(# " + p.Name.String() + " " + p.Content + " #)"
}

// Extension is one or more pragmas applied to an enclosed expression.
type Extension struct {
	Lpragma token.Position
	Pragmas []Pragma
	Body    Expr
}

func (x *Extension) exprNode() {}

func (x *Extension) Pos() token.Position { return x.Lpragma }

func (x *Extension) String() string {
	var b strings.Builder
	for _, p := range x.Pragmas {
		b.WriteString(p.String() + " ")
	}
	b.WriteString("{ " + x.Body.String() + " }")
	return b.String()
}

// Ordered is "ordered { ... }" or "unordered { ... }".
type Ordered struct {
	Keyword token.Position
	Ordered bool
	Body    Expr
}

func (x *Ordered) exprNode() {}

func (x *Ordered) Pos() token.Position { return x.Keyword }

func (x *Ordered) String() string {
	kw := "unordered"
	if x.Ordered {
		kw = "ordered"
	}
	return kw + " { " + x.Body.String() + " }"
}
