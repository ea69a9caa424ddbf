package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Children returns the direct, non-nil children of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if n != nil {
				out = append(out, n)
			}
		}
	}
	addExprs := func(list []Expr) {
		for _, e := range list {
			add(e)
		}
	}

	switch n := node.(type) {
	case *Module:
		if n.Prolog != nil {
			add(n.Prolog.Decls()...)
		}
		add(n.Body)
	case *VarDecl:
		add(n.Value)
	case *FunctionDecl:
		add(n.Body)

	case *Sequence:
		addExprs(n.Items)
	case *Unary:
		add(n.X)
	case *Arithmetic:
		add(n.X, n.Y)
	case *Range:
		add(n.From, n.To)
	case *Comparison:
		add(n.X, n.Y)
	case *Logical:
		addExprs(n.Operands)
	case *SetExpr:
		addExprs(n.Operands)
	case *InstanceOf:
		add(n.X)
	case *Treat:
		add(n.X)
	case *Castable:
		add(n.X)
	case *Cast:
		add(n.X)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *Quantified:
		for _, b := range n.Bindings {
			add(b)
		}
		add(n.Satisfies)
	case *TypeSwitch:
		add(n.Operand)
		for _, c := range n.Cases {
			add(c.Return)
		}
		add(n.Default.Return)
	case *TryCatch:
		add(n.Body)
		for _, c := range n.Catches {
			add(c.Body)
		}
	case *Filter:
		add(n.X)
		addExprs(n.Predicates)
	case *FunctionCall:
		addExprs(n.Args)
	case *Extension:
		add(n.Body)
	case *Ordered:
		add(n.Body)

	case *FLWOR:
		for _, c := range n.Clauses {
			add(c)
		}
		add(n.Where)
		for _, s := range n.OrderBy {
			add(s.Key)
		}
		add(n.Return)
	case *ForClause:
		add(n.In)
	case *LetClause:
		add(n.Value)

	case *Step:
		add(n.Test)
		addExprs(n.Predicates)
	case *AxisPath:
		for _, s := range n.Steps {
			add(s)
		}
	case *MixedPath:
		add(n.Root)
		addExprs(n.Steps)

	case *ElementConstructor:
		add(n.NameExpr)
		for _, a := range n.Attributes {
			add(a)
		}
		addExprs(n.Content)
	case *AttributeConstructor:
		add(n.NameExpr)
		addExprs(n.Value)
	case *TextConstructor:
		add(n.Value)
	case *CommentConstructor:
		add(n.Value)
	case *PIConstructor:
		add(n.TargetExpr, n.Value)
	case *DocumentConstructor:
		add(n.Value)

	case *FTContains:
		add(n.X, n.Selection)
	case *FTSelection:
		add(n.X, n.Window)
		addRange(add, n.Distance)
		add(n.Weight)
	case *FTOr:
		addFT(add, n.Operands)
	case *FTAnd:
		addFT(add, n.Operands)
	case *FTMildNot:
		addFT(add, n.Operands)
	case *FTNot:
		add(n.X)
	case *FTWithOptions:
		add(n.X)
	case *FTExtension:
		add(n.X)
	case *FTWords:
		add(n.Value)
		addRange(add, n.Occurs)
	}
	return out
}

func addFT(add func(...Node), list []FTExpr) {
	for _, e := range list {
		add(e)
	}
}

func addRange(add func(...Node), r *FTRange) {
	if r == nil {
		return
	}
	add(r.Min)
	if r.Max != r.Min {
		add(r.Max)
	}
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}
