package ast

import (
	"strings"

	"github.com/xqgo/xquery/internal/token"
)

// Axis is a path traversal direction.
type Axis int

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisAttribute
	AxisSelf
	AxisDescendantOrSelf
	AxisFollowingSibling
	AxisFollowing
	AxisParent
	AxisAncestor
	AxisPrecedingSibling
	AxisPreceding
	AxisAncestorOrSelf
)

var axisNames = [...]string{
	AxisChild:            "child",
	AxisDescendant:       "descendant",
	AxisAttribute:        "attribute",
	AxisSelf:             "self",
	AxisDescendantOrSelf: "descendant-or-self",
	AxisFollowingSibling: "following-sibling",
	AxisFollowing:        "following",
	AxisParent:           "parent",
	AxisAncestor:         "ancestor",
	AxisPrecedingSibling: "preceding-sibling",
	AxisPreceding:        "preceding",
	AxisAncestorOrSelf:   "ancestor-or-self",
}

func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return "unknown"
	}
	return axisNames[a]
}

// Reverse reports whether the axis walks in reverse document order.
func (a Axis) Reverse() bool {
	switch a {
	case AxisParent, AxisAncestor, AxisPrecedingSibling, AxisPreceding, AxisAncestorOrSelf:
		return true
	}
	return false
}

// LookupAxis returns the axis with the given name.
func LookupAxis(name string) (Axis, bool) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), true
		}
	}
	return 0, false
}

// AxisNames lists all axis names, longest first within a shared prefix.
func AxisNames() []string {
	names := make([]string, 0, len(axisNames))
	order := []Axis{
		AxisAncestorOrSelf, AxisAncestor, AxisAttribute, AxisChild,
		AxisDescendantOrSelf, AxisDescendant, AxisFollowingSibling,
		AxisFollowing, AxisParent, AxisPrecedingSibling, AxisPreceding,
		AxisSelf,
	}
	for _, a := range order {
		names = append(names, a.String())
	}
	return names
}

// Step is an axis step: axis, node test and predicates.
type Step struct {
	StepPos    token.Position
	Axis       Axis
	Test       NodeTest
	Predicates []Expr
}

func (x *Step) exprNode() {}

func (x *Step) Pos() token.Position { return x.StepPos }

func (x *Step) String() string {
	return x.Axis.String() + "::" + x.Test.String() + predicates(x.Predicates)
}

// Root selects the root of the tree containing the context node ("/").
type Root struct {
	Slash token.Position
}

func (x *Root) exprNode() {}

func (x *Root) Pos() token.Position { return x.Slash }

func (x *Root) String() string { return "/" }

// AxisPath is a path consisting only of axis steps. Evaluators may answer it
// from an index, so it is kept distinct from MixedPath.
type AxisPath struct {
	Start token.Position
	// Root is set for absolute paths.
	Root  bool
	Steps []*Step
}

func (x *AxisPath) exprNode() {}

func (x *AxisPath) Pos() token.Position { return x.Start }

func (x *AxisPath) String() string {
	parts := make([]string, len(x.Steps))
	for i, s := range x.Steps {
		parts[i] = s.String()
	}
	path := strings.Join(parts, "/")
	if x.Root {
		return "/" + path
	}
	return path
}

// MixedPath is a path with at least one step that is not an axis step.
type MixedPath struct {
	Start token.Position
	// Root is the initial expression of a relative path whose first step is a
	// filter expression, or a *Root node for absolute paths. It may be nil.
	Root  Expr
	Steps []Expr
}

func (x *MixedPath) exprNode() {}

func (x *MixedPath) Pos() token.Position { return x.Start }

func (x *MixedPath) String() string {
	parts := make([]string, 0, len(x.Steps)+1)
	if x.Root != nil {
		if _, ok := x.Root.(*Root); ok {
			parts = append(parts, "")
		} else {
			parts = append(parts, x.Root.String())
		}
	}
	for _, s := range x.Steps {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "/")
}

// NodeTest filters nodes on an axis.
type NodeTest interface {
	Node
	nodeTest()
}

// NameTestKind distinguishes the name test forms.
type NameTestKind int

const (
	// NameExact matches namespace URI and local name ("p:n" or "n").
	NameExact NameTestKind = iota
	// NameAny is "*".
	NameAny
	// NameNamespace is "p:*".
	NameNamespace
	// NameLocal is "*:n".
	NameLocal
)

// NameTest matches elements or attributes by name.
type NameTest struct {
	NamePos   token.Position
	Kind      NameTestKind
	Name      QName
	Attribute bool
}

func (t *NameTest) nodeTest() {}

func (t *NameTest) Pos() token.Position { return t.NamePos }

func (t *NameTest) String() string {
	switch t.Kind {
	case NameAny:
		return "*"
	case NameNamespace:
		return t.Name.Prefix + ":*"
	case NameLocal:
		return "*:" + t.Name.Local
	default:
		return t.Name.String()
	}
}

// Matches reports whether an element or attribute name passes the test.
func (t *NameTest) Matches(name QName) bool {
	switch t.Kind {
	case NameAny:
		return true
	case NameNamespace:
		return name.URI == t.Name.URI
	case NameLocal:
		return name.Local == t.Name.Local
	default:
		return t.Name.Equal(name)
	}
}

// KindTest matches nodes by kind, optionally constrained by name and type.
type KindTest struct {
	KindPos token.Position
	Kind    NodeKind
	// Name constrains element and attribute tests; nil means any name.
	Name *QName
	// TypeName is the optional type annotation of element and attribute tests.
	TypeName *QName
	Nillable bool
	// Target is the optional processing-instruction target.
	Target string
	// Element is the nested element test of document-node(element(...)).
	Element *KindTest
}

func (t *KindTest) nodeTest() {}

func (t *KindTest) Pos() token.Position { return t.KindPos }

func (t *KindTest) String() string {
	var arg string
	switch {
	case t.Element != nil:
		arg = t.Element.String()
	case t.Target != "":
		arg = t.Target
	case t.Name != nil || t.TypeName != nil:
		arg = "*"
		if t.Name != nil {
			arg = t.Name.String()
		}
		if t.TypeName != nil {
			arg += ", " + t.TypeName.String()
			if t.Nillable {
				arg += "?"
			}
		}
	}
	return t.Kind.String() + "(" + arg + ")"
}
