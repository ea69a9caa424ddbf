package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xqgo/xquery/internal/token"
)

// for $x in (1, 2) where $x > 1 return <a>{$x}</a>
func sampleFLWOR() *Module {
	x := QName{Local: "x"}
	return &Module{
		Body: &FLWOR{
			Clauses: []Clause{
				&ForClause{
					Dollar: token.Position{Line: 0, Column: 4},
					Var:    x,
					In: &Sequence{Items: []Expr{
						&IntegerLiteral{Value: 1},
						&IntegerLiteral{Value: 2},
					}},
				},
			},
			Where: &Comparison{
				Kind: GeneralComp,
				Op:   ">",
				X:    &VarRef{Name: x},
				Y:    &IntegerLiteral{Value: 1},
			},
			Return: &ElementConstructor{
				Name:    QName{Local: "a"},
				Content: []Expr{&VarRef{Name: x}},
			},
		},
	}
}

func TestWalk(t *testing.T) {
	var visited []string
	Inspect(sampleFLWOR(), func(n Node) bool {
		switch node := n.(type) {
		case *Module:
			visited = append(visited, "Module")
		case *FLWOR:
			visited = append(visited, "FLWOR")
		case *ForClause:
			visited = append(visited, "For")
		case *Sequence:
			visited = append(visited, "Sequence")
		case *Comparison:
			visited = append(visited, "Comparison:"+node.Op)
		case *VarRef:
			visited = append(visited, "VarRef")
		case *IntegerLiteral:
			visited = append(visited, "Int")
		case *ElementConstructor:
			visited = append(visited, "Element:"+node.Name.Local)
		}
		return true
	})

	expected := []string{
		"Module", "FLWOR", "For", "Sequence", "Int", "Int",
		"Comparison:>", "VarRef", "Int", "Element:a", "VarRef",
	}
	assert.Equal(t, expected, visited)
}

func TestInspectPrune(t *testing.T) {
	var count int
	Inspect(sampleFLWOR(), func(n Node) bool {
		count++
		_, isFor := n.(*ForClause)
		return !isFor
	})
	// Module, FLWOR, For (pruned), Comparison, VarRef, Int, Element, VarRef
	assert.Equal(t, 8, count)
}

func TestPreorder(t *testing.T) {
	var kinds []string
	for n := range Preorder(sampleFLWOR()) {
		if lit, ok := n.(*IntegerLiteral); ok {
			kinds = append(kinds, lit.String())
		}
	}
	assert.Equal(t, []string{"1", "2", "1"}, kinds)
}

func TestPreorderStop(t *testing.T) {
	var count int
	for range Preorder(sampleFLWOR()) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestChildrenOfPath(t *testing.T) {
	step := &Step{
		Axis:       AxisChild,
		Test:       &NameTest{Name: QName{Local: "a"}},
		Predicates: []Expr{&IntegerLiteral{Value: 1}},
	}
	path := &AxisPath{Root: true, Steps: []*Step{step}}
	children := Children(path)
	assert.Len(t, children, 1)
	assert.Len(t, Children(step), 2)
	assert.Empty(t, Children(&ContextItem{}))
}
