package parser

import "github.com/xqgo/xquery/ast"

// Hooks receives notifications about location path structure while a query
// is parsed. Completion engines implement it to track which names are valid
// at the cursor; normal parsing uses NopHooks.
type Hooks interface {
	// Init is called once before parsing starts.
	Init()
	// Axis is called when the axis of a step has been decided, before its
	// node test is parsed. Implicit child steps that follow "//" report the
	// descendant axis.
	Axis(axis ast.Axis)
	// NodeTest is called after a node test has been parsed. more reports
	// whether input remains after the test.
	NodeTest(test ast.NodeTest, attribute bool, more bool)
	// Predicate is called when a step predicate opens and when it closes.
	Predicate(open bool)
}

// NopHooks ignores all notifications.
type NopHooks struct{}

func (NopHooks) Init() {}
func (NopHooks) Axis(ast.Axis) {}
func (NopHooks) NodeTest(ast.NodeTest, bool, bool) {}
func (NopHooks) Predicate(bool) {}
