package ast

import "github.com/xqgo/xquery/internal/token"

// NodeKind is the kind matched by a kind test.
type NodeKind int

const (
	KindNode NodeKind = iota
	KindText
	KindComment
	KindPI
	KindElement
	KindAttribute
	KindDocument
	KindSchemaElement
	KindSchemaAttribute
)

var kindNames = [...]string{
	KindNode:            "node",
	KindText:            "text",
	KindComment:         "comment",
	KindPI:              "processing-instruction",
	KindElement:         "element",
	KindAttribute:       "attribute",
	KindDocument:        "document-node",
	KindSchemaElement:   "schema-element",
	KindSchemaAttribute: "schema-attribute",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// LookupKind returns the node kind with the given test name.
func LookupKind(name string) (NodeKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return NodeKind(i), true
		}
	}
	return 0, false
}

// Occurrence is a sequence type cardinality.
type Occurrence int

const (
	ExactlyOne Occurrence = iota
	ZeroOrOne
	ZeroOrMore
	OneOrMore
)

func (o Occurrence) String() string {
	switch o {
	case ZeroOrOne:
		return "?"
	case ZeroOrMore:
		return "*"
	case OneOrMore:
		return "+"
	}
	return ""
}

// ItemKind classifies the item type of a sequence type.
type ItemKind int

const (
	// ItemEmpty is empty-sequence().
	ItemEmpty ItemKind = iota
	// ItemAny is item().
	ItemAny
	// ItemAtomic is a named atomic type.
	ItemAtomic
	// ItemNode is a kind test.
	ItemNode
)

// SequenceType is an item type plus an occurrence indicator.
type SequenceType struct {
	TypePos    token.Position
	Kind       ItemKind
	Atomic     QName
	Test       *KindTest
	Occurrence Occurrence
}

func (t *SequenceType) Pos() token.Position { return t.TypePos }

func (t *SequenceType) String() string {
	var s string
	switch t.Kind {
	case ItemEmpty:
		return "empty-sequence()"
	case ItemAny:
		s = "item()"
	case ItemAtomic:
		s = t.Atomic.String()
	case ItemNode:
		s = t.Test.String()
	}
	return s + t.Occurrence.String()
}

// SingleType is the target of cast and castable: an atomic type, optionally
// allowing the empty sequence.
type SingleType struct {
	TypePos  token.Position
	Type     QName
	Optional bool
}

func (t *SingleType) Pos() token.Position { return t.TypePos }

func (t *SingleType) String() string {
	if t.Optional {
		return t.Type.String() + "?"
	}
	return t.Type.String()
}
