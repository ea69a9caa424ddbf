package suggest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// PathNode is an opaque node of a PathSummary. Only the summary that
// returned it can interpret it.
type PathNode any

// PathSummary describes the distinct element paths of a document or
// collection. Suggestions are computed by walking it alongside the location
// paths of a query.
type PathSummary interface {
	// Root returns the document-level nodes.
	Root() []PathNode
	// Descend returns the children of the given nodes, or all of their
	// descendants when descendants is true.
	Descend(nodes []PathNode, descendants bool) []PathNode
	// Label returns the name of a node as it would be typed in a query.
	// Attributes are prefixed with "@"; text nodes have an empty label.
	Label(node PathNode) string
}

// NodeKind is the kind of a summary node.
type NodeKind int

const (
	DocumentNode NodeKind = iota
	ElementNode
	AttributeNode
	TextNode
)

// Node is a node of a Summary. Each node stands for every document node
// reachable through the same sequence of names.
type Node struct {
	Kind     NodeKind
	Name     string
	Count    int
	Children []*Node
}

func (n *Node) child(kind NodeKind, name string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind && c.Name == name {
			return c
		}
	}
	c := &Node{Kind: kind, Name: name}
	n.Children = append(n.Children, c)
	return c
}

// Summary is an in-memory PathSummary.
type Summary struct {
	root *Node
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{root: &Node{Kind: DocumentNode, Count: 1}}
}

// Add records a path of names below the document node. Names starting with
// "@" are attributes and an empty name is a text node.
func (s *Summary) Add(names ...string) *Summary {
	n := s.root
	for _, name := range names {
		switch {
		case name == "":
			n = n.child(TextNode, "")
		case strings.HasPrefix(name, "@"):
			n = n.child(AttributeNode, name[1:])
		default:
			n = n.child(ElementNode, name)
		}
		n.Count++
	}
	return s
}

// Root implements PathSummary.
func (s *Summary) Root() []PathNode {
	return []PathNode{s.root}
}

// Descend implements PathSummary.
func (s *Summary) Descend(nodes []PathNode, descendants bool) []PathNode {
	var out []PathNode
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			out = append(out, c)
			if descendants {
				walk(c)
			}
		}
	}
	for _, pn := range nodes {
		if n, ok := pn.(*Node); ok {
			walk(n)
		}
	}
	return out
}

// Label implements PathSummary.
func (s *Summary) Label(pn PathNode) string {
	n, ok := pn.(*Node)
	if !ok {
		return ""
	}
	switch n.Kind {
	case ElementNode:
		return n.Name
	case AttributeNode:
		return "@" + n.Name
	}
	return ""
}

// Count returns how often the node occurred while the summary was built.
func (s *Summary) Count(pn PathNode) int {
	if n, ok := pn.(*Node); ok {
		return n.Count
	}
	return 0
}

// FromXML builds a summary from an XML document. Namespace declarations are
// skipped and names are recorded without their prefix.
func FromXML(r io.Reader) (*Summary, error) {
	s := NewSummary()
	stack := []*Node{s.root}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading xml: %w", err)
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := top.child(ElementNode, t.Name.Local)
			el.Count++
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
					continue
				}
				el.child(AttributeNode, attr.Name.Local).Count++
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 1 && len(bytes.TrimSpace(t)) > 0 {
				top.child(TextNode, "").Count++
			}
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("reading xml: unexpected end of document")
	}
	return s, nil
}
