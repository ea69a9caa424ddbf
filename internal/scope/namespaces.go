package scope

import (
	"errors"

	"github.com/xqgo/xquery/ast"
)

// ErrUnknownPrefix is returned when a prefix has no binding.
var ErrUnknownPrefix = errors.New("unknown namespace prefix")

// predeclared are the statically known namespaces every query starts with.
var predeclared = map[string]string{
	"xml":   ast.XMLURI,
	"xs":    ast.XSURI,
	"xsi":   ast.XSIURI,
	"fn":    ast.FNURI,
	"local": ast.LocalURI,
	"err":   ast.ErrURI,
}

// Predeclared returns the URI of a predeclared prefix.
func Predeclared(prefix string) (string, bool) {
	uri, ok := predeclared[prefix]
	return uri, ok
}

type binding struct {
	prefix string
	uri    string
	prolog bool
}

// Namespaces is an ordered prefix table. Prolog declarations live for the
// whole module; bindings from xmlns attributes of direct element
// constructors are pushed on entry and dropped by Truncate on exit. The empty
// prefix holds the default element namespace.
type Namespaces struct {
	entries []binding
	// DefaultFunction is the default function namespace.
	DefaultFunction string
}

// NewNamespaces returns a table holding only the predeclared namespaces.
func NewNamespaces() *Namespaces {
	return &Namespaces{DefaultFunction: ast.FNURI}
}

// Declare adds a prolog namespace declaration. A prefix may be declared once
// per module.
func (n *Namespaces) Declare(prefix, uri string) error {
	for _, b := range n.entries {
		if b.prolog && b.prefix == prefix {
			return ErrDuplicate
		}
	}
	n.entries = append(n.entries, binding{prefix: prefix, uri: uri, prolog: true})
	return nil
}

// Push adds a scoped binding that shadows earlier ones until truncated.
func (n *Namespaces) Push(prefix, uri string) {
	n.entries = append(n.entries, binding{prefix: prefix, uri: uri})
}

// Size returns the number of bindings, for use with Truncate.
func (n *Namespaces) Size() int { return len(n.entries) }

// Truncate drops bindings pushed after the table had size size.
func (n *Namespaces) Truncate(size int) {
	if size < len(n.entries) {
		n.entries = n.entries[:size]
	}
}

// Resolve returns the URI bound to prefix. The innermost binding wins;
// predeclared prefixes are the fallback. An empty URI binding undeclares
// the prefix.
func (n *Namespaces) Resolve(prefix string) (string, error) {
	for i := len(n.entries) - 1; i >= 0; i-- {
		if n.entries[i].prefix == prefix {
			if n.entries[i].uri == "" && prefix != "" {
				return "", ErrUnknownPrefix
			}
			return n.entries[i].uri, nil
		}
	}
	if uri, ok := predeclared[prefix]; ok {
		return uri, nil
	}
	if prefix == "" {
		return "", nil
	}
	return "", ErrUnknownPrefix
}

// DefaultElement returns the default element namespace in scope.
func (n *Namespaces) DefaultElement() string {
	uri, _ := n.Resolve("")
	return uri
}

// Prefixes returns every prefix that currently resolves, for diagnostics.
func (n *Namespaces) Prefixes() []string {
	seen := map[string]bool{}
	var out []string
	for i := len(n.entries) - 1; i >= 0; i-- {
		p := n.entries[i].prefix
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for p := range predeclared {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
