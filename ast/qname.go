package ast

// Predeclared namespace URIs.
const (
	XMLURI   = "http://www.w3.org/XML/1998/namespace"
	XMLNSURI = "http://www.w3.org/2000/xmlns/"
	XSURI    = "http://www.w3.org/2001/XMLSchema"
	XSIURI   = "http://www.w3.org/2001/XMLSchema-instance"
	FNURI    = "http://www.w3.org/2005/xpath-functions"
	LocalURI = "http://www.w3.org/2005/xquery-local-functions"
	ErrURI   = "http://www.w3.org/2005/xqt-errors"

	// CodepointCollation is the only collation the parser accepts.
	CodepointCollation = "http://www.w3.org/2005/xpath-functions/collation/codepoint"
)

// QName is a qualified name. URI is resolved by the parser at the point the
// name is read; Prefix is kept for diagnostics and rendering.
type QName struct {
	Prefix string
	Local  string
	URI    string
}

// HasPrefix reports whether the name was written with a prefix.
func (q QName) HasPrefix() bool { return q.Prefix != "" }

// Equal compares expanded names (namespace URI and local name).
func (q QName) Equal(o QName) bool {
	return q.Local == o.Local && q.URI == o.URI
}

// Expanded returns the "{uri}local" form used as a map key.
func (q QName) Expanded() string {
	return "{" + q.URI + "}" + q.Local
}

// String returns the lexical form.
func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// SplitQName splits a lexical QName into prefix and local part.
func SplitQName(name string) (prefix, local string) {
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}
