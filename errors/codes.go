package errors

// ErrorCode identifies an error condition. Codes follow the W3C XQuery and
// XQuery Full Text error names; conditions the standards do not cover use the
// XQPxxxx range.
type ErrorCode string

const (
	// Static errors (XPST/XQST)
	XPST0003 ErrorCode = "XPST0003" // Syntax error
	XPST0005 ErrorCode = "XPST0005" // Empty sequence type with occurrence
	XPST0008 ErrorCode = "XPST0008" // Undefined variable or type
	XPST0017 ErrorCode = "XPST0017" // Unknown function or wrong arity
	XPST0051 ErrorCode = "XPST0051" // Unknown atomic type
	XPST0080 ErrorCode = "XPST0080" // Invalid cast target
	XPST0081 ErrorCode = "XPST0081" // Unknown namespace prefix
	XQST0009 ErrorCode = "XQST0009" // Schema import not supported
	XQST0022 ErrorCode = "XQST0022" // Namespace attribute must be a literal
	XQST0031 ErrorCode = "XQST0031" // Unsupported version
	XQST0032 ErrorCode = "XQST0032" // Duplicate base-uri declaration
	XQST0033 ErrorCode = "XQST0033" // Duplicate namespace prefix
	XQST0034 ErrorCode = "XQST0034" // Duplicate function declaration
	XQST0038 ErrorCode = "XQST0038" // Duplicate or unknown default collation
	XQST0039 ErrorCode = "XQST0039" // Duplicate parameter name
	XQST0040 ErrorCode = "XQST0040" // Duplicate attribute name
	XQST0045 ErrorCode = "XQST0045" // Function in reserved namespace
	XQST0047 ErrorCode = "XQST0047" // Duplicate module import
	XQST0048 ErrorCode = "XQST0048" // Declaration outside module namespace
	XQST0049 ErrorCode = "XQST0049" // Duplicate variable declaration
	XQST0055 ErrorCode = "XQST0055" // Duplicate copy-namespaces declaration
	XQST0059 ErrorCode = "XQST0059" // Module not found
	XQST0060 ErrorCode = "XQST0060" // Function not in a namespace
	XQST0065 ErrorCode = "XQST0065" // Duplicate ordering declaration
	XQST0066 ErrorCode = "XQST0066" // Duplicate default namespace declaration
	XQST0067 ErrorCode = "XQST0067" // Duplicate construction declaration
	XQST0068 ErrorCode = "XQST0068" // Duplicate boundary-space declaration
	XQST0069 ErrorCode = "XQST0069" // Duplicate empty order declaration
	XQST0070 ErrorCode = "XQST0070" // Reserved namespace prefix or URI
	XQST0071 ErrorCode = "XQST0071" // Duplicate namespace attribute
	XQST0073 ErrorCode = "XQST0073" // Cyclic module import
	XQST0075 ErrorCode = "XQST0075" // Validation not supported
	XQST0076 ErrorCode = "XQST0076" // Unknown collation
	XQST0079 ErrorCode = "XQST0079" // Extension expression without content
	XQST0085 ErrorCode = "XQST0085" // Empty namespace URI
	XQST0087 ErrorCode = "XQST0087" // Invalid encoding
	XQST0088 ErrorCode = "XQST0088" // Empty module namespace
	XQST0089 ErrorCode = "XQST0089" // Positional variable shadows binding
	XQST0118 ErrorCode = "XQST0118" // Mismatched end tag

	// Dynamic errors detected while parsing literals
	FOAR0002 ErrorCode = "FOAR0002" // Numeric overflow

	// Full-text static errors (FTST)
	FTST0008 ErrorCode = "FTST0008" // Stop word list not found
	FTST0009 ErrorCode = "FTST0009" // Unsupported language
	FTST0018 ErrorCode = "FTST0018" // Thesaurus not supported
	FTST0019 ErrorCode = "FTST0019" // Conflicting match options

	// Implementation limits (XQPxxxx)
	XQP0001 ErrorCode = "XQP0001" // Not implemented
	XQP0002 ErrorCode = "XQP0002" // Maximum nesting depth exceeded
	XQP0003 ErrorCode = "XQP0003" // Parse cancelled
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	XPST0003: "syntax error",
	XPST0005: "invalid sequence type",
	XPST0008: "undefined name",
	XPST0017: "unknown function",
	XPST0051: "unknown atomic type",
	XPST0080: "invalid cast target",
	XPST0081: "unknown namespace prefix",
	XQST0009: "schema import not supported",
	XQST0022: "namespace attribute must be a literal",
	XQST0031: "unsupported version",
	XQST0032: "duplicate base-uri declaration",
	XQST0033: "duplicate namespace prefix",
	XQST0034: "duplicate function declaration",
	XQST0038: "invalid default collation",
	XQST0039: "duplicate parameter name",
	XQST0040: "duplicate attribute name",
	XQST0045: "function in reserved namespace",
	XQST0047: "duplicate module import",
	XQST0048: "declaration outside module namespace",
	XQST0049: "duplicate variable declaration",
	XQST0055: "duplicate copy-namespaces declaration",
	XQST0059: "module not found",
	XQST0060: "function not in a namespace",
	XQST0065: "duplicate ordering declaration",
	XQST0066: "duplicate default namespace declaration",
	XQST0067: "duplicate construction declaration",
	XQST0068: "duplicate boundary-space declaration",
	XQST0069: "duplicate empty order declaration",
	XQST0070: "reserved namespace",
	XQST0071: "duplicate namespace attribute",
	XQST0073: "cyclic module import",
	XQST0075: "validation not supported",
	XQST0076: "unknown collation",
	XQST0079: "extension expression without content",
	XQST0085: "empty namespace URI",
	XQST0087: "invalid encoding",
	XQST0088: "empty module namespace",
	XQST0089: "duplicate positional variable",
	XQST0118: "mismatched end tag",
	FOAR0002: "numeric overflow",
	FTST0008: "stop word list not found",
	FTST0009: "unsupported language",
	FTST0018: "thesaurus not supported",
	FTST0019: "conflicting match options",
	XQP0001:  "not implemented",
	XQP0002:  "maximum nesting depth exceeded",
	XQP0003:  "parse cancelled",
}

// Description returns a short description of the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error family: "static", "full-text", "dynamic" or
// "limit".
func (c ErrorCode) Category() string {
	switch {
	case len(c) < 4:
		return "unknown"
	case c[:2] == "FT":
		return "full-text"
	case c[:2] == "FO":
		return "dynamic"
	case c[:3] == "XQP":
		return "limit"
	case c[2:4] == "ST":
		return "static"
	}
	return "unknown"
}
