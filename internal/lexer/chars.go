package lexer

// IsSpace reports whether b is XML whitespace.
func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// IsDigit reports whether b is an ASCII digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsQuote reports whether b delimits a string literal.
func IsQuote(b byte) bool {
	return b == '"' || b == '\''
}

// IsNameStart reports whether r may start an XML NCName.
func IsNameStart(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		return true
	case r < 0xC0:
		return false
	}
	return r >= 0xC0 && r <= 0xD6 ||
		r >= 0xD8 && r <= 0xF6 ||
		r >= 0xF8 && r <= 0x2FF ||
		r >= 0x370 && r <= 0x37D ||
		r >= 0x37F && r <= 0x1FFF ||
		r >= 0x200C && r <= 0x200D ||
		r >= 0x2070 && r <= 0x218F ||
		r >= 0x2C00 && r <= 0x2FEF ||
		r >= 0x3001 && r <= 0xD7FF ||
		r >= 0xF900 && r <= 0xFDCF ||
		r >= 0xFDF0 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0xEFFFF
}

// IsNameChar reports whether r may continue an XML NCName.
func IsNameChar(r rune) bool {
	if IsNameStart(r) {
		return true
	}
	switch {
	case r == '-', r == '.', r >= '0' && r <= '9', r == 0xB7:
		return true
	}
	return r >= 0x300 && r <= 0x36F || r >= 0x203F && r <= 0x2040
}

// IsXMLChar reports whether r is a legal XML 1.0 character.
func IsXMLChar(r rune) bool {
	return r == 0x9 || r == 0xA || r == 0xD ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
