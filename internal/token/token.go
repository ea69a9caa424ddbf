// Package token describes locations within XQuery source text.
package token

import "sort"

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// LineIndex maps byte offsets of a source text to line/column positions.
type LineIndex struct {
	file   string
	src    string
	starts []int
}

// NewLineIndex indexes the line starts of src.
func NewLineIndex(file, src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{file: file, src: src, starts: starts}
}

// Position returns the position of the given byte offset. Offsets outside the
// source are clamped.
func (x *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.src) {
		offset = len(x.src)
	}
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	return Position{
		Char:      offset,
		LineStart: x.starts[line],
		Line:      line,
		Column:    offset - x.starts[line],
		File:      x.file,
	}
}

// LineText returns the text of the line containing pos, without the newline.
func (x *LineIndex) LineText(pos Position) string {
	start := pos.LineStart
	if start > len(x.src) {
		return ""
	}
	end := start
	for end < len(x.src) && x.src[end] != '\n' && x.src[end] != '\r' {
		end++
	}
	return x.src[start:end]
}
