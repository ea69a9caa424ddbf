package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xqgo/xquery/internal/token"
)

// FTContains is "X ftcontains selection".
type FTContains struct {
	X         Expr
	Selection FTExpr
}

func (x *FTContains) exprNode() {}

func (x *FTContains) Pos() token.Position { return x.X.Pos() }

func (x *FTContains) String() string {
	return "(" + x.X.String() + " ftcontains " + x.Selection.String() + ")"
}

// FTExpr is a node of the full-text selection grammar.
type FTExpr interface {
	Node
	ftNode()
}

func joinFT(list []FTExpr, sep string) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// FTOr is "a ftor b".
type FTOr struct{ Operands []FTExpr }

func (x *FTOr) ftNode() {}

func (x *FTOr) Pos() token.Position { return x.Operands[0].Pos() }

func (x *FTOr) String() string { return joinFT(x.Operands, " ftor ") }

// FTAnd is "a ftand b".
type FTAnd struct{ Operands []FTExpr }

func (x *FTAnd) ftNode() {}

func (x *FTAnd) Pos() token.Position { return x.Operands[0].Pos() }

func (x *FTAnd) String() string { return joinFT(x.Operands, " ftand ") }

// FTMildNot is "a not in b".
type FTMildNot struct{ Operands []FTExpr }

func (x *FTMildNot) ftNode() {}

func (x *FTMildNot) Pos() token.Position { return x.Operands[0].Pos() }

func (x *FTMildNot) String() string { return joinFT(x.Operands, " not in ") }

// FTNot is "ftnot a".
type FTNot struct {
	Ftnot token.Position
	X     FTExpr
}

func (x *FTNot) ftNode() {}

func (x *FTNot) Pos() token.Position { return x.Ftnot }

func (x *FTNot) String() string { return "ftnot " + x.X.String() }

// FTMode is the any/all/phrase option of a words selection.
type FTMode int

const (
	FTAny FTMode = iota
	FTAnyWord
	FTAll
	FTAllWords
	FTPhrase
)

func (m FTMode) String() string {
	switch m {
	case FTAnyWord:
		return "any word"
	case FTAll:
		return "all"
	case FTAllWords:
		return "all words"
	case FTPhrase:
		return "phrase"
	}
	return "any"
}

// FTRange bounds a count. A nil Min means 0 and a nil Max means unbounded.
type FTRange struct {
	Min Expr
	Max Expr
}

func (r *FTRange) String() string {
	switch {
	case r.Min != nil && r.Max != nil && r.Min == r.Max:
		return "exactly " + r.Min.String()
	case r.Min != nil && r.Max != nil:
		return "from " + r.Min.String() + " to " + r.Max.String()
	case r.Max != nil:
		return "at most " + r.Max.String()
	case r.Min != nil:
		return "at least " + r.Min.String()
	}
	return "at least 0"
}

// FTWords searches for the tokens of Value.
type FTWords struct {
	Value  Expr
	Mode   FTMode
	Occurs *FTRange
}

func (x *FTWords) ftNode() {}

func (x *FTWords) Pos() token.Position { return x.Value.Pos() }

func (x *FTWords) String() string {
	s := x.Value.String() + " " + x.Mode.String()
	if x.Occurs != nil {
		s += " occurs " + x.Occurs.String() + " times"
	}
	return s
}

// FTExtension applies pragmas to a nested selection.
type FTExtension struct {
	Lpragma token.Position
	Pragmas []Pragma
	X       FTExpr
}

func (x *FTExtension) ftNode() {}

func (x *FTExtension) Pos() token.Position { return x.Lpragma }

func (x *FTExtension) String() string {
	var b strings.Builder
	for _, p := range x.Pragmas {
		b.WriteString(p.String() + " ")
	}
	b.WriteString("{ " + x.X.String() + " }")
	return b.String()
}

// FTUnit is the unit of window and distance filters.
type FTUnit int

const (
	FTWordUnit FTUnit = iota
	FTSentence
	FTParagraph
)

func (u FTUnit) String() string {
	switch u {
	case FTSentence:
		return "sentences"
	case FTParagraph:
		return "paragraphs"
	}
	return "words"
}

// FTContent anchors matches within the searched text.
type FTContent int

const (
	FTAnywhere FTContent = iota
	FTAtStart
	FTAtEnd
	FTEntireContent
)

// FTScope restricts matches to the same or different sentences or paragraphs.
type FTScope struct {
	Same bool
	Unit FTUnit
}

// FTSelection applies position filters and a weight to a selection.
type FTSelection struct {
	X            FTExpr
	Ordered      bool
	Window       Expr
	WindowUnit   FTUnit
	Distance     *FTRange
	DistanceUnit FTUnit
	Content      FTContent
	Scope        *FTScope
	Weight       Expr
}

func (x *FTSelection) ftNode() {}

func (x *FTSelection) Pos() token.Position { return x.X.Pos() }

func (x *FTSelection) String() string {
	var b strings.Builder
	b.WriteString(x.X.String())
	if x.Ordered {
		b.WriteString(" ordered")
	}
	if x.Window != nil {
		b.WriteString(" window " + x.Window.String() + " " + x.WindowUnit.String())
	}
	if x.Distance != nil {
		b.WriteString(" distance " + x.Distance.String() + " " + x.DistanceUnit.String())
	}
	switch x.Content {
	case FTAtStart:
		b.WriteString(" at start")
	case FTAtEnd:
		b.WriteString(" at end")
	case FTEntireContent:
		b.WriteString(" entire content")
	}
	if x.Scope != nil {
		if x.Scope.Same {
			b.WriteString(" same ")
		} else {
			b.WriteString(" different ")
		}
		b.WriteString(strings.TrimSuffix(x.Scope.Unit.String(), "s"))
	}
	if x.Weight != nil {
		b.WriteString(" weight " + x.Weight.String())
	}
	return b.String()
}

// FTWithOptions applies match options to a primary selection.
type FTWithOptions struct {
	X       FTExpr
	Options *FTOptions
}

func (x *FTWithOptions) ftNode() {}

func (x *FTWithOptions) Pos() token.Position { return x.X.Pos() }

func (x *FTWithOptions) String() string { return x.X.String() + " " + x.Options.String() }

// Flag is a tri-state match option.
type Flag int

const (
	Unset Flag = iota
	On
	Off
)

// Bool returns the flag value, using def when unset.
func (f Flag) Bool(def bool) bool {
	if f == Unset {
		return def
	}
	return f == On
}

func flagOf(b bool) Flag {
	if b {
		return On
	}
	return Off
}

// FTCase is the case match option.
type FTCase int

const (
	CaseUnset FTCase = iota
	CaseInsensitive
	CaseSensitive
	CaseLower
	CaseUpper
)

var caseNames = [...]string{"", "case insensitive", "case sensitive", "lowercase", "uppercase"}

// OptionError reports a match option that conflicts with one already given
// in the same option list.
type OptionError struct {
	Option string
	// Conflict names the other option for mutually exclusive pairs; it is
	// empty when the same option was repeated.
	Conflict string
}

func (e *OptionError) Error() string {
	if e.Conflict != "" {
		return fmt.Sprintf("%s cannot be combined with %s", e.Option, e.Conflict)
	}
	return fmt.Sprintf("%s specified more than once", e.Option)
}

// FTOptions is one list of full-text match options. Each "using" list gets a
// fresh set; unset values fall back to the enclosing defaults at evaluation.
type FTOptions struct {
	Case       FTCase
	Diacritics Flag
	Stemming   Flag
	Thesaurus  Flag
	Wildcards  Flag
	Fuzzy      Flag
	Language   string
	// StopWords is nil unless a stop word option was given.
	StopWords *StopWords
}

// SetCase records a case option. Case may be given once per list.
func (o *FTOptions) SetCase(c FTCase) error {
	if o.Case != CaseUnset {
		return &OptionError{Option: "case"}
	}
	o.Case = c
	return nil
}

// SetDiacritics records the diacritics option. It may be given once per list.
func (o *FTOptions) SetDiacritics(sensitive bool) error {
	if o.Diacritics != Unset {
		return &OptionError{Option: "diacritics"}
	}
	o.Diacritics = flagOf(sensitive)
	return nil
}

// SetWildcards enables or disables wildcard matching. Wildcards and fuzzy
// matching are mutually exclusive.
func (o *FTOptions) SetWildcards(with bool) error {
	if o.Fuzzy == On {
		return &OptionError{Option: "wildcards", Conflict: "fuzzy"}
	}
	o.Wildcards = flagOf(with)
	return nil
}

// SetFuzzy enables or disables fuzzy matching.
func (o *FTOptions) SetFuzzy(with bool) error {
	if o.Wildcards == On {
		return &OptionError{Option: "fuzzy", Conflict: "wildcards"}
	}
	o.Fuzzy = flagOf(with)
	return nil
}

// SetStemming enables or disables stemming.
func (o *FTOptions) SetStemming(with bool) { o.Stemming = flagOf(with) }

// Empty reports whether no option has been set.
func (o *FTOptions) Empty() bool {
	return *o == FTOptions{}
}

// Inherit fills unset options from defaults.
func (o *FTOptions) Inherit(defaults *FTOptions) {
	if defaults == nil {
		return
	}
	if o.Case == CaseUnset {
		o.Case = defaults.Case
	}
	if o.Diacritics == Unset {
		o.Diacritics = defaults.Diacritics
	}
	if o.Stemming == Unset {
		o.Stemming = defaults.Stemming
	}
	if o.Thesaurus == Unset {
		o.Thesaurus = defaults.Thesaurus
	}
	if o.Wildcards == Unset && o.Fuzzy != On {
		o.Wildcards = defaults.Wildcards
	}
	if o.Fuzzy == Unset && o.Wildcards != On {
		o.Fuzzy = defaults.Fuzzy
	}
	if o.Language == "" {
		o.Language = defaults.Language
	}
	if o.StopWords == nil {
		o.StopWords = defaults.StopWords
	}
}

func (o *FTOptions) String() string {
	var opts []string
	if o.Case != CaseUnset {
		opts = append(opts, caseNames[o.Case])
	}
	switch o.Diacritics {
	case On:
		opts = append(opts, "diacritics sensitive")
	case Off:
		opts = append(opts, "diacritics insensitive")
	}
	opts = appendFlag(opts, "stemming", o.Stemming)
	opts = appendFlag(opts, "thesaurus", o.Thesaurus)
	opts = appendFlag(opts, "wildcards", o.Wildcards)
	opts = appendFlag(opts, "fuzzy", o.Fuzzy)
	if o.Language != "" {
		opts = append(opts, "language \""+o.Language+"\"")
	}
	if o.StopWords != nil {
		opts = append(opts, o.StopWords.String())
	}
	return strings.Join(opts, " ")
}

func appendFlag(opts []string, name string, f Flag) []string {
	switch f {
	case On:
		return append(opts, "with "+name)
	case Off:
		return append(opts, "without "+name)
	}
	return opts
}

// StopWords is a stop word set built from literal lists and files combined
// with union and except.
type StopWords struct {
	// Disabled is set by "without stop words".
	Disabled bool
	// Default is set by "with default stop words".
	Default bool
	words   map[string]struct{}
}

// NewStopWords returns an empty, enabled stop word set.
func NewStopWords() *StopWords {
	return &StopWords{words: map[string]struct{}{}}
}

// Add adds words to the set.
func (s *StopWords) Add(words ...string) {
	if s.words == nil {
		s.words = map[string]struct{}{}
	}
	for _, w := range words {
		s.words[w] = struct{}{}
	}
}

// Remove deletes words from the set.
func (s *StopWords) Remove(words ...string) {
	for _, w := range words {
		delete(s.words, w)
	}
}

// Contains reports whether w is a stop word.
func (s *StopWords) Contains(w string) bool {
	_, ok := s.words[w]
	return ok
}

// Words returns the sorted stop words.
func (s *StopWords) Words() []string {
	words := make([]string, 0, len(s.words))
	for w := range s.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func (s *StopWords) String() string {
	switch {
	case s.Disabled:
		return "without stop words"
	case s.Default && len(s.words) == 0:
		return "with default stop words"
	}
	quoted := make([]string, 0, len(s.words))
	for _, w := range s.Words() {
		quoted = append(quoted, `"`+w+`"`)
	}
	return "with stop words (" + strings.Join(quoted, ", ") + ")"
}
