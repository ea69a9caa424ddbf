package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xqgo/xquery/ast"
	xqerrors "github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/source"
)

func parseSelection(t *testing.T, query string, opts ...Option) ast.FTExpr {
	t.Helper()
	ft, ok := parseBody(t, query, opts...).(*ast.FTContains)
	require.True(t, ok, query)
	return ft.Selection
}

func TestFTContains(t *testing.T) {
	words, ok := parseSelection(t, `"x" ftcontains "a"`).(*ast.FTWords)
	require.True(t, ok)
	assert.Equal(t, ast.FTAny, words.Mode)

	_, ok = parseSelection(t, `"x" contains text "a"`).(*ast.FTWords)
	assert.True(t, ok)

	and, ok := parseSelection(t, `"x" ftcontains "a" ftand "b" ftand "c"`).(*ast.FTAnd)
	require.True(t, ok)
	assert.Len(t, and.Operands, 3)

	or, ok := parseSelection(t, `"x" ftcontains "a" ftor "b" ftand "c"`).(*ast.FTOr)
	require.True(t, ok)
	require.Len(t, or.Operands, 2)
	_, ok = or.Operands[1].(*ast.FTAnd)
	assert.True(t, ok)

	mild, ok := parseSelection(t, `"x" ftcontains ("a" ftor "b") not in "c"`).(*ast.FTMildNot)
	require.True(t, ok)
	_, ok = mild.Operands[0].(*ast.FTOr)
	assert.True(t, ok)

	not, ok := parseSelection(t, `"x" ftcontains ftnot "a"`).(*ast.FTNot)
	require.True(t, ok)
	_, ok = not.X.(*ast.FTWords)
	assert.True(t, ok)

	words, ok = parseSelection(t, `"x" ftcontains {("a", "b")} all`).(*ast.FTWords)
	require.True(t, ok)
	assert.Equal(t, ast.FTAll, words.Mode)
	_, ok = words.Value.(*ast.Sequence)
	assert.True(t, ok)

	ext, ok := parseSelection(t, `"x" ftcontains (# xs:p #) { "a" }`).(*ast.FTExtension)
	require.True(t, ok)
	assert.Len(t, ext.Pragmas, 1)
}

func TestFTWordsModes(t *testing.T) {
	tests := []struct {
		input string
		mode  ast.FTMode
	}{
		{`"x" ftcontains "a b" any word`, ast.FTAnyWord},
		{`"x" ftcontains "a b" all words`, ast.FTAllWords},
		{`"x" ftcontains "a b" phrase`, ast.FTPhrase},
		{`"x" ftcontains "a b" any`, ast.FTAny},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			words, ok := parseSelection(t, tt.input).(*ast.FTWords)
			require.True(t, ok)
			assert.Equal(t, tt.mode, words.Mode)
		})
	}
}

func TestFTRanges(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"x" ftcontains "a" occurs exactly 2 times`, "exactly 2"},
		{`"x" ftcontains "a" occurs at least 2 times`, "at least 2"},
		{`"x" ftcontains "a" occurs at most 2 times`, "at most 2"},
		{`"x" ftcontains "a" occurs from 1 to 3 times`, "from 1 to 3"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			words, ok := parseSelection(t, tt.input).(*ast.FTWords)
			require.True(t, ok)
			require.NotNil(t, words.Occurs)
			assert.Equal(t, tt.expected, words.Occurs.String())
		})
	}

	e := parseErr(t, `"x" ftcontains "a" occurs twice times`)
	assert.Equal(t, xqerrors.XPST0003, e.Code)
	e = parseErr(t, `"x" ftcontains "a" occurs exactly 2`)
	assert.Equal(t, `expecting "times", found end of input`, e.Message)
}

func TestFTPositionFilters(t *testing.T) {
	sel, ok := parseSelection(t, `"x" ftcontains "a" ftand "b" ordered window 5 words`).(*ast.FTSelection)
	require.True(t, ok)
	assert.True(t, sel.Ordered)
	assert.Equal(t, "5", sel.Window.String())
	assert.Equal(t, ast.FTWordUnit, sel.WindowUnit)
	_, ok = sel.X.(*ast.FTAnd)
	assert.True(t, ok)

	sel, ok = parseSelection(t, `"x" ftcontains "a" distance exactly 2 sentences`).(*ast.FTSelection)
	require.True(t, ok)
	assert.Equal(t, "exactly 2", sel.Distance.String())
	assert.Equal(t, ast.FTSentence, sel.DistanceUnit)

	sel, ok = parseSelection(t, `"x" ftcontains "a" same paragraph at start`).(*ast.FTSelection)
	require.True(t, ok)
	require.NotNil(t, sel.Scope)
	assert.True(t, sel.Scope.Same)
	assert.Equal(t, ast.FTParagraph, sel.Scope.Unit)
	assert.Equal(t, ast.FTAtStart, sel.Content)

	sel, ok = parseSelection(t, `"x" ftcontains "a" entire content weight 0.5`).(*ast.FTSelection)
	require.True(t, ok)
	assert.Equal(t, ast.FTEntireContent, sel.Content)
	assert.Equal(t, "0.5", sel.Weight.String())

	e := parseErr(t, `"x" ftcontains "a" window 5 word`)
	assert.Equal(t, "Did you mean 'words'?", e.Hint)
}

func TestFTMatchOptions(t *testing.T) {
	with, ok := parseSelection(t, `"x" ftcontains "a" using case insensitive using diacritics sensitive with stemming language "en"`).(*ast.FTWithOptions)
	require.True(t, ok)
	o := with.Options
	assert.Equal(t, ast.CaseInsensitive, o.Case)
	assert.Equal(t, ast.On, o.Diacritics)
	assert.Equal(t, ast.On, o.Stemming)
	assert.Equal(t, "en", o.Language)

	with, ok = parseSelection(t, `"x" ftcontains "a" lowercase without wildcards no thesaurus`).(*ast.FTWithOptions)
	require.True(t, ok)
	assert.Equal(t, ast.CaseLower, with.Options.Case)
	assert.Equal(t, ast.Off, with.Options.Wildcards)
	assert.Equal(t, ast.Off, with.Options.Thesaurus)

	with, ok = parseSelection(t, `"x" ftcontains "a" without stop words`).(*ast.FTWithOptions)
	require.True(t, ok)
	assert.True(t, with.Options.StopWords.Disabled)
}

func TestFTMatchOptionErrors(t *testing.T) {
	tests := []struct {
		input string
		code  xqerrors.ErrorCode
	}{
		{`"x" ftcontains "a" with wildcards with fuzzy`, xqerrors.FTST0019},
		{`"x" ftcontains "a" fuzzy wildcards`, xqerrors.FTST0019},
		{`"x" ftcontains "a" case sensitive lowercase`, xqerrors.FTST0019},
		{`"x" ftcontains "a" diacritics sensitive diacritics insensitive`, xqerrors.FTST0019},
		{`"x" ftcontains "a" with thesaurus at "t"`, xqerrors.FTST0018},
		{`"x" ftcontains "a" language "de"`, xqerrors.FTST0009},
		{`"x" ftcontains "a" using`, xqerrors.XPST0003},
		{`"x" ftcontains "a" without content`, xqerrors.XQP0001},
		{`"x" ftcontains`, xqerrors.XPST0003},
		{`"x" ftcontains "a" ftand`, xqerrors.XPST0003},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.code, parseErr(t, tt.input).Code)
		})
	}

	e := parseErr(t, `"x" ftcontains "a" with wildcards with fuzzy`)
	assert.Equal(t, "fuzzy cannot be combined with wildcards", e.Message)
	var optErr *ast.OptionError
	assert.ErrorAs(t, e, &optErr)
}

func TestFTStopWords(t *testing.T) {
	with, ok := parseSelection(t, `"x" ftcontains "a" with stop words ("a") union ("b")`).(*ast.FTWithOptions)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, with.Options.StopWords.Words())

	with, ok = parseSelection(t, `"x" ftcontains "a" stop words ("a", "b") stop words ("c") except ("a")`).(*ast.FTWithOptions)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, with.Options.StopWords.Words())

	with, ok = parseSelection(t, `"x" ftcontains "a" with default stop words union stop words ("z")`).(*ast.FTWithOptions)
	require.True(t, ok)
	assert.True(t, with.Options.StopWords.Default)
	assert.Equal(t, []string{"z"}, with.Options.StopWords.Words())

	lists := source.Map{"stop.txt": "the an\na"}
	with, ok = parseSelection(t, `"x" ftcontains "a" with stop words at "stop.txt" except ("an")`, WithStopWords(lists)).(*ast.FTWithOptions)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "the"}, with.Options.StopWords.Words())

	e := parseErr(t, `"x" ftcontains "a" with stop words at "stop.txt"`)
	assert.Equal(t, xqerrors.FTST0008, e.Code)
	e = parseErr(t, `"x" ftcontains "a" with stop words at "missing.txt"`, WithStopWords(lists))
	assert.Equal(t, xqerrors.FTST0008, e.Code)
	assert.ErrorIs(t, e, source.ErrNotFound)
}

func TestFTOptionDecl(t *testing.T) {
	with, ok := parseSelection(t, `declare ft-option using stemming; "x" ftcontains "a"`).(*ast.FTWithOptions)
	require.True(t, ok)
	assert.Equal(t, ast.On, with.Options.Stemming)

	with, ok = parseSelection(t, `declare ft-option using wildcards; "x" ftcontains "a" using fuzzy`).(*ast.FTWithOptions)
	require.True(t, ok)
	assert.Equal(t, ast.On, with.Options.Fuzzy)
	assert.Equal(t, ast.Unset, with.Options.Wildcards)

	assert.Equal(t, xqerrors.XPST0003, parseErr(t, `declare ft-option; 1`).Code)
}
