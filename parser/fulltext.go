package parser

import (
	"fmt"

	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/source"
)

// ftSelection parses "FTOr FTPosFilter* ("weight" RangeExpr)?". Position
// filters and weights wrap the selection in an FTSelection.
func (p *Parser) ftSelection() (ast.FTExpr, error) {
	x, err := p.ftOr()
	if err != nil || x == nil {
		return nil, err
	}
	sel := &ast.FTSelection{X: x}
	filtered := false
	for {
		ok, err := p.ftPosFilter(sel)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		filtered = true
	}
	if p.consume("weight") {
		if p.nextIs('{') {
			sel.Weight, err = p.enclosed(false)
		} else if sel.Weight, err = p.rangeExpr(); err == nil && sel.Weight == nil {
			err = p.incomplete()
		}
		if err != nil {
			return nil, err
		}
		filtered = true
	}
	if !filtered {
		return x, nil
	}
	return sel, nil
}

// ftOr parses "FTAnd ("ftor" FTAnd)*".
func (p *Parser) ftOr() (ast.FTExpr, error) {
	operands, err := p.ftChain(p.ftAnd, "ftor")
	if err != nil || len(operands) < 2 {
		return first(operands), err
	}
	return &ast.FTOr{Operands: operands}, nil
}

// ftAnd parses "FTMildNot ("ftand" FTMildNot)*".
func (p *Parser) ftAnd() (ast.FTExpr, error) {
	operands, err := p.ftChain(p.ftMildNot, "ftand")
	if err != nil || len(operands) < 2 {
		return first(operands), err
	}
	return &ast.FTAnd{Operands: operands}, nil
}

// ftMildNot parses "FTUnaryNot ("not" "in" FTUnaryNot)*".
func (p *Parser) ftMildNot() (ast.FTExpr, error) {
	operands, err := p.ftChain(p.ftUnaryNot, "not", "in")
	if err != nil || len(operands) < 2 {
		return first(operands), err
	}
	return &ast.FTMildNot{Operands: operands}, nil
}

func first(operands []ast.FTExpr) ast.FTExpr {
	if len(operands) == 0 {
		return nil
	}
	return operands[0]
}

// ftChain parses operands of next separated by the keyword sequence op.
func (p *Parser) ftChain(next func() (ast.FTExpr, error), op ...string) ([]ast.FTExpr, error) {
	x, err := next()
	if err != nil || x == nil {
		return nil, err
	}
	operands := []ast.FTExpr{x}
	for p.consumeSeq(op...) {
		y, err := next()
		if err != nil {
			return nil, err
		}
		if y == nil {
			return nil, p.ftIncomplete()
		}
		operands = append(operands, y)
	}
	return operands, nil
}

func (p *Parser) ftIncomplete() error {
	return p.expected("full-text selection")
}

// ftUnaryNot parses ""ftnot"? FTPrimaryWithOptions".
func (p *Parser) ftUnaryNot() (ast.FTExpr, error) {
	pos := p.here()
	if !p.consume("ftnot") {
		return p.ftPrimaryWithOptions()
	}
	x, err := p.ftPrimaryWithOptions()
	if err != nil {
		return nil, err
	}
	if x == nil {
		return nil, p.ftIncomplete()
	}
	return &ast.FTNot{Ftnot: pos, X: x}, nil
}

// ftPrimaryWithOptions parses "FTPrimary FTMatchOptions?". Options declared
// with "declare ft-option" fill in whatever the list leaves unset.
func (p *Parser) ftPrimaryWithOptions() (ast.FTExpr, error) {
	x, err := p.ftPrimary()
	if err != nil || x == nil {
		return nil, err
	}
	opts := &ast.FTOptions{}
	if _, err := p.ftMatchOptions(opts); err != nil {
		return nil, err
	}
	opts.Inherit(p.ftDefaults)
	if opts.Empty() {
		return x, nil
	}
	return &ast.FTWithOptions{X: x, Options: opts}, nil
}

// ftPrimary parses "(FTWords FTTimes?) | ("(" FTSelection ")") |
// FTExtensionSelection".
func (p *Parser) ftPrimary() (ast.FTExpr, error) {
	p.ws()
	switch {
	case p.cur.HasPrefix("(#"):
		return p.ftExtension()
	case p.cur.Peek() == '(':
		p.cur.Advance()
		x, err := p.ftSelection()
		if err != nil {
			return nil, err
		}
		if x == nil {
			return nil, p.ftIncomplete()
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return x, nil
	}
	return p.ftWords()
}

// ftWords parses "FTWordsValue FTAnyallOption? FTTimes?".
func (p *Parser) ftWords() (ast.FTExpr, error) {
	p.ws()
	start := p.cur.Pos()
	var value ast.Expr
	switch {
	case p.cur.Peek() == '{':
		e, err := p.enclosed(false)
		if err != nil {
			return nil, err
		}
		value = e
	default:
		s, ok, err := p.stringLiteral()
		if err != nil || !ok {
			return nil, err
		}
		value = &ast.StringLiteral{ValuePos: p.posAt(start), Value: s}
	}
	w := &ast.FTWords{Value: value}
	switch {
	case p.consumePair("any", "word"):
		w.Mode = ast.FTAnyWord
	case p.consume("any"):
		w.Mode = ast.FTAny
	case p.consumePair("all", "words"):
		w.Mode = ast.FTAllWords
	case p.consume("all"):
		w.Mode = ast.FTAll
	case p.consume("phrase"):
		w.Mode = ast.FTPhrase
	}
	if p.consume("occurs") {
		r, err := p.ftRange()
		if err != nil {
			return nil, err
		}
		if err := p.expect("times"); err != nil {
			return nil, err
		}
		w.Occurs = r
	}
	return w, nil
}

// ftRange parses "exactly N | at least N | at most N | from N to M".
func (p *Parser) ftRange() (*ast.FTRange, error) {
	bound := func() (ast.Expr, error) {
		e, err := p.additive()
		if err == nil && e == nil {
			err = p.incomplete()
		}
		return e, err
	}
	r := &ast.FTRange{}
	var err error
	switch {
	case p.consume("exactly"):
		if r.Min, err = bound(); err != nil {
			return nil, err
		}
		r.Max = r.Min
	case p.consumePair("at", "least"):
		if r.Min, err = bound(); err != nil {
			return nil, err
		}
	case p.consumePair("at", "most"):
		if r.Max, err = bound(); err != nil {
			return nil, err
		}
	case p.consume("from"):
		if r.Min, err = bound(); err != nil {
			return nil, err
		}
		if err := p.expect("to"); err != nil {
			return nil, err
		}
		if r.Max, err = bound(); err != nil {
			return nil, err
		}
	default:
		return nil, p.expected("range", "exactly", "at", "from")
	}
	return r, nil
}

// ftExtension parses "Pragma+ { FTSelection }".
func (p *Parser) ftExtension() (ast.FTExpr, error) {
	pos := p.here()
	pragmas, err := p.pragmas()
	if err != nil {
		return nil, err
	}
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	x, err := p.ftSelection()
	if err != nil {
		return nil, err
	}
	if x == nil {
		return nil, p.errorf(errors.XQST0079, errors.Grammar, "full-text extension selection has no fallback selection")
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return &ast.FTExtension{Lpragma: pos, Pragmas: pragmas, X: x}, nil
}

// ftPosFilter parses one position filter into sel.
func (p *Parser) ftPosFilter(sel *ast.FTSelection) (bool, error) {
	var err error
	switch {
	case p.consume("ordered"):
		sel.Ordered = true
	case p.consume("window"):
		if sel.Window, err = p.additive(); err == nil && sel.Window == nil {
			err = p.incomplete()
		}
		if err == nil {
			sel.WindowUnit, err = p.ftUnit()
		}
	case p.consume("distance"):
		if sel.Distance, err = p.ftRange(); err == nil {
			sel.DistanceUnit, err = p.ftUnit()
		}
	case p.consumePair("at", "start"):
		sel.Content = ast.FTAtStart
	case p.consumePair("at", "end"):
		sel.Content = ast.FTAtEnd
	case p.consumePair("entire", "content"):
		sel.Content = ast.FTEntireContent
	case p.consumePair("same", "sentence"):
		sel.Scope = &ast.FTScope{Same: true, Unit: ast.FTSentence}
	case p.consumePair("same", "paragraph"):
		sel.Scope = &ast.FTScope{Same: true, Unit: ast.FTParagraph}
	case p.consumePair("different", "sentence"):
		sel.Scope = &ast.FTScope{Unit: ast.FTSentence}
	case p.consumePair("different", "paragraph"):
		sel.Scope = &ast.FTScope{Unit: ast.FTParagraph}
	default:
		return false, nil
	}
	return true, err
}

func (p *Parser) ftUnit() (ast.FTUnit, error) {
	switch {
	case p.consume("words"):
		return ast.FTWordUnit, nil
	case p.consume("sentences"):
		return ast.FTSentence, nil
	case p.consume("paragraphs"):
		return ast.FTParagraph, nil
	}
	return 0, p.expected("unit", "words", "sentences", "paragraphs")
}

// ftMatchOptions parses match options into opts and returns how many were
// found. Each option may be introduced by "using".
func (p *Parser) ftMatchOptions(opts *ast.FTOptions) (int, error) {
	n := 0
	for {
		mark := p.cur.Mark()
		using := p.consume("using")
		ok, err := p.ftMatchOption(opts)
		if err != nil {
			return n, err
		}
		if !ok {
			if using {
				return n, p.expected("match option")
			}
			p.cur.Reset(mark)
			return n, nil
		}
		n++
	}
}

// ftMatchOption parses one match option. Conflicting options in the same
// list fail with FTST0019.
func (p *Parser) ftMatchOption(opts *ast.FTOptions) (bool, error) {
	start := p.here().Char
	conflict := func(err error) error {
		if err == nil {
			return nil
		}
		return p.newError(start, errors.FTST0019, errors.Grammar, err.Error(), err)
	}
	switch {
	case p.consumePair("case", "insensitive"):
		return true, conflict(opts.SetCase(ast.CaseInsensitive))
	case p.consumePair("case", "sensitive"):
		return true, conflict(opts.SetCase(ast.CaseSensitive))
	case p.consume("lowercase"):
		return true, conflict(opts.SetCase(ast.CaseLower))
	case p.consume("uppercase"):
		return true, conflict(opts.SetCase(ast.CaseUpper))
	case p.consumePair("diacritics", "insensitive"):
		return true, conflict(opts.SetDiacritics(false))
	case p.consumePair("diacritics", "sensitive"):
		return true, conflict(opts.SetDiacritics(true))
	case p.consumePair("with", "stemming"), p.consume("stemming"):
		opts.SetStemming(true)
	case p.consumePair("without", "stemming"), p.consumePair("no", "stemming"):
		opts.SetStemming(false)
	case p.consumePair("with", "wildcards"), p.consume("wildcards"):
		return true, conflict(opts.SetWildcards(true))
	case p.consumePair("without", "wildcards"), p.consumePair("no", "wildcards"):
		return true, conflict(opts.SetWildcards(false))
	case p.consumePair("with", "fuzzy"), p.consume("fuzzy"):
		return true, conflict(opts.SetFuzzy(true))
	case p.consumePair("without", "fuzzy"), p.consumePair("no", "fuzzy"):
		return true, conflict(opts.SetFuzzy(false))
	case p.consumePair("with", "thesaurus"), p.consumePair("thesaurus", "at"),
		p.consumePair("thesaurus", "("), p.consumePair("thesaurus", "default"):
		return true, p.unsupported(start, errors.FTST0018, "thesaurus option")
	case p.consumePair("without", "thesaurus"), p.consumePair("no", "thesaurus"):
		opts.Thesaurus = ast.Off
	case p.consume("language"):
		langStart := p.here().Char
		lang, err := p.uriLiteral()
		if err != nil {
			return true, err
		}
		if lang != "en" {
			return true, p.errorAt(langStart, errors.FTST0009, errors.Unsupported, "language %q is not supported", lang)
		}
		opts.Language = lang
	case p.consumeSeq("without", "stop", "words"), p.consumeSeq("no", "stop", "words"):
		opts.StopWords = &ast.StopWords{Disabled: true}
	case p.consumeSeq("with", "default", "stop", "words"), p.consumeSeq("stop", "words", "default"):
		sw := p.stopWordSet(opts)
		sw.Default = true
		return true, p.stopWordsInclExcl(sw)
	case p.consumeSeq("with", "stop", "words"), p.consumePair("stop", "words"):
		sw := p.stopWordSet(opts)
		words, err := p.stopWordList()
		if err != nil {
			return true, err
		}
		sw.Add(words...)
		return true, p.stopWordsInclExcl(sw)
	default:
		return false, nil
	}
	return true, nil
}

// stopWordSet returns the list's stop words, starting a new set if the list
// has none or had disabled them. Repeated stop word options are merged.
func (p *Parser) stopWordSet(opts *ast.FTOptions) *ast.StopWords {
	if opts.StopWords == nil || opts.StopWords.Disabled {
		opts.StopWords = ast.NewStopWords()
	}
	return opts.StopWords
}

// stopWordsInclExcl parses "(("union" | "except") FTStopWords)*".
func (p *Parser) stopWordsInclExcl(sw *ast.StopWords) error {
	for {
		var except bool
		switch {
		case p.consume("union"):
		case p.consume("except"):
			except = true
		default:
			return nil
		}
		if !p.consumeSeq("with", "stop", "words") {
			p.consumePair("stop", "words")
		}
		words, err := p.stopWordList()
		if err != nil {
			return err
		}
		if except {
			sw.Remove(words...)
		} else {
			sw.Add(words...)
		}
	}
}

// stopWordList parses "("at" URILiteral) | ("(" StringLiteral ("," StringLiteral)* ")")".
func (p *Parser) stopWordList() ([]string, error) {
	if p.consume("at") {
		start := p.here().Char
		uri, err := p.uriLiteral()
		if err != nil {
			return nil, err
		}
		return p.loadStopWords(uri, start)
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var words []string
	for {
		w, err := p.uriLiteral()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
		if !p.consume(",") {
			break
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return words, nil
}

func (p *Parser) loadStopWords(uri string, offset int) ([]string, error) {
	if p.stopWords == nil {
		return nil, p.errorAt(offset, errors.FTST0008, errors.Resource, "cannot load stop words %q: no stop word resolver", uri)
	}
	text, err := p.stopWords.ResolveStopWords(p.ctx, uri)
	if err != nil {
		return nil, p.newError(offset, errors.FTST0008, errors.Resource,
			fmt.Sprintf("cannot load stop words %q: %v", uri, err), err)
	}
	words := source.Words(text)
	p.log.Debug().Str("location", uri).Int("words", len(words)).Msg("loaded stop words")
	return words, nil
}
