package parser

import (
	"github.com/rs/zerolog"
	"github.com/xqgo/xquery/source"
)

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in positions and errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithLogger sets the logger used for module loading and stop word
// resolution. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithModuleResolver sets the provider used to load imported modules.
// Without one, module imports fail with XQST0059.
func WithModuleResolver(r source.ModuleResolver) Option {
	return func(p *Parser) {
		p.modules = r
	}
}

// WithStopWords sets the provider used to load stop word lists given with
// "stop words at".
func WithStopWords(r source.StopWordResolver) Option {
	return func(p *Parser) {
		p.stopWords = r
	}
}

// WithHooks installs location path hooks, typically a completion engine.
func WithHooks(h Hooks) Option {
	return func(p *Parser) {
		if h != nil {
			p.hooks = h
		}
	}
}

// WithBoundarySpace sets the initial boundary-space policy. When preserve is
// true, whitespace-only text in direct element content is kept. A
// "declare boundary-space" in the prolog overrides it.
func WithBoundarySpace(preserve bool) Option {
	return func(p *Parser) {
		p.preserveSpace = preserve
	}
}
