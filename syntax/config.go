// Package syntax restricts the language features a parsed XQuery module may
// use. Hosts that accept queries from users can reject modules that construct
// nodes, import code or use full-text search without evaluating them.
package syntax

import (
	"fmt"
	"sort"
	"strings"
)

// SyntaxConfig controls which language features are allowed. The zero value
// allows everything.
type SyntaxConfig struct {
	// Prolog
	DisallowImports      bool // import module
	DisallowFunctionDecl bool // declare function
	DisallowVariableDecl bool // declare variable

	// Expressions
	DisallowFLWOR        bool // for, let, where, order by
	DisallowConstructors bool // direct and computed node constructors
	DisallowTryCatch     bool // try { } catch
	DisallowTypeSwitch   bool // typeswitch

	// Extensions
	DisallowFullText   bool // ftcontains and full-text options
	DisallowExtensions bool // pragmas and option declarations
}

// Presets for common use cases.
var (
	// PathOnly restricts modules to XPath-style expressions: paths,
	// operators, comparisons, conditionals and function calls.
	PathOnly = SyntaxConfig{
		DisallowImports:      true,
		DisallowFunctionDecl: true,
		DisallowVariableDecl: true,
		DisallowConstructors: true,
		DisallowTryCatch:     true,
		DisallowTypeSwitch:   true,
		DisallowFullText:     true,
		DisallowExtensions:   true,
	}

	// Sandboxed allows the whole language except what reaches outside the
	// query: module imports and implementation-defined extensions.
	Sandboxed = SyntaxConfig{
		DisallowImports:    true,
		DisallowExtensions: true,
	}

	// FullLanguage allows all features (zero value, default behavior).
	FullLanguage = SyntaxConfig{}
)

var presets = map[string]SyntaxConfig{
	"path-only": PathOnly,
	"sandboxed": Sandboxed,
	"full":      FullLanguage,
}

var features = map[string]func(*SyntaxConfig){
	"imports":      func(c *SyntaxConfig) { c.DisallowImports = true },
	"functions":    func(c *SyntaxConfig) { c.DisallowFunctionDecl = true },
	"variables":    func(c *SyntaxConfig) { c.DisallowVariableDecl = true },
	"flwor":        func(c *SyntaxConfig) { c.DisallowFLWOR = true },
	"constructors": func(c *SyntaxConfig) { c.DisallowConstructors = true },
	"try-catch":    func(c *SyntaxConfig) { c.DisallowTryCatch = true },
	"typeswitch":   func(c *SyntaxConfig) { c.DisallowTypeSwitch = true },
	"fulltext":     func(c *SyntaxConfig) { c.DisallowFullText = true },
	"extensions":   func(c *SyntaxConfig) { c.DisallowExtensions = true },
}

// Preset returns the named preset: "path-only", "sandboxed" or "full".
func Preset(name string) (SyntaxConfig, bool) {
	c, ok := presets[name]
	return c, ok
}

// Features returns the names accepted by Deny, sorted.
func Features() []string {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Deny returns a copy of the configuration that also disallows the named
// features.
func (c SyntaxConfig) Deny(names ...string) (SyntaxConfig, error) {
	for _, name := range names {
		set, ok := features[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return c, fmt.Errorf("unknown syntax feature %q (expected one of: %s)",
				name, strings.Join(Features(), ", "))
		}
		set(&c)
	}
	return c, nil
}
