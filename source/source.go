// Package source provides the external resources a query may pull in while
// it is parsed: library modules named by "import module" and stop word
// lists named by "stop words at".
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no candidate location exists for a module or
// stop word list.
var ErrNotFound = errors.New("not found")

// Module is the source text of a library module.
type Module struct {
	// URI is the target namespace that was requested.
	URI string
	// Location identifies where the text was read from. The parser uses it
	// to skip modules that were already loaded and to detect import cycles.
	Location string
	Text     string
}

// ModuleResolver loads library modules. Implementations must be safe for
// concurrent use.
type ModuleResolver interface {
	ResolveModule(ctx context.Context, uri string, hints []string) (Module, error)
}

// StopWordResolver loads stop word lists. The returned text is split on
// whitespace by the parser.
type StopWordResolver interface {
	ResolveStopWords(ctx context.Context, location string) (string, error)
}

// FileResolver reads modules and stop word lists from a directory tree.
// Location hints are resolved relative to Root. Imports without hints are
// looked up in Catalog, which maps namespace URIs to paths.
type FileResolver struct {
	Root    string
	Catalog map[string]string
	Log     zerolog.Logger
}

// NewFileResolver returns a resolver rooted at dir.
func NewFileResolver(dir string, opts ...FileOption) *FileResolver {
	r := &FileResolver{Root: dir, Catalog: map[string]string{}, Log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FileOption configures a FileResolver.
type FileOption func(*FileResolver)

// WithCatalog adds a namespace URI to path mapping.
func WithCatalog(uri, path string) FileOption {
	return func(r *FileResolver) {
		r.Catalog[uri] = path
	}
}

// WithLogger sets the resolver's logger.
func WithLogger(log zerolog.Logger) FileOption {
	return func(r *FileResolver) {
		r.Log = log
	}
}

func (r *FileResolver) path(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(r.Root, filepath.FromSlash(name))
}

// ResolveModule tries each location hint in order and returns the first
// readable file. If every hint fails, the individual failures are returned
// together.
func (r *FileResolver) ResolveModule(ctx context.Context, uri string, hints []string) (Module, error) {
	candidates := hints
	if len(candidates) == 0 {
		if p, ok := r.Catalog[uri]; ok {
			candidates = []string{p}
		}
	}
	if len(candidates) == 0 {
		return Module{}, fmt.Errorf("module %q: %w", uri, ErrNotFound)
	}
	var result *multierror.Error
	for _, hint := range candidates {
		if err := ctx.Err(); err != nil {
			return Module{}, err
		}
		path := r.path(hint)
		data, err := os.ReadFile(path)
		if err != nil {
			r.Log.Debug().Str("uri", uri).Str("location", path).Err(err).Msg("module hint failed")
			result = multierror.Append(result, err)
			continue
		}
		r.Log.Debug().Str("uri", uri).Str("location", path).Msg("module loaded")
		return Module{URI: uri, Location: path, Text: string(data)}, nil
	}
	return Module{}, result.ErrorOrNil()
}

// ResolveStopWords reads a stop word file.
func (r *FileResolver) ResolveStopWords(ctx context.Context, location string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := r.path(location)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	r.Log.Debug().Str("location", path).Msg("stop words loaded")
	return string(data), nil
}

// Map serves modules and stop word lists from memory. Keys are location
// hints or namespace URIs; hints are tried first.
type Map map[string]string

// ResolveModule implements ModuleResolver.
func (m Map) ResolveModule(_ context.Context, uri string, hints []string) (Module, error) {
	for _, key := range append(append([]string(nil), hints...), uri) {
		if text, ok := m[key]; ok {
			return Module{URI: uri, Location: key, Text: text}, nil
		}
	}
	return Module{}, fmt.Errorf("module %q: %w", uri, ErrNotFound)
}

// ResolveStopWords implements StopWordResolver.
func (m Map) ResolveStopWords(_ context.Context, location string) (string, error) {
	if text, ok := m[location]; ok {
		return text, nil
	}
	return "", fmt.Errorf("stop words %q: %w", location, ErrNotFound)
}

// Words splits a stop word list into words.
func Words(text string) []string {
	return strings.Fields(text)
}
