package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, text string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func TestFileResolverHints(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib/m.xq", `module namespace m = "urn:m";`)
	r := NewFileResolver(dir)

	mod, err := r.ResolveModule(context.Background(), "urn:m", []string{"missing.xq", "lib/m.xq"})
	require.NoError(t, err)
	assert.Equal(t, "urn:m", mod.URI)
	assert.Equal(t, filepath.Join(dir, "lib", "m.xq"), mod.Location)
	assert.Contains(t, mod.Text, "urn:m")
}

func TestFileResolverAllHintsFail(t *testing.T) {
	r := NewFileResolver(t.TempDir())
	_, err := r.ResolveModule(context.Background(), "urn:m", []string{"a.xq", "b.xq"})
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileResolverCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.xq", `module namespace m = "urn:m";`)
	r := NewFileResolver(dir, WithCatalog("urn:m", "m.xq"))

	mod, err := r.ResolveModule(context.Background(), "urn:m", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "m.xq"), mod.Location)

	_, err = r.ResolveModule(context.Background(), "urn:other", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileResolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewFileResolver(t.TempDir())
	_, err := r.ResolveModule(ctx, "urn:m", []string{"m.xq"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileResolverStopWords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stop.txt", "a an\nthe\n")
	r := NewFileResolver(dir)

	text, err := r.ResolveStopWords(context.Background(), "stop.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "an", "the"}, Words(text))

	_, err = r.ResolveStopWords(context.Background(), "nope.txt")
	assert.Error(t, err)
}

func TestMap(t *testing.T) {
	m := Map{
		"urn:m":    "by uri",
		"hint.xq":  "by hint",
		"stop.txt": "x y",
	}
	mod, err := m.ResolveModule(context.Background(), "urn:m", []string{"hint.xq"})
	require.NoError(t, err)
	assert.Equal(t, "by hint", mod.Text)
	assert.Equal(t, "hint.xq", mod.Location)

	mod, err = m.ResolveModule(context.Background(), "urn:m", nil)
	require.NoError(t, err)
	assert.Equal(t, "by uri", mod.Text)

	_, err = m.ResolveModule(context.Background(), "urn:x", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	words, err := m.ResolveStopWords(context.Background(), "stop.txt")
	require.NoError(t, err)
	assert.Equal(t, "x y", words)
}
