package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xqgo/xquery/parser"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestASTText(t *testing.T) {
	mod, err := parser.Parse(context.Background(), "1 + 2 * 3")
	require.NoError(t, err)

	out, _, err := run(t, "", "ast", "-c", "1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, mod.String()+"\n", out)

	out, _, err = run(t, "1 + 2 * 3", "ast")
	require.NoError(t, err)
	assert.Equal(t, mod.String()+"\n", out)
}

func TestASTJSON(t *testing.T) {
	out, _, err := run(t, "", "ast", "-c", "(1, 2)", "-o", "json")
	require.NoError(t, err)
	var node ASTNode
	require.NoError(t, json.Unmarshal([]byte(out), &node))
	assert.Equal(t, "Module", node.Type)
	require.Len(t, node.Children, 1)
	seq := node.Children[0]
	assert.Equal(t, "Sequence", seq.Type)
	assert.Equal(t, "1:2", seq.Pos)
	require.Len(t, seq.Children, 2)
	assert.Equal(t, "IntegerLiteral", seq.Children[1].Type)
	assert.Equal(t, "2", seq.Children[1].Value)
}

func TestASTSummary(t *testing.T) {
	out, _, err := run(t, "", "ast", "-c", "(1, 2)", "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "IntegerLiteral 2\n")
	assert.Contains(t, out, "Sequence       1\n")

	out, _, err = run(t, "", "ast", "-c", "(1, 2)", "--summary", "-o", "json")
	require.NoError(t, err)
	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	assert.Equal(t, map[string]int{"Module": 1, "Sequence": 1, "IntegerLiteral": 2}, counts)
}

func TestASTErrors(t *testing.T) {
	_, errOut, err := run(t, "", "ast", "-c", "1 +")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "XPST0003")
	assert.Contains(t, errOut, "incomplete expression")

	dir := t.TempDir()
	path := writeFile(t, dir, "bad.xq", "for $x in 1 retrn $x")
	_, errOut, err = run(t, "", "ast", path)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "bad.xq")
	assert.Contains(t, errOut, "Did you mean 'return'?")

	_, _, err = run(t, "", "ast", "-c", "1", path)
	assert.EqualError(t, err, "multiple input sources specified")

	_, _, err = run(t, "", "ast", "-c", "1", "-o", "yaml")
	assert.EqualError(t, err, "unknown output format: yaml")

	_, _, err = run(t, "", "--log-level", "loud", "ast", "-c", "1")
	assert.EqualError(t, err, `invalid log level "loud"`)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.xq", "<a>{1}</a>")
	bad := writeFile(t, dir, "bad.xq", "<a></b>")
	missing := filepath.Join(dir, "missing.xq")

	out, errOut, err := run(t, "", "check", good)
	require.NoError(t, err)
	assert.Equal(t, "ok "+good+"\n", out)
	assert.Empty(t, errOut)

	out, errOut, err = run(t, "", "check", good, bad, missing)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "ok "+good)
	assert.Contains(t, errOut, "XQST0118")
	assert.Contains(t, errOut, missing+": ")
	assert.Contains(t, errOut, "2 of 3 file(s) failed")

	_, _, err = run(t, "", "check")
	assert.Error(t, err)
}

func TestCheckSyntaxRestrictions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ft.xq", `<a>{ "x" ftcontains "a" }</a>`)

	_, _, err := run(t, "", "check", path)
	require.NoError(t, err)

	_, errOut, err := run(t, "", "check", "--deny", "fulltext", path)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, path+": full-text search is not allowed at "+path+":1:6")

	_, errOut, err = run(t, "", "check", "--preset", "path-only", path)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "2 validation errors:")

	_, _, err = run(t, "", "check", "--preset", "strict", path)
	assert.EqualError(t, err, `unknown syntax preset "strict"`)

	_, _, err = run(t, "", "check", "--deny", "loops", path)
	assert.ErrorContains(t, err, `unknown syntax feature "loops"`)
}

func TestCheckModuleImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.xq", `module namespace m = "urn:m"; declare function m:f() { 1 };`)
	hinted := writeFile(t, dir, "hinted.xq", `import module namespace m = "urn:m" at "lib.xq"; m:f()`)
	unhinted := writeFile(t, dir, "unhinted.xq", `import module namespace m = "urn:m"; m:f()`)

	_, _, err := run(t, "", "check", "--module-dir", dir, hinted)
	require.NoError(t, err)

	_, errOut, err := run(t, "", "check", "--module-dir", dir, unhinted)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "XQST0059")

	_, _, err = run(t, "", "check", "--module-dir", dir, "--catalog", "urn:m=lib.xq", unhinted)
	require.NoError(t, err)

	_, errOut, err = run(t, "", "check", "--catalog", "urn:m", unhinted)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, `invalid catalog entry "urn:m" (expected uri=path)`)

	t.Setenv("XQPARSE_MODULE_DIR", dir)
	_, _, err = run(t, "", "check", hinted)
	require.NoError(t, err)
}

func TestComplete(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "catalog.xml",
		`<catalog><book id="1"><title>T</title></book><magazine/></catalog>`)

	out, _, err := run(t, "", "complete", "-c", "/catalog/b", "--xml", doc)
	require.NoError(t, err)
	assert.Equal(t, "book\n", out)

	out, _, err = run(t, "", "complete", "-c", "/catalog/", "--xml", doc)
	require.NoError(t, err)
	assert.Equal(t, "book\nmagazine\n", out)

	out, _, err = run(t, "", "complete", "-c", "/catalog/book/@", "--xml", doc, "--lsp")
	require.NoError(t, err)
	var list struct {
		Items []struct {
			Label  string `json:"label"`
			Detail string `json:"detail"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "@id", list.Items[0].Label)
	assert.Equal(t, "attribute", list.Items[0].Detail)

	_, _, err = run(t, "", "complete", "-c", "/a")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--no-color", "complete", "-c", "/catalog/b", "--xml", doc})
	require.NoError(t, root.ExecuteContext(ctx))
	assert.Empty(t, buf.String())

	bad := writeFile(t, dir, "bad.xml", "<a><b></a>")
	_, _, err = run(t, "", "complete", "-c", "/a", "--xml", bad)
	assert.ErrorContains(t, err, "bad.xml")
}
