package suggest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xqerrors "github.com/xqgo/xquery/errors"
)

func catalog() *Summary {
	return NewSummary().
		Add("catalog", "book", "title", "").
		Add("catalog", "book", "@id").
		Add("catalog", "book", "price").
		Add("catalog", "magazine", "title")
}

func TestComplete(t *testing.T) {
	tests := []struct {
		query    string
		expected []string
	}{
		{"/catalog/b", []string{"book"}},
		{"/catalog/book/", []string{"title"}},
		{"/catalog/", []string{"book", "magazine"}},
		{"/c", []string{"catalog"}},
		{"//t", []string{"title"}},
		{"//book/p", []string{"price"}},
		{"/catalog/book/@", []string{"@id"}},
		{"/catalog/book/@i", []string{"@id"}},
		{"/catalog/book[p", []string{"price"}},
		{"/catalog/book[price]/t", []string{"title"}},
		{"/catalog/book/title", nil},
		{"/catalog/book/parent::", nil},
		{"/catalog/x", nil},
		{"/catalog/book[", []string{"price", "title"}},
		{"count(/catalog/m", []string{"magazine"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s := New(catalog())
			assert.Equal(t, tt.expected, s.Complete(context.Background(), tt.query))
		})
	}
}

func TestCompleteError(t *testing.T) {
	s := New(catalog())
	assert.Equal(t, []string{"book"}, s.Complete(context.Background(), "/catalog/b"))
	assert.Nil(t, s.Err())

	assert.Equal(t, []string{"title"}, s.Complete(context.Background(), "/catalog/book/"))
	err := s.Err()
	require.NotNil(t, err)
	assert.Equal(t, xqerrors.XPST0003, err.Code)
	assert.Equal(t, []string{"title"}, err.Suggestions)
	assert.Equal(t, "completions: title", err.ToFormatted().Note)

	// State does not leak into the next query.
	assert.Equal(t, []string{"catalog"}, s.Complete(context.Background(), "/ca"))
	assert.Nil(t, s.Err())
}

func TestCompleteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(catalog())
	assert.Nil(t, s.Complete(ctx, "/catalog/b"))
	assert.Nil(t, s.Err())
}

func TestCompleteLogsRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	s := New(catalog(), WithLogger(log))
	s.Complete(context.Background(), "/catalog/book/")
	assert.Contains(t, buf.String(), "recovered from parse error")
	assert.Contains(t, buf.String(), `"code":"XPST0003"`)
}

func TestFromXML(t *testing.T) {
	doc := `<?xml version="1.0"?>
<catalog xmlns="urn:c" xmlns:x="urn:x">
  <book id="1"><title>A</title></book>
  <book x:lang="en"><title/></book>
</catalog>`
	s, err := FromXML(strings.NewReader(doc))
	require.NoError(t, err)

	labels := func(nodes []PathNode) []string {
		var out []string
		for _, n := range nodes {
			out = append(out, s.Label(n))
		}
		return out
	}
	top := s.Descend(s.Root(), false)
	assert.Equal(t, []string{"catalog"}, labels(top))
	books := s.Descend(top, false)
	assert.Equal(t, []string{"book"}, labels(books))
	assert.Equal(t, 2, s.Count(books[0]))
	assert.Equal(t, []string{"@id", "title", "@lang"}, labels(s.Descend(books, false)))
	assert.Equal(t, []string{"catalog", "book", "@id", "title", "", "@lang"}, labels(s.Descend(s.Root(), true)))

	assert.Equal(t, []string{"@id", "@lang"}, New(s).Complete(context.Background(), "//book/@"))
}

func TestFromXMLErrors(t *testing.T) {
	for _, doc := range []string{"<a><b></a>", "<a>", "<a x=>"} {
		_, err := FromXML(strings.NewReader(doc))
		assert.Error(t, err, doc)
	}
}

func TestCompletionItems(t *testing.T) {
	items := CompletionItems([]string{"@id", "title"})
	require.Len(t, items, 2)
	assert.Equal(t, "@id", items[0].Label)
	assert.Equal(t, protocol.CompletionItemKind(10), items[0].Kind)
	assert.Equal(t, "attribute", items[0].Detail)
	assert.Equal(t, "title", items[1].InsertText)
	assert.Equal(t, protocol.CompletionItemKind(5), items[1].Kind)
	assert.Equal(t, "0001", items[1].SortText)

	list := New(catalog()).CompletionList(context.Background(), "/catalog/b")
	assert.False(t, list.IsIncomplete)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "book", list.Items[0].Label)
}
