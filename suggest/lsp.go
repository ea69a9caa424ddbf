package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
	"github.com/xqgo/xquery/parser"
)

// CompletionItems converts candidates to LSP completion items. Attribute
// candidates are reported as properties and element candidates as fields.
func CompletionItems(candidates []string) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(candidates))
	for i, c := range candidates {
		item := protocol.CompletionItem{
			Label:      c,
			Kind:       5, // Field
			Detail:     "element",
			InsertText: c,
			SortText:   fmt.Sprintf("%04d", i),
		}
		if strings.HasPrefix(c, "@") {
			item.Kind = 10 // Property
			item.Detail = "attribute"
		}
		items = append(items, item)
	}
	return items
}

// CompletionList runs Complete and returns the candidates as an LSP
// completion list.
func (s *Suggester) CompletionList(ctx context.Context, query string, opts ...parser.Option) *protocol.CompletionList {
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        CompletionItems(s.Complete(ctx, query, opts...)),
	}
}
