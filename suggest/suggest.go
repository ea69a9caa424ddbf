// Package suggest computes location path completions for partially typed
// queries.
//
// A Suggester follows the steps of a query's location paths through a
// PathSummary while the query is parsed, keeping the set of summary nodes
// the cursor can currently be at. When the last node test is still being
// typed, the candidates are the names of the nodes it is a prefix of.
package suggest

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/parser"
)

// Option configures a Suggester.
type Option func(*Suggester)

// WithLogger sets the logger used to report parse recoveries.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Suggester) {
		s.log = log
	}
}

// Suggester implements parser.Hooks on top of a PathSummary. A Suggester
// keeps state between hook calls and must not be used for concurrent parses.
type Suggester struct {
	summary PathSummary
	log     zerolog.Logger

	// all holds the nodes reached by the current axis, curr the ones that
	// also pass the node test.
	all   []PathNode
	curr  []PathNode
	stack [][]PathNode
	show  bool
	err   *parser.Error
}

// New returns a Suggester for the given summary.
func New(summary PathSummary, opts ...Option) *Suggester {
	s := &Suggester{
		summary: summary,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init implements parser.Hooks.
func (s *Suggester) Init() {
	s.all = s.summary.Root()
	s.curr = s.all
	s.stack = nil
	s.show = false
	s.err = nil
}

// Axis implements parser.Hooks. Only downward axes are followed; any other
// axis leaves nothing to suggest.
func (s *Suggester) Axis(axis ast.Axis) {
	switch axis {
	case ast.AxisChild, ast.AxisDescendant:
		s.all = s.filter(s.summary.Descend(s.curr, axis == ast.AxisDescendant), false)
	case ast.AxisAttribute:
		s.all = s.filter(s.summary.Descend(s.curr, false), true)
	default:
		s.all = nil
	}
	s.curr = s.all
	s.show = true
}

// filter keeps either the attribute nodes or the other nodes.
func (s *Suggester) filter(nodes []PathNode, attributes bool) []PathNode {
	out := nodes[:0:0]
	for _, n := range nodes {
		if strings.HasPrefix(s.summary.Label(n), "@") == attributes {
			out = append(out, n)
		}
	}
	return out
}

// NodeTest implements parser.Hooks. A test followed by more input must
// match exactly; a test at the end of the input is matched as a prefix.
func (s *Suggester) NodeTest(test ast.NodeTest, attribute bool, more bool) {
	tag := strings.ReplaceAll(test.String(), "*:", "")
	if attribute {
		tag = "@" + tag
	}
	var matched []PathNode
	longer := false
	for _, n := range s.all {
		label := s.summary.Label(n)
		if !strings.HasPrefix(label, tag) {
			continue
		}
		if !more || label == tag {
			matched = append(matched, n)
		}
		if label != tag {
			longer = true
		}
	}
	s.curr = matched
	s.show = tag == "" || longer
}

// Predicate implements parser.Hooks. The nodes of a step are saved while
// its predicate is parsed and restored when it closes.
func (s *Suggester) Predicate(open bool) {
	if open {
		s.stack = append(s.stack, slices.Clone(s.curr))
		s.all = s.curr
		s.show = false
		return
	}
	if len(s.stack) == 0 {
		return
	}
	s.curr = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.all = s.curr
	s.show = false
}

// Candidates returns the sorted, distinct names the cursor can complete to
// after the last parse.
func (s *Suggester) Candidates() []string {
	if !s.show {
		return nil
	}
	seen := map[string]bool{}
	var names []string
	for _, n := range s.curr {
		label := s.summary.Label(n)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		names = append(names, label)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return names
}

// Complete parses query and returns the completion candidates at its end.
// Parse errors are expected for partial input and are not returned; the
// diagnostic is available from Err.
func (s *Suggester) Complete(ctx context.Context, query string, opts ...parser.Option) []string {
	opts = append(slices.Clone(opts), parser.WithHooks(s))
	_, err := parser.Parse(ctx, query, opts...)
	if err == nil {
		return s.Candidates()
	}
	var perr *parser.Error
	if !stderrors.As(err, &perr) {
		s.log.Debug().Err(err).Msg("completion aborted")
		s.show = false
		return nil
	}
	candidates := s.Candidates()
	perr.Suggestions = candidates
	s.err = perr
	s.log.Debug().
		Str("code", perr.Code.String()).
		Int("pos", perr.Offset()).
		Int("candidates", len(candidates)).
		Msg("recovered from parse error")
	return candidates
}

// Err returns the diagnostic of the last Complete call, with the candidates
// attached, or nil if the query parsed.
func (s *Suggester) Err() *parser.Error {
	return s.err
}
