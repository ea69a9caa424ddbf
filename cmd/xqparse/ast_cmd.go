package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/spf13/cobra"
	"github.com/xqgo/xquery/ast"
	"github.com/xqgo/xquery/errors"
	"github.com/xqgo/xquery/parser"
)

// errReported is returned by commands whose diagnostics were already
// printed.
var errReported = stderrors.New("failed")

func newASTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Display the syntax tree of an XQuery module",
		Long: `Parse an XQuery module and print its syntax tree.

The query is read from the file argument, from --code, or from stdin.
With --summary, the number of nodes of each kind is printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAST,
	}
	cmd.Flags().StringP("code", "c", "", "Query to parse")
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	cmd.Flags().Bool("summary", false, "Print node counts by kind")
	return cmd
}

func runAST(cmd *cobra.Command, args []string) error {
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	opts, err := parserOptions(filename)
	if err != nil {
		return err
	}
	mod, err := parser.Parse(context.Background(), code, opts...)
	if err != nil {
		return reportParseError(cmd.ErrOrStderr(), err)
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("output")
	summary, _ := cmd.Flags().GetBool("summary")
	switch format {
	case "json":
		if summary {
			return writeJSON(out, countNodes(mod))
		}
		return writeJSON(out, nodeToJSON(mod))
	case "text":
		if summary {
			printCounts(out, countNodes(mod))
			return nil
		}
		_, err := fmt.Fprintln(out, mod.String())
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// reportParseError prints a parse diagnostic. Errors that are not parse
// errors are returned unchanged.
func reportParseError(w io.Writer, err error) error {
	var perr *parser.Error
	if !stderrors.As(err, &perr) {
		return err
	}
	fmt.Fprint(w, errors.NewFormatter(useColor(w)).Format(perr.ToFormatted()))
	return errReported
}

// ASTNode represents a node in the JSON AST output
type ASTNode struct {
	Type     string     `json:"type"`
	Pos      string     `json:"pos,omitempty"`
	Value    string     `json:"value,omitempty"`
	Children []*ASTNode `json:"children,omitempty"`
}

func nodeName(node ast.Node) string {
	t := reflect.TypeOf(node)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func nodeToJSON(node ast.Node) *ASTNode {
	result := &ASTNode{Type: nodeName(node)}
	if pos := node.Pos(); pos.IsValid() {
		result.Pos = fmt.Sprintf("%d:%d", pos.LineNumber(), pos.ColumnNumber())
	}
	children := ast.Children(node)
	if len(children) == 0 {
		result.Value = node.String()
	}
	for _, child := range children {
		result.Children = append(result.Children, nodeToJSON(child))
	}
	return result
}

func countNodes(root ast.Node) map[string]int {
	counts := map[string]int{}
	ast.Inspect(root, func(n ast.Node) bool {
		counts[nodeName(n)]++
		return true
	})
	return counts
}

func printCounts(w io.Writer, counts map[string]int) {
	names := make([]string, 0, len(counts))
	width := 0
	for name := range counts {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-*s %d\n", width, name, counts[name])
	}
}
