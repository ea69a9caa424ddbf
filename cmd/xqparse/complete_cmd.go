package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xqgo/xquery/suggest"
)

func newCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Suggest path completions against an XML document",
		Long: `Build a path summary from an XML document and print the element
and attribute names that can complete the given query prefix.`,
		Args: cobra.NoArgs,
		RunE: runComplete,
	}
	cmd.Flags().StringP("code", "c", "", "Query prefix to complete")
	cmd.Flags().String("xml", "", "XML document to summarize")
	cmd.Flags().Bool("lsp", false, "Print LSP completion items as JSON")
	cmd.MarkFlagRequired("xml")
	return cmd
}

func runComplete(cmd *cobra.Command, args []string) error {
	code, _ := cmd.Flags().GetString("code")
	xmlPath, _ := cmd.Flags().GetString("xml")
	lsp, _ := cmd.Flags().GetBool("lsp")
	if code == "" {
		return errors.New("a query prefix is required (--code)")
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		return err
	}
	defer f.Close()
	summary, err := suggest.FromXML(f)
	if err != nil {
		return fmt.Errorf("%s: %w", xmlPath, err)
	}

	opts, err := parserOptions("")
	if err != nil {
		return err
	}
	s := suggest.New(summary, suggest.WithLogger(logger))
	out := cmd.OutOrStdout()
	if lsp {
		return writeJSON(out, s.CompletionList(cmd.Context(), code, opts...))
	}
	for _, c := range s.Complete(cmd.Context(), code, opts...) {
		fmt.Fprintln(out, c)
	}
	return nil
}
