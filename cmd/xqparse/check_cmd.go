package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/xqgo/xquery/parser"
	"github.com/xqgo/xquery/syntax"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check XQuery modules for static errors",
		Long: `Parse each file and report its diagnostic, if any.

With --preset or --deny, modules that use restricted language features
are reported as well. The command exits with status 1 if any file fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("preset", "full", "Syntax preset (full, sandboxed, path-only)")
	cmd.Flags().StringSlice("deny", nil,
		"Language features to reject ("+strings.Join(syntax.Features(), ", ")+")")
	return cmd
}

func syntaxConfig(cmd *cobra.Command) (syntax.SyntaxConfig, error) {
	name, _ := cmd.Flags().GetString("preset")
	config, ok := syntax.Preset(name)
	if !ok {
		return config, fmt.Errorf("unknown syntax preset %q", name)
	}
	deny, _ := cmd.Flags().GetStringSlice("deny")
	return config.Deny(deny...)
}

func runCheck(cmd *cobra.Command, args []string) error {
	config, err := syntaxConfig(cmd)
	if err != nil {
		return err
	}
	validator := syntax.NewSyntaxValidator(config)

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	var result *multierror.Error
	for _, path := range args {
		if err := checkFile(cmd.Context(), path, validator); err != nil {
			result = multierror.Append(result, err)
			if reportParseError(errOut, err) != errReported {
				fmt.Fprintf(errOut, "%s: %s\n", path, red(err.Error()))
			}
			continue
		}
		fmt.Fprintf(out, "%s %s\n", green("ok"), path)
	}
	if result != nil {
		fmt.Fprintf(errOut, "%d of %d file(s) failed\n", result.Len(), len(args))
		return errReported
	}
	return nil
}

func checkFile(ctx context.Context, path string, validator syntax.Validator) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	opts, err := parserOptions(path)
	if err != nil {
		return err
	}
	mod, err := parser.Parse(ctx, string(data), opts...)
	if err != nil {
		return err
	}
	return syntax.ValidateAll(mod, validator)
}
