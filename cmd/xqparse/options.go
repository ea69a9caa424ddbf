package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xqgo/xquery/parser"
	"github.com/xqgo/xquery/source"
)

// resolver returns the file resolver configured by --module-dir and
// --catalog.
func resolver() (*source.FileResolver, error) {
	dir, err := homedir.Expand(viper.GetString("module-dir"))
	if err != nil {
		return nil, fmt.Errorf("module directory: %w", err)
	}
	opts := []source.FileOption{source.WithLogger(logger)}
	for _, entry := range viper.GetStringSlice("catalog") {
		uri, path, ok := strings.Cut(entry, "=")
		if !ok || uri == "" || path == "" {
			return nil, fmt.Errorf("invalid catalog entry %q (expected uri=path)", entry)
		}
		path, err = homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", entry, err)
		}
		opts = append(opts, source.WithCatalog(uri, path))
	}
	return source.NewFileResolver(dir, opts...), nil
}

func parserOptions(filename string) ([]parser.Option, error) {
	r, err := resolver()
	if err != nil {
		return nil, err
	}
	return []parser.Option{
		parser.WithFilename(filename),
		parser.WithLogger(logger),
		parser.WithModuleResolver(r),
		parser.WithStopWords(r),
	}, nil
}

// getCode determines the query to parse. There are three possibilities:
// 1. --code <code>
// 2. path as args[0]
// 3. standard input
// It also returns the name used in diagnostics.
func getCode(cmd *cobra.Command, args []string) (string, string, error) {
	codeFlagSet := false
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	if codeFlagSet && len(args) > 0 {
		return "", "", errors.New("multiple input sources specified")
	}
	if codeFlagSet {
		code, _ := cmd.Flags().GetString("code")
		return code, "", nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", err
	}
	return string(data), "<stdin>", nil
}
