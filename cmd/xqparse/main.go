package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xqparse",
		Short:         "Parse and check XQuery modules",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return processGlobalFlags()
		},
	}

	flags := root.PersistentFlags()
	flags.String("module-dir", ".", "Directory that module location hints are resolved against")
	flags.StringSlice("catalog", nil, "Module locations for imports without hints (uri=path)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	for _, name := range []string{"module-dir", "catalog", "no-color", "log-level"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("xqparse")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(newASTCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newCompleteCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errReported) {
			os.Exit(1)
		}
		fatal(err)
	}
}
