// Package commands implements the bpfix command line.
package commands

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rockstardevs/bpfix"
	"github.com/rockstardevs/bpfix/internal/buildinfo"
	"github.com/rockstardevs/bpfix/internal/config"
	"github.com/rockstardevs/bpfix/ofx"
)

// NewRootCommand creates the bpfix command.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "bpfix [flags] INPUT [OUTPUT]",
		Short: "Fix the transactions of Banque Populaire OFX exports",
		Long: `bpfix rewrites the transaction types, names and memos of a Banque Populaire
OFX export so that personal finance software can categorize them.

OUTPUT defaults to INPUT with the configured suffix inserted before its extension.`,
		Version: buildinfo.String(),
		Args:    cobra.RangeArgs(1, 2),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return runFix(cmd.OutOrStdout(), cfg, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (TOML or YAML)")
	flags.String("suffix", bpfix.DefaultSuffix, "suffix inserted before the extension of INPUT to name OUTPUT")
	flags.Bool("dry-run", false, "fix without writing OUTPUT")
	flags.String("report", bpfix.FormatText, "report format: text, json, yaml or none")
	flags.Bool("indent", true, "indent the XML body of OUTPUT")
	// glog flags: -v, --logtostderr, --vmodule, ...
	flags.AddGoFlagSet(flag.CommandLine)

	return rootCmd
}

func runFix(w io.Writer, cfg *config.Config, args []string) error {
	in := args[0]
	var out string
	if len(args) > 1 {
		// An explicit OUTPUT may name INPUT to fix the file in place.
		out = args[1]
	} else {
		out = bpfix.OutputPath(in, cfg.OutputSuffix)
		if !cfg.DryRun && filepath.Clean(in) == filepath.Clean(out) {
			return fmt.Errorf("output %s would overwrite the input, pass it as OUTPUT to fix in place", out)
		}
	}

	store := ofx.NewFileStore()
	if !cfg.Indent {
		store.Writer.Indent = ""
	}
	fixer := bpfix.NewFixer(store)
	fixer.DryRun = cfg.DryRun

	report, err := fixer.FixFile(in, out)
	if err != nil {
		return err
	}
	return report.Write(w, cfg.Report)
}
