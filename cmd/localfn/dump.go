package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"localfn/internal/symdump"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] [fixture|directory...]",
	Short: "Print the bound symbols as a tree",
	Long: `Dump runs the same pipeline as bind and prints every enclosing method with
its local functions: modifiers, calling convention, type parameters,
parameters and return type.`,
	RunE: runDumpCmd,
}

func init() {
	dumpCmd.Flags().Bool("hashes", false, "show the identity hash of every symbol")
	dumpCmd.Flags().Bool("diagnostics", false, "list drained diagnostics under their symbol")
	addRunFlags(dumpCmd)
}

func runDumpCmd(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}
	// дерево всегда печатается как текст
	s.format = "tree"

	var opts symdump.Options
	if opts.Hashes, err = cmd.Flags().GetBool("hashes"); err != nil {
		return fmt.Errorf("failed to get hashes flag: %w", err)
	}
	if opts.Diagnostics, err = cmd.Flags().GetBool("diagnostics"); err != nil {
		return fmt.Errorf("failed to get diagnostics flag: %w", err)
	}

	res, err := runPipeline(cmd, s, "dump")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), symdump.FromBind(res, opts).String()); err != nil {
		return err
	}
	return nil
}
