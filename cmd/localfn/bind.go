package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"localfn/internal/diagfmt"
	"localfn/internal/driver"
	"localfn/internal/symdump"
)

var bindCmd = &cobra.Command{
	Use:   "bind [flags] [fixture|directory...]",
	Short: "Bind local functions and report their diagnostics",
	Long: `Bind loads fixture files, builds a symbol for every local function, forces
every lazy signature fact from several goroutines at once and prints the
diagnostics that were drained from the symbols.

Without arguments the fixtures listed in localfn.toml are used.`,
	RunE: runBindCmd,
}

func init() {
	bindCmd.Flags().String("format", "pretty", "output format (pretty|short|json|msgpack|tree)")
	addRunFlags(bindCmd)
}

func runBindCmd(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}
	switch s.format {
	case "pretty", "short", "json", "msgpack", "tree":
	default:
		return fmt.Errorf("unknown format: %s", s.format)
	}

	res, err := runPipeline(cmd, s, "bind")
	if err != nil {
		return err
	}
	if err := writeDiagnostics(cmd.OutOrStdout(), res, s); err != nil {
		return err
	}
	return exitFor(cmd, res)
}

func writeDiagnostics(out io.Writer, res *driver.BindResult, s *runSettings) error {
	baseDir := ""
	if s.manifest != nil {
		baseDir = s.manifest.Root
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.pathMode,
		BaseDir:          baseDir,
		IncludeNotes:     s.withNotes,
	}

	switch s.format {
	case "pretty":
		return diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   1,
			PathMode:  s.pathMode,
			BaseDir:   baseDir,
			ShowNotes: s.withNotes,
		})
	case "short":
		return diagfmt.Short(out, res.Bag, res.FileSet, s.withNotes)
	case "json":
		if err := diagfmt.JSON(out, res.Bag, res.FileSet, jsonOpts); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "msgpack":
		if err := diagfmt.MsgPack(out, res.Bag, res.FileSet, jsonOpts); err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	case "tree":
		_, err := fmt.Fprint(out, symdump.FromBind(res, symdump.Options{Diagnostics: true}).String())
		return err
	default:
		return fmt.Errorf("unknown format: %s", s.format)
	}
	return nil
}
