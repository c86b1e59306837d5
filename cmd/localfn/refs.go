package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"localfn/internal/driver"
	"localfn/internal/findrefs"
	"localfn/internal/source"
	"localfn/internal/symbols"
)

var refsCmd = &cobra.Command{
	Use:   "refs [flags] [fixture|directory...]",
	Short: "Run reference search for every bound local function",
	Long: `Refs asks the reference-search engine about every local function. Local
functions are only visible inside their enclosing body, so the engine finds
no projects or documents; with --cascade the declaration linker reports the
other symbols built from the same declaration.`,
	RunE: runRefsCmd,
}

func init() {
	refsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	refsCmd.Flags().Bool("cascade", true, "follow symbols linked to the same declaration")
	refsCmd.Flags().Int("recreate", 0, "build this many extra symbols per declaration before searching")
	addRunFlags(refsCmd)
}

type refsSymbolJSON struct {
	Path      string   `json:"path"`
	Line      uint32   `json:"line"`
	Col       uint32   `json:"col"`
	Signature string   `json:"signature"`
	Hash      string   `json:"hash"`
	Cascaded  []string `json:"cascaded,omitempty"`
	Projects  int      `json:"projects"`
	Documents int      `json:"documents"`
	Locations int      `json:"locations"`
}

func runRefsCmd(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}
	// формат refs не берётся из [output]
	if s.format, err = cmd.Flags().GetString("format"); err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch s.format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", s.format)
	}
	cascade, err := cmd.Flags().GetBool("cascade")
	if err != nil {
		return fmt.Errorf("failed to get cascade flag: %w", err)
	}
	recreate, err := cmd.Flags().GetInt("recreate")
	if err != nil {
		return fmt.Errorf("failed to get recreate flag: %w", err)
	}

	res, err := runPipeline(cmd, s, "refs")
	if err != nil {
		return err
	}
	if err := relinkSymbols(res, recreate); err != nil {
		return err
	}

	engine := findrefs.NewEngine(&findrefs.LocalFunctionFinder{Linker: res.Linker})
	out := make([]refsSymbolJSON, 0, len(res.Symbols))
	for i := range res.Symbols {
		sym := res.Symbols[i].Symbol
		found, err := engine.Search(cmd.Context(), sym, findrefs.Options{Cascade: cascade})
		if err != nil {
			return err
		}
		out = append(out, refsEntry(res.FileSet, res.Symbols[i].Path, sym, found))
	}

	if s.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return renderRefsPretty(cmd.OutOrStdout(), out)
}

// relinkSymbols builds n more wrappers around every declaration and registers
// them with the linker, the way a re-created compilation would.
func relinkSymbols(res *driver.BindResult, n int) error {
	for range n {
		for i := range res.Symbols {
			sr := &res.Symbols[i]
			again, err := symbols.NewLocalFunction(res.Builder, sr.Symbol.Item(), sr.Method, res.Binder)
			if err != nil {
				return fmt.Errorf("recreate %s: %w", sr.Symbol.Name(), err)
			}
			res.Linker.Add(again)
		}
	}
	return nil
}

func refsEntry(fs *source.FileSet, path string, sym *symbols.LocalFunctionSymbol, found *findrefs.Result) refsSymbolJSON {
	start, _ := fs.Resolve(sym.Location())
	entry := refsSymbolJSON{
		Path:      path,
		Line:      start.Line,
		Col:       start.Col,
		Signature: sym.Signature(),
		Hash:      fmt.Sprintf("%016x", sym.Hash()),
		Projects:  len(found.Projects),
		Documents: len(found.Documents),
		Locations: len(found.Locations),
	}
	for _, c := range found.Cascaded {
		entry.Cascaded = append(entry.Cascaded, fmt.Sprintf("%s %016x", c.Name(), c.Hash()))
	}
	return entry
}

func renderRefsPretty(w io.Writer, entries []refsSymbolJSON) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s\n", e.Path, e.Line, e.Col, e.Signature); err != nil {
			return err
		}
		fmt.Fprintf(w, "  projects=%d documents=%d locations=%d\n", e.Projects, e.Documents, e.Locations)
		for _, c := range e.Cascaded {
			fmt.Fprintf(w, "  linked: %s\n", c)
		}
	}
	return nil
}
