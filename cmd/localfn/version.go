package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"localfn/internal/version"
)

type versionOptions struct {
	color    bool
	showHash bool
	showDate bool
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionFlags struct {
	format string
	hash   bool
	date   bool
	full   bool
}

func init() {
	f := versionCmd.Flags()
	f.BoolVar(&versionFlags.hash, "hash", false, "include git commit hash")
	f.BoolVar(&versionFlags.date, "date", false, "include build timestamp")
	f.BoolVar(&versionFlags.full, "full", false, "show all build metadata")
	f.StringVar(&versionFlags.format, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show localfn build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		colorValue, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		useColor, err := readColor(colorValue)
		if err != nil {
			return err
		}
		opts := versionOptions{
			color:    useColor,
			showHash: versionFlags.hash || versionFlags.full,
			showDate: versionFlags.date || versionFlags.full,
		}
		out := cmd.OutOrStdout()
		switch strings.ToLower(versionFlags.format) {
		case "pretty":
			renderVersionPretty(out, opts)
			return nil
		case "json":
			return renderVersionJSON(out, opts)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFlags.format)
	},
}

func renderVersionPretty(out io.Writer, opts versionOptions) {
	fmt.Fprintf(out, "localfn %s\n", version.Colored(opts.color))
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.GitCommit))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "localfn",
		Version: strings.TrimSpace(version.Version),
	}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
