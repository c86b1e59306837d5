package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"localfn/internal/diagfmt"
	"localfn/internal/project"
)

const noManifestMessage = "no " + project.ManifestName + " found\nplease pass fixture files or directories explicitly, e.g.:\n  localfn bind testdata/"

var errNoManifest = errors.New(noManifestMessage)

// runSettings is the merged view of localfn.toml and the command line.
// Flags win over the project file; the project file wins over defaults.
type runSettings struct {
	manifest   *project.Manifest
	files      []string
	format     string
	color      bool
	pathMode   diagfmt.PathMode
	withNotes  bool
	maxDiags   int
	jobs       int
	race       int
	ui         uiMode
	cache      bool
	clearCache bool
	timings    bool
}

// addRunFlags registers the flags shared by bind, dump and refs.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max symbols bound in parallel (0 = [bind].jobs or GOMAXPROCS)")
	cmd.Flags().Int("race", 0, "goroutines forcing each symbol at once (0 = [bind].race)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse diagnostics from the disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop the disk cache before binding")
	cmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

// resolveSettings loads the project file (if any), discovers fixtures and
// applies flags. Without args the fixtures come from [project].fixtures.
func resolveSettings(cmd *cobra.Command, args []string) (*runSettings, error) {
	manifest, ok, err := project.LoadManifest(".")
	if err != nil {
		return nil, err
	}
	cfg := project.DefaultConfig()
	root := ""
	if ok {
		cfg = manifest.Config
		root = manifest.Root
	}

	entries := args
	if len(entries) == 0 {
		if !ok {
			return nil, errNoManifest
		}
		entries = cfg.Project.Fixtures
	} else {
		root = ""
	}
	files, err := project.DiscoverFixtures(root, entries)
	if err != nil {
		return nil, err
	}

	s := &runSettings{
		manifest: manifest,
		files:    files,
		format:   cfg.Output.Format,
		maxDiags: cfg.Bind.MaxDiagnostics,
		jobs:     cfg.Bind.Jobs,
		race:     cfg.Bind.Race,
	}

	flags := cmd.Flags()
	if f := flags.Lookup("format"); f != nil && f.Changed {
		s.format = strings.ToLower(f.Value.String())
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("race") {
		if s.race, err = flags.GetInt("race"); err != nil {
			return nil, fmt.Errorf("failed to get race flag: %w", err)
		}
	}
	if s.jobs < 0 || s.race < 0 {
		return nil, fmt.Errorf("--jobs and --race must not be negative")
	}

	uiValue, err := changedString(flags, "ui", cfg.Output.UI)
	if err != nil {
		return nil, err
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	if s.cache, err = flags.GetBool("cache"); err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if s.clearCache, err = flags.GetBool("clear-cache"); err != nil {
		return nil, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	s.withNotes = cfg.Output.WithNotes
	if flags.Changed("with-notes") {
		if s.withNotes, err = flags.GetBool("with-notes"); err != nil {
			return nil, fmt.Errorf("failed to get with-notes flag: %w", err)
		}
	}
	pathMode, err := changedString(flags, "path-mode", cfg.Output.PathMode)
	if err != nil {
		return nil, err
	}
	if s.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return nil, err
	}

	persistent := cmd.Root().PersistentFlags()
	if persistent.Changed("max-diagnostics") {
		if s.maxDiags, err = persistent.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if s.timings, err = persistent.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorValue, err := persistent.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if colorValue == "" {
		colorValue = cfg.Output.Color
	}
	if s.color, err = readColor(colorValue); err != nil {
		return nil, err
	}
	return s, nil
}

// changedString returns the flag value when it was set on the command line,
// otherwise fallback from the project file.
func changedString(flags *pflag.FlagSet, name, fallback string) (string, error) {
	if !flags.Changed(name) {
		return fallback, nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v, nil
}
