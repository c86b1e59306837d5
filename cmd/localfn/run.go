package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"localfn/internal/driver"
)

const cacheApp = "localfn"

// runPipeline binds the fixtures of s, with the progress UI when enabled.
func runPipeline(cmd *cobra.Command, s *runSettings, title string) (*driver.BindResult, error) {
	opts := driver.BindOptions{
		MaxDiagnostics: s.maxDiags,
		Jobs:           s.jobs,
		Race:           s.race,
		EnableTimings:  s.timings,
	}
	if s.cache || s.clearCache {
		cache, err := driver.OpenDiskCache(cacheApp)
		if err != nil {
			return nil, fmt.Errorf("failed to open disk cache: %w", err)
		}
		if s.clearCache {
			if err := cache.DropAll(); err != nil {
				return nil, fmt.Errorf("failed to clear disk cache: %w", err)
			}
		}
		if s.cache {
			opts.Cache = cache
		}
	}

	useUI := shouldUseTUI(s.ui, s.format)
	if s.timings && !useUI {
		opts.Phases = phasePrinter(cmd.ErrOrStderr())
	}

	var (
		res *driver.BindResult
		err error
	)
	if useUI {
		res, err = runBindWithUI(cmd.Context(), title, s.files, opts)
	} else {
		res, err = driver.Bind(cmd.Context(), s.files, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("bind failed: %w", err)
	}
	if useUI && res.Timing != nil {
		// фазы не печатались во время работы TUI
		fmt.Fprint(cmd.ErrOrStderr(), res.Timing.String())
	}
	return res, nil
}

// phasePrinter reports every finished phase on out.
func phasePrinter(out io.Writer) driver.PhaseObserver {
	return func(ev driver.PhaseEvent) {
		if ev.Status != driver.PhaseEnd {
			return
		}
		fmt.Fprintf(out, "%s %.1f ms\n", ev.Name, toMillis(ev.Elapsed))
	}
}

// exitFor turns reported errors into the silent errDiagnostics.
func exitFor(cmd *cobra.Command, res *driver.BindResult) error {
	if res == nil || !res.Bag.HasErrors() {
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return errDiagnostics
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
