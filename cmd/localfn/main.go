package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"localfn/internal/trace"
	"localfn/internal/version"
)

// errDiagnostics is returned when a run reported errors; the diagnostics are
// already printed, so cobra must stay quiet.
var errDiagnostics = errors.New("errors reported")

var traceCleanup func()

var rootCmd = &cobra.Command{
	Use:   "localfn",
	Short: "Lazy local function binder",
	Long:  `localfn binds local function declarations from fixture files and reports their diagnostics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiles, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			stopProfiles()
			return err
		}
		traceCleanup = func() {
			cleanup()
			stopProfiles()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushTracing()
	},
}

// main registers subcommands and persistent flags and executes the root
// command. Any error, including reported diagnostics, exits with status 1.
func main() {
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(bindCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off); defaults to [output].color")
	rootCmd.PersistentFlags().Bool("timings", false, "report phase timings")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0 = [bind].max_diagnostics)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|fixture|symbol)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for --trace-mode ring|both")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat trace events at this interval (0 = off)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file")
	rootCmd.PersistentFlags().String("mutex-profile", "", "write a mutex contention profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	defer dumpTraceOnPanic()
	err := rootCmd.Execute()
	flushTracing()
	if err != nil {
		os.Exit(1)
	}
}

// flushTracing runs the tracer and profile cleanup once; PersistentPostRun is
// skipped when a command fails.
func flushTracing() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

// dumpTraceOnPanic writes the trace ring to stderr before re-panicking.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	tracer := trace.FromContext(rootCmd.Context())
	fmt.Fprintf(os.Stderr, "localfn: panic: %v\n", r)
	if trace.DumpRing(tracer, os.Stderr) {
		fmt.Fprintln(os.Stderr, "localfn: trace ring dumped above")
	}
	panic(r)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
