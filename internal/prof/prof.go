// Package prof captures runtime profiles of a bind run.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Config names the output file of every profile; empty paths are skipped.
type Config struct {
	CPU   string
	Mem   string
	Trace string
	// Mutex records contention between goroutines forcing the same symbol.
	Mutex string
}

// Enabled reports whether any profile is requested.
func (c Config) Enabled() bool {
	return c.CPU != "" || c.Mem != "" || c.Trace != "" || c.Mutex != ""
}

// Session is a set of running profiles. Stop is safe to call more than once.
type Session struct {
	cfg       Config
	cpuFile   *os.File
	traceFile *os.File
	prevMutex int
	stopped   bool
}

// Start enables the profiles of cfg. On error everything already started is
// stopped again.
func Start(cfg Config) (*Session, error) {
	s := &Session{cfg: cfg, prevMutex: -1}
	if cfg.CPU != "" {
		f, err := os.Create(cfg.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpuFile = f
	}
	if cfg.Trace != "" {
		f, err := os.Create(cfg.Trace)
		if err != nil {
			_ = s.Stop()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			_ = s.Stop()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.traceFile = f
	}
	if cfg.Mutex != "" {
		s.prevMutex = runtime.SetMutexProfileFraction(1)
	}
	return s, nil
}

// Stop ends the running profiles and writes the snapshot ones (heap, mutex).
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	var errs []error
	if s.traceFile != nil {
		trace.Stop()
		errs = append(errs, s.traceFile.Close())
	}
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpuFile.Close())
	}
	if s.cfg.Mutex != "" {
		errs = append(errs, writeProfile("mutex", s.cfg.Mutex))
		runtime.SetMutexProfileFraction(s.prevMutex)
	}
	if s.cfg.Mem != "" {
		runtime.GC()
		errs = append(errs, writeProfile("heap", s.cfg.Mem))
	}
	return errors.Join(errs...)
}

func writeProfile(name, path string) (err error) {
	p := pprof.Lookup(name)
	if p == nil {
		return fmt.Errorf("%s profile: not available", name)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s profile: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	if err := p.WriteTo(f, 0); err != nil {
		return fmt.Errorf("%s profile: %w", name, err)
	}
	return nil
}
