package prof

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionWritesSnapshotProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Mem:   filepath.Join(dir, "heap.pprof"),
		Mutex: filepath.Join(dir, "mutex.pprof"),
	}
	require.True(t, cfg.Enabled())

	s, err := Start(cfg)
	require.NoError(t, err)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				mu.Lock()
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "second stop is a no-op")
	for _, p := range []string{cfg.Mem, cfg.Mutex} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	_, err := Start(Config{Trace: filepath.Join(t.TempDir(), "missing", "trace.out")})
	require.Error(t, err)
	require.False(t, Config{}.Enabled())
}
