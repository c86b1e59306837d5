package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[project]
name = "demo"
fixtures = ["decls"]

[bind]
race = 4
`)
	nested := filepath.Join(root, "decls", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m, ok, err := LoadManifest(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, m.Root)
	require.Equal(t, "demo", m.Config.Project.Name)
	require.Equal(t, []string{"decls"}, m.Config.Project.Fixtures)
	require.Equal(t, 4, m.Config.Bind.Race)
	require.Equal(t, 100, m.Config.Bind.MaxDiagnostics, "defaults survive")
	require.Equal(t, "pretty", m.Config.Output.Format)
}

func TestLoadManifestMissing(t *testing.T) {
	_, ok, err := LoadManifest(t.TempDir())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"no project", "[bind]\nrace = 1\n", ErrProjectSectionMissing},
		{"no name", "[project]\nfixtures = []\n", ErrProjectNameMissing},
		{"bad format", "[project]\nname = \"x\"\n[output]\nformat = \"xml\"\n", ErrInvalidOutputFormat},
		{"bad color", "[project]\nname = \"x\"\n[output]\ncolor = \"maybe\"\n", ErrInvalidColor},
		{"bad ui", "[project]\nname = \"x\"\n[output]\nui = \"tui\"\n", ErrInvalidUI},
		{"bad path mode", "[project]\nname = \"x\"\n[output]\npath_mode = \"full\"\n", ErrInvalidPathMode},
		{"negative", "[project]\nname = \"x\"\n[bind]\njobs = -1\n", ErrNegativeLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tc.src)
			_, err := LoadConfig(path)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDiscoverFixtures(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "decls", "b.lfn.toml"), "")
	writeFile(t, filepath.Join(root, "decls", "a.lfn.toml"), "")
	writeFile(t, filepath.Join(root, "decls", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "decls", ".hidden", "c.lfn.toml"), "")
	writeFile(t, filepath.Join(root, "single.lfn.toml"), "")

	got, err := DiscoverFixtures(root, []string{"decls", "single.lfn.toml", "decls/a.lfn.toml"})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "decls", "a.lfn.toml"),
		filepath.Join(root, "decls", "b.lfn.toml"),
		filepath.Join(root, "single.lfn.toml"),
	}, got)

	_, err = DiscoverFixtures(root, []string{"missing"})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCombineDeterministic(t *testing.T) {
	a, b := Digest{1}, Digest{2}
	require.Equal(t, Combine(a, b), Combine(a, b))
	require.NotEqual(t, Combine(a, b), Combine(b, a))
	require.Len(t, Combine(a).String(), 64)
}
