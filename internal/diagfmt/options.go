package diagfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"localfn/internal/source"
)

// PathMode selects how fixture paths appear in locations.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths and falls back to the base name.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

// ParsePathMode maps the CLI spelling of a path mode; "" means auto.
func ParsePathMode(s string) (PathMode, error) {
	if s == "" {
		return PathModeAuto, nil
	}
	if i := slices.Index(pathModeNames[:], s); i >= 0 {
		return PathMode(i), nil
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return pathModeNames[PathModeAuto]
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  uint8 // строк контекста перед основной
	PathMode PathMode
	BaseDir  string // для PathModeRelative; пусто - рабочая директория
	// ShowNotes prints notes; timing notes are printed regardless.
	ShowNotes bool
}

// JSONOpts configures JSON and msgpack output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// autoPathLimit is the longest absolute path PathModeAuto prints in full.
const autoPathLimit = 40

func displayPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return ""
	}
	p := f.Path
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := filepath.Rel(baseDir, p); err == nil {
			return filepath.ToSlash(rel)
		}
	case PathModeBasename:
		return filepath.Base(p)
	default:
		if filepath.IsAbs(p) && len(p) >= autoPathLimit {
			return filepath.Base(p)
		}
	}
	return p
}
