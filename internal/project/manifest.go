package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrProjectSectionMissing = errors.New("missing [project]")
	ErrProjectNameMissing    = errors.New("missing [project].name")
	ErrInvalidOutputFormat   = errors.New("invalid [output].format (expected: pretty|short|json|msgpack|tree)")
	ErrInvalidColor          = errors.New("invalid [output].color (expected: auto|on|off)")
	ErrInvalidUI             = errors.New("invalid [output].ui (expected: auto|on|off)")
	ErrInvalidPathMode       = errors.New("invalid [output].path_mode (expected: auto|absolute|relative|basename)")
	ErrNegativeLimit         = errors.New("[bind] values must not be negative")
)

// Config mirrors localfn.toml.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Bind    BindConfig    `toml:"bind"`
	Output  OutputConfig  `toml:"output"`
}

type ProjectConfig struct {
	Name     string   `toml:"name"`
	Fixtures []string `toml:"fixtures"`
}

type BindConfig struct {
	Jobs           int `toml:"jobs"`
	Race           int `toml:"race"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type OutputConfig struct {
	Format    string `toml:"format"`
	Color     string `toml:"color"`
	PathMode  string `toml:"path_mode"`
	WithNotes bool   `toml:"with_notes"`
	UI        string `toml:"ui"`
}

// Manifest is a loaded project file.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// DefaultConfig is used when no project file exists.
func DefaultConfig() Config {
	return Config{
		Project: ProjectConfig{Fixtures: []string{"."}},
		Bind:    BindConfig{Race: 1, MaxDiagnostics: 100},
		Output:  OutputConfig{Format: "pretty", Color: "auto", PathMode: "auto", UI: "auto"},
	}
}

// LoadManifest finds and loads the project file above startDir.
// ok is false when there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig parses and validates a project file; unset keys keep defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that TOML typing cannot.
func (c Config) Validate() error {
	switch c.Output.Format {
	case "pretty", "short", "json", "msgpack", "tree":
	default:
		return ErrInvalidOutputFormat
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return ErrInvalidColor
	}
	switch c.Output.UI {
	case "auto", "on", "off":
	default:
		return ErrInvalidUI
	}
	switch c.Output.PathMode {
	case "auto", "absolute", "relative", "basename":
	default:
		return ErrInvalidPathMode
	}
	if c.Bind.Jobs < 0 || c.Bind.Race < 0 || c.Bind.MaxDiagnostics < 0 {
		return ErrNegativeLimit
	}
	return nil
}
