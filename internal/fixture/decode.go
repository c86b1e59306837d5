package fixture

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"localfn/internal/ast"
)

var (
	ErrNoContainers = errors.New("no [[container]] entries")
	ErrEmptyName    = errors.New("empty name")
	ErrInvalidName  = errors.New("invalid name")
)

// Decode parses fixture content. Unknown keys, unknown modifier keywords
// and malformed types are errors; semantic problems are left to binding.
func Decode(path string, content []byte) (*File, error) {
	var f File
	meta, err := toml.Decode(string(content), &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("container") || len(f.Containers) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoContainers)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	for _, name := range f.Types {
		if !isIdent(name) {
			return fmt.Errorf("types: invalid type name %q", name)
		}
	}
	for ci := range f.Containers {
		c := &f.Containers[ci]
		if err := checkName(c.Name); err != nil {
			return fmt.Errorf("container #%d: %w", ci+1, err)
		}
		if err := checkTypeParams(c.TypeParams); err != nil {
			return fmt.Errorf("container %s: %w", c.Name, err)
		}
		for li := range c.Locals {
			if err := c.Locals[li].validate(); err != nil {
				return fmt.Errorf("container %s: local #%d: %w", c.Name, li+1, err)
			}
		}
	}
	return nil
}

func (l *Local) validate() error {
	if err := checkName(l.Name); err != nil {
		return err
	}
	if err := checkTypeParams(l.TypeParams); err != nil {
		return fmt.Errorf("%s: %w", l.Name, err)
	}
	for _, m := range l.Modifiers {
		if _, ok := ast.ParseModifier(m); !ok {
			return fmt.Errorf("%s: unknown modifier %q", l.Name, m)
		}
	}
	if l.Returns != "" {
		if _, err := parseTypeText(l.Returns); err != nil {
			return fmt.Errorf("%s: returns: %w", l.Name, err)
		}
	}
	for pi, p := range l.Params {
		if p.ArgList {
			if p.Name != "" || p.Type != "" || len(p.Modifiers) > 0 {
				return fmt.Errorf("%s: param #%d: arglist entries take no name, type or modifiers", l.Name, pi+1)
			}
			continue
		}
		if err := checkName(p.Name); err != nil {
			return fmt.Errorf("%s: param #%d: %w", l.Name, pi+1, err)
		}
		if _, err := parseTypeText(p.Type); err != nil {
			return fmt.Errorf("%s: param %s: %w", l.Name, p.Name, err)
		}
		for _, m := range p.Modifiers {
			if _, ok := ast.ParseParamModifier(m); !ok {
				return fmt.Errorf("%s: param %s: unknown modifier %q", l.Name, p.Name, m)
			}
		}
	}
	return nil
}

// checkName требует точный идентификатор: имена интернируются как есть,
// поэтому " F" и "F" были бы разными именами с одинаковым видом.
func checkName(name string) error {
	switch {
	case name == "":
		return ErrEmptyName
	case !isIdent(name):
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return nil
}

func checkTypeParams(names []string) error {
	for i, name := range names {
		if err := checkName(name); err != nil {
			return fmt.Errorf("type param #%d: %w", i+1, err)
		}
	}
	return nil
}

// typeText is a parsed type string. Suffixes apply outermost last:
// `int[]?` is a nullable array of int.
type typeText struct {
	text     string
	name     string
	inferred bool
	suffix   byte // '[' for array, '?' for nullable, 0 for a plain name
	elem     *typeText
}

func parseTypeText(s string) (*typeText, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, errors.New("empty type")
	case strings.HasSuffix(s, "?"):
		elem, err := parseTypeText(s[:len(s)-1])
		if err != nil {
			return nil, err
		}
		return &typeText{text: s, suffix: '?', elem: elem}, nil
	case strings.HasSuffix(s, "[]"):
		elem, err := parseTypeText(s[:len(s)-2])
		if err != nil {
			return nil, err
		}
		return &typeText{text: s, suffix: '[', elem: elem}, nil
	case s == "var":
		return &typeText{text: s, inferred: true}, nil
	case isIdent(s):
		return &typeText{text: s, name: s}, nil
	default:
		return nil, fmt.Errorf("invalid type %q", s)
	}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		case r > 0x7f:
		default:
			return false
		}
	}
	return true
}
