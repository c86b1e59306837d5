package trace

import (
	"fmt"
	"strings"
)

// Level controls which scopes are recorded.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError keeps phase events in the ring only; they are written when
	// the process panics.
	LevelError
	LevelPhase
	LevelFixture
	LevelSymbol
)

var levelNames = [...]string{
	LevelOff:     "off",
	LevelError:   "error",
	LevelPhase:   "phase",
	LevelFixture: "fixture",
	LevelSymbol:  "symbol",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel maps a flag value to a Level. "detail" and "debug" are accepted
// as older spellings of fixture and symbol.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "detail":
		return LevelFixture, nil
	case "debug":
		return LevelSymbol, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|fixture|symbol)", s)
}

// Records reports whether events of scope are kept at this level.
func (l Level) Records(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError, LevelPhase:
		return scope <= ScopePhase
	case LevelFixture:
		return scope <= ScopeFixture
	default:
		return true
	}
}
