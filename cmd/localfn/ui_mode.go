package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is a tri-state switch shared by --ui and --color.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func parseSwitch(flag, value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

func readUIMode(value string) (uiMode, error) { return parseSwitch("ui", value) }

// readColor resolves --color; auto follows whether stdout is a terminal.
func readColor(value string) (bool, error) {
	m, err := parseSwitch("color", value)
	if err != nil {
		return false, err
	}
	return m == uiModeOn || (m == uiModeAuto && isTerminal(os.Stdout)), nil
}

// shouldUseTUI decides whether the progress view runs. Machine-readable
// formats never get it in auto mode.
func shouldUseTUI(mode uiMode, format string) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	switch format {
	case "pretty", "short", "tree":
		return isTerminal(os.Stdout)
	}
	return false
}
