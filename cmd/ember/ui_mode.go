package main

import (
	"fmt"
	"os"
	"strings"
)

// triState is the auto|on|off switch shared by the --ui and --color
// flags.
type triState uint8

const (
	triAuto triState = iota
	triOn
	triOff
)

func parseTriState(flag, value string) (triState, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return triAuto, nil
	case "on":
		return triOn, nil
	case "off":
		return triOff, nil
	default:
		return triAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// resolve reports whether the feature is active, probing f for a
// terminal in the auto case.
func (s triState) resolve(f *os.File) bool {
	switch s {
	case triOn:
		return true
	case triOff:
		return false
	default:
		return isTerminal(f)
	}
}
