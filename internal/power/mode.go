package power

import (
	"fmt"
	"strings"
)

// Mode is a power profile the user can pick.
type Mode int

const (
	ModeUnknown Mode = iota
	ModePerformance
	ModeBalanced
	ModePowerSaver
)

// Mode string constants, as understood by powerprofilesctl.
const (
	modeUnknownStr     = "unknown"
	modePerformanceStr = "performance"
	modeBalancedStr    = "balanced"
	modePowerSaverStr  = "power-saver"
)

// Governor names written to scaling_governor or passed to cpupower.
const (
	GovernorPerformance  = "performance"
	GovernorPowersave    = "powersave"
	GovernorSchedutil    = "schedutil"
	GovernorOndemand     = "ondemand"
	GovernorConservative = "conservative"
)

// Modes returns the selectable modes in display order.
func Modes() []Mode {
	return []Mode{ModePerformance, ModeBalanced, ModePowerSaver}
}

func (m Mode) String() string {
	switch m {
	case ModePerformance:
		return modePerformanceStr
	case ModeBalanced:
		return modeBalancedStr
	case ModePowerSaver:
		return modePowerSaverStr
	default:
		return modeUnknownStr
	}
}

// Valid reports whether m is one of the three selectable modes.
func (m Mode) Valid() bool {
	return m == ModePerformance || m == ModeBalanced || m == ModePowerSaver
}

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case modePerformanceStr, "perf":
		return ModePerformance, nil
	case modeBalancedStr, "balance":
		return ModeBalanced, nil
	case modePowerSaverStr, "saver", "powersave", "power-save", "powersaver":
		return ModePowerSaver, nil
	default:
		return ModeUnknown, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ModeFromProfile maps `powerprofilesctl get` output to a Mode.
func ModeFromProfile(out string) Mode {
	raw := strings.TrimSpace(out)
	if strings.Contains(raw, "saver") {
		return ModePowerSaver
	}
	switch raw {
	case modePerformanceStr:
		return ModePerformance
	case modeBalancedStr:
		return ModeBalanced
	default:
		return ModeUnknown
	}
}

// ModeFromGovernor maps a cpufreq governor name to the closest Mode.
// Governors other than performance and powersave count as balanced.
func ModeFromGovernor(gov string) Mode {
	switch strings.TrimSpace(gov) {
	case "":
		return ModeUnknown
	case GovernorPerformance:
		return ModePerformance
	case GovernorPowersave:
		return ModePowerSaver
	default:
		return ModeBalanced
	}
}

// governorPreference lists candidate governors per mode, best first.
var governorPreference = map[Mode][]string{
	ModePerformance: {GovernorPerformance},
	ModeBalanced:    {GovernorSchedutil, GovernorOndemand, GovernorConservative, GovernorPowersave},
	ModePowerSaver:  {GovernorPowersave, GovernorConservative},
}

// GovernorFor picks the governor to use for mode. The first preferred
// governor present in available wins; when available is empty the
// primary choice is returned.
func GovernorFor(mode Mode, available []string) string {
	prefs, ok := governorPreference[mode]
	if !ok {
		return ""
	}
	if len(available) == 0 {
		return prefs[0]
	}
	for _, p := range prefs {
		for _, a := range available {
			if a == p {
				return p
			}
		}
	}
	return prefs[0]
}
