// Package status collects the footer readings: cpufreq governor, battery
// charge, AC adapter state and CPU usage.
package status

import (
	"fmt"
	"time"
)

// ACState is the mains adapter state.
type ACState int

const (
	ACUnknown ACState = iota
	ACOnline
	ACOffline
)

func (a ACState) String() string {
	switch a {
	case ACOnline:
		return "online"
	case ACOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Battery is one power_supply battery reading.
type Battery struct {
	Name     string
	Capacity int    // percent
	Status   string // Charging, Discharging, Full, ...
}

// Snapshot is a point-in-time reading. Missing sources leave their field
// at the zero value.
type Snapshot struct {
	Governor   string
	Battery    *Battery
	AC         ACState
	CPUPercent float64
	HasCPU     bool
	CPUCount   int
	FreqMHz    int
	TakenAt    time.Time
}

// GovernorLabel renders the governor for the footer.
func (s Snapshot) GovernorLabel() string {
	if s.Governor == "" {
		return "gov: N/A"
	}
	return "gov: " + s.Governor
}

// BatteryLabel renders charge and AC state, or "" without a battery.
func (s Snapshot) BatteryLabel() string {
	if s.Battery == nil {
		return ""
	}
	label := fmt.Sprintf("%d%%", s.Battery.Capacity)
	if s.AC == ACOnline {
		label += "  AC"
	}
	return label
}

// CPULabel renders CPU usage and frequency, or "" when unavailable.
func (s Snapshot) CPULabel() string {
	if !s.HasCPU {
		return ""
	}
	label := fmt.Sprintf("cpu %.0f%%", s.CPUPercent)
	if s.FreqMHz > 0 {
		label += fmt.Sprintf(" @ %d MHz", s.FreqMHz)
	}
	return label
}
