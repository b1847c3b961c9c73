package power

import (
	"errors"
	"fmt"
)

// Common errors returned by the backend
var (
	// ErrNoMethod indicates no power control mechanism was detected
	ErrNoMethod = errors.New("power: no power method found")

	// ErrUnknownMode indicates a mode outside the three supported profiles
	ErrUnknownMode = errors.New("power: unknown mode")

	// ErrNoPolicies indicates no cpufreq scaling_governor files exist
	ErrNoPolicies = errors.New("power: no cpufreq policies found")

	// ErrAlreadyApplied indicates the requested mode is already active
	ErrAlreadyApplied = errors.New("power: mode already applied")
)

// ApplyError represents a failed attempt to switch modes
type ApplyError struct {
	// Method is the mechanism that was used
	Method Method
	// Mode is the requested mode
	Mode Mode
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *ApplyError) Error() string {
	return fmt.Sprintf("power apply %s via %s: %v", e.Mode, e.Method, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ApplyError) Unwrap() error {
	return e.Err
}
