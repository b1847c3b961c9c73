package power

import (
	"fmt"
	"strings"
)

// Method is the mechanism used to change the power profile.
type Method int

const (
	// MethodNone means no supported mechanism was found.
	MethodNone Method = iota
	// MethodPPD uses power-profiles-daemon via powerprofilesctl.
	MethodPPD
	// MethodCPUPower uses the cpupower frequency-set tool.
	MethodCPUPower
	// MethodSysfs writes scaling_governor files directly.
	MethodSysfs
)

// Method string constants
const (
	methodNoneStr     = "none"
	methodPPDStr      = "ppd"
	methodCPUPowerStr = "cpu"
	methodSysfsStr    = "sys"
)

// Executable names looked up on PATH.
const (
	PowerProfilesCtl = "powerprofilesctl"
	CPUPower         = "cpupower"
)

func (m Method) String() string {
	switch m {
	case MethodPPD:
		return methodPPDStr
	case MethodCPUPower:
		return methodCPUPowerStr
	case MethodSysfs:
		return methodSysfsStr
	default:
		return methodNoneStr
	}
}

// ParseMethod parses a method key. It returns auto=true for "" and "auto",
// meaning the caller should run Detect.
func ParseMethod(s string) (m Method, auto bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return MethodNone, true, nil
	case methodPPDStr, PowerProfilesCtl:
		return MethodPPD, false, nil
	case methodCPUPowerStr, CPUPower:
		return MethodCPUPower, false, nil
	case methodSysfsStr, "sysfs":
		return MethodSysfs, false, nil
	case methodNoneStr:
		return MethodNone, false, nil
	default:
		return MethodNone, false, fmt.Errorf("unknown method %q (want auto, ppd, cpu, sys or none)", s)
	}
}

// Detect returns the first available method: powerprofilesctl, then
// cpupower, then the sysfs governor file of cpu0.
func Detect(lookPath LookPath, fs *SysFS) Method {
	for _, c := range []struct {
		exe    string
		method Method
	}{
		{PowerProfilesCtl, MethodPPD},
		{CPUPower, MethodCPUPower},
	} {
		if _, err := lookPath(c.exe); err == nil {
			return c.method
		}
	}
	if fs != nil && fs.HasCPUFreq() {
		return MethodSysfs
	}
	return MethodNone
}
