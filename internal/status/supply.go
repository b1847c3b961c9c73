package status

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"cenov2/internal/power"
)

const powerSupplyDir = "class/power_supply"

// Preferred supply names, tried before scanning the directory.
var (
	batteryNames = []string{"BAT0", "BAT1"}
	acNames      = []string{"AC", "AC0", "ADP0", "ADP1"}
)

// ReadBattery returns the first readable battery below the sysfs root.
func ReadBattery(fs *power.SysFS) (*Battery, bool) {
	names := append([]string(nil), batteryNames...)
	for _, n := range listSupplies(fs) {
		if strings.HasPrefix(n, "BAT") && !contains(names, n) {
			names = append(names, n)
		}
	}
	for _, n := range names {
		dir := fs.Path(powerSupplyDir, n)
		capStr, err := power.ReadString(filepath.Join(dir, "capacity"))
		if err != nil {
			continue
		}
		capacity, err := strconv.Atoi(capStr)
		if err != nil {
			continue
		}
		st, err := power.ReadString(filepath.Join(dir, "status"))
		if err != nil {
			continue
		}
		return &Battery{Name: n, Capacity: capacity, Status: st}, true
	}
	return nil, false
}

// ReadAC reports whether mains power is connected.
func ReadAC(fs *power.SysFS) ACState {
	for _, n := range acNames {
		if st, ok := readOnline(fs, n); ok {
			return st
		}
	}
	for _, n := range listSupplies(fs) {
		if contains(acNames, n) {
			continue
		}
		typ, err := power.ReadString(fs.Path(powerSupplyDir, n, "type"))
		if err != nil || typ != "Mains" {
			continue
		}
		if st, ok := readOnline(fs, n); ok {
			return st
		}
	}
	return ACUnknown
}

func readOnline(fs *power.SysFS, name string) (ACState, bool) {
	path := fs.Path(powerSupplyDir, name, "online")
	if _, err := os.Stat(path); err != nil {
		return ACUnknown, false
	}
	v, err := power.ReadString(path)
	if err != nil {
		return ACUnknown, false
	}
	if v == "1" {
		return ACOnline, true
	}
	return ACOffline, true
}

func listSupplies(fs *power.SysFS) []string {
	entries, err := os.ReadDir(fs.Path(powerSupplyDir))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
