package power

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultSysfsRoot is where the kernel mounts sysfs.
	DefaultSysfsRoot = "/sys"

	cpuDir         = "devices/system/cpu"
	scalingGovFile = "cpufreq/scaling_governor"
	availGovFile   = "cpufreq/scaling_available_governors"
	curFreqFile    = "cpufreq/scaling_cur_freq"
)

// SysFS reads and writes cpufreq knobs below a sysfs root.
type SysFS struct {
	Root string
}

// NewSysFS returns a SysFS rooted at root, or DefaultSysfsRoot if empty.
func NewSysFS(root string) *SysFS {
	if root == "" {
		root = DefaultSysfsRoot
	}
	return &SysFS{Root: root}
}

// Path joins elems onto the sysfs root.
func (s *SysFS) Path(elems ...string) string {
	return filepath.Join(append([]string{s.Root}, elems...)...)
}

func (s *SysFS) cpuPath(cpu int, file string) string {
	return s.Path(cpuDir, fmt.Sprint("cpu", cpu), file)
}

// ReadString reads a sysfs attribute and trims surrounding whitespace.
func ReadString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// CPUs lists the numeric ids of cpuN directories, sorted ascending.
func (s *SysFS) CPUs() ([]int, error) {
	entries, err := os.ReadDir(s.Path(cpuDir))
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "cpu") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(name, "cpu"))
		if err != nil || id < 0 {
			continue // cpufreq, cpuidle, ...
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// HasCPUFreq reports whether cpu0 exposes a scaling_governor file.
func (s *SysFS) HasCPUFreq() bool {
	_, err := os.Stat(s.cpuPath(0, scalingGovFile))
	return err == nil
}

// Governor returns the current governor of cpu.
func (s *SysFS) Governor(cpu int) (string, error) {
	return ReadString(s.cpuPath(cpu, scalingGovFile))
}

// AvailableGovernors returns the governors cpu advertises.
func (s *SysFS) AvailableGovernors(cpu int) ([]string, error) {
	govs, err := ReadString(s.cpuPath(cpu, availGovFile))
	if err != nil {
		return nil, err
	}
	return strings.Fields(govs), nil
}

// CurFreqKHz returns the current frequency of cpu in kHz.
func (s *SysFS) CurFreqKHz(cpu int) (uint64, error) {
	v, err := ReadString(s.cpuPath(cpu, curFreqFile))
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(v, 10, 64)
}

// HasGovernorFile reports whether cpu has a scaling_governor file.
func (s *SysFS) HasGovernorFile(cpu int) bool {
	_, err := os.Stat(s.cpuPath(cpu, scalingGovFile))
	return err == nil
}

// SetGovernor writes gov into the scaling_governor file of cpu.
// The file must already exist; sysfs attributes are never created.
func (s *SysFS) SetGovernor(cpu int, gov string) error {
	f, err := os.OpenFile(s.cpuPath(cpu, scalingGovFile), os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(gov); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
