package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"cenov2/internal/power"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSysfs writes a two-CPU cpufreq tree plus a battery and returns its root.
func fakeSysfs(t *testing.T, governor string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"class/power_supply/BAT0/capacity": "64",
		"class/power_supply/BAT0/status":   "Discharging",
		"class/power_supply/AC/online":     "0",
	}
	for _, cpu := range []string{"cpu0", "cpu1"} {
		base := "devices/system/cpu/" + cpu + "/cpufreq/"
		files[base+"scaling_governor"] = governor
		files[base+"scaling_available_governors"] = "performance powersave schedutil"
	}
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content+"\n"), 0o644))
	}
	return root
}

// isolate keeps tests away from real tools, config and tracing.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{
		"CENOV2_SYSFS_ROOT", "CENOV2_METHOD", "CENOV2_SUDO", "CENOV2_REFRESH",
		"CENOV2_LOG_FILE", "CENOV2_LOG_LEVEL", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(k, "")
	}

	origRun, origLook := runTool, lookPath
	t.Cleanup(func() { runTool, lookPath = origRun, origLook })
	runTool = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		t.Errorf("unexpected exec: %s %v", name, args)
		return nil, nil, exec.ErrNotFound
	}
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func readGovernor(t *testing.T, root string, cpu string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, "devices/system/cpu", cpu, "cpufreq/scaling_governor"))
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}

func TestMethod_DetectsSysfs(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "schedutil")

	code, out, _ := runCLI("-sysfs", root, "method")
	assert.Equal(t, 0, code)
	assert.Equal(t, "sys\n", out)
}

func TestMethod_ForcedByEnvFile(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "schedutil")
	require.NoError(t, os.WriteFile(".env", []byte("CENOV2_METHOD=none\nCENOV2_SYSFS_ROOT="+root+"\n"), 0o644))

	code, out, _ := runCLI("method")
	assert.Equal(t, 0, code)
	assert.Equal(t, "none\n", out)

	// Flags override the file.
	code, out, _ = runCLI("-method", "sys", "method")
	assert.Equal(t, 0, code)
	assert.Equal(t, "sys\n", out)
}

func TestGet_FromGovernor(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "powersave")

	code, out, _ := runCLI("-sysfs", root, "get")
	assert.Equal(t, 0, code)
	assert.Equal(t, "power-saver\n", out)
}

func TestGet_Unknown(t *testing.T) {
	isolate(t)

	code, out, errOut := runCLI("-sysfs", t.TempDir(), "get")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "current mode unknown")
}

func TestSet_WritesEveryCPU(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "schedutil")

	code, out, errOut := runCLI("-sysfs", root, "set", "performance")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "[OK] governor 'performance' on 2 cpu(s)")
	assert.Equal(t, "performance", readGovernor(t, root, "cpu0"))
	assert.Equal(t, "performance", readGovernor(t, root, "cpu1"))
}

func TestSet_AlreadyOn(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "powersave")

	code, out, _ := runCLI("-sysfs", root, "set", "saver")
	assert.Equal(t, 0, code)
	assert.Equal(t, "already on power-saver\n", out)
}

func TestSet_ViaPowerProfilesCtl(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "schedutil")
	lookPath = func(name string) (string, error) {
		if name == power.PowerProfilesCtl {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	var calls []string
	runTool = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		calls = append(calls, name+" "+strings.Join(args, " "))
		if len(args) > 0 && args[0] == "get" {
			return []byte("balanced\n"), nil, nil
		}
		return nil, nil, nil
	}

	code, out, errOut := runCLI("-sysfs", root, "set", "performance")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "$ powerprofilesctl set performance")
	assert.Equal(t, []string{"powerprofilesctl get", "powerprofilesctl set performance"}, calls)
}

func TestSet_NoMethod(t *testing.T) {
	isolate(t)

	code, out, errOut := runCLI("-sysfs", t.TempDir(), "set", "balanced")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[ERR]")
	assert.Contains(t, errOut, "set balanced: ")
	assert.Contains(t, errOut, "no power method found")
}

func TestSet_ForcedNoneRunsNoTools(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "powersave")
	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	var calls []string
	runTool = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		calls = append(calls, name+" "+strings.Join(args, " "))
		return []byte("power-saver\n"), nil, nil
	}

	code, out, errOut := runCLI("-sysfs", root, "-method", "none", "set", "power-saver")
	assert.Equal(t, 1, code)
	assert.NotContains(t, out, "already on")
	assert.Contains(t, out, "[ERR]")
	assert.Contains(t, errOut, "no power method found")
	assert.Empty(t, calls)
	assert.Equal(t, "powersave", readGovernor(t, root, "cpu0"))
}

func TestSet_Usage(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "schedutil")

	code, _, errOut := runCLI("-sysfs", root, "set", "turbo")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown mode")

	code, _, _ = runCLI("-sysfs", root, "set")
	assert.Equal(t, 2, code)
}

func TestStatus(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "schedutil")

	code, out, _ := runCLI("-sysfs", root, "status")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "method     sys")
	assert.Contains(t, out, "mode       balanced")
	assert.Contains(t, out, "governor   schedutil")
	assert.Contains(t, out, "available  performance powersave schedutil")
	assert.Contains(t, out, "battery    64% (Discharging)")
	assert.Contains(t, out, "ac         offline")
}

func TestUI_UsesLogFile(t *testing.T) {
	isolate(t)
	root := fakeSysfs(t, "schedutil")
	logFile := filepath.Join(t.TempDir(), "state", "cenov2.log")

	orig := runUI
	t.Cleanup(func() { runUI = orig })
	var started bool
	runUI = func(m tea.Model) error {
		started = m != nil
		return nil
	}

	code, out, errOut := runCLI("-sysfs", root, "-log-file", logFile, "-log-level", "debug")
	require.Equal(t, 0, code, errOut)
	assert.True(t, started)
	assert.Empty(t, out)

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"component":"power"`)
}

func TestUnknownCommand(t *testing.T) {
	isolate(t)

	code, _, errOut := runCLI("-sysfs", t.TempDir(), "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "frobnicate"`)
}

func TestBadFlagValue(t *testing.T) {
	isolate(t)

	code, _, errOut := runCLI("-method", "magic", "method")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown method")
}
