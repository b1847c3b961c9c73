package power

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// setupCPUs builds a fake sysfs tree with one cpuN directory per entry.
// Each entry maps a property (governor, available_governors) to its value.
func setupCPUs(t *testing.T, cpus map[string]map[string]string) *SysFS {
	t.Helper()
	root := t.TempDir()
	base := filepath.Join(root, cpuDir)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "cpufreq"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "cpuidle"), 0o755))
	for name, props := range cpus {
		dir := filepath.Join(base, name)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "cpufreq"), 0o755))
		for prop, value := range props {
			var file string
			switch prop {
			case "governor":
				file = scalingGovFile
			case "available_governors":
				file = availGovFile
			case "cur_freq":
				file = curFreqFile
			default:
				t.Fatalf("unknown cpu property %q", prop)
			}
			require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(value+"\n"), 0o644))
		}
	}
	return NewSysFS(root)
}

// call records one invocation of fakeRunner.
type call struct {
	Name string
	Args []string
}

func (c call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// fakeRunner replays canned results keyed by the full command line.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []call
	results map[string]fakeResult
}

type fakeResult struct {
	stdout, stderr string
	err            error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: make(map[string]fakeResult)}
}

func (f *fakeRunner) on(cmdline string, res fakeResult) *fakeRunner {
	f.results[cmdline] = res
	return f
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := call{Name: name, Args: args}
	f.calls = append(f.calls, c)
	res, ok := f.results[c.String()]
	if !ok {
		return nil, []byte("unexpected command"), fmt.Errorf("exit status 127")
	}
	return []byte(res.stdout), []byte(res.stderr), res.err
}

func (f *fakeRunner) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

// lookPathFor returns a LookPath that finds only the given executables.
func lookPathFor(found ...string) LookPath {
	return func(file string) (string, error) {
		for _, f := range found {
			if f == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func newTestBackend(method Method, fs *SysFS, run *fakeRunner, found ...string) *Backend {
	return New(Options{
		Method:   method,
		SysFS:    fs,
		Runner:   run.Run,
		LookPath: lookPathFor(found...),
		Logger:   zerolog.Nop(),
		IsRoot:   func() bool { return false },
	})
}
