package power

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner executes an external command and returns its captured output.
// The default implementation uses exec.CommandContext.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// LookPath resolves an executable name on PATH.
type LookPath func(file string) (string, error)

// Run executes name with args, honouring ctx for cancellation and timeouts.
func Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return stdout.Bytes(), stderr.Bytes(), err
}
