package buildrun

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Executor runs an external command and returns its stdout.
type Executor interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecError carries the stderr of a failed command.
type ExecError struct {
	Err    error
	Stderr string
}

func (e *ExecError) Error() string {
	if e.Stderr == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExecExecutor runs commands with os/exec. Env, when set, is appended to
// the inherited environment. MergeStderr also returns stderr in the
// output, for tools such as the compiler's -S listing that report there.
type ExecExecutor struct {
	Env         []string
	MergeStderr bool
}

// Run executes name with args in dir. The process is killed when ctx ends.
func (e ExecExecutor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(e.Env) > 0 {
		cmd.Env = append(cmd.Environ(), e.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if e.MergeStderr {
		cmd.Stderr = io.MultiWriter(&stdout, &stderr)
	}

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &ExecError{Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}
	return stdout.Bytes(), nil
}
