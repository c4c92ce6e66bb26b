package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var errEmptyOutput = errors.New("no output")

// Runner executes an external program, feeding stdin and collecting its
// output.
type Runner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	return f(ctx, stdin, name, args...)
}

// ExecRunner runs programs with os/exec. The process is killed when ctx is
// done.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ToolError reports a failed tool run. Diagnostic returns the tool's own
// message, which glshim copies into its TranslationError.
type ToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if d := e.Diagnostic(); d != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, d)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Diagnostic returns the trimmed standard error of the tool.
func (e *ToolError) Diagnostic() string {
	return strings.TrimSpace(e.Stderr)
}

func run(ctx context.Context, r Runner, stdin []byte, tool, path string, args ...string) ([]byte, error) {
	if r == nil {
		r = ExecRunner{}
	}
	if path == "" {
		path = tool
	}
	stdout, stderr, err := r.Run(ctx, stdin, path, args...)
	if err != nil {
		return nil, &ToolError{Tool: tool, Stderr: string(stderr), Err: err}
	}
	if len(stdout) == 0 {
		return nil, &ToolError{Tool: tool, Stderr: string(stderr), Err: errEmptyOutput}
	}
	return stdout, nil
}
