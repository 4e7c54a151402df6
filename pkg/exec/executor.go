// Package exec provides abstractions for command execution.
// Backends shell out to pass, gpg and wslpath through a CommandExecutor so
// tests can script the toolchain's output without installing it.
package exec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sort"
)

// Options tunes a single invocation.
type Options struct {
	// Env holds variables added on top of the current process environment.
	Env map[string]string

	// Visible runs the command attached to a terminal (a new console on
	// Windows) instead of capturing its output. Nothing is captured in this
	// mode; the returned stdout and stderr are nil.
	Visible bool
}

// CommandExecutor defines an interface for executing external commands.
type CommandExecutor interface {
	// Execute runs a command with captured output and the inherited environment.
	Execute(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

	// ExecuteWithOptions runs a command with extra environment and an
	// optional visible terminal.
	ExecuteWithOptions(ctx context.Context, opts Options, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// RealCommandExecutor executes actual commands using os/exec.
type RealCommandExecutor struct{}

// Execute runs an actual command.
func (r *RealCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return r.ExecuteWithOptions(ctx, Options{}, name, args...)
}

// ExecuteWithOptions runs an actual command with the given options.
func (r *RealCommandExecutor) ExecuteWithOptions(ctx context.Context, opts Options, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(opts.Env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), opts.Env)
	}

	if opts.Visible {
		release := attachTerminal(cmd)
		defer release()
		return nil, nil, cmd.Run()
	}

	hideWindow(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// MergeEnv returns base with the entries of extra appended. Later entries
// win when the child process looks a variable up, so extra overrides base.
// Keys are appended in sorted order to keep invocations reproducible.
func MergeEnv(base []string, extra map[string]string) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(extra))
	env = append(env, base...)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// DefaultExecutor returns the standard production executor.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}
