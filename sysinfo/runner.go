package sysinfo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/gfxhealth"
)

// DefaultTimeout bounds a single command when Runner.Timeout is zero.
const DefaultTimeout = 5 * time.Second

var (
	// ErrNotFound is returned when the command is not installed.
	ErrNotFound = errors.New("sysinfo: command not found")

	// ErrCommandFailed is returned when the command exits non-zero.
	ErrCommandFailed = errors.New("sysinfo: command failed")

	// ErrTimeout is returned when the command outlives its timeout.
	ErrTimeout = errors.New("sysinfo: command timed out")
)

// Commander runs an external command and returns its trimmed stdout.
type Commander interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Runner executes external commands.
type Runner struct {
	// LogDir receives one "<command>.log" transcript per command name.
	// Empty disables transcripts.
	LogDir string

	// Timeout bounds each command. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Run executes name with args and returns its trimmed stdout.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	gfxhealth.Logger().Debug("sysinfo: command finished",
		"cmd", commandLine(name, args), "duration", time.Since(start), "err", runErr)

	if err := r.transcript(name, args, stdout.Bytes(), stderr.Bytes()); err != nil {
		gfxhealth.Logger().Warn("sysinfo: transcript not written", "cmd", name, "err", err)
	}

	switch {
	case runErr == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", fmt.Errorf("%w: %q hanged for %v", ErrTimeout, commandLine(name, args), timeout)
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", fmt.Errorf("%w: %q exited with code %d: %s", ErrCommandFailed,
				commandLine(name, args), exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: %q: %w", ErrCommandFailed, commandLine(name, args), runErr)
	}
	return strings.TrimSpace(stdout.String()), nil
}

const rule = "========================================"

func (r *Runner) transcript(name string, args []string, stdout, stderr []byte) error {
	if r.LogDir == "" {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(r.LogDir, filepath.Base(name)+".log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var b bytes.Buffer
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, commandLine(name, args))
	fmt.Fprintln(&b, "stdout:")
	b.Write(stdout)
	fmt.Fprintln(&b, "stderr:")
	b.Write(stderr)
	fmt.Fprintf(&b, "\n%s\n", rule)
	_, err = f.Write(b.Bytes())
	return err
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
