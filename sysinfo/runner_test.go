package sysinfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunnerRun(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{LogDir: dir}

	out, err := r.Run(context.Background(), "echo", "hello", "world")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "hello world" {
		t.Errorf("Run() = %q, want %q", out, "hello world")
	}

	// A second run appends to the same transcript.
	if _, err := r.Run(context.Background(), "echo", "again"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "echo.log"))
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	log := string(data)
	for _, want := range []string{"echo hello world\n", "stdout:\nhello world\n", "echo again\n", "stderr:\n"} {
		if !strings.Contains(log, want) {
			t.Errorf("transcript missing %q:\n%s", want, log)
		}
	}
	if n := strings.Count(log, rule); n != 4 {
		t.Errorf("transcript has %d rules, want 4", n)
	}
}

func TestRunnerNotFound(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), "gfxhealth-no-such-command")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Run() error = %v, want ErrNotFound", err)
	}
}

func TestRunnerFailure(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("Run() error = %v, want ErrCommandFailed", err)
	}
	if !strings.Contains(err.Error(), "exited with code 3") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Run() error = %q, want exit code and stderr", err)
	}
}

func TestRunnerTimeout(t *testing.T) {
	r := &Runner{Timeout: 50 * time.Millisecond}
	_, err := r.Run(context.Background(), "sleep", "5")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Run() error = %v, want ErrTimeout", err)
	}
}

func TestCollectOS(t *testing.T) {
	o, err := CollectOS()
	if err != nil {
		t.Fatalf("CollectOS() error = %v", err)
	}
	if o.Name == "" || o.Arch == "" {
		t.Errorf("CollectOS() = %+v, want name and arch", o)
	}
}
