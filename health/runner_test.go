package health

import (
	"context"
	"slices"
	"testing"
)

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) Started(label string) {
	o.events = append(o.events, "start "+label)
}

func (o *recordingObserver) Done(r *Result) {
	o.events = append(o.events, "done "+r.Label+" "+r.Status.String())
}

type stubCheck struct {
	label string
	fn    func(*Result)
}

func (c stubCheck) Label() string { return c.label }

func (c stubCheck) Run(_ context.Context, _ *Env, r *Result) {
	if c.fn != nil {
		c.fn(r)
	}
}

func TestRunnerRun(t *testing.T) {
	obs := &recordingObserver{}
	runner := NewRunner(
		stubCheck{label: "a"},
		stubCheck{label: "b", fn: func(r *Result) { r.Warn("w") }},
		stubCheck{label: "c", fn: func(r *Result) { r.Fail("f") }},
	).WithObserver(obs)

	results := runner.Run(context.Background(), newTestEnv(t).Env)
	if len(results) != 3 {
		t.Fatalf("Run() returned %d results, want 3", len(results))
	}
	want := []string{
		"start a", "done a ok",
		"start b", "done b warn",
		"start c", "done c fail",
	}
	if !slices.Equal(obs.events, want) {
		t.Errorf("events = %q, want %q", obs.events, want)
	}
	if Worst(results) != StatusFail {
		t.Errorf("Worst() = %v, want fail", Worst(results))
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(
		stubCheck{label: "a", fn: func(*Result) { cancel() }},
		stubCheck{label: "b"},
	)
	results := runner.Run(ctx, newTestEnv(t).Env)
	if len(results) != 1 || results[0].Label != "a" {
		t.Errorf("Run() = %d results, want only the first", len(results))
	}
}

func TestDefaultChecksOrder(t *testing.T) {
	var labels []string
	for _, c := range DefaultChecks() {
		labels = append(labels, c.Label())
	}
	want := []string{
		"Checking GPU",
		"Checking Vulkan adapters",
		"Checking X server",
		"Checking OpenGL info",
		"Checking OpenGL context",
		"Checking OpenGL functions loading",
		"Checking OpenGL basic function calls",
		"Checking shader toolchain",
	}
	if !slices.Equal(labels, want) {
		t.Errorf("labels = %q, want %q", labels, want)
	}
}

func TestCollectSystem(t *testing.T) {
	e := newTestEnv(t)
	e.Runner = fakeCommands{
		"dpkg -l": "ii  mesa-vulkan-drivers 23.2.1 amd64 Mesa Vulkan graphics drivers",
		"journalctl -b -p err --no-pager -q": "line one\nline two",
	}
	CollectSystem(context.Background(), e.Env)

	if len(e.Facts.Packages) != 1 || e.Facts.Packages[0].Name != "mesa-vulkan-drivers" {
		t.Errorf("Packages = %+v", e.Facts.Packages)
	}
	if e.Facts.JournalErrors != 2 {
		t.Errorf("JournalErrors = %d, want 2", e.Facts.JournalErrors)
	}
	if e.Facts.OS.Name == "" {
		t.Error("OS not collected")
	}
}
