// Command gfxhealth checks the graphics stack of a Linux machine and packs
// its findings into a report archive.
//
// Usage:
//
//	gfxhealth [--report-dir DIR] [--temp-dir DIR] [--no-clear] [--config FILE]
//	          [--min-gl 4.3] [--timeout 5s] [--verbose] [--display :0]
//	          [--native xlib|glfw]
//
// Settings can also come from a YAML file, a .env file in the current
// directory or GFXHEALTH_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gogpu/gfxhealth"
	"github.com/gogpu/gfxhealth/glapi"
	"github.com/gogpu/gfxhealth/glx"
	"github.com/gogpu/gfxhealth/health"
	"github.com/gogpu/gfxhealth/report"
	"github.com/gogpu/gfxhealth/sysinfo"
	"github.com/joho/godotenv"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
	exitError  = 3
)

func init() {
	// GL contexts and glfw are bound to the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Warning: .env not loaded: %v\n", err)
	}

	cfg, err := parseConfig(args, os.Getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	env, err := newEnv(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con := newConsole(stdout, os.Getenv("NO_COLOR") != "")
	code, err := execute(ctx, cfg, env, health.DefaultChecks(), con)
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	return code
}

// newEnv builds the run environment for the configured backend.
func newEnv(cfg *config) (*health.Env, error) {
	native := glx.Default()
	if cfg.Native != "" {
		native = glx.Get(cfg.Native)
		if native == nil {
			return nil, fmt.Errorf("unknown native backend %q, available: %v", cfg.Native, glx.Available())
		}
	}
	env := health.NewEnv(native, glapi.Default())
	env.Runner = &sysinfo.Runner{LogDir: cfg.workDir(), Timeout: cfg.Timeout}
	return env, nil
}

// execute runs checks inside a fresh working directory and writes the
// report archive. The exit code is exitFailed when any check failed.
func execute(ctx context.Context, cfg *config, env *health.Env, checks []health.Check, con *console) (int, error) {
	dir := cfg.workDir()
	if err := resetDir(dir); err != nil {
		return exitError, err
	}
	if !cfg.NoClear {
		defer os.RemoveAll(dir)
	}

	logs := startLogging(dir, cfg.Verbose)
	log := gfxhealth.Logger()
	log.Info("gfxhealth: run started", "dir", dir, "native", env.Native.Name(), "min_gl", cfg.MinGL)

	env.Display = cfg.Display
	env.MinMajor, env.MinMinor = cfg.minMajor, cfg.minMinor
	env.ProbeTimeout = cfg.Timeout
	env.SnapshotDir = dir

	health.CollectSystem(ctx, env)
	results := health.NewRunner(checks...).WithObserver(con).Run(ctx, env)
	status := health.Worst(results)
	log.Info("gfxhealth: run finished", "status", status.String(), "checks", len(results))

	if err := logs.Close(); err != nil {
		fmt.Fprintf(con.w, "Warning: log file not closed: %v\n", err)
	}

	path, err := report.Write(report.New(env.Facts, results), dir, cfg.ReportDir)
	if err != nil {
		return exitError, err
	}
	con.Report(path)

	if err := ctx.Err(); err != nil {
		return exitError, fmt.Errorf("run interrupted: %w", err)
	}
	if status == health.StatusFail {
		return exitFailed, nil
	}
	return exitOK, nil
}

// resetDir recreates dir empty.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
