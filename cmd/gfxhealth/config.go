package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gogpu/gfxhealth/glapi"
	"github.com/gogpu/gfxhealth/health"
	"gopkg.in/yaml.v3"
)

// envPrefix prefixes the environment variables that override defaults.
const envPrefix = "GFXHEALTH_"

// workDirName is the working directory created inside the temp dir.
const workDirName = "gfx-health-report"

// config holds the settings of one run. Precedence, lowest first:
// defaults, config file, environment, command line.
type config struct {
	ReportDir string        `yaml:"report_dir"`
	TempDir   string        `yaml:"temp_dir"`
	NoClear   bool          `yaml:"no_clear"`
	MinGL     string        `yaml:"min_gl"`
	Timeout   time.Duration `yaml:"timeout"`
	Verbose   bool          `yaml:"verbose"`
	Display   string        `yaml:"display"`
	Native    string        `yaml:"native"`

	minMajor, minMinor int
}

func defaultConfig() config {
	return config{
		ReportDir: os.TempDir(),
		TempDir:   os.TempDir(),
		MinGL:     fmt.Sprintf("%d.%d", health.DefaultMinMajor, health.DefaultMinMinor),
		Timeout:   5 * time.Second,
	}
}

// workDir is the directory the run writes into.
func (c *config) workDir() string {
	return filepath.Join(c.TempDir, workDirName)
}

// parseConfig builds the configuration from args and the environment.
// getenv is os.Getenv outside tests.
func parseConfig(args []string, getenv func(string) string, stderr io.Writer) (*config, error) {
	def := defaultConfig()

	fs := flag.NewFlagSet("gfxhealth", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		reportDir  = fs.String("report-dir", def.ReportDir, "directory to place the report archive in")
		tempDir    = fs.String("temp-dir", def.TempDir, "directory to store temporary files in")
		noClear    = fs.Bool("no-clear", false, "keep the working directory after the run")
		configFile = fs.String("config", getenv(envPrefix+"CONFIG"), "YAML config file")
		minGL      = fs.String("min-gl", def.MinGL, "minimum OpenGL version")
		timeout    = fs.Duration("timeout", def.Timeout, "timeout of external commands and probes")
		verbose    = fs.Bool("verbose", false, "log debug messages")
		display    = fs.String("display", "", "X display to probe, $DISPLAY when empty")
		native     = fs.String("native", "", "windowing backend, best available when empty")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}

	cfg := def
	if *configFile != "" {
		if err := cfg.loadFile(*configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(getenv); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "report-dir":
			cfg.ReportDir = *reportDir
		case "temp-dir":
			cfg.TempDir = *tempDir
		case "no-clear":
			cfg.NoClear = *noClear
		case "min-gl":
			cfg.MinGL = *minGL
		case "timeout":
			cfg.Timeout = *timeout
		case "verbose":
			cfg.Verbose = *verbose
		case "display":
			cfg.Display = *display
		case "native":
			cfg.Native = *native
		}
	})

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) loadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // config path comes from the user
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

func (c *config) loadEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	str("REPORT_DIR", &c.ReportDir)
	str("TEMP_DIR", &c.TempDir)
	str("MIN_GL", &c.MinGL)
	str("DISPLAY", &c.Display)
	str("NATIVE", &c.Native)

	var errs []error
	boolean := func(name string, dst *bool) {
		if v := getenv(envPrefix + name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	boolean("NO_CLEAR", &c.NoClear)
	boolean("VERBOSE", &c.Verbose)

	if v := getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err))
		} else {
			c.Timeout = d
		}
	}
	return errors.Join(errs...)
}

func (c *config) validate() error {
	major, minor, err := glapi.ParseVersion(c.MinGL)
	if err != nil {
		return fmt.Errorf("min-gl: %w", err)
	}
	c.minMajor, c.minMinor = major, minor
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.TempDir == "" || c.ReportDir == "" {
		return errors.New("temp-dir and report-dir must not be empty")
	}
	return nil
}
