package health

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/gogpu/gfxhealth"
	"github.com/gogpu/gfxhealth/glapi"
	"github.com/gogpu/gfxhealth/glx"
	"github.com/gogpu/gfxhealth/selftest"
	"github.com/gogpu/gfxhealth/sysinfo"
)

// Window sizes used by the GL checks.
const (
	probeSize    = 1
	snapshotSize = 64
)

// SnapshotFile is the name of the framebuffer snapshot in SnapshotDir.
const SnapshotFile = "framebuffer.png"

// withContext creates a context of the given size, runs fn and destroys
// the context. Creation failures are recorded on r and fn is skipped.
func withContext(env *Env, size int, r *Result, fn func(c *glx.Context)) {
	c := glx.New(env.Native, glx.WithDisplay(env.Display))
	if err := c.Create(size, size); err != nil {
		r.Fail("%s", gfxhealth.ReportOf(err).Message)
		return
	}
	defer func() {
		if err := c.Destroy(); err != nil {
			r.Fail("%s", gfxhealth.ReportOf(err).Message)
		}
	}()
	fn(c)
}

// OpenGLInfoCheck reads the driver strings and validates the version.
type OpenGLInfoCheck struct{}

func (OpenGLInfoCheck) Label() string { return "Checking OpenGL info" }

func (OpenGLInfoCheck) Run(_ context.Context, env *Env, r *Result) {
	withContext(env, probeSize, r, func(c *glx.Context) {
		info, err := c.Info()
		if err != nil {
			r.Fail("Failed to get OpenGL info: %v", err)
		}
		env.Facts.GL = &info

		renderer := strings.ToLower(info.Renderer)
		if strings.Contains(renderer, "llvmpipe") || strings.Contains(renderer, "softpipe") {
			r.Warn("Software renderer detected: '%s'", info.Renderer)
		}

		if info.Version == "" {
			r.Fail("Failed to get OpenGL version")
			return
		}
		v, err := sysinfo.ParseGLVersion(info.Version)
		if err != nil {
			r.Fail("Failed to parse OpenGL version: %v", err)
			return
		}
		env.Facts.GLVersion = &v
		if v.Less(env.MinMajor, env.MinMinor) {
			r.Fail("OpenGL version too low: %s (%s)", v.Pair(), v.String)
		}
	})
}

// OpenGLContextCheck creates and destroys a context.
type OpenGLContextCheck struct{}

func (OpenGLContextCheck) Label() string { return "Checking OpenGL context" }

func (OpenGLContextCheck) Run(_ context.Context, env *Env, r *Result) {
	withContext(env, probeSize, r, func(*glx.Context) {})
}

// OpenGLLoadCheck loads the GL entry points and compares the loaded
// version with the minimum and with the driver's version string.
type OpenGLLoadCheck struct{}

func (OpenGLLoadCheck) Label() string { return "Checking OpenGL functions loading" }

func (OpenGLLoadCheck) Run(_ context.Context, env *Env, r *Result) {
	withContext(env, probeSize, r, func(c *glx.Context) {
		caps, err := glapi.Load(env.Loader)
		if err != nil {
			r.Fail("%s", gfxhealth.ReportOf(err).Message)
			return
		}
		env.Facts.LoadedVersion = caps.String()

		if !caps.AtLeast(env.MinMajor, env.MinMinor) {
			r.Fail("Loaded OpenGL version too low: %s", caps)
		}
		if v := env.Facts.GLVersion; v != nil && !v.Equal(caps.Major(), caps.Minor()) {
			vs, _ := c.VersionString()
			r.Warn("Loaded OpenGL version mismatch:\n\tloaded: %s  '%s'\n\tdriver: %s  '%s'",
				caps, vs, v.Pair(), v.String)
		}
	})
}

// OpenGLCallCheck runs the self-test and saves a framebuffer snapshot.
type OpenGLCallCheck struct{}

func (OpenGLCallCheck) Label() string { return "Checking OpenGL basic function calls" }

func (OpenGLCallCheck) Run(_ context.Context, env *Env, r *Result) {
	withContext(env, snapshotSize, r, func(*glx.Context) {
		caps, err := glapi.Load(env.Loader)
		if err != nil {
			r.Fail("%s", gfxhealth.ReportOf(err).Message)
			return
		}

		if err := selftest.Run(caps); err != nil {
			var f *selftest.Failures
			if errors.As(err, &f) {
				for _, rec := range f.Records {
					r.Fail("%s", rec)
				}
			} else {
				r.Fail("%v", err)
			}
		}

		if env.SnapshotDir == "" {
			return
		}
		img, err := selftest.Snapshot(caps.API(), snapshotSize, snapshotSize)
		if err != nil {
			r.Warn("Framebuffer snapshot failed: %v", err)
			return
		}
		path := filepath.Join(env.SnapshotDir, SnapshotFile)
		if err := selftest.SavePNG(img, path); err != nil {
			r.Warn("Framebuffer snapshot not saved: %v", err)
			return
		}
		env.Facts.Snapshot = path
	})
}
