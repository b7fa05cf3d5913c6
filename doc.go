// Package gfxhealth checks whether a Linux machine can create and use an
// OpenGL context.
//
// # Overview
//
// The library is organized around the lifecycle of a single context:
//
//	ctx := glx.New(glx.Default())       // X11 + GLX native layer
//	if err := ctx.Create(100, 100); err != nil {
//	    report := gfxhealth.ReportOf(err) // report.Code is the failing stage
//	    ...
//	}
//	defer ctx.Destroy()
//
//	caps, err := glapi.Load(glapi.Default()) // resolve entry points
//	...
//	if err := selftest.Run(caps); err != nil {
//	    // err lists every failed GL call: "glDrawArrays(...) : GL_INVALID_OPERATION|..."
//	}
//
// Every fallible operation returns a Go error. [ReportOf] turns any of those
// errors into the numeric code plus message form that the command line tool
// prints and archives.
//
// # Architecture
//
//   - glx: context manager over a pluggable native windowing layer
//   - glapi: OpenGL entry point loading and the GL error table
//   - selftest: the diagnostic triangle run
//   - probe: X server, Vulkan adapter and shader toolchain probes
//   - sysinfo: OS, PCI and driver information
//   - health: ordered health checks built from the packages above
//   - report: YAML summary and tar.gz archive
//
// # Threading
//
// OpenGL contexts are bound to an OS thread. glx.Context pins the calling
// goroutine to its thread between Create and Destroy; everything in between
// must run on that goroutine.
package gfxhealth

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
