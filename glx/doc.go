// Package glx manages the lifecycle of one OpenGL context on an X11
// display.
//
// A Context walks through five fallible native stages: open the display
// connection, choose a visual (RGBA, 24-bit depth, double buffered), create
// a GLX context for it, create an unmapped window with its colormap, and
// bind the context to the window on the calling thread. A failure at any
// stage releases everything acquired so far and returns a *StageError whose
// Code is the stage number.
//
// The native calls go through the Native interface. The default backend
// talks to Xlib and GLX, through goffi when built with CGO_ENABLED=0 and
// through cgo otherwise; a cgo build with -tags glfw selects a go-gl/glfw
// backend instead. WithDisplay picks the X display to open. Tests use glxtest.Native, which records every
// call and can fail any of them.
//
// Basic usage:
//
//	ctx := glx.New(glx.Default(), glx.WithDisplay(":0"))
//	if err := ctx.Create(100, 100); err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Destroy()
//
//	version, _ := ctx.VersionString()
package glx
