// Package glapi loads OpenGL entry points for the current context and
// exposes the subset of OpenGL the self-test exercises.
//
// Loading requires a context made current on the calling thread, usually
// by glx.Context.Create:
//
//	caps, err := glapi.Load(glapi.Default())
//	if err != nil {
//	    return err // ErrLoadFunctions
//	}
//	fmt.Println(caps.Major(), caps.Minor())
//
// The API interface mirrors the C entry points closely so that call sites
// read like the OpenGL they drive. Default returns the binding of the
// build: github.com/go-gl/gl with cgo, goffi calls through
// glXGetProcAddressARB with CGO_ENABLED=0. glapitest provides a scripted
// fake.
package glapi
