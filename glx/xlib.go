package glx

// Xlib and GLX protocol values shared by the Xlib backends.
const (
	glxRGBA         = 4
	glxDoubleBuffer = 5
	glxDepthSize    = 12

	xFalse       = 0
	xAllocNone   = 0
	xInputOutput = 1
	xCWEventMask = 1 << 11
	xCWColormap  = 1 << 13
)

// visualAttribList encodes attrs as the None terminated list taken by
// glXChooseVisual.
func visualAttribList(attrs VisualAttribs) []int32 {
	list := make([]int32, 0, 5)
	if attrs.RGBA {
		list = append(list, glxRGBA)
	}
	list = append(list, glxDepthSize, int32(attrs.DepthSize))
	if attrs.DoubleBuffer {
		list = append(list, glxDoubleBuffer)
	}
	return append(list, 0)
}

// errorTrap brackets X requests with a handler that records the error
// code instead of exiting the process, which is what the default Xlib
// handler does.
type errorTrap struct {
	// recorder is the address of the recording handler.
	recorder uintptr

	// swap installs a handler and returns the one it replaced
	// (XSetErrorHandler).
	swap func(handler uintptr) uintptr

	// sync waits until the server has processed every request (XSync).
	sync func(d Display)

	// take returns the recorded error code and clears it.
	take func() int

	previous uintptr
	armed    bool
}

// begin clears any stale code and installs the recorder.
func (t *errorTrap) begin() {
	t.take()
	t.previous = t.swap(t.recorder)
	t.armed = true
}

// end flushes the bracketed requests, puts back the handler that begin
// replaced and returns the first error code raised, or 0.
func (t *errorTrap) end(d Display) int {
	if !t.armed {
		return 0
	}
	t.sync(d)
	t.swap(t.previous)
	t.previous = 0
	t.armed = false
	return t.take()
}
