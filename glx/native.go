package glx

// Opaque native handles. The zero value of each means "not acquired".
type (
	// Display is a connection to the windowing system.
	Display uintptr

	// Visual is a pixel format descriptor chosen for the display.
	Visual uintptr

	// GLContext is a native graphics context.
	GLContext uintptr

	// Colormap is a colormap allocated for a visual.
	Colormap uintptr

	// Window is a drawable the context is bound to.
	Window uintptr
)

// VisualAttribs lists the pixel format requirements passed to ChooseVisual.
type VisualAttribs struct {
	// RGBA requests true color rendering.
	RGBA bool

	// DepthSize is the minimum depth buffer size in bits.
	DepthSize int

	// DoubleBuffer requests a double buffered visual.
	DoubleBuffer bool
}

// DefaultVisualAttribs returns the format used by Create: color rendering,
// a 24-bit depth buffer and double buffering.
func DefaultVisualAttribs() VisualAttribs {
	return VisualAttribs{
		RGBA:         true,
		DepthSize:    24,
		DoubleBuffer: true,
	}
}

// EventMask selects the window events the display should deliver.
// Values match the X11 protocol masks.
type EventMask int64

const (
	// KeyPressMask subscribes to key press events.
	KeyPressMask EventMask = 1 << 0

	// ExposureMask subscribes to expose events.
	ExposureMask EventMask = 1 << 15
)

// StringName selects a driver string for Native.QueryString.
// Values match the OpenGL enums.
type StringName uint32

const (
	StringVendor                 StringName = 0x1F00
	StringRenderer               StringName = 0x1F01
	StringVersion                StringName = 0x1F02
	StringShadingLanguageVersion StringName = 0x8B8C
)

// Native is the windowing system layer a Context drives.
//
// Implementations are not safe for concurrent use and may require every
// call to happen on the same OS thread.
type Native interface {
	// Name returns the backend identifier (e.g., "xlib", "glfw").
	Name() string

	// OpenDisplay connects to the named display. An empty name selects
	// the $DISPLAY environment variable.
	OpenDisplay(name string) (Display, error)
	CloseDisplay(d Display) error

	ChooseVisual(d Display, attrs VisualAttribs) (Visual, error)
	FreeVisual(v Visual) error

	// CreateContext creates a context with no share context.
	// direct requests direct rendering when available.
	CreateContext(d Display, v Visual, direct bool) (GLContext, error)
	DestroyContext(d Display, c GLContext) error

	CreateColormap(d Display, v Visual) (Colormap, error)
	FreeColormap(d Display, cm Colormap) error

	// CreateWindow creates an unmapped window of the given size.
	CreateWindow(d Display, v Visual, cm Colormap, width, height int, events EventMask) (Window, error)
	DestroyWindow(d Display, w Window) error

	MakeCurrent(d Display, w Window, c GLContext) error

	// ReleaseCurrent unbinds whatever context is current on the thread.
	ReleaseCurrent(d Display) error

	// QueryString queries a driver string from the current context.
	QueryString(name StringName) (string, error)
}
