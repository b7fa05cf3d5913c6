//go:build glfw && cgo

package glx

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	Register(NativeGLFW, func() Native { return newGLFWNative() })
}

// glfwNative maps the Create stages onto glfw. glfw creates a context
// together with its window, so CreateContext makes a hidden 1x1 window,
// CreateWindow resizes it and DestroyContext destroys both. Colormaps and
// visuals are managed by glfw; their handles are placeholders.
//
// glfw must be driven from the main thread: programs built with this
// backend lock the main goroutine in init.
type glfwNative struct {
	windows map[GLContext]*glfw.Window
	next    uintptr
	loaded  bool
}

func newGLFWNative() *glfwNative {
	return &glfwNative{windows: make(map[GLContext]*glfw.Window)}
}

func (*glfwNative) Name() string { return NativeGLFW }

func (n *glfwNative) OpenDisplay(name string) (Display, error) {
	// GLFW only reads the display name from the environment.
	if name != "" {
		if err := os.Setenv("DISPLAY", name); err != nil {
			return 0, err
		}
	}
	if err := glfw.Init(); err != nil {
		return 0, err
	}
	return Display(1), nil
}

func (n *glfwNative) CloseDisplay(Display) error {
	glfw.Terminate()
	n.loaded = false
	return nil
}

func (n *glfwNative) ChooseVisual(_ Display, attrs VisualAttribs) (Visual, error) {
	if !attrs.RGBA {
		return 0, errors.New("glfw only provides RGBA framebuffers")
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Focused, glfw.False)
	glfw.WindowHint(glfw.DepthBits, attrs.DepthSize)
	if attrs.DoubleBuffer {
		glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	} else {
		glfw.WindowHint(glfw.DoubleBuffer, glfw.False)
	}
	return Visual(1), nil
}

func (n *glfwNative) FreeVisual(Visual) error { return nil }

func (n *glfwNative) CreateContext(Display, Visual, bool) (GLContext, error) {
	win, err := glfw.CreateWindow(1, 1, "gfxhealth", nil, nil)
	if err != nil {
		return 0, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}
	n.next++
	c := GLContext(n.next)
	n.windows[c] = win
	return c, nil
}

func (n *glfwNative) DestroyContext(_ Display, c GLContext) error {
	win, ok := n.windows[c]
	if !ok {
		return fmt.Errorf("unknown context %d", c)
	}
	win.Destroy()
	delete(n.windows, c)
	return nil
}

func (n *glfwNative) CreateColormap(Display, Visual) (Colormap, error) { return Colormap(1), nil }

func (n *glfwNative) FreeColormap(Display, Colormap) error { return nil }

// CreateWindow resizes the window created with the most recent context.
func (n *glfwNative) CreateWindow(_ Display, _ Visual, _ Colormap, width, height int, _ EventMask) (Window, error) {
	c := GLContext(n.next)
	win, ok := n.windows[c]
	if !ok {
		return 0, errors.New("no context window to resize")
	}
	win.SetSize(width, height)
	return Window(c), nil
}

// DestroyWindow is a no-op: the window goes away with its context.
func (n *glfwNative) DestroyWindow(Display, Window) error { return nil }

func (n *glfwNative) MakeCurrent(_ Display, w Window, _ GLContext) error {
	win, ok := n.windows[GLContext(w)]
	if !ok {
		return fmt.Errorf("unknown window %d", w)
	}
	win.MakeContextCurrent()
	return nil
}

func (n *glfwNative) ReleaseCurrent(Display) error {
	glfw.DetachCurrentContext()
	n.loaded = false
	return nil
}

// QueryString needs GL entry points, which glfw does not expose; they are
// resolved on first use.
func (n *glfwNative) QueryString(name StringName) (string, error) {
	if !n.loaded {
		if err := gl.Init(); err != nil {
			return "", fmt.Errorf("gl.Init failed: %w", err)
		}
		n.loaded = true
	}
	s := gl.GetString(uint32(name))
	if s == nil {
		return "", fmt.Errorf("glGetString(0x%04X) returned NULL", uint32(name))
	}
	return gl.GoStr(s), nil
}
