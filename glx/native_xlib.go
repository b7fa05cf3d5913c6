//go:build linux && cgo && !glfw

package glx

/*
#cgo LDFLAGS: -lX11 -lGL
#include <stdint.h>
#include <stdlib.h>
#include <string.h>
#include <X11/Xlib.h>
#include <X11/Xutil.h>
#include <GL/gl.h>
#include <GL/glx.h>

static int trappedError;

static int recordError(Display *d, XErrorEvent *e) {
	if (!trappedError) {
		trappedError = e->error_code;
	}
	return 0;
}

static uintptr_t recorder(void) {
	return (uintptr_t)recordError;
}

static uintptr_t swapHandler(uintptr_t h) {
	return (uintptr_t)XSetErrorHandler((XErrorHandler)h);
}

static int takeError(void) {
	int code = trappedError;
	trappedError = 0;
	return code;
}

static Colormap createColormap(Display *d, XVisualInfo *vi) {
	return XCreateColormap(d, RootWindow(d, vi->screen), vi->visual, AllocNone);
}

static Window createWindow(Display *d, XVisualInfo *vi, Colormap cmap,
                           unsigned int w, unsigned int h, long mask) {
	XSetWindowAttributes swa;
	memset(&swa, 0, sizeof(swa));
	swa.colormap = cmap;
	swa.event_mask = mask;
	return XCreateWindow(d, RootWindow(d, vi->screen), 0, 0, w, h, 0,
	                     vi->depth, InputOutput, vi->visual,
	                     CWColormap | CWEventMask, &swa);
}

static const char *glString(GLenum name) {
	return (const char *)glGetString(name);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"os"
	"unsafe"
)

func init() {
	Register(NativeXlib, func() Native { return newXlibNative() })
}

// xlibNative drives Xlib and GLX through cgo.
type xlibNative struct {
	trap errorTrap
}

func newXlibNative() *xlibNative {
	return &xlibNative{trap: errorTrap{
		recorder: uintptr(C.recorder()),
		swap: func(h uintptr) uintptr {
			return uintptr(C.swapHandler(C.uintptr_t(h)))
		},
		sync: func(d Display) {
			C.XSync(cDisplay(d), C.False)
		},
		take: func() int {
			return int(C.takeError())
		},
	}}
}

func (*xlibNative) Name() string { return NativeXlib }

func cDisplay(d Display) *C.Display {
	return (*C.Display)(unsafe.Pointer(uintptr(d)))
}

func cVisual(v Visual) *C.XVisualInfo {
	return (*C.XVisualInfo)(unsafe.Pointer(uintptr(v)))
}

func cContext(c GLContext) C.GLXContext {
	return C.GLXContext(unsafe.Pointer(uintptr(c)))
}

// untrap ends the trap and converts a recorded code into an error with the
// server's description.
func (n *xlibNative) untrap(d Display) error {
	code := n.trap.end(d)
	if code == 0 {
		return nil
	}
	var buf [256]C.char
	C.XGetErrorText(cDisplay(d), C.int(code), &buf[0], C.int(len(buf)))
	return fmt.Errorf("X error %d: %s", code, C.GoString(&buf[0]))
}

func (*xlibNative) OpenDisplay(name string) (Display, error) {
	var cname *C.char
	if name != "" {
		cname = C.CString(name)
		defer C.free(unsafe.Pointer(cname))
	} else {
		name = os.Getenv("DISPLAY")
	}
	d := C.XOpenDisplay(cname)
	if d == nil {
		return 0, fmt.Errorf("XOpenDisplay(%q) returned NULL", name)
	}
	return Display(uintptr(unsafe.Pointer(d))), nil
}

func (*xlibNative) CloseDisplay(d Display) error {
	C.XCloseDisplay(cDisplay(d))
	return nil
}

func (*xlibNative) ChooseVisual(d Display, attrs VisualAttribs) (Visual, error) {
	list := visualAttribList(attrs)
	dpy := cDisplay(d)
	vi := C.glXChooseVisual(dpy, C.XDefaultScreen(dpy), (*C.int)(unsafe.Pointer(&list[0])))
	if vi == nil {
		return 0, fmt.Errorf("glXChooseVisual found no visual with %+v", attrs)
	}
	return Visual(uintptr(unsafe.Pointer(vi))), nil
}

func (*xlibNative) FreeVisual(v Visual) error {
	C.XFree(unsafe.Pointer(cVisual(v)))
	return nil
}

func (n *xlibNative) CreateContext(d Display, v Visual, direct bool) (GLContext, error) {
	dpy := cDisplay(d)
	n.trap.begin()
	ctx := C.glXCreateContext(dpy, cVisual(v), nil, C.Bool(boolInt(direct)))
	if err := n.untrap(d); err != nil {
		if ctx != nil {
			C.glXDestroyContext(dpy, ctx)
		}
		return 0, err
	}
	if ctx == nil {
		return 0, errors.New("glXCreateContext returned NULL")
	}
	return GLContext(uintptr(unsafe.Pointer(ctx))), nil
}

func (n *xlibNative) DestroyContext(d Display, c GLContext) error {
	n.trap.begin()
	C.glXDestroyContext(cDisplay(d), cContext(c))
	return n.untrap(d)
}

func (n *xlibNative) CreateColormap(d Display, v Visual) (Colormap, error) {
	n.trap.begin()
	cm := C.createColormap(cDisplay(d), cVisual(v))
	if err := n.untrap(d); err != nil {
		return 0, err
	}
	return Colormap(cm), nil
}

func (n *xlibNative) FreeColormap(d Display, cm Colormap) error {
	n.trap.begin()
	C.XFreeColormap(cDisplay(d), C.Colormap(cm))
	return n.untrap(d)
}

func (n *xlibNative) CreateWindow(d Display, v Visual, cm Colormap, width, height int, events EventMask) (Window, error) {
	dpy := cDisplay(d)
	n.trap.begin()
	w := C.createWindow(dpy, cVisual(v), C.Colormap(cm), C.uint(width), C.uint(height), C.long(events))
	if err := n.untrap(d); err != nil {
		if w != 0 {
			C.XDestroyWindow(dpy, w)
		}
		return 0, err
	}
	if w == 0 {
		return 0, errors.New("XCreateWindow returned no window")
	}
	return Window(w), nil
}

func (n *xlibNative) DestroyWindow(d Display, w Window) error {
	n.trap.begin()
	C.XDestroyWindow(cDisplay(d), C.Window(w))
	return n.untrap(d)
}

func (n *xlibNative) MakeCurrent(d Display, w Window, c GLContext) error {
	n.trap.begin()
	ok := C.glXMakeCurrent(cDisplay(d), C.GLXDrawable(w), cContext(c))
	if err := n.untrap(d); err != nil {
		return err
	}
	if ok == 0 {
		return errors.New("glXMakeCurrent returned False")
	}
	return nil
}

func (*xlibNative) ReleaseCurrent(d Display) error {
	if C.glXMakeCurrent(cDisplay(d), 0, nil) == 0 {
		return errors.New("glXMakeCurrent(None, NULL) returned False")
	}
	return nil
}

func (*xlibNative) QueryString(name StringName) (string, error) {
	s := C.glString(C.GLenum(name))
	if s == nil {
		return "", fmt.Errorf("glGetString(0x%04X) returned NULL", uint32(name))
	}
	return C.GoString(s), nil
}

func boolInt(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
