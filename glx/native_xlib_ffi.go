//go:build linux && !cgo && (amd64 || arm64)

package glx

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/gfxhealth/internal/cabi"
)

func init() {
	Register(NativeXlib, func() Native { return newXlibNative() })
}

// xlib holds the libX11 and libGL entry points, resolved on first use.
var xlib struct {
	once sync.Once
	err  error

	openDisplay     cabi.Func
	closeDisplay    cabi.Func
	defaultScreen   cabi.Func
	rootWindow      cabi.Func
	free            cabi.Func
	sync            cabi.Func
	setErrorHandler cabi.Func
	getErrorText    cabi.Func
	createColormap  cabi.Func
	freeColormap    cabi.Func
	createWindow    cabi.Func
	destroyWindow   cabi.Func

	chooseVisual   cabi.Func
	createContext  cabi.Func
	destroyContext cabi.Func
	makeCurrent    cabi.Func
	getString      cabi.Func
}

func loadXlib() error {
	xlib.once.Do(func() {
		xlib.err = bindXlib()
	})
	return xlib.err
}

func bindXlib() error {
	x11, err := cabi.Open("libX11.so.6", "libX11.so")
	if err != nil {
		return err
	}
	gl, err := cabi.Open("libGL.so.1", "libGL.so")
	if err != nil {
		return err
	}

	// XIDs (Window, Colormap) are unsigned long.
	var (
		ptr = cabi.Ptr
		i32 = cabi.I32
		u32 = cabi.U32
		xid = cabi.U64
	)
	binds := []struct {
		f    *cabi.Func
		lib  unsafe.Pointer
		name string
		ret  *cabi.Type
		args []*cabi.Type
	}{
		{&xlib.openDisplay, x11, "XOpenDisplay", ptr, []*cabi.Type{ptr}},
		{&xlib.closeDisplay, x11, "XCloseDisplay", i32, []*cabi.Type{ptr}},
		{&xlib.defaultScreen, x11, "XDefaultScreen", i32, []*cabi.Type{ptr}},
		{&xlib.rootWindow, x11, "XRootWindow", xid, []*cabi.Type{ptr, i32}},
		{&xlib.free, x11, "XFree", i32, []*cabi.Type{ptr}},
		{&xlib.sync, x11, "XSync", i32, []*cabi.Type{ptr, i32}},
		{&xlib.setErrorHandler, x11, "XSetErrorHandler", ptr, []*cabi.Type{ptr}},
		{&xlib.getErrorText, x11, "XGetErrorText", i32, []*cabi.Type{ptr, i32, ptr, i32}},
		{&xlib.createColormap, x11, "XCreateColormap", xid, []*cabi.Type{ptr, xid, ptr, i32}},
		{&xlib.freeColormap, x11, "XFreeColormap", i32, []*cabi.Type{ptr, xid}},
		{&xlib.createWindow, x11, "XCreateWindow", xid, []*cabi.Type{
			ptr, xid, i32, i32, u32, u32, u32, i32, u32, ptr, xid, ptr,
		}},
		{&xlib.destroyWindow, x11, "XDestroyWindow", i32, []*cabi.Type{ptr, xid}},
		{&xlib.chooseVisual, gl, "glXChooseVisual", ptr, []*cabi.Type{ptr, i32, ptr}},
		{&xlib.createContext, gl, "glXCreateContext", ptr, []*cabi.Type{ptr, ptr, ptr, i32}},
		{&xlib.destroyContext, gl, "glXDestroyContext", cabi.Void, []*cabi.Type{ptr, ptr}},
		{&xlib.makeCurrent, gl, "glXMakeCurrent", i32, []*cabi.Type{ptr, xid, ptr}},
		{&xlib.getString, gl, "glGetString", ptr, []*cabi.Type{u32}},
	}
	for _, b := range binds {
		if err := b.f.Lookup(b.lib, b.name, b.ret, b.args...); err != nil {
			return err
		}
	}
	return nil
}

// xVisualInfo mirrors XVisualInfo on LP64.
type xVisualInfo struct {
	visual       uintptr
	visualID     uint64
	screen       int32
	depth        int32
	class        int32
	redMask      uint64
	greenMask    uint64
	blueMask     uint64
	colormapSize int32
	bitsPerRGB   int32
}

// xSetWindowAttributes mirrors XSetWindowAttributes on LP64.
type xSetWindowAttributes struct {
	backgroundPixmap   uint64
	backgroundPixel    uint64
	borderPixmap       uint64
	borderPixel        uint64
	bitGravity         int32
	winGravity         int32
	backingStore       int32
	backingPlanes      uint64
	backingPixel       uint64
	saveUnder          int32
	eventMask          int64
	doNotPropagateMask int64
	overrideRedirect   int32
	colormap           uint64
	cursor             uint64
}

// xErrorEvent mirrors the head of XErrorEvent on LP64.
type xErrorEvent struct {
	typ         int32
	display     uintptr
	resourceID  uint64
	serial      uint64
	errorCode   uint8
	requestCode uint8
	minorCode   uint8
}

var (
	trappedError atomic.Int32
	recorderOnce sync.Once
	recorderFn   uintptr
)

func recordError(_ unsafe.Pointer, event *xErrorEvent) int32 {
	trappedError.CompareAndSwap(0, int32(event.errorCode))
	return 0
}

func recorder() uintptr {
	recorderOnce.Do(func() {
		recorderFn = cabi.Callback(recordError)
	})
	return recorderFn
}

// xlibNative drives Xlib and GLX through goffi.
type xlibNative struct {
	trap errorTrap
}

func newXlibNative() *xlibNative {
	return &xlibNative{trap: errorTrap{
		swap: func(h uintptr) uintptr {
			var prev uintptr
			xlib.setErrorHandler.Call(unsafe.Pointer(&prev), unsafe.Pointer(&h))
			return prev
		},
		sync: func(d Display) {
			var r int32
			discard := int32(xFalse)
			xlib.sync.Call(unsafe.Pointer(&r), unsafe.Pointer(&d), unsafe.Pointer(&discard))
		},
		take: func() int {
			return int(trappedError.Swap(0))
		},
	}}
}

func (*xlibNative) Name() string { return NativeXlib }

// visualInfo views a visual handle returned by glXChooseVisual.
func visualInfo(v Visual) *xVisualInfo {
	//nolint:govet // v is an Xlib allocation, valid until FreeVisual.
	return (*xVisualInfo)(unsafe.Pointer(uintptr(v)))
}

func (n *xlibNative) untrap(d Display) error {
	code := n.trap.end(d)
	if code == 0 {
		return nil
	}
	buf := make([]byte, 256)
	bufPtr := unsafe.Pointer(&buf[0])
	c, size := int32(code), int32(len(buf))
	var r int32
	xlib.getErrorText.Call(unsafe.Pointer(&r),
		unsafe.Pointer(&d), unsafe.Pointer(&c), unsafe.Pointer(&bufPtr), unsafe.Pointer(&size))
	text, _, _ := bytes.Cut(buf, []byte{0})
	return fmt.Errorf("X error %d: %s", code, text)
}

func (n *xlibNative) OpenDisplay(name string) (Display, error) {
	if err := loadXlib(); err != nil {
		return 0, err
	}
	n.trap.recorder = recorder()

	var namePtr unsafe.Pointer
	var cname []byte
	if name != "" {
		cname = cabi.CString(name)
		namePtr = unsafe.Pointer(&cname[0])
	} else {
		name = os.Getenv("DISPLAY")
	}
	var d Display
	xlib.openDisplay.Call(unsafe.Pointer(&d), unsafe.Pointer(&namePtr))
	runtime.KeepAlive(cname)
	if d == 0 {
		return 0, fmt.Errorf("XOpenDisplay(%q) returned NULL", name)
	}
	return d, nil
}

func (*xlibNative) CloseDisplay(d Display) error {
	var r int32
	xlib.closeDisplay.Call(unsafe.Pointer(&r), unsafe.Pointer(&d))
	return nil
}

func (*xlibNative) ChooseVisual(d Display, attrs VisualAttribs) (Visual, error) {
	var screen int32
	xlib.defaultScreen.Call(unsafe.Pointer(&screen), unsafe.Pointer(&d))

	list := visualAttribList(attrs)
	listPtr := unsafe.Pointer(&list[0])
	var v Visual
	xlib.chooseVisual.Call(unsafe.Pointer(&v),
		unsafe.Pointer(&d), unsafe.Pointer(&screen), unsafe.Pointer(&listPtr))
	runtime.KeepAlive(list)
	if v == 0 {
		return 0, fmt.Errorf("glXChooseVisual found no visual with %+v", attrs)
	}
	return v, nil
}

func (*xlibNative) FreeVisual(v Visual) error {
	var r int32
	xlib.free.Call(unsafe.Pointer(&r), unsafe.Pointer(&v))
	return nil
}

func (n *xlibNative) CreateContext(d Display, v Visual, direct bool) (GLContext, error) {
	var share uintptr
	isDirect := int32(0)
	if direct {
		isDirect = 1
	}
	var ctx GLContext
	n.trap.begin()
	xlib.createContext.Call(unsafe.Pointer(&ctx),
		unsafe.Pointer(&d), unsafe.Pointer(&v), unsafe.Pointer(&share), unsafe.Pointer(&isDirect))
	if err := n.untrap(d); err != nil {
		if ctx != 0 {
			xlib.destroyContext.Call(nil, unsafe.Pointer(&d), unsafe.Pointer(&ctx))
		}
		return 0, err
	}
	if ctx == 0 {
		return 0, errors.New("glXCreateContext returned NULL")
	}
	return ctx, nil
}

func (n *xlibNative) DestroyContext(d Display, c GLContext) error {
	n.trap.begin()
	xlib.destroyContext.Call(nil, unsafe.Pointer(&d), unsafe.Pointer(&c))
	return n.untrap(d)
}

func rootWindow(d Display, screen int32) uint64 {
	var root uint64
	xlib.rootWindow.Call(unsafe.Pointer(&root), unsafe.Pointer(&d), unsafe.Pointer(&screen))
	return root
}

func (n *xlibNative) CreateColormap(d Display, v Visual) (Colormap, error) {
	vi := visualInfo(v)
	root := rootWindow(d, vi.screen)
	visual := vi.visual
	alloc := int32(xAllocNone)

	var cm Colormap
	n.trap.begin()
	xlib.createColormap.Call(unsafe.Pointer(&cm),
		unsafe.Pointer(&d), unsafe.Pointer(&root), unsafe.Pointer(&visual), unsafe.Pointer(&alloc))
	if err := n.untrap(d); err != nil {
		return 0, err
	}
	return cm, nil
}

func (n *xlibNative) FreeColormap(d Display, cm Colormap) error {
	var r int32
	n.trap.begin()
	xlib.freeColormap.Call(unsafe.Pointer(&r), unsafe.Pointer(&d), unsafe.Pointer(&cm))
	return n.untrap(d)
}

func (n *xlibNative) CreateWindow(d Display, v Visual, cm Colormap, width, height int, events EventMask) (Window, error) {
	vi := visualInfo(v)
	attrs := &xSetWindowAttributes{colormap: uint64(cm), eventMask: int64(events)}

	var (
		parent    = rootWindow(d, vi.screen)
		x, y      int32
		w, h      = uint32(width), uint32(height)
		border    uint32
		depth     = vi.depth
		class     = uint32(xInputOutput)
		visual    = vi.visual
		valueMask = uint64(xCWColormap | xCWEventMask)
		attrsPtr  = unsafe.Pointer(attrs)
	)
	var win Window
	n.trap.begin()
	xlib.createWindow.Call(unsafe.Pointer(&win),
		unsafe.Pointer(&d), unsafe.Pointer(&parent),
		unsafe.Pointer(&x), unsafe.Pointer(&y), unsafe.Pointer(&w), unsafe.Pointer(&h),
		unsafe.Pointer(&border), unsafe.Pointer(&depth), unsafe.Pointer(&class),
		unsafe.Pointer(&visual), unsafe.Pointer(&valueMask), unsafe.Pointer(&attrsPtr))
	runtime.KeepAlive(attrs)
	if err := n.untrap(d); err != nil {
		if win != 0 {
			var r int32
			xlib.destroyWindow.Call(unsafe.Pointer(&r), unsafe.Pointer(&d), unsafe.Pointer(&win))
		}
		return 0, err
	}
	if win == 0 {
		return 0, errors.New("XCreateWindow returned no window")
	}
	return win, nil
}

func (n *xlibNative) DestroyWindow(d Display, w Window) error {
	var r int32
	n.trap.begin()
	xlib.destroyWindow.Call(unsafe.Pointer(&r), unsafe.Pointer(&d), unsafe.Pointer(&w))
	return n.untrap(d)
}

func makeCurrent(d Display, w Window, c GLContext) bool {
	var ok int32
	xlib.makeCurrent.Call(unsafe.Pointer(&ok), unsafe.Pointer(&d), unsafe.Pointer(&w), unsafe.Pointer(&c))
	return ok != 0
}

func (n *xlibNative) MakeCurrent(d Display, w Window, c GLContext) error {
	n.trap.begin()
	ok := makeCurrent(d, w, c)
	if err := n.untrap(d); err != nil {
		return err
	}
	if !ok {
		return errors.New("glXMakeCurrent returned False")
	}
	return nil
}

func (*xlibNative) ReleaseCurrent(d Display) error {
	if !makeCurrent(d, 0, 0) {
		return errors.New("glXMakeCurrent(None, NULL) returned False")
	}
	return nil
}

func (*xlibNative) QueryString(name StringName) (string, error) {
	var s unsafe.Pointer
	xlib.getString.Call(unsafe.Pointer(&s), unsafe.Pointer(&name))
	if s == nil {
		return "", fmt.Errorf("glGetString(0x%04X) returned NULL", uint32(name))
	}
	return cabi.GoString(s), nil
}
