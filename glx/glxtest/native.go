// Package glxtest provides an in-memory glx.Native for tests.
//
// Native hands out unique handles, records every call in order, tracks
// which handles are still held and fails any method on request:
//
//	n := glxtest.New().FailOn(glxtest.CreateWindow, errors.New("BadAlloc"))
//	ctx := glx.New(n)
//	err := ctx.Create(100, 100) // *glx.StageError, stage 4
//	n.Held()                    // 0
package glxtest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/gfxhealth/glx"
)

// Method names accepted by FailOn and recorded in Calls.
const (
	OpenDisplay    = "OpenDisplay"
	CloseDisplay   = "CloseDisplay"
	ChooseVisual   = "ChooseVisual"
	FreeVisual     = "FreeVisual"
	CreateContext  = "CreateContext"
	DestroyContext = "DestroyContext"
	CreateColormap = "CreateColormap"
	FreeColormap   = "FreeColormap"
	CreateWindow   = "CreateWindow"
	DestroyWindow  = "DestroyWindow"
	MakeCurrent    = "MakeCurrent"
	ReleaseCurrent = "ReleaseCurrent"
	QueryString    = "QueryString"
)

// Handle kinds reported by HeldOf.
const (
	KindDisplay  = "display"
	KindVisual   = "visual"
	KindContext  = "context"
	KindColormap = "colormap"
	KindWindow   = "window"
)

// ErrUnknownHandle is returned when a release method receives a handle
// that is not held.
var ErrUnknownHandle = errors.New("glxtest: unknown handle")

// Strings are the driver strings returned by default.
var Strings = map[glx.StringName]string{
	glx.StringVendor:                 "glxtest",
	glx.StringRenderer:               "glxtest renderer",
	glx.StringVersion:                "4.6 (Core Profile) glxtest 1.0",
	glx.StringShadingLanguageVersion: "4.60",
}

// Native is a fake glx.Native.
type Native struct {
	// Calls lists every method invoked, in order.
	Calls []string

	// Strings overrides the driver strings returned by QueryString.
	Strings map[glx.StringName]string

	// LastSize is the size passed to the last CreateWindow.
	LastWidth, LastHeight int

	// LastEvents is the mask passed to the last CreateWindow.
	LastEvents glx.EventMask

	// LastDisplayName is the name passed to the last OpenDisplay.
	LastDisplayName string

	// LastAttribs is the format passed to the last ChooseVisual.
	LastAttribs glx.VisualAttribs

	fail    map[string]error
	held    map[uintptr]string
	next    uintptr
	current glx.GLContext
}

// New returns a fake backend that succeeds on every call.
func New() *Native {
	s := make(map[glx.StringName]string, len(Strings))
	for k, v := range Strings {
		s[k] = v
	}
	return &Native{
		Strings: s,
		fail:    make(map[string]error),
		held:    make(map[uintptr]string),
	}
}

// FailOn makes method return err from now on. A nil err clears the fault.
func (n *Native) FailOn(method string, err error) *Native {
	if err == nil {
		delete(n.fail, method)
	} else {
		n.fail[method] = err
	}
	return n
}

// Held returns the number of handles acquired and not yet released.
func (n *Native) Held() int {
	return len(n.held)
}

// HeldOf returns the number of held handles of the given kind.
func (n *Native) HeldOf(kind string) int {
	c := 0
	for _, k := range n.held {
		if k == kind {
			c++
		}
	}
	return c
}

// HeldKinds returns the sorted kinds of all held handles.
func (n *Native) HeldKinds() []string {
	kinds := make([]string, 0, len(n.held))
	for _, k := range n.held {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Current returns the context bound by MakeCurrent, or zero.
func (n *Native) Current() glx.GLContext {
	return n.current
}

// Reset clears the call log.
func (n *Native) Reset() {
	n.Calls = nil
}

func (n *Native) call(method string) error {
	n.Calls = append(n.Calls, method)
	return n.fail[method]
}

func (n *Native) acquire(kind string) uintptr {
	n.next++
	n.held[n.next] = kind
	return n.next
}

func (n *Native) release(kind string, h uintptr) error {
	if n.held[h] != kind {
		return fmt.Errorf("%w: %s %d", ErrUnknownHandle, kind, h)
	}
	delete(n.held, h)
	return nil
}

func (n *Native) Name() string { return "glxtest" }

func (n *Native) OpenDisplay(name string) (glx.Display, error) {
	n.LastDisplayName = name
	if err := n.call(OpenDisplay); err != nil {
		return 0, err
	}
	return glx.Display(n.acquire(KindDisplay)), nil
}

// CloseDisplay releases the display even when a fault is injected, the
// way XCloseDisplay frees the connection regardless of outstanding errors.
func (n *Native) CloseDisplay(d glx.Display) error {
	err := n.call(CloseDisplay)
	if rerr := n.release(KindDisplay, uintptr(d)); rerr != nil {
		return rerr
	}
	return err
}

func (n *Native) ChooseVisual(_ glx.Display, attrs glx.VisualAttribs) (glx.Visual, error) {
	n.LastAttribs = attrs
	if err := n.call(ChooseVisual); err != nil {
		return 0, err
	}
	return glx.Visual(n.acquire(KindVisual)), nil
}

func (n *Native) FreeVisual(v glx.Visual) error {
	if err := n.call(FreeVisual); err != nil {
		return err
	}
	return n.release(KindVisual, uintptr(v))
}

func (n *Native) CreateContext(glx.Display, glx.Visual, bool) (glx.GLContext, error) {
	if err := n.call(CreateContext); err != nil {
		return 0, err
	}
	return glx.GLContext(n.acquire(KindContext)), nil
}

func (n *Native) DestroyContext(_ glx.Display, c glx.GLContext) error {
	if err := n.call(DestroyContext); err != nil {
		return err
	}
	if n.current == c {
		n.current = 0
	}
	return n.release(KindContext, uintptr(c))
}

func (n *Native) CreateColormap(glx.Display, glx.Visual) (glx.Colormap, error) {
	if err := n.call(CreateColormap); err != nil {
		return 0, err
	}
	return glx.Colormap(n.acquire(KindColormap)), nil
}

func (n *Native) FreeColormap(_ glx.Display, cm glx.Colormap) error {
	if err := n.call(FreeColormap); err != nil {
		return err
	}
	return n.release(KindColormap, uintptr(cm))
}

func (n *Native) CreateWindow(_ glx.Display, _ glx.Visual, _ glx.Colormap, width, height int, events glx.EventMask) (glx.Window, error) {
	n.LastWidth, n.LastHeight, n.LastEvents = width, height, events
	if err := n.call(CreateWindow); err != nil {
		return 0, err
	}
	return glx.Window(n.acquire(KindWindow)), nil
}

func (n *Native) DestroyWindow(_ glx.Display, w glx.Window) error {
	if err := n.call(DestroyWindow); err != nil {
		return err
	}
	return n.release(KindWindow, uintptr(w))
}

func (n *Native) MakeCurrent(_ glx.Display, _ glx.Window, c glx.GLContext) error {
	if err := n.call(MakeCurrent); err != nil {
		return err
	}
	n.current = c
	return nil
}

func (n *Native) ReleaseCurrent(glx.Display) error {
	if err := n.call(ReleaseCurrent); err != nil {
		return err
	}
	n.current = 0
	return nil
}

func (n *Native) QueryString(name glx.StringName) (string, error) {
	if err := n.call(QueryString); err != nil {
		return "", err
	}
	if n.current == 0 {
		return "", errors.New("glxtest: no current context")
	}
	s, ok := n.Strings[name]
	if !ok {
		return "", fmt.Errorf("glxtest: no string 0x%04X", uint32(name))
	}
	return s, nil
}
