package glx

import (
	"slices"
	"testing"
)

func TestVisualAttribList(t *testing.T) {
	tests := []struct {
		name  string
		attrs VisualAttribs
		want  []int32
	}{
		{"defaults", DefaultVisualAttribs(), []int32{glxRGBA, glxDepthSize, 24, glxDoubleBuffer, 0}},
		{"single buffered", VisualAttribs{RGBA: true, DepthSize: 16}, []int32{glxRGBA, glxDepthSize, 16, 0}},
		{"color index", VisualAttribs{}, []int32{glxDepthSize, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := visualAttribList(tt.attrs); !slices.Equal(got, tt.want) {
				t.Errorf("visualAttribList(%+v) = %v, want %v", tt.attrs, got, tt.want)
			}
		})
	}
}

// fakeHandlers emulates XSetErrorHandler and the server's error queue.
type fakeHandlers struct {
	current uintptr
	code    int
	synced  []Display
}

func (f *fakeHandlers) trap(recorder uintptr) *errorTrap {
	return &errorTrap{
		recorder: recorder,
		swap: func(h uintptr) uintptr {
			prev := f.current
			f.current = h
			return prev
		},
		sync: func(d Display) {
			f.synced = append(f.synced, d)
		},
		take: func() int {
			code := f.code
			f.code = 0
			return code
		},
	}
}

func TestErrorTrapRestoresPreviousHandler(t *testing.T) {
	const (
		appHandler = uintptr(0xA0)
		recorder   = uintptr(0xB0)
	)
	f := &fakeHandlers{current: appHandler}
	trap := f.trap(recorder)

	trap.begin()
	if f.current != recorder {
		t.Fatalf("handler during trap = %#x, want recorder %#x", f.current, recorder)
	}
	f.code = 8 // BadMatch

	if code := trap.end(Display(1)); code != 8 {
		t.Errorf("end() = %d, want 8", code)
	}
	if f.current != appHandler {
		t.Errorf("handler after trap = %#x, want previous %#x", f.current, appHandler)
	}
	if !slices.Equal(f.synced, []Display{1}) {
		t.Errorf("synced displays = %v, want [1]", f.synced)
	}
}

func TestErrorTrapClearsStaleCode(t *testing.T) {
	f := &fakeHandlers{code: 3}
	trap := f.trap(0xB0)

	trap.begin()
	if code := trap.end(Display(1)); code != 0 {
		t.Errorf("end() = %d, want 0 after a clean request", code)
	}
	if f.current != 0 {
		t.Errorf("handler after trap = %#x, want the default (0)", f.current)
	}
}

func TestErrorTrapEndWithoutBegin(t *testing.T) {
	f := &fakeHandlers{current: 0xA0, code: 5}
	trap := f.trap(0xB0)

	if code := trap.end(Display(1)); code != 0 {
		t.Errorf("end() = %d, want 0", code)
	}
	if f.current != 0xA0 || len(f.synced) != 0 {
		t.Errorf("end without begin touched the handler: current=%#x synced=%v", f.current, f.synced)
	}
}
