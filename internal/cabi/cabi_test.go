//go:build linux && !cgo && (amd64 || arm64)

package cabi

import (
	"testing"
	"unsafe"
)

func openLibc(t *testing.T) unsafe.Pointer {
	t.Helper()
	lib, err := Open("libc.so.6", "libc.so")
	if err != nil {
		t.Skipf("libc not loadable: %v", err)
	}
	return lib
}

func TestCallStrlen(t *testing.T) {
	lib := openLibc(t)

	var strlen Func
	if err := strlen.Lookup(lib, "strlen", U64, Ptr); err != nil {
		t.Fatalf("Lookup(strlen) error = %v", err)
	}
	s := CString("GL_RENDERER")
	p := unsafe.Pointer(&s[0])
	var n uint64
	strlen.Call(unsafe.Pointer(&n), unsafe.Pointer(&p))
	if n != 11 {
		t.Errorf("strlen = %d, want 11", n)
	}
	if got := GoString(p); got != "GL_RENDERER" {
		t.Errorf("GoString() = %q, want %q", got, "GL_RENDERER")
	}
}

func TestLookupMissingSymbol(t *testing.T) {
	lib := openLibc(t)

	var f Func
	if err := f.Lookup(lib, "glXNotARealFunction", Void); err == nil {
		t.Fatal("Lookup() of a missing symbol succeeded")
	}
	if f.Bound() {
		t.Error("Bound() = true after a failed Lookup")
	}
	f.Call(nil) // unbound calls do nothing
}

func TestOpenFailure(t *testing.T) {
	if _, err := Open("libgfxhealth-missing.so.0"); err == nil {
		t.Error("Open() of a missing library succeeded")
	}
}

func TestBindNil(t *testing.T) {
	var f Func
	if err := f.Bind(nil, Void); err == nil {
		t.Error("Bind(nil) succeeded")
	}
}

func TestGoStringNil(t *testing.T) {
	if got := GoString(nil); got != "" {
		t.Errorf("GoString(nil) = %q", got)
	}
}
