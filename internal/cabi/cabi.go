//go:build linux && !cgo && (amd64 || arm64)

// Package cabi calls C functions in shared libraries through goffi, so
// the Xlib and OpenGL bindings build with CGO_ENABLED=0.
//
// goffi passes every argument by the address of its value: a pointer
// argument is the address of a variable holding the pointer.
package cabi

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// Type describes a C argument or return type.
type Type = types.TypeDescriptor

// C type shorthands for Bind and Lookup.
var (
	Void = types.VoidTypeDescriptor
	Ptr  = types.PointerTypeDescriptor
	I32  = types.SInt32TypeDescriptor
	U32  = types.UInt32TypeDescriptor
	U64  = types.UInt64TypeDescriptor
	I64  = types.SInt64TypeDescriptor
	U8   = types.UInt8TypeDescriptor
	F32  = types.FloatTypeDescriptor
)

// Open loads the first of names that dlopen accepts.
func Open(names ...string) (unsafe.Pointer, error) {
	var err error
	for _, name := range names {
		var lib unsafe.Pointer
		if lib, err = ffi.LoadLibrary(name); err == nil {
			return lib, nil
		}
	}
	return nil, err
}

// Func is a C function with its prepared call interface.
type Func struct {
	sym unsafe.Pointer
	cif types.CallInterface
}

// Lookup resolves name in lib and prepares the call interface.
func (f *Func) Lookup(lib unsafe.Pointer, name string, ret *Type, args ...*Type) error {
	sym, err := ffi.GetSymbol(lib, name)
	if err != nil {
		return fmt.Errorf("%s not found: %w", name, err)
	}
	return f.Bind(sym, ret, args...)
}

// Bind prepares the call interface for an already resolved entry point.
func (f *Func) Bind(sym unsafe.Pointer, ret *Type, args ...*Type) error {
	if sym == nil {
		return fmt.Errorf("cabi: nil entry point")
	}
	if err := ffi.PrepareCallInterface(&f.cif, types.DefaultCall, ret, args); err != nil {
		return err
	}
	f.sym = sym
	return nil
}

// Bound reports whether f has an entry point.
func (f *Func) Bound() bool {
	return f.sym != nil
}

// Call invokes f, storing the result at ret (nil for void functions).
// Calls on an unbound Func do nothing.
func (f *Func) Call(ret unsafe.Pointer, args ...unsafe.Pointer) {
	if f.sym == nil {
		return
	}
	_ = ffi.CallFunction(&f.cif, f.sym, ret, args)
}

// CString returns a NUL terminated copy of s.
func CString(s string) []byte {
	return append([]byte(s), 0)
}

// GoString copies the NUL terminated string at p.
func GoString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// Callback returns a C entry point that calls fn. Entry points are never
// released.
func Callback(fn any) uintptr {
	return ffi.NewCallback(fn)
}
