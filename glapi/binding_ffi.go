//go:build linux && !cgo && (amd64 || arm64)

package glapi

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/gogpu/gfxhealth/internal/cabi"
)

// Default returns the binding compiled into this build. Without cgo it
// resolves entry points with glXGetProcAddressARB and calls them through
// goffi.
func Default() Loader {
	return &ffiLoader{}
}

type ffiLoader struct {
	api *ffiAPI
}

func (l *ffiLoader) Init() error {
	api, err := bindGL()
	if err != nil {
		return err
	}
	l.api = api
	return nil
}

func (l *ffiLoader) API() API {
	if l.api == nil {
		return nil
	}
	return l.api
}

var libGL struct {
	once           sync.Once
	err            error
	getProcAddress cabi.Func
}

func procAddress(name string) (unsafe.Pointer, error) {
	libGL.once.Do(func() {
		lib, err := cabi.Open("libGL.so.1", "libGL.so")
		if err != nil {
			libGL.err = err
			return
		}
		libGL.err = libGL.getProcAddress.Lookup(lib, "glXGetProcAddressARB", cabi.Ptr, cabi.Ptr)
	})
	if libGL.err != nil {
		return nil, libGL.err
	}

	cname := cabi.CString(name)
	p := unsafe.Pointer(&cname[0])
	var fn unsafe.Pointer
	libGL.getProcAddress.Call(unsafe.Pointer(&fn), unsafe.Pointer(&p))
	runtime.KeepAlive(cname)
	if fn == nil {
		return nil, fmt.Errorf("glXGetProcAddressARB(%q) = NULL", name)
	}
	return fn, nil
}

// ffiAPI holds the entry points of one Init.
type ffiAPI struct {
	getError, getString, getIntegerv cabi.Func

	genVertexArrays, bindVertexArray, deleteVertexArrays cabi.Func

	genBuffers, bindBuffer, bufferData, deleteBuffers cabi.Func

	vertexAttribPointer, enableVertexAttribArray, disableVertexAttribArray cabi.Func

	createShader, shaderSource, compileShader, getShaderiv, getShaderInfoLog, deleteShader cabi.Func

	createProgram, attachShader, linkProgram, getProgramiv, getProgramInfoLog, useProgram, deleteProgram cabi.Func

	clearColor, clear, viewport, drawArrays, drawElements, flush, readPixels cabi.Func
}

func bindGL() (*ffiAPI, error) {
	var (
		void = cabi.Void
		ptr  = cabi.Ptr
		i32  = cabi.I32
		u32  = cabi.U32
		f32  = cabi.F32
	)
	a := &ffiAPI{}
	binds := []struct {
		f    *cabi.Func
		name string
		ret  *cabi.Type
		args []*cabi.Type
	}{
		{&a.getError, "glGetError", u32, nil},
		{&a.getString, "glGetString", ptr, []*cabi.Type{u32}},
		{&a.getIntegerv, "glGetIntegerv", void, []*cabi.Type{u32, ptr}},

		{&a.genVertexArrays, "glGenVertexArrays", void, []*cabi.Type{i32, ptr}},
		{&a.bindVertexArray, "glBindVertexArray", void, []*cabi.Type{u32}},
		{&a.deleteVertexArrays, "glDeleteVertexArrays", void, []*cabi.Type{i32, ptr}},

		{&a.genBuffers, "glGenBuffers", void, []*cabi.Type{i32, ptr}},
		{&a.bindBuffer, "glBindBuffer", void, []*cabi.Type{u32, u32}},
		{&a.bufferData, "glBufferData", void, []*cabi.Type{u32, cabi.I64, ptr, u32}},
		{&a.deleteBuffers, "glDeleteBuffers", void, []*cabi.Type{i32, ptr}},

		{&a.vertexAttribPointer, "glVertexAttribPointer", void, []*cabi.Type{u32, i32, u32, cabi.U8, i32, ptr}},
		{&a.enableVertexAttribArray, "glEnableVertexAttribArray", void, []*cabi.Type{u32}},
		{&a.disableVertexAttribArray, "glDisableVertexAttribArray", void, []*cabi.Type{u32}},

		{&a.createShader, "glCreateShader", u32, []*cabi.Type{u32}},
		{&a.shaderSource, "glShaderSource", void, []*cabi.Type{u32, i32, ptr, ptr}},
		{&a.compileShader, "glCompileShader", void, []*cabi.Type{u32}},
		{&a.getShaderiv, "glGetShaderiv", void, []*cabi.Type{u32, u32, ptr}},
		{&a.getShaderInfoLog, "glGetShaderInfoLog", void, []*cabi.Type{u32, i32, ptr, ptr}},
		{&a.deleteShader, "glDeleteShader", void, []*cabi.Type{u32}},

		{&a.createProgram, "glCreateProgram", u32, nil},
		{&a.attachShader, "glAttachShader", void, []*cabi.Type{u32, u32}},
		{&a.linkProgram, "glLinkProgram", void, []*cabi.Type{u32}},
		{&a.getProgramiv, "glGetProgramiv", void, []*cabi.Type{u32, u32, ptr}},
		{&a.getProgramInfoLog, "glGetProgramInfoLog", void, []*cabi.Type{u32, i32, ptr, ptr}},
		{&a.useProgram, "glUseProgram", void, []*cabi.Type{u32}},
		{&a.deleteProgram, "glDeleteProgram", void, []*cabi.Type{u32}},

		{&a.clearColor, "glClearColor", void, []*cabi.Type{f32, f32, f32, f32}},
		{&a.clear, "glClear", void, []*cabi.Type{u32}},
		{&a.viewport, "glViewport", void, []*cabi.Type{i32, i32, i32, i32}},
		{&a.drawArrays, "glDrawArrays", void, []*cabi.Type{u32, i32, i32}},
		{&a.drawElements, "glDrawElements", void, []*cabi.Type{u32, i32, u32, ptr}},
		{&a.flush, "glFlush", void, nil},
		{&a.readPixels, "glReadPixels", void, []*cabi.Type{i32, i32, i32, i32, u32, u32, ptr}},
	}
	for _, b := range binds {
		sym, err := procAddress(b.name)
		if err != nil {
			return nil, err
		}
		if err := b.f.Bind(sym, b.ret, b.args...); err != nil {
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
	}
	return a, nil
}

func (a *ffiAPI) GetError() uint32 {
	var code uint32
	a.getError.Call(unsafe.Pointer(&code))
	return code
}

func (a *ffiAPI) GetString(name uint32) string {
	var s unsafe.Pointer
	a.getString.Call(unsafe.Pointer(&s), unsafe.Pointer(&name))
	return cabi.GoString(s)
}

func (a *ffiAPI) GetIntegerv(pname uint32, data *int32) {
	a.getIntegerv.Call(nil, unsafe.Pointer(&pname), unsafe.Pointer(&data))
}

func (a *ffiAPI) GenVertexArrays(n int32, arrays *uint32) {
	a.genVertexArrays.Call(nil, unsafe.Pointer(&n), unsafe.Pointer(&arrays))
}

func (a *ffiAPI) BindVertexArray(array uint32) {
	a.bindVertexArray.Call(nil, unsafe.Pointer(&array))
}

func (a *ffiAPI) DeleteVertexArrays(n int32, arrays *uint32) {
	a.deleteVertexArrays.Call(nil, unsafe.Pointer(&n), unsafe.Pointer(&arrays))
}

func (a *ffiAPI) GenBuffers(n int32, buffers *uint32) {
	a.genBuffers.Call(nil, unsafe.Pointer(&n), unsafe.Pointer(&buffers))
}

func (a *ffiAPI) BindBuffer(target, buffer uint32) {
	a.bindBuffer.Call(nil, unsafe.Pointer(&target), unsafe.Pointer(&buffer))
}

func (a *ffiAPI) BufferData(target uint32, data []byte, usage uint32) {
	size := int64(len(data))
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	a.bufferData.Call(nil, unsafe.Pointer(&target), unsafe.Pointer(&size), unsafe.Pointer(&p), unsafe.Pointer(&usage))
	runtime.KeepAlive(data)
}

func (a *ffiAPI) DeleteBuffers(n int32, buffers *uint32) {
	a.deleteBuffers.Call(nil, unsafe.Pointer(&n), unsafe.Pointer(&buffers))
}

func (a *ffiAPI) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	var norm uint8
	if normalized {
		norm = 1
	}
	a.vertexAttribPointer.Call(nil,
		unsafe.Pointer(&index), unsafe.Pointer(&size), unsafe.Pointer(&xtype),
		unsafe.Pointer(&norm), unsafe.Pointer(&stride), unsafe.Pointer(&offset))
}

func (a *ffiAPI) EnableVertexAttribArray(index uint32) {
	a.enableVertexAttribArray.Call(nil, unsafe.Pointer(&index))
}

func (a *ffiAPI) DisableVertexAttribArray(index uint32) {
	a.disableVertexAttribArray.Call(nil, unsafe.Pointer(&index))
}

func (a *ffiAPI) CreateShader(xtype uint32) uint32 {
	var shader uint32
	a.createShader.Call(unsafe.Pointer(&shader), unsafe.Pointer(&xtype))
	return shader
}

func (a *ffiAPI) ShaderSource(shader uint32, source string) {
	src := cabi.CString(source)
	strs := [1]unsafe.Pointer{unsafe.Pointer(&src[0])}
	count := int32(1)
	strsPtr := unsafe.Pointer(&strs[0])
	var lengths unsafe.Pointer
	a.shaderSource.Call(nil,
		unsafe.Pointer(&shader), unsafe.Pointer(&count), unsafe.Pointer(&strsPtr), unsafe.Pointer(&lengths))
	runtime.KeepAlive(src)
	runtime.KeepAlive(&strs)
}

func (a *ffiAPI) CompileShader(shader uint32) {
	a.compileShader.Call(nil, unsafe.Pointer(&shader))
}

func (a *ffiAPI) GetShaderiv(shader, pname uint32, params *int32) {
	a.getShaderiv.Call(nil, unsafe.Pointer(&shader), unsafe.Pointer(&pname), unsafe.Pointer(&params))
}

func (a *ffiAPI) GetShaderInfoLog(shader uint32) string {
	var n int32
	a.GetShaderiv(shader, INFO_LOG_LENGTH, &n)
	return infoLog(&a.getShaderInfoLog, shader, n)
}

// infoLog reads a shader or program info log of length n.
func infoLog(f *cabi.Func, object uint32, n int32) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n+1)
	p := unsafe.Pointer(&buf[0])
	var length unsafe.Pointer
	f.Call(nil, unsafe.Pointer(&object), unsafe.Pointer(&n), unsafe.Pointer(&length), unsafe.Pointer(&p))
	text, _, _ := bytes.Cut(buf, []byte{0})
	return string(text)
}

func (a *ffiAPI) DeleteShader(shader uint32) {
	a.deleteShader.Call(nil, unsafe.Pointer(&shader))
}

func (a *ffiAPI) CreateProgram() uint32 {
	var program uint32
	a.createProgram.Call(unsafe.Pointer(&program))
	return program
}

func (a *ffiAPI) AttachShader(program, shader uint32) {
	a.attachShader.Call(nil, unsafe.Pointer(&program), unsafe.Pointer(&shader))
}

func (a *ffiAPI) LinkProgram(program uint32) {
	a.linkProgram.Call(nil, unsafe.Pointer(&program))
}

func (a *ffiAPI) GetProgramiv(program, pname uint32, params *int32) {
	a.getProgramiv.Call(nil, unsafe.Pointer(&program), unsafe.Pointer(&pname), unsafe.Pointer(&params))
}

func (a *ffiAPI) GetProgramInfoLog(program uint32) string {
	var n int32
	a.GetProgramiv(program, INFO_LOG_LENGTH, &n)
	return infoLog(&a.getProgramInfoLog, program, n)
}

func (a *ffiAPI) UseProgram(program uint32) {
	a.useProgram.Call(nil, unsafe.Pointer(&program))
}

func (a *ffiAPI) DeleteProgram(program uint32) {
	a.deleteProgram.Call(nil, unsafe.Pointer(&program))
}

func (a *ffiAPI) ClearColor(red, green, blue, alpha float32) {
	a.clearColor.Call(nil, unsafe.Pointer(&red), unsafe.Pointer(&green), unsafe.Pointer(&blue), unsafe.Pointer(&alpha))
}

func (a *ffiAPI) Clear(mask uint32) {
	a.clear.Call(nil, unsafe.Pointer(&mask))
}

func (a *ffiAPI) Viewport(x, y, width, height int32) {
	a.viewport.Call(nil, unsafe.Pointer(&x), unsafe.Pointer(&y), unsafe.Pointer(&width), unsafe.Pointer(&height))
}

func (a *ffiAPI) DrawArrays(mode uint32, first, count int32) {
	a.drawArrays.Call(nil, unsafe.Pointer(&mode), unsafe.Pointer(&first), unsafe.Pointer(&count))
}

func (a *ffiAPI) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	a.drawElements.Call(nil, unsafe.Pointer(&mode), unsafe.Pointer(&count), unsafe.Pointer(&xtype), unsafe.Pointer(&offset))
}

func (a *ffiAPI) Flush() {
	a.flush.Call(nil)
}

func (a *ffiAPI) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	if len(pixels) == 0 {
		return
	}
	p := unsafe.Pointer(&pixels[0])
	a.readPixels.Call(nil,
		unsafe.Pointer(&x), unsafe.Pointer(&y), unsafe.Pointer(&width), unsafe.Pointer(&height),
		unsafe.Pointer(&format), unsafe.Pointer(&xtype), unsafe.Pointer(&p))
	runtime.KeepAlive(pixels)
}
