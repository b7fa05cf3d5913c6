// Package glapitest provides a scripted in-memory glapi.API for tests.
//
// API tracks object names, records the calls made, and raises the error
// codes and compile or link failures a test asks for:
//
//	api := glapitest.New()
//	api.FailOn("BindVertexArray", glapi.INVALID_OPERATION)
//	api.FailCompile(glapi.VERTEX_SHADER, "0:1(1): error: syntax error")
package glapitest

import (
	"math"
	"slices"
	"unsafe"

	"github.com/gogpu/gfxhealth/glapi"
)

// Object kinds reported by Live.
const (
	KindVertexArray = "vertex array"
	KindBuffer      = "buffer"
	KindShader      = "shader"
	KindProgram     = "program"
)

// API is a fake glapi.API. The zero value is not usable; call New.
type API struct {
	// Calls lists the methods invoked, in order. GetError is not recorded.
	Calls []string

	// Major and Minor are reported through GetIntegerv. A zero Major makes
	// the version enums fail with GL_INVALID_ENUM, as on pre-3.0 drivers.
	Major, Minor int32

	// Strings are returned by GetString.
	Strings map[uint32]string

	// VertexArrays and Buffers list every name handed out, in order.
	VertexArrays []uint32
	Buffers      []uint32

	// Uploads holds the last data passed to BufferData per target.
	Uploads map[uint32][]byte

	// Draws counts DrawArrays and DrawElements calls.
	Draws int

	fail        map[string]uint32
	compileFail map[uint32]string
	linkFail    string
	pending     uint32

	next      uint32
	objects   map[uint32]string
	shaders   map[uint32]*shader
	programs  map[uint32]*program
	bound     map[uint32]uint32
	vao       uint32
	current   uint32
	clear     [4]float32
	cleared   bool
	viewportW int32
	viewportH int32
}

type shader struct {
	xtype    uint32
	compiled bool
	log      string
}

type program struct {
	attached []uint32
	linked   bool
	log      string
}

// New returns a fake reporting OpenGL 4.6 that succeeds on every call.
func New() *API {
	return &API{
		Major: 4,
		Minor: 6,
		Strings: map[uint32]string{
			glapi.VENDOR:                   "glapitest",
			glapi.RENDERER:                 "glapitest renderer",
			glapi.VERSION:                  "4.6 (Core Profile) glapitest",
			glapi.SHADING_LANGUAGE_VERSION: "4.60",
		},
		Uploads:     make(map[uint32][]byte),
		fail:        make(map[string]uint32),
		compileFail: make(map[uint32]string),
		objects:     make(map[uint32]string),
		shaders:     make(map[uint32]*shader),
		programs:    make(map[uint32]*program),
		bound:       make(map[uint32]uint32),
	}
}

// FailOn makes every call of method raise code. A zero code clears it.
func (a *API) FailOn(method string, code uint32) *API {
	if code == glapi.NO_ERROR {
		delete(a.fail, method)
	} else {
		a.fail[method] = code
	}
	return a
}

// FailCompile makes compilation of shaders of the given type fail with log.
func (a *API) FailCompile(xtype uint32, log string) *API {
	a.compileFail[xtype] = log
	return a
}

// FailLink makes LinkProgram fail with log.
func (a *API) FailLink(log string) *API {
	a.linkFail = log
	return a
}

// Live returns the number of objects of kind that were created and not
// deleted.
func (a *API) Live(kind string) int {
	n := 0
	for _, k := range a.objects {
		if k == kind {
			n++
		}
	}
	return n
}

// Called reports whether method was invoked.
func (a *API) Called(method string) bool {
	return slices.Contains(a.Calls, method)
}

func (a *API) record(method string) {
	a.Calls = append(a.Calls, method)
	if code, ok := a.fail[method]; ok && a.pending == glapi.NO_ERROR {
		a.pending = code
	}
}

func (a *API) raise(code uint32) {
	if a.pending == glapi.NO_ERROR {
		a.pending = code
	}
}

func (a *API) gen(kind string) uint32 {
	a.next++
	a.objects[a.next] = kind
	return a.next
}

func (a *API) del(kind string, name uint32) {
	if name == 0 {
		return
	}
	if a.objects[name] != kind {
		a.raise(glapi.INVALID_VALUE)
		return
	}
	delete(a.objects, name)
}

func (a *API) GetError() uint32 {
	code := a.pending
	a.pending = glapi.NO_ERROR
	return code
}

func (a *API) GetString(name uint32) string {
	a.record("GetString")
	s, ok := a.Strings[name]
	if !ok {
		a.raise(glapi.INVALID_ENUM)
	}
	return s
}

func (a *API) GetIntegerv(pname uint32, data *int32) {
	a.record("GetIntegerv")
	switch {
	case a.Major == 0 && (pname == glapi.MAJOR_VERSION || pname == glapi.MINOR_VERSION):
		a.raise(glapi.INVALID_ENUM)
	case pname == glapi.MAJOR_VERSION:
		*data = a.Major
	case pname == glapi.MINOR_VERSION:
		*data = a.Minor
	default:
		a.raise(glapi.INVALID_ENUM)
	}
}

func (a *API) GenVertexArrays(n int32, arrays *uint32) {
	a.record("GenVertexArrays")
	s := names(arrays, n)
	for i := range s {
		s[i] = a.gen(KindVertexArray)
		a.VertexArrays = append(a.VertexArrays, s[i])
	}
}

func (a *API) BindVertexArray(array uint32) {
	a.record("BindVertexArray")
	if array != 0 && a.objects[array] != KindVertexArray {
		a.raise(glapi.INVALID_OPERATION)
		return
	}
	a.vao = array
}

func (a *API) DeleteVertexArrays(n int32, arrays *uint32) {
	a.record("DeleteVertexArrays")
	s := names(arrays, n)
	for i := range s {
		if a.vao == s[i] {
			a.vao = 0
		}
		a.del(KindVertexArray, s[i])
	}
}

func (a *API) GenBuffers(n int32, buffers *uint32) {
	a.record("GenBuffers")
	s := names(buffers, n)
	for i := range s {
		s[i] = a.gen(KindBuffer)
		a.Buffers = append(a.Buffers, s[i])
	}
}

func (a *API) BindBuffer(target, buffer uint32) {
	a.record("BindBuffer")
	if target != glapi.ARRAY_BUFFER && target != glapi.ELEMENT_ARRAY_BUFFER {
		a.raise(glapi.INVALID_ENUM)
		return
	}
	if buffer != 0 && a.objects[buffer] != KindBuffer {
		a.raise(glapi.INVALID_OPERATION)
		return
	}
	a.bound[target] = buffer
}

func (a *API) BufferData(target uint32, data []byte, usage uint32) {
	a.record("BufferData")
	if a.bound[target] == 0 {
		a.raise(glapi.INVALID_OPERATION)
		return
	}
	a.Uploads[target] = slices.Clone(data)
}

func (a *API) DeleteBuffers(n int32, buffers *uint32) {
	a.record("DeleteBuffers")
	s := names(buffers, n)
	for i := range s {
		for t, b := range a.bound {
			if b == s[i] {
				a.bound[t] = 0
			}
		}
		a.del(KindBuffer, s[i])
	}
}

func (a *API) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	a.record("VertexAttribPointer")
	if a.vao == 0 || a.bound[glapi.ARRAY_BUFFER] == 0 {
		a.raise(glapi.INVALID_OPERATION)
	}
}

func (a *API) EnableVertexAttribArray(index uint32) {
	a.record("EnableVertexAttribArray")
	if a.vao == 0 {
		a.raise(glapi.INVALID_OPERATION)
	}
}

func (a *API) DisableVertexAttribArray(index uint32) {
	a.record("DisableVertexAttribArray")
	if a.vao == 0 {
		a.raise(glapi.INVALID_OPERATION)
	}
}

func (a *API) CreateShader(xtype uint32) uint32 {
	a.record("CreateShader")
	if xtype != glapi.VERTEX_SHADER && xtype != glapi.FRAGMENT_SHADER {
		a.raise(glapi.INVALID_ENUM)
		return 0
	}
	name := a.gen(KindShader)
	a.shaders[name] = &shader{xtype: xtype}
	return name
}

func (a *API) ShaderSource(name uint32, source string) {
	a.record("ShaderSource")
	if a.shaders[name] == nil {
		a.raise(glapi.INVALID_VALUE)
	}
}

func (a *API) CompileShader(name uint32) {
	a.record("CompileShader")
	s := a.shaders[name]
	if s == nil {
		a.raise(glapi.INVALID_VALUE)
		return
	}
	if log, ok := a.compileFail[s.xtype]; ok {
		s.compiled, s.log = false, log
		return
	}
	s.compiled, s.log = true, ""
}

func (a *API) GetShaderiv(name, pname uint32, params *int32) {
	a.record("GetShaderiv")
	s := a.shaders[name]
	if s == nil {
		a.raise(glapi.INVALID_VALUE)
		return
	}
	switch pname {
	case glapi.COMPILE_STATUS:
		*params = boolInt(s.compiled)
	case glapi.INFO_LOG_LENGTH:
		*params = logLength(s.log)
	default:
		a.raise(glapi.INVALID_ENUM)
	}
}

func (a *API) GetShaderInfoLog(name uint32) string {
	a.record("GetShaderInfoLog")
	if s := a.shaders[name]; s != nil {
		return s.log
	}
	a.raise(glapi.INVALID_VALUE)
	return ""
}

func (a *API) DeleteShader(name uint32) {
	a.record("DeleteShader")
	delete(a.shaders, name)
	a.del(KindShader, name)
}

func (a *API) CreateProgram() uint32 {
	a.record("CreateProgram")
	name := a.gen(KindProgram)
	a.programs[name] = &program{}
	return name
}

func (a *API) AttachShader(prog, sh uint32) {
	a.record("AttachShader")
	p := a.programs[prog]
	if p == nil || a.shaders[sh] == nil {
		a.raise(glapi.INVALID_VALUE)
		return
	}
	p.attached = append(p.attached, sh)
}

func (a *API) LinkProgram(prog uint32) {
	a.record("LinkProgram")
	p := a.programs[prog]
	if p == nil {
		a.raise(glapi.INVALID_VALUE)
		return
	}
	if a.linkFail != "" {
		p.linked, p.log = false, a.linkFail
		return
	}
	for _, sh := range p.attached {
		if s := a.shaders[sh]; s == nil || !s.compiled {
			p.linked, p.log = false, "error: linking with uncompiled/unspecialized shader"
			return
		}
	}
	p.linked, p.log = true, ""
}

func (a *API) GetProgramiv(prog, pname uint32, params *int32) {
	a.record("GetProgramiv")
	p := a.programs[prog]
	if p == nil {
		a.raise(glapi.INVALID_VALUE)
		return
	}
	switch pname {
	case glapi.LINK_STATUS:
		*params = boolInt(p.linked)
	case glapi.INFO_LOG_LENGTH:
		*params = logLength(p.log)
	default:
		a.raise(glapi.INVALID_ENUM)
	}
}

func (a *API) GetProgramInfoLog(prog uint32) string {
	a.record("GetProgramInfoLog")
	if p := a.programs[prog]; p != nil {
		return p.log
	}
	a.raise(glapi.INVALID_VALUE)
	return ""
}

func (a *API) UseProgram(prog uint32) {
	a.record("UseProgram")
	if prog == 0 {
		a.current = 0
		return
	}
	p := a.programs[prog]
	if p == nil || !p.linked {
		a.raise(glapi.INVALID_OPERATION)
		return
	}
	a.current = prog
}

func (a *API) DeleteProgram(prog uint32) {
	a.record("DeleteProgram")
	if a.current == prog {
		a.current = 0
	}
	delete(a.programs, prog)
	a.del(KindProgram, prog)
}

func (a *API) ClearColor(red, green, blue, alpha float32) {
	a.record("ClearColor")
	a.clear = [4]float32{red, green, blue, alpha}
}

func (a *API) Clear(mask uint32) {
	a.record("Clear")
	a.cleared = true
}

func (a *API) Viewport(x, y, width, height int32) {
	a.record("Viewport")
	if width < 0 || height < 0 {
		a.raise(glapi.INVALID_VALUE)
		return
	}
	a.viewportW, a.viewportH = width, height
}

func (a *API) DrawArrays(mode uint32, first, count int32) {
	a.record("DrawArrays")
	a.draw()
}

func (a *API) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	a.record("DrawElements")
	if a.bound[glapi.ELEMENT_ARRAY_BUFFER] == 0 {
		a.raise(glapi.INVALID_OPERATION)
		return
	}
	a.draw()
}

func (a *API) draw() {
	if a.vao == 0 || a.current == 0 {
		a.raise(glapi.INVALID_OPERATION)
		return
	}
	a.Draws++
}

func (a *API) Flush() {
	a.record("Flush")
}

// ReadPixels fills pixels with the clear color, or zeros before the first
// Clear. Only RGBA with unsigned bytes is supported.
func (a *API) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	a.record("ReadPixels")
	if format != glapi.RGBA || xtype != glapi.UNSIGNED_BYTE {
		a.raise(glapi.INVALID_ENUM)
		return
	}
	if width < 0 || height < 0 || len(pixels) < int(width)*int(height)*4 {
		a.raise(glapi.INVALID_VALUE)
		return
	}
	var px [4]byte
	if a.cleared {
		for i, c := range a.clear {
			px[i] = uint8(math.Round(float64(clamp01(c)) * 255))
		}
	}
	for i := 0; i < int(width)*int(height); i++ {
		copy(pixels[i*4:], px[:])
	}
}

// Loader is a glapi.Loader handing out a fixed API.
type Loader struct {
	Fake *API
	// Err is returned by Init when set.
	Err error
}

func (l *Loader) Init() error {
	return l.Err
}

func (l *Loader) API() glapi.API {
	if l.Fake == nil {
		return nil
	}
	return l.Fake
}

// names views a C style name array.
func names(p *uint32, n int32) []uint32 {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice(p, n)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func logLength(log string) int32 {
	if log == "" {
		return 0
	}
	return int32(len(log) + 1)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
