//go:build cgo

package glapi

import (
	"github.com/go-gl/gl/v3.3-core/gl"
)

// Default returns the binding compiled into this build. With cgo it is
// github.com/go-gl/gl.
func Default() Loader {
	return goglLoader{}
}

type goglLoader struct{}

func (goglLoader) Init() error {
	return gl.Init()
}

func (goglLoader) API() API {
	return goglAPI{}
}

// goglAPI forwards to the package level go-gl functions, which are bound
// to whatever context was current when gl.Init ran.
type goglAPI struct{}

func (goglAPI) GetError() uint32 { return gl.GetError() }

func (goglAPI) GetString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

func (goglAPI) GetIntegerv(pname uint32, data *int32) { gl.GetIntegerv(pname, data) }

func (goglAPI) GenVertexArrays(n int32, arrays *uint32)    { gl.GenVertexArrays(n, arrays) }
func (goglAPI) BindVertexArray(array uint32)               { gl.BindVertexArray(array) }
func (goglAPI) DeleteVertexArrays(n int32, arrays *uint32) { gl.DeleteVertexArrays(n, arrays) }

func (goglAPI) GenBuffers(n int32, buffers *uint32) { gl.GenBuffers(n, buffers) }
func (goglAPI) BindBuffer(target, buffer uint32)    { gl.BindBuffer(target, buffer) }

func (goglAPI) BufferData(target uint32, data []byte, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data), gl.Ptr(data), usage)
}

func (goglAPI) DeleteBuffers(n int32, buffers *uint32) { gl.DeleteBuffers(n, buffers) }

func (goglAPI) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(int(offset)))
}

func (goglAPI) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (goglAPI) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (goglAPI) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (goglAPI) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csources, nil)
}

func (goglAPI) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (goglAPI) GetShaderiv(shader, pname uint32, params *int32) {
	gl.GetShaderiv(shader, pname, params)
}

func (goglAPI) GetShaderInfoLog(shader uint32) string {
	var n int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n+1)
	gl.GetShaderInfoLog(shader, n, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func (goglAPI) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (goglAPI) CreateProgram() uint32               { return gl.CreateProgram() }
func (goglAPI) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (goglAPI) LinkProgram(program uint32)          { gl.LinkProgram(program) }

func (goglAPI) GetProgramiv(program, pname uint32, params *int32) {
	gl.GetProgramiv(program, pname, params)
}

func (goglAPI) GetProgramInfoLog(program uint32) string {
	var n int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n+1)
	gl.GetProgramInfoLog(program, n, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func (goglAPI) UseProgram(program uint32)    { gl.UseProgram(program) }
func (goglAPI) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (goglAPI) ClearColor(red, green, blue, alpha float32) { gl.ClearColor(red, green, blue, alpha) }
func (goglAPI) Clear(mask uint32)                          { gl.Clear(mask) }
func (goglAPI) Viewport(x, y, width, height int32)         { gl.Viewport(x, y, width, height) }
func (goglAPI) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (goglAPI) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(int(offset)))
}

func (goglAPI) Flush() { gl.Flush() }

func (goglAPI) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	if len(pixels) == 0 {
		return
	}
	gl.ReadPixels(x, y, width, height, format, xtype, gl.Ptr(pixels))
}
