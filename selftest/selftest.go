package selftest

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/gogpu/gfxhealth"
	"github.com/gogpu/gfxhealth/glapi"
)

// Failures is the aggregated result of a failed run: one record per
// failed call or failed compile or link, in call order.
type Failures struct {
	Records []string
}

// Error joins the records with "|".
func (f *Failures) Error() string {
	return strings.Join(f.Records, "|")
}

// Code returns 1.
func (f *Failures) Code() int {
	return 1
}

// CallErrors returns the records produced by polled error codes, skipping
// compile and link log records.
func (f *Failures) CallErrors() []string {
	var out []string
	for _, r := range f.Records {
		if !strings.HasPrefix(r, vertexCompileError) &&
			!strings.HasPrefix(r, fragmentCompileError) &&
			!strings.HasPrefix(r, linkError) {
			out = append(out, r)
		}
	}
	return out
}

const (
	vertexCompileError   = "Vertex Shader Compilation Error: "
	fragmentCompileError = "Fragment Shader Compilation Error: "
	linkError            = "Shader Program Linking Error: "
)

// Run executes the self-test against loaded capabilities. It returns nil
// when every call succeeded, or a *Failures listing what went wrong.
func Run(caps *glapi.Capabilities) error {
	return RunAPI(caps.API())
}

// call invokes f, then polls the error flag.
func call[T any](api glapi.API, text string, f func() T) (T, *glapi.CallError) {
	v := f()
	return v, poll(api, text)
}

// call0 is call for functions without a result.
func call0(api glapi.API, text string, f func()) *glapi.CallError {
	f()
	return poll(api, text)
}

func poll(api glapi.API, text string) *glapi.CallError {
	if code := api.GetError(); code != glapi.NO_ERROR {
		return &glapi.CallError{Call: text, GLCode: code}
	}
	return nil
}

// recorder accumulates failures across a run.
type recorder struct {
	api     glapi.API
	records []string
}

func (r *recorder) note(err *glapi.CallError) {
	if err == nil {
		return
	}
	gfxhealth.Logger().Debug("selftest: call failed", "call", err.Call, "error", glapi.ErrorName(err.GLCode))
	r.records = append(r.records, err.Error())
}

func (r *recorder) do(text string, f func()) {
	r.note(call0(r.api, text, f))
}

func (r *recorder) add(record string) {
	gfxhealth.Logger().Debug("selftest: shader failure", "record", record)
	r.records = append(r.records, record)
}

// RunAPI executes the self-test against api.
func RunAPI(api glapi.API) error {
	r := &recorder{api: api}
	var vao, vbo, ebo uint32

	r.do("glGenVertexArrays(1, &vao)", func() { api.GenVertexArrays(1, &vao) })
	r.do("glGenBuffers(1, &vbo)", func() { api.GenBuffers(1, &vbo) })
	r.do("glGenBuffers(1, &ebo)", func() { api.GenBuffers(1, &ebo) })

	r.do("glBindVertexArray(vao)", func() { api.BindVertexArray(vao) })

	r.do("glBindBuffer(GL_ARRAY_BUFFER, vbo)", func() { api.BindBuffer(glapi.ARRAY_BUFFER, vbo) })
	r.do("glBufferData(GL_ARRAY_BUFFER, sizeof(vertices), vertices, GL_STATIC_DRAW)", func() {
		api.BufferData(glapi.ARRAY_BUFFER, float32Bytes(vertices), glapi.STATIC_DRAW)
	})

	r.do("glBindBuffer(GL_ELEMENT_ARRAY_BUFFER, ebo)", func() { api.BindBuffer(glapi.ELEMENT_ARRAY_BUFFER, ebo) })
	r.do("glBufferData(GL_ELEMENT_ARRAY_BUFFER, sizeof(indices), indices, GL_STATIC_DRAW)", func() {
		api.BufferData(glapi.ELEMENT_ARRAY_BUFFER, uint32Bytes(indices), glapi.STATIC_DRAW)
	})

	r.do("glVertexAttribPointer(0, 2, GL_FLOAT, GL_FALSE, 2 * sizeof(float), (void*)0)", func() {
		api.VertexAttribPointer(0, 2, glapi.FLOAT, false, 2*4, 0)
	})
	r.do("glEnableVertexAttribArray(0)", func() { api.EnableVertexAttribArray(0) })

	vs := r.compile("vertexShader", "GL_VERTEX_SHADER", glapi.VERTEX_SHADER, VertexShaderGLSL, vertexCompileError)
	fs := r.compile("fragmentShader", "GL_FRAGMENT_SHADER", glapi.FRAGMENT_SHADER, FragmentShaderGLSL, fragmentCompileError)

	prog, err := call(api, "glCreateProgram()", api.CreateProgram)
	r.note(err)
	r.do("glAttachShader(shaderProgram, vertexShader)", func() { api.AttachShader(prog, vs) })
	r.do("glAttachShader(shaderProgram, fragmentShader)", func() { api.AttachShader(prog, fs) })
	r.do("glLinkProgram(shaderProgram)", func() { api.LinkProgram(prog) })
	var linked int32
	r.do("glGetProgramiv(shaderProgram, GL_LINK_STATUS, &success)", func() {
		api.GetProgramiv(prog, glapi.LINK_STATUS, &linked)
	})
	if linked == 0 {
		log, err := call(api, "glGetProgramInfoLog(shaderProgram, 512, NULL, infoLog)", func() string {
			return api.GetProgramInfoLog(prog)
		})
		r.note(err)
		r.add(linkError + log)
	}
	r.do("glDeleteShader(vertexShader)", func() { api.DeleteShader(vs) })
	r.do("glDeleteShader(fragmentShader)", func() { api.DeleteShader(fs) })

	r.do("glUseProgram(shaderProgram)", func() { api.UseProgram(prog) })

	r.do("glClearColor(0.2f, 0.3f, 0.3f, 1.0f)", func() {
		api.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	})
	r.do("glClear(GL_COLOR_BUFFER_BIT)", func() { api.Clear(glapi.COLOR_BUFFER_BIT) })

	r.do("glDrawArrays(GL_TRIANGLES, 0, 3)", func() { api.DrawArrays(glapi.TRIANGLES, 0, 3) })
	r.do("glDrawElements(GL_TRIANGLES, 3, GL_UNSIGNED_INT, 0)", func() {
		api.DrawElements(glapi.TRIANGLES, int32(len(indices)), glapi.UNSIGNED_INT, 0)
	})
	r.do("glFlush()", api.Flush)

	r.do("glUseProgram(0)", func() { api.UseProgram(0) })
	r.do("glDeleteProgram(shaderProgram)", func() { api.DeleteProgram(prog) })

	r.do("glBindVertexArray(0)", func() { api.BindVertexArray(0) })
	r.do("glDeleteVertexArrays(1, &vao)", func() { api.DeleteVertexArrays(1, &vao) })

	r.do("glBindBuffer(GL_ARRAY_BUFFER, 0)", func() { api.BindBuffer(glapi.ARRAY_BUFFER, 0) })
	r.do("glBindBuffer(GL_ELEMENT_ARRAY_BUFFER, 0)", func() { api.BindBuffer(glapi.ELEMENT_ARRAY_BUFFER, 0) })
	r.do("glDeleteBuffers(1, &ebo)", func() { api.DeleteBuffers(1, &ebo) })
	r.do("glDeleteBuffers(1, &vbo)", func() { api.DeleteBuffers(1, &vbo) })

	if len(r.records) == 0 {
		return nil
	}
	return &Failures{Records: r.records}
}

// compile creates and compiles one shader, recording the info log when
// compilation fails.
func (r *recorder) compile(name, typeName string, xtype uint32, source, prefix string) uint32 {
	api := r.api
	sh, err := call(api, "glCreateShader("+typeName+")", func() uint32 { return api.CreateShader(xtype) })
	r.note(err)
	r.do("glShaderSource("+name+", 1, &"+name+"Source, NULL)", func() { api.ShaderSource(sh, source) })
	r.do("glCompileShader("+name+")", func() { api.CompileShader(sh) })

	var ok int32
	r.do("glGetShaderiv("+name+", GL_COMPILE_STATUS, &success)", func() {
		api.GetShaderiv(sh, glapi.COMPILE_STATUS, &ok)
	})
	if ok == 0 {
		log, err := call(api, "glGetShaderInfoLog("+name+", 512, NULL, infoLog)", func() string {
			return api.GetShaderInfoLog(sh)
		})
		r.note(err)
		r.add(prefix + log)
	}
	return sh
}

func float32Bytes(v []float32) []byte {
	b := make([]byte, 0, len(v)*4)
	for _, f := range v {
		b = binary.NativeEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

func uint32Bytes(v []uint32) []byte {
	b := make([]byte, 0, len(v)*4)
	for _, u := range v {
		b = binary.NativeEndian.AppendUint32(b, u)
	}
	return b
}
