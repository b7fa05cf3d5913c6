package selftest_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gfxhealth"
	"github.com/gogpu/gfxhealth/glapi"
	"github.com/gogpu/gfxhealth/glapi/glapitest"
	"github.com/gogpu/gfxhealth/selftest"
)

func TestRunClean(t *testing.T) {
	api := glapitest.New()
	if err := selftest.RunAPI(api); err != nil {
		t.Fatalf("RunAPI() error = %v", err)
	}
	if api.Draws != 2 {
		t.Errorf("Draws = %d, want 2", api.Draws)
	}
	for _, kind := range []string{
		glapitest.KindVertexArray, glapitest.KindBuffer,
		glapitest.KindShader, glapitest.KindProgram,
	} {
		if n := api.Live(kind); n != 0 {
			t.Errorf("%d %s objects leaked", n, kind)
		}
	}
}

func TestRunWithCapabilities(t *testing.T) {
	api := glapitest.New()
	caps, err := glapi.Load(&glapitest.Loader{Fake: api})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := selftest.Run(caps); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestRunDistinctObjects(t *testing.T) {
	api := glapitest.New()
	if err := selftest.RunAPI(api); err != nil {
		t.Fatalf("RunAPI() error = %v", err)
	}
	if len(api.VertexArrays) != 1 || len(api.Buffers) != 2 {
		t.Fatalf("allocated %d vertex arrays and %d buffers, want 1 and 2",
			len(api.VertexArrays), len(api.Buffers))
	}
	names := []uint32{api.VertexArrays[0], api.Buffers[0], api.Buffers[1]}
	for i, a := range names {
		for _, b := range names[i+1:] {
			if a == b {
				t.Errorf("object names %v are not distinct", names)
			}
		}
	}
}

func TestRunUploads(t *testing.T) {
	api := glapitest.New()
	if err := selftest.RunAPI(api); err != nil {
		t.Fatalf("RunAPI() error = %v", err)
	}
	if n := len(api.Uploads[glapi.ARRAY_BUFFER]); n != 3*2*4 {
		t.Errorf("vertex upload = %d bytes, want 24", n)
	}
	if n := len(api.Uploads[glapi.ELEMENT_ARRAY_BUFFER]); n != 3*4 {
		t.Errorf("index upload = %d bytes, want 12", n)
	}
}

func TestRunCallOrder(t *testing.T) {
	api := glapitest.New()
	if err := selftest.RunAPI(api); err != nil {
		t.Fatalf("RunAPI() error = %v", err)
	}
	order := []string{
		"GenVertexArrays", "GenBuffers", "BindVertexArray", "BufferData",
		"VertexAttribPointer", "EnableVertexAttribArray", "CompileShader",
		"LinkProgram", "DeleteShader", "UseProgram", "ClearColor", "Clear",
		"DrawArrays", "DrawElements", "Flush", "DeleteProgram",
		"DeleteVertexArrays", "DeleteBuffers",
	}
	last := -1
	for _, m := range order {
		i := slices.Index(api.Calls[last+1:], m)
		if i < 0 {
			t.Fatalf("%s not called after position %d; calls: %v", m, last, api.Calls)
		}
		last += i + 1
	}
}

func TestRunVertexShaderFailure(t *testing.T) {
	const log = "0:3(5): error: syntax error, unexpected IDENTIFIER"
	api := glapitest.New().FailCompile(glapi.VERTEX_SHADER, log)

	err := selftest.RunAPI(api)
	if err == nil {
		t.Fatal("RunAPI() error = nil, want failure")
	}
	r := gfxhealth.ReportOf(err)
	if r.Code != 1 {
		t.Errorf("Code = %d, want 1", r.Code)
	}
	if !strings.Contains(r.Message, "Vertex Shader Compilation Error: "+log) {
		t.Errorf("Message = %q, want vertex compile log", r.Message)
	}
	// Later steps still run and report.
	if !strings.Contains(r.Message, "Shader Program Linking Error: ") {
		t.Errorf("Message = %q, want link failure", r.Message)
	}
	if strings.Contains(r.Message, "Fragment Shader Compilation Error") {
		t.Errorf("Message = %q, fragment shader should compile", r.Message)
	}
	compiles := 0
	for _, c := range api.Calls {
		if c == "CompileShader" {
			compiles++
		}
	}
	if compiles != 2 {
		t.Errorf("CompileShader called %d times, want 2", compiles)
	}
	if !api.Called("LinkProgram") || !api.Called("DeleteBuffers") {
		t.Error("run stopped early after the compile failure")
	}
}

func TestRunFragmentShaderFailure(t *testing.T) {
	api := glapitest.New().FailCompile(glapi.FRAGMENT_SHADER, "bad fragment")

	err := selftest.RunAPI(api)
	var f *selftest.Failures
	if !errors.As(err, &f) {
		t.Fatalf("RunAPI() error = %v, want *Failures", err)
	}
	if !slices.Contains(f.Records, "Fragment Shader Compilation Error: bad fragment") {
		t.Errorf("Records = %q, want fragment compile record", f.Records)
	}
}

func TestRunLinkFailure(t *testing.T) {
	api := glapitest.New().FailLink("error: vertex shader lacks `main'")

	err := selftest.RunAPI(api)
	var f *selftest.Failures
	if !errors.As(err, &f) {
		t.Fatalf("RunAPI() error = %v, want *Failures", err)
	}
	if f.Records[0] != "Shader Program Linking Error: error: vertex shader lacks `main'" {
		t.Errorf("first record = %q, want link log", f.Records[0])
	}
	// An unlinked program cannot be used or drawn with.
	want := []string{
		"glUseProgram(shaderProgram) : GL_INVALID_OPERATION",
		"glDrawArrays(GL_TRIANGLES, 0, 3) : GL_INVALID_OPERATION",
		"glDrawElements(GL_TRIANGLES, 3, GL_UNSIGNED_INT, 0) : GL_INVALID_OPERATION",
	}
	if got := f.CallErrors(); !slices.Equal(got, want) {
		t.Errorf("CallErrors() = %q, want %q", got, want)
	}
}

func TestRunCallErrors(t *testing.T) {
	api := glapitest.New().
		FailOn("BindVertexArray", glapi.INVALID_OPERATION).
		FailOn("Flush", 0x0999)

	err := selftest.RunAPI(api)
	if err == nil {
		t.Fatal("RunAPI() error = nil, want failure")
	}
	want := "glBindVertexArray(vao) : GL_INVALID_OPERATION|" +
		"glFlush() : UNKNOWN_ERROR|" +
		"glBindVertexArray(0) : GL_INVALID_OPERATION"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if strings.HasSuffix(err.Error(), "|") {
		t.Error("message has a trailing delimiter")
	}
}

func TestFailures(t *testing.T) {
	f := &selftest.Failures{Records: []string{"a : GL_INVALID_ENUM", "Vertex Shader Compilation Error: x"}}
	if f.Error() != "a : GL_INVALID_ENUM|Vertex Shader Compilation Error: x" {
		t.Errorf("Error() = %q", f.Error())
	}
	if f.Code() != 1 {
		t.Errorf("Code() = %d, want 1", f.Code())
	}
	if got := f.CallErrors(); !slices.Equal(got, []string{"a : GL_INVALID_ENUM"}) {
		t.Errorf("CallErrors() = %q", got)
	}
}
