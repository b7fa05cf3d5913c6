package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gfxhealth/glapi"
	"github.com/gogpu/gfxhealth/glapi/glapitest"
	"github.com/gogpu/gfxhealth/glx"
	"github.com/gogpu/gfxhealth/glx/glxtest"
	"github.com/gogpu/gfxhealth/probe"
	"github.com/gogpu/gfxhealth/sysinfo"
	"github.com/gogpu/wgpu/hal/noop"
)

var errInjected = errors.New("injected")

// fakeCommands maps a command line to its output.
type fakeCommands map[string]string

func (f fakeCommands) Run(_ context.Context, name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	out, ok := f[line]
	if !ok {
		return "", fmt.Errorf("%w: %s", sysinfo.ErrNotFound, name)
	}
	return out, nil
}

type testEnv struct {
	*Env
	native *glxtest.Native
	gl     *glapitest.API
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	native := glxtest.New()
	gl := glapitest.New()
	env := NewEnv(native, &glapitest.Loader{Fake: gl})
	env.Runner = fakeCommands{}
	env.Vulkan = func() (probe.InstanceFactory, error) { return &noop.API{}, nil }
	return testEnv{Env: env, native: native, gl: gl}
}

func run(c Check, env *Env) *Result {
	r := &Result{Label: c.Label()}
	c.Run(context.Background(), env, r)
	return r
}

func texts(r *Result) []string {
	out := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = string(m.Kind) + ": " + m.Text
	}
	return out
}

func TestResultStatus(t *testing.T) {
	r := &Result{}
	if !r.OK() || r.Status != StatusOK {
		t.Fatalf("new Result = %+v, want OK", r)
	}
	r.Warn("slow")
	if r.Status != StatusWarn {
		t.Errorf("Status after Warn = %v, want warn", r.Status)
	}
	r.Fail("broken %d", 1)
	if r.Status != StatusFail {
		t.Errorf("Status after Fail = %v, want fail", r.Status)
	}
	r.Warn("again")
	if r.Status != StatusFail {
		t.Errorf("Warn downgraded status to %v", r.Status)
	}
	want := []string{"warn: slow", "fail: broken 1", "warn: again"}
	if got := texts(r); !slices.Equal(got, want) {
		t.Errorf("messages = %q, want %q", got, want)
	}
}

func TestResultFormatsDriverText(t *testing.T) {
	r := &Result{}
	r.Warn("%s", "shader cache 100% full")
	r.Fail("%d of %d draws failed", 2, 3)
	want := []string{"warn: shader cache 100% full", "fail: 2 of 3 draws failed"}
	if got := texts(r); !slices.Equal(got, want) {
		t.Errorf("messages = %q, want %q", got, want)
	}
}

func TestWorst(t *testing.T) {
	results := []*Result{{Status: StatusOK}, {Status: StatusWarn}, {Status: StatusOK}}
	if got := Worst(results); got != StatusWarn {
		t.Errorf("Worst() = %v, want warn", got)
	}
	if got := Worst(nil); got != StatusOK {
		t.Errorf("Worst(nil) = %v, want ok", got)
	}
}

func TestGPUCheck(t *testing.T) {
	tests := []struct {
		name  string
		lspci string
		want  []string
	}{
		{
			name: "healthy",
			lspci: "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 630\n" +
				"\tSubsystem: Dell UHD Graphics 630\n" +
				"\tKernel driver in use: i915\n",
		},
		{
			name:  "no gpu",
			lspci: "02:00.0 Network controller: Intel Corporation Wi-Fi 6 AX200\n",
			want:  []string{"fail: No GPUs detected"},
		},
		{
			name: "missing driver",
			lspci: "01:00.0 3D controller: NVIDIA Corporation TU117M\n" +
				"\tSubsystem: Dell TU117M\n",
			want: []string{"fail: Driver info missing for GPU 'Dell TU117M'"},
		},
		{
			name: "unsupported nvidia driver",
			lspci: "01:00.0 3D controller: NVIDIA Corporation TU117M\n" +
				"\tSubsystem: Dell TU117M\n" +
				"\tKernel driver in use: vfio-pci\n",
			want: []string{"fail: NVIDIA GPU 'Dell TU117M' uses unsupported driver 'vfio-pci'"},
		},
		{
			name:  "incomplete",
			lspci: "00:02.0 VGA compatible controller: Unknown\n\tKernel driver in use: i915\n",
			want:  []string{"fail: GPU info incomplete: description or subsystem missing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.Runner = fakeCommands{"lspci -k": tt.lspci}
			r := run(GPUCheck{}, e.Env)
			if got := texts(r); !slices.Equal(got, tt.want) {
				t.Errorf("messages = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGPUCheckNoLspci(t *testing.T) {
	e := newTestEnv(t)
	r := run(GPUCheck{}, e.Env)
	if r.Status != StatusFail || !strings.Contains(r.Messages[0].Text, "command not found") {
		t.Errorf("messages = %q, want command not found failure", texts(r))
	}
}

func TestVulkanCheck(t *testing.T) {
	e := newTestEnv(t)
	r := run(VulkanCheck{}, e.Env)
	if r.Status == StatusFail {
		t.Errorf("messages = %q, want no failure on the noop backend", texts(r))
	}
	if len(e.Facts.Adapters) == 0 {
		t.Error("adapters not recorded")
	}
}

func TestVulkanCheckUnavailable(t *testing.T) {
	e := newTestEnv(t)
	e.Vulkan = func() (probe.InstanceFactory, error) { return nil, probe.ErrNoVulkan }
	r := run(VulkanCheck{}, e.Env)
	if r.Status != StatusWarn {
		t.Errorf("Status = %v, want warn", r.Status)
	}
}

func TestOpenGLInfoCheck(t *testing.T) {
	tests := []struct {
		name     string
		renderer string
		version  string
		want     []string
	}{
		{
			name:     "hardware",
			renderer: "NVIDIA GeForce GTX 1650/PCIe/SSE2",
			version:  "4.6.0 NVIDIA 535.154.05",
		},
		{
			name:     "software renderer",
			renderer: "llvmpipe (LLVM 15.0.7, 256 bits)",
			version:  "4.5 (Core Profile) Mesa 23.2.1",
			want:     []string{"warn: Software renderer detected: 'llvmpipe (LLVM 15.0.7, 256 bits)'"},
		},
		{
			name:     "too old",
			renderer: "Mesa Intel(R) HD Graphics 3000 (SNB GT2)",
			version:  "3.3 (Core Profile) Mesa 21.0.3",
			want:     []string{"fail: OpenGL version too low: 3.3 (3.3 (Core Profile) Mesa 21.0.3)"},
		},
		{
			name:     "unparsable",
			renderer: "softpipe",
			version:  "unknown",
			want: []string{
				"warn: Software renderer detected: 'softpipe'",
				"fail: Failed to parse OpenGL version: glapi: unparsable version \"unknown\"",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.native.Strings[glx.StringRenderer] = tt.renderer
			e.native.Strings[glx.StringVersion] = tt.version

			r := run(OpenGLInfoCheck{}, e.Env)
			if got := texts(r); !slices.Equal(got, tt.want) {
				t.Errorf("messages = %q, want %q", got, tt.want)
			}
			if e.Facts.GL == nil || e.Facts.GL.Renderer != tt.renderer {
				t.Errorf("Facts.GL = %+v, want renderer %q", e.Facts.GL, tt.renderer)
			}
			if e.native.Held() != 0 {
				t.Errorf("context leaked: %v", e.native.HeldKinds())
			}
		})
	}
}

func TestOpenGLInfoCheckMinimum(t *testing.T) {
	e := newTestEnv(t)
	e.native.Strings[glx.StringVersion] = "3.3 (Core Profile) Mesa 21.0.3"
	e.MinMajor, e.MinMinor = 3, 3

	if r := run(OpenGLInfoCheck{}, e.Env); !r.OK() {
		t.Errorf("messages = %q, want none with minimum 3.3", texts(r))
	}
}

func TestOpenGLContextCheck(t *testing.T) {
	e := newTestEnv(t)
	if r := run(OpenGLContextCheck{}, e.Env); !r.OK() {
		t.Errorf("messages = %q, want none", texts(r))
	}
	if e.native.Held() != 0 {
		t.Errorf("context leaked: %v", e.native.HeldKinds())
	}
}

func TestOpenGLContextCheckDisplay(t *testing.T) {
	e := newTestEnv(t)
	e.Display = ":7"
	if r := run(OpenGLContextCheck{}, e.Env); !r.OK() {
		t.Fatalf("messages = %q, want none", texts(r))
	}
	if e.native.LastDisplayName != ":7" {
		t.Errorf("OpenDisplay name = %q, want %q", e.native.LastDisplayName, ":7")
	}
}

func TestOpenGLContextCheckFailure(t *testing.T) {
	e := newTestEnv(t)
	e.native.FailOn(glxtest.MakeCurrent, errInjected)

	r := run(OpenGLContextCheck{}, e.Env)
	want := []string{"fail: glx: failed to make context current: injected"}
	if got := texts(r); !slices.Equal(got, want) {
		t.Errorf("messages = %q, want %q", got, want)
	}
	if e.native.Held() != 0 {
		t.Errorf("failed create leaked: %v", e.native.HeldKinds())
	}
}

func TestOpenGLLoadCheck(t *testing.T) {
	e := newTestEnv(t)
	v := sysinfo.GLVersion{String: "4.6 (Core Profile) glapitest", Major: 4, Minor: 6}
	e.Facts.GLVersion = &v

	r := run(OpenGLLoadCheck{}, e.Env)
	if !r.OK() {
		t.Errorf("messages = %q, want none", texts(r))
	}
	if e.Facts.LoadedVersion != "4.6" {
		t.Errorf("LoadedVersion = %q, want 4.6", e.Facts.LoadedVersion)
	}
}

func TestOpenGLLoadCheckMismatch(t *testing.T) {
	e := newTestEnv(t)
	v := sysinfo.GLVersion{String: "4.5 (Compatibility Profile) Mesa 23.2.1", Major: 4, Minor: 5}
	e.Facts.GLVersion = &v

	r := run(OpenGLLoadCheck{}, e.Env)
	if r.Status != StatusWarn || !strings.HasPrefix(r.Messages[0].Text, "Loaded OpenGL version mismatch") {
		t.Errorf("messages = %q, want version mismatch warning", texts(r))
	}
}

func TestOpenGLLoadCheckTooLow(t *testing.T) {
	e := newTestEnv(t)
	e.gl.Major, e.gl.Minor = 3, 3

	r := run(OpenGLLoadCheck{}, e.Env)
	want := []string{"fail: Loaded OpenGL version too low: 3.3"}
	if got := texts(r); !slices.Equal(got, want) {
		t.Errorf("messages = %q, want %q", got, want)
	}
}

func TestOpenGLLoadCheckLoaderFailure(t *testing.T) {
	e := newTestEnv(t)
	e.Loader = &glapitest.Loader{Err: errInjected}

	r := run(OpenGLLoadCheck{}, e.Env)
	want := []string{"fail: glapi: failed to load OpenGL functions"}
	if got := texts(r); !slices.Equal(got, want) {
		t.Errorf("messages = %q, want %q", got, want)
	}
	if e.native.Held() != 0 {
		t.Errorf("context leaked after load failure: %v", e.native.HeldKinds())
	}
}

func TestOpenGLCallCheck(t *testing.T) {
	e := newTestEnv(t)
	e.SnapshotDir = t.TempDir()

	r := run(OpenGLCallCheck{}, e.Env)
	if !r.OK() {
		t.Errorf("messages = %q, want none", texts(r))
	}
	want := filepath.Join(e.SnapshotDir, SnapshotFile)
	if e.Facts.Snapshot != want {
		t.Errorf("Snapshot = %q, want %q", e.Facts.Snapshot, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
	if e.native.LastWidth != snapshotSize {
		t.Errorf("window width = %d, want %d", e.native.LastWidth, snapshotSize)
	}
}

func TestOpenGLCallCheckFailures(t *testing.T) {
	e := newTestEnv(t)
	e.gl.FailOn("BindVertexArray", glapi.INVALID_OPERATION)

	r := run(OpenGLCallCheck{}, e.Env)
	want := []string{
		"fail: glBindVertexArray(vao) : GL_INVALID_OPERATION",
		"fail: glBindVertexArray(0) : GL_INVALID_OPERATION",
	}
	if got := texts(r); !slices.Equal(got, want) {
		t.Errorf("messages = %q, want %q", got, want)
	}
	if e.Facts.Snapshot != "" {
		t.Errorf("Snapshot = %q, want none without SnapshotDir", e.Facts.Snapshot)
	}
}

func TestShaderCheck(t *testing.T) {
	e := newTestEnv(t)
	r := run(ShaderCheck{}, e.Env)
	if r.Status == StatusFail && strings.Contains(r.Messages[0].Text, "not yet implemented") {
		t.Skipf("Skipping: naga feature not yet implemented: %s", r.Messages[0].Text)
	}
	if !r.OK() {
		t.Fatalf("messages = %q, want none", texts(r))
	}
	if e.Facts.Shader == nil {
		t.Error("shader report not recorded")
	}
}
