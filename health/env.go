package health

import (
	"time"

	"github.com/gogpu/gfxhealth/glapi"
	"github.com/gogpu/gfxhealth/glx"
	"github.com/gogpu/gfxhealth/probe"
	"github.com/gogpu/gfxhealth/sysinfo"
)

// Default minimum OpenGL version.
const (
	DefaultMinMajor = 4
	DefaultMinMinor = 3
)

// Env is the shared state of a health run.
type Env struct {
	// Native is the windowing backend GL checks create contexts with.
	Native glx.Native

	// Loader resolves GL entry points once a context is current.
	Loader glapi.Loader

	// Vulkan returns the HAL backend adapters are enumerated with.
	Vulkan func() (probe.InstanceFactory, error)

	// Runner executes external commands.
	Runner sysinfo.Commander

	// Display is the X display the server and GL checks connect to;
	// empty means $DISPLAY.
	Display string

	// MinMajor and MinMinor are the minimum accepted OpenGL version.
	MinMajor, MinMinor int

	// ProbeTimeout bounds the X server probe.
	ProbeTimeout time.Duration

	// SnapshotDir receives the framebuffer snapshot; empty disables it.
	SnapshotDir string

	// Facts accumulates what the checks found.
	Facts Facts
}

// NewEnv returns an Env with default settings.
func NewEnv(native glx.Native, loader glapi.Loader) *Env {
	return &Env{
		Native:       native,
		Loader:       loader,
		Vulkan:       probe.Vulkan,
		Runner:       &sysinfo.Runner{},
		MinMajor:     DefaultMinMajor,
		MinMinor:     DefaultMinMinor,
		ProbeTimeout: 5 * time.Second,
	}
}

// Facts are the system details gathered during a run.
type Facts struct {
	OS            sysinfo.OS          `yaml:"os"`
	GPUs          []sysinfo.GPUInfo   `yaml:"gpus"`
	Adapters      []probe.Adapter     `yaml:"vulkan_adapters,omitempty"`
	XServer       *probe.XServerInfo  `yaml:"x_server,omitempty"`
	GL            *glx.Info           `yaml:"opengl,omitempty"`
	GLVersion     *sysinfo.GLVersion  `yaml:"opengl_version,omitempty"`
	LoadedVersion string              `yaml:"loaded_version,omitempty"`
	Shader        *probe.ShaderReport `yaml:"shader_toolchain,omitempty"`
	Packages      []sysinfo.Package   `yaml:"packages,omitempty"`
	JournalErrors int                 `yaml:"journal_errors"`
	Snapshot      string              `yaml:"snapshot,omitempty"`
}
