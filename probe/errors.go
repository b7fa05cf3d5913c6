package probe

import "errors"

var (
	// ErrNoXServer is returned when the X server cannot be reached.
	ErrNoXServer = errors.New("probe: cannot connect to X server")

	// ErrNoGLX is returned when the X server lacks the GLX extension.
	ErrNoGLX = errors.New("probe: X server has no GLX extension")

	// ErrNoVulkan is returned when no Vulkan backend is compiled in.
	ErrNoVulkan = errors.New("probe: vulkan backend not available")

	// ErrAdapters is returned when adapter enumeration fails.
	ErrAdapters = errors.New("probe: adapter enumeration failed")

	// ErrShaderCompile is returned when WGSL compilation fails.
	ErrShaderCompile = errors.New("probe: shader compilation failed")

	// ErrBadSPIRV is returned when the compiler output is not SPIR-V.
	ErrBadSPIRV = errors.New("probe: invalid SPIR-V module")
)
