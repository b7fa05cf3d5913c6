package health

import (
	"context"
	"errors"

	"github.com/gogpu/gfxhealth/probe"
	"github.com/gogpu/gfxhealth/sysinfo"
)

// GPUCheck verifies that lspci lists display controllers with drivers.
type GPUCheck struct{}

func (GPUCheck) Label() string { return "Checking GPU" }

func (GPUCheck) Run(ctx context.Context, env *Env, r *Result) {
	gpus, err := sysinfo.CollectGPUs(ctx, env.Runner)
	if err != nil {
		r.Fail("%v", err)
		return
	}
	env.Facts.GPUs = gpus
	if len(gpus) == 0 {
		r.Fail("No GPUs detected")
		return
	}

	for _, gpu := range gpus {
		if gpu.Description == "" || gpu.Subsystem == "" {
			r.Fail("GPU info incomplete: description or subsystem missing")
		}
		name := gpu.Subsystem
		if name == "" {
			name = "[unknown]"
		}
		if gpu.Driver == "" {
			r.Fail("Driver info missing for GPU '%s'", name)
			continue
		}
		if gpu.NVIDIA() && gpu.Driver != "nvidia" && gpu.Driver != "nouveau" {
			r.Fail("NVIDIA GPU '%s' uses unsupported driver '%s'", name, gpu.Driver)
		}
	}
}

// VulkanCheck lists the Vulkan adapters and warns when none is a GPU.
type VulkanCheck struct{}

func (VulkanCheck) Label() string { return "Checking Vulkan adapters" }

func (VulkanCheck) Run(_ context.Context, env *Env, r *Result) {
	if env.Vulkan == nil {
		r.Warn("Vulkan probing disabled")
		return
	}
	backend, err := env.Vulkan()
	if err != nil {
		r.Warn("%v", err)
		return
	}
	adapters, err := probe.Adapters(backend)
	if err != nil {
		r.Fail("%v", err)
		return
	}
	env.Facts.Adapters = adapters

	switch {
	case len(adapters) == 0:
		r.Warn("No Vulkan adapters found")
	case !probe.HasHardware(adapters):
		r.Warn("Only software Vulkan adapters found: '%s'", adapters[0].Name)
	}
}

// XServerCheck verifies the X server is reachable and offers GLX.
type XServerCheck struct{}

func (XServerCheck) Label() string { return "Checking X server" }

func (XServerCheck) Run(ctx context.Context, env *Env, r *Result) {
	if env.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, env.ProbeTimeout)
		defer cancel()
	}
	info, err := probe.XServer(ctx, env.Display)
	if info != nil {
		env.Facts.XServer = info
	}
	switch {
	case errors.Is(err, probe.ErrNoGLX):
		r.Fail("X server '%s' has no GLX extension", displayName(info))
	case err != nil:
		r.Fail("%v", err)
	}
}

func displayName(info *probe.XServerInfo) string {
	if info == nil || info.Display == "" {
		return "[unknown]"
	}
	return info.Display
}

// ShaderCheck compiles the self-test program from WGSL to SPIR-V.
type ShaderCheck struct{}

func (ShaderCheck) Label() string { return "Checking shader toolchain" }

func (ShaderCheck) Run(_ context.Context, env *Env, r *Result) {
	report, err := probe.ShaderToolchain()
	if err != nil {
		r.Fail("%v", err)
		return
	}
	env.Facts.Shader = report
}
