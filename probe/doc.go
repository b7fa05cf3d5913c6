// Package probe inspects the graphics stack below OpenGL: the X server
// and its GLX extension, the Vulkan adapters visible through
// github.com/gogpu/wgpu, and the WGSL to SPIR-V shader toolchain.
//
// Probes never create a GL context; they complement the glx and selftest
// checks by telling apart a broken X setup, a missing driver and a broken
// GL stack.
package probe
