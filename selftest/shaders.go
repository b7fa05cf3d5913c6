package selftest

// VertexShaderGLSL passes the 2D position through unchanged.
const VertexShaderGLSL = `#version 330 core
layout (location = 0) in vec2 aPos;

void main() {
    gl_Position = vec4(aPos, 0.0, 1.0);
}
`

// FragmentShaderGLSL fills with a constant orange.
const FragmentShaderGLSL = `#version 330 core
out vec4 FragColor;

void main() {
    FragColor = vec4(1.0, 0.5, 0.2, 1.0);
}
`

// ShaderWGSL is the WGSL equivalent of the GLSL program, with entry points
// VertexEntry and FragmentEntry.
const ShaderWGSL = `@vertex
fn vs_main(@location(0) pos: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.5, 0.2, 1.0);
}
`

// Entry points of ShaderWGSL.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Triangle geometry and clear color.
var (
	vertices = []float32{
		-0.5, -0.5,
		0.5, -0.5,
		0.0, 0.5,
	}
	indices    = []uint32{0, 1, 2}
	clearColor = [4]float32{0.2, 0.3, 0.3, 1.0}
)
