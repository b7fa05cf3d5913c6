package probe

import (
	"fmt"

	"github.com/gogpu/gfxhealth/selftest"
	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ShaderReport describes a compiled SPIR-V module.
type ShaderReport struct {
	Words   int    `yaml:"words"`
	Version string `yaml:"spirv_version"`
}

// CompileWGSL compiles WGSL source to SPIR-V words.
// SPIR-V is little-endian 32-bit words.
func CompileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of words", ErrBadSPIRV, len(spirvBytes))
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// Inspect validates the SPIR-V header and returns its summary.
func Inspect(words []uint32) (*ShaderReport, error) {
	// Header: magic, version, generator, bound, schema.
	if len(words) < 5 {
		return nil, fmt.Errorf("%w: %d words, header needs 5", ErrBadSPIRV, len(words))
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrBadSPIRV, words[0])
	}
	major := (words[1] >> 16) & 0xFF
	minor := (words[1] >> 8) & 0xFF
	return &ShaderReport{
		Words:   len(words),
		Version: fmt.Sprintf("%d.%d", major, minor),
	}, nil
}

// ShaderToolchain compiles the self-test program's WGSL equivalent and
// validates the result.
func ShaderToolchain() (*ShaderReport, error) {
	words, err := CompileWGSL(selftest.ShaderWGSL)
	if err != nil {
		return nil, err
	}
	return Inspect(words)
}
