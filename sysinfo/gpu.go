package sysinfo

import (
	"context"
	"strings"
)

// GPUInfo is one display controller block of `lspci -k`.
type GPUInfo struct {
	Description string   `yaml:"description"`
	Subsystem   string   `yaml:"subsystem,omitempty"`
	Driver      string   `yaml:"kernel_driver_in_use,omitempty"`
	Modules     []string `yaml:"kernel_modules,omitempty"`
}

// NVIDIA reports whether the controller is an NVIDIA device.
func (g GPUInfo) NVIDIA() bool {
	return strings.Contains(g.Description, "NVIDIA")
}

// ParseLSPCI extracts the VGA and 3D controller blocks from `lspci -k`
// output. A block starts at an unindented line; its indented lines are
// "key: value" pairs.
func ParseLSPCI(output string) []GPUInfo {
	var blocks [][]string
	var cur []string
	for _, line := range strings.Split(output, "\n") {
		if line != "" && line[0] != ' ' && line[0] != '\t' {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
			}
			cur = []string{line}
			continue
		}
		if cur != nil {
			cur = append(cur, line)
		}
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}

	var gpus []GPUInfo
	for _, b := range blocks {
		if isDisplayController(b) {
			gpus = append(gpus, parseBlock(b))
		}
	}
	return gpus
}

func isDisplayController(block []string) bool {
	for _, l := range block {
		if strings.Contains(l, "VGA") || strings.Contains(l, "3D") {
			return true
		}
	}
	return false
}

func parseBlock(block []string) GPUInfo {
	g := GPUInfo{Description: strings.TrimSpace(block[0])}
	for _, line := range block[1:] {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "Subsystem":
			g.Subsystem = val
		case "Kernel driver in use":
			g.Driver = val
		case "Kernel modules":
			for _, m := range strings.Split(val, ",") {
				if m = strings.TrimSpace(m); m != "" {
					g.Modules = append(g.Modules, m)
				}
			}
		}
	}
	return g
}

// CollectGPUs runs `lspci -k` and parses its display controllers.
func CollectGPUs(ctx context.Context, r Commander) ([]GPUInfo, error) {
	out, err := r.Run(ctx, "lspci", "-k")
	if err != nil {
		return nil, err
	}
	return ParseLSPCI(out), nil
}
