package sysinfo

import (
	"context"
	"regexp"
	"strings"
)

// Package is an installed package reported by dpkg.
type Package struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Arch    string `yaml:"arch,omitempty"`
}

// graphicsPackage matches packages that make up the graphics driver stack.
var graphicsPackage = regexp.MustCompile(`(?i)(mesa|nvidia|libgl|libegl|vulkan|xserver-xorg-video|libdrm)`)

// ParseDpkg extracts installed graphics packages from `dpkg -l` output.
func ParseDpkg(output string) []Package {
	var pkgs []Package
	for _, line := range strings.Split(output, "\n") {
		f := strings.Fields(line)
		if len(f) < 3 || f[0] != "ii" {
			continue
		}
		if !graphicsPackage.MatchString(f[1]) {
			continue
		}
		p := Package{Name: f[1], Version: f[2]}
		if len(f) > 3 {
			p.Arch = f[3]
		}
		pkgs = append(pkgs, p)
	}
	return pkgs
}

// CollectPackages lists installed graphics packages. The full listing is
// kept in the dpkg transcript when r is a Runner with a log directory.
func CollectPackages(ctx context.Context, r Commander) ([]Package, error) {
	out, err := r.Run(ctx, "dpkg", "-l")
	if err != nil {
		return nil, err
	}
	return ParseDpkg(out), nil
}

// CollectJournal records error priority journal entries of the current
// boot and returns their count. The entries themselves are kept in the
// journalctl transcript when r is a Runner with a log directory.
func CollectJournal(ctx context.Context, r Commander) (int, error) {
	out, err := r.Run(ctx, "journalctl", "-b", "-p", "err", "--no-pager", "-q")
	if err != nil {
		return 0, err
	}
	if out == "" {
		return 0, nil
	}
	return strings.Count(out, "\n") + 1, nil
}
