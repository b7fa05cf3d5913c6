//go:build !linux

package sysinfo

import "runtime"

// CollectOS reports the Go runtime's view of the platform.
func CollectOS() (OS, error) {
	return OS{Name: runtime.GOOS, Release: "unknown", Arch: runtime.GOARCH}, nil
}
