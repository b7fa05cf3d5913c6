//go:build linux

package sysinfo

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CollectOS reads the kernel name, release and machine via uname(2).
func CollectOS() (OS, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return OS{}, fmt.Errorf("sysinfo: uname: %w", err)
	}
	return OS{
		Name:    unix.ByteSliceToString(u.Sysname[:]),
		Release: unix.ByteSliceToString(u.Release[:]),
		Arch:    unix.ByteSliceToString(u.Machine[:]),
	}, nil
}
