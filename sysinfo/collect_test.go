package sysinfo

import "testing"

func TestParseDpkg(t *testing.T) {
	out := `Desired=Unknown/Install/Remove/Purge/Hold
| Status=Not/Inst/Conf-files/Unpacked/halF-conf/Half-inst/trig-aWait/Trig-pend
||/ Name                    Version                 Architecture Description
+++-=======================-=======================-============-=========================
ii  bash                    5.1-6ubuntu1            amd64        GNU Bourne Again SHell
ii  libgl1-mesa-dri:amd64   23.2.1-1ubuntu3.1~22.04 amd64        free implementation of the OpenGL API -- DRI modules
ii  mesa-vulkan-drivers     23.2.1-1ubuntu3.1~22.04 amd64        Mesa Vulkan graphics drivers
rc  nvidia-driver-525       525.147.05-0ubuntu1     amd64        NVIDIA driver metapackage
ii  nvidia-driver-535       535.154.05-0ubuntu1     amd64        NVIDIA driver metapackage
`
	pkgs := ParseDpkg(out)
	want := []Package{
		{Name: "libgl1-mesa-dri:amd64", Version: "23.2.1-1ubuntu3.1~22.04", Arch: "amd64"},
		{Name: "mesa-vulkan-drivers", Version: "23.2.1-1ubuntu3.1~22.04", Arch: "amd64"},
		{Name: "nvidia-driver-535", Version: "535.154.05-0ubuntu1", Arch: "amd64"},
	}
	if len(pkgs) != len(want) {
		t.Fatalf("ParseDpkg() = %+v, want %d packages", pkgs, len(want))
	}
	for i := range want {
		if pkgs[i] != want[i] {
			t.Errorf("package %d = %+v, want %+v", i, pkgs[i], want[i])
		}
	}
}
