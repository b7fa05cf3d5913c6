//go:build nogpu || cgo

package probe

import (
	"errors"
	"strings"
	"testing"
)

func TestVulkanExcludedFromBuild(t *testing.T) {
	f, err := Vulkan()
	if !errors.Is(err, ErrNoVulkan) {
		t.Fatalf("Vulkan() error = %v, want ErrNoVulkan", err)
	}
	if f != nil {
		t.Error("Vulkan() returned a factory")
	}
	if !strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Errorf("error %q does not say how to get the Vulkan probe", err)
	}
}
