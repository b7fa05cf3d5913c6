//go:build !nogpu && !cgo

package probe

import "testing"

func TestVulkanBackendRegistered(t *testing.T) {
	f, err := Vulkan()
	if err != nil {
		t.Fatalf("Vulkan() error = %v", err)
	}
	if f == nil {
		t.Fatal("Vulkan() returned a nil factory")
	}
}
