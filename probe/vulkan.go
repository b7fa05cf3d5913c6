//go:build !nogpu && !cgo

package probe

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Vulkan returns the registered Vulkan HAL backend.
func Vulkan() (InstanceFactory, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoVulkan
	}
	return backend, nil
}
