//go:build nogpu || cgo

package probe

import "fmt"

// Vulkan always fails in builds without the Vulkan HAL: -tags nogpu, or
// cgo builds, since the HAL loads the driver through goffi, which requires
// CGO_ENABLED=0.
func Vulkan() (InstanceFactory, error) {
	return nil, fmt.Errorf("%w: rebuild with CGO_ENABLED=0 and without -tags nogpu", ErrNoVulkan)
}
