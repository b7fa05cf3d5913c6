package probe

import (
	"fmt"

	"github.com/gogpu/gfxhealth"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// InstanceFactory creates HAL instances. hal.Backend implements it.
type InstanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// AdapterKind classifies an adapter.
type AdapterKind string

const (
	AdapterDiscrete   AdapterKind = "discrete"
	AdapterIntegrated AdapterKind = "integrated"
	AdapterOther      AdapterKind = "other"
)

// Adapter is one physical or software device exposed by a backend.
type Adapter struct {
	Name string      `yaml:"name"`
	Kind AdapterKind `yaml:"kind"`
}

// Hardware reports whether the adapter is a real GPU.
func (a Adapter) Hardware() bool {
	return a.Kind == AdapterDiscrete || a.Kind == AdapterIntegrated
}

func adapterKind(t gputypes.DeviceType) AdapterKind {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return AdapterDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return AdapterIntegrated
	default:
		return AdapterOther
	}
}

// Adapters creates an instance, lists its adapters and destroys it.
func Adapters(f InstanceFactory) ([]Adapter, error) {
	instance, err := f.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrAdapters, err)
	}
	defer instance.Destroy()

	exposed := instance.EnumerateAdapters(nil)
	adapters := make([]Adapter, 0, len(exposed))
	for i := range exposed {
		a := Adapter{
			Name: exposed[i].Info.Name,
			Kind: adapterKind(exposed[i].Info.DeviceType),
		}
		gfxhealth.Logger().Debug("probe: adapter", "name", a.Name, "kind", a.Kind)
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// HasHardware reports whether any adapter is a real GPU.
func HasHardware(adapters []Adapter) bool {
	for _, a := range adapters {
		if a.Hardware() {
			return true
		}
	}
	return false
}
