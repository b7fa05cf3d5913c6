package selftest_test

import (
	"testing"

	"github.com/gogpu/gfxhealth/glapi"
	"github.com/gogpu/gfxhealth/glapi/glapitest"
	"github.com/gogpu/gfxhealth/glx"
	"github.com/gogpu/gfxhealth/glx/glxtest"
	"github.com/gogpu/gfxhealth/selftest"
)

func TestCreateLoadRunDestroy(t *testing.T) {
	native := glxtest.New()
	c := glx.New(native)

	for i := range 2 {
		if err := c.Create(100, 100); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		caps, err := glapi.Load(&glapitest.Loader{Fake: glapitest.New()})
		if err != nil {
			t.Fatalf("Load() #%d error = %v", i, err)
		}
		if caps.Major() < 1 {
			t.Errorf("Major() = %d, want >= 1", caps.Major())
		}
		if err := selftest.Run(caps); err != nil {
			t.Errorf("Run() #%d error = %v", i, err)
		}
		if err := c.Destroy(); err != nil {
			t.Fatalf("Destroy() #%d error = %v", i, err)
		}
		if c.Live() {
			t.Errorf("Live() after Destroy #%d", i)
		}
		if native.Held() != 0 {
			t.Errorf("held after cycle #%d: %v", i, native.HeldKinds())
		}
	}
}
