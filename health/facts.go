package health

import (
	"context"

	"github.com/gogpu/gfxhealth"
	"github.com/gogpu/gfxhealth/sysinfo"
)

// CollectSystem gathers the facts no check depends on: the kernel, the
// graphics packages and the journal error count. Failures are logged and
// leave the corresponding fact empty.
func CollectSystem(ctx context.Context, env *Env) {
	log := gfxhealth.Logger()

	if o, err := sysinfo.CollectOS(); err != nil {
		log.Warn("health: os info unavailable", "err", err)
	} else {
		env.Facts.OS = o
	}

	if pkgs, err := sysinfo.CollectPackages(ctx, env.Runner); err != nil {
		log.Warn("health: package info unavailable", "err", err)
	} else {
		env.Facts.Packages = pkgs
	}

	if n, err := sysinfo.CollectJournal(ctx, env.Runner); err != nil {
		log.Warn("health: journal unavailable", "err", err)
	} else {
		env.Facts.JournalErrors = n
	}
}
