package health

import (
	"context"
	"time"

	"github.com/gogpu/gfxhealth"
)

// Check inspects one layer of the graphics stack.
type Check interface {
	// Label is the human readable title, e.g. "Checking GPU".
	Label() string

	// Run records findings on r. It must not panic on missing hardware.
	Run(ctx context.Context, env *Env, r *Result)
}

// Observer is notified around each check, e.g. to draw progress.
type Observer interface {
	Started(label string)
	Done(r *Result)
}

// Runner runs checks in order.
type Runner struct {
	checks   []Check
	observer Observer
}

// NewRunner returns a Runner for the given checks.
func NewRunner(checks ...Check) *Runner {
	return &Runner{checks: checks}
}

// WithObserver sets the observer notified around each check.
func (r *Runner) WithObserver(o Observer) *Runner {
	r.observer = o
	return r
}

// Run executes every check and returns their results in order. A canceled
// context stops the run before the next check.
func (r *Runner) Run(ctx context.Context, env *Env) []*Result {
	results := make([]*Result, 0, len(r.checks))
	for _, c := range r.checks {
		if ctx.Err() != nil {
			break
		}
		res := &Result{Label: c.Label()}
		if r.observer != nil {
			r.observer.Started(res.Label)
		}

		start := time.Now()
		c.Run(ctx, env, res)
		res.Duration = time.Since(start)

		gfxhealth.Logger().Info("health: check finished",
			"check", res.Label, "status", res.Status.String(), "messages", len(res.Messages))
		for _, m := range res.Messages {
			gfxhealth.Logger().Debug("health: finding", "check", res.Label, "kind", string(m.Kind), "text", m.Text)
		}

		if r.observer != nil {
			r.observer.Done(res)
		}
		results = append(results, res)
	}
	return results
}

// DefaultChecks returns the checks in the order they build on each other.
func DefaultChecks() []Check {
	return []Check{
		GPUCheck{},
		VulkanCheck{},
		XServerCheck{},
		OpenGLInfoCheck{},
		OpenGLContextCheck{},
		OpenGLLoadCheck{},
		OpenGLCallCheck{},
		ShaderCheck{},
	}
}
