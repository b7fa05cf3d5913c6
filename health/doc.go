// Package health runs the ordered graphics health checks.
//
// Each Check inspects one layer of the stack, from the PCI devices up to
// OpenGL draw calls, and records fail or warn messages on its Result.
// Checks share an Env holding the native backends and the facts gathered
// so far, so later checks can compare against earlier findings:
//
//	env := health.NewEnv(glx.Default(), glapi.Default())
//	results := health.NewRunner(health.DefaultChecks()...).Run(ctx, env)
//
// GL checks create contexts on the calling goroutine, which Create locks
// to its OS thread. Run the checks from the main goroutine when the
// windowing backend requires it.
package health
