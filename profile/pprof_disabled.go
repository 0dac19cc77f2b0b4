//go:build !pprof

package profile

// Enabled reports whether the binary was built with profiling support.
const Enabled = false

// Tag is empty without profiling support.
const Tag = ""

// Modes returns nil without profiling support.
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }
