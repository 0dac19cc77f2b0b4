// Package profile provides optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling support is compiled in only with the pprof build tag:
//
//	go build -tags pprof ./cmd/jtl
//
// Without it, [Enabled] is false, [Modes] is empty, and [Profiler.Start]
// returns a no-op [Stopper], so callers never need to check.
//
//	p := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}
//	defer p.Start().Stop()
//
// The jtl command exposes this as --pprof-mode and --pprof-dir. Profiles are
// written to $XDG_CACHE_HOME/jtl/pprof by default, one file per mode
// (cpu.pprof, mem.pprof, ...), and are read with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/jtl/pprof/cpu.pprof
//
// CPU profiling costs a few percent; block, mutex, and trace profiling can
// cost considerably more and are best kept to short runs.
package profile
