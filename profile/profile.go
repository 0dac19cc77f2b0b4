package profile

// Profiler configures a profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own log messages
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling. The returned Stopper is never nil, and Start is a
// no-op if Mode is empty, unrecognized, or the binary was built without the
// pprof tag.
func (p Profiler) Start() Stopper {
	if p.Mode == "" || !Enabled {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
