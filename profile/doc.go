// Package profile provides optional runtime profiling for ftmpl.
//
// Profiling uses [github.com/pkg/profile] and must be enabled at build time
// with the "pprof" build tag. Without the tag, [Modes] is empty and
// [Profiler.Start] returns a no-op.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap memory profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace profiling
//
// # Command-Line Usage
//
//	go build -tags pprof .
//	ftmpl --pprof-mode cpu 'poly#(3, n, m, o, p)'
//	go tool pprof -http=: ~/.cache/ftmpl/pprof/cpu.pprof
//
// Expansion of large templates is dominated by allocation, so "allocs" and
// "heap" are usually more telling than "cpu".
package profile

// Tag is the build tag required to enable profiling. It is also the name of
// the default output subdirectory.
const Tag = `pprof`

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string

	// Path is the output directory. Empty uses a temporary directory.
	Path string

	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Start begins profiling and returns a handle for stopping it.
// Both Start and Stop are always safely callable.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
