//go:build !pprof

package profile

import "iter"

// Modes returns the supported profiling modes, none without the pprof
// build tag.
func Modes() iter.Seq[string] { return func(func(string) bool) {} }

func start(Profiler) interface{ Stop() } { return ignore{} }
