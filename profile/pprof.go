//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Modes returns the supported profiling modes in sorted order.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(mode))
	},
)

var mode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// option appends pkg/profile options derived from a Profiler.
type option func([]func(*profile.Profile), Profiler) []func(*profile.Profile)

func withMode(opts []func(*profile.Profile), p Profiler) []func(*profile.Profile) {
	if fn, ok := mode[p.Mode]; ok {
		return append(opts, fn)
	}

	return opts
}

func withPath(opts []func(*profile.Profile), p Profiler) []func(*profile.Profile) {
	if p.Dir != "" {
		return append(opts, profile.ProfilePath(p.Dir))
	}

	return opts
}

func withQuiet(opts []func(*profile.Profile), p Profiler) []func(*profile.Profile) {
	if p.Quiet {
		return append(opts, profile.Quiet)
	}

	return opts
}

func start(p Profiler) Stopper {
	opts := withMode(nil, p)
	if len(opts) == 0 {
		return ignore{}
	}

	for _, o := range []option{withPath, withQuiet} {
		opts = o(opts, p)
	}

	return profile.Start(opts...)
}
