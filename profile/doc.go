// Package profile provides optional runtime profiling for vex using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof -o vex .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper], so callers never need their own build constraints.
//
// # Modes
//
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread and trace.
// Each writes a file named after its mode (cpu.pprof, mem.pprof, ...) into
// [Profiler.Dir].
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Dir: "/tmp/vex"}
//	defer p.Start().Stop()
//
// Analyze the result with go tool pprof:
//
//	go tool pprof -http=: /tmp/vex/cpu.pprof
//
// Builds with the tag also register the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
