// Package cli contains the command line interface for vex.
//
// # Usage
//
//	vex [flags] [eval] EXPR...
//	vex check [--strict] EXPR...
//	vex fmt {canonical|tree|json|yaml} EXPR...
//	vex repl
//	vex init [--force]
//
// Expressions are taken from the arguments, from --source files (one per
// line, '#' starts a comment line) or from stdin.
//
// # Bindings
//
// Names referenced by expressions are bound from, in increasing precedence:
//
//   - --host: host facts (host.os, host.arch, host.cwd, ...)
//   - --env: process environment variables (env.HOME, ...)
//   - -b/--bindings FILE: YAML documents, nested keys joined with dots
//   - --lua FILE: Lua scripts; their global scalars are read on each
//     evaluation and a global tick() function advances them
//   - -D/--define NAME=VALUE: literal values
//
// Relative binding files are searched in the working directory, the
// configuration directory and each directory listed in $VEX_PATH.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory ($XDG_CONFIG_HOME/vex on Linux). Keys are flag names:
//
//	log-level: debug
//	bindings:
//	  - world.yaml
//	define:
//	  player.health: 20
//
// "vex init" writes the current flag values to that file.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn or error
//   - --log-format: json or text
//   - --log-time-layout: RFC3339, Kitchen, none or a Go time layout
//   - --[no-]log-caller, --[no-]log-pretty
//
// # Profiling Options
//
// Available only when built with the pprof build tag:
//
//	go build -tags pprof -o vex .
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread or trace
//   - --pprof-dir: output directory (default: <cache dir>/vex/pprof)
package cli
