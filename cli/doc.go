// Package cli contains the command line interface for jtl.
//
// # Usage
//
// The default command renders templates against the host context:
//
//	jtl -c site.yaml page.jtl
//	echo 'Hello, {user.name}!' | jtl
//
// The host context is the set of builtins (user, env, platform, and helper
// functions) merged with each file given with --context. Use --no-builtins
// to render against the context files alone.
//
// Other commands inspect templates the way an editor would:
//
//	jtl check page.jtl                 # report syntax errors
//	jtl complete --row=1 --col=8 -     # list completions at a cursor
//	jtl hover --row=1 --col=3 page.jtl # describe the property at a cursor
//	jtl fmt json page.jtl              # print the syntax tree
//	jtl schema > schema.yaml           # describe the host context
//	jtl repl                           # render interactively
//
// # Configuration
//
// Flag defaults are read from config.yaml in the per-user configuration
// directory (see [pkg.ConfigDir]), which "jtl init" creates from the current
// flag values. Keys are flag names; nested mappings are joined with hyphens
// and sequences are joined with commas (see [resolve]).
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o jtl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/jtl/pprof)
package cli
