// Package luahost discovers and loads Lua plugin scripts.
//
// Discovery scans a plugins directory (non-recursively) for .lua files and
// for plugin directories carrying a plugin.yaml manifest; names starting
// with an underscore are skipped. Each discovered unit is executed in its
// own sandboxed interpreter under a synthesized module name. Loading is
// side-effecting by contract: a discovered script is expected to register
// itself by calling the host function the loader injects:
//
//	modelpath.register({
//	    name = "shouter",
//	    version = "1.0.0",
//	    priority = 10,
//	    hooks = {
//	        generate_request = function(record)
//	            record.shout = true
//	            return record
//	        end,
//	    },
//	})
//
// A script that fails to parse or execute aborts discovery with the
// offending path; silently losing plugins would be worse than a visible
// failure.
//
// The interpreter sandbox opens only the base, table, string, and math
// libraries. The io, os, debug, and package libraries stay closed: plugins
// that need I/O belong in Go, not in configuration-tier scripts.
package luahost
