// Package host builds the context that templates are rendered against.
//
// [Builtins] provides host information and helper functions. Context files
// add data and functions defined in expr-lang:
//
//	data:
//	  guild:
//	    name: BarFight
//	functions:
//	  guild.saymore: args[0] + "_sayingmore"
//
// [Load] merges context files over a base object, and [Describe] derives a
// [service.Schema] from the result for completion and hover.
package host
