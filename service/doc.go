// Package service provides editor tooling for jtl templates: diagnostics,
// completion, and hover.
//
// The shape of the host context is described to the services by a
// [Schema], which may be built in code or loaded from YAML or JSON:
//
//	version: 1.0.0
//	globals:
//	  - name: guild
//	    type: "#Guild"
//	structs:
//	  Guild:
//	    - name: name
//	      types: [String, the guild's display name]
//
// The stateless functions [Diagnose], [Validate], [Complete], and [Hover]
// operate on a source string. A [Workspace] keeps documents open by URI and
// answers the same requests from cached parse results.
package service
