// Package registry lists the template bindings envrender processes.
//
// The built-in registry is a fixed, ordered list of MCP configuration
// templates. A root configuration file may declare its own bindings, which
// then replace the built-in list.
package registry
