// Package env holds the environment snapshot used for placeholder
// substitution and the loader for KEY=VALUE environment files.
//
// A Snapshot is built once from the inherited process environment and then
// filled in from an optional file. Inherited values always win, and the
// process environment itself is never modified.
package env
