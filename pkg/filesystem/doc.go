// Package filesystem provides the minimal filesystem abstraction used by
// envrender commands, with an implementation backed by the os package.
package filesystem
