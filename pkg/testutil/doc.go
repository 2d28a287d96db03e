// Package testutil provides test helpers shared by envrender's packages:
// an in-memory filesystem with error injection and environment helpers for
// tests that exercise the process environment.
package testutil
