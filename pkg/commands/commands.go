// Package commands provides high-level command implementations for envrender.
//
// This package contains the command orchestration layer that coordinates
// between the CLI interface and the rendering pipeline.
//
// Each command is implemented in its own subdirectory:
//   - render/       - Render command
//   - placeholders/ - ListPlaceholders command
//
// This file re-exports the command functions so callers depend on one
// package.
package commands

import (
	"github.com/arthur-debert/envrender/pkg/commands/placeholders"
	"github.com/arthur-debert/envrender/pkg/commands/render"
)

// RenderOptions configures Render.
type RenderOptions = render.RenderOptions

// RenderResult is the outcome of Render.
type RenderResult = render.RenderResult

// Render substitutes placeholders in every binding and writes the outputs.
func Render(opts RenderOptions) (*RenderResult, error) {
	return render.Render(opts)
}

// ListOptions configures ListPlaceholders.
type ListOptions = placeholders.ListOptions

// ListResult is the outcome of ListPlaceholders.
type ListResult = placeholders.ListResult

// ListPlaceholders reports the placeholders of every binding without
// writing anything.
func ListPlaceholders(opts ListOptions) (*ListResult, error) {
	return placeholders.ListPlaceholders(opts)
}
