// Package render implements the render command: load the environment, then
// for each binding read the template, substitute placeholders and write (or
// preview) the output.
//
// A missing template stops the run at once. Unresolved placeholders are
// collected across all bindings and decide the outcome only at the end.
// A binding with unresolved required variables is still written, with empty
// substitutions, before the run reports failure.
package render
