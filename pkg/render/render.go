// Package render substitutes ${NAME} placeholders in template text.
//
// NAME must start with an uppercase letter or underscore and continue with
// uppercase letters, digits or underscores. Substitution is purely textual:
// a substituted value is never scanned again.
package render

import (
	"regexp"
	"sort"
)

// Pattern matches a single placeholder and captures its name.
var Pattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)

// Lookuper resolves variable names to values.
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAllowMissing keeps unresolved placeholders literally in the output
// instead of replacing them with the empty string.
func WithAllowMissing(allow bool) Option {
	return func(r *Renderer) {
		r.allowMissing = allow
	}
}

// Renderer substitutes placeholders using a fixed set of variables.
//
// Every unresolved name is recorded in a missing set that accumulates
// across Render calls until ClearMissing is called.
type Renderer struct {
	vars         Lookuper
	allowMissing bool
	missing      map[string]struct{}
}

// New creates a Renderer resolving names through vars.
func New(vars Lookuper, opts ...Option) *Renderer {
	r := &Renderer{
		vars:    vars,
		missing: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AllowMissing reports whether unresolved placeholders are kept literally.
func (r *Renderer) AllowMissing() bool {
	return r.allowMissing
}

// Render returns text with every placeholder replaced by its value.
func (r *Renderer) Render(text string) string {
	return Pattern.ReplaceAllStringFunc(text, func(match string) string {
		// match is "${NAME}"
		name := match[2 : len(match)-1]
		if value, ok := r.vars.Lookup(name); ok {
			return value
		}
		r.missing[name] = struct{}{}
		if r.allowMissing {
			return match
		}
		return ""
	})
}

// FindPlaceholders returns the distinct placeholder names in text, sorted.
// The result does not depend on the variables the Renderer holds.
func (r *Renderer) FindPlaceholders(text string) []string {
	return FindPlaceholders(text)
}

// Missing returns the unresolved names recorded so far, sorted.
func (r *Renderer) Missing() []string {
	return sortedKeys(r.missing)
}

// ClearMissing resets the missing set.
func (r *Renderer) ClearMissing() {
	r.missing = make(map[string]struct{})
}

// FindPlaceholders returns the distinct placeholder names in text, sorted.
func FindPlaceholders(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range Pattern.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
