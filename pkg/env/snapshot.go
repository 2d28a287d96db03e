package env

import (
	"strings"
)

// Snapshot is an immutable mapping from variable name to value.
type Snapshot struct {
	values map[string]string
}

// NewSnapshot copies values into a new Snapshot.
func NewSnapshot(values map[string]string) Snapshot {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Snapshot{values: copied}
}

// FromEnviron builds a Snapshot from KEY=VALUE entries in the shape
// returned by os.Environ. Entries without '=' are ignored.
func FromEnviron(environ []string) Snapshot {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return Snapshot{values: values}
}

// Lookup returns the value for name and whether it is defined.
func (s Snapshot) Lookup(name string) (string, bool) {
	value, ok := s.values[name]
	return value, ok
}

// Len returns the number of defined variables.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Merge returns a new Snapshot holding every value of s plus the entries of
// fill whose names s does not already define.
func (s Snapshot) Merge(fill map[string]string) Snapshot {
	merged := make(map[string]string, len(s.values)+len(fill))
	for k, v := range fill {
		merged[k] = v
	}
	for k, v := range s.values {
		merged[k] = v
	}
	return Snapshot{values: merged}
}
