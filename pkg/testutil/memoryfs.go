package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/arthur-debert/envrender/pkg/filesystem"
	"github.com/spf13/afero"
)

var _ filesystem.FS = (*MemoryFS)(nil)

// Op names a filesystem operation for error injection
type Op string

const (
	OpStat     Op = "stat"
	OpRead     Op = "read"
	OpWrite    Op = "write"
	OpMkdirAll Op = "mkdir"
)

// MemoryFS is an afero MemMapFs seen through filesystem.FS, with error
// injection and call counters on top. Paths are cleaned before lookup.
type MemoryFS struct {
	mem afero.Fs
	fs  filesystem.FS

	mu     sync.Mutex
	errors map[Op]map[string]error

	// Statistics
	readCount  int
	writeCount int
}

// NewMemoryFS creates an empty in-memory filesystem
func NewMemoryFS() *MemoryFS {
	mem := afero.NewMemMapFs()
	return &MemoryFS{
		mem:    mem,
		fs:     filesystem.NewAferoFS(mem),
		errors: make(map[Op]map[string]error),
	}
}

// FailOn makes op on path return err
func (m *MemoryFS) FailOn(op Op, path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors[op] == nil {
		m.errors[op] = make(map[string]error)
	}
	m.errors[op][filepath.Clean(path)] = err
	return m
}

func (m *MemoryFS) injected(op Op, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errors[op][filepath.Clean(path)]; err != nil {
		return &fs.PathError{Op: string(op), Path: path, Err: err}
	}
	return nil
}

// AddFile creates a file and its parent directories
func (m *MemoryFS) AddFile(path, content string) *MemoryFS {
	path = filepath.Clean(path)
	if err := m.mem.MkdirAll(filepath.Dir(path), 0755); err != nil {
		panic(err)
	}
	if err := afero.WriteFile(m.mem, path, []byte(content), 0644); err != nil {
		panic(err)
	}
	return m
}

// Content returns a file's content and whether it exists
func (m *MemoryFS) Content(path string) (string, bool) {
	data, err := afero.ReadFile(m.mem, filepath.Clean(path))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Files returns the paths of all regular files, sorted
func (m *MemoryFS) Files() []string {
	var paths []string
	_ = afero.Walk(m.mem, "/", func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)
	return paths
}

// ReadCount returns the number of ReadFile calls
func (m *MemoryFS) ReadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readCount
}

// WriteCount returns the number of WriteFile calls
func (m *MemoryFS) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeCount
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	if err := m.injected(OpStat, name); err != nil {
		return nil, err
	}
	return m.fs.Stat(name)
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	m.readCount++
	m.mu.Unlock()

	if err := m.injected(OpRead, name); err != nil {
		return nil, err
	}
	return m.fs.ReadFile(name)
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	m.writeCount++
	m.mu.Unlock()

	if err := m.injected(OpWrite, name); err != nil {
		return err
	}
	return m.fs.WriteFile(name, data, perm)
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := m.injected(OpMkdirAll, path); err != nil {
		return err
	}
	return m.fs.MkdirAll(path, perm)
}
