package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isGitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(original) })
}

func realPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func TestNewExplicitRoot(t *testing.T) {
	t.Setenv(EnvRoot, "/from/env")
	dir := t.TempDir()

	p, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, p.Root())
	assert.Equal(t, SourceExplicit, p.Source())
	assert.False(t, p.UsedFallback())
}

func TestNewRelativeRootIsMadeAbsolute(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "proj"), 0755))
	chdir(t, dir)

	p, err := New("proj")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(p.Root()))
	assert.Equal(t, realPath(t, filepath.Join(dir, "proj")), realPath(t, p.Root()))
}

func TestNewEnvRoot(t *testing.T) {
	t.Setenv(EnvRoot, "/env/project")

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, filepath.FromSlash("/env/project"), p.Root())
	assert.Equal(t, SourceEnv, p.Source())
}

func TestNewGitRoot(t *testing.T) {
	if !isGitAvailable() {
		t.Skip("git not available")
	}
	t.Setenv(EnvRoot, "")

	repo := t.TempDir()
	cmd := exec.Command("git", "init", "-q", repo)
	require.NoError(t, cmd.Run())

	sub := filepath.Join(repo, "scripts", "nested")
	require.NoError(t, os.MkdirAll(sub, 0755))
	chdir(t, sub)

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, SourceGit, p.Source())
	assert.Equal(t, realPath(t, repo), realPath(t, p.Root()))
}

func TestNewFallbackToCwd(t *testing.T) {
	t.Setenv(EnvRoot, "")
	// Keep git from discovering a repository above dir
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	chdir(t, dir)

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, SourceCwd, p.Source())
	assert.True(t, p.UsedFallback())
	assert.Equal(t, realPath(t, dir), realPath(t, p.Root()))
}

func TestResolve(t *testing.T) {
	p := &Paths{root: filepath.FromSlash("/project")}

	assert.Equal(t, filepath.Join("/project", ".env"), p.Resolve(".env"))
	assert.Equal(t, filepath.Join("/project", "a", "b.json"), p.Resolve("a/./b.json"))
	assert.Equal(t, filepath.FromSlash("/etc/x.env"), p.Resolve("/etc/../etc/x.env"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/project", filepath.Join(home, "project")},
		{"~other/project", "~other/project"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, expandHome(tt.in))
		})
	}
}
