// TEST TYPE: End-to-end CLI
// DEPENDENCIES: Temporary working root, process environment
// PURPOSE: Drive the cobra root command the way the binary does and check
// output, written files and exit codes.
package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/envrender/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	templateOne = "plugins/savi/.mcp.template.json"
	outputOne   = "plugins/savi/.mcp.json"
	templateTwo = "plugins/savi/archive/.mcp.template.json"
	outputTwo   = "plugins/savi/archive/.mcp.json"
)

type testRoot struct {
	t    *testing.T
	path string
}

func newTestRoot(t *testing.T) *testRoot {
	t.Helper()
	testutil.IsolateState(t)
	t.Setenv("NO_COLOR", "1")
	testutil.Unsetenv(t, "GITHUB_PAT", "CONTEXT7_API_KEY", "ENVRENDER_ROOT", "ENVRENDER_ENV_FILE", "ENVRENDER_OUTPUT_FORMAT", "ENVRENDER_OUTPUT_STYLES")
	return &testRoot{t: t, path: t.TempDir()}
}

func (r *testRoot) abs(rel string) string {
	return filepath.Join(r.path, rel)
}

func (r *testRoot) write(rel, content string) {
	r.t.Helper()
	testutil.WriteFile(r.t, r.path, rel, content)
}

func (r *testRoot) read(rel string) string {
	r.t.Helper()
	data, err := os.ReadFile(r.abs(rel))
	require.NoError(r.t, err)
	return string(data)
}

func (r *testRoot) exists(rel string) bool {
	_, err := os.Stat(r.abs(rel))
	return err == nil
}

func (r *testRoot) run(args ...string) (string, string, int) {
	r.t.Helper()
	cmd := NewRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--root", r.path}, args...))
	code := Run(cmd)
	return stdout.String(), stderr.String(), code
}

func (r *testRoot) writeDefaultTemplates() {
	r.write(templateOne, `{"github": "${GITHUB_PAT}", "context7": "${CONTEXT7_API_KEY}"}`)
	r.write(templateTwo, `{"github": "${GITHUB_PAT}"}`)
}

func TestRenderAllResolved(t *testing.T) {
	r := newTestRoot(t)
	r.writeDefaultTemplates()
	r.write(".env", "GITHUB_PAT=ghp_123\nCONTEXT7_API_KEY='ctx'\n")

	stdout, stderr, code := r.run()

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Equal(t,
		"Loaded environment from: "+r.abs(".env")+"\n"+
			"Rendered: "+r.abs(outputOne)+"\n"+
			"Rendered: "+r.abs(outputTwo)+"\n",
		stdout)
	assert.Equal(t, `{"github": "ghp_123", "context7": "ctx"}`, r.read(outputOne))
	assert.Equal(t, `{"github": "ghp_123"}`, r.read(outputTwo))
}

func TestRenderMissingVariableFails(t *testing.T) {
	r := newTestRoot(t)
	r.writeDefaultTemplates()
	r.write(".env", "GITHUB_PAT=ghp_123\n")

	stdout, stderr, code := r.run()

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Rendered: "+r.abs(outputOne))
	assert.Equal(t, "\nError: Missing environment variables: CONTEXT7_API_KEY\n", stderr)
	assert.Equal(t, `{"github": "ghp_123", "context7": ""}`, r.read(outputOne), "file is written before failing")
}

func TestRenderAllowMissingWarns(t *testing.T) {
	r := newTestRoot(t)
	r.writeDefaultTemplates()

	stdout, stderr, code := r.run("--allow-missing")

	assert.Equal(t, 0, code)
	assert.NotContains(t, stdout, "Loaded environment from")
	assert.Equal(t, "\nWarning: Some placeholders were not substituted: CONTEXT7_API_KEY, GITHUB_PAT\n", stderr)
	assert.Equal(t, `{"github": "${GITHUB_PAT}", "context7": "${CONTEXT7_API_KEY}"}`, r.read(outputOne))
}

func TestRenderDryRun(t *testing.T) {
	r := newTestRoot(t)
	r.writeDefaultTemplates()
	t.Setenv("GITHUB_PAT", "from-shell")
	t.Setenv("CONTEXT7_API_KEY", "k")
	r.write(".env", "GITHUB_PAT=from-file\n")

	stdout, stderr, code := r.run("--dry-run")

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Equal(t,
		"Loaded environment from: "+r.abs(".env")+"\n"+
			"=== "+r.abs(outputOne)+" ===\n"+
			`{"github": "from-shell", "context7": "k"}`+"\n\n"+
			"=== "+r.abs(outputTwo)+" ===\n"+
			`{"github": "from-shell"}`+"\n\n",
		stdout)
	assert.False(t, r.exists(outputOne))
	assert.False(t, r.exists(outputTwo))
}

func TestRenderTemplateNotFound(t *testing.T) {
	r := newTestRoot(t)
	r.write(templateOne, "static")

	stdout, stderr, code := r.run()

	assert.Equal(t, 1, code)
	assert.Equal(t, "Rendered: "+r.abs(outputOne)+"\n", stdout)
	assert.Equal(t, "Error: Template not found: "+r.abs(templateTwo)+"\n", stderr)
}

func TestRenderEnvFileFlagAndConfig(t *testing.T) {
	r := newTestRoot(t)
	r.write("tmpl/app.json.tmpl", "token=${GITHUB_PAT}")
	r.write(".envrender.toml", `
env_file = "config.env"

[[bindings]]
template = "tmpl/app.json.tmpl"
output = "out/app.json"
`)
	r.write("config.env", "GITHUB_PAT=from-config\n")
	r.write("flag.env", "GITHUB_PAT=from-flag\n")

	_, _, code := r.run()
	require.Equal(t, 0, code)
	assert.Equal(t, "token=from-config", r.read("out/app.json"))

	stdout, _, code := r.run("--env-file", "flag.env")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Loaded environment from: "+r.abs("flag.env"))
	assert.Equal(t, "token=from-flag", r.read("out/app.json"))
}

func TestRenderEnvFileInHome(t *testing.T) {
	r := newTestRoot(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	testutil.WriteFile(t, home, "secrets/home.env", "GITHUB_PAT=from-home\n")
	r.write("tmpl/app.json.tmpl", "token=${GITHUB_PAT}")
	r.write(".envrender.toml", `
[[bindings]]
template = "tmpl/app.json.tmpl"
output = "out/app.json"
`)

	stdout, stderr, code := r.run("--env-file", "~/secrets/home.env")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Loaded environment from: "+filepath.Join(home, "secrets/home.env"))
	assert.Equal(t, "token=from-home", r.read("out/app.json"))
}

func TestCustomStyles(t *testing.T) {
	t.Run("styles file from configuration", func(t *testing.T) {
		r := newTestRoot(t)
		r.writeDefaultTemplates()
		r.write("styles.yaml", "styles:\n  Success:\n    bold: true\n")
		r.write(".envrender.toml", "[output]\nstyles = \"styles.yaml\"\n")
		t.Setenv("GITHUB_PAT", "x")
		t.Setenv("CONTEXT7_API_KEY", "y")

		_, stderr, code := r.run()

		assert.Equal(t, 0, code)
		assert.Empty(t, stderr)
	})

	t.Run("missing styles file fails", func(t *testing.T) {
		r := newTestRoot(t)
		t.Setenv("ENVRENDER_OUTPUT_STYLES", "absent.yaml")

		_, stderr, code := r.run("placeholders")

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Error: failed to load output styles: failed to read styles file "+r.abs("absent.yaml"))
	})
}

func TestRenderJSONFormat(t *testing.T) {
	r := newTestRoot(t)
	r.writeDefaultTemplates()
	t.Setenv("GITHUB_PAT", "x")
	t.Setenv("CONTEXT7_API_KEY", "y")

	stdout, stderr, code := r.run("--format", "json")

	require.Equal(t, 0, code)
	assert.Empty(t, stderr)

	var decoded struct {
		Command  string `json:"command"`
		Root     string `json:"root"`
		Bindings []struct {
			Output  string `json:"output"`
			Written bool   `json:"written"`
		} `json:"bindings"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "render", decoded.Command)
	assert.Equal(t, r.path, decoded.Root)
	require.Len(t, decoded.Bindings, 2)
	assert.True(t, decoded.Bindings[0].Written)
	assert.Equal(t, r.abs(outputTwo), decoded.Bindings[1].Output)
}

func TestInvalidInvocations(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown format", args: []string{"--format", "xml"}, wantErr: "Error: invalid output format: unknown format: xml"},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: "Error: unknown flag: --bogus"},
		{name: "unexpected argument", args: []string{"extra"}, wantErr: "Error: unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRoot(t)
			_, stderr, code := r.run(tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestRootMustBeDirectory(t *testing.T) {
	r := newTestRoot(t)
	r.path = filepath.Join(r.path, "does-not-exist")

	_, stderr, code := r.run()

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: working root is not a directory: "+r.path)
}

func TestPlaceholdersCommand(t *testing.T) {
	r := newTestRoot(t)
	r.write(templateOne, `{"a": "${GITHUB_PAT}", "b": "${CONTEXT7_API_KEY}"}`)
	r.write(".env", "GITHUB_PAT=x\n")

	stdout, stderr, code := r.run("placeholders")

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Equal(t,
		"Loaded environment from: "+r.abs(".env")+"\n"+
			r.abs(templateOne)+"\n"+
			"  CONTEXT7_API_KEY missing\n"+
			"  GITHUB_PAT set\n"+
			r.abs(templateTwo)+"\n"+
			"  (template not found)\n",
		stdout)
	assert.False(t, r.exists(outputOne))
}

func TestPlaceholdersStrict(t *testing.T) {
	r := newTestRoot(t)
	r.write(templateOne, `{"a": "${GITHUB_PAT}", "b": "${CONTEXT7_API_KEY}"}`)

	stdout, stderr, code := r.run("placeholders", "--strict")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "  GITHUB_PAT missing\n")
	assert.Equal(t, "\nError: 2 placeholder(s) do not resolve\n", stderr)

	t.Setenv("GITHUB_PAT", "x")
	t.Setenv("CONTEXT7_API_KEY", "y")
	_, stderr, code = r.run("placeholders", "--strict")
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
}

func TestConfigCommand(t *testing.T) {
	t.Run("defaults with builtin bindings", func(t *testing.T) {
		r := newTestRoot(t)

		stdout, _, code := r.run("config")

		require.Equal(t, 0, code)
		assert.True(t, strings.HasPrefix(stdout, MsgConfigNoSource))
		assert.Regexp(t, `env_file = ['"]\.env['"]`, stdout)
		assert.Contains(t, stdout, r.abs(templateOne))
		assert.Contains(t, stdout, r.abs(outputTwo))
	})

	t.Run("root file and flag overrides", func(t *testing.T) {
		r := newTestRoot(t)
		r.write("envrender.toml", "env_file = \"from-file.env\"\n")

		stdout, _, code := r.run("config", "--format", "text")

		require.Equal(t, 0, code)
		assert.Contains(t, stdout, "# loaded from "+r.abs("envrender.toml"))
		assert.Regexp(t, `env_file = ['"]from-file\.env['"]`, stdout)
		assert.Regexp(t, `format = ['"]text['"]`, stdout)
	})

	t.Run("embedded defaults", func(t *testing.T) {
		r := newTestRoot(t)

		stdout, _, code := r.run("config", "--defaults")

		require.Equal(t, 0, code)
		assert.Contains(t, stdout, `env_file = ".env"`)
	})
}

func TestGuideCommand(t *testing.T) {
	r := newTestRoot(t)

	stdout, _, code := r.run("guide")

	require.Equal(t, 0, code)
	assert.Equal(t, MsgGuide, stdout)

	t.Run("format from configuration", func(t *testing.T) {
		r := newTestRoot(t)
		r.write(".envrender.toml", "[output]\nformat = \"term\"\n")

		stdout, _, code := r.run("guide")

		require.Equal(t, 0, code)
		assert.NotEqual(t, MsgGuide, stdout, "terminal output is rendered by glamour")
		assert.NotEmpty(t, stdout)
	})
}

func TestVersionCommand(t *testing.T) {
	r := newTestRoot(t)

	stdout, _, code := r.run("version")

	require.Equal(t, 0, code)
	assert.Equal(t, "envrender version dev\nCommit: unknown\nBuilt:  unknown\n", stdout)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			r := newTestRoot(t)
			stdout, _, code := r.run("completion", shell)
			require.Equal(t, 0, code)
			assert.Contains(t, stdout, "envrender")
		})
	}

	r := newTestRoot(t)
	_, _, code := r.run("completion", "tcsh")
	assert.Equal(t, 1, code)
}
