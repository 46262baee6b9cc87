package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pep263/internal/config"
	"github.com/vvka-141/pep263/internal/tui"
	"github.com/vvka-141/pep263/pkg/pep263"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func (r cliResult) exitCode() int {
	return pep263.ExitCodeForError(r.err)
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	t.Setenv(tui.EnvNonInteractive, "1")
	for _, name := range []string{config.EnvSuffixes, config.EnvExclude, config.EnvJobs} {
		t.Setenv(name, "")
	}

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRoot_ReportsDeclarations(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py":     "# coding: utf-8\n",
		"b.py":     "x = 1\n",
		"c.txt":    "# coding: utf-8\n",
		"sub/d.py": "#!/usr/bin/env python\n# vim: set fileencoding=bogus :\n",
	})

	res := runCLI(t, dir)
	require.NoError(t, res.err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.py") + ": utf-8",
		filepath.Join(dir, "b.py") + ": encoding not found",
		filepath.Join(dir, "sub", "d.py") + ": unknown encoding bogus",
	}, strings.Split(strings.TrimSpace(res.stdout), "\n"))
	assert.Contains(t, res.stderr, "3 files: 1 ok, 1 not-found, 1 invalid-name")
	assert.NotContains(t, res.stdout, "\x1b[", "no colour when not a terminal")
}

func TestRoot_AppendInsertsMissingDeclarations(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py":      "# coding: latin-1\nx = 1\n",
		"b.py":      "x = 1\n",
		"script.py": "#!/usr/bin/env python\nprint()\n",
	})

	res := runCLI(t, dir, "--append", "utf-8")
	require.NoError(t, res.err)

	assert.Equal(t, "# coding: latin-1\nx = 1\n", readFile(t, filepath.Join(dir, "a.py")))
	assert.Equal(t, "# -*- coding: utf-8 -*-\nx = 1\n", readFile(t, filepath.Join(dir, "b.py")))
	assert.Equal(t, "#!/usr/bin/env python\n# -*- coding: utf-8 -*-\nprint()\n", readFile(t, filepath.Join(dir, "script.py")))

	assert.Contains(t, res.stdout, filepath.Join(dir, "a.py")+": latin-1")
	assert.Contains(t, res.stdout, filepath.Join(dir, "b.py")+": utf-8")
	assert.Contains(t, res.stderr, "Declared in 2 files, replaced in 0 files")
}

func TestRoot_ForceReplacesWithYes(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py": "# coding: latin-1\nx = 1\n",
	})

	res := runCLI(t, dir, "-A", "utf-8", "--force", "--yes")
	require.NoError(t, res.err)

	assert.Equal(t, "# -*- coding: utf-8 -*-\nx = 1\n", readFile(t, filepath.Join(dir, "a.py")))
	assert.Contains(t, res.stderr, "replaced in 1 file")
}

func TestRoot_ForceNonInteractiveApprovesWithoutYes(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py": "# coding: latin-1\n",
	})

	res := runCLI(t, dir, "-A", "utf-8", "-f")
	require.NoError(t, res.err)
	assert.Equal(t, "# -*- coding: utf-8 -*-\n", readFile(t, filepath.Join(dir, "a.py")))
}

func TestRoot_UnknownEncodingTouchesNothing(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py": "x = 1\n",
	})

	res := runCLI(t, dir, "--append", "bogus")
	require.Error(t, res.err)
	assert.Equal(t, pep263.ExitInvalidEncoding, res.exitCode())
	assert.Equal(t, "x = 1\n", readFile(t, filepath.Join(dir, "a.py")))
	assert.Empty(t, res.stdout)
}

func TestRoot_ForceWithoutAppend(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})

	res := runCLI(t, dir, "--force")
	require.Error(t, res.err)
	assert.Equal(t, pep263.ExitConfigError, res.exitCode())
}

func TestRoot_Check(t *testing.T) {
	t.Run("fails when a file lacks a declaration", func(t *testing.T) {
		dir := writeTree(t, map[string]string{
			"a.py": "# coding: utf-8\n",
			"b.py": "x = 1\n",
		})

		res := runCLI(t, dir, "--check")
		require.Error(t, res.err)
		assert.Equal(t, pep263.ExitCheckFailed, res.exitCode())
		assert.Contains(t, res.err.Error(), "1 of 2 files")
		assert.Contains(t, res.stdout, "b.py: encoding not found")
	})

	t.Run("passes when every file is declared", func(t *testing.T) {
		dir := writeTree(t, map[string]string{
			"a.py": "# coding: utf-8\n",
		})

		res := runCLI(t, dir, "--check")
		assert.NoError(t, res.err)
	})

	t.Run("passes after append", func(t *testing.T) {
		dir := writeTree(t, map[string]string{
			"b.py": "x = 1\n",
		})

		res := runCLI(t, dir, "--check", "--append", "ascii")
		assert.NoError(t, res.err)
	})
}

func TestNewFileSystem(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})

	readOnly := newFileSystem(pep263.RunConfig{Root: dir})
	_, err := readOnly.OpenFile(filepath.Join(dir, "a.py"), true)
	assert.ErrorIs(t, err, pep263.ErrPermissionDenied)
	f, err := readOnly.OpenFile(filepath.Join(dir, "a.py"), false)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	writable := newFileSystem(pep263.RunConfig{Root: dir, Append: "utf-8"})
	f, err = writable.OpenFile(filepath.Join(dir, "a.py"), true)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestRoot_RelativeRoot(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/a.py": "# coding: latin-1\n",
		"src/b.py": "x = 1\n",
	})
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	res := runCLI(t, "src", "--check")
	require.Error(t, res.err)
	assert.Equal(t, pep263.ExitCheckFailed, res.exitCode())
	assert.Contains(t, res.stdout, filepath.Join("src", "a.py")+": latin-1")
	assert.Contains(t, res.stdout, filepath.Join("src", "b.py")+": encoding not found")
}

func TestRoot_PathErrors(t *testing.T) {
	t.Run("missing path is a usage error", func(t *testing.T) {
		res := runCLI(t, filepath.Join(t.TempDir(), "missing"))
		require.Error(t, res.err)
		assert.Equal(t, pep263.ExitUsageError, res.exitCode())
	})

	t.Run("plain file root is a path error", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})

		res := runCLI(t, filepath.Join(dir, "a.py"))
		require.Error(t, res.err)
		assert.Equal(t, pep263.ExitPathError, res.exitCode())
	})

	t.Run("too many args is a usage error", func(t *testing.T) {
		res := runCLI(t, t.TempDir(), t.TempDir())
		require.Error(t, res.err)
		assert.Equal(t, pep263.ExitUsageError, res.exitCode())
	})
}

func TestRoot_InvalidColor(t *testing.T) {
	res := runCLI(t, t.TempDir(), "--color", "sometimes")
	require.Error(t, res.err)
	assert.Equal(t, pep263.ExitUsageError, res.exitCode())
}

func TestRoot_ColorAlways(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "# coding: utf-8\n"})

	res := runCLI(t, dir, "--color", "always")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "\x1b[")
	assert.Contains(t, res.stdout, filepath.Join(dir, "a.py")+": ")
}

func TestRoot_SuffixAndExclude(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py":         "x = 1\n",
		"b.pyw":        "# coding: utf-8\n",
		"vendor/c.pyw": "x = 1\n",
	})

	res := runCLI(t, dir, "--suffix", ".pyw", "--exclude", "vendor/**")
	require.NoError(t, res.err)
	assert.Equal(t, filepath.Join(dir, "b.pyw")+": utf-8\n", res.stdout)
}

func TestRoot_ProjectConfig(t *testing.T) {
	dir := writeTree(t, map[string]string{
		config.ConfigFileName: "suffixes: [\".src\"]\nexclude: [\"skip/**\"]\n",
		"a.src":               "# coding: utf-8\n",
		"b.py":                "x = 1\n",
		"skip/c.src":          "x = 1\n",
	})

	t.Run("settings come from the file", func(t *testing.T) {
		res := runCLI(t, dir)
		require.NoError(t, res.err)
		assert.Equal(t, filepath.Join(dir, "a.src")+": utf-8\n", res.stdout)
	})

	t.Run("flags override the file", func(t *testing.T) {
		res := runCLI(t, dir, "--suffix", ".py")
		require.NoError(t, res.err)
		assert.Equal(t, filepath.Join(dir, "b.py")+": encoding not found\n", res.stdout)
	})
}

func TestRoot_MalformedConfig(t *testing.T) {
	dir := writeTree(t, map[string]string{
		config.ConfigFileName: "suffixes: [unterminated\n",
	})

	res := runCLI(t, dir)
	require.Error(t, res.err)
	assert.Equal(t, pep263.ExitConfigError, res.exitCode())
}

func TestRoot_JobsKeepOrder(t *testing.T) {
	files := make(map[string]string)
	var want []string
	dir := t.TempDir()
	for i := 0; i < 25; i++ {
		name := fmt.Sprintf("f%02d.py", i)
		files[name] = "x = 1\n"
		want = append(want, filepath.Join(dir, name)+": utf-8")
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	res := runCLI(t, dir, "--append", "utf-8", "--jobs", "4")
	require.NoError(t, res.err)
	assert.Equal(t, want, strings.Split(strings.TrimSpace(res.stdout), "\n"))
	assert.Contains(t, res.stderr, "Declared in 25 files")
}

func TestRoot_VerboseLogs(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})

	res := runCLI(t, dir, "--verbose")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "[VERBOSE]")
}

func TestRoot_EmptyTree(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, dir)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "No matching files under "+dir)
}

func TestBuildRunConfig_Precedence(t *testing.T) {
	t.Setenv(config.EnvSuffixes, "")
	t.Setenv(config.EnvExclude, "")
	t.Setenv(config.EnvJobs, "")

	dir := writeTree(t, map[string]string{
		config.ConfigFileName: "append: latin-1\njobs: 2\nsuffixes: [\".src\"]\n",
	})

	t.Run("file over defaults", func(t *testing.T) {
		cmd := newRootCmd()
		cfg, err := buildRunConfig(cmd, dir, &rootFlagValues{jobs: 1})
		require.NoError(t, err)
		assert.Equal(t, "latin-1", cfg.Append)
		assert.Equal(t, 2, cfg.Jobs)
		assert.Equal(t, []string{".src"}, cfg.Suffixes)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv(config.EnvJobs, "3")
		t.Setenv(config.EnvSuffixes, ".a,.b")

		cmd := newRootCmd()
		cfg, err := buildRunConfig(cmd, dir, &rootFlagValues{jobs: 1})
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Jobs)
		assert.Equal(t, []string{".a", ".b"}, cfg.Suffixes)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv(config.EnvJobs, "3")

		cmd := newRootCmd()
		require.NoError(t, cmd.Flags().Set("jobs", "5"))
		require.NoError(t, cmd.Flags().Set("append", "utf-8"))
		cfg, err := buildRunConfig(cmd, dir, &rootFlagValues{jobs: 5, appendName: "utf-8"})
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Jobs)
		assert.Equal(t, "utf-8", cfg.Append)
	})

	t.Run("defaults without config", func(t *testing.T) {
		cmd := newRootCmd()
		cfg, err := buildRunConfig(cmd, t.TempDir(), &rootFlagValues{jobs: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{pep263.DefaultSuffix}, cfg.Suffixes)
		assert.Equal(t, 1, cfg.Jobs)
		assert.Empty(t, cfg.Append)
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv(config.EnvJobs, "many")

		cmd := newRootCmd()
		_, err := buildRunConfig(cmd, t.TempDir(), &rootFlagValues{jobs: 1})
		require.Error(t, err)
		assert.Equal(t, pep263.ExitConfigError, pep263.ExitCodeForError(err))
	})
}
