package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/Vauxoo/pre-commit-vauxoo/embedded"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/config"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/distribute"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/precommit"
)

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func initGitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init: %v\n%s", err, out)
	}
	return dir
}

// executeRoot runs the root command with args and returns stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	output, configDir, verbose = "table", "", false
	t.Cleanup(func() { output, configDir, verbose = "table", "", false })

	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "pre-commit-vauxoo version "+version) {
		t.Errorf("unexpected version output:\n%s", out)
	}
}

func TestEnvCommand_JSON(t *testing.T) {
	repo := initGitRepo(t)
	vars := "export EXCLUDE_LINT=\"vendor/,migrations\"\nexport CUSTOM='x'\n"
	if err := os.WriteFile(filepath.Join(repo, "variables.sh"), []byte(vars), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, repo)
	t.Setenv(config.EnvAutofix, "1")

	out, err := executeRoot(t, "env", "-o", "json")
	if err != nil {
		t.Fatalf("env: %v", err)
	}

	var report envReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if diff := cmp.Diff(map[string]string{"EXCLUDE_LINT": "vendor/,migrations", "CUSTOM": "x"}, report.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
	sources := map[string]config.Source{}
	for _, r := range report.Settings {
		sources[r.Key] = r.Source
	}
	if sources[config.EnvExcludeLint] != config.SourceVariables {
		t.Errorf("EXCLUDE_LINT source = %q", sources[config.EnvExcludeLint])
	}
	if sources[config.EnvAutofix] != config.SourceEnv {
		t.Errorf("PRECOMMIT_AUTOFIX source = %q", sources[config.EnvAutofix])
	}
}

func TestCopyCfgCommand_WithConfigDir(t *testing.T) {
	repo := initGitRepo(t)
	templates := t.TempDir()
	if err := os.WriteFile(filepath.Join(templates, ".flake8"), []byte("[flake8]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(templates, "notes.txt"), []byte("skip\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, repo)

	if _, err := executeRoot(t, "copy-cfg", "--config-dir", templates); err != nil {
		t.Fatalf("copy-cfg: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repo, ".flake8")); err != nil {
		t.Errorf(".flake8 not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repo, "notes.txt")); !os.IsNotExist(err) {
		t.Errorf("notes.txt should not be copied (stat err: %v)", err)
	}
}

func TestRootCommand_OutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	chdir(t, dir)

	if _, err := executeRoot(t); err == nil {
		t.Fatal("expected an error outside a git repository")
	}
}

func TestCollectTierHooks(t *testing.T) {
	root := t.TempDir()
	if _, err := distribute.Copy(embedded.Templates(), root, distribute.Options{Overwrite: true, Logger: zerolog.Nop()}); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if err := os.Remove(filepath.Join(root, precommit.AutofixConfig)); err != nil {
		t.Fatal(err)
	}

	rows, err := collectTierHooks(root)
	if err != nil {
		t.Fatalf("collectTierHooks: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(rows))
	}
	if !rows[0].Missing {
		t.Error("autofix config was removed and should be reported missing")
	}
	if !contains(rows[1].Hooks, "pylint-odoo") || !contains(rows[1].Hooks, "flake8") {
		t.Errorf("mandatory hooks = %v", rows[1].Hooks)
	}
	if rows[2].Missing || len(rows[2].Hooks) == 0 {
		t.Errorf("optional tier = %+v", rows[2])
	}
}

func TestCollectTierHooks_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, precommit.MandatoryConfig), []byte("repos: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := collectTierHooks(root); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteEnvTable(t *testing.T) {
	var buf bytes.Buffer
	report := envReport{
		Settings: []config.Resolved{
			{Key: config.EnvExcludeLint, Value: "", Source: config.SourceDefault},
		},
		Variables: map[string]string{"B": "2", "A": "1"},
	}
	if err := writeEnvTable(&buf, report); err != nil {
		t.Fatalf("writeEnvTable: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `EXCLUDE_LINT  ""`) {
		t.Errorf("empty values should be shown quoted:\n%s", out)
	}
	if strings.Index(out, "A ") > strings.Index(out, "B ") {
		t.Errorf("variables should be sorted:\n%s", out)
	}
}

func TestTemplateDir(t *testing.T) {
	if _, err := templateDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := templateDir(file); err == nil {
		t.Error("expected error for a regular file")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
