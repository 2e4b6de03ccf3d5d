package precommit

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleConfig = `exclude: |
  (?x)
  # Files and folders generated by bots, to avoid loops
  /setup/|/README\.rst$|
  # EXCLUDE_LINT
  ^$
fail_fast: true
repos:
  - repo: local
    hooks:
      - id: forbidden-files
        name: forbidden files
  - repo: https://github.com/OCA/pylint-odoo
    rev: v9.0.4
    hooks:
      - id: pylint_odoo
        args:
          - --disable=R0000
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if !cfg.FailFast {
		t.Error("FailFast = false, want true")
	}
	if !strings.Contains(cfg.Exclude, "# EXCLUDE_LINT") {
		t.Errorf("Exclude lost the marker line: %q", cfg.Exclude)
	}
	if diff := cmp.Diff([]string{"forbidden-files", "pylint_odoo"}, cfg.HookIDs()); diff != "" {
		t.Errorf("HookIDs mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Repos[1].Hooks[0].Args; len(got) != 1 || got[0] != "--disable=R0000" {
		t.Errorf("Args = %v", got)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	if _, err := ParseConfig([]byte("repos: [\n")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), MandatoryConfig))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
