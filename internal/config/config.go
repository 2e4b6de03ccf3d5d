// Package config resolves the settings that drive a check run.
// Values are resolved from (highest to lowest priority):
// 1. variables.sh at the repository root (export lines)
// 2. Environment variables
// 3. Defaults
//
// The result is an immutable Settings value; the parent process environment
// is never modified. Subprocesses receive Settings.Environ instead.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/Vauxoo/pre-commit-vauxoo/internal/envfile"
)

// Recognized variable names.
const (
	EnvOverwriteConfigFiles = "PRECOMMIT_OVERWRITE_CONFIG_FILES"
	EnvExcludeLint          = "EXCLUDE_LINT"
	EnvDisablePylintChecks  = "DISABLE_PYLINT_CHECKS"
	EnvAutofix              = "PRECOMMIT_AUTOFIX"
)

// Default values, applied when a variable is unset in both sources.
const (
	defaultOverwriteConfigFiles = "1"
	defaultExcludeLint          = ""
	defaultDisablePylintChecks  = ""
	defaultAutofix              = ""
)

// Source represents where a setting value came from.
type Source string

const (
	SourceDefault   Source = "default"
	SourceEnv       Source = "environment"
	SourceVariables Source = envfile.DefaultFile
)

// Settings holds the resolved configuration of one run.
type Settings struct {
	// Overwrite replaces existing config files in the target repo.
	// When false, files already present are kept as repo customizations.
	Overwrite bool `yaml:"overwrite" json:"overwrite"`

	// ExcludeLint is a comma separated list of paths excluded from linting.
	ExcludeLint string `yaml:"exclude_lint" json:"exclude_lint"`

	// DisablePylintChecks replaces the R0000 placeholder of --disable=R0000.
	DisablePylintChecks string `yaml:"disable_pylint_checks" json:"disable_pylint_checks"`

	// Autofix enables the autofix tier.
	Autofix bool `yaml:"autofix" json:"autofix"`

	// Environ is the environment handed to subprocesses: the inherited
	// environment with the variables file applied on top.
	Environ []string `yaml:"-" json:"-"`

	resolved []Resolved
}

// Resolved shows one setting with its raw value and source.
type Resolved struct {
	Key    string `yaml:"key" json:"key"`
	Value  string `yaml:"value" json:"value"`
	Source Source `yaml:"source" json:"source"`
}

// Options controls resolution. Nil functions default to the process environment.
type Options struct {
	// Vars are the assignments parsed from the variables file.
	Vars envfile.Vars
	// LookupEnv reports environment values; defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Environ lists the inherited environment; defaults to os.Environ.
	Environ func() []string
}

// Resolve builds Settings with precedence: variables file > env > defaults.
func Resolve(opts Options) *Settings {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}

	overwrite := resolveField(EnvOverwriteConfigFiles, opts.Vars, lookup, defaultOverwriteConfigFiles)
	exclude := resolveField(EnvExcludeLint, opts.Vars, lookup, defaultExcludeLint)
	disable := resolveField(EnvDisablePylintChecks, opts.Vars, lookup, defaultDisablePylintChecks)
	autofix := resolveField(EnvAutofix, opts.Vars, lookup, defaultAutofix)

	return &Settings{
		Overwrite:           overwrite.Value == "1",
		ExcludeLint:         exclude.Value,
		DisablePylintChecks: disable.Value,
		Autofix:             autofix.Value == "1",
		Environ:             MergeEnviron(environ(), opts.Vars),
		resolved:            []Resolved{overwrite, exclude, disable, autofix},
	}
}

// Sources returns each recognized variable with its raw value and origin.
func (s *Settings) Sources() []Resolved {
	out := make([]Resolved, len(s.resolved))
	copy(out, s.resolved)
	return out
}

// resolveField resolves a variable through the precedence chain.
func resolveField(key string, vars envfile.Vars, lookup func(string) (string, bool), def string) Resolved {
	result := Resolved{Key: key, Value: def, Source: SourceDefault}

	// Environment overrides default, even when set to an empty string
	if v, ok := lookup(key); ok {
		result = Resolved{Key: key, Value: v, Source: SourceEnv}
	}

	// variables.sh overrides environment
	if v, ok := vars[key]; ok {
		result = Resolved{Key: key, Value: v, Source: SourceVariables}
	}

	return result
}

// MergeEnviron applies vars on top of base (KEY=VALUE entries). Existing keys
// are replaced in place; new keys are appended in sorted order.
func MergeEnviron(base []string, vars envfile.Vars) []string {
	merged := make([]string, 0, len(base)+len(vars))
	seen := make(map[string]bool, len(vars))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := vars[key]; ok {
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, key+"="+v)
			continue
		}
		merged = append(merged, kv)
	}

	added := make([]string, 0, len(vars))
	for key := range vars {
		if !seen[key] {
			added = append(added, key)
		}
	}
	sort.Strings(added)
	for _, key := range added {
		merged = append(merged, key+"="+vars[key])
	}
	return merged
}
