// Package distribute copies the default configuration files into a target
// repository, applying the exclusion and pylint substitutions on the way.
package distribute

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

const (
	// configPrefix selects the pre-commit config files that get substitutions.
	configPrefix = ".pre-commit-config"
	// excludeMarker marks the line replaced by the exclusion regex.
	excludeMarker = "# EXCLUDE_LINT"
	// disablePlaceholder is the pylint message id replaced by DisablePylintChecks.
	disablePlaceholder = "R0000"
	disableDirective   = "--disable=" + disablePlaceholder
	// pyproject is the only non-hidden file distributed.
	pyproject = "pyproject.toml"
)

// Options controls a copy.
type Options struct {
	// Overwrite replaces files already present in the destination.
	Overwrite bool
	// ExcludeLint is a comma separated list of paths to exclude from linting.
	ExcludeLint string
	// DisablePylintChecks replaces the R0000 placeholder.
	DisablePylintChecks string
	// Source labels the template directory in log lines.
	Source string
	Logger zerolog.Logger
}

// CopyReport lists what a copy did, by file name.
type CopyReport struct {
	Copied    []string
	Preserved []string
}

// Copy distributes the hidden files (and pyproject.toml) at the top level of
// templates into dstDir. Other entries are ignored. I/O errors are returned
// as they happen; files copied before the error stay in place.
func Copy(templates fs.FS, dstDir string, opts Options) (*CopyReport, error) {
	logger := opts.Logger
	excludeRegex := ExcludeRegex(opts.ExcludeLint)

	source := opts.Source
	if source == "" {
		source = "templates"
	}
	logger.Info().Msgf("copying configuration files 'cp -rnT %s/ %s/'", source, dstDir)

	entries, err := fs.ReadDir(templates, ".")
	if err != nil {
		return nil, fmt.Errorf("read template directory: %w", err)
	}

	report := &CopyReport{}
	for _, entry := range entries {
		name := entry.Name()
		if !Distributed(name) {
			continue
		}
		info, err := fs.Stat(templates, name)
		if err != nil {
			return report, fmt.Errorf("stat template %s: %w", name, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		dst := filepath.Join(dstDir, name)
		if !opts.Overwrite && isRegularFile(dst) {
			logger.Warn().Msgf("use custom file %s", dst)
			report.Preserved = append(report.Preserved, name)
			continue
		}

		rewrite := lineRewriter{
			excludeRegex: excludeRegex,
			disable:      opts.DisablePylintChecks,
			substitute:   strings.HasPrefix(name, configPrefix),
		}
		if rewrite.substitute && excludeRegex != "" {
			logger.Info().Msgf("apply EXCLUDE_LINT=%s to %s", opts.ExcludeLint, dst)
		}
		if err := copyFile(templates, name, dst, rewrite); err != nil {
			return report, err
		}
		report.Copied = append(report.Copied, name)
	}
	return report, nil
}

// Distributed reports whether a template entry name is a configuration file.
func Distributed(name string) bool {
	return strings.HasPrefix(name, ".") || name == pyproject
}

// ExcludeRegex builds the alternation written in place of the marker line:
// "a, b" gives "(a|b)|". Blank entries are dropped; an empty list gives "".
func ExcludeRegex(excludeLint string) string {
	var parts []string
	for _, path := range strings.Split(excludeLint, ",") {
		if path = strings.TrimSpace(path); path != "" {
			parts = append(parts, regexp.QuoteMeta(path))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, "|") + ")|"
}

type lineRewriter struct {
	excludeRegex string
	disable      string
	substitute   bool
}

func (r lineRewriter) apply(line string) string {
	if !r.substitute {
		return line
	}
	if r.excludeRegex != "" && strings.Contains(line, excludeMarker) {
		line = "    " + r.excludeRegex + "\n"
	}
	if r.disable != "" && strings.Contains(line, disableDirective) {
		line = strings.ReplaceAll(line, disablePlaceholder, r.disable)
	}
	return line
}

func copyFile(templates fs.FS, name, dst string, rewrite lineRewriter) error {
	src, err := templates.Open(name)
	if err != nil {
		return fmt.Errorf("open template %s: %w", name, err)
	}
	defer src.Close() //nolint:errcheck // read-only

	// Write through a symlinked destination to its target.
	if target, err := filepath.EvalSymlinks(dst); err == nil {
		dst = target
	}
	pending, err := renameio.NewPendingFile(dst, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer pending.Cleanup() //nolint:errcheck // no-op once replaced

	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(pending)
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			if _, err := writer.WriteString(rewrite.apply(line)); err != nil {
				return fmt.Errorf("write %s: %w", dst, err)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read template %s: %w", name, readErr)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
