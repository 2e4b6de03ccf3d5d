// Package gitutil wraps the two git queries a check run needs.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds every git query.
const DefaultTimeout = 30 * time.Second

// Client runs git queries with a per-call timeout.
type Client struct {
	// Command is the git executable; defaults to "git".
	Command string
	// Timeout bounds each query; defaults to DefaultTimeout.
	Timeout time.Duration
}

// New returns a Client using the git found in PATH.
func New() *Client {
	return &Client{Command: "git", Timeout: DefaultTimeout}
}

// RepoRoot returns the absolute, symlink-resolved top-level directory of the
// work tree containing dir.
func (c *Client) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := c.output(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrNotGitRepo, err)
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", ErrNotGitRepo
	}
	return Canonical(root)
}

// ListFiles returns the tracked files under path, relative to dir. Names are
// returned verbatim, never C-quoted.
func (c *Client) ListFiles(ctx context.Context, dir, path string) ([]string, error) {
	out, err := c.output(ctx, dir, "ls-files", "-z", "--", path)
	if err != nil {
		return nil, fmt.Errorf("git ls-files %s: %w", path, err)
	}
	var files []string
	for _, name := range strings.Split(out, "\x00") {
		if name != "" {
			files = append(files, name)
		}
	}
	return files, nil
}

func (c *Client) output(ctx context.Context, dir string, args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	command := c.Command
	if command == "" {
		command = "git"
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: git %s after %s", ErrTimeout, args[0], timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// Canonical makes path absolute and resolves symlinks, so it compares equal
// to the repository root reported by git.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks %s: %w", abs, err)
	}
	return resolved, nil
}
