// Package precommit drives the external pre-commit hook runner and reads its
// configuration files.
package precommit

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Config file names distributed into the target repository, one per tier.
const (
	MandatoryConfig = ".pre-commit-config.yaml"
	OptionalConfig  = ".pre-commit-config-optional.yaml"
	AutofixConfig   = ".pre-commit-config-autofix.yaml"
)

// exitNotFound mirrors the shell's code for a missing executable.
const exitNotFound = 127

// Result is the outcome of one pre-commit invocation.
type Result struct {
	Code int
	Err  error
}

// Scope selects the files a run checks.
type Scope struct {
	// Files restricts the run to these paths; empty means every tracked file.
	Files []string
}

// All reports whether the scope covers the whole repository.
func (s Scope) All() bool {
	return len(s.Files) == 0
}

func (s Scope) args() []string {
	if s.All() {
		return []string{"--all"}
	}
	return append([]string{"--files"}, s.Files...)
}

// Runner executes pre-commit as a child process with stdio passed through.
type Runner struct {
	// Command is the pre-commit executable; defaults to "pre-commit".
	Command string
	// Dir is the working directory of the child.
	Dir string
	// Env is the full child environment; nil inherits the parent's.
	Env []string

	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger
}

// New returns a Runner for dir with the given environment.
func New(dir string, env []string, logger zerolog.Logger) *Runner {
	return &Runner{
		Command: "pre-commit",
		Dir:     dir,
		Env:     env,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  logger,
	}
}

// InstallHooks runs `pre-commit install-hooks` for one config file.
func (r *Runner) InstallHooks(ctx context.Context, configPath string) Result {
	return r.exec(ctx, "install-hooks", "--color=always", "-c", configPath)
}

// Run runs `pre-commit run` for one config file over scope.
func (r *Runner) Run(ctx context.Context, configPath string, scope Scope) Result {
	args := []string{"run", "--color=always"}
	args = append(args, scope.args()...)
	args = append(args, "-c", configPath)
	return r.exec(ctx, args...)
}

func (r *Runner) exec(ctx context.Context, args ...string) Result {
	command := r.Command
	if command == "" {
		command = "pre-commit"
	}
	r.Logger.Debug().Msgf("command executed: %s", strings.Join(append([]string{command}, args...), " "))

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = r.Dir
	cmd.Env = r.Env
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	return Result{Code: exitCode(err), Err: err}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
		return 1
	}
	if errors.Is(err, exec.ErrNotFound) {
		return exitNotFound
	}
	return 1
}
