// Package orchestrator runs the check tiers: it resolves the repository and
// settings, distributes the config files, installs hooks and runs pre-commit
// for the autofix, mandatory and optional tiers in sequence.
package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Vauxoo/pre-commit-vauxoo/embedded"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/config"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/distribute"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/envfile"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/gitutil"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/precommit"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/summary"
)

// Tier names as shown in the summary.
const (
	TierAutofix   = "Autofix checks"
	TierMandatory = "Mandatory checks"
	TierOptional  = "Optional checks"
)

const (
	msgPassed      = "Passed"
	msgFailed      = "Failed"
	msgReformatted = "Reformatted"
)

// Git answers the two repository queries a run needs.
type Git interface {
	RepoRoot(ctx context.Context, dir string) (string, error)
	ListFiles(ctx context.Context, dir, path string) ([]string, error)
}

// Runner invokes the hook runner.
type Runner interface {
	InstallHooks(ctx context.Context, configPath string) precommit.Result
	Run(ctx context.Context, configPath string, scope precommit.Scope) precommit.Result
}

// Options wires the collaborators of a run. Zero values fall back to the
// production implementations.
type Options struct {
	Git Git
	// NewRunner builds the hook runner for the working directory and child environment.
	NewRunner func(dir string, environ []string) Runner
	// Templates is the template directory; defaults to the embedded one.
	Templates fs.FS
	// TemplateSource labels Templates in log lines.
	TemplateSource string
	LookupEnv      func(string) (string, bool)
	Environ        func() []string
	Getwd          func() (string, error)
	Colorize       summary.Colorizer
	Logger         zerolog.Logger
}

// Workspace is the resolved state a run starts from.
type Workspace struct {
	Root     string
	Cwd      string
	Vars     envfile.Vars
	Settings *config.Settings
}

// TierResult is the outcome of one tier.
type TierResult struct {
	Name    string
	Status  int
	Level   zerolog.Level
	Message string
}

// Result is the outcome of a run.
type Result struct {
	// Status accumulates the autofix and mandatory exit codes.
	Status int
	// OptionalStatus is the optional tier's exit code; it never affects Status.
	OptionalStatus int
	Tiers          []TierResult
	Workspace      *Workspace
}

// ExitCode is 0 when the autofix and mandatory tiers passed, 1 otherwise.
func (r *Result) ExitCode() int {
	if r.Status == 0 {
		return 0
	}
	return 1
}

// Rows converts the tier results for the summary table.
func (r *Result) Rows() []summary.Row {
	rows := make([]summary.Row, 0, len(r.Tiers))
	for _, tier := range r.Tiers {
		rows = append(rows, summary.Row{Name: tier.Name, Message: tier.Message, Level: tier.Level})
	}
	return rows
}

func (o *Options) defaults() {
	if o.Git == nil {
		o.Git = gitutil.New()
	}
	if o.NewRunner == nil {
		logger := o.Logger
		o.NewRunner = func(dir string, environ []string) Runner {
			return precommit.New(dir, environ, logger)
		}
	}
	if o.Getwd == nil {
		o.Getwd = os.Getwd
	}
	if o.Colorize == nil {
		o.Colorize = summary.Plain
	}
}

// Prepare resolves the repository root, the working directory, the variables
// file and the settings. It fails with gitutil.ErrNotGitRepo outside a repo.
func Prepare(ctx context.Context, opts Options) (*Workspace, error) {
	opts.defaults()

	wd, err := opts.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	cwd, err := gitutil.Canonical(wd)
	if err != nil {
		return nil, err
	}
	root, err := opts.Git.RepoRoot(ctx, cwd)
	if err != nil {
		return nil, err
	}

	vars, err := envfile.Load(root, envfile.DefaultFile, opts.Logger)
	if err != nil {
		return nil, err
	}

	settings := config.Resolve(config.Options{
		Vars:      vars,
		LookupEnv: opts.LookupEnv,
		Environ:   opts.Environ,
	})
	return &Workspace{Root: root, Cwd: cwd, Vars: vars, Settings: settings}, nil
}

// Distribute copies the template files into the workspace root.
func Distribute(ws *Workspace, opts Options) (*distribute.CopyReport, error) {
	templates := opts.Templates
	if templates == nil {
		templates = embedded.Templates()
	}
	return distribute.Copy(templates, ws.Root, distribute.Options{
		Overwrite:           ws.Settings.Overwrite,
		ExcludeLint:         ws.Settings.ExcludeLint,
		DisablePylintChecks: ws.Settings.DisablePylintChecks,
		Source:              opts.TemplateSource,
		Logger:              opts.Logger,
	})
}

// Run executes a full check run. Errors are returned only for fatal
// conditions (no repository, unreadable files, no files in a sub-path);
// failing checks are reported through Result.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.defaults()
	logger := opts.Logger

	ws, err := Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	if _, err := Distribute(ws, opts); err != nil {
		return nil, err
	}

	runner := opts.NewRunner(ws.Cwd, ws.Settings.Environ)
	mandatoryCfg := filepath.Join(ws.Root, precommit.MandatoryConfig)
	optionalCfg := filepath.Join(ws.Root, precommit.OptionalConfig)
	autofixCfg := filepath.Join(ws.Root, precommit.AutofixConfig)

	logger.Info().Msg("installing pre-commit hooks")
	installCfgs := []string{mandatoryCfg, optionalCfg}
	if ws.Settings.Autofix {
		installCfgs = append(installCfgs, autofixCfg)
	}
	for _, cfg := range installCfgs {
		installHooks(ctx, runner, cfg, logger)
	}

	scope, err := resolveScope(ctx, opts.Git, ws, logger)
	if err != nil {
		return nil, err
	}

	result := &Result{Workspace: ws}

	if ws.Settings.Autofix {
		logger.Info().Msgf("%s AUTOFIX CHECKS %s", strings.Repeat("-", 25), strings.Repeat("-", 25))
		logger.Info().Msg("running autofix checks (affect status build but you can autofix them locally)")
		code := runTier(ctx, runner, autofixCfg, scope, logger)
		result.Status += code
		tier := TierResult{Name: TierAutofix, Status: code, Level: zerolog.InfoLevel, Message: msgPassed}
		if code != 0 {
			logger.Error().Msgf("%s reformatted", TierAutofix)
			tier.Level, tier.Message = zerolog.ErrorLevel, msgReformatted
		} else {
			logger.Info().Msgf("%s passed!", TierAutofix)
		}
		result.Tiers = append(result.Tiers, tier)
		logger.Info().Msg(strings.Repeat("-", 66))
	}

	logger.Info().Msgf("%s MANDATORY CHECKS %s", strings.Repeat("*", 25), strings.Repeat("*", 25))
	logger.Info().Msg("running mandatory checks (affect status build)")
	code := runTier(ctx, runner, mandatoryCfg, scope, logger)
	result.Status += code
	tier := TierResult{Name: TierMandatory, Status: code, Level: zerolog.InfoLevel, Message: msgPassed}
	// Severity follows the cumulative status, so a failed autofix tier also
	// marks the mandatory row as failed.
	if result.Status != 0 {
		logger.Error().Msgf("%s failed", TierMandatory)
		tier.Level, tier.Message = zerolog.ErrorLevel, msgFailed
	} else {
		logger.Info().Msgf("%s passed!", TierMandatory)
	}
	result.Tiers = append(result.Tiers, tier)
	logger.Info().Msg(strings.Repeat("*", 68))

	logger.Info().Msgf("%s OPTIONAL CHECKS %s", strings.Repeat("~", 25), strings.Repeat("~", 25))
	logger.Info().Msg("running optional checks (does not affect status build)")
	result.OptionalStatus = runTier(ctx, runner, optionalCfg, scope, logger)
	tier = TierResult{Name: TierOptional, Status: result.OptionalStatus, Level: zerolog.InfoLevel, Message: msgPassed}
	if result.OptionalStatus != 0 {
		logger.Warn().Msg("optional checks failed")
		tier.Level, tier.Message = zerolog.WarnLevel, msgFailed
	} else {
		logger.Info().Msg("optional checks passed!")
	}
	result.Tiers = append(result.Tiers, tier)
	logger.Info().Msg(strings.Repeat("~", 67))

	summary.Report(logger, result.Rows(), opts.Colorize)
	return result, nil
}

// installHooks never fails the run; problems are only logged.
func installHooks(ctx context.Context, runner Runner, cfg string, logger zerolog.Logger) {
	res := runner.InstallHooks(ctx, cfg)
	switch {
	case res.Code == 0:
	case res.Err != nil:
		logger.Warn().Err(res.Err).Msgf("install-hooks for %s exited with %d", filepath.Base(cfg), res.Code)
	default:
		logger.Warn().Msgf("install-hooks for %s exited with %d", filepath.Base(cfg), res.Code)
	}
}

func runTier(ctx context.Context, runner Runner, cfg string, scope precommit.Scope, logger zerolog.Logger) int {
	res := runner.Run(ctx, cfg, scope)
	if res.Err != nil && res.Code != 0 {
		logger.Debug().Err(res.Err).Msgf("pre-commit run -c %s", filepath.Base(cfg))
	}
	return res.Code
}

// resolveScope checks every tracked file from the root, and only the files
// under the working directory otherwise.
func resolveScope(ctx context.Context, git Git, ws *Workspace, logger zerolog.Logger) (precommit.Scope, error) {
	if ws.Cwd == ws.Root {
		return precommit.Scope{}, nil
	}
	rel, err := filepath.Rel(ws.Root, ws.Cwd)
	if err != nil {
		rel = ws.Cwd
	}
	logger.Warn().Msgf("running only for sub-path '%s'", rel)

	files, err := git.ListFiles(ctx, ws.Cwd, ws.Cwd)
	if err != nil {
		return precommit.Scope{}, err
	}
	if len(files) == 0 {
		return precommit.Scope{}, fmt.Errorf("%w %s", ErrNoFiles, rel)
	}
	return precommit.Scope{Files: files}, nil
}
