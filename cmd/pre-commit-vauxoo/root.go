package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	vlog "github.com/Vauxoo/pre-commit-vauxoo/internal/log"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/orchestrator"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/summary"
)

var (
	// Global flags
	verbose   bool
	output    string
	configDir string

	// exitCode is the process status decided by the last command.
	exitCode int
)

// rootCmd runs the full check sequence when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "pre-commit-vauxoo",
	Short: "Run the Vauxoo pre-commit checks on the current repository",
	Long: `pre-commit-vauxoo copies the Vauxoo configuration files into the current git
repository and runs pre-commit with them.

Checks run in three tiers:
  autofix      .pre-commit-config-autofix.yaml   (only with PRECOMMIT_AUTOFIX=1)
  mandatory    .pre-commit-config.yaml           (fails the run)
  optional     .pre-commit-config-optional.yaml  (reported only)

Run from the repository root to check every tracked file, or from a
sub-directory to check only the files under it.

Environment variables (also read from "export" lines of variables.sh at the
repository root, which take precedence):
  PRECOMMIT_OVERWRITE_CONFIG_FILES  "1" (default) overwrites config files; anything
                                    else keeps the repository's own copies
  EXCLUDE_LINT                      comma separated paths excluded from linting
  DISABLE_PYLINT_CHECKS             pylint checks to disable (replaces R0000)
  PRECOMMIT_AUTOFIX                 "1" enables the autofix tier
  LOG_LEVEL                         log level (debug, info, warn, error)
  NO_COLOR                          disable colored output`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
	RunE: runChecks,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return exitCode
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output (echo executed commands)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format for env and hooks (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Template directory to copy from (default: embedded files)")
}

func configureLogging() {
	cfg := vlog.Config{}
	if verbose {
		cfg.Level = "debug"
	}
	vlog.Configure(cfg)
}

// orchestratorOptions builds the production wiring, honoring --config-dir.
func orchestratorOptions() (orchestrator.Options, error) {
	opts := orchestrator.Options{
		Logger:   vlog.Base(),
		Colorize: colorizer(),
	}
	if configDir == "" {
		return opts, nil
	}
	templates, err := templateDir(configDir)
	if err != nil {
		return opts, err
	}
	opts.Templates = templates
	opts.TemplateSource = configDir
	return opts, nil
}

func templateDir(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("--config-dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("--config-dir %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

func colorizer() summary.Colorizer {
	if !vlog.ColorEnabled(os.Stderr) {
		return summary.Plain
	}
	return summary.Styled(os.Stderr)
}

func runChecks(cmd *cobra.Command, args []string) error {
	opts, err := orchestratorOptions()
	if err != nil {
		return err
	}
	result, err := orchestrator.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	exitCode = result.ExitCode()
	return nil
}

// logger is the component logger for CLI-level messages.
func logger() zerolog.Logger {
	return vlog.WithComponent("cli")
}
