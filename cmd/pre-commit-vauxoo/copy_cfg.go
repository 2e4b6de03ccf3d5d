package main

import (
	"github.com/spf13/cobra"

	"github.com/Vauxoo/pre-commit-vauxoo/internal/orchestrator"
)

var copyCfgCmd = &cobra.Command{
	Use:   "copy-cfg",
	Short: "Copy the configuration files without running checks",
	Long: `Copy the default configuration files into the repository root, applying
EXCLUDE_LINT and DISABLE_PYLINT_CHECKS, and exit.

Honors PRECOMMIT_OVERWRITE_CONFIG_FILES and variables.sh the same way a full
run does.`,
	Args: cobra.NoArgs,
	RunE: runCopyCfg,
}

func init() {
	rootCmd.AddCommand(copyCfgCmd)
}

func runCopyCfg(cmd *cobra.Command, args []string) error {
	opts, err := orchestratorOptions()
	if err != nil {
		return err
	}
	ws, err := orchestrator.Prepare(cmd.Context(), opts)
	if err != nil {
		return err
	}
	report, err := orchestrator.Distribute(ws, opts)
	if err != nil {
		return err
	}
	l := logger()
	l.Info().Msgf("copied %d file(s), kept %d custom file(s) in %s", len(report.Copied), len(report.Preserved), ws.Root)
	return nil
}
