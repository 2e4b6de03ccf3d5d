package main

import (
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Vauxoo/pre-commit-vauxoo/internal/config"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/formatter"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/orchestrator"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the variables and settings a run would use",
	Long: `Show the assignments read from variables.sh and the resolved settings with
their source.

Priority (highest to lowest):
  1. variables.sh at the repository root
  2. Environment variables
  3. Defaults

Examples:
  pre-commit-vauxoo env
  pre-commit-vauxoo env -o json`,
	Args: cobra.NoArgs,
	RunE: runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

// envReport is the structured form of the env command output.
type envReport struct {
	Root      string            `json:"root" yaml:"root"`
	Variables map[string]string `json:"variables" yaml:"variables"`
	Settings  []config.Resolved `json:"settings" yaml:"settings"`
}

func runEnv(cmd *cobra.Command, args []string) error {
	opts, err := orchestratorOptions()
	if err != nil {
		return err
	}
	ws, err := orchestrator.Prepare(cmd.Context(), opts)
	if err != nil {
		return err
	}

	report := envReport{
		Root:      ws.Root,
		Variables: ws.Vars,
		Settings:  ws.Settings.Sources(),
	}
	return formatter.Write(cmd.OutOrStdout(), output, report, func(w io.Writer) error {
		return writeEnvTable(w, report)
	})
}

func writeEnvTable(w io.Writer, report envReport) error {
	settings := formatter.NewTable(w, "SETTING", "VALUE", "SOURCE")
	for _, r := range report.Settings {
		settings.AddRow(r.Key, quoteEmpty(r.Value), string(r.Source))
	}
	if err := settings.Render(); err != nil {
		return err
	}

	if len(report.Variables) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(report.Variables))
	for name := range report.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := formatter.NewTable(w, "VARIABLE", "VALUE")
	for _, name := range names {
		vars.AddRow(name, quoteEmpty(report.Variables[name]))
	}
	return vars.Render()
}

func quoteEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
