package main

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vauxoo/pre-commit-vauxoo/internal/formatter"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/orchestrator"
	"github.com/Vauxoo/pre-commit-vauxoo/internal/precommit"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "List the hooks configured for each tier",
	Long: `Read the tier configuration files at the repository root and list their hook ids.

Run copy-cfg (or a full run) first to distribute the configuration files.`,
	Args: cobra.NoArgs,
	RunE: runHooks,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
}

// tierHooks is one row of the hooks command output.
type tierHooks struct {
	Tier    string   `json:"tier" yaml:"tier"`
	Config  string   `json:"config" yaml:"config"`
	Missing bool     `json:"missing,omitempty" yaml:"missing,omitempty"`
	Hooks   []string `json:"hooks" yaml:"hooks"`
}

var tierConfigs = []struct {
	tier   string
	config string
}{
	{tier: orchestrator.TierAutofix, config: precommit.AutofixConfig},
	{tier: orchestrator.TierMandatory, config: precommit.MandatoryConfig},
	{tier: orchestrator.TierOptional, config: precommit.OptionalConfig},
}

func runHooks(cmd *cobra.Command, args []string) error {
	opts, err := orchestratorOptions()
	if err != nil {
		return err
	}
	ws, err := orchestrator.Prepare(cmd.Context(), opts)
	if err != nil {
		return err
	}
	rows, err := collectTierHooks(ws.Root)
	if err != nil {
		return err
	}
	return formatter.Write(cmd.OutOrStdout(), output, rows, func(w io.Writer) error {
		tbl := formatter.NewTable(w, "TIER", "CONFIG", "HOOKS")
		tbl.SetMaxWidth(2, 100)
		for _, row := range rows {
			hooks := strings.Join(row.Hooks, ",")
			if row.Missing {
				hooks = "(missing)"
			}
			tbl.AddRow(row.Tier, row.Config, hooks)
		}
		return tbl.Render()
	})
}

// collectTierHooks reads each tier config under root, in tier order. Missing
// files are reported, not treated as errors.
func collectTierHooks(root string) ([]tierHooks, error) {
	rows := make([]tierHooks, 0, len(tierConfigs))
	for _, tc := range tierConfigs {
		row := tierHooks{Tier: tc.tier, Config: tc.config}
		cfg, err := precommit.LoadConfig(filepath.Join(root, tc.config))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			row.Missing = true
		case err != nil:
			return nil, err
		default:
			row.Hooks = cfg.HookIDs()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
