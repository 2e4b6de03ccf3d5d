// Package summary renders the per-tier results table printed at the end of a run.
package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const (
	width     = 39
	nameWidth = 28
)

// Row is one line of the summary.
type Row struct {
	Name    string
	Message string
	Level   zerolog.Level
}

// Colorizer styles a status message for a severity level.
type Colorizer func(msg string, level zerolog.Level) string

// Plain returns msg unchanged.
func Plain(msg string, _ zerolog.Level) string {
	return msg
}

// Styled returns a Colorizer rendering for w: green for info, yellow for
// warnings, red for errors. Color is dropped when w is not a terminal.
func Styled(w io.Writer) Colorizer {
	r := lipgloss.NewRenderer(w)
	info := r.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warn := r.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	fail := r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	debug := r.NewStyle().Foreground(lipgloss.Color("4"))

	return func(msg string, level zerolog.Level) string {
		switch {
		case level >= zerolog.ErrorLevel:
			return fail.Render(msg)
		case level == zerolog.WarnLevel:
			return warn.Render(msg)
		case level == zerolog.InfoLevel:
			return info.Render(msg)
		default:
			return debug.Render(msg)
		}
	}
}

// Render builds the bordered summary table.
func Render(rows []Row, colorize Colorizer) string {
	if colorize == nil {
		colorize = Plain
	}
	border := "+" + strings.Repeat("=", width)

	lines := make([]string, 0, len(rows)+4)
	lines = append(lines, border, "|  Tests summary:", "|"+strings.Repeat("-", width))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("| %-*s%s", nameWidth, row.Name, colorize(row.Message, row.Level)))
	}
	lines = append(lines, border)
	return strings.Join(lines, "\n")
}

// Report logs the rendered table at info level.
func Report(logger zerolog.Logger, rows []Row, colorize Colorizer) {
	logger.Info().Msgf("tests summary\n%s", Render(rows, colorize))
}
