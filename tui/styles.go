package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"mirrorwalk/compare"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	cellStyle        = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderSummary produces a Lip Gloss styled summary of the comparison.
func RenderSummary(rows []compare.Row) string {
	var builder strings.Builder

	mismatches := compare.Mismatches(rows)
	if len(mismatches) == 0 {
		builder.WriteString(successStyle.Render("All paths match!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf("Compared %d paths", len(rows))))
		builder.WriteString("\n")
		return builder.String()
	}

	tableRows := make([][]string, 0, len(mismatches))
	for _, row := range mismatches {
		tableRows = append(tableRows, []string{
			row.OriginalPath,
			statusText(row.OriginalStatus),
			statusText(row.TargetStatus),
		})
	}

	summaryTable := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Path", "Original", "Target").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 {
				return statusErrorStyle
			}
			return cellStyle
		}).
		Rows(tableRows...)

	builder.WriteString(summaryTable.Render())
	builder.WriteString("\n\n")
	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"%d of %d paths changed status on the target host",
		len(mismatches), len(rows))))
	builder.WriteString("\n")

	return builder.String()
}

// statusText renders a status code, labelling the transport-failure sentinel.
func statusText(code int) string {
	if code == 0 {
		return "fetch failed"
	}
	return strconv.Itoa(code)
}
