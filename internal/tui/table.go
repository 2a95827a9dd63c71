package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/terragate/terragate/internal/models"
	"github.com/terragate/terragate/internal/normalize"
)

var tableColumns = []table.Column{
	{Title: "Severity", Width: 10},
	{Title: "Tool", Width: 10},
	{Title: "Check", Width: 40},
	{Title: "Resource", Width: 30},
	{Title: "File", Width: 24},
}

// buildRows converts findings to table rows.
func buildRows(findings []models.Finding) []table.Row {
	rows := make([]table.Row, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, table.Row{
			string(f.Severity),
			string(f.SourceTool),
			normalize.Truncate(f.CheckName, tableColumns[2].Width),
			normalize.Truncate(f.Resource, tableColumns[3].Width),
			normalize.Truncate(f.FilePath, tableColumns[4].Width),
		})
	}
	return rows
}

// newTable creates a bubbles table with standard columns and styling.
func newTable(rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}
