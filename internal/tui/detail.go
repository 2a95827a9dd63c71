package tui

import (
	"fmt"
	"strings"

	"github.com/terragate/terragate/internal/models"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 5

// renderDetail produces the detail view for a selected finding.
func renderDetail(f *models.Finding, width int) string {
	if f == nil {
		return styleDetailPanel.Width(width).Render("No finding selected")
	}

	var b strings.Builder

	sevStyled := severityStyle(f.Severity.Bucket()).Render(string(f.Severity))
	b.WriteString(fmt.Sprintf("%s  %s / %s\n", sevStyled, f.SourceTool, f.CheckID))
	b.WriteString(fmt.Sprintf("%s\n", f.CheckName))

	if f.Resource != "" {
		b.WriteString(fmt.Sprintf("Resource: %s\n", f.Resource))
	}

	location := f.FilePath
	if f.StartLine != 0 || f.EndLine != 0 {
		location = fmt.Sprintf("%s:%d-%d", f.FilePath, f.StartLine, f.EndLine)
	}
	b.WriteString(fmt.Sprintf("File: %s", location))

	if f.Guideline != "" {
		b.WriteString(fmt.Sprintf("\nGuideline: %s", f.Guideline))
	}

	return styleDetailPanel.Width(width).Render(b.String())
}
