package tui

import (
	"fmt"
	"strings"

	"github.com/terragate/terragate/internal/models"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 5

// renderHeader produces the header string from scan run data.
func renderHeader(run *models.ScanRun, width int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("terragate  Path: %s\n", run.ScanPath))

	// Tool status line
	toolParts := make([]string, 0, len(models.AllTools))
	for _, tool := range models.AllTools {
		result, ok := run.ToolResults[tool]
		if !ok {
			continue
		}
		switch {
		case result.Skipped:
			toolParts = append(toolParts, fmt.Sprintf("%s:skip", tool))
		case result.Passed:
			toolParts = append(toolParts, fmt.Sprintf("%s:✓", tool))
		default:
			toolParts = append(toolParts, fmt.Sprintf("%s:✗", tool))
		}
	}
	if len(toolParts) > 0 {
		b.WriteString("Tools: " + strings.Join(toolParts, "  "))
	}
	b.WriteString("\n")

	// Severity breakdown line
	counts := run.SeverityCounts()
	sevParts := make([]string, 0, len(models.Levels))
	for _, sev := range models.Levels {
		if counts[sev] == 0 {
			continue
		}
		label := fmt.Sprintf("%s:%d", string(sev)[:1], counts[sev])
		sevParts = append(sevParts, severityStyle(sev).Render(label))
	}
	if len(sevParts) > 0 {
		b.WriteString(strings.Join(sevParts, "  "))
	} else {
		b.WriteString("No findings")
	}

	return styleHeader.Width(width).Render(b.String())
}
