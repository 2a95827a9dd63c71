package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/terragate/terragate/internal/gate"
	"github.com/terragate/terragate/internal/models"
)

// Summary renders the end-of-scan report shown on the console and saved
// as summary.txt. The styler decides whether output is colored; the
// plain variant is byte-stable for artifacts.
func Summary(run *models.ScanRun, styler Styler, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Security Scan Report - %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Scanned Path: %s\n", run.ScanPath)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 60))

	if gate.AggregateToolsPassed(run) {
		fmt.Fprintf(&b, "Overall Status: %s\n\n", styler.Pass("✓ PASSED"))
	} else {
		fmt.Fprintf(&b, "Overall Status: %s\n\n", styler.Fail("✗ FAILED"))
	}

	fmt.Fprintf(&b, "Tool Results:\n")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 60))

	for _, tool := range models.AllTools {
		result, ok := run.ToolResults[tool]
		if !ok {
			continue
		}
		if result.Skipped {
			fmt.Fprintf(&b, "  %s: SKIPPED\n", tool)
			continue
		}

		icon := styler.Fail("✗")
		if result.Passed {
			icon = styler.Pass("✓")
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", icon, tool, toolDetail(tool, result, run))
	}

	b.WriteString("\n")
	writeSeverityCounts(&b, run, styler)

	return b.String()
}

func toolDetail(tool models.SourceTool, result models.ToolResult, run *models.ScanRun) string {
	switch tool {
	case models.ToolCheckov:
		return fmt.Sprintf("%d failed checks", result.FailedChecks)
	case models.ToolTfsec:
		return fmt.Sprintf("%d issues found", len(run.ToolFindings(models.ToolTfsec)))
	case models.ToolTerraformValidate:
		if result.Passed {
			return "Valid"
		}
		return "Invalid"
	default:
		return result.Summary
	}
}

// writeSeverityCounts prints a line per non-empty severity tier,
// highest first.
func writeSeverityCounts(b *strings.Builder, run *models.ScanRun, styler Styler) {
	counts := run.SeverityCounts()

	total := 0
	for _, level := range models.Levels {
		total += counts[level]
	}
	if total == 0 {
		return
	}

	fmt.Fprintf(b, "Severity Breakdown:\n")
	for _, level := range models.Levels {
		if counts[level] == 0 {
			continue
		}
		line := fmt.Sprintf("  %s: %d", level, counts[level])
		fmt.Fprintf(b, "%s\n", styler.Severity(level, line))
	}
	b.WriteString("\n")
}
