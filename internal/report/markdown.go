package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/terragate/terragate/internal/gate"
	"github.com/terragate/terragate/internal/models"
	"github.com/terragate/terragate/internal/normalize"
)

// Listing limits for the PR comment. LOW findings are only counted.
const (
	maxCriticalRows = 10
	maxHighRows     = 10
	maxMediumItems  = 5
	maxAffectedRows = 5

	checkNameWidth = 50
	resourceWidth  = 40
)

// Status tiers for the banner, most severe first.
type statusTier struct {
	emoji string
	text  string
}

// bannerFor derives the status banner from the severity counts: any
// critical is the worst tier, then more than five highs, then any high,
// else clean. Presentation only - the verdict itself is untouched.
func bannerFor(counts map[models.Severity]int) statusTier {
	switch {
	case counts[models.SeverityCritical] > 0:
		return statusTier{"🔴", "FAILED - Critical issues found"}
	case counts[models.SeverityHigh] > 5:
		return statusTier{"🟠", "WARNING - Multiple high severity issues"}
	case counts[models.SeverityHigh] > 0:
		return statusTier{"🟡", "ATTENTION - High severity issues found"}
	default:
		return statusTier{"🟢", "PASSED - No critical/high issues"}
	}
}

// Markdown renders a scan run and its verdict as a pull-request comment.
// It presents the verdict's counts verbatim and never recomputes or
// alters the decision.
func Markdown(run *models.ScanRun, verdict gate.Verdict, now time.Time) []byte {
	var b strings.Builder

	counts := verdict.SeverityCounts
	groups := run.FindingsBySeverity()
	banner := bannerFor(counts)

	fmt.Fprintf(&b, "## 🔒 Security Scan Results\n\n")
	fmt.Fprintf(&b, "**Status:** %s %s\n", banner.emoji, banner.text)
	fmt.Fprintf(&b, "**Scanned at:** %s\n\n", now.UTC().Format("2006-01-02 15:04:05 UTC"))

	writeSummaryTable(&b, run)
	writeSeverityBreakdown(&b, counts)
	writeCriticalSection(&b, groups[models.SeverityCritical])
	writeHighSection(&b, groups[models.SeverityHigh])
	writeMediumSection(&b, groups[models.SeverityMedium])

	if low := counts[models.SeverityLow]; low > 0 {
		fmt.Fprintf(&b, "### ⚪ Low Severity: %d issues\n\n", low)
	}

	writeAffectedFiles(&b, run.Findings)
	writeNextSteps(&b, counts)
	writeFooter(&b)

	return []byte(b.String())
}

func writeSummaryTable(b *strings.Builder, run *models.ScanRun) {
	checkov := run.ToolResults[models.ToolCheckov]

	fmt.Fprintf(b, "### 📊 Summary\n\n")
	fmt.Fprintf(b, "| Metric | Count |\n")
	fmt.Fprintf(b, "|--------|-------|\n")
	fmt.Fprintf(b, "| ✅ Passed Checks | %d |\n", checkov.PassedChecks)
	fmt.Fprintf(b, "| ❌ Failed Checks | %d |\n\n", checkov.FailedChecks)
}

func writeSeverityBreakdown(b *strings.Builder, counts map[models.Severity]int) {
	rows := []struct {
		emoji  string
		label  string
		level  models.Severity
		action string
	}{
		{"🔴", "Critical", models.SeverityCritical, "⛔ Must Fix"},
		{"🟠", "High", models.SeverityHigh, "⚠️ Should Fix"},
		{"🟡", "Medium", models.SeverityMedium, "📝 Consider"},
		{"⚪", "Low", models.SeverityLow, "ℹ️ Optional"},
	}

	fmt.Fprintf(b, "### 🎯 Severity Breakdown\n\n")
	fmt.Fprintf(b, "| Severity | Count | Status |\n")
	fmt.Fprintf(b, "|----------|-------|--------|\n")
	for _, row := range rows {
		status := "✅"
		if counts[row.level] > 0 {
			status = row.action
		}
		fmt.Fprintf(b, "| %s %s | %d | %s |\n", row.emoji, row.label, counts[row.level], status)
	}
	fmt.Fprintf(b, "\n")
}

func writeCriticalSection(b *strings.Builder, findings []models.Finding) {
	if len(findings) == 0 {
		return
	}

	fmt.Fprintf(b, "### 🔴 Critical Issues (Must Fix)\n\n")
	fmt.Fprintf(b, "<details open>\n")
	fmt.Fprintf(b, "<summary>Click to expand critical findings</summary>\n\n")
	fmt.Fprintf(b, "| Check | Resource | File | Lines |\n")
	fmt.Fprintf(b, "|-------|----------|------|-------|\n")

	for _, f := range capFindings(findings, maxCriticalRows) {
		lines := "N/A"
		if f.StartLine != 0 || f.EndLine != 0 {
			lines = fmt.Sprintf("%d-%d", f.StartLine, f.EndLine)
		}
		fmt.Fprintf(b, "| %s | `%s` | `%s` | %s |\n",
			normalize.Truncate(f.CheckName, checkNameWidth),
			normalize.Truncate(f.Resource, resourceWidth),
			f.FilePath, lines)
	}

	if overflow := len(findings) - maxCriticalRows; overflow > 0 {
		fmt.Fprintf(b, "\n*...and %d more critical issues*\n", overflow)
	}
	fmt.Fprintf(b, "\n</details>\n\n")
}

func writeHighSection(b *strings.Builder, findings []models.Finding) {
	if len(findings) == 0 {
		return
	}

	fmt.Fprintf(b, "### 🟠 High Severity Issues\n\n")
	fmt.Fprintf(b, "<details>\n")
	fmt.Fprintf(b, "<summary>Click to expand %d high severity findings</summary>\n\n", len(findings))
	fmt.Fprintf(b, "| Check | Resource | File |\n")
	fmt.Fprintf(b, "|-------|----------|------|\n")

	for _, f := range capFindings(findings, maxHighRows) {
		fmt.Fprintf(b, "| %s | `%s` | `%s` |\n",
			normalize.Truncate(f.CheckName, checkNameWidth),
			normalize.Truncate(f.Resource, resourceWidth),
			f.FilePath)
	}

	if overflow := len(findings) - maxHighRows; overflow > 0 {
		fmt.Fprintf(b, "\n*...and %d more high severity issues*\n", overflow)
	}
	fmt.Fprintf(b, "\n</details>\n\n")
}

func writeMediumSection(b *strings.Builder, findings []models.Finding) {
	if len(findings) == 0 {
		return
	}

	fmt.Fprintf(b, "### 🟡 Medium Severity Issues\n\n")
	fmt.Fprintf(b, "<details>\n")
	fmt.Fprintf(b, "<summary>%d medium severity issues found (click to expand top %d)</summary>\n\n",
		len(findings), maxMediumItems)

	for _, f := range capFindings(findings, maxMediumItems) {
		fmt.Fprintf(b, "- %s in `%s`\n", f.CheckName, f.Resource)
	}
	if overflow := len(findings) - maxMediumItems; overflow > 0 {
		fmt.Fprintf(b, "- *...and %d more*\n", overflow)
	}
	fmt.Fprintf(b, "\n</details>\n\n")
}

// writeAffectedFiles lists the top files by finding count. The sort is
// stable, so files with equal counts keep their discovery order.
func writeAffectedFiles(b *strings.Builder, findings []models.Finding) {
	counts := make(map[string]int)
	var order []string
	for _, f := range findings {
		if f.FilePath == "" {
			continue
		}
		if _, seen := counts[f.FilePath]; !seen {
			order = append(order, f.FilePath)
		}
		counts[f.FilePath]++
	}
	if len(order) == 0 {
		return
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxAffectedRows {
		order = order[:maxAffectedRows]
	}

	fmt.Fprintf(b, "### 📁 Most Affected Files\n\n")
	fmt.Fprintf(b, "| File | Issues |\n")
	fmt.Fprintf(b, "|------|--------|\n")
	for _, file := range order {
		fmt.Fprintf(b, "| `%s` | %d |\n", file, counts[file])
	}
	fmt.Fprintf(b, "\n")
}

func writeNextSteps(b *strings.Builder, counts map[models.Severity]int) {
	fmt.Fprintf(b, "### 🎯 Next Steps\n\n")

	if c := counts[models.SeverityCritical]; c > 0 {
		fmt.Fprintf(b, "⛔ **Action Required:**\n")
		fmt.Fprintf(b, "- Fix %d critical security issue(s) before merging\n\n", c)
	}
	if h := counts[models.SeverityHigh]; h > 0 {
		fmt.Fprintf(b, "⚠️ **Strongly Recommended:**\n")
		fmt.Fprintf(b, "- Address %d high severity issue(s)\n\n", h)
	}
	if counts[models.SeverityMedium] > 0 || counts[models.SeverityLow] > 0 {
		fmt.Fprintf(b, "📝 **Consider:**\n")
		fmt.Fprintf(b, "- Review and address medium/low severity findings when possible\n\n")
	}
}

func writeFooter(b *strings.Builder) {
	fmt.Fprintf(b, "---\n\n")
	fmt.Fprintf(b, "💡 **View Details:**\n")
	fmt.Fprintf(b, "- Download the `security-scan-results` artifact from this workflow run\n")
	fmt.Fprintf(b, "- Check the **Security** tab for SARIF analysis\n")
	fmt.Fprintf(b, "- Review `%s` in the results directory for complete findings\n\n", "results_json.json")
	fmt.Fprintf(b, "🔧 **Tools Used:** Checkov, tfsec, Terraform Validate\n\n")
	fmt.Fprintf(b, "*This comment will be automatically updated on new commits*\n")
}

func capFindings(findings []models.Finding, max int) []models.Finding {
	if len(findings) > max {
		return findings[:max]
	}
	return findings
}
