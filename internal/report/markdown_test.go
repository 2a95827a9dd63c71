package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/terragate/terragate/internal/gate"
	"github.com/terragate/terragate/internal/models"
)

var renderTime = time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

func finding(sev models.Severity, id, name, file string) models.Finding {
	return models.Finding{
		CheckID:    id,
		CheckName:  name,
		Resource:   "google_storage_bucket.data",
		FilePath:   file,
		StartLine:  1,
		EndLine:    4,
		Severity:   sev,
		SourceTool: models.ToolCheckov,
	}
}

func runWith(findings ...models.Finding) *models.ScanRun {
	return &models.ScanRun{
		ScanPath: "terraform/env",
		Findings: findings,
		ToolResults: map[models.SourceTool]models.ToolResult{
			models.ToolTerraformValidate: {Ran: true, Passed: true},
			models.ToolCheckov:           {Ran: true, Passed: len(findings) == 0, PassedChecks: 12, FailedChecks: len(findings)},
			models.ToolTfsec:             {Skipped: true, Passed: true},
		},
	}
}

func render(t *testing.T, run *models.ScanRun) string {
	t.Helper()
	verdict := gate.Evaluate(run, gate.DefaultPolicy())
	return string(Markdown(run, verdict, renderTime))
}

func TestMarkdownStatusTiers(t *testing.T) {
	tests := []struct {
		name     string
		findings []models.Finding
		want     string
	}{
		{
			name:     "critical findings fail",
			findings: []models.Finding{finding(models.SeverityCritical, "CKV_GCP_62", "Bucket logging", "main.tf")},
			want:     "🔴 FAILED - Critical issues found",
		},
		{
			name: "more than five highs warn",
			findings: func() []models.Finding {
				var out []models.Finding
				for i := 0; i < 6; i++ {
					out = append(out, finding(models.SeverityHigh, "CKV_AWS_20", "Public bucket", "s3.tf"))
				}
				return out
			}(),
			want: "🟠 WARNING - Multiple high severity issues",
		},
		{
			name:     "any high needs attention",
			findings: []models.Finding{finding(models.SeverityHigh, "CKV_AWS_20", "Public bucket", "s3.tf")},
			want:     "🟡 ATTENTION - High severity issues found",
		},
		{
			name:     "clean run passes",
			findings: nil,
			want:     "🟢 PASSED - No critical/high issues",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, runWith(tt.findings...))
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected banner %q in output:\n%s", tt.want, got)
			}
		})
	}
}

func TestMarkdownSummaryTable(t *testing.T) {
	got := render(t, runWith(finding(models.SeverityMedium, "CKV2_GCP_5", "Compound check", "net.tf")))

	if !strings.Contains(got, "| ✅ Passed Checks | 12 |") {
		t.Error("missing passed checks row")
	}
	if !strings.Contains(got, "| ❌ Failed Checks | 1 |") {
		t.Error("missing failed checks row")
	}
	if !strings.Contains(got, "**Scanned at:** 2026-08-25 10:30:00 UTC") {
		t.Error("missing scan timestamp")
	}
}

func TestMarkdownCriticalCapAndOverflow(t *testing.T) {
	var findings []models.Finding
	for i := 0; i < 13; i++ {
		findings = append(findings, finding(models.SeverityCritical, "CKV_GCP_62",
			fmt.Sprintf("Critical check %d", i), "main.tf"))
	}

	got := render(t, runWith(findings...))

	if !strings.Contains(got, "<details open>") {
		t.Error("critical section must render expanded")
	}
	if !strings.Contains(got, "Critical check 9") {
		t.Error("tenth critical finding should be listed")
	}
	if strings.Contains(got, "Critical check 10") {
		t.Error("eleventh critical finding must not be listed")
	}
	if !strings.Contains(got, "*...and 3 more critical issues*") {
		t.Error("missing overflow note for criticals")
	}
}

func TestMarkdownMediumBulletsCapAtFive(t *testing.T) {
	var findings []models.Finding
	for i := 0; i < 7; i++ {
		findings = append(findings, finding(models.SeverityMedium, "CKV2_GCP_5",
			fmt.Sprintf("Medium check %d", i), "net.tf"))
	}

	got := render(t, runWith(findings...))

	if !strings.Contains(got, "7 medium severity issues found (click to expand top 5)") {
		t.Error("missing medium summary line")
	}
	if strings.Contains(got, "Medium check 5") {
		t.Error("sixth medium finding must not be listed")
	}
	if !strings.Contains(got, "- *...and 2 more*") {
		t.Error("missing medium overflow note")
	}
}

func TestMarkdownLowOnlyCounted(t *testing.T) {
	got := render(t, runWith(
		finding(models.SeverityLow, "CKV_OTHER_1", "Low check one", "a.tf"),
		finding(models.SeverityLow, "CKV_OTHER_2", "Low check two", "b.tf"),
	))

	if !strings.Contains(got, "### ⚪ Low Severity: 2 issues") {
		t.Error("low findings should be counted")
	}
	if strings.Contains(got, "Low check one") {
		t.Error("individual low findings must not be listed")
	}
}

func TestMarkdownAffectedFilesStableOrder(t *testing.T) {
	// main.tf has two findings; s3.tf and net.tf tie with one each and
	// must keep discovery order.
	got := render(t, runWith(
		finding(models.SeverityHigh, "CKV_AWS_20", "Check", "main.tf"),
		finding(models.SeverityHigh, "CKV_AWS_21", "Check", "s3.tf"),
		finding(models.SeverityHigh, "CKV_AWS_22", "Check", "net.tf"),
		finding(models.SeverityHigh, "CKV_AWS_23", "Check", "main.tf"),
	))

	mainIdx := strings.Index(got, "| `main.tf` | 2 |")
	s3Idx := strings.Index(got, "| `s3.tf` | 1 |")
	netIdx := strings.Index(got, "| `net.tf` | 1 |")
	if mainIdx == -1 || s3Idx == -1 || netIdx == -1 {
		t.Fatalf("missing affected files rows:\n%s", got)
	}
	if !(mainIdx < s3Idx && s3Idx < netIdx) {
		t.Error("affected files must sort by count, ties in discovery order")
	}
}

func TestMarkdownNextSteps(t *testing.T) {
	got := render(t, runWith(
		finding(models.SeverityCritical, "CKV_GCP_62", "Critical check", "main.tf"),
		finding(models.SeverityHigh, "CKV_AWS_20", "High check", "s3.tf"),
	))

	if !strings.Contains(got, "- Fix 1 critical security issue(s) before merging") {
		t.Error("missing critical action item")
	}
	if !strings.Contains(got, "- Address 1 high severity issue(s)") {
		t.Error("missing high action item")
	}
}

func TestMarkdownVerdictCountsVerbatim(t *testing.T) {
	run := runWith(finding(models.SeverityCritical, "CKV_GCP_62", "Critical check", "main.tf"))
	verdict := gate.Evaluate(run, gate.DefaultPolicy())

	got := string(Markdown(run, verdict, renderTime))
	if !strings.Contains(got, "| 🔴 Critical | 1 | ⛔ Must Fix |") {
		t.Errorf("breakdown must mirror verdict counts:\n%s", got)
	}
}
