package normalize

import (
	"testing"

	"github.com/terragate/terragate/internal/models"
)

func TestCheckovFindings(t *testing.T) {
	report := &models.CheckovReport{
		Results: models.CheckovResults{
			FailedChecks: []models.CheckovCheck{
				{
					CheckID:       "CKV_GCP_62",
					CheckName:     "Bucket should log access",
					FilePath:      "/main.tf",
					Resource:      "google_storage_bucket.data",
					FileLineRange: []int{1, 13},
					Guideline:     "https://docs.example.com/CKV_GCP_62",
				},
				{
					CheckID: "CKV_AWS_20",
					// name, resource, and line range missing on purpose
				},
			},
		},
	}

	findings := CheckovFindings(report)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}

	first := findings[0]
	if first.Severity != models.SeverityCritical {
		t.Errorf("expected CRITICAL, got %s", first.Severity)
	}
	if first.FilePath != "main.tf" {
		t.Errorf("expected repo-relative path, got %q", first.FilePath)
	}
	if first.StartLine != 1 || first.EndLine != 13 {
		t.Errorf("expected lines 1-13, got %d-%d", first.StartLine, first.EndLine)
	}
	if first.SourceTool != models.ToolCheckov {
		t.Errorf("expected checkov source, got %s", first.SourceTool)
	}

	second := findings[1]
	if second.CheckName != "Unknown" || second.Resource != "Unknown" {
		t.Errorf("missing fields should default to Unknown, got %q/%q", second.CheckName, second.Resource)
	}
	if second.Severity != models.SeverityHigh {
		t.Errorf("expected HIGH for CKV_AWS_20, got %s", second.Severity)
	}
	if second.StartLine != 0 || second.EndLine != 0 {
		t.Errorf("missing line range should stay zero, got %d-%d", second.StartLine, second.EndLine)
	}
}

func TestCheckovFindingsNil(t *testing.T) {
	if findings := CheckovFindings(nil); findings != nil {
		t.Errorf("nil report should produce no findings, got %v", findings)
	}
}

func TestTfsecFindings(t *testing.T) {
	report := &models.TfsecReport{
		Results: []models.TfsecResult{
			{
				RuleID:      "google-storage-bucket-encryption",
				Description: "Bucket is not encrypted",
				Severity:    "high",
				Location: models.TfsecLocation{
					Filename:  "/repo/storage.tf",
					StartLine: 4,
					EndLine:   9,
				},
			},
			{
				RuleID:   "aws-misc-rule",
				Severity: "WHATEVER",
			},
		},
	}

	findings := TfsecFindings(report)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Severity != models.SeverityHigh {
		t.Errorf("expected HIGH, got %s", findings[0].Severity)
	}
	if findings[0].FilePath != "repo/storage.tf" {
		t.Errorf("expected stripped path, got %q", findings[0].FilePath)
	}
	if findings[1].Severity != models.SeverityUnknown {
		t.Errorf("expected UNKNOWN for unmapped severity, got %s", findings[1].Severity)
	}
	if findings[1].CheckName != "Unknown" {
		t.Errorf("missing description should default to Unknown, got %q", findings[1].CheckName)
	}
}
