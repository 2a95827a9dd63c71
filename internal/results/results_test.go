package results

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/terragate/terragate/internal/models"
)

const checkovFixture = `{
  "summary": {"passed": 12, "failed": 2, "skipped": 0, "parsing_errors": 0},
  "results": {
    "failed_checks": [
      {
        "check_id": "CKV_GCP_62",
        "check_name": "Bucket should log access",
        "file_path": "/main.tf",
        "resource": "google_storage_bucket.data",
        "file_line_range": [1, 13]
      },
      {
        "check_id": "CKV_AWS_20",
        "check_name": "S3 bucket allows public READ",
        "file_path": "/s3.tf",
        "resource": "aws_s3_bucket.logs",
        "file_line_range": [5, 9]
      }
    ]
  }
}`

func writeResults(t *testing.T, dir string, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRun(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, CheckovFile, checkovFixture)
	writeResults(t, dir, TfsecFile, `{
  "results": [
    {
      "rule_id": "google-storage-no-public-access",
      "description": "Bucket is public",
      "severity": "HIGH",
      "location": {"filename": "/main.tf", "start_line": 2, "end_line": 4}
    }
  ]
}`)

	run, err := LoadRun(dir)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}

	if len(run.Findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(run.Findings))
	}
	// Checkov findings come first, in report order.
	if run.Findings[0].CheckID != "CKV_GCP_62" || run.Findings[0].Severity != models.SeverityCritical {
		t.Errorf("unexpected first finding: %+v", run.Findings[0])
	}
	if run.Findings[2].SourceTool != models.ToolTfsec {
		t.Errorf("expected tfsec finding last, got %s", run.Findings[2].SourceTool)
	}

	checkovResult := run.ToolResults[models.ToolCheckov]
	if !checkovResult.Ran {
		t.Error("checkov should be recorded as ran")
	}
	if checkovResult.Passed {
		t.Error("checkov internal check should fail with one critical finding")
	}
}

func TestLoadRunWithoutTfsec(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, CheckovFile, `{"summary": {}, "results": {"failed_checks": []}}`)

	run, err := LoadRun(dir)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}

	tfsecResult, ok := run.ToolResults[models.ToolTfsec]
	if !ok {
		t.Fatal("tfsec must have a tool result even when skipped")
	}
	if !tfsecResult.Skipped {
		t.Error("absent tfsec artifact should mark the tool skipped")
	}
	if !tfsecResult.Passed {
		t.Error("skipped tool counts as trivially passed")
	}
}

func TestLoadRunMissingFailsClosed(t *testing.T) {
	_, err := LoadRun(t.TempDir())
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestLoadCheckovMalformed(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, CheckovFile, "{not json")

	if _, err := LoadCheckov(dir); err == nil || errors.Is(err, ErrNoResults) {
		t.Fatalf("malformed JSON must error distinctly from missing data, got %v", err)
	}
}

func TestLoadCheckovMissingKeysDefaultSafely(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, CheckovFile, `{}`)

	report, err := LoadCheckov(dir)
	if err != nil {
		t.Fatalf("LoadCheckov: %v", err)
	}
	if len(report.Results.FailedChecks) != 0 {
		t.Errorf("absent keys should yield empty results, got %+v", report.Results)
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "summary.txt")
	if err := Save(path, []byte("ok")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "ok" {
		t.Fatalf("expected saved content, got %q, err %v", data, err)
	}
}

func TestToolCheckPassed(t *testing.T) {
	high := func(n int) []models.Finding {
		var out []models.Finding
		for i := 0; i < n; i++ {
			out = append(out, models.Finding{Severity: models.SeverityHigh})
		}
		return out
	}

	if !ToolCheckPassed(high(5)) {
		t.Error("5 highs should pass the internal check")
	}
	if ToolCheckPassed(high(6)) {
		t.Error("6 highs should fail the internal check")
	}
	if ToolCheckPassed([]models.Finding{{Severity: models.SeverityCritical}}) {
		t.Error("any critical should fail the internal check")
	}
}
