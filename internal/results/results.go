package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/terragate/terragate/internal/gate"
	"github.com/terragate/terragate/internal/models"
	"github.com/terragate/terragate/internal/normalize"
)

// Canonical artifact names inside a results directory.
const (
	CheckovFile = "results_json.json"
	TfsecFile   = "tfsec-results.json"
	SummaryFile = "summary.txt"
)

// CheckovPath returns the checkov artifact path inside dir.
func CheckovPath(dir string) string { return filepath.Join(dir, CheckovFile) }

// TfsecPath returns the tfsec artifact path inside dir.
func TfsecPath(dir string) string { return filepath.Join(dir, TfsecFile) }

// SummaryPath returns the summary artifact path inside dir.
func SummaryPath(dir string) string { return filepath.Join(dir, SummaryFile) }

// ErrNoResults marks a results directory with no scan data at all.
// Callers must treat it as fail-closed, never as zero findings.
var ErrNoResults = errors.New("no scan results found")

// Save writes an artifact, creating parent directories as needed.
func Save(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadCheckov reads the raw checkov report from a results directory.
// A missing file returns ErrNoResults.
func LoadCheckov(dir string) (*models.CheckovReport, error) {
	data, err := os.ReadFile(filepath.Join(dir, CheckovFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoResults
		}
		return nil, err
	}

	var report models.CheckovReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse %s: %w", CheckovFile, err)
	}
	return &report, nil
}

// LoadTfsec reads the raw tfsec report if the scan produced one.
// (nil, nil) means tfsec was skipped.
func LoadTfsec(dir string) (*models.TfsecReport, error) {
	data, err := os.ReadFile(filepath.Join(dir, TfsecFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var report models.TfsecReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse %s: %w", TfsecFile, err)
	}
	return &report, nil
}

// LoadRun reassembles a normalized ScanRun from persisted artifacts.
// The checkov report is the primary evidence: without it the whole run
// counts as missing (ErrNoResults).
func LoadRun(dir string) (*models.ScanRun, error) {
	checkov, err := LoadCheckov(dir)
	if err != nil {
		return nil, err
	}

	run := &models.ScanRun{
		StartedAt:   time.Now(),
		ToolResults: make(map[models.SourceTool]models.ToolResult),
	}

	checkovFindings := normalize.CheckovFindings(checkov)
	run.Findings = append(run.Findings, checkovFindings...)
	run.ToolResults[models.ToolCheckov] = models.ToolResult{
		Ran:    true,
		Passed: ToolCheckPassed(checkovFindings),
		Summary: fmt.Sprintf("passed: %d, failed: %d, skipped: %d",
			checkov.Summary.Passed, checkov.Summary.Failed, checkov.Summary.Skipped),
		PassedChecks: checkov.Summary.Passed,
		FailedChecks: checkov.Summary.Failed,
	}

	tfsec, err := LoadTfsec(dir)
	if err != nil {
		return nil, err
	}
	if tfsec != nil {
		tfsecFindings := normalize.TfsecFindings(tfsec)
		run.Findings = append(run.Findings, tfsecFindings...)
		run.ToolResults[models.ToolTfsec] = models.ToolResult{
			Ran:     true,
			Passed:  ToolCheckPassed(tfsecFindings),
			Summary: fmt.Sprintf("%d issues found", len(tfsecFindings)),
		}
	} else {
		run.ToolResults[models.ToolTfsec] = models.ToolResult{Skipped: true, Passed: true}
	}

	return run, nil
}

// ToolCheckPassed is the scanner-internal soft threshold applied to one
// tool's findings before the final gate runs: no criticals and at most
// five highs. Reuses the gate evaluation so the two cannot drift.
func ToolCheckPassed(findings []models.Finding) bool {
	run := &models.ScanRun{Findings: findings}
	return gate.Evaluate(run, gate.DefaultPolicy()).Passed
}
