package gate

import (
	"fmt"

	"github.com/terragate/terragate/internal/models"
)

// Policy is the gate configuration. Zero thresholds are meaningful:
// max_critical 0 means a single critical finding fails the build.
type Policy struct {
	MaxCritical int
	MaxHigh     int
}

// DefaultPolicy matches the CI defaults: no criticals, up to five highs.
func DefaultPolicy() Policy {
	return Policy{MaxCritical: 0, MaxHigh: 5}
}

// Verdict is the gate output. Reasons is empty iff Passed. Constructed
// once per evaluation and never mutated afterwards.
type Verdict struct {
	Passed         bool                    `json:"passed"`
	SeverityCounts map[models.Severity]int `json:"severity_counts"`
	Reasons        []string                `json:"reasons,omitempty"`
}

// Evaluate applies the policy to a scan run. Pure function of its
// inputs: no I/O, no side effects. Comparisons are strictly count > max,
// so a count equal to its threshold passes.
func Evaluate(run *models.ScanRun, p Policy) Verdict {
	if run == nil {
		return EvaluateMissing()
	}

	counts := run.SeverityCounts()
	var reasons []string

	if c := counts[models.SeverityCritical]; c > p.MaxCritical {
		reasons = append(reasons, fmt.Sprintf(
			"Critical issues: %d (max allowed: %d)", c, p.MaxCritical))
	}
	if c := counts[models.SeverityHigh]; c > p.MaxHigh {
		reasons = append(reasons, fmt.Sprintf(
			"High severity issues: %d (max allowed: %d)", c, p.MaxHigh))
	}

	return Verdict{
		Passed:         len(reasons) == 0,
		SeverityCounts: counts,
		Reasons:        reasons,
	}
}

// EvaluateMissing is the fail-closed verdict for a run with no scan data.
// Absence of evidence is not evidence of safety, so "unknown findings"
// fails with a reason distinct from any threshold violation.
func EvaluateMissing() Verdict {
	return Verdict{
		Passed: false,
		SeverityCounts: map[models.Severity]int{
			models.SeverityCritical: 0,
			models.SeverityHigh:     0,
			models.SeverityMedium:   0,
			models.SeverityLow:      0,
		},
		Reasons: []string{"No scan results found - failing by default"},
	}
}

// AggregateToolsPassed reports whether every tool that actually ran
// passed its internal check. Skipped tools are excluded from the
// conjunction and never cause failure by omission.
func AggregateToolsPassed(run *models.ScanRun) bool {
	if run == nil {
		return false
	}
	for _, result := range run.ToolResults {
		if result.Skipped {
			continue
		}
		if !result.Passed {
			return false
		}
	}
	return true
}
