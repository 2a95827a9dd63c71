package models

import "time"

// SourceTool identifies which scanner produced a finding.
type SourceTool string

const (
	ToolCheckov           SourceTool = "checkov"
	ToolTfsec             SourceTool = "tfsec"
	ToolTerraformValidate SourceTool = "terraform_validate"
)

// AllTools lists every scanner in the order they are invoked.
var AllTools = []SourceTool{ToolTerraformValidate, ToolCheckov, ToolTfsec}

// Severity is the canonical risk tier assigned to a finding.
// The source tools never supply it verbatim - it is always computed
// by the normalizer.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"

	// SeverityUnknown marks tfsec severities we could not map. The gate
	// counts it as LOW; reports keep the distinct label.
	SeverityUnknown Severity = "UNKNOWN"
)

// Levels lists the countable severities from highest to lowest.
var Levels = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank orders severities for sorting (highest first). UNKNOWN ranks with LOW.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Bucket returns the severity used for threshold counting.
// UNKNOWN folds into LOW so unmapped findings can never sneak
// past the gate uncounted.
func (s Severity) Bucket() Severity {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return s
	default:
		return SeverityLow
	}
}

// Finding is one normalized security observation.
type Finding struct {
	CheckID    string     `json:"check_id"`
	CheckName  string     `json:"check_name"`
	Resource   string     `json:"resource,omitempty"`
	FilePath   string     `json:"file_path"`
	StartLine  int        `json:"start_line,omitempty"`
	EndLine    int        `json:"end_line,omitempty"`
	Severity   Severity   `json:"severity"`
	SourceTool SourceTool `json:"source_tool"`
	Guideline  string     `json:"guideline,omitempty"`
}

// ToolResult records how a single scanner invocation went. Skipped means
// the tool was not installed; a tool that ran but errored out has
// Ran=true, Passed=false.
type ToolResult struct {
	Ran     bool   `json:"ran"`
	Skipped bool   `json:"skipped"`
	Passed  bool   `json:"passed"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`

	// Raw counters from the tool's own summary, where it provides one.
	PassedChecks int `json:"passed_checks,omitempty"`
	FailedChecks int `json:"failed_checks,omitempty"`
}

// ScanRun aggregates one orchestrator invocation. Findings keep the
// discovery order from the source tool output.
type ScanRun struct {
	ScanPath    string                    `json:"scan_path"`
	StartedAt   time.Time                 `json:"started_at"`
	Findings    []Finding                 `json:"findings"`
	ToolResults map[SourceTool]ToolResult `json:"tool_results"`
}

// SeverityCounts tallies findings per counting bucket.
func (r *ScanRun) SeverityCounts() map[Severity]int {
	counts := map[Severity]int{
		SeverityCritical: 0,
		SeverityHigh:     0,
		SeverityMedium:   0,
		SeverityLow:      0,
	}
	for _, f := range r.Findings {
		counts[f.Severity.Bucket()]++
	}
	return counts
}

// FindingsBySeverity groups findings by reporting severity, preserving
// discovery order within each group. UNKNOWN groups with LOW.
func (r *ScanRun) FindingsBySeverity() map[Severity][]Finding {
	groups := make(map[Severity][]Finding)
	for _, f := range r.Findings {
		b := f.Severity.Bucket()
		groups[b] = append(groups[b], f)
	}
	return groups
}

// ToolFindings returns the findings produced by one tool, in discovery order.
func (r *ScanRun) ToolFindings(tool SourceTool) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.SourceTool == tool {
			out = append(out, f)
		}
	}
	return out
}
