package models

// TfsecReport is tfsec's `--format json` output.
type TfsecReport struct {
	Results []TfsecResult `json:"results"`
}

// TfsecResult is one raw tfsec finding. Unlike checkov, tfsec supplies
// its own severity string, which the normalizer upper-cases and maps.
type TfsecResult struct {
	RuleID      string        `json:"rule_id"`
	Description string        `json:"description"`
	Severity    string        `json:"severity"`
	Location    TfsecLocation `json:"location"`
}

// TfsecLocation is the source position of a tfsec finding.
type TfsecLocation struct {
	Filename  string `json:"filename"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}
