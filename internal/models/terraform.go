package models

// ValidateReport is `terraform validate -json` output.
type ValidateReport struct {
	Valid       bool                 `json:"valid"`
	Diagnostics []ValidateDiagnostic `json:"diagnostics"`
}

// ValidateDiagnostic is one validation error or warning.
type ValidateDiagnostic struct {
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
	Detail   string `json:"detail,omitempty"`
}
