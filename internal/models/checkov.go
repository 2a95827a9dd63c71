package models

// CheckovReport is the JSON document checkov writes with
// `--output json --output-file-path <dir>` (results_json.json).
// Only the fields the pipeline consumes are declared.
type CheckovReport struct {
	Summary CheckovSummary `json:"summary"`
	Results CheckovResults `json:"results"`
}

// CheckovSummary carries checkov's own pass/fail counters.
type CheckovSummary struct {
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	Skipped       int `json:"skipped"`
	ParsingErrors int `json:"parsing_errors"`
}

// CheckovResults holds the raw failed check records.
type CheckovResults struct {
	FailedChecks []CheckovCheck `json:"failed_checks"`
}

// CheckovCheck is one raw failed check. FileLineRange is [start, end];
// checkov omits or truncates it for some frameworks, so consumers must
// tolerate any length.
type CheckovCheck struct {
	CheckID       string `json:"check_id"`
	CheckName     string `json:"check_name"`
	FilePath      string `json:"file_path"`
	Resource      string `json:"resource"`
	FileLineRange []int  `json:"file_line_range"`
	Guideline     string `json:"guideline"`
}
