package normalize

import "github.com/terragate/terragate/internal/models"

// CheckovFindings converts checkov failed checks into normalized findings,
// preserving report order. Malformed records never abort the run: missing
// names default to "Unknown" and missing line ranges to zero.
func CheckovFindings(report *models.CheckovReport) []models.Finding {
	if report == nil {
		return nil
	}

	out := make([]models.Finding, 0, len(report.Results.FailedChecks))
	for _, check := range report.Results.FailedChecks {
		f := models.Finding{
			CheckID:    check.CheckID,
			CheckName:  orUnknown(check.CheckName),
			Resource:   orUnknown(check.Resource),
			FilePath:   NormalizePath(check.FilePath),
			Severity:   ClassifyCheckov(check.CheckID),
			SourceTool: models.ToolCheckov,
			Guideline:  check.Guideline,
		}
		if len(check.FileLineRange) == 2 {
			f.StartLine = check.FileLineRange[0]
			f.EndLine = check.FileLineRange[1]
		}
		out = append(out, f)
	}
	return out
}

// TfsecFindings converts tfsec results into normalized findings.
func TfsecFindings(report *models.TfsecReport) []models.Finding {
	if report == nil {
		return nil
	}

	out := make([]models.Finding, 0, len(report.Results))
	for _, r := range report.Results {
		out = append(out, models.Finding{
			CheckID:    r.RuleID,
			CheckName:  orUnknown(r.Description),
			FilePath:   NormalizePath(r.Location.Filename),
			StartLine:  r.Location.StartLine,
			EndLine:    r.Location.EndLine,
			Severity:   ParseTfsecSeverity(r.Severity),
			SourceTool: models.ToolTfsec,
		})
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
