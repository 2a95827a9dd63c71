package tui

import (
	"sort"
	"strings"

	"github.com/terragate/terragate/internal/models"
)

// filterState holds current active filters.
type filterState struct {
	Severity   models.Severity
	SearchText string
}

// sortField enumerates columns that can be sorted.
type sortField int

const (
	sortBySeverity sortField = iota
	sortByTool
	sortByCheck
	sortByFile
)

// sortFieldCount is the total number of sortable columns.
const sortFieldCount = 4

// applyFilters returns findings matching all active filters.
func applyFilters(findings []models.Finding, f filterState) []models.Finding {
	result := make([]models.Finding, 0, len(findings))
	searchLower := strings.ToLower(f.SearchText)

	for _, finding := range findings {
		if f.Severity != "" && finding.Severity.Bucket() != f.Severity {
			continue
		}
		if searchLower != "" && !matchesSearch(finding, searchLower) {
			continue
		}
		result = append(result, finding)
	}
	return result
}

func matchesSearch(f models.Finding, searchLower string) bool {
	return strings.Contains(strings.ToLower(f.CheckID), searchLower) ||
		strings.Contains(strings.ToLower(f.CheckName), searchLower) ||
		strings.Contains(strings.ToLower(string(f.Severity)), searchLower) ||
		strings.Contains(strings.ToLower(string(f.SourceTool)), searchLower) ||
		strings.Contains(strings.ToLower(f.Resource), searchLower) ||
		strings.Contains(strings.ToLower(f.FilePath), searchLower)
}

// sortFindings sorts a slice of findings in place by the given field.
// The sort is stable, so equal keys keep discovery order.
func sortFindings(findings []models.Finding, field sortField) {
	sort.SliceStable(findings, func(i, j int) bool {
		switch field {
		case sortBySeverity:
			return findings[i].Severity.Rank() < findings[j].Severity.Rank()
		case sortByTool:
			return findings[i].SourceTool < findings[j].SourceTool
		case sortByCheck:
			return findings[i].CheckID < findings[j].CheckID
		case sortByFile:
			return findings[i].FilePath < findings[j].FilePath
		default:
			return false
		}
	})
}

// sortFieldName returns a human-readable name for the sort field.
func sortFieldName(f sortField) string {
	switch f {
	case sortBySeverity:
		return "severity"
	case sortByTool:
		return "tool"
	case sortByCheck:
		return "check"
	case sortByFile:
		return "file"
	default:
		return "unknown"
	}
}
