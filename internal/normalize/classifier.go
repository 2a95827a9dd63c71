package normalize

import (
	"strings"

	"github.com/terragate/terragate/internal/models"
)

// Checkov does not report severities, so the tier is derived from the
// check id. Matching is substring containment for compatibility with the
// established rule set; the tiers are evaluated in order and the first
// match wins.
//
// Ordering is load-bearing: every critical pattern also contains a
// provider prefix (e.g. "CKV_GCP_62" contains "CKV_GCP"), so testing the
// provider tier first would misclassify every critical check as HIGH.
var (
	// Public-exposure and missing-encryption checks.
	criticalPatterns = []string{"CKV_GCP_62", "CKV_GCP_6", "CKV_GCP_14"}

	// High-risk cloud provider prefixes.
	providerPrefixes = []string{"CKV_GCP", "CKV_AWS"}

	// Compound checks that correlate multiple resources.
	compoundMarkers = []string{"CKV2"}
)

// ClassifyCheckov maps a checkov check id to a canonical severity.
// Unrecognized ids classify LOW.
func ClassifyCheckov(checkID string) models.Severity {
	if containsAny(checkID, criticalPatterns) {
		return models.SeverityCritical
	}
	if containsAny(checkID, providerPrefixes) {
		return models.SeverityHigh
	}
	if containsAny(checkID, compoundMarkers) {
		return models.SeverityMedium
	}
	return models.SeverityLow
}

// ParseTfsecSeverity maps tfsec's self-reported severity string.
// Unrecognized values map to UNKNOWN rather than guessing a tier.
func ParseTfsecSeverity(s string) models.Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return models.SeverityCritical
	case "HIGH":
		return models.SeverityHigh
	case "MEDIUM":
		return models.SeverityMedium
	case "LOW":
		return models.SeverityLow
	default:
		return models.SeverityUnknown
	}
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
