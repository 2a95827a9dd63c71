package normalize

import (
	"testing"

	"github.com/terragate/terragate/internal/models"
)

func TestClassifyCheckov(t *testing.T) {
	tests := []struct {
		name    string
		checkID string
		want    models.Severity
	}{
		{"gcp_public_access", "CKV_GCP_62", models.SeverityCritical},
		{"gcp_encryption", "CKV_GCP_6", models.SeverityCritical},
		{"gcp_exposure", "CKV_GCP_14", models.SeverityCritical},
		{"gcp_other", "CKV_GCP_29", models.SeverityHigh},
		{"aws_check", "CKV_AWS_20", models.SeverityHigh},
		{"compound_check", "CKV2_AZURE_1", models.SeverityMedium},
		{"azure_check", "CKV_AZURE_3", models.SeverityLow},
		{"empty", "", models.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCheckov(tt.checkID); got != tt.want {
				t.Errorf("ClassifyCheckov(%q) = %s, want %s", tt.checkID, got, tt.want)
			}
		})
	}
}

// Every critical pattern contains a provider prefix by construction, so the
// critical tier must be tested first. These cases pin the precedence: if the
// tier order ever flips, they classify HIGH and fail loudly.
func TestClassifyCheckovCriticalPrecedesProviderPrefix(t *testing.T) {
	for _, id := range []string{"CKV_GCP_62", "CKV_GCP_6", "CKV_GCP_14"} {
		if !containsAny(id, providerPrefixes) {
			t.Fatalf("precondition lost: %q no longer matches a provider prefix", id)
		}
		if got := ClassifyCheckov(id); got != models.SeverityCritical {
			t.Errorf("ClassifyCheckov(%q) = %s, want CRITICAL despite provider prefix overlap", id, got)
		}
	}
}

func TestParseTfsecSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want models.Severity
	}{
		{"CRITICAL", models.SeverityCritical},
		{"high", models.SeverityHigh},
		{" Medium ", models.SeverityMedium},
		{"LOW", models.SeverityLow},
		{"ERROR", models.SeverityUnknown},
		{"", models.SeverityUnknown},
	}

	for _, tt := range tests {
		if got := ParseTfsecSeverity(tt.in); got != tt.want {
			t.Errorf("ParseTfsecSeverity(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestUnknownBucketsAsLow(t *testing.T) {
	if models.SeverityUnknown.Bucket() != models.SeverityLow {
		t.Error("UNKNOWN must count as LOW for threshold purposes")
	}
	if models.SeverityUnknown.Rank() != models.SeverityLow.Rank() {
		t.Error("UNKNOWN must sort with LOW")
	}
}
