package discovery

import (
	"errors"
	"testing"

	"github.com/terragate/terragate/internal/models"
)

func fakeLookPath(installed ...string) LookPathFunc {
	set := map[string]bool{}
	for _, b := range installed {
		set[b] = true
	}
	return func(file string) (string, error) {
		if set[file] {
			return "/usr/local/bin/" + file, nil
		}
		return "", errors.New("not found")
	}
}

func TestProbeAllInstalled(t *testing.T) {
	statuses := Probe(fakeLookPath("terraform", "checkov", "tfsec"))
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	for _, s := range statuses {
		if !s.Available {
			t.Errorf("%s should be available", s.Binary)
		}
		if s.BinaryPath == "" {
			t.Errorf("%s should have a resolved path", s.Binary)
		}
	}
}

func TestProbeTfsecMissing(t *testing.T) {
	status := Lookup(fakeLookPath("terraform", "checkov"), models.ToolTfsec)
	if status.Available {
		t.Error("tfsec should be unavailable")
	}
	if !status.Optional {
		t.Error("tfsec must be registered optional")
	}
}

func TestRequiredToolsAreNotOptional(t *testing.T) {
	for _, tool := range []models.SourceTool{models.ToolTerraformValidate, models.ToolCheckov} {
		status := Lookup(fakeLookPath(), tool)
		if status.Optional {
			t.Errorf("%s must not be optional", tool)
		}
	}
}
