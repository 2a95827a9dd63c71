package discovery

import "github.com/terragate/terragate/internal/models"

// LookPathFunc matches the signature of exec.LookPath.
type LookPathFunc func(file string) (string, error)

// ToolInfo describes one scanner binary.
type ToolInfo struct {
	Tool     models.SourceTool
	Binary   string
	Optional bool // absent optional tools are skipped, not failed
}

// Registry is the single source of truth for which binaries the
// orchestrator invokes. Terraform and checkov are required; tfsec is
// optional and its absence marks the tool skipped.
var Registry = []ToolInfo{
	{Tool: models.ToolTerraformValidate, Binary: "terraform"},
	{Tool: models.ToolCheckov, Binary: "checkov"},
	{Tool: models.ToolTfsec, Binary: "tfsec", Optional: true},
}

// ToolStatus is the probe result for one scanner.
type ToolStatus struct {
	ToolInfo
	Available  bool
	BinaryPath string
}

// Probe checks which scanner binaries are installed. Injectable lookPath
// keeps it testable without touching the host PATH.
func Probe(lookPath LookPathFunc) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(Registry))
	for _, info := range Registry {
		s := ToolStatus{ToolInfo: info}
		if path, err := lookPath(info.Binary); err == nil {
			s.Available = true
			s.BinaryPath = path
		}
		statuses = append(statuses, s)
	}
	return statuses
}

// Lookup returns the probe result for a single tool.
func Lookup(lookPath LookPathFunc, tool models.SourceTool) ToolStatus {
	for _, s := range Probe(lookPath) {
		if s.Tool == tool {
			return s
		}
	}
	return ToolStatus{}
}
