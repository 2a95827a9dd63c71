package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/terragate/terragate/internal/discovery"
	"github.com/terragate/terragate/internal/gate"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment readiness and diagnose common problems",
	Long: `Doctor validates your terragate setup end-to-end:

  1. Config file - found and readable?
  2. Scanner tools - terraform, checkov, tfsec installed?
  3. Policy file - present and parseable?
  4. Output directory - writable?

Fix the issues it reports, then run 'terragate scan' with confidence.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var checks []doctorCheck

	checks = append(checks, checkConfig())
	checks = append(checks, checkTools()...)
	checks = append(checks, checkPolicy())
	checks = append(checks, checkOutputDir())

	fails, warns := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	summary := "all checks passed"
	if fails > 0 {
		summary = fmt.Sprintf("%d issue(s) found", fails)
	} else if warns > 0 {
		summary = fmt.Sprintf("ok with %d warning(s)", warns)
	}

	result := doctorResult{Checks: checks, Summary: summary}

	if doctorFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeDoctorText(result)
}

func writeDoctorText(result doctorResult) error {
	icons := map[string]string{
		"ok":   "✓",
		"warn": "△",
		"fail": "✗",
	}

	for _, c := range result.Checks {
		icon := icons[c.Status]
		if c.Detail != "" {
			fmt.Printf("  %s %-12s %s\n", icon, c.Name, c.Detail)
		} else {
			fmt.Printf("  %s %s\n", icon, c.Name)
		}
	}

	fmt.Printf("\n%s\n", result.Summary)
	return nil
}

func checkConfig() doctorCheck {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return doctorCheck{
				Name:   "config",
				Status: "fail",
				Detail: fmt.Sprintf("%s not readable: %v", configFile, err),
			}
		}
		return doctorCheck{Name: "config", Status: "ok", Detail: configFile}
	}

	for _, candidate := range []string{"terragate.yaml", ".terragate.yaml"} {
		if _, err := os.Stat(candidate); err == nil {
			return doctorCheck{Name: "config", Status: "ok", Detail: candidate}
		}
	}

	return doctorCheck{
		Name:   "config",
		Status: "warn",
		Detail: "no config file found (using defaults)",
	}
}

func checkTools() []doctorCheck {
	var checks []doctorCheck

	for _, status := range discovery.Probe(exec.LookPath) {
		c := doctorCheck{Name: status.Binary}
		switch {
		case status.Available:
			c.Status = "ok"
			c.Detail = status.BinaryPath
		case status.Optional:
			c.Status = "warn"
			c.Detail = "not installed (optional)"
		default:
			c.Status = "fail"
			c.Detail = "not installed (required)"
		}
		checks = append(checks, c)
	}

	return checks
}

func checkPolicy() doctorCheck {
	path := gate.FindPolicyFile()
	if path == "" {
		return doctorCheck{
			Name:   "policy",
			Status: "ok",
			Detail: "no policy file (defaults apply: max-critical 0, max-high 5)",
		}
	}

	if _, err := gate.LoadPolicyFile(path); err != nil {
		return doctorCheck{
			Name:   "policy",
			Status: "fail",
			Detail: fmt.Sprintf("%s: %v", path, err),
		}
	}

	return doctorCheck{Name: "policy", Status: "ok", Detail: path}
}

func checkOutputDir() doctorCheck {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "scan-results"
	}

	info, err := os.Stat(outputDir)
	if err != nil {
		// Directory doesn't exist yet, it will be created on first scan
		return doctorCheck{
			Name:   "output",
			Status: "ok",
			Detail: fmt.Sprintf("%s (will be created on first scan)", outputDir),
		}
	}

	if !info.IsDir() {
		return doctorCheck{
			Name:   "output",
			Status: "fail",
			Detail: fmt.Sprintf("%s exists but is not a directory", outputDir),
		}
	}

	tmpFile := filepath.Join(outputDir, ".doctor-check")
	if err := os.WriteFile(tmpFile, []byte("ok"), 0o600); err != nil {
		return doctorCheck{
			Name:   "output",
			Status: "fail",
			Detail: fmt.Sprintf("%s not writable: %v", outputDir, err),
		}
	}
	_ = os.Remove(tmpFile)

	return doctorCheck{Name: "output", Status: "ok", Detail: outputDir}
}
