package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/terragate/terragate/internal/gate"
	"github.com/terragate/terragate/internal/runner"
	"github.com/terragate/terragate/internal/scanner"
)

var (
	scanPath      string
	scanOutputDir string
	scanTimeout   time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run all security tools against a Terraform directory",
	Long: `Scan performs a full security pass:

  1. terraform validate - syntax and reference checks
  2. Checkov            - policy checks, JSON + SARIF artifacts
  3. tfsec              - additional checks (skipped when not installed)

Findings are normalized into one severity taxonomy and written to the
output directory, along with a plain-text summary. Exit code 1 means at
least one tool found blocking issues.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanPath, "path", "",
		"path to Terraform code to scan (required)")
	scanCmd.Flags().StringVar(&scanOutputDir, "output-dir", "",
		"directory for scan artifacts (default: scan-results)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0,
		"per-tool execution timeout (default: 5m)")
	_ = scanCmd.MarkFlagRequired("path")
}

func runScan(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(scanPath); err != nil {
		return &InputError{Message: fmt.Sprintf("path %q does not exist", scanPath)}
	}

	outputDir := scanOutputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	timeout := scanTimeout
	if timeout == 0 {
		timeout = cfg.ToolTimeout
	}
	if timeout == 0 {
		timeout = runner.DefaultTimeout
	}

	logVerbose("scanning %s, artifacts in %s", scanPath, outputDir)

	s := scanner.New(scanner.Options{
		ScanPath:  scanPath,
		OutputDir: outputDir,
		Timeout:   timeout,
		Out:       os.Stdout,
		Styler:    styler(),
	})

	run, err := s.Scan(cmd.Context())
	if err != nil {
		return err
	}

	logDebug("scan produced %d findings", len(run.Findings))

	if !gate.AggregateToolsPassed(run) {
		return &GateFailedError{Reasons: []string{"one or more tools reported blocking issues"}}
	}
	return nil
}
