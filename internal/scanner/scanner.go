package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/terragate/terragate/internal/discovery"
	"github.com/terragate/terragate/internal/models"
	"github.com/terragate/terragate/internal/normalize"
	"github.com/terragate/terragate/internal/report"
	"github.com/terragate/terragate/internal/results"
	"github.com/terragate/terragate/internal/runner"
)

// Options configures a Scanner. Zero-value seams fall back to the real
// process environment; tests inject fakes.
type Options struct {
	ScanPath  string
	OutputDir string
	Timeout   time.Duration
	Exec      runner.ExecFunc
	LookPath  discovery.LookPathFunc
	Out       io.Writer
	Styler    report.Styler
	Now       func() time.Time
}

// Scanner orchestrates the security tools against one Terraform tree.
// It never decides merge-worthiness: it produces the normalized run and
// artifacts that the gate consumes.
type Scanner struct {
	scanPath  string
	outputDir string
	timeout   time.Duration
	runner    *runner.Runner
	lookPath  discovery.LookPathFunc
	out       io.Writer
	styler    report.Styler
	now       func() time.Time
}

// New creates a Scanner, defaulting any seam left unset.
func New(opts Options) *Scanner {
	if opts.Exec == nil {
		opts.Exec = runner.OSExec
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Timeout == 0 {
		opts.Timeout = runner.DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scanner{
		scanPath:  opts.ScanPath,
		outputDir: opts.OutputDir,
		timeout:   opts.Timeout,
		runner:    runner.New(opts.Exec),
		lookPath:  opts.LookPath,
		out:       opts.Out,
		styler:    opts.Styler,
		now:       opts.Now,
	}
}

// Scan runs every tool, normalizes their findings and persists the
// artifacts. An error return means the orchestrator itself could not
// operate; tool failures are recorded in the run instead.
func (s *Scanner) Scan(ctx context.Context) (*models.ScanRun, error) {
	info, err := os.Stat(s.scanPath)
	if err != nil {
		return nil, fmt.Errorf("scan path %q: %w", s.scanPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path %q is not a directory", s.scanPath)
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	run := &models.ScanRun{
		ScanPath:    s.scanPath,
		StartedAt:   s.now(),
		ToolResults: make(map[models.SourceTool]models.ToolResult),
	}

	s.runTerraformValidate(ctx, run)

	// Checkov and tfsec have no dependency on each other.
	s.runSecurityScanners(ctx, run)

	summary := report.Summary(run, report.NewStyler(report.ModePlain), s.now())
	if err := results.Save(results.SummaryPath(s.outputDir), []byte(summary)); err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}

	s.printHeader("Scan Summary")
	fmt.Fprint(s.out, report.Summary(run, s.styler, s.now()))

	return run, nil
}

func (s *Scanner) runTerraformValidate(ctx context.Context, run *models.ScanRun) {
	s.printHeader("Running Terraform Validate")

	status := discovery.Lookup(s.lookPath, models.ToolTerraformValidate)
	if !status.Available {
		run.ToolResults[models.ToolTerraformValidate] = models.ToolResult{
			Error: "terraform not installed",
		}
		s.printStatus("Terraform Validate", "FAIL", "terraform not installed")
		return
	}

	init := s.runner.RunOne(ctx, runner.Invocation{
		Tool:    models.ToolTerraformValidate,
		Binary:  "terraform",
		Args:    []string{"init", "-backend=false"},
		Dir:     s.scanPath,
		Timeout: s.timeout,
	})
	if init.Err != nil {
		run.ToolResults[models.ToolTerraformValidate] = models.ToolResult{
			Ran:   true,
			Error: init.Err.Error(),
		}
		s.printStatus("Terraform Validate", "FAIL", "terraform init failed")
		return
	}

	res := s.runner.RunOne(ctx, runner.Invocation{
		Tool:    models.ToolTerraformValidate,
		Binary:  "terraform",
		Args:    []string{"validate", "-json"},
		Dir:     s.scanPath,
		Timeout: s.timeout,
	})

	// terraform validate exits non-zero on invalid configs but still
	// prints its JSON report, so parse stdout before looking at the
	// exit error.
	var vr models.ValidateReport
	if parseErr := json.Unmarshal(res.Output, &vr); parseErr != nil {
		errMsg := parseErr.Error()
		if res.Err != nil {
			errMsg = res.Err.Error()
		}
		run.ToolResults[models.ToolTerraformValidate] = models.ToolResult{
			Ran:   true,
			Error: errMsg,
		}
		s.printStatus("Terraform Validate", "FAIL", "Command execution failed")
		return
	}

	result := models.ToolResult{Ran: true, Passed: vr.Valid}
	if vr.Valid {
		result.Summary = "Configuration is valid"
		s.printStatus("Terraform Validate", "PASS", result.Summary)
	} else {
		result.Summary = fmt.Sprintf("%d errors found", len(vr.Diagnostics))
		s.printStatus("Terraform Validate", "FAIL", result.Summary)
		for _, diag := range vr.Diagnostics {
			fmt.Fprintf(s.out, "  %s %s\n", s.styler.Fail("✗"), diag.Summary)
			if diag.Detail != "" {
				fmt.Fprintf(s.out, "    %s\n", diag.Detail)
			}
		}
	}
	run.ToolResults[models.ToolTerraformValidate] = result
}

func (s *Scanner) runSecurityScanners(ctx context.Context, run *models.ScanRun) {
	tfsecStatus := discovery.Lookup(s.lookPath, models.ToolTfsec)

	invocations := []runner.Invocation{{
		Tool:   models.ToolCheckov,
		Binary: "checkov",
		Args: []string{
			"-d", s.scanPath,
			"--framework", "terraform",
			"--output", "json",
			"--output", "sarif",
			"--output-file-path", s.outputDir,
			"--soft-fail",
		},
		Timeout: s.timeout,
	}}
	if tfsecStatus.Available {
		invocations = append(invocations, runner.Invocation{
			Tool:    models.ToolTfsec,
			Binary:  "tfsec",
			Args:    []string{s.scanPath, "--format", "json", "--soft-fail"},
			Timeout: s.timeout,
		})
	}

	outcomes := s.runner.Run(ctx, invocations)

	s.printHeader("Running Checkov")
	s.recordCheckov(run, outcomes[0])

	s.printHeader("Running tfsec")
	if !tfsecStatus.Available {
		run.ToolResults[models.ToolTfsec] = models.ToolResult{Skipped: true, Passed: true}
		s.printStatus("tfsec", "SKIP", "tfsec not installed (optional)")
		return
	}
	s.recordTfsec(run, outcomes[1])
}

// recordCheckov reads the report checkov wrote to the output directory.
// Checkov runs with --soft-fail, so a missing report means the tool
// itself broke, not that findings exist.
func (s *Scanner) recordCheckov(run *models.ScanRun, outcome runner.Result) {
	cr, err := results.LoadCheckov(s.outputDir)
	if err != nil {
		errMsg := err.Error()
		if errors.Is(err, results.ErrNoResults) && outcome.Err != nil {
			errMsg = outcome.Err.Error()
		}
		run.ToolResults[models.ToolCheckov] = models.ToolResult{
			Ran:   true,
			Error: errMsg,
		}
		s.printStatus("Checkov", "FAIL", errMsg)
		return
	}

	findings := normalize.CheckovFindings(cr)
	run.Findings = append(run.Findings, findings...)

	result := models.ToolResult{
		Ran:    true,
		Passed: results.ToolCheckPassed(findings),
		Summary: fmt.Sprintf("passed: %d, failed: %d, skipped: %d",
			cr.Summary.Passed, cr.Summary.Failed, cr.Summary.Skipped),
		PassedChecks: cr.Summary.Passed,
		FailedChecks: cr.Summary.Failed,
	}
	run.ToolResults[models.ToolCheckov] = result

	label := "FAIL"
	if result.Passed {
		label = "PASS"
	}
	s.printStatus("Checkov", label,
		fmt.Sprintf("Passed: %d, Failed: %d", cr.Summary.Passed, cr.Summary.Failed))
	s.printSeverityBreakdown(findings)
}

func (s *Scanner) recordTfsec(run *models.ScanRun, outcome runner.Result) {
	if outcome.Err != nil && len(outcome.Output) == 0 {
		run.ToolResults[models.ToolTfsec] = models.ToolResult{
			Ran:   true,
			Error: outcome.Err.Error(),
		}
		s.printStatus("tfsec", "FAIL", outcome.Err.Error())
		return
	}

	var tr models.TfsecReport
	if err := json.Unmarshal(outcome.Output, &tr); err != nil {
		run.ToolResults[models.ToolTfsec] = models.ToolResult{
			Ran:   true,
			Error: fmt.Sprintf("parse tfsec output: %v", err),
		}
		s.printStatus("tfsec", "FAIL", "could not parse output")
		return
	}

	if err := results.Save(results.TfsecPath(s.outputDir), outcome.Output); err != nil {
		s.printStatus("tfsec", "FAIL", err.Error())
		run.ToolResults[models.ToolTfsec] = models.ToolResult{Ran: true, Error: err.Error()}
		return
	}

	findings := normalize.TfsecFindings(&tr)
	run.Findings = append(run.Findings, findings...)
	run.ToolResults[models.ToolTfsec] = models.ToolResult{
		Ran:     true,
		Passed:  results.ToolCheckPassed(findings),
		Summary: fmt.Sprintf("%d issues found", len(findings)),
	}

	label := "FAIL"
	if run.ToolResults[models.ToolTfsec].Passed {
		label = "PASS"
	}
	s.printStatus("tfsec", label, fmt.Sprintf("Found %d issues", len(findings)))
}

func (s *Scanner) printHeader(text string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(s.out, "\n%s\n%s\n%s\n\n",
		s.styler.Header(rule), s.styler.Header(text), s.styler.Header(rule))
}

func (s *Scanner) printStatus(tool, status, details string) {
	var label string
	switch status {
	case "PASS":
		label = s.styler.Pass(status)
	case "FAIL":
		label = s.styler.Fail(status)
	default:
		label = s.styler.Warn(status)
	}
	fmt.Fprintf(s.out, "[%s] %s: %s\n", label, tool, details)
}

func (s *Scanner) printSeverityBreakdown(findings []models.Finding) {
	if len(findings) == 0 {
		return
	}
	counts := make(map[models.Severity]int)
	for _, f := range findings {
		counts[f.Severity.Bucket()]++
	}

	fmt.Fprintf(s.out, "\n  Severity Breakdown:\n")
	for _, level := range models.Levels {
		if counts[level] == 0 {
			continue
		}
		line := fmt.Sprintf("    %s: %d", level, counts[level])
		fmt.Fprintf(s.out, "%s\n", s.styler.Severity(level, line))
	}
}
