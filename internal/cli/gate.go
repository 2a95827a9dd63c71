package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/terragate/terragate/internal/gate"
	"github.com/terragate/terragate/internal/models"
	"github.com/terragate/terragate/internal/results"
)

var (
	gateResultsDir  string
	gateMaxCritical int
	gateMaxHigh     int
	gatePolicyPath  string
	gateFormat      string
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate scan results against severity thresholds",
	Long: `Gate reads persisted scan results and decides pass or fail.

Thresholds are strict: a count above its maximum fails. Missing scan
results also fail - absence of evidence is not evidence of safety.

Threshold precedence (lowest to highest):
  1. Defaults (max-critical 0, max-high 5)
  2. Config file / TERRAGATE_* environment
  3. .terragate-policy.yaml (searched upward from the working directory)
  4. --max-critical / --max-high flags`,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().StringVar(&gateResultsDir, "results-dir", "",
		"directory containing scan artifacts (required)")
	_ = gateCmd.MarkFlagRequired("results-dir")
	gateCmd.Flags().IntVar(&gateMaxCritical, "max-critical", 0,
		"maximum allowed critical findings")
	gateCmd.Flags().IntVar(&gateMaxHigh, "max-high", 5,
		"maximum allowed high severity findings")
	gateCmd.Flags().StringVar(&gatePolicyPath, "policy-file", "",
		"policy file path (default: search for .terragate-policy.yaml)")
	gateCmd.Flags().StringVar(&gateFormat, "format", "text",
		"output format: text or json")
}

func runGate(cmd *cobra.Command, args []string) error {
	policy, err := resolvePolicy(cmd)
	if err != nil {
		return &InputError{Message: err.Error()}
	}
	logDebug("policy: max_critical=%d max_high=%d", policy.MaxCritical, policy.MaxHigh)

	run, err := results.LoadRun(gateResultsDir)
	var verdict gate.Verdict
	switch {
	case err == nil:
		verdict = gate.Evaluate(run, policy)
	case errors.Is(err, results.ErrNoResults):
		verdict = gate.EvaluateMissing()
	default:
		return &InputError{Message: err.Error()}
	}

	if err := printVerdict(verdict); err != nil {
		return err
	}

	if !verdict.Passed {
		return &GateFailedError{Reasons: verdict.Reasons}
	}
	return nil
}

// resolvePolicy layers thresholds: config under flags, with an optional
// policy file between them. Only flags the user actually set override
// the policy file.
func resolvePolicy(cmd *cobra.Command) (gate.Policy, error) {
	policy := gate.Policy{MaxCritical: cfg.MaxCritical, MaxHigh: cfg.MaxHigh}

	path := gatePolicyPath
	if path == "" {
		path = gate.FindPolicyFile()
	}
	if path != "" {
		filePolicy, err := gate.LoadPolicyFile(path)
		if err != nil {
			return gate.Policy{}, err
		}
		if filePolicy != nil {
			logVerbose("using policy file %s", path)
			policy = *filePolicy
		} else if gatePolicyPath != "" {
			return gate.Policy{}, fmt.Errorf("policy file %q does not exist", gatePolicyPath)
		}
	}

	if cmd.Flags().Changed("max-critical") {
		policy.MaxCritical = gateMaxCritical
	}
	if cmd.Flags().Changed("max-high") {
		policy.MaxHigh = gateMaxHigh
	}

	if policy.MaxCritical < 0 || policy.MaxHigh < 0 {
		return gate.Policy{}, fmt.Errorf("thresholds cannot be negative")
	}
	return policy, nil
}

func printVerdict(verdict gate.Verdict) error {
	if gateFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(verdict)
	}

	st := styler()

	fmt.Println("Security Gate Evaluation")
	fmt.Println("========================")
	for _, level := range models.Levels {
		line := fmt.Sprintf("  %s: %d", level, verdict.SeverityCounts[level])
		fmt.Println(st.Severity(level, line))
	}
	fmt.Println()

	if verdict.Passed {
		fmt.Println(st.Pass("✓ PASSED - Security gate checks passed"))
		return nil
	}

	fmt.Println(st.Fail("✗ FAILED - Security gate checks failed:"))
	for _, reason := range verdict.Reasons {
		fmt.Printf("  %s %s\n", st.Fail("-"), reason)
	}
	return nil
}
