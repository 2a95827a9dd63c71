package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/terragate/terragate/internal/gate"
	"github.com/terragate/terragate/internal/report"
	"github.com/terragate/terragate/internal/results"
)

var (
	commentResultsDir string
	commentOutput     string
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Render scan results as a pull-request comment",
	Long: `Comment renders persisted scan results as GitHub-flavored Markdown,
ready to post on a pull request. It is presentation only: counts and the
pass/fail decision come from the scan and gate, never from the renderer.

When results cannot be loaded a short warning comment is produced
instead, so the PR still shows that scanning did not complete.`,
	RunE: runComment,
}

func init() {
	commentCmd.Flags().StringVar(&commentResultsDir, "results-dir", "",
		"directory containing scan artifacts (required)")
	commentCmd.Flags().StringVarP(&commentOutput, "output", "o", "",
		"file to write the Markdown comment to (required)")
	_ = commentCmd.MarkFlagRequired("results-dir")
	_ = commentCmd.MarkFlagRequired("output")
}

func runComment(cmd *cobra.Command, args []string) error {
	// A results directory that never existed blocks the merge outright;
	// only a present directory with unreadable contents downgrades to
	// the warning comment.
	if _, err := os.Stat(commentResultsDir); err != nil {
		return &GateFailedError{Reasons: []string{
			fmt.Sprintf("results directory %q does not exist", commentResultsDir),
		}}
	}

	run, err := results.LoadRun(commentResultsDir)
	if err != nil {
		if !errors.Is(err, results.ErrNoResults) {
			return &InputError{Message: err.Error()}
		}
		logError("no scan results in %s", commentResultsDir)
		if err := results.Save(commentOutput, []byte("⚠️ Could not load security scan results\n")); err != nil {
			return err
		}
		fmt.Printf("Warning comment written to %s\n", commentOutput)
		return nil
	}

	verdict := gate.Evaluate(run, gate.DefaultPolicy())
	body := report.Markdown(run, verdict, time.Now())

	if err := results.Save(commentOutput, body); err != nil {
		return err
	}

	logVerbose("rendered %d findings", len(run.Findings))
	fmt.Printf("PR comment written to %s\n", commentOutput)
	return nil
}
