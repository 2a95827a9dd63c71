package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/terragate/terragate/internal/results"
	"github.com/terragate/terragate/internal/tui"
)

var findingsResultsDir string

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "Browse scan findings in an interactive terminal UI",
	Long: `Findings opens persisted scan results in an interactive browser:
filter by severity, search across checks and files, and inspect each
finding's details. Requires a terminal.`,
	RunE: runFindings,
}

func init() {
	findingsCmd.Flags().StringVar(&findingsResultsDir, "results-dir", "scan-results",
		"directory containing scan artifacts")
}

func runFindings(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return &InputError{Message: "findings requires an interactive terminal"}
	}

	run, err := results.LoadRun(findingsResultsDir)
	if err != nil {
		if errors.Is(err, results.ErrNoResults) {
			return &InputError{Message: fmt.Sprintf("no scan results in %s - run 'terragate scan' first", findingsResultsDir)}
		}
		return &InputError{Message: err.Error()}
	}

	if len(run.Findings) == 0 {
		fmt.Println("No findings - nothing to browse.")
		return nil
	}

	return tui.Run(run)
}
