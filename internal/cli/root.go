package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/terragate/terragate/internal/config"
	"github.com/terragate/terragate/internal/report"
)

const (
	// Exit codes
	ExitOK           = 0 // Success
	ExitPolicyFail   = 1 // Gate failed or a scanner found blocking issues
	ExitInvalidInput = 2 // Bad arguments, unreadable results, parse error
	ExitRuntimeError = 3 // I/O, permissions, or runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global flags
	configFile string
	verbose    bool
	debug      bool
	noColor    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "terragate",
	Short: "terragate - Terraform security gate for CI",
	Long: `terragate scans Terraform code with multiple security tools
(terraform validate, Checkov, tfsec), normalizes their findings into one
severity taxonomy, and decides whether a change is safe to merge.

Quick start:
  terragate scan --path ./terraform
  terragate gate --results-dir scan-results
  terragate comment --results-dir scan-results --output pr-comment.md

Other commands:
  terragate findings --results-dir scan-results
  terragate doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Flags override config
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}
		if noColor {
			cfg.NoColor = true
		}

		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		os.Exit(HandleError(err))
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ~/.terragate.yaml or ./terragate.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(findingsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildVersion is overridden at build time via SetVersion.
var buildVersion = "dev"

// SetVersion records the version stamped into the binary.
func SetVersion(v string) {
	if v != "" {
		buildVersion = v
	}
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("terragate %s\n", buildVersion)
		fmt.Println("Terraform security gate for CI")
	},
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}

	var gateErr *GateFailedError
	if errors.As(err, &gateErr) {
		return ExitPolicyFail
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return ExitInvalidInput
	}
	return ExitRuntimeError
}

// GateFailedError means the scan produced blocking findings or the gate
// had no results to evaluate. Exit code 1 so CI blocks the merge.
type GateFailedError struct {
	Reasons []string
}

func (e *GateFailedError) Error() string {
	if len(e.Reasons) == 0 {
		return "security gate failed"
	}
	return fmt.Sprintf("security gate failed: %s", e.Reasons[0])
}

// InputError represents bad arguments or unreadable input
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// styler returns the console styler honoring --no-color and TTY detection.
func styler() report.Styler {
	if cfg != nil && cfg.NoColor {
		return report.NewStyler(report.ModePlain)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return report.NewStyler(report.ModePlain)
	}
	return report.NewStyler(report.ModeTerminal)
}

// logVerbose prints a message if verbose mode is enabled
func logVerbose(format string, args ...interface{}) {
	if cfg != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

// logDebug prints a message if debug mode is enabled
func logDebug(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// logError prints an error message
func logError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
