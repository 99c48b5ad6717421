package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/harness"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/journey"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/testutil"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// TokenGenerator allows overriding the run token generator (for
	// testing). If nil, scenarios without a fixed run_token get a UUID.
	TokenGenerator harness.TokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario file against a fresh ledger",
		Long: `Execute a YAML scenario against a fresh in-memory ledger.

The scenario's events are appended through the public API, tamper steps
are applied through the test-only mutator, and assertions are evaluated
against the resulting chain. Journeys for every order in the scenario are
printed, followed by the assertion results.

Example:
  chainlink run scenarios/onestop.yaml
  chainlink run scenarios/tamper.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	w := cmd.OutOrStdout()

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	slog.Debug("scenario loaded", "name", scenario.Name, "events", len(scenario.Events))

	gen := opts.TokenGenerator
	if gen == nil {
		if scenario.RunToken != "" {
			gen = testutil.NewFixedTokenGenerator(scenario.RunToken)
		} else {
			gen = harness.UUIDGenerator{}
		}
	}

	result, err := harness.RunWith(scenario, gen)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: w, Verbose: opts.Verbose}
		snap := harness.Snap(scenario.Name, result)
		if !result.Pass() {
			if err := formatter.Error("E100", "assertions failed", result.Errors); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "scenario assertions failed")
		}
		if err := formatter.Success(snap); err != nil {
			return err
		}
		return nil
	}

	fmt.Fprintf(w, "Scenario: %s\n", scenario.Name)
	fmt.Fprintf(w, "%s\n", scenario.Description)

	recs := result.Ledger.All()
	for _, orderID := range journey.Summarize(recs, result.FinalValid).Orders {
		journey.Render(w, orderID, result.Ledger.RecordsFor(orderID))
	}

	for _, outcome := range result.TamperOutcomes {
		if outcome.Detected {
			fmt.Fprintf(w, "Tampering at record %d detected (%s)\n", outcome.Index, outcome.ViolationKind)
		} else {
			fmt.Fprintf(w, "Tampering at record %d went UNDETECTED\n", outcome.Index)
		}
		if outcome.Restored {
			fmt.Fprintf(w, "Record %d restored, chain valid: %v\n", outcome.Index, outcome.ValidAfterRestore)
		}
	}

	if !result.Pass() {
		fmt.Fprintf(w, "\nFAIL: %d assertion(s) failed\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
		return NewExitError(ExitFailure, "scenario assertions failed")
	}

	fmt.Fprintf(w, "\nPASS: all assertions held (%d records, final verdict valid=%v)\n",
		result.Ledger.Len(), result.FinalValid)
	return nil
}
