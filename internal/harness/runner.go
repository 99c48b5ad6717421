package harness

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/ledger"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/testutil"
)

// defaultEventGap spaces events that carry no explicit timestamp.
const defaultEventGap = time.Hour

// TokenGenerator produces run tokens used to correlate a scenario
// execution in output and logs.
type TokenGenerator interface {
	Generate() string
}

// UUIDGenerator produces random UUID run tokens. Used by CLI paths where
// determinism doesn't matter; tests use testutil.FixedTokenGenerator.
type UUIDGenerator struct{}

// Generate returns a new random UUID string.
func (UUIDGenerator) Generate() string { return uuid.NewString() }

// TamperOutcome captures what validation reported around one tamper step.
type TamperOutcome struct {
	// Index is the tampered record's chain position.
	Index int64

	// Action is the value written over the original action.
	Action string

	// Detected reports whether Validate failed after the mutation.
	Detected bool

	// ViolationKind and ViolationIndex describe the reported violation
	// when Detected is true.
	ViolationKind  string
	ViolationIndex int64

	// Restored reports whether the original action was put back and the
	// record resealed; ValidAfterRestore is the verdict afterwards.
	Restored          bool
	ValidAfterRestore bool
}

// Result holds the outcome of a scenario execution.
type Result struct {
	// RunToken correlates this execution.
	RunToken string

	// Ledger is the chain the scenario built. Callers use the public
	// query operations for further inspection or rendering.
	Ledger *ledger.Ledger

	// ValidAfterAppend is the integrity verdict after all events were
	// appended, before any tamper steps.
	ValidAfterAppend bool

	// TamperOutcomes records each tamper step's detection result in order.
	TamperOutcomes []TamperOutcome

	// FinalValid is the integrity verdict after all tamper steps
	// (including restores) have run.
	FinalValid bool

	// Errors collects assertion failure messages. Empty means pass.
	Errors []string
}

// Pass reports whether every assertion held.
func (r *Result) Pass() bool { return len(r.Errors) == 0 }

// AddError records an assertion failure.
func (r *Result) AddError(msg string) { r.Errors = append(r.Errors, msg) }

// Run executes a scenario with deterministic defaults: a scripted clock
// built from the scenario's timestamps and a fixed run token. Suitable
// for tests and golden comparison.
func Run(scenario *Scenario) (*Result, error) {
	return RunWith(scenario, testutil.NewFixedTokenGenerator(scenario.RunToken))
}

// RunWith executes a scenario with the given run token generator.
//
// Execution flow:
//  1. Resolve event timestamps (explicit "at" values, or previous + 1h)
//  2. Create a fresh ledger with a scripted clock
//  3. Append every event through the public API
//  4. Apply tamper steps through the test-only mutator, capturing verdicts
//  5. Evaluate assertions against the final chain
func RunWith(scenario *Scenario, gen TokenGenerator) (*Result, error) {
	clock := testutil.NewScriptedClock(resolveTimes(scenario), defaultEventGap)

	l, err := ledger.New(ledger.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}

	result := &Result{
		RunToken: gen.Generate(),
		Ledger:   l,
	}

	for i, ev := range scenario.Events {
		attrs, err := attr.FromGoMap(ev.Attributes)
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		if _, err := l.Append(ev.OrderID, ev.Location, ev.Action, attrs); err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
	}
	result.ValidAfterAppend = l.Valid()

	tamperer := ledger.NewTamperer(l)
	for i, step := range scenario.Tamper {
		outcome, err := applyTamper(l, tamperer, step)
		if err != nil {
			return nil, fmt.Errorf("tamper[%d]: %w", i, err)
		}
		result.TamperOutcomes = append(result.TamperOutcomes, outcome)
	}
	result.FinalValid = l.Valid()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// applyTamper runs one tamper step and captures the validation verdicts
// around it.
func applyTamper(l *ledger.Ledger, t *ledger.Tamperer, step TamperStep) (TamperOutcome, error) {
	previous, err := t.SetAction(step.Index, step.Action)
	if err != nil {
		return TamperOutcome{}, err
	}

	outcome := TamperOutcome{Index: step.Index, Action: step.Action}
	if verr := l.Validate(); verr != nil {
		outcome.Detected = true
		if ie, ok := ledger.AsIntegrityError(verr); ok {
			outcome.ViolationKind = string(ie.Kind)
			outcome.ViolationIndex = ie.Index
		}
	}

	if step.Restore {
		if _, err := t.SetAction(step.Index, previous); err != nil {
			return TamperOutcome{}, err
		}
		if err := t.Reseal(step.Index); err != nil {
			return TamperOutcome{}, err
		}
		outcome.Restored = true
		outcome.ValidAfterRestore = l.Valid()
	}

	return outcome, nil
}

// resolveTimes produces the full timestamp script for a scenario: the
// genesis time followed by one time per event. Events keep their explicit
// "at" value even when it precedes the previous event - backdating is
// part of the contract.
func resolveTimes(scenario *Scenario) []time.Time {
	times := make([]time.Time, 0, len(scenario.Events)+1)
	times = append(times, scenario.BaseTime)

	last := scenario.BaseTime
	for _, ev := range scenario.Events {
		t := ev.At
		if t.IsZero() {
			t = last.Add(defaultEventGap)
		}
		times = append(times, t)
		last = t
	}
	return times
}
