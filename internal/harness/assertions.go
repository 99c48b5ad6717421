package harness

import (
	"fmt"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/ledger"
)

// EvaluateAssertions checks every assertion against the execution result
// and returns one failure message per violated assertion. An empty slice
// means all assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if msg := evaluateAssertion(result, &a); msg != "" {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %s", i, a.Type, msg))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a *Assertion) string {
	switch a.Type {
	case AssertChainValid:
		return assertChainValid(result, a)
	case AssertRecordCount:
		return assertRecordCount(result, a)
	case AssertJourneyLength:
		return assertJourneyLength(result, a)
	case AssertJourneyOrder:
		return assertJourneyOrder(result, a)
	case AssertRecordAttr:
		return assertRecordAttr(result, a)
	case AssertTamperDetected:
		return assertTamperDetected(result, a)
	}
	return fmt.Sprintf("unknown assertion type %q", a.Type)
}

func assertChainValid(result *Result, a *Assertion) string {
	want := true
	if a.Valid != nil {
		want = *a.Valid
	}
	if result.FinalValid != want {
		return fmt.Sprintf("expected final verdict %v, got %v", want, result.FinalValid)
	}
	return ""
}

func assertRecordCount(result *Result, a *Assertion) string {
	if got := result.Ledger.Len(); got != a.Count {
		return fmt.Sprintf("expected %d records, got %d", a.Count, got)
	}
	return ""
}

func assertJourneyLength(result *Result, a *Assertion) string {
	if got := len(result.Ledger.RecordsFor(a.OrderID)); got != a.Count {
		return fmt.Sprintf("expected %d records for order %q, got %d", a.Count, a.OrderID, got)
	}
	return ""
}

func assertJourneyOrder(result *Result, a *Assertion) string {
	recs := result.Ledger.RecordsFor(a.OrderID)
	if len(recs) != len(a.Actions) {
		return fmt.Sprintf("expected %d actions for order %q, got %d", len(a.Actions), a.OrderID, len(recs))
	}
	for i, want := range a.Actions {
		if recs[i].Action != want {
			return fmt.Sprintf("order %q action %d: expected %q, got %q", a.OrderID, i, want, recs[i].Action)
		}
	}
	return ""
}

func assertRecordAttr(result *Result, a *Assertion) string {
	all := result.Ledger.All()
	if a.Index < 0 || a.Index >= int64(len(all)) {
		return fmt.Sprintf("record index %d out of range [0, %d)", a.Index, len(all))
	}

	want, err := attr.FromGo(a.Value)
	if err != nil {
		return fmt.Sprintf("expected value: %v", err)
	}

	got, ok := all[a.Index].Attributes[a.Key]
	if !ok {
		return fmt.Sprintf("record %d has no attribute %q", a.Index, a.Key)
	}
	if got != want {
		return fmt.Sprintf("record %d attribute %q: expected %v, got %v", a.Index, a.Key, want, got)
	}
	return ""
}

func assertTamperDetected(result *Result, a *Assertion) string {
	for _, outcome := range result.TamperOutcomes {
		if outcome.Index != a.Index {
			continue
		}
		if !outcome.Detected {
			return fmt.Sprintf("tampering at record %d was not detected", a.Index)
		}
		if a.Kind != "" && outcome.ViolationKind != a.Kind {
			return fmt.Sprintf("record %d: expected violation kind %s, got %s", a.Index, a.Kind, outcome.ViolationKind)
		}
		if outcome.Detected && outcome.ViolationIndex != a.Index && outcome.ViolationKind == string(ledger.ViolationSelfConsistency) {
			return fmt.Sprintf("violation reported at record %d, expected %d", outcome.ViolationIndex, a.Index)
		}
		return ""
	}
	return fmt.Sprintf("no tamper step targeted record %d", a.Index)
}
