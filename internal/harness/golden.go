package harness

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/ledger"
)

// Snapshot captures the complete outcome of a scenario execution for
// golden file comparison. Field order is fixed and attribute maps are
// key-sorted by the JSON encoder, so serialization is deterministic.
type Snapshot struct {
	Scenario         string           `json:"scenario"`
	RunToken         string           `json:"run_token,omitempty"`
	Records          []RecordSnapshot `json:"records"`
	ValidAfterAppend bool             `json:"valid_after_append"`
	Tampers          []TamperSnapshot `json:"tampers,omitempty"`
	FinalValid       bool             `json:"final_valid"`
}

// RecordSnapshot is the serialized form of one chain record.
type RecordSnapshot struct {
	Index        int64          `json:"index"`
	Timestamp    string         `json:"timestamp"`
	OrderID      string         `json:"order_id"`
	Location     string         `json:"location"`
	Action       string         `json:"action"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	PreviousHash string         `json:"previous_hash"`
	Hash         string         `json:"hash"`
}

// TamperSnapshot is the serialized form of one tamper outcome.
type TamperSnapshot struct {
	Index             int64  `json:"index"`
	Action            string `json:"action"`
	Detected          bool   `json:"detected"`
	ViolationKind     string `json:"violation_kind,omitempty"`
	Restored          bool   `json:"restored"`
	ValidAfterRestore bool   `json:"valid_after_restore"`
}

// Snap builds a snapshot of a scenario execution.
func Snap(scenarioName string, result *Result) *Snapshot {
	snap := &Snapshot{
		Scenario:         scenarioName,
		RunToken:         result.RunToken,
		ValidAfterAppend: result.ValidAfterAppend,
		FinalValid:       result.FinalValid,
	}

	for _, rec := range result.Ledger.All() {
		snap.Records = append(snap.Records, snapRecord(rec))
	}
	for _, outcome := range result.TamperOutcomes {
		snap.Tampers = append(snap.Tampers, TamperSnapshot{
			Index:             outcome.Index,
			Action:            outcome.Action,
			Detected:          outcome.Detected,
			ViolationKind:     outcome.ViolationKind,
			Restored:          outcome.Restored,
			ValidAfterRestore: outcome.ValidAfterRestore,
		})
	}
	return snap
}

func snapRecord(rec ledger.Record) RecordSnapshot {
	var attrs map[string]any
	if len(rec.Attributes) > 0 {
		attrs = make(map[string]any, len(rec.Attributes))
		for k, v := range rec.Attributes {
			attrs[k] = toGoValue(v)
		}
	}
	return RecordSnapshot{
		Index:        rec.Index,
		Timestamp:    rec.Timestamp.UTC().Format(time.RFC3339Nano),
		OrderID:      rec.OrderID,
		Location:     rec.Location,
		Action:       rec.Action,
		Attributes:   attrs,
		PreviousHash: rec.PrevHash,
		Hash:         rec.Hash,
	}
}

func toGoValue(v attr.Value) any {
	switch val := v.(type) {
	case attr.String:
		return string(val)
	case attr.Int:
		return int64(val)
	case attr.Bool:
		return bool(val)
	}
	return v
}

// Marshal serializes the snapshot as indented JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// RunWithGolden executes a scenario and compares the resulting snapshot
// against a golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails; golden mismatch fails the
// test via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := Snap(scenario.Name, result).Marshal()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
