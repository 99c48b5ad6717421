package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a sequence of order events
// replayed through the public ledger API, optional tamper steps, and
// assertions on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// BaseTime is the genesis timestamp and the anchor for events without
	// an explicit time. Defaults to 2024-01-01T00:00:00Z.
	BaseTime time.Time `yaml:"base_time,omitempty"`

	// Events is the ordered list of order events to append.
	Events []EventStep `yaml:"events"`

	// Tamper contains optional tamper steps applied after all appends.
	Tamper []TamperStep `yaml:"tamper,omitempty"`

	// Assertions validate the final chain and tamper outcomes.
	Assertions []Assertion `yaml:"assertions"`

	// RunToken is an optional fixed run token for deterministic tests.
	// If empty, the runner's token generator decides (tests use a fixed
	// default for golden file comparison).
	RunToken string `yaml:"run_token,omitempty"`
}

// EventStep represents a single order event to append.
type EventStep struct {
	// OrderID is the correlation key for the event.
	OrderID string `yaml:"order_id"`

	// Location names where the event occurred.
	Location string `yaml:"location"`

	// Action names what happened.
	Action string `yaml:"action"`

	// At is an optional explicit timestamp. Earlier-than-predecessor
	// values are allowed (backdating). If zero, the event is stamped one
	// hour after the previous event.
	At time.Time `yaml:"at,omitempty"`

	// Attributes holds optional event details. Scalar values only;
	// floats are rejected at run time.
	Attributes map[string]any `yaml:"attributes,omitempty"`
}

// TamperStep mutates a sealed record in place, bypassing the append path.
type TamperStep struct {
	// Index is the chain position of the record to tamper with.
	Index int64 `yaml:"index"`

	// Action is the replacement action written without resealing.
	Action string `yaml:"action"`

	// Restore puts the original action back and reseals the record after
	// the tampered verdict has been captured.
	Restore bool `yaml:"restore,omitempty"`
}

// Assertion validates the final chain or a tamper outcome.
type Assertion struct {
	// Type specifies the assertion type. See the package documentation.
	Type string `yaml:"type"`

	// Valid is the expected integrity verdict (used by chain_valid).
	Valid *bool `yaml:"valid,omitempty"`

	// Count is the expected number of records (record_count, journey_length).
	Count int `yaml:"count,omitempty"`

	// OrderID selects an order (journey_length, journey_order).
	OrderID string `yaml:"order_id,omitempty"`

	// Actions is the expected action sequence (journey_order).
	Actions []string `yaml:"actions,omitempty"`

	// Index selects a record (record_attr, tamper_detected).
	Index int64 `yaml:"index,omitempty"`

	// Key and Value identify an expected attribute (record_attr).
	Key   string `yaml:"key,omitempty"`
	Value any    `yaml:"value,omitempty"`

	// Kind is the expected violation kind (tamper_detected):
	// "SELF_CONSISTENCY" or "LINKAGE".
	Kind string `yaml:"kind,omitempty"`
}

// Assertion type constants.
const (
	AssertChainValid     = "chain_valid"
	AssertRecordCount    = "record_count"
	AssertJourneyLength  = "journey_length"
	AssertJourneyOrder   = "journey_order"
	AssertRecordAttr     = "record_attr"
	AssertTamperDetected = "tamper_detected"
)

// defaultBaseTime anchors scenarios that do not set base_time.
var defaultBaseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation
// (catches typos like "assertion:" vs "assertions:").
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.BaseTime.IsZero() {
		scenario.BaseTime = defaultBaseTime
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Events) == 0 {
		return fmt.Errorf("events list is required and must be non-empty")
	}

	for i, ev := range s.Events {
		if ev.OrderID == "" {
			return fmt.Errorf("events[%d]: order_id is required", i)
		}
		if ev.Location == "" {
			return fmt.Errorf("events[%d]: location is required", i)
		}
		if ev.Action == "" {
			return fmt.Errorf("events[%d]: action is required", i)
		}
	}

	// Tamper indices must land inside the chain: genesis plus one record
	// per event.
	chainLen := int64(len(s.Events)) + 1
	for i, step := range s.Tamper {
		if step.Index < 0 || step.Index >= chainLen {
			return fmt.Errorf("tamper[%d]: index %d out of range [0, %d)", i, step.Index, chainLen)
		}
		if step.Action == "" {
			return fmt.Errorf("tamper[%d]: action is required", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertChainValid:
		// Valid defaults to true when omitted.
	case AssertRecordCount:
		if a.Count <= 0 {
			return fmt.Errorf("assertions[%d]: count must be positive for record_count", index)
		}
	case AssertJourneyLength:
		if a.OrderID == "" {
			return fmt.Errorf("assertions[%d]: order_id is required for journey_length", index)
		}
	case AssertJourneyOrder:
		if a.OrderID == "" {
			return fmt.Errorf("assertions[%d]: order_id is required for journey_order", index)
		}
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for journey_order", index)
		}
	case AssertRecordAttr:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for record_attr", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for record_attr", index)
		}
	case AssertTamperDetected:
		if a.Kind != "" && a.Kind != "SELF_CONSISTENCY" && a.Kind != "LINKAGE" {
			return fmt.Errorf("assertions[%d]: unknown violation kind %q", index, a.Kind)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
