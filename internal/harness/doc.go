// Package harness provides a scenario-driven conformance harness for the
// order ledger.
//
// The harness loads a scenario file, replays its events through the public
// ledger API, optionally applies tamper steps through the designated
// test-only mutator, and evaluates assertions against the resulting chain.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	base_time: 2024-03-01T09:00:00Z
//	events:
//	  - order_id: "12345"
//	    location: "Brisbane Office"
//	    action: "Order Received"
//	    at: 2024-02-27T09:00:00Z
//	    attributes: { customer: Ana, product: Laptop }
//	tamper:
//	  - index: 4
//	    action: "PACKAGE LOST"
//	    restore: true
//	assertions:
//	  - type: chain_valid
//	    valid: true
//	  - type: journey_order
//	    order_id: "12345"
//	    actions: ["Order Received", "Items Picked"]
//
// Events without an explicit "at" timestamp default to one hour after the
// previous event. Backdated timestamps are allowed and recorded verbatim;
// the ledger does not enforce timestamp monotonicity.
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - chain_valid: Verifies the final integrity verdict of the chain
//   - record_count: Verifies the total chain length, genesis included
//   - journey_length: Verifies the number of records for an order
//   - journey_order: Verifies an order's actions appear in exact order
//   - record_attr: Verifies an attribute value on a specific record
//   - tamper_detected: Verifies a tamper step tripped validation with the
//     expected violation kind and position
//
// # Deterministic Testing
//
// All scenarios execute with a scripted clock and a fixed run token so the
// same scenario always produces byte-identical snapshots for golden file
// comparison.
package harness
