// Package ledger implements a tamper-evident, append-only event log for
// order tracking.
//
// Each Record is cryptographically chained to its predecessor: a record
// stores the hash of the previous record and is itself sealed with a
// SHA-256 digest over its own fields. Any retroactive modification of
// historical data breaks either a record's own seal (a self-consistency
// violation) or the chain linkage (a linkage violation), and is reported
// by Validate.
//
// The ledger is single-process, single-writer, and in-memory only. Append
// reads the last record and then adds a new one as two dependent steps, so
// concurrent writers must be serialized externally.
//
// Timestamps come from an injected Clock and monotonicity across the chain
// is deliberately NOT enforced: events may be backdated relative to their
// predecessor, as happens when historical order data is replayed.
package ledger
