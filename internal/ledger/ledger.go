package ledger

import (
	"fmt"
	"time"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
)

// Genesis record constants. The first record anchors the chain with a
// fixed sentinel previous-hash.
const (
	GenesisOrderID  = "GENESIS"
	GenesisLocation = "System"
	GenesisAction   = "Chain Initialized"
	GenesisPrevHash = "0"
)

// Clock supplies event timestamps. The ledger never samples time
// directly; injecting the clock keeps record hashing reproducible in
// tests and lets demo scenarios replay backdated events.
type Clock interface {
	Now() time.Time
}

// systemClock is the default wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Ledger at construction.
type Option func(*Ledger)

// WithClock overrides the wall clock used to timestamp records.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// Ledger is the ordered, append-only collection of Records. It is created
// with a genesis record already in place, so the chain is never empty.
//
// The chain is shared mutable state with no built-in mutual exclusion:
// the design assumes a single writer with single-threaded access. See the
// package documentation.
type Ledger struct {
	clock Clock
	chain []Record
}

// New creates a ledger seeded with its genesis record.
func New(opts ...Option) (*Ledger, error) {
	l := &Ledger{clock: systemClock{}}
	for _, opt := range opts {
		opt(l)
	}

	genesis := Record{
		Index:      0,
		Timestamp:  l.clock.Now(),
		OrderID:    GenesisOrderID,
		Location:   GenesisLocation,
		Action:     GenesisAction,
		Attributes: attr.Map{},
		PrevHash:   GenesisPrevHash,
	}
	hash, err := Digest(genesis)
	if err != nil {
		return nil, fmt.Errorf("failed to seal genesis record: %w", err)
	}
	genesis.Hash = hash
	l.chain = append(l.chain, genesis)

	return l, nil
}

// Append seals a new record for an order event and adds it to the chain.
//
// The record's index is the last index plus one, its timestamp comes from
// the ledger's clock, and its previous-hash is the last record's hash.
// attrs may be nil for events with no extra details.
//
// The only error condition is attributes that cannot be canonically
// serialized; such a record is never constructed.
func (l *Ledger) Append(orderID, location, action string, attrs attr.Map) (Record, error) {
	latest := l.chain[len(l.chain)-1]

	rec := Record{
		Index:      latest.Index + 1,
		Timestamp:  l.clock.Now(),
		OrderID:    orderID,
		Location:   location,
		Action:     action,
		Attributes: attrs.Clone(),
		PrevHash:   latest.Hash,
	}
	hash, err := Digest(rec)
	if err != nil {
		return Record{}, fmt.Errorf("failed to seal record: %w", err)
	}
	rec.Hash = hash

	l.chain = append(l.chain, rec)
	return rec.clone(), nil
}

// Validate walks the chain and reports the first integrity violation as an
// *IntegrityError, or nil if every record checks out.
//
// For each position i from 1 to the end, in order:
//  1. The record's digest is recomputed from its stored fields and
//     compared to its stored hash (self-consistency).
//  2. The record's previous-hash is compared to the predecessor's hash
//     (linkage).
//
// The scan short-circuits at the first failure. The genesis record is
// never checked against a predecessor. Validate has no side effects;
// absent mutation, repeated calls return the same result.
func (l *Ledger) Validate() error {
	for i := 1; i < len(l.chain); i++ {
		current := l.chain[i]
		previous := l.chain[i-1]

		want, err := Digest(current)
		if err != nil {
			return fmt.Errorf("record %d: %w", current.Index, err)
		}
		if current.Hash != want {
			return &IntegrityError{
				Index: current.Index,
				Kind:  ViolationSelfConsistency,
				Want:  want,
				Got:   current.Hash,
			}
		}

		if current.PrevHash != previous.Hash {
			return &IntegrityError{
				Index: current.Index,
				Kind:  ViolationLinkage,
				Want:  previous.Hash,
				Got:   current.PrevHash,
			}
		}
	}
	return nil
}

// Valid reports whether the chain currently passes Validate.
func (l *Ledger) Valid() bool {
	return l.Validate() == nil
}

// RecordsFor returns every record whose order ID equals orderID, in chain
// order. The result is empty for an unused key. Read-only: the returned
// records are copies.
func (l *Ledger) RecordsFor(orderID string) []Record {
	var out []Record
	for _, rec := range l.chain {
		if rec.OrderID == orderID {
			out = append(out, rec.clone())
		}
	}
	return out
}

// All returns a read-only snapshot of the whole chain, genesis included.
func (l *Ledger) All() []Record {
	out := make([]Record, len(l.chain))
	for i, rec := range l.chain {
		out[i] = rec.clone()
	}
	return out
}

// Latest returns the most recently appended record.
func (l *Ledger) Latest() Record {
	return l.chain[len(l.chain)-1].clone()
}

// Len returns the number of records in the chain, genesis included.
func (l *Ledger) Len() int {
	return len(l.chain)
}
