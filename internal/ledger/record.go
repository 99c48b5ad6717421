package ledger

import (
	"fmt"
	"time"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
)

// Record is one immutable, hash-sealed entry in the ledger describing a
// single order event. Hash is assigned exactly once, at construction, as
// the digest of every other field; it is never set independently.
//
// The ledger hands out copies, so mutating a Record obtained from All or
// RecordsFor does not affect the chain. The only sanctioned way to alter
// a stored record is the Tamperer, which exists for tests and demos.
type Record struct {
	// Index is the record's position in the chain, starting at 0 for
	// genesis and increasing by exactly 1 per append.
	Index int64

	// Timestamp is the event time assigned at creation from the ledger's
	// clock. It may precede the previous record's timestamp.
	Timestamp time.Time

	// OrderID is the correlation key grouping related events.
	// GenesisOrderID is reserved for the chain's first record.
	OrderID string

	// Location names where the event occurred (office, warehouse, carrier).
	Location string

	// Action names what happened (received, picked, packed, dispatched...).
	Action string

	// Attributes holds optional event details (employee, tracking number).
	// A nil map is equivalent to an empty one.
	Attributes attr.Map

	// PrevHash is the hash of the immediately preceding record, or
	// GenesisPrevHash for the first record.
	PrevHash string

	// Hash is the record's own digest. See Digest.
	Hash string
}

// clone returns an independent copy, detaching the attribute map.
func (r Record) clone() Record {
	r.Attributes = r.Attributes.Clone()
	return r
}

// String renders a short one-line form for logs and diagnostics.
func (r Record) String() string {
	return fmt.Sprintf("Record %d: %s - %s (hash %s)", r.Index, r.Location, r.Action, shortHash(r.Hash))
}

func shortHash(h string) string {
	if len(h) <= 8 {
		return h
	}
	return h[:8] + "..."
}
