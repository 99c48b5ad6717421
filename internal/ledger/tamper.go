package ledger

import "fmt"

// Tamperer mutates stored records in place WITHOUT resealing them,
// bypassing the hash integrity that Append guarantees. It exists so tests
// and demos can simulate tampering and show Validate catching it.
//
// It is deliberately a separate type with a loud name: production code
// appends through Ledger.Append and never constructs a Tamperer, so the
// normal code path cannot accidentally produce an inconsistent record.
type Tamperer struct {
	l *Ledger
}

// NewTamperer wraps a ledger for direct record mutation.
// Test and demo use only.
func NewTamperer(l *Ledger) *Tamperer {
	return &Tamperer{l: l}
}

// SetAction overwrites the action of the record at index without
// recomputing its hash, leaving the record self-inconsistent. Returns the
// previous action so the caller can restore it.
func (t *Tamperer) SetAction(index int64, action string) (previous string, err error) {
	rec, err := t.record(index)
	if err != nil {
		return "", err
	}
	previous = rec.Action
	rec.Action = action
	return previous, nil
}

// SetLocation overwrites the location of the record at index without
// recomputing its hash.
func (t *Tamperer) SetLocation(index int64, location string) (previous string, err error) {
	rec, err := t.record(index)
	if err != nil {
		return "", err
	}
	previous = rec.Location
	rec.Location = location
	return previous, nil
}

// Reseal recomputes the digest of the record at index from its current
// fields and stores it, returning the record to self-consistency. Used to
// restore a chain after a tamper demonstration.
//
// Note that resealing changes the record's hash if its fields changed, so
// a resealed record mid-chain still trips a linkage violation on its
// successor unless the original fields were restored first.
func (t *Tamperer) Reseal(index int64) error {
	rec, err := t.record(index)
	if err != nil {
		return err
	}
	hash, err := Digest(*rec)
	if err != nil {
		return err
	}
	rec.Hash = hash
	return nil
}

func (t *Tamperer) record(index int64) (*Record, error) {
	if index < 0 || index >= int64(len(t.l.chain)) {
		return nil, fmt.Errorf("record index %d out of range [0, %d)", index, len(t.l.chain))
	}
	return &t.l.chain[index], nil
}
