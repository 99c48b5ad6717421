package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
)

// DomainRecord is the domain prefix for record digests.
// Version suffix enables future algorithm migration.
const DomainRecord = "chainlink/record/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest computes the content digest of a record from its stored fields,
// ignoring the Hash field itself. It is a pure function: the same fields
// always yield the same digest, which is the basis of tamper detection -
// a stored Hash that no longer matches Digest means the record was
// altered after it was sealed.
//
// Returns an error only if the attributes cannot be canonically
// serialized.
func Digest(r Record) (string, error) {
	payload, err := canonicalPayload(r)
	if err != nil {
		return "", fmt.Errorf("record %d: %w", r.Index, err)
	}
	return hashWithDomain(DomainRecord, payload), nil
}

// canonicalPayload serializes the hashed fields as RFC 8785 canonical
// JSON. The field names are ASCII, so writing them in byte order below
// matches the required UTF-16 key order.
func canonicalPayload(r Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"action":`)
	if err := writeCanonicalString(&buf, r.Action); err != nil {
		return nil, err
	}

	buf.WriteString(`,"attributes":`)
	attrs, err := r.Attributes.MarshalCanonical()
	if err != nil {
		return nil, err
	}
	buf.Write(attrs)

	buf.WriteString(`,"index":`)
	buf.WriteString(strconv.FormatInt(r.Index, 10))

	buf.WriteString(`,"location":`)
	if err := writeCanonicalString(&buf, r.Location); err != nil {
		return nil, err
	}

	buf.WriteString(`,"order_id":`)
	if err := writeCanonicalString(&buf, r.OrderID); err != nil {
		return nil, err
	}

	buf.WriteString(`,"previous_hash":`)
	if err := writeCanonicalString(&buf, r.PrevHash); err != nil {
		return nil, err
	}

	buf.WriteString(`,"timestamp":`)
	if err := writeCanonicalString(&buf, canonicalTime(r.Timestamp)); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) error {
	b, err := attr.CanonicalString(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// canonicalTime renders a timestamp in the stable form used for hashing:
// UTC RFC 3339 with nanoseconds. The rendering is location-independent,
// so re-hashing a record never diverges across time zones.
func canonicalTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
