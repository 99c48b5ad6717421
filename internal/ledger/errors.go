package ledger

import (
	"errors"
	"fmt"
)

// ViolationKind categorizes integrity violations found by Validate.
type ViolationKind string

const (
	// ViolationSelfConsistency indicates a record's stored hash no longer
	// matches recomputation from its own fields: the record itself was
	// altered after it was sealed.
	ViolationSelfConsistency ViolationKind = "SELF_CONSISTENCY"

	// ViolationLinkage indicates a record's previous-hash no longer
	// matches the actual predecessor's hash: a record was deleted,
	// reordered, or substituted.
	ViolationLinkage ViolationKind = "LINKAGE"
)

// IntegrityError reports the first integrity violation found in a chain.
// It is a diagnostic, not a correction: the caller decides how to react.
type IntegrityError struct {
	// Index is the position of the failing record.
	Index int64

	// Kind identifies the violation category.
	Kind ViolationKind

	// Want is the expected hash (recomputed digest, or predecessor hash).
	Want string

	// Got is the hash actually stored on the record.
	Got string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	switch e.Kind {
	case ViolationSelfConsistency:
		return fmt.Sprintf("%s: record %d hash mismatch: stored %s, recomputed %s", e.Kind, e.Index, shortHash(e.Got), shortHash(e.Want))
	case ViolationLinkage:
		return fmt.Sprintf("%s: record %d chain broken: previous hash %s, predecessor hash %s", e.Kind, e.Index, shortHash(e.Got), shortHash(e.Want))
	}
	return fmt.Sprintf("%s: record %d", e.Kind, e.Index)
}

// AsIntegrityError extracts an IntegrityError from err, unwrapping as
// needed. Returns nil, false if err is not an integrity violation.
func AsIntegrityError(err error) (*IntegrityError, bool) {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// IsSelfConsistencyError returns true if the error reports a record whose
// own fields were altered after sealing.
func IsSelfConsistencyError(err error) bool {
	ie, ok := AsIntegrityError(err)
	return ok && ie.Kind == ViolationSelfConsistency
}

// IsLinkageError returns true if the error reports broken chain linkage.
func IsLinkageError(err error) bool {
	ie, ok := AsIntegrityError(err)
	return ok && ie.Kind == ViolationLinkage
}
