package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/attr"
	"github.com/mafegoncalvesz/ChainLink-Order-Tracking-Prototype/internal/testutil"
)

// fixedClock returns the same instant forever.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestLedger builds a ledger whose clock starts at testEpoch and
// advances one minute per reading.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(WithClock(testutil.NewDeterministicClock(testEpoch, time.Minute)))
	require.NoError(t, err)
	return l
}

func TestNewSeedsGenesis(t *testing.T) {
	l := newTestLedger(t)

	require.Equal(t, 1, l.Len())
	genesis := l.Latest()
	assert.Equal(t, int64(0), genesis.Index)
	assert.Equal(t, GenesisOrderID, genesis.OrderID)
	assert.Equal(t, GenesisLocation, genesis.Location)
	assert.Equal(t, GenesisAction, genesis.Action)
	assert.Equal(t, GenesisPrevHash, genesis.PrevHash)

	want, err := Digest(genesis)
	require.NoError(t, err)
	assert.Equal(t, want, genesis.Hash, "genesis hash is the digest of its own fields")
}

func TestAppendLinksToPredecessor(t *testing.T) {
	l := newTestLedger(t)

	first, err := l.Append("A1", "Loc1", "Received", nil)
	require.NoError(t, err)
	second, err := l.Append("A1", "Loc2", "Shipped", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Index)
	assert.Equal(t, int64(2), second.Index)

	genesis := l.All()[0]
	assert.Equal(t, genesis.Hash, first.PrevHash)
	assert.Equal(t, first.Hash, second.PrevHash)

	// Idempotent re-hash: the stored hash equals recomputation.
	for _, rec := range l.All() {
		want, err := Digest(rec)
		require.NoError(t, err)
		assert.Equal(t, want, rec.Hash)
	}
}

func TestAppendTimestampsFromClock(t *testing.T) {
	clock := fixedClock{t: testEpoch}
	l, err := New(WithClock(clock))
	require.NoError(t, err)

	rec, err := l.Append("A1", "Loc1", "Received", nil)
	require.NoError(t, err)
	assert.True(t, rec.Timestamp.Equal(testEpoch))
}

func TestValidateAfterAppends(t *testing.T) {
	l := newTestLedger(t)
	for i := 0; i < 25; i++ {
		_, err := l.Append("A1", "Loc", "Step", attr.Map{"n": attr.Int(int64(i))})
		require.NoError(t, err)
	}

	require.NoError(t, l.Validate())
	assert.True(t, l.Valid())

	// Repeated calls without mutation yield the same result.
	require.NoError(t, l.Validate())
}

func TestBackdatedTimestampsAreAllowed(t *testing.T) {
	// The clock jumps backwards mid-sequence; the ledger must record the
	// earlier timestamp verbatim and stay valid.
	times := []time.Time{
		testEpoch,
		testEpoch.Add(time.Hour),
		testEpoch.Add(-48 * time.Hour),
	}
	i := 0
	l, err := New(WithClock(clockFunc(func() time.Time {
		t := times[i]
		i++
		return t
	})))
	require.NoError(t, err)

	_, err = l.Append("A1", "Loc1", "Received", nil)
	require.NoError(t, err)
	backdated, err := l.Append("A1", "Loc2", "Shipped", nil)
	require.NoError(t, err)

	assert.True(t, backdated.Timestamp.Before(l.All()[1].Timestamp))
	assert.True(t, l.Valid(), "backdating is not an integrity violation")
}

// clockFunc adapts a function to the Clock interface.
type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

func TestRecordsForFiltersAndPreservesOrder(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Append("A1", "Loc1", "Received", nil)
	require.NoError(t, err)
	_, err = l.Append("B2", "Loc1", "Received", nil)
	require.NoError(t, err)
	_, err = l.Append("A1", "Loc2", "Shipped", nil)
	require.NoError(t, err)

	recs := l.RecordsFor("A1")
	require.Len(t, recs, 2)
	assert.Equal(t, "Received", recs[0].Action)
	assert.Equal(t, "Shipped", recs[1].Action)
	assert.Less(t, recs[0].Index, recs[1].Index)

	assert.Empty(t, l.RecordsFor("UNUSED"))
	assert.Len(t, l.RecordsFor(GenesisOrderID), 1)
}

func TestSnapshotsAreCopies(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.Append("A1", "Loc1", "Received", attr.Map{"k": attr.String("v")})
	require.NoError(t, err)

	// Mutating returned records must not affect the chain.
	all := l.All()
	all[1].Action = "FORGED"
	all[1].Attributes["k"] = attr.String("FORGED")

	recs := l.RecordsFor("A1")
	recs[0].Action = "ALSO FORGED"

	assert.True(t, l.Valid(), "chain unaffected by snapshot mutation")
	assert.Equal(t, "Received", l.All()[1].Action)
	assert.Equal(t, attr.String("v"), l.All()[1].Attributes["k"])
}

func TestAppendClonesCallerAttributes(t *testing.T) {
	l := newTestLedger(t)
	attrs := attr.Map{"k": attr.String("v")}
	_, err := l.Append("A1", "Loc1", "Received", attrs)
	require.NoError(t, err)

	attrs["k"] = attr.String("changed after append")
	assert.True(t, l.Valid(), "caller's map is detached from the stored record")
}

// The concrete acceptance scenario: two events for one order, then direct
// mutation of the second one.
func TestOrderLifecycleAndTamperDetection(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Append("A1", "Loc1", "Received", attr.Map{})
	require.NoError(t, err)
	second, err := l.Append("A1", "Loc2", "Shipped", attr.Map{})
	require.NoError(t, err)

	require.NoError(t, l.Validate())
	require.Len(t, l.RecordsFor("A1"), 2)
	assert.Equal(t, "Received", l.RecordsFor("A1")[0].Action)
	assert.Equal(t, "Shipped", l.RecordsFor("A1")[1].Action)
	assert.Equal(t, 3, l.Len(), "genesis plus two events")

	// Alter the second appended record's action without resealing.
	_, err = NewTamperer(l).SetAction(second.Index, "Lost")
	require.NoError(t, err)

	verr := l.Validate()
	require.Error(t, verr)
	ie, ok := AsIntegrityError(verr)
	require.True(t, ok)
	assert.Equal(t, ViolationSelfConsistency, ie.Kind)
	assert.Equal(t, second.Index, ie.Index)
}
