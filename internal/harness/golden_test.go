package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestGoldenOnestopDelivery(t *testing.T) {
	scenario := loadTestScenario(t, "onestop_delivery")

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass(), "assertion failures: %v", result.Errors)
	assert.Equal(t, "golden-onestop", result.RunToken)
	assert.True(t, result.FinalValid)
}

func TestGoldenTamperAndRestore(t *testing.T) {
	scenario := loadTestScenario(t, "tamper_and_restore")

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass(), "assertion failures: %v", result.Errors)
	require.Len(t, result.TamperOutcomes, 1)
	assert.True(t, result.TamperOutcomes[0].Detected)
	assert.True(t, result.TamperOutcomes[0].ValidAfterRestore)
}

// The snapshot itself must be stable across runs, independent of golden
// file comparison.
func TestSnapshotDeterministic(t *testing.T) {
	scenario := loadTestScenario(t, "onestop_delivery")

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Snap(scenario.Name, first).Marshal()
	require.NoError(t, err)
	b, err := Snap(scenario.Name, second).Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
