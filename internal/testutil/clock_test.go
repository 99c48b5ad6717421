package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDeterministicClockAdvances(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Minute)

	assert.True(t, c.Now().Equal(epoch))
	assert.True(t, c.Now().Equal(epoch.Add(time.Minute)))
	assert.True(t, c.Now().Equal(epoch.Add(2*time.Minute)))
}

func TestDeterministicClockReset(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Minute)
	c.Now()
	c.Now()
	c.Reset()
	assert.True(t, c.Now().Equal(epoch), "after Reset the next reading is base again")
}

func TestScriptedClockReplaysScript(t *testing.T) {
	backdated := epoch.Add(-24 * time.Hour)
	c := NewScriptedClock([]time.Time{epoch, epoch.Add(time.Hour), backdated}, time.Minute)

	assert.True(t, c.Now().Equal(epoch))
	assert.True(t, c.Now().Equal(epoch.Add(time.Hour)))
	assert.True(t, c.Now().Equal(backdated), "backdated script entries are replayed verbatim")
}

func TestScriptedClockFallsBackPastScript(t *testing.T) {
	c := NewScriptedClock([]time.Time{epoch}, time.Minute)
	c.Now()

	assert.True(t, c.Now().Equal(epoch.Add(time.Minute)))
	assert.True(t, c.Now().Equal(epoch.Add(2*time.Minute)))
}

func TestFixedTokenGenerator(t *testing.T) {
	g := NewFixedTokenGenerator("test-run-1")
	assert.Equal(t, "test-run-1", g.Generate())
	assert.Equal(t, "test-run-1", g.Generate())
}

func TestFixedTokenGeneratorDefault(t *testing.T) {
	g := NewFixedTokenGenerator("")
	assert.Equal(t, "test-run-default", g.Generate())
}
