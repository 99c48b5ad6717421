package testutil

import (
	"sync"
	"time"
)

// DeterministicClock provides a thread-safe clock that advances by a fixed
// step on every reading.
//
// Unlike the system clock, DeterministicClock can be reset for test reuse.
// This enables the same scenario to run multiple times with identical
// timestamps, which keeps record hashes stable for golden file comparison.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	n    int
}

// NewDeterministicClock creates a clock whose first reading is base and
// whose subsequent readings advance by step each time.
func NewDeterministicClock(base time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{base: base, step: step}
}

// Now returns the next timestamp and advances the clock.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Reset rewinds the clock so the next reading is base again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}

// ScriptedClock replays an explicit sequence of timestamps.
//
// Scenario files may backdate events relative to their predecessors; the
// scripted clock feeds those exact timestamps to the ledger so the chain
// records them as written. Once the script is exhausted, readings continue
// from the last scripted time advancing by step.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type ScriptedClock struct {
	mu     sync.Mutex
	script []time.Time
	step   time.Duration
	last   time.Time
	i      int
}

// NewScriptedClock creates a clock that returns the given timestamps in
// order, then keeps advancing from the last one by step.
func NewScriptedClock(script []time.Time, step time.Duration) *ScriptedClock {
	c := &ScriptedClock{script: script, step: step}
	if len(script) > 0 {
		c.last = script[len(script)-1]
	}
	return c
}

// Now returns the next scripted timestamp, or last + step once the script
// is exhausted.
func (c *ScriptedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.i < len(c.script) {
		t := c.script[c.i]
		c.i++
		return t
	}
	c.last = c.last.Add(c.step)
	return c.last
}
