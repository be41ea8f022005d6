package main

import (
	"testing"
	"time"

	"github.com/robmorgan/metronome/rhythm"
	"github.com/stretchr/testify/assert"
)

func TestDriftStats(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	interval := rhythm.BeatInterval(120)

	stats := &driftStats{}
	for i, drift := range []time.Duration{0, 2 * time.Millisecond, -4 * time.Millisecond, 6 * time.Millisecond} {
		scheduled := start.Add(time.Duration(i) * interval)
		stats.add(rhythm.TickEvent{
			Sequence:      uint64(i + 1),
			ScheduledTime: scheduled,
			NextDeadline:  scheduled.Add(interval),
			Drift:         drift,
		})
	}

	assert.Equal(t, uint64(4), stats.count)
	assert.Equal(t, 3*time.Millisecond, stats.mean())
	assert.Equal(t, 6*time.Millisecond, stats.max)
	assert.Equal(t, stats.expectedEnd(120), stats.last.NextDeadline)
}

func TestDriftStatsEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Duration(0), (&driftStats{}).mean())
}
