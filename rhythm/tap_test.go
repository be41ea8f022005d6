package rhythm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tapEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func tapAt(ms ...int) []time.Time {
	out := make([]time.Time, 0, len(ms))
	for _, m := range ms {
		out = append(out, tapEpoch.Add(time.Duration(m)*time.Millisecond))
	}
	return out
}

func TestTapTempoNeedsFiveTaps(t *testing.T) {
	t.Parallel()

	tap := NewTapTempo()
	taps := tapAt(0, 500, 1000, 1500, 2000)
	for _, ts := range taps[:4] {
		_, ok := tap.RecordTap(ts)
		require.False(t, ok)
	}

	tempo, ok := tap.RecordTap(taps[4])
	require.True(t, ok)
	assert.Equal(t, 120, tempo)
}

func TestTapTempoUsesRecentWindow(t *testing.T) {
	t.Parallel()

	tap := NewTapTempo()
	// four slow taps at 1000ms, then the player speeds up to 500ms
	var tempo int
	var ok bool
	for _, ts := range tapAt(0, 1000, 2000, 3000, 3500, 4000, 4500, 5000) {
		tempo, ok = tap.RecordTap(ts)
	}
	require.True(t, ok)
	assert.Equal(t, 120, tempo)
}

func TestTapTempoClampsToRange(t *testing.T) {
	t.Parallel()

	fast := NewTapTempo()
	var tempo int
	for _, ts := range tapAt(0, 100, 200, 300, 400) {
		tempo, _ = fast.RecordTap(ts)
	}
	assert.Equal(t, MaxTempo, tempo)

	slow := NewTapTempo(WithTapTimeout(0))
	for _, ts := range tapAt(0, 3000, 6000, 9000, 12000) {
		tempo, _ = slow.RecordTap(ts)
	}
	assert.Equal(t, MinTempo, tempo)

	same := NewTapTempo()
	for _, ts := range tapAt(0, 0, 0, 0, 0) {
		tempo, _ = same.RecordTap(ts)
	}
	assert.Equal(t, MaxTempo, tempo)
}

func TestTapTempoOutOfOrderTapStartsOver(t *testing.T) {
	t.Parallel()

	tap := NewTapTempo()
	for _, ts := range tapAt(1000, 1500, 2000, 2500) {
		tap.RecordTap(ts)
	}

	// a tap from before the last one can't be part of the same session
	_, ok := tap.RecordTap(tapEpoch)
	assert.False(t, ok)
	assert.Equal(t, 1, tap.Len())

	var tempo int
	for _, ts := range tapAt(400, 800, 1200, 1600) {
		tempo, ok = tap.RecordTap(ts)
	}
	require.True(t, ok)
	assert.Equal(t, 150, tempo)
}

func TestTapTempoCapacity(t *testing.T) {
	t.Parallel()

	tap := NewTapTempo()
	for i := 0; i < 25; i++ {
		tap.RecordTap(tapEpoch.Add(time.Duration(i) * 600 * time.Millisecond))
	}
	assert.Equal(t, DefaultTapCapacity, tap.Len())
}

func TestTapTempoInactivityReset(t *testing.T) {
	t.Parallel()

	tap := NewTapTempo(WithTapTimeout(2 * time.Second))
	for _, ts := range tapAt(0, 500, 1000, 1500) {
		tap.RecordTap(ts)
	}
	require.Equal(t, 4, tap.Len())

	// a new session after a long pause must not be contaminated by the old taps
	_, ok := tap.RecordTap(tapEpoch.Add(10 * time.Second))
	require.False(t, ok)
	assert.Equal(t, 1, tap.Len())

	tap.Reset()
	assert.Equal(t, 0, tap.Len())
}

func TestTapTempoOptions(t *testing.T) {
	t.Parallel()

	tap := NewTapTempo(WithTapWindow(3), WithTempoRange(20, 300))
	var tempo int
	var ok bool
	for _, ts := range tapAt(0, 250, 500) {
		tempo, ok = tap.RecordTap(ts)
	}
	require.True(t, ok)
	assert.Equal(t, 240, tempo)
}
