package rhythm

import (
	"math"
	"time"

	"github.com/robmorgan/metronome/utils"
)

const (
	DefaultTapWindow   = 5
	DefaultTapCapacity = 10
	DefaultTapTimeout  = 5 * time.Second
)

// TapTempo estimates a tempo from the spacing of user taps. Only the most recent window of taps is
// averaged so the estimate follows a drifting tap rate.
//
// TapTempo is not safe for concurrent use.
type TapTempo struct {
	window   int
	capacity int
	timeout  time.Duration
	minTempo int
	maxTempo int

	taps []time.Time
}

// TapOption configures a TapTempo.
type TapOption func(*TapTempo)

// WithTapWindow sets how many taps (not intervals) are averaged.
func WithTapWindow(n int) TapOption {
	return func(t *TapTempo) {
		if n >= 2 {
			t.window = n
		}
	}
}

// WithTapCapacity bounds the number of taps kept.
func WithTapCapacity(n int) TapOption {
	return func(t *TapTempo) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithTapTimeout sets the inactivity gap after which earlier taps are discarded. Zero disables it.
func WithTapTimeout(d time.Duration) TapOption {
	return func(t *TapTempo) {
		t.timeout = d
	}
}

// WithTempoRange sets the range estimates are clamped to.
func WithTempoRange(min, max int) TapOption {
	return func(t *TapTempo) {
		t.minTempo, t.maxTempo = min, max
	}
}

// NewTapTempo creates an empty estimator.
func NewTapTempo(opts ...TapOption) *TapTempo {
	t := &TapTempo{
		window:   DefaultTapWindow,
		capacity: DefaultTapCapacity,
		timeout:  DefaultTapTimeout,
		minTempo: MinTempo,
		maxTempo: MaxTempo,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.capacity < t.window {
		t.capacity = t.window
	}
	t.taps = make([]time.Time, 0, t.capacity)
	return t
}

// RecordTap adds a tap and returns a tempo estimate once a full window of taps is available. A tap
// earlier than the previous one, or one after the inactivity timeout, starts a new session.
func (t *TapTempo) RecordTap(ts time.Time) (tempo int, ok bool) {
	if n := len(t.taps); n > 0 {
		gap := ts.Sub(t.taps[n-1])
		if gap < 0 || (t.timeout > 0 && gap > t.timeout) {
			t.Reset()
		}
	}

	if len(t.taps) == t.capacity {
		copy(t.taps, t.taps[1:])
		t.taps = t.taps[:len(t.taps)-1]
	}
	t.taps = append(t.taps, ts)

	if len(t.taps) < t.window {
		return 0, false
	}

	// the interval deltas telescope, so their mean is the window span over the interval count
	recent := t.taps[len(t.taps)-t.window:]
	span := recent[len(recent)-1].Sub(recent[0])
	avgMs := float64(span) / float64(time.Millisecond) / float64(t.window-1)
	if avgMs == 0 {
		return t.maxTempo, true
	}

	return utils.Clamp(int(math.Round(60000/avgMs)), t.minTempo, t.maxTempo), true
}

// Reset discards all taps.
func (t *TapTempo) Reset() {
	t.taps = t.taps[:0]
}

// Len returns the number of buffered taps.
func (t *TapTempo) Len() int {
	return len(t.taps)
}
