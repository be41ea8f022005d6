package rhythm

import "time"

// AccentLevel marks whether a beat opens its measure.
type AccentLevel int

const (
	AccentNormal AccentLevel = iota
	AccentStrong
)

func (a AccentLevel) String() string {
	if a == AccentStrong {
		return "strong"
	}
	return "normal"
}

// TickEvent is emitted once per scheduler firing. It is a value and is never mutated after emission.
type TickEvent struct {
	// Sequence counts ticks from 1 within a run.
	Sequence uint64

	Tempo           float64
	Volume          float64
	BeatsPerMeasure int
	Accent          AccentLevel

	// BeatInMeasure is the beat that is sounding, starting at 0.
	BeatInMeasure int

	// ScheduledTime is the deadline this tick was due at and NextDeadline the one it armed.
	ScheduledTime time.Time
	NextDeadline  time.Time

	// Drift is how late the tick fired relative to ScheduledTime.
	Drift time.Duration
}

// TickHandler consumes tick events. Returned errors and panics are logged by the scheduler and
// otherwise ignored.
type TickHandler func(TickEvent) error
