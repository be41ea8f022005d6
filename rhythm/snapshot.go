package rhythm

import "time"

// Snapshot is a point in time copy of the scheduler state.
type Snapshot struct {
	Running bool

	// Tempo is recomputed from the transition, if any, at the snapshot instant.
	Tempo float64

	BeatsPerMeasure int

	// BeatIndex is the beat the next tick will sound.
	BeatIndex int

	NextDeadline time.Time

	Transition      *TransitionSpec
	TransitionStart time.Time
}

// IsDownBeat checks whether the next tick opens a measure.
func (s Snapshot) IsDownBeat() bool {
	return s.BeatIndex == 0
}

// BeatInterval returns the length of a beat at the snapshot tempo.
func (s Snapshot) BeatInterval() time.Duration {
	if s.Tempo <= 0 {
		return 0
	}
	return BeatInterval(s.Tempo)
}
