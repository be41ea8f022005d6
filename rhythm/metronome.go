package rhythm

import (
	"math"
	"time"
)

const (
	// MinTempo and MaxTempo bound the tempo range exposed to users.
	MinTempo = 40
	MaxTempo = 208

	DefaultTempo           = 120.0
	DefaultVolume          = 0.2
	DefaultBeatsPerMeasure = 4

	// minTickTempo keeps a running scheduler from dividing its way to an infinite interval.
	minTickTempo = 1e-3

	// maxTickTempo keeps a running beat at least a millisecond long so the deadline always advances.
	maxTickTempo = float64(time.Minute / time.Millisecond)
)

// Config describes a single run of the Scheduler.
type Config struct {
	// Tempo is the constant tempo in beats per minute. It is ignored when a Transition is given.
	Tempo float64

	// Volume is the click level in [0,1], passed through to the tick consumers.
	Volume float64

	// BeatsPerMeasure is the time signature numerator.
	BeatsPerMeasure int

	// Transition, when set, ramps the tempo from StartTempo to EndTempo beginning with the first tick.
	Transition *TransitionSpec
}

// NewConfig creates a constant tempo Config with reasonable defaults for real usage.
func NewConfig(tempo float64) Config {
	return Config{
		Tempo:           tempo,
		Volume:          DefaultVolume,
		BeatsPerMeasure: DefaultBeatsPerMeasure,
	}
}

// Validate checks the Config and returns a ConfigError describing the first problem found.
func (c Config) Validate() error {
	if c.Transition == nil && !(c.Tempo > 0 && !math.IsInf(c.Tempo, 1)) {
		return newConfigError("tempo", "must be a finite number greater than zero, got %v", c.Tempo)
	}
	if c.Volume < 0 || c.Volume > 1 || math.IsNaN(c.Volume) {
		return newConfigError("volume", "must be within [0,1], got %v", c.Volume)
	}
	if c.BeatsPerMeasure <= 0 {
		return newConfigError("beatsPerMeasure", "must be greater than zero, got %d", c.BeatsPerMeasure)
	}
	if c.Transition != nil {
		return c.Transition.Validate()
	}

	return nil
}

// BeatInterval returns how long a beat lasts at the given tempo.
func BeatInterval(tempo float64) time.Duration {
	return beatsToDuration(1, tempo)
}

// beatsToDuration calculates the duration of the given number of beats at tempo
func beatsToDuration(beats int, tempo float64) time.Duration {
	return time.Duration(float64(time.Minute) / tempo * float64(beats))
}
