package config

import (
	"time"

	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/profile"
	"github.com/sirupsen/logrus"
)

// MetronomeConfig represents options that configure the global behavior of the program
type MetronomeConfig struct {
	// Project logger
	Logger *logrus.Logger

	// Tempo is the initial tempo in beats per minute.
	Tempo int

	// Volume is the click level in [0,1].
	Volume float64

	// Meter is the initial number of beats per measure. Zero disables the accent.
	Meter int

	// Meters is the list the meter control steps through.
	Meters []int

	// TapTimeout discards tap tempo taps after this much inactivity.
	TapTimeout time.Duration

	// The click sound profiles and the one in use
	SoundProfiles map[string]profile.SoundProfile
	SoundProfile  string

	Flash FlashConfig
	Keys  KeyConfig
}

// FlashConfig configures the visual flash on each beat
type FlashConfig struct {
	Enable   bool
	Strong   string
	Normal   string
	Duration time.Duration
}

// NewMetronomeConfig creates a new MetronomeConfig object with reasonable defaults for real usage
func NewMetronomeConfig() MetronomeConfig {
	return MetronomeConfig{
		Logger:        logger.GetProjectLogger(),
		Tempo:         120,
		Volume:        0.2,
		Meter:         4,
		Meters:        []int{0, 2, 3, 4, 6},
		TapTimeout:    5 * time.Second,
		SoundProfiles: initializeSoundProfiles(),
		SoundProfile:  "classic",
		Flash: FlashConfig{
			Enable:   false,
			Strong:   "#ffffff",
			Normal:   "#808080",
			Duration: 100 * time.Millisecond,
		},
		Keys: defaultKeyConfig(),
	}
}

// ActiveSoundProfile returns the selected sound profile. When it is unknown the "classic" profile is
// returned along with false.
func (c MetronomeConfig) ActiveSoundProfile() (profile.SoundProfile, bool) {
	if p, ok := c.SoundProfiles[c.SoundProfile]; ok {
		return p, true
	}
	return c.SoundProfiles["classic"], false
}
