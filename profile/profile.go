package profile

import "time"

// Sound identities understood by the sound player.
const (
	SoundStrongBeat  = "strongBeat"
	SoundNormalBeat  = "normalBeat"
	SoundTempoAdjust = "tempoAdjust"
	SoundTimeAdjust  = "timeAdjust"
)

// Voice describes a synthesized percussive click: a sine burst at Frequency with an exponential decay.
type Voice struct {
	Frequency float64

	// Decay is the time constant of the amplitude envelope.
	Decay time.Duration

	// Length is the total length of the rendered click.
	Length time.Duration

	// Amplitude is the peak level in [0,1].
	Amplitude float64

	// Overtone adds a second partial at this multiple of Frequency. Zero disables it.
	Overtone float64
}

// SoundProfile holds the voices for each sound identity.
type SoundProfile struct {
	Name   string
	Voices map[string]Voice
}
