package config

import (
	"time"

	"github.com/robmorgan/metronome/profile"
)

func initializeSoundProfiles() map[string]profile.SoundProfile {
	out := map[string]profile.SoundProfile{
		"classic": {
			Name: "Classic mechanical click",
			Voices: map[string]profile.Voice{
				profile.SoundStrongBeat: {
					Frequency: 1760,
					Decay:     12 * time.Millisecond,
					Length:    60 * time.Millisecond,
					Amplitude: 1.0,
					Overtone:  2.5,
				},
				profile.SoundNormalBeat: {
					Frequency: 1320,
					Decay:     10 * time.Millisecond,
					Length:    50 * time.Millisecond,
					Amplitude: 1.0,
					Overtone:  2.5,
				},
				profile.SoundTempoAdjust: {
					Frequency: 2400,
					Decay:     4 * time.Millisecond,
					Length:    20 * time.Millisecond,
					Amplitude: 0.6,
				},
				profile.SoundTimeAdjust: {
					Frequency: 900,
					Decay:     6 * time.Millisecond,
					Length:    30 * time.Millisecond,
					Amplitude: 0.7,
				},
			},
		},
		"woodblock": {
			Name: "Woodblock",
			Voices: map[string]profile.Voice{
				profile.SoundStrongBeat: {
					Frequency: 1000,
					Decay:     25 * time.Millisecond,
					Length:    120 * time.Millisecond,
					Amplitude: 1.0,
					Overtone:  1.58,
				},
				profile.SoundNormalBeat: {
					Frequency: 800,
					Decay:     20 * time.Millisecond,
					Length:    100 * time.Millisecond,
					Amplitude: 1.0,
					Overtone:  1.58,
				},
				profile.SoundTempoAdjust: {
					Frequency: 1600,
					Decay:     5 * time.Millisecond,
					Length:    25 * time.Millisecond,
					Amplitude: 0.5,
				},
				profile.SoundTimeAdjust: {
					Frequency: 600,
					Decay:     8 * time.Millisecond,
					Length:    40 * time.Millisecond,
					Amplitude: 0.6,
				},
			},
		},
	}

	return out
}
