package effect

import (
	"time"

	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/utils"
)

// MaxSwingAngle is the pendulum amplitude in degrees.
const MaxSwingAngle = 30.0

// SwingAngle returns the pendulum angle after elapsed time at the given tempo. The pendulum crosses
// from one side to the other once per beat, starting at -MaxSwingAngle.
func SwingAngle(elapsed time.Duration, tempo float64) float64 {
	if tempo <= 0 {
		return 0
	}
	period := 2 * rhythm.BeatInterval(tempo)
	if elapsed < 0 {
		elapsed = 0
	}

	progress := float64(elapsed%period) / float64(period)
	var angle float64
	if progress <= 0.5 {
		angle = -MaxSwingAngle + progress/0.5*(2*MaxSwingAngle)
	} else {
		angle = MaxSwingAngle - (progress-0.5)/0.5*(2*MaxSwingAngle)
	}
	return utils.Clamp(angle, -MaxSwingAngle, MaxSwingAngle)
}

// Light is a single beat indicator.
type Light struct {
	Stressed bool
	Lit      bool
}

// BeatLights returns one indicator per beat of the measure with the sounding beat lit. The first
// beat is stressed. A meter of zero has no lights.
func BeatLights(beatsPerMeasure, sounding int) []Light {
	if beatsPerMeasure <= 0 {
		return nil
	}
	out := make([]Light, beatsPerMeasure)
	for i := range out {
		out[i] = Light{Stressed: i == 0, Lit: i == sounding}
	}
	return out
}
