package sound

import (
	"math"

	"github.com/faiface/beep"
	"github.com/robmorgan/metronome/profile"
)

// Synthesize renders a voice into a buffer of the given format.
func Synthesize(v profile.Voice, format beep.Format) *beep.Buffer {
	buf := beep.NewBuffer(format)
	buf.Append(voiceStreamer(v, format.SampleRate))
	return buf
}

func voiceStreamer(v profile.Voice, sr beep.SampleRate) beep.Streamer {
	total := sr.N(v.Length)
	rate := float64(sr)
	tau := v.Decay.Seconds()

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for n < len(samples) && pos < total {
			t := float64(pos) / rate
			env := v.Amplitude
			if tau > 0 {
				env *= math.Exp(-t / tau)
			}
			x := math.Sin(2 * math.Pi * v.Frequency * t)
			if v.Overtone > 0 {
				x = 0.7*x + 0.3*math.Sin(2*math.Pi*v.Frequency*v.Overtone*t)
			}
			samples[n][0] = env * x
			samples[n][1] = env * x
			n++
			pos++
		}
		return n, true
	})
}
