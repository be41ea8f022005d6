package sound

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/profile"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = beep.SampleRate(44100)

type recordingSink struct {
	mu     sync.Mutex
	played []beep.Streamer
}

func (r *recordingSink) Play(s ...beep.Streamer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, s...)
}

func (r *recordingSink) last(t *testing.T) beep.Streamer {
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.played)
	return r.played[len(r.played)-1]
}

// drain streams s to completion and returns the sample count and the peak level.
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func newTestPlayer() (*Player, *recordingSink) {
	sink := &recordingSink{}
	p := NewPlayer(sink, testSampleRate)
	prof, _ := config.NewMetronomeConfig().ActiveSoundProfile()
	p.LoadProfile(prof)
	return p, sink
}

func TestSynthesize(t *testing.T) {
	t.Parallel()

	v := profile.Voice{Frequency: 1000, Decay: 10 * time.Millisecond, Length: 50 * time.Millisecond, Amplitude: 0.8}
	buf := Synthesize(v, beep.Format{SampleRate: testSampleRate, NumChannels: 2, Precision: 2})

	n, peak := drain(buf.Streamer(0, buf.Len()))
	assert.Equal(t, testSampleRate.N(50*time.Millisecond), n)
	assert.Greater(t, peak, 0.1)
	assert.LessOrEqual(t, peak, 0.8)
}

func TestPlayClickLevels(t *testing.T) {
	t.Parallel()

	p, sink := newTestPlayer()
	p.SetVolume(0.2)

	p.PlayClick(rhythm.AccentStrong, 1.0)
	_, strongPeak := drain(sink.last(t))
	assert.Greater(t, strongPeak, 0.0)
	assert.LessOrEqual(t, strongPeak, strongBeatGain+1e-9)

	p.PlayClick(rhythm.AccentNormal, 1.0)
	_, normalPeak := drain(sink.last(t))
	assert.Greater(t, normalPeak, 0.0)
	assert.LessOrEqual(t, normalPeak, 0.2+1e-9)
}

func TestPlaySoundRate(t *testing.T) {
	t.Parallel()

	p, sink := newTestPlayer()

	require.NoError(t, p.PlaySound(profile.SoundTimeAdjust, 1.0))
	normal, _ := drain(sink.last(t))

	require.NoError(t, p.PlaySound(profile.SoundTimeAdjust, 2.0))
	fast, _ := drain(sink.last(t))

	assert.InDelta(t, float64(normal)/2, float64(fast), 32)
}

func TestMissingSoundIsSilent(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	p := NewPlayer(sink, testSampleRate)

	err := p.PlaySound(profile.SoundNormalBeat, 1.0)
	assert.ErrorIs(t, err, ErrSoundNotLoaded)

	assert.NotPanics(t, func() { p.PlayClick(rhythm.AccentStrong, 1.0) })
	assert.Empty(t, sink.played)
}

func TestHandleTick(t *testing.T) {
	t.Parallel()

	p, sink := newTestPlayer()
	require.NoError(t, p.HandleTick(rhythm.TickEvent{Accent: rhythm.AccentNormal, Volume: 0.05}))

	_, peak := drain(sink.last(t))
	assert.LessOrEqual(t, peak, 0.05+1e-9)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	v := profile.Voice{Frequency: 440, Decay: 20 * time.Millisecond, Length: 100 * time.Millisecond, Amplitude: 1}
	buf := Synthesize(v, format)

	path := filepath.Join(t.TempDir(), "click.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, buf.Streamer(0, buf.Len()), format))
	require.NoError(t, f.Close())

	p, sink := newTestPlayer()
	require.NoError(t, p.LoadFile(profile.SoundNormalBeat, path))
	p.PlayClick(rhythm.AccentNormal, 1.0)

	// resampled from 22.05kHz to the player rate
	n, peak := drain(sink.last(t))
	assert.InDelta(t, float64(testSampleRate.N(100*time.Millisecond)), float64(n), 64)
	assert.Greater(t, peak, 0.0)

	require.Error(t, p.LoadFile(profile.SoundNormalBeat, filepath.Join(t.TempDir(), "missing.wav")))
	assert.ErrorIs(t, p.PlaySound(profile.SoundNormalBeat, 1.0), ErrSoundNotLoaded)
}
