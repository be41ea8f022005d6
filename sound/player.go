package sound

import (
	goerrors "errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/profile"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/sirupsen/logrus"
)

// ErrSoundNotLoaded is returned when a sound has no decoded buffer.
var ErrSoundNotLoaded = goerrors.New("no valid buffer for sound")

// strongBeatGain is the fixed level of the accented click, independent of the volume setting.
const strongBeatGain = 0.3

const resampleQuality = 4

// Sink plays streamers. The speaker is the real sink.
type Sink interface {
	Play(s ...beep.Streamer)
}

// SpeakerSink plays through the initialized beep speaker.
type SpeakerSink struct{}

func (SpeakerSink) Play(s ...beep.Streamer) {
	speaker.Play(s...)
}

// Player keeps decoded click sounds and plays them on demand.
type Player struct {
	mu     sync.Mutex
	sink   Sink
	format beep.Format
	sounds map[string]*beep.Buffer
	volume float64
	log    *logrus.Entry
}

// NewPlayer creates a Player with no sounds loaded.
func NewPlayer(sink Sink, sr beep.SampleRate) *Player {
	return &Player{
		sink:   sink,
		format: beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2},
		sounds: make(map[string]*beep.Buffer),
		volume: rhythm.DefaultVolume,
		log:    logger.GetProjectLogger().WithField("component", "sound"),
	}
}

// NewSpeakerPlayer initializes the speaker and returns a Player that plays through it.
func NewSpeakerPlayer(sr beep.SampleRate, latency time.Duration) (*Player, error) {
	if err := speaker.Init(sr, sr.N(latency)); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return NewPlayer(SpeakerSink{}, sr), nil
}

// LoadProfile synthesizes every voice of the profile, replacing sounds with the same id.
func (p *Player) LoadProfile(prof profile.SoundProfile) {
	for id, v := range prof.Voices {
		buf := Synthesize(v, p.format)
		p.mu.Lock()
		p.sounds[id] = buf
		p.mu.Unlock()
	}
	p.log.WithFields(logrus.Fields{"profile": prof.Name, "sounds": len(prof.Voices)}).Debug("Loaded sound profile")
}

// LoadFile decodes a WAV file as the sound with the given id. On failure the id is left without a
// sound so it plays silently.
func (p *Player) LoadFile(id, path string) error {
	buf, err := p.decodeFile(path)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		delete(p.sounds, id)
		return err
	}
	p.sounds[id] = buf
	return nil
}

func (p *Player) decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, errors.WithStackTrace(err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != p.format.SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, p.format.SampleRate, s)
	}
	buf := beep.NewBuffer(p.format)
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return buf, nil
}

// SetVolume sets the level used for every sound except the strong beat.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

// PlaySound plays a sound at the given playback rate, where 1 is the recorded speed.
func (p *Player) PlaySound(id string, rate float64) error {
	p.mu.Lock()
	buf, ok := p.sounds[id]
	gain := p.volume
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSoundNotLoaded, id)
	}
	if id == profile.SoundStrongBeat {
		gain = strongBeatGain
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if rate > 0 && rate != 1 {
		s = beep.ResampleRatio(resampleQuality, rate, s)
	}
	p.sink.Play(&effects.Gain{Streamer: s, Gain: gain - 1})
	return nil
}

// PlayClick plays the click for an accent level. A missing sound is logged and the beat stays silent.
func (p *Player) PlayClick(accent rhythm.AccentLevel, rate float64) {
	id := profile.SoundNormalBeat
	if accent == rhythm.AccentStrong {
		id = profile.SoundStrongBeat
	}
	if err := p.PlaySound(id, rate); err != nil {
		p.log.Errorf("Could not play click: %v", err)
	}
}

// HandleTick is a rhythm.TickHandler that sounds each beat at the tick's volume.
func (p *Player) HandleTick(ev rhythm.TickEvent) error {
	p.SetVolume(ev.Volume)
	p.PlayClick(ev.Accent, 1.0)
	return nil
}
