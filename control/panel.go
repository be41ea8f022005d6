package control

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/profile"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/utils"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Scheduler is the part of rhythm.Scheduler the panel drives.
type Scheduler interface {
	Start(cfg rhythm.Config) error
	Stop()
	Running() bool
}

// SoundBoard plays the panel's feedback sounds.
type SoundBoard interface {
	PlaySound(id string, rate float64) error
}

// State is what the panel shows.
type State struct {
	Tempo   int
	Meter   int
	Volume  float64
	Playing bool
	Taps    int
	Ramp    *rhythm.TransitionSpec
}

// Panel turns user gestures into tempo and meter changes. Any change made while playing restarts the
// scheduler with the new configuration.
type Panel struct {
	sched Scheduler
	sound SoundBoard
	clock clock.PassiveClock
	keys  config.KeyConfig
	log   *logrus.Entry
	rand  func() float64

	// unaccented is read by decorated tick handlers on the scheduler goroutine.
	unaccented atomic.Bool

	mu      sync.Mutex
	meters  []int
	tempo   int
	meter   int
	volume  float64
	playing bool
	ramp    *rhythm.TransitionSpec
	tap     *rhythm.TapTempo
}

// NewPanel creates a stopped panel from the configuration.
func NewPanel(cfg config.MetronomeConfig, sched Scheduler, sound SoundBoard, cl clock.PassiveClock) *Panel {
	meters := append([]int(nil), cfg.Meters...)
	if len(meters) == 0 {
		meters = []int{cfg.Meter}
	}

	p := &Panel{
		sched:  sched,
		sound:  sound,
		clock:  cl,
		keys:   cfg.Keys,
		log:    logger.GetProjectLogger().WithField("component", "panel"),
		rand:   rand.Float64,
		meters: meters,
		tempo:  utils.Clamp(cfg.Tempo, rhythm.MinTempo, rhythm.MaxTempo),
		meter:  cfg.Meter,
		volume: cfg.Volume,
		tap:    rhythm.NewTapTempo(rhythm.WithTapTimeout(cfg.TapTimeout)),
	}
	p.unaccented.Store(p.meter <= 0)
	return p
}

// HandleKey runs the action bound to key and returns it. Unbound keys are ignored.
func (p *Panel) HandleKey(key string) (config.Action, error) {
	action, ok := p.keys.Lookup(key)
	if !ok {
		return "", nil
	}

	var err error
	switch action {
	case config.ActionTempoUp:
		err = p.AdjustTempo(p.direction(1, p.keys.ReverseVertical))
	case config.ActionTempoDown:
		err = p.AdjustTempo(p.direction(-1, p.keys.ReverseVertical))
	case config.ActionMeterLeft:
		err = p.AdjustMeter(p.direction(-1, p.keys.ReverseHorizontal))
	case config.ActionMeterRight:
		err = p.AdjustMeter(p.direction(1, p.keys.ReverseHorizontal))
	case config.ActionToggle:
		err = p.Toggle()
	case config.ActionTap:
		p.Tap()
	case config.ActionQuit:
		p.Stop()
	}
	return action, err
}

func (p *Panel) direction(d int, reverse bool) int {
	if reverse {
		return -d
	}
	return d
}

// AdjustTempo nudges the tempo by delta beats per minute.
func (p *Panel) AdjustTempo(delta int) error {
	p.mu.Lock()
	tempo := p.tempo + delta
	p.mu.Unlock()

	return p.SetTempo(tempo)
}

// SetTempo sets the tempo, clamped to the supported range.
func (p *Panel) SetTempo(tempo int) error {
	tempo = utils.Clamp(tempo, rhythm.MinTempo, rhythm.MaxTempo)

	p.mu.Lock()
	if tempo == p.tempo {
		p.mu.Unlock()
		return nil
	}
	p.tempo = tempo
	p.ramp = nil
	cfg, playing := p.configLocked(), p.playing
	p.mu.Unlock()

	p.play(profile.SoundTempoAdjust, 1.0)
	if playing {
		return p.restart(cfg)
	}
	return nil
}

// AdjustMeter steps through the configured meters in the given direction.
func (p *Panel) AdjustMeter(direction int) error {
	p.mu.Lock()
	idx := indexOf(p.meters, p.meter)
	next := utils.Clamp(idx+direction, 0, len(p.meters)-1)
	if idx >= 0 && next == idx {
		p.mu.Unlock()
		return nil
	}
	p.meter = p.meters[next]
	p.unaccented.Store(p.meter <= 0)
	cfg, playing := p.configLocked(), p.playing
	p.mu.Unlock()

	p.play(profile.SoundTimeAdjust, 1.0)
	if playing {
		return p.restart(cfg)
	}
	return nil
}

// Toggle starts a stopped panel and stops a playing one.
func (p *Panel) Toggle() error {
	p.mu.Lock()
	playing := p.playing
	p.mu.Unlock()

	if playing {
		p.Stop()
		return nil
	}
	return p.Start()
}

// Start starts the scheduler at the panel tempo.
func (p *Panel) Start() error {
	p.mu.Lock()
	cfg := p.configLocked()
	p.mu.Unlock()

	return p.restart(cfg)
}

// StartRamp starts, or restarts, the scheduler with a transition from the current tempo to target.
func (p *Panel) StartRamp(target int, d time.Duration, curve rhythm.Curve) error {
	target = utils.Clamp(target, rhythm.MinTempo, rhythm.MaxTempo)

	p.mu.Lock()
	spec := &rhythm.TransitionSpec{
		StartTempo: float64(p.tempo),
		EndTempo:   float64(target),
		Duration:   d,
		Curve:      curve,
	}
	cfg := p.configLocked()
	cfg.Transition = spec
	p.mu.Unlock()

	if err := p.restart(cfg); err != nil {
		return err
	}

	p.mu.Lock()
	p.tempo = target
	p.ramp = spec
	p.mu.Unlock()
	return nil
}

// Stop stops the scheduler.
func (p *Panel) Stop() {
	p.sched.Stop()

	p.mu.Lock()
	p.playing = false
	p.ramp = nil
	p.mu.Unlock()
}

// Tap records a tap tempo tap and adopts the estimate once there is one. Taps are ignored while playing.
func (p *Panel) Tap() (int, bool) {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return 0, false
	}
	tempo, ok := p.tap.RecordTap(p.clock.Now())
	if ok {
		p.tempo = tempo
	}
	rate := 0.9 + p.rand()*0.1
	p.mu.Unlock()

	p.play(profile.SoundTimeAdjust, rate)
	if ok {
		p.log.WithField("tempo", tempo).Debug("Tap tempo")
	}
	return tempo, ok
}

// Decorate wraps a tick handler so a meter of zero sounds every beat unaccented.
func (p *Panel) Decorate(h rhythm.TickHandler) rhythm.TickHandler {
	return func(ev rhythm.TickEvent) error {
		if p.unaccented.Load() {
			ev.Accent = rhythm.AccentNormal
		}
		return h(ev)
	}
}

// State returns the current panel state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ramp *rhythm.TransitionSpec
	if p.ramp != nil {
		r := *p.ramp
		ramp = &r
	}
	return State{
		Tempo:   p.tempo,
		Meter:   p.meter,
		Volume:  p.volume,
		Playing: p.playing,
		Taps:    p.tap.Len(),
		Ramp:    ramp,
	}
}

// restart reconfigures the scheduler as a stop followed by a start.
func (p *Panel) restart(cfg rhythm.Config) error {
	p.sched.Stop()

	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()

	if err := p.sched.Start(cfg); err != nil {
		return err
	}

	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()
	return nil
}

func (p *Panel) configLocked() rhythm.Config {
	beats := p.meter
	if beats <= 0 {
		beats = 1
	}
	return rhythm.Config{
		Tempo:           float64(p.tempo),
		Volume:          p.volume,
		BeatsPerMeasure: beats,
	}
}

func (p *Panel) play(id string, rate float64) {
	if p.sound == nil {
		return
	}
	if err := p.sound.PlaySound(id, rate); err != nil {
		p.log.Errorf("Could not play %s: %v", id, err)
	}
}

func indexOf(values []int, v int) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
