package rhythm

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/robmorgan/metronome/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Scheduler produces ticks on a self re-arming timer. Each tick advances the deadline by a full beat
// interval from the previous deadline and arms the next timer early by the observed drift, so timer
// lateness is compensated instead of accumulated.
//
// Ticks never overlap: only one timer is armed at a time and a tick is processed under the scheduler
// lock. Handlers run with the lock released, so they may call Stop or Start.
type Scheduler struct {
	clock clock.Clock
	log   *logrus.Entry

	mu       sync.Mutex
	handlers []TickHandler
	run      *run

	// beatsPerMeasure is kept after Stop so snapshots of an idle scheduler report the last meter.
	beatsPerMeasure int
}

// run is the state owned by a single Start..Stop cycle.
type run struct {
	cfg Config

	tempo           float64
	transition      *TransitionSpec
	transitionStart time.Time

	beatIndex int
	deadline  time.Time
	sequence  uint64

	timer clock.Timer
	done  chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger replaces the scheduler's log entry.
func WithLogger(entry *logrus.Entry) SchedulerOption {
	return func(s *Scheduler) {
		s.log = entry
	}
}

// NewScheduler creates an idle Scheduler driven by the given clock.
func NewScheduler(cl clock.Clock, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		clock:           cl,
		log:             logger.GetProjectLogger().WithField("component", "scheduler"),
		beatsPerMeasure: DefaultBeatsPerMeasure,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnTick registers a handler that is invoked once per tick, in registration order.
func (s *Scheduler) OnTick(h TickHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers = append(s.handlers, h)
}

// Start validates cfg, sounds the first tick immediately and then keeps ticking until Stop is called.
func (s *Scheduler) Start(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.run != nil {
		s.mu.Unlock()
		return ErrRunning
	}

	now := s.clock.Now()
	r := &run{
		cfg:             cfg,
		tempo:           cfg.Tempo,
		transitionStart: now,
		deadline:        now,
		done:            make(chan struct{}),
	}
	if cfg.Transition != nil {
		spec := *cfg.Transition
		r.transition = &spec
		r.tempo = spec.EndTempo
	}
	s.run = r
	s.beatsPerMeasure = cfg.BeatsPerMeasure

	ev := s.tick(r)
	handlers := s.handlers
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"tempo":             ev.Tempo,
		"beats_per_measure": cfg.BeatsPerMeasure,
		"transition":        cfg.Transition != nil,
	}).Info("Metronome started")

	s.dispatch(handlers, ev)
	go s.loop(r)

	return nil
}

// Stop cancels the armed timer and returns the scheduler to idle. Calling Stop on an idle scheduler
// does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run
	if r == nil {
		return
	}
	r.timer.Stop()
	close(r.done)
	s.run = nil

	s.log.WithField("ticks", r.sequence).Info("Metronome stopped")
}

// Running reports whether a run is in progress.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run != nil
}

// Snapshot returns a copy of the scheduler state.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run
	if r == nil {
		return Snapshot{BeatsPerMeasure: s.beatsPerMeasure}
	}

	snap := Snapshot{
		Running:         true,
		Tempo:           r.tempo,
		BeatsPerMeasure: r.cfg.BeatsPerMeasure,
		BeatIndex:       r.beatIndex,
		NextDeadline:    r.deadline,
	}
	if r.transition != nil {
		spec := *r.transition
		snap.Transition = &spec
		snap.TransitionStart = r.transitionStart
		snap.Tempo, _ = Evaluate(spec, s.clock.Since(r.transitionStart))
	}
	return snap
}

func (s *Scheduler) loop(r *run) {
	for {
		select {
		case <-r.done:
			return
		case <-r.timer.C():
			s.mu.Lock()
			if s.run != r {
				// stopped, or stopped and restarted, while the timer was firing
				s.mu.Unlock()
				return
			}
			ev := s.tick(r)
			handlers := s.handlers
			s.mu.Unlock()

			s.dispatch(handlers, ev)
		}
	}
}

// tick computes the current beat, advances the deadline and arms the next timer. Callers must hold s.mu.
func (s *Scheduler) tick(r *run) TickEvent {
	tempo := r.tempo
	if r.transition != nil {
		// the curve is sampled at the beat's deadline so timer jitter does not leak into the tempo
		t, done := Evaluate(*r.transition, r.deadline.Sub(r.transitionStart))
		tempo = t
		if done {
			r.tempo = r.transition.EndTempo
			r.transition = nil
		}
	}
	if !(tempo >= minTickTempo) {
		tempo = minTickTempo
	}
	if tempo > maxTickTempo {
		tempo = maxTickTempo
	}

	interval := BeatInterval(tempo)
	now := s.clock.Now()
	drift := now.Sub(r.deadline)

	scheduled := r.deadline
	r.deadline = r.deadline.Add(interval)

	delay := interval - drift
	if delay < 0 {
		delay = 0
	}
	if r.timer == nil {
		r.timer = s.clock.NewTimer(delay)
	} else {
		r.timer.Reset(delay)
	}

	accent := AccentNormal
	if r.beatIndex == 0 {
		accent = AccentStrong
	}
	r.sequence++

	ev := TickEvent{
		Sequence:        r.sequence,
		Tempo:           tempo,
		Volume:          r.cfg.Volume,
		BeatsPerMeasure: r.cfg.BeatsPerMeasure,
		Accent:          accent,
		BeatInMeasure:   r.beatIndex,
		ScheduledTime:   scheduled,
		NextDeadline:    r.deadline,
		Drift:           drift,
	}
	r.beatIndex = (r.beatIndex + 1) % r.cfg.BeatsPerMeasure

	s.log.WithFields(logrus.Fields{
		"seq":   ev.Sequence,
		"beat":  ev.BeatInMeasure,
		"tempo": math.Round(tempo*100) / 100,
		"drift": drift,
	}).Debug("Tick")

	return ev
}

// dispatch hands ev to every handler. A failing handler never interrupts the beat clock.
func (s *Scheduler) dispatch(handlers []TickHandler, ev TickEvent) {
	for i, h := range handlers {
		if err := s.invoke(h, ev); err != nil {
			s.log.WithFields(logrus.Fields{"handler": i, "seq": ev.Sequence}).Errorf("Tick handler failed: %v", err)
		}
	}
}

func (s *Scheduler) invoke(h TickHandler, ev TickEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ev)
}
