package effect

import (
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/metronome/rhythm"
)

// Flash is the beat flash: on each tick the panel lights up in the accent's colour and fades back to
// the background.
type Flash struct {
	Duration   time.Duration
	Background colorful.Color

	mu      sync.Mutex
	colors  map[rhythm.AccentLevel]colorful.Color
	current colorful.Color
	started time.Time
}

// NewFlash creates a Flash from hex colours, e.g. "#ffffff".
func NewFlash(strong, normal, background string, d time.Duration) (*Flash, error) {
	s, err := colorful.Hex(strong)
	if err != nil {
		return nil, err
	}
	n, err := colorful.Hex(normal)
	if err != nil {
		return nil, err
	}
	bg, err := colorful.Hex(background)
	if err != nil {
		return nil, err
	}

	return &Flash{
		Duration:   d,
		Background: bg,
		colors: map[rhythm.AccentLevel]colorful.Color{
			rhythm.AccentStrong: s,
			rhythm.AccentNormal: n,
		},
		current: bg,
	}, nil
}

// Trigger starts a flash for the tick at time at.
func (f *Flash) Trigger(ev rhythm.TickEvent, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = f.colors[ev.Accent]
	f.started = at
}

// ColorAt returns the flash colour at time t.
func (f *Flash) ColorAt(t time.Time) colorful.Color {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started.IsZero() || f.Duration <= 0 {
		return f.Background
	}
	progress := float64(t.Sub(f.started)) / float64(f.Duration)
	if progress >= 1 {
		return f.Background
	}
	if progress <= 0 {
		return f.current
	}
	return f.current.BlendLab(f.Background, ease.OutQuad(progress)).Clamped()
}

// Active reports whether a flash is still fading at time t.
func (f *Flash) Active(t time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return !f.started.IsZero() && t.Sub(f.started) < f.Duration
}
