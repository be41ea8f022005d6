package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/control"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func defaultOptions() options {
	return options{
		Tempo:        120,
		Volume:       0.2,
		Meter:        4,
		RampDuration: 30 * time.Second,
		Curve:        "linear",
		Sound:        "classic",
		LogLevel:     "info",
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		modify  func(*options)
		wantErr bool
	}{
		{"defaults", func(o *options) {}, false},
		{"unaccented", func(o *options) { o.Meter = 0 }, false},
		{"slow", func(o *options) { o.Tempo = 39 }, true},
		{"fast", func(o *options) { o.Tempo = 209 }, true},
		{"negative meter", func(o *options) { o.Meter = -1 }, true},
		{"loud", func(o *options) { o.Volume = 1.5 }, true},
		{"unknown sound", func(o *options) { o.Sound = "cowbell" }, true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts := defaultOptions()
			tc.modify(&opts)
			cfg, err := buildConfig(opts)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, opts.Tempo, cfg.Tempo)
			assert.Equal(t, opts.Meter, cfg.Meter)
			assert.Same(t, logger.GetProjectLogger(), cfg.Logger)
		})
	}
}

func TestOptionsRamp(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	r, err := opts.ramp()
	require.NoError(t, err)
	assert.Nil(t, r)

	opts.RampTo = 160
	opts.Curve = "ease-in-out"
	r, err = opts.ramp()
	require.NoError(t, err)
	assert.Equal(t, &rampRequest{Target: 160, Duration: 30 * time.Second, Curve: rhythm.CurveEaseInOut}, r)

	opts.Curve = "wobble"
	_, err = opts.ramp()
	assert.True(t, rhythm.IsConfigError(err))
}

func newTestModel(t *testing.T, flash bool) model {
	t.Helper()

	fc := testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := config.NewMetronomeConfig()
	cfg.Flash.Enable = flash
	sched := rhythm.NewScheduler(fc)
	panel := control.NewPanel(cfg, sched, nil, fc)
	t.Cleanup(panel.Stop)

	m, err := newModel(cfg, sched, panel, nil)
	require.NoError(t, err)
	return m
}

func TestModelKeys(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, false)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	assert.Equal(t, 121, m.panel.State().Tempo)
	assert.Contains(t, m.View(), "121 BPM")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(model)
	assert.Equal(t, 3, m.panel.State().Meter)
	assert.Contains(t, m.View(), "3/4")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(model)
	assert.True(t, m.quitting)
}

func TestModelForwardsBeats(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(model)
	require.True(t, m.panel.State().Playing)

	// the first tick is forwarded synchronously by Start
	var ev rhythm.TickEvent
	select {
	case ev = <-m.beats:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for beat")
	}
	assert.Equal(t, uint64(1), ev.Sequence)

	next, cmd := m.Update(beatMsg(ev))
	m = next.(model)
	assert.NotNil(t, cmd)
	assert.Equal(t, 0, m.last.BeatInMeasure)
	assert.Equal(t, ev.ScheduledTime, m.runStart)
	assert.True(t, m.flash.Active(m.now))
	assert.Contains(t, m.View(), "playing")
}

func TestMeterLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no accent", meterLabel(0))
	assert.Equal(t, "6/4", meterLabel(6))
}
