package main

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/control"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/rhythm"
)

const (
	panelBackground = "#1c1c1c"
	beatBuffer      = 16
)

type model struct {
	panel *control.Panel
	sched *rhythm.Scheduler
	ramp  *rampRequest

	beats   chan rhythm.TickEvent // ticks forwarded from the scheduler goroutine
	flash   *effect.Flash         // nil when flashing is disabled
	gauge   progress.Model
	spinner spinner.Model

	last     rhythm.TickEvent
	runStart time.Time
	now      time.Time
	err      error
	quitting bool
}

func newModel(cfg config.MetronomeConfig, sched *rhythm.Scheduler, panel *control.Panel, ramp *rampRequest) (model, error) {
	s := spinner.New()
	s.Style = spinnerStyle

	m := model{
		panel:   panel,
		sched:   sched,
		ramp:    ramp,
		beats:   make(chan rhythm.TickEvent, beatBuffer),
		spinner: s,
		gauge: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		last: rhythm.TickEvent{BeatInMeasure: -1},
	}

	if cfg.Flash.Enable {
		f, err := effect.NewFlash(cfg.Flash.Strong, cfg.Flash.Normal, panelBackground, cfg.Flash.Duration)
		if err != nil {
			return m, err
		}
		m.flash = f
	}

	// ticks must never block the scheduler; the panel drops a beat rather than stall the clock
	beats := m.beats
	sched.OnTick(panel.Decorate(func(ev rhythm.TickEvent) error {
		select {
		case beats <- ev:
		default:
		}
		return nil
	}))

	return m, nil
}

// runPanel runs the interactive panel until the user quits.
func runPanel(cfg config.MetronomeConfig, sched *rhythm.Scheduler, panel *control.Panel, ramp *rampRequest) error {
	m, err := newModel(cfg, sched, panel, ramp)
	if err != nil {
		return err
	}
	defer panel.Stop()

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameCmd(), m.spinner.Tick, waitForBeat(m.beats)}
	if m.ramp != nil {
		cmds = append(cmds, startCmd(m.panel, m.ramp))
	}
	return tea.Batch(cmds...)
}

// beatMsg carries a tick from the scheduler.
type beatMsg rhythm.TickEvent

// frameMsg redraws the flash and the pendulum.
type frameMsg time.Time

// errMsg reports a failed panel operation.
type errMsg struct{ err error }

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/GlobalFPS, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// waitForBeat waits for the next forwarded tick.
func waitForBeat(beats <-chan rhythm.TickEvent) tea.Cmd {
	return func() tea.Msg {
		return beatMsg(<-beats)
	}
}

func startCmd(panel *control.Panel, ramp *rampRequest) tea.Cmd {
	return func() tea.Msg {
		if err := start(panel, ramp); err != nil {
			return errMsg{err}
		}
		return nil
	}
}
