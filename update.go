package main

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/rhythm"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action, err := m.panel.HandleKey(msg.String())
		m.err = err
		switch action {
		case config.ActionQuit:
			m.quitting = true
			return m, tea.Quit
		case config.ActionToggle:
			if !m.panel.State().Playing {
				m.last = rhythm.TickEvent{BeatInMeasure: -1}
			}
		}
		return m, nil
	case beatMsg:
		ev := rhythm.TickEvent(msg)
		m.now = time.Now()
		if ev.Sequence == 1 {
			m.runStart = ev.ScheduledTime
		}
		m.last = ev
		if m.flash != nil {
			m.flash.Trigger(ev, m.now)
		}
		return m, waitForBeat(m.beats)
	case frameMsg:
		m.now = time.Time(msg)
		return m, frameCmd()
	case errMsg:
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}
