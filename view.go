package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/metronome/control"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/engine/scale"
	"github.com/robmorgan/metronome/rhythm"
)

const pendulumWidth = 31

var (
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	tempoStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = helpStyle.Copy().UnsetMargins()
	stressedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	litStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	appStyle      = lipgloss.NewStyle().Margin(1, 2, 0, 2)

	tempoGauge = scale.ToUnitClamp(rhythm.MinTempo, rhythm.MaxTempo)
)

func (m model) View() string {
	state := m.panel.State()
	tempo := float64(state.Tempo)
	if state.Playing && state.Ramp != nil {
		if snap := m.sched.Snapshot(); snap.Running {
			tempo = snap.Tempo
		}
	}

	var s string
	s += titleStyle.Render("METRONOME") + "\n\n"

	if state.Playing {
		s += fmt.Sprintf("%s playing\n\n", m.spinner.View())
	} else {
		s += dimStyle.Render("  stopped") + "\n\n"
	}

	s += tempoStyle.Render(fmt.Sprintf("%d BPM", int(math.Round(tempo))))
	if state.Ramp != nil {
		s += dimStyle.Render(fmt.Sprintf("  ramping %.0f → %.0f over %s (%s)",
			state.Ramp.StartTempo, state.Ramp.EndTempo, state.Ramp.Duration, state.Ramp.Curve))
	}
	s += "\n"
	s += m.gauge.ViewAs(tempoGauge(tempo))
	s += dimStyle.Render(fmt.Sprintf("  weight %+.0f%%", scale.TempoPosition(tempo))) + "\n\n"

	s += fmt.Sprintf("Meter: %s   %s\n\n", meterLabel(state.Meter), m.lights(state))
	s += m.pendulum(state.Playing, tempo) + "\n"

	if m.flash != nil {
		c := m.flash.ColorAt(m.now)
		s += "\n" + lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(strings.Repeat(" ", pendulumWidth)) + "\n"
	}

	if m.err != nil {
		s += "\n" + errorStyle.Render(m.err.Error()) + "\n"
	}

	s += helpStyle.Render("(space) start/stop  (↑/↓) tempo  (←/→) meter  (t) tap\n\nPress q to exit\n")

	if m.quitting {
		s += "\n"
	}
	return appStyle.Render(s)
}

func meterLabel(meter int) string {
	if meter <= 0 {
		return "no accent"
	}
	return fmt.Sprintf("%d/4", meter)
}

// lights renders one indicator per beat, lighting the beat that last sounded.
func (m model) lights(state control.State) string {
	sounding := -1
	if state.Playing {
		sounding = m.last.BeatInMeasure
	}

	var out []string
	for _, l := range effect.BeatLights(state.Meter, sounding) {
		switch {
		case l.Lit:
			out = append(out, litStyle.Render("●"))
		case l.Stressed:
			out = append(out, stressedStyle.Render("○"))
		default:
			out = append(out, dimStyle.Render("○"))
		}
	}
	return strings.Join(out, " ")
}

// pendulum draws the swing arm as a bob on a horizontal track.
func (m model) pendulum(playing bool, tempo float64) string {
	angle := 0.0
	if playing && !m.runStart.IsZero() {
		angle = effect.SwingAngle(m.now.Sub(m.runStart), tempo)
	}

	pos := int(math.Round((angle + effect.MaxSwingAngle) / (2 * effect.MaxSwingAngle) * (pendulumWidth - 1)))
	track := []rune(strings.Repeat("─", pendulumWidth))
	track[pos] = '●'
	return dimStyle.Render("[") + string(track) + dimStyle.Render("]")
}
