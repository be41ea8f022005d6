package config

import (
	"testing"

	"github.com/robmorgan/metronome/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetronomeConfig(t *testing.T) {
	t.Parallel()

	c := NewMetronomeConfig()
	require.NotNil(t, c.Logger)
	assert.Equal(t, 120, c.Tempo)
	assert.Contains(t, c.Meters, c.Meter)

	for name, p := range c.SoundProfiles {
		for _, id := range []string{profile.SoundStrongBeat, profile.SoundNormalBeat, profile.SoundTempoAdjust, profile.SoundTimeAdjust} {
			v, ok := p.Voices[id]
			require.True(t, ok, "profile %s is missing %s", name, id)
			assert.Greater(t, v.Frequency, 0.0)
			assert.Greater(t, v.Length, v.Decay)
		}
	}
}

func TestActiveSoundProfile(t *testing.T) {
	t.Parallel()

	c := NewMetronomeConfig()
	c.SoundProfile = "woodblock"
	p, ok := c.ActiveSoundProfile()
	require.True(t, ok)
	assert.Equal(t, "Woodblock", p.Name)

	c.SoundProfile = "cowbell"
	p, ok = c.ActiveSoundProfile()
	require.False(t, ok)
	assert.Equal(t, "Classic mechanical click", p.Name)
}

func TestKeyBindings(t *testing.T) {
	t.Parallel()

	keys := NewMetronomeConfig().Keys
	a, ok := keys.Lookup(" ")
	require.True(t, ok)
	assert.Equal(t, ActionToggle, a)

	_, ok = keys.Lookup("x")
	assert.False(t, ok)
}
