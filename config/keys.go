package config

// Action is a panel operation that can be bound to a key.
type Action string

const (
	ActionTempoUp    Action = "tempo:up"
	ActionTempoDown  Action = "tempo:down"
	ActionMeterLeft  Action = "meter:left"
	ActionMeterRight Action = "meter:right"
	ActionToggle     Action = "toggle"
	ActionTap        Action = "tap"
	ActionQuit       Action = "quit"
)

// KeyConfig stores keyboard preferences
type KeyConfig struct {
	// ReverseVertical makes ArrowUp slow the tempo down.
	ReverseVertical bool

	// ReverseHorizontal makes ArrowRight step to a shorter meter.
	ReverseHorizontal bool

	// Bindings maps key names, as reported by the terminal, to actions.
	Bindings map[string]Action
}

func defaultKeyConfig() KeyConfig {
	return KeyConfig{
		ReverseVertical:   true,
		ReverseHorizontal: false,
		Bindings: map[string]Action{
			"up":     ActionTempoUp,
			"down":   ActionTempoDown,
			"left":   ActionMeterLeft,
			"right":  ActionMeterRight,
			" ":      ActionToggle,
			"t":      ActionTap,
			"T":      ActionTap,
			"q":      ActionQuit,
			"ctrl+c": ActionQuit,
		},
	}
}

// Lookup returns the action bound to key.
func (k KeyConfig) Lookup(key string) (Action, bool) {
	a, ok := k.Bindings[key]
	return a, ok
}
