package config

import (
	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/keys"
)

type UIConfig struct {
	// OSC52 enables writing the clipboard through the terminal when the
	// system clipboard is unavailable.
	OSC52 *bool `json:"osc52,omitempty" jsonschema:"title=OSC 52"`
	// KeyBinds configures the panel key bindings.
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Bindings"`
	// Theme is a chroma style name, or one of "auto", "dark" or "light".
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
}

type KeyBinds struct {
	Quit    *keys.KeyBind `json:"quit,omitempty" jsonschema:"title=Quit"`
	Trigger *keys.KeyBind `json:"trigger,omitempty" jsonschema:"title=Rewrite Clipboard"`
}

func (c *UIConfig) EnsureDefaults() {
	if c.Theme == "" {
		c.Theme = "auto"
	}
	if c.OSC52 == nil {
		osc52 := true
		c.OSC52 = &osc52
	}
	if c.KeyBinds == nil {
		c.KeyBinds = &KeyBinds{}
	}

	def := coordinator.DefaultKeyMap()
	keys.SetDefaultBind(&c.KeyBinds.Quit, *def.Quit)
	keys.SetDefaultBind(&c.KeyBinds.Trigger, *def.Trigger)
}

// KeyMap returns the coordinator key bindings.
func (c *UIConfig) KeyMap() coordinator.KeyMap {
	if c.KeyBinds == nil {
		return coordinator.DefaultKeyMap()
	}

	return coordinator.KeyMap{
		Quit:    c.KeyBinds.Quit,
		Trigger: c.KeyBinds.Trigger,
	}
}

// OSC52Enabled reports whether the OSC 52 fallback is enabled.
func (c *UIConfig) OSC52Enabled() bool {
	return c.OSC52 == nil || *c.OSC52
}
