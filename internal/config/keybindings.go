package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// KeysConfig binds the demo's actions to keys. Keys are single bytes read from
// a raw-mode terminal: a printable character, "space", "tab", "enter", "esc",
// or "ctrl+<letter>".
type KeysConfig struct {
	Quit          []string `toml:"quit"`
	Redraw        []string `toml:"redraw"`
	Pause         []string `toml:"pause"`
	ToggleSampler []string `toml:"toggle_sampler"`
}

// Demo actions.
const (
	ActionQuit          = "quit"
	ActionRedraw        = "redraw"
	ActionPause         = "pause"
	ActionToggleSampler = "toggle_sampler"
)

// ActionDescriptions describes each action for help output.
var ActionDescriptions = map[string]string{
	ActionQuit:          "Quit",
	ActionRedraw:        "Clear and repaint the screen",
	ActionPause:         "Pause or resume the animation",
	ActionToggleSampler: "Hide or show the attribute sampler",
}

// Actions lists the actions in display order.
var Actions = []string{ActionQuit, ActionRedraw, ActionPause, ActionToggleSampler}

// DefaultKeys returns the built-in bindings.
func DefaultKeys() KeysConfig {
	return KeysConfig{
		Quit:          []string{"q", "ctrl+c"},
		Redraw:        []string{"ctrl+l"},
		Pause:         []string{"space"},
		ToggleSampler: []string{"s"},
	}
}

func (k KeysConfig) bindings() map[string][]string {
	return map[string][]string{
		ActionQuit:          k.Quit,
		ActionRedraw:        k.Redraw,
		ActionPause:         k.Pause,
		ActionToggleSampler: k.ToggleSampler,
	}
}

// Validate reports keys that cannot be parsed or are bound twice.
func (k KeysConfig) Validate() error {
	var errs []error
	seen := map[byte]string{}
	for _, action := range Actions {
		for _, key := range k.bindings()[action] {
			b, err := ParseKey(key)
			if err != nil {
				errs = append(errs, fmt.Errorf("keys.%s: %w", action, err))
				continue
			}
			if prev, ok := seen[b]; ok && prev != action {
				errs = append(errs, fmt.Errorf("keys.%s: %q is already bound to %s", action, key, prev))
			}
			seen[b] = action
		}
	}
	return errors.Join(errs...)
}

var namedKeys = map[string]byte{
	"space":     ' ',
	"tab":       '\t',
	"enter":     '\r',
	"return":    '\r',
	"esc":       0x1b,
	"escape":    0x1b,
	"backspace": 0x7f,
}

// ParseKey returns the byte a raw-mode terminal sends for key.
func ParseKey(key string) (byte, error) {
	name := strings.ToLower(strings.TrimSpace(key))
	if name == "" {
		return 0, errors.New("empty key")
	}
	if b, ok := namedKeys[name]; ok {
		return b, nil
	}
	if letter, ok := strings.CutPrefix(name, "ctrl+"); ok {
		if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
			return 0, fmt.Errorf("unsupported key %q", key)
		}
		return letter[0] & 0x1f, nil
	}
	// Single printable characters keep their case.
	raw := strings.TrimSpace(key)
	if len(raw) == 1 && raw[0] > ' ' && raw[0] < 0x7f {
		return raw[0], nil
	}
	return 0, fmt.Errorf("unsupported key %q", key)
}

// KeyMap resolves input bytes to actions.
type KeyMap struct {
	actions map[byte]string
	keys    map[string][]string
}

// NewKeyMap builds a KeyMap from cfg, skipping keys that do not parse.
func NewKeyMap(cfg KeysConfig) *KeyMap {
	m := &KeyMap{actions: map[byte]string{}, keys: cfg.bindings()}
	for _, action := range Actions {
		for _, key := range m.keys[action] {
			if b, err := ParseKey(key); err == nil {
				m.actions[b] = action
			}
		}
	}
	return m
}

// Action returns the action bound to b, or "".
func (m *KeyMap) Action(b byte) string { return m.actions[b] }

// Keys returns the keys bound to action.
func (m *KeyMap) Keys(action string) []string { return slices.Clone(m.keys[action]) }

// Help returns a one-line summary such as "q quit  space pause".
func (m *KeyMap) Help() string {
	var parts []string
	for _, action := range Actions {
		if keys := m.keys[action]; len(keys) > 0 {
			parts = append(parts, keys[0]+" "+action)
		}
	}
	return strings.Join(parts, "  ")
}
