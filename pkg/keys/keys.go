// Package keys models key bindings for the coordinator and preview UIs.
package keys

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ErrDuplicateKey is returned when a key is bound more than once.
var ErrDuplicateKey = errors.New("duplicate key binding")

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// Key represents a keyboard key with optional alias and visibility settings.
type Key struct {
	// Code is the key code identifier, e.g. "q" or "ctrl+c".
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias is an alternative display name for the key.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden determines if the key should be hidden from display.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := &Key{
		Code: code,
	}
	for _, opt := range opts {
		opt(k)
	}

	return *k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind represents a key binding with its description and associated keys.
type KeyBind struct {
	// Description provides a description of what the key binding does.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys contains the list of keys that trigger this binding.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String returns the visible keys joined with "/".
func (kb *KeyBind) String() string {
	keys := []string{}
	for _, k := range kb.Keys {
		if k.Hidden {
			continue
		}

		keys = append(keys, k.String())
	}

	return strings.Join(keys, "/")
}

// Match checks if the key matches any of the keys in the binding.
func (kb *KeyBind) Match(key string) bool {
	if kb == nil {
		return false
	}

	return slices.ContainsFunc(kb.Keys, func(k Key) bool {
		return k.Code == key
	})
}

func (kb *KeyBind) AddKey(key Key) {
	if kb == nil || kb.Match(key.Code) {
		return
	}

	kb.Keys = append(kb.Keys, key)
}

// Help renders bindings on one line, e.g. "r rewrite clipboard • q quit",
// truncated to width. Bindings whose keys are all hidden are omitted. A
// width <= 0 disables truncation.
func Help(width int, kbs ...*KeyBind) string {
	parts := []string{}
	for _, kb := range kbs {
		if kb == nil {
			continue
		}

		keys := kb.String()
		if keys == "" {
			continue
		}

		parts = append(parts, keys+" "+kb.Description)
	}

	s := strings.Join(parts, " • ")
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}

	return ansi.Truncate(s, width, Ellipsis)
}

// ValidateBinds returns an error for every key code bound more than once.
func ValidateBinds(kbs ...*KeyBind) error {
	var errs []error

	seen := make(map[string]bool)
	for _, kb := range kbs {
		if kb == nil {
			continue
		}

		for _, key := range kb.Keys {
			if seen[key.Code] {
				errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateKey, key.Code))
			}

			seen[key.Code] = true
		}
	}

	return errors.Join(errs...)
}

// SetDefaultBind fills a nil or partial binding from defaultKb.
func SetDefaultBind(kb **KeyBind, defaultKb KeyBind) {
	if *kb == nil {
		*kb = &defaultKb

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = defaultKb.Keys
	}

	if (*kb).Description == "" {
		(*kb).Description = defaultKb.Description
	}
}
