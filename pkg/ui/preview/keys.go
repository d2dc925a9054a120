package preview

import "github.com/macropower/clipfix/pkg/keys"

// KeyBinds holds the preview key bindings.
type KeyBinds struct {
	Up          *keys.KeyBind
	Down        *keys.KeyBind
	Filter      *keys.KeyBind
	ClearFilter *keys.KeyBind
	Apply       *keys.KeyBind
	Refresh     *keys.KeyBind
	Quit        *keys.KeyBind
}

// DefaultKeyBinds returns the default preview key bindings.
func DefaultKeyBinds() *KeyBinds {
	up := keys.NewBind("up", keys.New("up", keys.WithAlias("↑")), keys.New("k"))
	down := keys.NewBind("down", keys.New("down", keys.WithAlias("↓")), keys.New("j"))
	filter := keys.NewBind("filter", keys.New("/"))
	clearFilter := keys.NewBind("clear filter", keys.New("esc"))
	apply := keys.NewBind("apply", keys.New("enter", keys.WithAlias("↵")))
	refresh := keys.NewBind("reload clipboard", keys.New("ctrl+r"))
	quit := keys.NewBind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden()))

	return &KeyBinds{
		Up:          &up,
		Down:        &down,
		Filter:      &filter,
		ClearFilter: &clearFilter,
		Apply:       &apply,
		Refresh:     &refresh,
		Quit:        &quit,
	}
}

func (kb *KeyBinds) help() []*keys.KeyBind {
	return []*keys.KeyBind{kb.Up, kb.Down, kb.Filter, kb.Apply, kb.Refresh, kb.Quit}
}
