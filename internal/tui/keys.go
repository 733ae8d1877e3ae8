package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/thenoetrevino/labelschema/internal/config"
)

// KeyMap binds the configured keys to editor actions. It implements
// help.KeyMap.
type KeyMap struct {
	AddScheme    key.Binding
	AddGroup     key.Binding
	AddClass     key.Binding
	SetColour    key.Binding
	Rename       key.Binding
	ToggleActive key.Binding
	Up           key.Binding
	Down         key.Binding
	NextScheme   key.Binding
	PrevScheme   key.Binding
	Push         key.Binding
	ToggleSync   key.Binding
	ShowHelp     key.Binding
	Quit         key.Binding
}

// NewKeyMap builds bindings from the configured mappings. Arrow keys always
// work alongside the configured navigation keys.
func NewKeyMap(km config.KeyMappings) KeyMap {
	return KeyMap{
		AddScheme:    bind("new scheme", km.AddScheme),
		AddGroup:     bind("new group", km.AddGroup),
		AddClass:     bind("new class", km.AddClass),
		SetColour:    bind("set colour", km.SetColour),
		Rename:       bind("rename", km.Rename),
		ToggleActive: bind("toggle active", km.ToggleActive),
		Up:           bind("up", km.Up, "up"),
		Down:         bind("down", km.Down, "down"),
		NextScheme:   bind("next scheme", km.NextScheme, "right"),
		PrevScheme:   bind("prev scheme", km.PrevScheme, "left"),
		Push:         bind("save now", km.Push),
		ToggleSync:   bind("autosave on/off", km.ToggleSync),
		ShowHelp:     bind("help", km.ShowHelp),
		Quit:         bind("quit", km.Quit, "ctrl+c"),
	}
}

func bind(desc string, keys ...string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], desc),
	)
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddClass, k.SetColour, k.Rename, k.Push, k.ShowHelp, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddScheme, k.AddGroup, k.AddClass},
		{k.SetColour, k.Rename, k.ToggleActive},
		{k.Up, k.Down, k.PrevScheme, k.NextScheme},
		{k.Push, k.ToggleSync, k.ShowHelp, k.Quit},
	}
}
