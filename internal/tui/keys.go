package tui

import "charm.land/bubbles/v2/key"

const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
)

// KeyMap holds the screen-level bindings. Dialog and form keys are handled
// by those components directly.
type KeyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	Up         key.Binding
	Down       key.Binding
	Refresh    key.Binding
	Toggle     key.Binding
	Add        key.Binding
	AddFixed   key.Binding
	Delete     key.Binding
	DeleteAll  key.Binding
	Reset      key.Binding
	Test       key.Binding
	Upload     key.Binding
	Download   key.Binding
	Edit       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Inventory  key.Binding
	Dashboard  key.Binding
	Logout     key.Binding
	SwitchForm key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", keyCtrlC), key.WithHelp("q", "quit")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Toggle:     key.NewBinding(key.WithKeys("space", " "), key.WithHelp("space", "toggle")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		AddFixed:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add fixed")),
		Delete:     key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		DeleteAll:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Test:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "test extension")),
		Upload:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Download:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Edit:       key.NewBinding(key.WithKeys("e", keyEnter), key.WithHelp("e", "edit")),
		NextPage:   key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←", "prev page")),
		Inventory:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inventory")),
		Dashboard:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "dashboard")),
		Logout:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		SwitchForm: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "login/signup")),
	}
}

// helpLine renders bindings as "key desc" pairs.
func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		h := b.Help()
		if i > 0 {
			out += "  "
		}
		out += h.Key + " " + h.Desc
	}
	return out
}
