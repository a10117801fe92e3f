package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyConnect    = "c"
	KeyResetTrip  = "r"
	KeyToggleHelp = "?"
	KeyClose      = "esc"
)

// KeyMap lists the dashboard bindings for the help line.
type KeyMap struct {
	Connect key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Connect: key.NewBinding(key.WithKeys(KeyConnect), key.WithHelp("c", "connect/disconnect")),
		Reset:   key.NewBinding(key.WithKeys(KeyResetTrip), key.WithHelp("r", "reset trip")),
		Help:    key.NewBinding(key.WithKeys(KeyToggleHelp), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys(KeyQuit, KeyQuitAlt), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Connect, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Connect, k.Reset}, {k.Help, k.Quit}}
}

// HandleKeyMsg processes keyboard input. It reports whether the key was
// handled and any command to run.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && msg.String() == KeyClose {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Sequence(m.stopCmd(), tea.Quit)

	case key.Matches(msg, m.keys.Connect):
		return true, m.toggleConnection()

	case key.Matches(msg, m.keys.Reset):
		m.trip.Reset()
		return true, nil
	}
	return false, nil
}
