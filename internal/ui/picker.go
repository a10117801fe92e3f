package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerItem is one choice in a Picker: a serial port, an ssh alias, or a
// discovered peer.
type PickerItem struct {
	Value  string // written to the config when picked
	Label  string // shown as the title; defaults to Value
	Detail string // shown under the title
}

type pickerItem struct {
	item PickerItem
}

func (i pickerItem) Title() string {
	if i.item.Label != "" {
		return i.item.Label
	}
	return i.item.Value
}

func (i pickerItem) Description() string { return i.item.Detail }

func (i pickerItem) FilterValue() string {
	return strings.Join([]string{i.item.Value, i.item.Label, i.item.Detail}, " ")
}

// PickerModel is a Bubble Tea model for choosing one item from a list,
// with an escape hatch to type a value by hand.
type PickerModel struct {
	list        list.Model
	selected    *PickerItem
	manualEntry bool
	quitting    bool
}

type pickerKeyMap struct {
	Enter  key.Binding
	Manual key.Binding
	Quit   key.Binding
}

var pickerKeys = pickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Manual: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "manual entry"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewPickerModel creates a picker titled title over items.
func NewPickerModel(title string, items []PickerItem) PickerModel {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = pickerItem{item: it}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorNeonCyan).
		BorderForeground(ColorNeonPink)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted).
		BorderForeground(ColorNeonPink)

	l := list.New(listItems, delegate, 80, 15)
	l.Title = title
	l.SetShowStatusBar(len(items) > 5)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = MutedStyle()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{pickerKeys.Manual}
	}

	return PickerModel{list: l}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, pickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(pickerItem); ok {
				picked := item.item
				m.selected = &picked
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, pickerKeys.Manual):
			m.manualEntry = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, pickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View() + MutedStyle().Render("\n  Press 'm' to type a value instead")
}

// Selected returns the picked item, or nil if cancelled.
func (m PickerModel) Selected() *PickerItem {
	return m.selected
}

// ManualEntry reports whether the user asked to type a value.
func (m PickerModel) ManualEntry() bool {
	return m.manualEntry
}

// Pick runs a picker on the terminal. It returns the picked item, or nil
// with cancelled=false when the user wants manual entry (or there was
// nothing to pick), or nil with cancelled=true.
func Pick(title string, items []PickerItem) (picked *PickerItem, cancelled bool, err error) {
	return PickWithIO(title, items, os.Stdout, os.Stdin)
}

// PickWithIO runs a picker with custom I/O.
func PickWithIO(title string, items []PickerItem, output io.Writer, input io.Reader) (*PickerItem, bool, error) {
	if len(items) == 0 {
		return nil, false, nil
	}

	p := tea.NewProgram(
		NewPickerModel(title, items),
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	final, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("picker error: %w", err)
	}

	m, ok := final.(PickerModel)
	if !ok {
		return nil, true, nil
	}
	if m.ManualEntry() {
		return nil, false, nil
	}
	if m.Selected() == nil {
		return nil, true, nil
	}
	return m.Selected(), false, nil
}
