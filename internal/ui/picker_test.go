package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickerItems() []PickerItem {
	return []PickerItem{
		{Value: "/dev/ttyUSB0", Label: "CAN Relay", Detail: "USB 1a86:7523"},
		{Value: "/dev/ttyS0"},
	}
}

func updatePicker(t *testing.T, m PickerModel, msg tea.Msg) (PickerModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(PickerModel)
	require.True(t, ok)
	return pm, cmd
}

func TestPickerItem(t *testing.T) {
	labeled := pickerItem{item: pickerItems()[0]}
	assert.Equal(t, "CAN Relay", labeled.Title())
	assert.Equal(t, "USB 1a86:7523", labeled.Description())
	assert.Contains(t, labeled.FilterValue(), "/dev/ttyUSB0")

	bare := pickerItem{item: pickerItems()[1]}
	assert.Equal(t, "/dev/ttyS0", bare.Title())
}

func TestPickerModel_Select(t *testing.T) {
	m := NewPickerModel("Pick a port", pickerItems())

	m, cmd := updatePicker(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.NotNil(t, m.Selected())
	assert.Equal(t, "/dev/ttyUSB0", m.Selected().Value)
	assert.False(t, m.ManualEntry())
	assert.Empty(t, m.View())
}

func TestPickerModel_Manual(t *testing.T) {
	m := NewPickerModel("Pick a port", pickerItems())

	m, _ = updatePicker(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.True(t, m.ManualEntry())
	assert.Nil(t, m.Selected())
}

func TestPickerModel_Cancel(t *testing.T) {
	m := NewPickerModel("Pick a port", pickerItems())
	assert.Contains(t, m.View(), "Pick a port")

	m, cmd := updatePicker(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)
	assert.Nil(t, m.Selected())
	assert.False(t, m.ManualEntry())
}

func TestPickWithIO_NoItems(t *testing.T) {
	picked, cancelled, err := PickWithIO("Pick", nil, nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, picked)
	assert.False(t, cancelled)
}
