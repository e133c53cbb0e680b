package prompt_test

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/chromedriver-installer/internal/platform"
	"github.com/donaldgifford/chromedriver-installer/internal/prompt"
)

func press(m *prompt.SelectModel, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}

	return cmd
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyJ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	keyK     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
)

func TestSelectModel_StartsOnDetected(t *testing.T) {
	t.Parallel()

	m := prompt.NewSelectModel(platform.Mac64, platform.All())
	assert.Equal(t, platform.Mac64, m.Cursor())
}

func TestSelectModel_UnknownDetectedStartsAtTop(t *testing.T) {
	t.Parallel()

	m := prompt.NewSelectModel("", platform.All())
	assert.Equal(t, platform.Linux32, m.Cursor())
}

func TestSelectModel_AcceptDefault(t *testing.T) {
	t.Parallel()

	m := prompt.NewSelectModel(platform.Linux64, platform.All())

	cmd := press(m, keyEnter)
	require.NotNil(t, cmd)

	p, err := m.Selected()
	require.NoError(t, err)
	assert.Equal(t, platform.Linux64, p)
}

func TestSelectModel_Navigate(t *testing.T) {
	t.Parallel()

	m := prompt.NewSelectModel(platform.Linux64, platform.All())

	press(m, keyDown, keyJ)
	assert.Equal(t, platform.Win32, m.Cursor())

	// Moving past the end is clamped.
	press(m, keyDown)
	assert.Equal(t, platform.Win32, m.Cursor())

	press(m, keyUp, keyK, keyUp, keyUp)
	assert.Equal(t, platform.Linux32, m.Cursor())

	press(m, keyEnter)

	p, err := m.Selected()
	require.NoError(t, err)
	assert.Equal(t, platform.Linux32, p)
}

func TestSelectModel_Cancel(t *testing.T) {
	t.Parallel()

	m := prompt.NewSelectModel(platform.Linux64, platform.All())

	cmd := press(m, keyEsc)
	require.NotNil(t, cmd)

	_, err := m.Selected()
	require.ErrorIs(t, err, prompt.ErrCancelled)
}

func TestSelectModel_NotSelectedYet(t *testing.T) {
	t.Parallel()

	m := prompt.NewSelectModel(platform.Linux64, platform.All())

	_, err := m.Selected()
	require.ErrorIs(t, err, prompt.ErrCancelled)
}

func TestSelectModel_IgnoresOtherMessages(t *testing.T) {
	t.Parallel()

	m := prompt.NewSelectModel(platform.Linux64, platform.All())

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.Equal(t, platform.Linux64, m.Cursor())
}

func TestSelectModel_View(t *testing.T) {
	t.Parallel()

	m := prompt.NewSelectModel(platform.Mac64, platform.All())

	view := m.View()
	assert.Contains(t, view, prompt.Title)
	assert.Contains(t, view, "Linux 32Bits")
	assert.Contains(t, view, "Linux 64Bits")
	assert.Contains(t, view, "> Mac OS X")
	assert.Contains(t, view, "Windows")
	assert.Contains(t, view, "(detected)")

	press(m, keyEnter)
	assert.Empty(t, m.View())
}

func TestNewPlatformSelector(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("j\r")
	var out bytes.Buffer

	sel := prompt.NewPlatformSelector(in, &out)

	p, err := sel(platform.Linux64, platform.All())
	require.NoError(t, err)
	assert.Equal(t, platform.Mac64, p)
}
