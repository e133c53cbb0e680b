// Package prompt asks the user to confirm or override the detected platform.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/donaldgifford/chromedriver-installer/internal/platform"
)

// ErrCancelled is returned when the user aborts the selection.
var ErrCancelled = errors.New("platform selection cancelled")

// Title is shown above the list of platforms.
const Title = "Please select the platform:"

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	detectedStyle = lipgloss.NewStyle().Faint(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// SelectModel is a single-choice list of platforms with the cursor starting
// on the detected one.
type SelectModel struct {
	choices   []platform.Platform
	detected  platform.Platform
	cursor    int
	chosen    platform.Platform
	cancelled bool
}

// NewSelectModel creates a model pre-selecting detected. If detected is not
// among choices the cursor starts on the first entry.
func NewSelectModel(detected platform.Platform, choices []platform.Platform) *SelectModel {
	m := &SelectModel{
		choices:  choices,
		detected: detected,
	}

	for i, c := range choices {
		if c == detected {
			m.cursor = i

			break
		}
	}

	return m
}

// Init implements tea.Model.
func (m *SelectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.choices) > 0 {
			m.chosen = m.choices[m.cursor]
		}

		return m, tea.Quit
	case "esc", "ctrl+c", "q":
		m.cancelled = true

		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m *SelectModel) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}

	var b strings.Builder

	b.WriteString(Title)
	b.WriteString("\n\n")

	for i, c := range m.choices {
		line := "  " + c.DisplayName()
		if i == m.cursor {
			line = cursorStyle.Render("> " + c.DisplayName())
		}

		if c == m.detected {
			line += detectedStyle.Render(" (detected)")
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ to move, enter to select, esc to cancel"))
	b.WriteString("\n")

	return b.String()
}

// Cursor returns the highlighted platform.
func (m *SelectModel) Cursor() platform.Platform {
	if len(m.choices) == 0 {
		return ""
	}

	return m.choices[m.cursor]
}

// Selected returns the confirmed platform, or ErrCancelled.
func (m *SelectModel) Selected() (platform.Platform, error) {
	if m.cancelled || m.chosen == "" {
		return "", ErrCancelled
	}

	return m.chosen, nil
}

// NewPlatformSelector returns a platform.SelectFn that runs an interactive
// list on in/out.
func NewPlatformSelector(in io.Reader, out io.Writer) platform.SelectFn {
	return func(detected platform.Platform, choices []platform.Platform) (platform.Platform, error) {
		m := NewSelectModel(detected, choices)

		final, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out)).Run()
		if err != nil {
			return "", fmt.Errorf("running platform prompt: %w", err)
		}

		sm, ok := final.(*SelectModel)
		if !ok {
			return "", fmt.Errorf("unexpected prompt model %T", final)
		}

		return sm.Selected()
	}
}
