package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/xlayout/internal/engine"
	"github.com/1broseidon/xlayout/internal/profile"
	"github.com/1broseidon/xlayout/internal/xrandr"
)

// statusMsg is sent after an action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

func clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// model is the root bubbletea model for the picker.
type model struct {
	engine *engine.Engine
	list   list.Model

	state    *xrandr.State
	stateErr string

	statusText string

	// Save prompt
	saving    bool
	saveInput textinput.Model

	// Delete confirmation overlay
	confirm       *huh.Form
	confirmTarget string
	confirmValue  bool

	width  int
	height int
}

func newModel(eng *engine.Engine) model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "profile name"
	input.CharLimit = 60

	m := model{
		engine:    eng,
		list:      l,
		saveInput: input,
	}
	m.refresh()
	return m
}

func (m *model) refresh() {
	st, err := m.engine.Snapshot()
	if err != nil {
		m.stateErr = err.Error()
	} else {
		m.state = st
		m.stateErr = ""
	}

	profiles, err := profile.List()
	if err != nil {
		profiles = nil
	}
	m.list.SetItems(buildPickItems(profiles))
}

func (m model) selectedItem() (pickItem, bool) {
	item, ok := m.list.SelectedItem().(pickItem)
	return item, ok
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sz.Width
		m.height = sz.Height
		m.updateListSize()
		return m, nil
	}

	switch msg := msg.(type) {
	case statusMsg:
		m.statusText = msg.text
		return m, clearStatusLater()
	case clearStatusMsg:
		m.statusText = ""
		return m, nil
	}

	// Overlays capture input while active.
	if m.confirm != nil {
		return m.updateConfirm(msg)
	}
	if m.saving {
		return m.updateSavePrompt(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter":
			return m.runSelected()
		case "s":
			m.saving = true
			m.saveInput.SetValue("")
			m.saveInput.Focus()
			return m, textinput.Blink
		case "d":
			if item, ok := m.selectedItem(); ok && item.kind == itemProfile {
				m.showDeleteConfirm(item.profile)
				return m, m.confirm.Init()
			}
		case "r":
			m.refresh()
			m.statusText = "refreshed"
			return m, clearStatusLater()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) runSelected() (tea.Model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}

	var text string
	switch item.kind {
	case itemLayout:
		var reset bool
		err := engine.Locked(func() error {
			var err error
			_, reset, err = m.engine.Apply(item.layout)
			return err
		})
		switch {
		case err != nil:
			text = fmt.Sprintf("error: %v", err)
		case reset:
			text = fmt.Sprintf("%s failed; display reset to automatic mode", item.layout)
		default:
			text = fmt.Sprintf("applied: %s", item.layout)
		}
	case itemClean:
		var cleaned []string
		err := engine.Locked(func() error {
			var err error
			cleaned, err = m.engine.Clean()
			return err
		})
		if err != nil {
			text = fmt.Sprintf("error: %v", err)
		} else {
			text = fmt.Sprintf("cleaned %d output(s)", len(cleaned))
		}
	case itemProfile:
		err := engine.Locked(func() error {
			_, err := m.engine.Load(item.profile)
			return err
		})
		if err != nil {
			text = fmt.Sprintf("error: %v", err)
		} else {
			text = fmt.Sprintf("loaded: %s", item.profile)
		}
	}

	m.refresh()
	m.statusText = text
	return m, clearStatusLater()
}

func (m model) updateSavePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			m.saving = false
			return m, nil
		case "enter":
			name := m.saveInput.Value()
			m.saving = false
			if err := m.engine.Save(name); err != nil {
				m.statusText = fmt.Sprintf("error: %v", err)
			} else {
				m.statusText = fmt.Sprintf("saved: %s", name)
				m.refresh()
			}
			return m, clearStatusLater()
		}
	}

	var cmd tea.Cmd
	m.saveInput, cmd = m.saveInput.Update(msg)
	return m, cmd
}

func (m *model) showDeleteConfirm(name string) {
	m.confirmTarget = name
	m.confirmValue = false
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete profile %q?", name)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.confirmValue),
		),
	)
}

func (m model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State == huh.StateCompleted {
		name := m.confirmTarget
		m.confirm = nil
		m.confirmTarget = ""
		if !m.confirmValue {
			return m, nil
		}
		if err := profile.Delete(name); err != nil {
			m.statusText = fmt.Sprintf("error: %v", err)
		} else {
			m.statusText = fmt.Sprintf("deleted: %s", name)
			m.refresh()
		}
		return m, clearStatusLater()
	}

	return m, cmd
}

func (m *model) updateListSize() {
	// Reserve 2 lines for the status bar at the bottom.
	listHeight := m.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(m.sidebarWidth(), listHeight)
}

func (m model) sidebarWidth() int {
	sw := m.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.confirm != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirm.View())
	}

	sidebarWidth := m.sidebarWidth()
	previewWidth := m.width - sidebarWidth - 3
	if previewWidth < 10 {
		previewWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(m.height - 2).
		Render(m.list.View())

	preview := m.renderPreview(previewWidth)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "   ", preview)

	return lipgloss.JoinVertical(lipgloss.Left, columns, m.renderStatus())
}

func (m model) renderStatus() string {
	if m.saving {
		return lipgloss.NewStyle().
			Width(m.width).
			Padding(0, 1).
			Render("save as: " + m.saveInput.View())
	}

	left := ""
	if m.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(m.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("enter:apply  s:save  d:delete  r:refresh  q:quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
