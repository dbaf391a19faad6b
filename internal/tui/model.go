package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/oficina/internal/app"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenClients Screen = iota
	ScreenBudgets
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenClients:
		return "Clients"
	case ScreenBudgets:
		return "Budgets"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	clients tea.Model
	budgets tea.Model

	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenClients,
		clients:       NewClientsModel(a.ClientService),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.clients.Init()
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenClients:
		if m.clients == nil {
			m.clients = NewClientsModel(m.app.ClientService)
			return m.clients.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenBudgets:
		if m.budgets == nil {
			m.budgets = NewBudgetsModel(m.app.BudgetService, m.app.CatalogService)
			return m.budgets.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	}
	return nil
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, DefaultKeyMap.Clients):
			m.currentScreen = ScreenClients
			return m, m.initScreen(ScreenClients)

		case key.Matches(msg, DefaultKeyMap.Budgets):
			m.currentScreen = ScreenBudgets
			return m, m.initScreen(ScreenBudgets)

		case key.Matches(msg, DefaultKeyMap.Refresh):
			return m, func() tea.Msg { return RefreshDataMsg{} }
		}

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		return m, m.initScreen(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenClients:
		if m.clients != nil {
			m.clients, cmd = m.clients.Update(msg)
		}
	case ScreenBudgets:
		if m.budgets != nil {
			m.budgets, cmd = m.budgets.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("oficina - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[C]lients  [B]udgets  [R]efresh  [Q]uit")

	content := "Loading..."
	switch m.currentScreen {
	case ScreenClients:
		if m.clients != nil {
			content = m.clients.View()
		}
	case ScreenBudgets:
		if m.budgets != nil {
			content = m.budgets.View()
		}
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
