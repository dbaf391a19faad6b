package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/oficina/internal/domain"
	"github.com/andy/oficina/internal/service"
)

// clientSortFields are cycled with the sort key
var clientSortFields = []string{"id", "name", "email", "created_at"}

// ClientsModel displays one page of clients at a time
type ClientsModel struct {
	clients service.ClientService
	page    domain.Page[*domain.Client]
	request domain.PageRequest
	sortIdx int
	cursor  int
	loading bool
	err     error
}

type clientsDataMsg struct {
	page domain.Page[*domain.Client]
	err  error
}

// NewClientsModel creates a new clients screen model
func NewClientsModel(clients service.ClientService) tea.Model {
	return &ClientsModel{
		clients: clients,
		request: domain.PageRequest{Size: domain.DefaultPageSize, SortField: clientSortFields[0]},
		loading: true,
	}
}

func (m *ClientsModel) Init() tea.Cmd {
	return m.loadClients()
}

func (m *ClientsModel) loadClients() tea.Cmd {
	req := m.request
	return func() tea.Msg {
		page, err := m.clients.List(context.Background(), req)
		return clientsDataMsg{page: page, err: err}
	}
}

func (m *ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadClients()

	case clientsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.page = msg.page
			if m.cursor >= len(m.page.Items) {
				m.cursor = max(0, len(m.page.Items)-1)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.page.Items)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.NextPage):
			if m.request.Page+1 < m.page.TotalPages() {
				m.request.Page++
				m.cursor = 0
				m.loading = true
				return m, m.loadClients()
			}
		case key.Matches(msg, DefaultKeyMap.PrevPage):
			if m.request.Page > 0 {
				m.request.Page--
				m.cursor = 0
				m.loading = true
				return m, m.loadClients()
			}
		case key.Matches(msg, DefaultKeyMap.Sort):
			m.sortIdx = (m.sortIdx + 1) % len(clientSortFields)
			m.request.SortField = clientSortFields[m.sortIdx]
			m.request.Page = 0
			m.cursor = 0
			m.loading = true
			return m, m.loadClients()
		}
	}

	return m, nil
}

func (m *ClientsModel) View() string {
	if m.loading {
		return "Loading clients..."
	}

	if m.err != nil {
		return lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string
	header := "Clients" + subtitleStyle.Render(fmt.Sprintf("  sorted by %s", m.request.SortField))
	s += titleStyle.Render(header) + "\n\n"

	if len(m.page.Items) == 0 {
		s += subtitleStyle.Render("  No clients yet. Add one with 'oficina clients add'.") + "\n"
		return s
	}

	for i, client := range m.page.Items {
		s += m.renderClient(i, client) + "\n"
	}

	s += "\n" + subtitleStyle.Render(fmt.Sprintf("  Page %d of %d, %d client(s)",
		m.page.Page+1, m.page.TotalPages(), m.page.Total))
	s += "\n" + helpStyle.Render("  j/k: navigate  h/l: page  s: sort  r: refresh")

	return s
}

func (m *ClientsModel) renderClient(index int, client *domain.Client) string {
	selected := index == m.cursor

	indicator := "  "
	if selected {
		indicator = "> "
	}

	line1 := fmt.Sprintf("%s%d  %s", indicator, client.ID, client.Name)
	line2 := fmt.Sprintf("    %s  |  %s", client.Email, client.Phone)
	var line3 string
	if client.Address != nil {
		line3 = fmt.Sprintf("    %s, %s %s", truncateStr(client.Address.Street, 40), client.Address.City, client.Address.PostalCode)
	}

	nameStyle := lipgloss.NewStyle()
	if selected {
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	result := nameStyle.Render(line1) + "\n" + subtitleStyle.Render(line2)
	if line3 != "" {
		result += "\n" + subtitleStyle.Render(line3)
	}
	return result
}
