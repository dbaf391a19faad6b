package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/oficina/internal/service"
)

// BudgetsModel lists budgets and shows the lines of the selected one
type BudgetsModel struct {
	budgets service.BudgetService
	catalog service.CatalogService

	views        []*service.BudgetView
	serviceNames map[int64]string
	partNames    map[int64]string
	cursor       int
	loading      bool
	err          error
}

type budgetsDataMsg struct {
	views        []*service.BudgetView
	serviceNames map[int64]string
	partNames    map[int64]string
	err          error
}

// NewBudgetsModel creates a new budgets screen model
func NewBudgetsModel(budgets service.BudgetService, catalog service.CatalogService) tea.Model {
	return &BudgetsModel{
		budgets: budgets,
		catalog: catalog,
		loading: true,
	}
}

func (m *BudgetsModel) Init() tea.Cmd {
	return m.loadBudgets()
}

func (m *BudgetsModel) loadBudgets() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		views, err := m.budgets.List(ctx)
		if err != nil {
			return budgetsDataMsg{err: err}
		}

		// Names are only decoration; a failed catalog read leaves ids on screen
		serviceNames := make(map[int64]string)
		if services, err := m.catalog.ListServices(ctx); err == nil {
			for _, s := range services {
				serviceNames[s.ID] = s.Name
			}
		}
		partNames := make(map[int64]string)
		if parts, err := m.catalog.ListParts(ctx); err == nil {
			for _, p := range parts {
				partNames[p.ID] = p.Name
			}
		}

		return budgetsDataMsg{views: views, serviceNames: serviceNames, partNames: partNames}
	}
}

func (m *BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadBudgets()

	case budgetsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.views = msg.views
			m.serviceNames = msg.serviceNames
			m.partNames = msg.partNames
			if m.cursor >= len(m.views) {
				m.cursor = max(0, len(m.views)-1)
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
			if m.cursor < len(m.views)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *BudgetsModel) View() string {
	if m.loading {
		return "Loading budgets..."
	}

	if m.err != nil {
		return lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	s := titleStyle.Render("Budgets") + "\n\n"

	if len(m.views) == 0 {
		s += subtitleStyle.Render("  No budgets yet. Create one with 'oficina budgets create'.") + "\n"
		return s
	}

	var list string
	for i, v := range m.views {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			indicator = "> "
			style = style.Bold(true).Foreground(primaryColor)
		}
		list += style.Render(fmt.Sprintf("%s#%-4d client %-4d %s  %s",
			indicator, v.ID, v.ClientID, v.CreatedAt.Format("02/01/2006"), formatMoney(v.AmountDue()))) + "\n"
	}

	detail := m.renderDetail(m.views[m.cursor])
	s += lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", boxStyle.Render(detail))
	s += "\n\n" + helpStyle.Render("  j/k: navigate  r: refresh")
	return s
}

func (m *BudgetsModel) renderDetail(v *service.BudgetView) string {
	s := titleStyle.Render(fmt.Sprintf("Budget #%d", v.ID)) + "\n"
	s += subtitleStyle.Render(fmt.Sprintf("Client %d, %s", v.ClientID, v.CreatedAt.Format("02/01/2006"))) + "\n\n"

	if len(v.Services) > 0 {
		s += "Services\n"
		for _, sq := range v.Services {
			s += fmt.Sprintf("  %3dx %s\n", sq.Quantity, truncateStr(nameOr(m.serviceNames, sq.ServiceID, "service"), 30))
		}
	}
	if len(v.Parts) > 0 {
		s += "Parts\n"
		for _, pq := range v.Parts {
			s += fmt.Sprintf("  %3dx %s\n", pq.Quantity, truncateStr(nameOr(m.partNames, pq.PartID, "part"), 30))
		}
	}

	s += "\n"
	s += fmt.Sprintf("Total:    %s\n", totalStyle.Render(formatMoney(v.Total)))
	s += fmt.Sprintf("Discount: %s\n", discountStyle.Render(formatMoney(v.Discount)))
	s += fmt.Sprintf("Due:      %s", totalStyle.Render(formatMoney(v.AmountDue())))
	return s
}

func nameOr(names map[int64]string, id int64, kind string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("%s %d", kind, id)
}
