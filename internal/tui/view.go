package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/goals"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateToday:
		content = docStyle.Render(m.todayModel.View())
	case constants.StateQuick:
		content = docStyle.Render(m.quickModel.View())
	case constants.StateHistory:
		content = docStyle.Render(m.historyModel.View())
	case constants.StateAddCustom, constants.StateOnboarding, constants.StateConfirmClear:
		content = m.viewForm()
	}

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewTotals(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var rendered []string
	for _, t := range tabs {
		if m.state == t.state {
			rendered = append(rendered, activeTabStyle.Render(t.title))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(t.title))
		}
	}
	rendered = append(rendered, dateStyle.Render(m.date))
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// viewTotals renders today's totals, against the goals when they are set.
func (m Model) viewTotals() string {
	var g models.NutritionGoals
	if m.goals != nil {
		g = *m.goals
	}

	var parts []string
	for _, row := range goals.ComputeProgress(m.totals, g) {
		text := fmt.Sprintf("%s %s", row.Name, utils.FormatAmount(row.Consumed, row.Unit))
		if row.Target > 0 {
			text += dimStyle.Render(" / " + utils.FormatAmount(row.Target, row.Unit))
		}
		if row.Over() {
			text = overStyle.Render(text)
		}
		parts = append(parts, text)
	}

	line := " " + strings.Join(parts, dimStyle.Render("  ·  "))
	if m.goals == nil {
		line += "\n " + warningStyle.Render("No daily goals yet. Press G to set them.")
	}
	return line
}

func (m Model) viewForm() string {
	var header string
	switch m.state {
	case constants.StateAddCustom:
		header = "Log a custom meal"
	case constants.StateOnboarding:
		header = "Tell us about yourself to calculate daily goals"
	case constants.StateConfirmClear:
		header = dangerStyle.Render("This removes every item logged today.")
	}

	parts := []string{header, "", m.form.View()}
	if m.formError != "" {
		parts = append(parts, dangerStyle.Render(m.formError))
	}
	parts = append(parts, dimStyle.Render("esc to cancel"))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
