package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/tui/components/quick"
	"github.com/Naimy441/nutriuni/internal/tui/components/today"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// chromeHeight is the rows taken by tabs, the totals bar, status and help.
const chromeHeight = 9

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		h := max(msg.Height-chromeHeight, 3)
		m.todayModel.SetSize(msg.Width-4, h)
		m.quickModel.SetSize(msg.Width-4, h)
		m.historyModel.SetSize(msg.Width-4, h)
		return m, nil

	case tea.FocusMsg:
		// may roll the date over, which also queues a dateChangedMsg
		m.app.Lifecycle.Emit(clock.Foreground)
		m.refresh()
		return m, nil

	case tea.BlurMsg:
		m.app.Lifecycle.Emit(clock.Background)
		return m, nil

	case dateChangedMsg:
		m.refresh()
		m.status = fmt.Sprintf("A new day started. %s moved to history.", msg.Previous)
		return m, waitForDateChange(m.dateChanges)
	}

	switch m.state {
	case constants.StateAddCustom, constants.StateConfirmClear, constants.StateOnboarding:
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.cycleTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.cycleTab(-1)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.Goals):
			return m, m.startProfileForm()
		}
	}

	return m.handleAction(msg)
}

func (m *Model) cycleTab(step int) {
	for i, t := range tabs {
		if t.state == m.state {
			m.state = tabs[(i+step+len(tabs))%len(tabs)].state
			return
		}
	}
	m.state = constants.StateToday
}

// handleAction runs the store operations the components ask for and routes
// everything else to the active component.
func (m Model) handleAction(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case today.AddCustomMsg:
		return m, m.startMealForm()

	case today.ClearMsg:
		return m, m.startConfirmClear()

	case today.RemoveItemMsg:
		if err := m.app.Logs.RemoveItem(ctx, msg.ID); err != nil {
			m.status = fmt.Sprintf("Failed to remove %s: %v", msg.Name, err)
			return m, nil
		}
		m.refresh()
		m.status = fmt.Sprintf("Removed %s.", msg.Name)
		return m, nil

	case quick.RelogMsg:
		item, err := m.app.Logs.AddTrackedCopy(ctx, msg.Entry)
		if err != nil {
			m.status = fmt.Sprintf("Failed to log %s: %v", msg.Entry.Name, err)
			return m, nil
		}
		m.refresh()
		m.status = fmt.Sprintf("Logged %s again.", item.Name)
		return m, nil

	case quick.RemoveEntryMsg:
		if err := m.app.Quick.Remove(ctx, msg.ID); err != nil {
			m.status = fmt.Sprintf("Failed to update quick access: %v", err)
			return m, nil
		}
		m.refresh()
		return m, nil
	}

	switch m.state {
	case constants.StateToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case constants.StateQuick:
		m.quickModel, cmd = m.quickModel.Update(msg)
	case constants.StateHistory:
		m.historyModel, cmd = m.historyModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.leaveForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			// stay in the form so the user can fix the value or press esc
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.leaveForm()
	case huh.StateAborted:
		m.leaveForm()
	}
	return m, cmd
}

func (m *Model) leaveForm() {
	m.form = nil
	m.formError = ""
	m.state = m.previousState
	if m.state != constants.StateQuick && m.state != constants.StateHistory {
		m.state = constants.StateToday
	}
}

func (m *Model) submitForm() error {
	ctx := context.Background()

	switch m.state {
	case constants.StateAddCustom:
		meal, err := m.mealForm.Meal()
		if err != nil {
			return err
		}
		item, err := m.app.Logs.AddCustomMeal(ctx, meal)
		if err != nil {
			return fmt.Errorf("failed to log meal: %w", err)
		}
		m.status = fmt.Sprintf("Logged %s.", item.Name)

	case constants.StateConfirmClear:
		if !m.confirmed {
			return nil
		}
		if err := m.app.Logs.ClearToday(ctx); err != nil {
			return fmt.Errorf("failed to clear today: %w", err)
		}
		m.status = "Today's log cleared."

	case constants.StateOnboarding:
		p, err := m.profileForm.Profile()
		if err != nil {
			return err
		}
		g, err := m.app.Goals.SaveProfile(ctx, p)
		if err != nil {
			return err
		}
		m.status = fmt.Sprintf("Daily goal set to %s.", utils.FormatCalories(g.Calories))
	}

	m.refresh()
	return nil
}
