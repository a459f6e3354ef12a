// Package tui is the interactive terminal view. Terminal focus and blur are
// the app's foreground and background transitions.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Naimy441/nutriuni/internal/app"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/dailylog"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/tui/components/history"
	"github.com/Naimy441/nutriuni/internal/tui/components/quick"
	"github.com/Naimy441/nutriuni/internal/tui/components/today"
	"github.com/Naimy441/nutriuni/internal/tui/forms"
)

// historyDays bounds the History tab.
const historyDays = 30

type tab struct {
	state constants.SessionState
	title string
}

var tabs = []tab{
	{constants.StateToday, "Today"},
	{constants.StateQuick, "Quick Access"},
	{constants.StateHistory, "History"},
}

// dateChangedMsg carries a rollover from the store's listener into the update loop.
type dateChangedMsg dailylog.DateChange

type Model struct {
	app *app.App

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	todayModel   today.Model
	quickModel   quick.Model
	historyModel history.Model

	date   string
	totals models.DailyNutritionTotals
	goals  *models.NutritionGoals

	form        *huh.Form
	mealForm    *forms.MealFormModel
	profileForm *forms.ProfileFormModel
	confirmed   bool
	formError   string
	status      string

	dateChanges <-chan dailylog.DateChange

	quitting bool
	width    int
	height   int
}

// NewModel builds the view over a started app. changes may be nil.
func NewModel(a *app.App, changes <-chan dailylog.DateChange) Model {
	m := Model{
		app:          a,
		state:        constants.StateToday,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		todayModel:   today.New(a.Location, 0, 0),
		quickModel:   quick.New(a.Location, 0, 0),
		historyModel: history.New(a.Location, 0, 0),
		dateChanges:  changes,
	}
	m.refresh()

	if !a.Goals.OnboardingComplete(context.Background()) {
		m.startProfileForm()
	}
	return m
}

// Run subscribes to date changes and blocks until the user quits.
func Run(a *app.App) error {
	changes := make(chan dailylog.DateChange, 4)
	unsub := a.Logs.OnDateChange(func(c dailylog.DateChange) {
		select {
		case changes <- c:
		default:
			// a refresh is already queued
		}
	})
	defer unsub()

	p := tea.NewProgram(NewModel(a, changes), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

func waitForDateChange(ch <-chan dailylog.DateChange) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return dateChangedMsg(c)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForDateChange(m.dateChanges)}
	if m.form != nil {
		cmds = append(cmds, m.form.Init())
	}
	return tea.Batch(cmds...)
}

// refresh rereads everything shown. Reads never fail; degraded reads come back empty.
func (m *Model) refresh() {
	ctx := context.Background()

	log := m.app.Logs.GetTodaysLog(ctx)
	m.date = log.Date
	m.totals = log.Totals
	m.todayModel.SetItems(log.Items)
	m.quickModel.SetEntries(m.app.Quick.Entries(ctx))
	m.historyModel.SetDays(m.app.History.MostRecentDays(ctx, historyDays))

	m.goals = nil
	if g, ok := m.app.Goals.Goals(ctx); ok {
		m.goals = &g
	}
}

func (m *Model) startForm(state constants.SessionState, f *huh.Form) tea.Cmd {
	if m.state != constants.StateAddCustom && m.state != constants.StateConfirmClear && m.state != constants.StateOnboarding {
		m.previousState = m.state
	}
	m.state = state
	m.form = f
	m.formError = ""
	return f.Init()
}

func (m *Model) startMealForm() tea.Cmd {
	m.mealForm = &forms.MealFormModel{}
	return m.startForm(constants.StateAddCustom, forms.NewMealForm(m.mealForm))
}

func (m *Model) startProfileForm() tea.Cmd {
	m.profileForm = &forms.ProfileFormModel{}
	if p, ok := m.app.Goals.Profile(context.Background()); ok {
		m.profileForm = forms.ProfileFormFrom(p)
	}
	return m.startForm(constants.StateOnboarding, forms.NewProfileForm(m.profileForm))
}

func (m *Model) startConfirmClear() tea.Cmd {
	m.confirmed = false
	return m.startForm(constants.StateConfirmClear, forms.NewConfirmForm("Clear everything logged today?", &m.confirmed))
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateToday:
		tk := today.DefaultKeyMap()
		keys = append(keys, tk.Add, tk.Delete, tk.Clear)
	case constants.StateQuick:
		qk := quick.DefaultKeyMap()
		keys = append(keys, qk.Relog, qk.Delete)
	case constants.StateHistory:
		keys = append(keys, history.DefaultKeyMap().Toggle)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Goals, m.keys.Help, m.keys.Quit}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	return [][]key.Binding{global, navigation, m.ShortHelp()[3:]}
}
