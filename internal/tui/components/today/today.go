package today

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

type AddCustomMsg struct{}

type RemoveItemMsg struct {
	ID   string
	Name string
}

type ClearMsg struct{}

type Item struct {
	Tracked models.TrackedItem
	loc     *time.Location
}

func (i Item) Title() string { return i.Tracked.Name }

func (i Item) Description() string {
	source := i.Tracked.Restaurant
	if i.Tracked.IsCustom() {
		source = "custom meal"
	}
	return fmt.Sprintf("%s · %s · %s · %s protein",
		utils.FormatClock(i.Tracked.Timestamp, i.loc), source,
		utils.FormatCalories(i.Tracked.Calories), utils.FormatGrams(i.Tracked.Protein))
}

func (i Item) FilterValue() string { return i.Tracked.Name }

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
	Clear  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add custom meal"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear today"),
		),
	}
}

// Model lists today's items in the order they were logged.
type Model struct {
	list list.Model
	keys KeyMap
	loc  *time.Location
}

func New(loc *time.Location, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("item", "items")

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete, keys.Clear}
	}
	return Model{list: l, keys: keys, loc: loc}
}

func (m *Model) SetItems(items []models.TrackedItem) {
	listItems := make([]list.Item, len(items))
	for i, t := range items {
		listItems[i] = Item{Tracked: t, loc: m.loc}
	}
	m.list.SetItems(listItems)
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddCustomMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return RemoveItemMsg{ID: item.Tracked.ID, Name: item.Tracked.Name}
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			if m.Len() > 0 {
				return m, func() tea.Msg { return ClearMsg{} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Len() == 0 {
		return "Nothing logged yet today. Press 'a' to add a custom meal or relog one from Quick Access."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
