package quick

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

type RelogMsg struct {
	Entry models.QuickAccessEntry
}

type RemoveEntryMsg struct {
	ID string
}

type Item struct {
	Entry models.QuickAccessEntry
	loc   *time.Location
}

func (i Item) Title() string {
	return fmt.Sprintf("%s (%s)", i.Entry.Name, i.Entry.Restaurant)
}

func (i Item) Description() string {
	last := time.UnixMilli(i.Entry.LastUsedAt).In(i.loc).Format("Jan 2 15:04")
	return fmt.Sprintf("%s · used %dx · last %s", utils.FormatCalories(i.Entry.Calories), i.Entry.UseCount, last)
}

func (i Item) FilterValue() string { return i.Entry.Name + " " + i.Entry.Restaurant }

type KeyMap struct {
	Relog  key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Relog: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log again"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "forget"),
		),
	}
}

// Model lists quick-access entries, most recently used first.
type Model struct {
	list list.Model
	keys KeyMap
	loc  *time.Location
}

func New(loc *time.Location, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("entry", "entries")

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Relog, keys.Delete}
	}
	return Model{list: l, keys: keys, loc: loc}
}

func (m *Model) SetEntries(entries []models.QuickAccessEntry) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e, loc: m.loc}
	}
	m.list.SetItems(items)
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Relog):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return RelogMsg{Entry: item.Entry} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return RemoveEntryMsg{ID: item.Entry.ID} }
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
		return "Nothing here yet. Items you log show up for one-key relogging."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
