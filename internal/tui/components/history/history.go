package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	dayhistory "github.com/Naimy441/nutriuni/internal/history"
	"github.com/Naimy441/nutriuni/internal/utils"
)

type Item struct {
	Day dayhistory.Day
}

func (i Item) Title() string {
	return fmt.Sprintf("%s (%s)", i.Day.Label, i.Day.Log.Date)
}

func (i Item) Description() string {
	n := len(i.Day.Log.Items)
	noun := "items"
	if n == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%d %s · %s · %s protein", n, noun,
		utils.FormatCalories(i.Day.Log.Totals.Calories), utils.FormatGrams(i.Day.Log.Totals.Protein))
}

func (i Item) FilterValue() string { return i.Day.Log.Date }

type KeyMap struct {
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "expand"),
		),
	}
}

// Model lists archived days; the selected day's items show below the list when expanded.
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
	l.SetStatusBarItemName("day", "days")

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle}
	}
	return Model{list: l, keys: keys, loc: loc}
}

// SetDays replaces the list, keeping days that were expanded expanded.
func (m *Model) SetDays(days []dayhistory.Day) {
	expanded := make(map[string]bool)
	for _, it := range m.list.Items() {
		if item, ok := it.(Item); ok && item.Day.IsExpanded {
			expanded[item.Day.Log.Date] = true
		}
	}
	items := make([]list.Item, len(days))
	for i, d := range days {
		d.IsExpanded = expanded[d.Log.Date]
		items[i] = Item{Day: d}
	}
	m.list.SetItems(items)
}

func (m Model) Len() int { return len(m.list.Items()) }

// Selected returns the highlighted day.
func (m Model) Selected() (dayhistory.Day, bool) {
	item, ok := m.list.SelectedItem().(Item)
	return item.Day, ok
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Toggle) {
		if item, ok := m.list.SelectedItem().(Item); ok {
			item.Day.Toggle()
			cmd := m.list.SetItem(m.list.Index(), item)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) detail(d dayhistory.Day) string {
	var b strings.Builder
	for _, it := range d.Log.Items {
		fmt.Fprintf(&b, "  %s  %s - %s\n", utils.FormatClock(it.Timestamp, m.loc), it.Name, utils.FormatCalories(it.Calories))
	}
	return b.String()
}

func (m Model) View() string {
	if m.Len() == 0 {
		return "No history yet. Finished days appear here."
	}
	view := m.list.View()
	if d, ok := m.Selected(); ok && d.IsExpanded {
		view += "\n" + m.detail(d)
	}
	return view
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
