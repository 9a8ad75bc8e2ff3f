package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type optionItem struct {
	value string
	label string
}

func (i optionItem) FilterValue() string { return i.value }

// listSelect adapts a bubbles list to picker.Select.
type listSelect struct {
	l *list.Model
}

func (s listSelect) SelectedIndex() int {
	if len(s.l.Items()) == 0 {
		return -1
	}
	return s.l.Index()
}

func (s listSelect) Len() int { return len(s.l.Items()) }

func (s listSelect) Remove(i int) { s.l.RemoveItem(i) }

func (s listSelect) Append(value, label string) {
	_ = s.l.InsertItem(len(s.l.Items()), optionItem{value: value, label: label})
}

func (s listSelect) Select(i int) { s.l.Select(i) }

func selectedValue(l list.Model) string {
	if it, ok := l.SelectedItem().(optionItem); ok {
		return it.value
	}
	return ""
}

// optionDelegate renders one option per line, marking the selected one.
type optionDelegate struct {
	focused bool
}

func (d optionDelegate) Height() int                             { return 1 }
func (d optionDelegate) Spacing() int                            { return 0 }
func (d optionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(optionItem)
	if !ok {
		return
	}
	width := m.Width()
	if width <= 2 {
		width = 12
	}
	label := xansi.Truncate(it.label, width-2, "…")

	if index == m.Index() {
		fmt.Fprint(w, styleSelectedRow(d.focused).Render("▸ "+label))
		return
	}
	fmt.Fprint(w, "  "+label)
}

func newColumn(title string) list.Model {
	l := list.New([]list.Item{}, optionDelegate{}, 0, 0)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
