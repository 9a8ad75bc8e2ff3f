package tui

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"graph-history/internal/history"
	"graph-history/internal/logger"
	"graph-history/internal/picker"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var log = logger.Get("tui")

type column int

const (
	colYear column = iota
	colMonth
	colDay
)

// SelectionStore persists the last picked date between runs.
type SelectionStore interface {
	Load() (picker.Selection, bool, error)
	Save(picker.Selection) error
}

type Options struct {
	// OutputDir is shown in the header only.
	OutputDir string
	// FS is the output directory graphs are listed from.
	FS fs.FS
	// Load returns a fresh history; it is called on start and on rescan.
	Load       func() (*history.History, error)
	Selections SelectionStore
	Filters    string
}

type appModel struct {
	opts Options
	hist *history.History

	years  list.Model
	months list.Model
	days   list.Model
	focus  column

	date   history.Date
	graphs []string
	status string
	err    error

	width  int
	height int
}

func newAppModel(opts Options) (appModel, error) {
	m := appModel{
		opts:   opts,
		years:  newColumn("Years"),
		months: newColumn("Months"),
		days:   newColumn("Days"),
		focus:  colYear,
	}
	m.setFocus(colYear)

	h, err := opts.Load()
	if err != nil {
		return m, err
	}
	m.hist = h

	var want picker.Selection
	if opts.Selections != nil {
		sel, ok, err := opts.Selections.Load()
		if err != nil {
			log.Warningf("load selection: %v", err)
		} else if ok {
			want = sel
		}
	}
	m.restore(want)
	return m, nil
}

func (m *appModel) sync() picker.Synchronizer {
	return picker.Synchronizer{
		Year:  listSelect{l: &m.years},
		Month: listSelect{l: &m.months},
		Day:   listSelect{l: &m.days},
	}
}

// restore repopulates all columns, preferring sel and falling back to the
// latest date when sel no longer exists.
func (m *appModel) restore(sel picker.Selection) {
	m.err = nil
	if m.hist.Empty() {
		m.clearColumns()
		m.status = "no graphs found in " + emptyAsDash(m.opts.OutputDir)
		m.refreshGraphs()
		return
	}
	p := m.sync()
	if err := p.SelectByName(m.hist, sel); err != nil {
		log.Infof("selection %+v not restored: %v", sel, err)
		if err := p.PopulateYears(m.hist); err != nil {
			m.err = err
		}
	}
	m.refreshGraphs()
}

func (m *appModel) clearColumns() {
	picker.RemoveOptions(listSelect{l: &m.years})
	picker.RemoveOptions(listSelect{l: &m.months})
	picker.RemoveOptions(listSelect{l: &m.days})
}

func (m *appModel) column(c column) *list.Model {
	switch c {
	case colMonth:
		return &m.months
	case colDay:
		return &m.days
	default:
		return &m.years
	}
}

func (m *appModel) setFocus(c column) {
	if c < colYear {
		c = colYear
	}
	if c > colDay {
		c = colDay
	}
	m.focus = c
	for _, cc := range []column{colYear, colMonth, colDay} {
		m.column(cc).SetDelegate(optionDelegate{focused: cc == c})
	}
}

// move shifts the focused column's selection and re-syncs the columns to its right.
func (m *appModel) move(delta int, absolute bool) {
	l := m.column(m.focus)
	n := len(l.Items())
	if n == 0 {
		return
	}
	i := l.Index() + delta
	if absolute {
		i = delta
		if delta < 0 {
			i = n - 1
		}
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	if i == l.Index() {
		return
	}
	l.Select(i)

	p := m.sync()
	var err error
	switch m.focus {
	case colYear:
		err = p.UpdateMonths(m.hist)
	case colMonth:
		err = p.UpdateDays(m.hist)
	}
	m.err = err
	m.refreshGraphs()
}

func (m *appModel) current() (picker.Selection, bool) {
	if m.hist.Empty() {
		return picker.Selection{}, false
	}
	sel, err := m.sync().Current(m.hist)
	if err != nil {
		return picker.Selection{}, false
	}
	return sel, true
}

func (m *appModel) refreshGraphs() {
	m.graphs = nil
	m.date = history.Date{}
	sel, ok := m.current()
	if !ok {
		return
	}
	m.date = history.Date{Year: sel.Year, Month: sel.Month, Day: sel.Day}
	if m.opts.FS == nil {
		return
	}
	gs, err := history.Graphs(m.opts.FS, m.date, m.opts.Filters)
	if err != nil {
		m.err = err
		return
	}
	m.graphs = gs
}

func (m *appModel) rescan() {
	prev, _ := m.current()
	h, err := m.opts.Load()
	if err != nil {
		m.err = err
		return
	}
	m.hist = h
	m.restore(prev)
	ys, ms, ds := h.Counts()
	m.status = fmt.Sprintf("rescanned: %d years, %d months, %d days", ys, ms, ds)
}

func (m *appModel) saveSelection() {
	if m.opts.Selections == nil {
		return
	}
	sel, ok := m.current()
	if !ok {
		return
	}
	if err := m.opts.Selections.Save(sel); err != nil {
		log.Errorf("save selection: %v", err)
	}
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "ctrl+c", "q":
			m.saveSelection()
			return m, tea.Quit
		case "tab", "right", "l":
			m.setFocus(m.focus + 1)
		case "shift+tab", "left", "h":
			m.setFocus(m.focus - 1)
		case "up", "k", "ctrl+p":
			m.move(-1, false)
		case "down", "j", "ctrl+n":
			m.move(1, false)
		case "home", "g":
			m.move(0, true)
		case "end", "G":
			m.move(-1, true)
		case "r":
			m.rescan()
		}
	}
	return m, nil
}

func (m *appModel) resize() {
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	m.years.SetSize(8, h)
	m.months.SetSize(10, h)
	m.days.SetSize(8, h)
}

func (m appModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("graphhist  Dir=%s  Date=%s", emptyAsDash(m.opts.OutputDir), emptyAsDash(dateString(m.date))),
	)

	cols := []string{
		m.renderColumn(colYear, "Year", m.years),
		m.renderColumn(colMonth, "Month", m.months),
		m.renderColumn(colDay, "Day", m.days),
	}
	used := 0
	for _, c := range cols {
		used += lipgloss.Width(c)
	}
	paneW := m.width - used - 2
	if paneW < 20 {
		paneW = 40
	}
	cols = append(cols, lipgloss.NewStyle().PaddingLeft(1).Render(RenderMarkdown(m.graphsMarkdown(), paneW)))
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	status := styleMuted().Render(m.status)
	if m.err != nil {
		status = styleError().Render(m.err.Error())
	}
	footer := styleMuted().Render("tab/←→: column  ↑↓: move  g/G: first/last  r: rescan  q: quit")
	return strings.Join([]string{header, body, status, footer}, "\n")
}

func (m appModel) renderColumn(c column, title string, l list.Model) string {
	focused := m.focus == c
	content := styleColumnTitle(focused).Render(title) + "\n" + l.View()
	return styleColumn(focused).Render(content)
}

func (m appModel) graphsMarkdown() string {
	if m.date.IsZero() {
		return "_No date selected._"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", dateString(m.date))
	if len(m.graphs) == 0 {
		b.WriteString("_No graphs for this date._\n")
		return b.String()
	}
	for _, g := range m.graphs {
		fmt.Fprintf(&b, "- %s\n", path.Base(g))
	}
	return b.String()
}

func dateString(d history.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
