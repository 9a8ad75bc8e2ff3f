// Package picker keeps three dependent select controls (year, month, day)
// consistent with a graph history.
//
// Selecting a year repopulates months, selecting a month repopulates days, and
// every repopulated control defaults to its most recent (last) entry. Controls
// are injected through the Select interface so the same logic drives terminal
// lists, server-rendered HTML and tests.
package picker

import (
	"strings"

	"graph-history/internal/history"
)

const (
	ControlYear  = "year"
	ControlMonth = "month"
	ControlDay   = "day"
)

// Select is the widget contract the synchronizer mutates.
type Select interface {
	// SelectedIndex returns -1 when nothing is selected.
	SelectedIndex() int
	Len() int
	Remove(i int)
	Append(value, label string)
	Select(i int)
}

// Synchronizer binds the three controls of a year/month/day picker.
type Synchronizer struct {
	Year  Select
	Month Select
	Day   Select
}

// Selection is the set of names currently selected in the three controls.
type Selection struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// DefaultIndex returns the index selected after a control is repopulated with
// n entries: the last one, or -1 when there is nothing to select.
func DefaultIndex(n int) int {
	return n - 1
}

// RemoveOptions clears every option from s, highest index first.
func RemoveOptions(s Select) {
	for i := s.Len() - 1; i >= 0; i-- {
		s.Remove(i)
	}
}

// PopulateYears fills the year control from h, selects the latest year and
// cascades into months and days.
func (p Synchronizer) PopulateYears(h *history.History) error {
	if h == nil || len(h.Years) == 0 {
		return selectionErr(ControlYear, -1, ErrEmptyYearList)
	}
	RemoveOptions(p.Year)
	for _, y := range h.Years {
		p.Year.Append(y.Name, y.Name)
	}
	p.Year.Select(DefaultIndex(len(h.Years)))
	return p.UpdateMonths(h)
}

// UpdateMonths repopulates the month control for the selected year, selects
// the latest month and then repopulates days once for it.
func (p Synchronizer) UpdateMonths(h *history.History) error {
	y, err := p.year(h)
	if err != nil {
		return err
	}
	if len(y.Months) == 0 {
		return &SelectionError{Control: ControlMonth, Index: -1, Name: y.Name, Err: ErrEmptyMonthList}
	}

	RemoveOptions(p.Month)
	for _, m := range y.Months {
		p.Month.Append(m.Name, m.Name)
	}
	p.Month.Select(DefaultIndex(len(y.Months)))

	return p.UpdateDays(h)
}

// UpdateDays repopulates the day control for the selected year and month and
// selects the latest day.
func (p Synchronizer) UpdateDays(h *history.History) error {
	y, err := p.year(h)
	if err != nil {
		return err
	}
	m, err := p.month(y)
	if err != nil {
		return err
	}
	if len(m.Days) == 0 {
		return &SelectionError{Control: ControlDay, Index: -1, Name: m.Name, Err: ErrEmptyDayList}
	}

	RemoveOptions(p.Day)
	for _, d := range m.Days {
		p.Day.Append(d.Name, d.Name)
	}
	p.Day.Select(DefaultIndex(len(m.Days)))
	return nil
}

// SelectByName populates all three controls and then moves each selection to
// the named entry. Names match case-insensitively; an empty name keeps the
// default (latest) entry for that level.
func (p Synchronizer) SelectByName(h *history.History, sel Selection) error {
	if err := p.PopulateYears(h); err != nil {
		return err
	}

	if name := strings.TrimSpace(sel.Year); name != "" {
		i := indexByName(len(h.Years), func(i int) string { return h.Years[i].Name }, name)
		if i < 0 {
			return notFoundErr(ControlYear, name)
		}
		p.Year.Select(i)
		if err := p.UpdateMonths(h); err != nil {
			return err
		}
	}

	y := h.Years[p.Year.SelectedIndex()]
	if name := strings.TrimSpace(sel.Month); name != "" {
		i := indexByName(len(y.Months), func(i int) string { return y.Months[i].Name }, name)
		if i < 0 {
			return notFoundErr(ControlMonth, name)
		}
		p.Month.Select(i)
		if err := p.UpdateDays(h); err != nil {
			return err
		}
	}

	m := y.Months[p.Month.SelectedIndex()]
	if name := strings.TrimSpace(sel.Day); name != "" {
		i := indexByName(len(m.Days), func(i int) string { return m.Days[i].Name }, name)
		if i < 0 {
			return notFoundErr(ControlDay, name)
		}
		p.Day.Select(i)
	}
	return nil
}

// Current resolves the names selected in the three controls.
func (p Synchronizer) Current(h *history.History) (Selection, error) {
	y, err := p.year(h)
	if err != nil {
		return Selection{}, err
	}
	m, err := p.month(y)
	if err != nil {
		return Selection{}, err
	}
	i, err := resolve(ControlDay, p.Day, len(m.Days))
	if err != nil {
		return Selection{}, err
	}
	return Selection{Year: y.Name, Month: m.Name, Day: m.Days[i].Name}, nil
}

func (p Synchronizer) year(h *history.History) (history.Year, error) {
	if h == nil || len(h.Years) == 0 {
		return history.Year{}, selectionErr(ControlYear, -1, ErrEmptyYearList)
	}
	i, err := resolve(ControlYear, p.Year, len(h.Years))
	if err != nil {
		return history.Year{}, err
	}
	return h.Years[i], nil
}

func (p Synchronizer) month(y history.Year) (history.Month, error) {
	if len(y.Months) == 0 {
		return history.Month{}, &SelectionError{Control: ControlMonth, Index: -1, Name: y.Name, Err: ErrEmptyMonthList}
	}
	i, err := resolve(ControlMonth, p.Month, len(y.Months))
	if err != nil {
		return history.Month{}, err
	}
	return y.Months[i], nil
}

func resolve(control string, s Select, n int) (int, error) {
	i := s.SelectedIndex()
	if i < 0 {
		return -1, selectionErr(control, i, ErrNoSelection)
	}
	if i >= n {
		return -1, selectionErr(control, i, ErrOutOfRange)
	}
	return i, nil
}

func indexByName(n int, name func(int) string, want string) int {
	for i := 0; i < n; i++ {
		if strings.EqualFold(strings.TrimSpace(name(i)), want) {
			return i
		}
	}
	return -1
}
