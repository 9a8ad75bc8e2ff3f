package history

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")

type Day struct {
	Name string `json:"name"`
}

type Month struct {
	Name string `json:"name"`
	Days []Day  `json:"days"`
}

type Year struct {
	Name   string  `json:"name"`
	Months []Month `json:"months"`
}

// History is the tree of dates that have graphs, oldest first at every level.
type History struct {
	Years []Year `json:"years"`
}

// Date names a single day folder.
type Date struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

func (d Date) IsZero() bool {
	return d.Year == "" && d.Month == "" && d.Day == ""
}

func (d Date) String() string {
	return d.Year + "/" + d.Month + "/" + d.Day
}

// Indexes locates a Date inside a History.
type Indexes struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (h *History) Empty() bool {
	return h == nil || len(h.Years) == 0
}

// LatestIndexes returns the indexes of the most recent year, month and day.
func (h *History) LatestIndexes() (Indexes, bool) {
	if h.Empty() {
		return Indexes{}, false
	}
	yi := len(h.Years) - 1
	y := h.Years[yi]
	if len(y.Months) == 0 {
		return Indexes{}, false
	}
	mi := len(y.Months) - 1
	m := y.Months[mi]
	if len(m.Days) == 0 {
		return Indexes{}, false
	}
	return Indexes{Year: yi, Month: mi, Day: len(m.Days) - 1}, true
}

// Latest returns the most recent date in the history.
func (h *History) Latest() (Date, bool) {
	ix, ok := h.LatestIndexes()
	if !ok {
		return Date{}, false
	}
	return h.DateAt(ix), true
}

// DateAt returns the names at ix. It panics when ix is out of range.
func (h *History) DateAt(ix Indexes) Date {
	y := h.Years[ix.Year]
	m := y.Months[ix.Month]
	return Date{Year: y.Name, Month: m.Name, Day: m.Days[ix.Day].Name}
}

// Indexes resolves a date by name. Matching is case-insensitive.
func (h *History) Indexes(d Date) (Indexes, error) {
	if h.Empty() {
		return Indexes{}, fmt.Errorf("year %q: %w", d.Year, ErrNotFound)
	}
	yi := h.YearIndex(d.Year)
	if yi < 0 {
		return Indexes{}, fmt.Errorf("year %q: %w", d.Year, ErrNotFound)
	}
	y := h.Years[yi]
	mi := y.MonthIndex(d.Month)
	if mi < 0 {
		return Indexes{}, fmt.Errorf("month %q in %s: %w", d.Month, y.Name, ErrNotFound)
	}
	m := y.Months[mi]
	di := m.DayIndex(d.Day)
	if di < 0 {
		return Indexes{}, fmt.Errorf("day %q in %s/%s: %w", d.Day, y.Name, m.Name, ErrNotFound)
	}
	return Indexes{Year: yi, Month: mi, Day: di}, nil
}

func (h *History) YearIndex(name string) int {
	if h == nil {
		return -1
	}
	for i := range h.Years {
		if strings.EqualFold(h.Years[i].Name, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func (y Year) MonthIndex(name string) int {
	for i := range y.Months {
		if strings.EqualFold(y.Months[i].Name, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func (m Month) DayIndex(name string) int {
	for i := range m.Days {
		if strings.EqualFold(m.Days[i].Name, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Counts returns the number of years, months and days in the history.
func (h *History) Counts() (years, months, days int) {
	if h == nil {
		return 0, 0, 0
	}
	years = len(h.Years)
	for _, y := range h.Years {
		months += len(y.Months)
		for _, m := range y.Months {
			days += len(m.Days)
		}
	}
	return years, months, days
}
