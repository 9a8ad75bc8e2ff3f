package tui

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"graph-history/internal/history"
	"graph-history/internal/picker"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type memSelections struct {
	sel   picker.Selection
	ok    bool
	saved int
}

func (s *memSelections) Load() (picker.Selection, bool, error) { return s.sel, s.ok, nil }
func (s *memSelections) Save(sel picker.Selection) error {
	s.sel, s.ok = sel, true
	s.saved++
	return nil
}

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"2023/12/30/rsam.png":     {Data: []byte("x")},
		"2023/12/31/rsam.png":     {Data: []byte("x")},
		"2023/12/31/ssam.svg":     {Data: []byte("x")},
		"2024/01/01/rsam.png":     {Data: []byte("x")},
		"2024/01/02/rsam.png":     {Data: []byte("x")},
		"2024/02/10/station.png":  {Data: []byte("x")},
		"2024/02/10/maxfreqs.png": {Data: []byte("x")},
	}
}

func newTestModel(t *testing.T, fsys fstest.MapFS, sels *memSelections) appModel {
	t.Helper()
	opts := Options{
		OutputDir: "out",
		FS:        fsys,
		Load:      func() (*history.History, error) { return history.Scan(fsys) },
	}
	if sels != nil {
		opts.Selections = sels
	}
	m, err := newAppModel(opts)
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return mm.(appModel)
}

func press(t *testing.T, m appModel, keys ...tea.KeyMsg) appModel {
	t.Helper()
	for _, k := range keys {
		mm, _ := m.Update(k)
		m = mm.(appModel)
	}
	return m
}

var (
	keyUp   = tea.KeyMsg{Type: tea.KeyUp}
	keyDown = tea.KeyMsg{Type: tea.KeyDown}
	keyTab  = tea.KeyMsg{Type: tea.KeyTab}
	keyQuit = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	keyEnd  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")}
)

func TestApp_StartsOnLatestDate(t *testing.T) {
	m := newTestModel(t, fixtureFS(), &memSelections{})
	if got := m.date.String(); got != "2024/02/10" {
		t.Fatalf("date = %s", got)
	}
	if len(m.graphs) != 1 || m.graphs[0] != "2024/02/10/station.png" {
		t.Fatalf("graphs = %v", m.graphs)
	}
}

func TestApp_YearChangeResyncsMonthsAndDays(t *testing.T) {
	m := newTestModel(t, fixtureFS(), &memSelections{})
	m = press(t, m, keyUp)

	if selectedValue(m.years) != "2023" {
		t.Fatalf("year = %q", selectedValue(m.years))
	}
	if n := len(m.months.Items()); n != 1 || selectedValue(m.months) != "12" {
		t.Fatalf("months = %d selected %q", n, selectedValue(m.months))
	}
	if n := len(m.days.Items()); n != 2 || selectedValue(m.days) != "31" {
		t.Fatalf("days = %d selected %q", n, selectedValue(m.days))
	}
	if len(m.graphs) != 2 {
		t.Fatalf("graphs = %v", m.graphs)
	}

	// Moving past the first year is a no-op.
	m = press(t, m, keyUp)
	if selectedValue(m.years) != "2023" || m.err != nil {
		t.Fatalf("unexpected state after clamp: %q %v", selectedValue(m.years), m.err)
	}
}

func TestApp_MonthChangeResyncsDaysOnly(t *testing.T) {
	m := newTestModel(t, fixtureFS(), &memSelections{})
	m = press(t, m, keyTab, keyUp)

	if m.focus != colMonth {
		t.Fatalf("focus = %v", m.focus)
	}
	if selectedValue(m.years) != "2024" || selectedValue(m.months) != "01" {
		t.Fatalf("selection = %s/%s", selectedValue(m.years), selectedValue(m.months))
	}
	if n := len(m.days.Items()); n != 2 || selectedValue(m.days) != "02" {
		t.Fatalf("days = %d selected %q", n, selectedValue(m.days))
	}
}

func TestApp_QuitPersistsAndRestoresSelection(t *testing.T) {
	sels := &memSelections{}
	m := newTestModel(t, fixtureFS(), sels)
	m = press(t, m, keyUp, keyTab, keyTab, keyUp)
	if m.date.String() != "2023/12/30" {
		t.Fatalf("date = %s", m.date)
	}

	mm, cmd := m.Update(keyQuit)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	_ = mm
	if sels.saved != 1 || sels.sel != (picker.Selection{Year: "2023", Month: "12", Day: "30"}) {
		t.Fatalf("saved %d: %+v", sels.saved, sels.sel)
	}

	m2 := newTestModel(t, fixtureFS(), sels)
	if m2.date.String() != "2023/12/30" {
		t.Fatalf("restored date = %s", m2.date)
	}
	if n := len(m2.days.Items()); n != 2 {
		t.Fatalf("restored days = %d", n)
	}
}

func TestApp_StaleSelectionFallsBackToLatest(t *testing.T) {
	sels := &memSelections{sel: picker.Selection{Year: "1999", Month: "01", Day: "01"}, ok: true}
	m := newTestModel(t, fixtureFS(), sels)
	if m.date.String() != "2024/02/10" || m.err != nil {
		t.Fatalf("date = %s err = %v", m.date, m.err)
	}
}

func TestApp_RescanKeepsSelection(t *testing.T) {
	fsys := fixtureFS()
	m := newTestModel(t, fsys, &memSelections{})
	m = press(t, m, keyUp)

	fsys["2023/11/05/rsam.png"] = &fstest.MapFile{Data: []byte("x")}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	if m.date.String() != "2023/12/31" {
		t.Fatalf("date after rescan = %s", m.date)
	}
	if n := len(m.months.Items()); n != 2 {
		t.Fatalf("months after rescan = %d", n)
	}
	if !strings.HasPrefix(m.status, "rescanned") {
		t.Fatalf("status = %q", m.status)
	}
	m = press(t, m, keyTab, keyEnd)
	if selectedValue(m.months) != "12" {
		t.Fatalf("G should select last month, got %q", selectedValue(m.months))
	}
}

func TestApp_EmptyHistory(t *testing.T) {
	m := newTestModel(t, fstest.MapFS{}, nil)
	if !m.date.IsZero() || len(m.years.Items()) != 0 {
		t.Fatalf("expected empty picker, got %v", m.date)
	}
	m = press(t, m, keyDown, keyTab, keyDown)
	if m.err != nil {
		t.Fatalf("moving in empty columns should not error: %v", m.err)
	}
	if _, cmd := m.Update(keyQuit); cmd == nil {
		t.Fatalf("expected quit")
	}
}

func TestApp_LoadError(t *testing.T) {
	_, err := newAppModel(Options{Load: func() (*history.History, error) { return nil, errors.New("boom") }})
	if err == nil {
		t.Fatalf("expected load error")
	}
}

func TestApp_View(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	m := newTestModel(t, fixtureFS(), &memSelections{})
	out := m.View()
	for _, want := range []string{"Date=2024/02/10", "▸ 2024", "▸ 02", "▸ 10", "station.png"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "maxfreqs") {
		t.Fatalf("maxfreqs graphs should be hidden:\n%s", out)
	}
}
