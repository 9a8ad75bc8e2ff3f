package cli

import (
	"strings"

	"graph-history/internal/history"
	"graph-history/internal/picker"

	"github.com/spf13/cobra"
)

type pickControl struct {
	Control  string          `json:"control"`
	Selected string          `json:"selected"`
	Options  []picker.Option `json:"options"`
}

type pickResult struct {
	Selection picker.Selection `json:"selection"`
	Controls  []pickControl    `json:"controls"`
}

func (r pickResult) Header() []string { return []string{"CONTROL", "SELECTED", "OPTIONS"} }

func (r pickResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Controls))
	for _, c := range r.Controls {
		vals := make([]string, 0, len(c.Options))
		for _, o := range c.Options {
			vals = append(vals, o.Value)
		}
		rows = append(rows, []string{c.Control, c.Selected, strings.Join(vals, " ")})
	}
	return rows
}

func newPickCmd(app *App) *cobra.Command {
	var sel picker.Selection
	var yearIndex, monthIndex int

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Run the year/month/day synchronizer and print each control",
		Long: strings.TrimSpace(`
Populate the year, month and day controls the way the TUI and web pickers do,
then print every control's options and selection.

--year/--month/--day select by name. --year-index and --month-index instead
select by position and re-sync the controls below, one level at a time.
`),
		Example: strings.TrimSpace(`
graphhist pick
graphhist pick --year 2023 --format table
graphhist pick --year-index 0 --month-index 1
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := app.loadHistory(contextOf(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}

			p, y, m, d := picker.NewListSynchronizer()
			byIndex := cmd.Flags().Changed("year-index") || cmd.Flags().Changed("month-index")
			if byIndex {
				err = pickByIndex(p, h, yearIndex, monthIndex)
			} else {
				err = p.SelectByName(h, sel)
			}
			if err != nil {
				return writeErr(cmd, historyErr(err, app.cfg.OutputDir))
			}

			cur, err := p.Current(h)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, pickResult{
				Selection: cur,
				Controls: []pickControl{
					{Control: picker.ControlYear, Selected: y.SelectedValue(), Options: y.Options()},
					{Control: picker.ControlMonth, Selected: m.SelectedValue(), Options: m.Options()},
					{Control: picker.ControlDay, Selected: d.SelectedValue(), Options: d.Options()},
				},
			})
		},
	}

	cmd.Flags().StringVar(&sel.Year, "year", "", "Select the year with this name")
	cmd.Flags().StringVar(&sel.Month, "month", "", "Select the month with this name")
	cmd.Flags().StringVar(&sel.Day, "day", "", "Select the day with this name")
	cmd.Flags().IntVar(&yearIndex, "year-index", -1, "Select the year at this position, then update months")
	cmd.Flags().IntVar(&monthIndex, "month-index", -1, "Select the month at this position, then update days")
	cmd.MarkFlagsMutuallyExclusive("year", "year-index")
	cmd.MarkFlagsMutuallyExclusive("month", "month-index")
	return cmd
}

// pickByIndex drives the raw update operations: a year index triggers
// UpdateMonths, a month index triggers UpdateDays. Negative indexes keep the
// default selection for that level.
func pickByIndex(p picker.Synchronizer, h *history.History, yearIndex, monthIndex int) error {
	if err := p.PopulateYears(h); err != nil {
		return err
	}
	if yearIndex >= 0 {
		if err := selectIndex(p.Year, picker.ControlYear, yearIndex); err != nil {
			return err
		}
		if err := p.UpdateMonths(h); err != nil {
			return err
		}
	}
	if monthIndex >= 0 {
		if err := selectIndex(p.Month, picker.ControlMonth, monthIndex); err != nil {
			return err
		}
		if err := p.UpdateDays(h); err != nil {
			return err
		}
	}
	return nil
}

func selectIndex(s picker.Select, control string, i int) error {
	if i >= s.Len() {
		return &picker.SelectionError{Control: control, Index: i, Err: picker.ErrOutOfRange}
	}
	s.Select(i)
	return nil
}
