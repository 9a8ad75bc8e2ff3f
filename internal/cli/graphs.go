package cli

import (
	"strings"

	"graph-history/internal/history"
	"graph-history/internal/picker"

	"github.com/spf13/cobra"
)

type graphList struct {
	OutputDir string       `json:"outputDir"`
	Date      history.Date `json:"date"`
	Filters   string       `json:"filters,omitempty"`
	Graphs    []string     `json:"graphs"`
}

func (g graphList) Header() []string { return []string{"DATE", "GRAPH"} }

func (g graphList) Rows() [][]string {
	rows := make([][]string, 0, len(g.Graphs))
	for _, p := range g.Graphs {
		rows = append(rows, []string{g.Date.String(), p})
	}
	return rows
}

func newGraphsCmd(app *App) *cobra.Command {
	var sel picker.Selection
	var filters string

	cmd := &cobra.Command{
		Use:   "graphs [YEAR/MONTH/DAY]",
		Short: "List graphs for a date (default: latest)",
		Long: strings.TrimSpace(`
List the graph files for one day folder.

Names match case-insensitively. A missing level defaults to the latest entry
below the levels that were given, so --year 2023 lists the last day of 2023.
`),
		Example: strings.TrimSpace(`
graphhist graphs
graphhist graphs 2024/Feb/2
graphhist graphs --year 2023 --filter cpu,mem
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				d, err := parseDateArg(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				sel = mergeSelection(sel, d)
			}

			h, err := app.loadHistory(contextOf(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}

			p, _, _, _ := picker.NewListSynchronizer()
			if err := p.SelectByName(h, sel); err != nil {
				return writeErr(cmd, historyErr(err, app.cfg.OutputDir))
			}
			cur, err := p.Current(h)
			if err != nil {
				return writeErr(cmd, err)
			}

			date := history.Date{Year: cur.Year, Month: cur.Month, Day: cur.Day}
			gs, err := history.Graphs(app.outputFS(), date, filters)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, graphList{OutputDir: app.cfg.OutputDir, Date: date, Filters: filters, Graphs: gs})
		},
	}

	cmd.Flags().StringVar(&sel.Year, "year", "", "Year folder name")
	cmd.Flags().StringVar(&sel.Month, "month", "", "Month folder name")
	cmd.Flags().StringVar(&sel.Day, "day", "", "Day folder name")
	cmd.Flags().StringVar(&filters, "filter", "", "Comma-separated graph name filters")
	return cmd
}

func newLatestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latest [FILTERS]",
		Short: "List graphs for the most recent date",
		Long: strings.TrimSpace(`
List the graphs of the most recent day folder. FILTERS is a comma-separated
list of name terms; it defaults to graph.filters from the config.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := app.cfg.Filters
			if len(args) == 1 {
				filters = strings.TrimSpace(args[0])
			}

			h, err := app.loadHistory(contextOf(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			date, gs, err := history.LatestGraphs(app.outputFS(), h, filters)
			if err != nil {
				return writeErr(cmd, err)
			}
			log.Debugf("latest %s: %d graphs (filters=%q)", date, len(gs), filters)
			return writeOut(cmd, app, graphList{OutputDir: app.cfg.OutputDir, Date: date, Filters: filters, Graphs: gs})
		},
	}
	return cmd
}

// parseDateArg splits "YEAR[/MONTH[/DAY]]" into a Selection.
func parseDateArg(s string) (picker.Selection, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "/"), "/")
	if len(parts) > 3 || parts[0] == "" {
		return picker.Selection{}, errInvalidArg("date", s, "want YEAR[/MONTH[/DAY]]")
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return picker.Selection{}, errInvalidArg("date", s, "empty path segment")
		}
	}
	var sel picker.Selection
	sel.Year = parts[0]
	if len(parts) > 1 {
		sel.Month = parts[1]
	}
	if len(parts) > 2 {
		sel.Day = parts[2]
	}
	return sel, nil
}

// mergeSelection fills blank fields of flags from the positional date.
func mergeSelection(flags, arg picker.Selection) picker.Selection {
	if flags.Year == "" {
		flags.Year = arg.Year
	}
	if flags.Month == "" {
		flags.Month = arg.Month
	}
	if flags.Day == "" {
		flags.Day = arg.Day
	}
	return flags
}
