package cli

import (
	"fmt"
	"strings"

	"graph-history/internal/history"
	"graph-history/internal/tui"

	"github.com/spf13/cobra"
)

// historyTable is the tree payload; it marshals as the History itself.
type historyTable struct {
	*history.History
}

func (t historyTable) Header() []string { return []string{"YEAR", "MONTH", "DAYS"} }

func (t historyTable) Rows() [][]string {
	var rows [][]string
	for _, y := range t.Years {
		for _, m := range y.Months {
			days := make([]string, 0, len(m.Days))
			for _, d := range m.Days {
				days = append(days, d.Name)
			}
			rows = append(rows, []string{y.Name, m.Name, strings.Join(days, ", ")})
		}
	}
	return rows
}

func newTreeCmd(app *App) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the year/month/day history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, app, markdown)
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the history as styled markdown")
	return cmd
}

func runTree(cmd *cobra.Command, app *App, markdown bool) error {
	h, err := app.loadHistory(contextOf(cmd))
	if err != nil {
		return writeErr(cmd, err)
	}
	if markdown {
		width := terminalWidth(cmd.OutOrStdout(), 80)
		_, err := fmt.Fprint(cmd.OutOrStdout(), tui.RenderMarkdown(h.Markdown(), width))
		return err
	}
	return writeOut(cmd, app, historyTable{h})
}
