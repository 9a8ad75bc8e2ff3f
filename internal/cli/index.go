package cli

import (
	"strconv"
	"time"

	"graph-history/internal/history"
	"graph-history/internal/store"

	"github.com/spf13/cobra"
)

type indexResult struct {
	OutputDir string    `json:"outputDir"`
	CachePath string    `json:"cachePath"`
	Years     int       `json:"years"`
	Months    int       `json:"months"`
	Days      int       `json:"days"`
	ScannedAt time.Time `json:"scannedAt"`
}

func (r indexResult) Header() []string {
	return []string{"CACHE", "YEARS", "MONTHS", "DAYS", "SCANNED AT"}
}

func (r indexResult) Rows() [][]string {
	return [][]string{{
		r.CachePath,
		strconv.Itoa(r.Years),
		strconv.Itoa(r.Months),
		strconv.Itoa(r.Days),
		r.ScannedAt.Format(time.RFC3339),
	}}
}

func newIndexCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan the output dir and store the history in the cache",
		Long:  "Scan the output dir and store the history in the SQLite cache read by --cached.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			h, err := history.ScanDir(app.cfg.OutputDir)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := store.Cache{Path: app.cfg.CachePath}
			if err := c.Save(ctx, h); err != nil {
				return writeErr(cmd, err)
			}
			at, err := c.ScannedAt(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}

			ys, ms, ds := h.Counts()
			log.Infof("indexed %s: %d years, %d months, %d days", app.cfg.OutputDir, ys, ms, ds)
			return writeOut(cmd, app, indexResult{
				OutputDir: app.cfg.OutputDir,
				CachePath: app.cfg.CachePath,
				Years:     ys,
				Months:    ms,
				Days:      ds,
				ScannedAt: at,
			})
		},
	}
}
