package cli

import (
	"graph-history/internal/config"

	"github.com/spf13/cobra"
)

type configView struct {
	config.Config
}

func (c configView) Header() []string { return []string{"KEY", "VALUE"} }

func (c configView) Rows() [][]string {
	file := c.File
	if file == "" {
		file = "(none)"
	}
	return [][]string{
		{config.KeyOutputDir, c.OutputDir},
		{config.KeyStateDir, c.StateDir},
		{config.KeyCachePath, c.CachePath},
		{config.KeyWebAddr, c.WebAddr},
		{config.KeyLogLevel, c.LogLevel},
		{config.KeyFilters, c.Filters},
		{"config file", file},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after merging flags, GRAPHHIST_* environment variables, the config file and defaults.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, configView{app.cfg})
		},
	}
}
