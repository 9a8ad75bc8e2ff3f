package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"graph-history/internal/config"
	"graph-history/internal/history"
	"graph-history/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the year/month/day picker over HTTP",
		Long: strings.TrimSpace(`
Serve the graph picker from a local HTTP server.

The page works as a plain form; with JavaScript, Datastar re-syncs the month
and day selects through /picker/sync without a reload.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address (web.addr)
graphhist web

# Serve on all interfaces, reading the history from the index cache
graphhist --cached web --addr :8080
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(app.v.GetString(config.KeyWebAddr))
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			ctx := contextOf(cmd)
			srv, err := web.NewServer(web.ServerConfig{
				Addr:      listenAddr,
				OutputDir: app.cfg.OutputDir,
				FS:        app.outputFS(),
				Load:      func() (*history.History, error) { return app.loadHistory(ctx) },
				Filters:   app.cfg.Filters,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			_ = writeOut(cmd, app, map[string]any{
				"addr":      actualAddr,
				"url":       url,
				"outputDir": app.cfg.OutputDir,
				"opened":    opened,
				"openError": openErr,
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			})

			log.Infof("serving %s at %s", app.cfg.OutputDir, url)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			return hs.Serve(ln)
		},
	}

	cmd.Flags().String("addr", "127.0.0.1:8080", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the UI in your default browser")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		return app.v.BindPFlag(config.KeyWebAddr, cmd.Flags().Lookup("addr"))
	}
	return cmd
}
