package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"graph-history/internal/config"
	"graph-history/internal/format"
	"graph-history/internal/history"
	"graph-history/internal/logger"
	"graph-history/internal/store"
	"graph-history/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var log = logger.Get("cli")

type App struct {
	ConfigFile string
	PrettyJSON bool
	Format     string
	Cached     bool
	NoColor    bool

	v   *viper.Viper
	cfg config.Config
}

// Flags that are also config keys; viper resolves flag > env > file > default.
var boundFlags = map[string]string{
	"output-dir": config.KeyOutputDir,
	"state-dir":  config.KeyStateDir,
	"log-level":  config.KeyLogLevel,
}

func NewRootCmd() *cobra.Command {
	app := &App{v: config.New()}

	cmd := &cobra.Command{
		Use:          "graphhist",
		Short:        "Browse graphs by year, month and day",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive browser
  graphhist

  # Print the history tree
  graphhist tree --format table

  # Graphs for a date (shortcut for: graphhist graphs 2024/Feb/2)
  graphhist 2024/Feb/2

  # Serve the web picker
  graphhist web --addr :8080
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI, unless output is piped.
			if isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout()) {
				return runTUI(cmd, app)
			}
			return runTree(cmd, app, false)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigFile, "config", envOr("GRAPHHIST_CONFIG", ""), "Config file (default: ./graphhist.yaml or <state-dir>/graphhist.yaml)")
	pf.String("output-dir", "output", "Directory holding <year>/<month>/<day>/ graph folders")
	pf.String("state-dir", "~/.graphhist", "Directory for the cache, saved selection and TUI log")
	pf.String("log-level", "INFO", "Log level (DEBUG|INFO|NOTICE|WARNING|ERROR|CRITICAL)")
	pf.StringVar(&app.Format, "format", envOr("GRAPHHIST_FORMAT", "json"), "Output format (json|edn|table)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.BoolVar(&app.Cached, "cached", false, "Read the history from the index cache instead of scanning")
	pf.BoolVar(&app.NoColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colored output")

	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newGraphsCmd(app))
	cmd.AddCommand(newLatestCmd(app))
	cmd.AddCommand(newPickCmd(app))
	cmd.AddCommand(newIndexCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func (app *App) init(cmd *cobra.Command) error {
	if err := config.BindFlags(app.v, cmd.Flags(), boundFlags); err != nil {
		return err
	}
	cfg, err := config.Load(app.v, app.ConfigFile)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg

	switch app.Format {
	case "json", "edn", "table":
	default:
		return writeErr(cmd, errInvalidArg("--format", app.Format, "want json, edn or table"))
	}

	if err := logger.Init(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return writeErr(cmd, errInvalidArg("--log-level", cfg.LogLevel, err.Error()))
	}
	if app.NoColor {
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	if cfg.File != "" {
		log.Debugf("using config file %s", cfg.File)
	}
	return nil
}

// loadHistory scans the output dir, or reads the index cache with --cached.
func (app *App) loadHistory(ctx context.Context) (*history.History, error) {
	if app.Cached {
		h, err := store.Cache{Path: app.cfg.CachePath}.Load(ctx)
		if err != nil {
			return nil, err
		}
		log.Debugf("loaded history from %s", app.cfg.CachePath)
		return h, nil
	}
	h, err := history.ScanDir(app.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", app.cfg.OutputDir, err)
	}
	return h, nil
}

func (app *App) outputFS() fs.FS {
	return os.DirFS(app.cfg.OutputDir)
}

func runTUI(cmd *cobra.Command, app *App) error {
	if err := os.MkdirAll(app.cfg.StateDir, 0o755); err != nil {
		return writeErr(cmd, err)
	}
	// Log lines would tear the alt screen; send them to a file instead.
	f, err := os.OpenFile(filepath.Join(app.cfg.StateDir, "graphhist.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()
	if err := logger.Init(app.cfg.LogLevel, f); err != nil {
		return writeErr(cmd, err)
	}

	sels, err := store.NewSelectionStore(filepath.Join(app.cfg.StateDir, "selection"))
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx := contextOf(cmd)
	return tui.Run(tui.Options{
		OutputDir:  app.cfg.OutputDir,
		FS:         app.outputFS(),
		Load:       func() (*history.History, error) { return app.loadHistory(ctx) },
		Selections: sels,
		Filters:    app.cfg.Filters,
	})
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes v in the selected format. json and edn wrap it in a
// {"data": ...} envelope; table renders v directly when it implements
// format.Table.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if app.Format == "table" {
		if t, ok := v.(format.Table); ok {
			return format.WriteTable(cmd.OutOrStdout(), t)
		}
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
