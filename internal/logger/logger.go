// Package logger configures the process-wide leveled logging backend.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

var mu sync.Mutex

const format = `%{time:2006-01-02 15:04:05.000} [%{level:.5s}] %{module}: %{message}`

// Init sets the global backend. Calling it again replaces the backend, which
// lets the TUI move logging off the terminal after startup.
func Init(level string, w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	lvl, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(orDefault(level, "INFO"))))
	if err != nil {
		return err
	}

	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(format))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}

// Get returns the logger for a module (package) name.
func Get(module string) *logging.Logger {
	return logging.MustGetLogger(module)
}

func orDefault(s, d string) string {
	if strings.TrimSpace(s) == "" {
		return d
	}
	return s
}
