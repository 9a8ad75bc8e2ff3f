package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"graph-history/internal/history"
	"graph-history/internal/logger"

	_ "modernc.org/sqlite"
)

var ErrNoCache = errors.New("no cached history; run `graphhist index`")

var log = logger.Get("store")

// Cache persists a scanned History in a SQLite database so front ends can
// start without walking the output directory.
type Cache struct {
	Path string
}

func (c Cache) open(ctx context.Context) (*sql.DB, error) {
	p := strings.TrimSpace(c.Path)
	if p == "" {
		return nil, errors.New("cache: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateCache(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateCache(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cache_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS years (
			pos INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS months (
			year_pos INTEGER NOT NULL REFERENCES years(pos) ON DELETE CASCADE,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (year_pos, pos)
		);`,
		`CREATE TABLE IF NOT EXISTS days (
			year_pos INTEGER NOT NULL,
			month_pos INTEGER NOT NULL,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (year_pos, month_pos, pos),
			FOREIGN KEY (year_pos, month_pos) REFERENCES months(year_pos, pos) ON DELETE CASCADE
		);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the cached history with h.
func (c Cache) Save(ctx context.Context, h *history.History) error {
	if h == nil {
		return errors.New("cache: nil history")
	}
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range []string{"days", "months", "years"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	for yi, y := range h.Years {
		if _, err := tx.ExecContext(ctx, `INSERT INTO years(pos, name) VALUES(?, ?)`, yi, y.Name); err != nil {
			return err
		}
		for mi, m := range y.Months {
			if _, err := tx.ExecContext(ctx, `INSERT INTO months(year_pos, pos, name) VALUES(?, ?, ?)`, yi, mi, m.Name); err != nil {
				return err
			}
			for di, d := range m.Days {
				if _, err := tx.ExecContext(ctx, `INSERT INTO days(year_pos, month_pos, pos, name) VALUES(?, ?, ?, ?)`, yi, mi, di, d.Name); err != nil {
					return err
				}
			}
		}
	}

	now := strconv.FormatInt(time.Now().UTC().UnixMilli(), 10)
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO cache_meta(k, v) VALUES('scanned_at_unixms', ?)`, now); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	ys, ms, ds := h.Counts()
	log.Debugf("cached history at %s (%d years, %d months, %d days)", c.Path, ys, ms, ds)
	return nil
}

// Load returns the cached history in its stored order.
func (c Cache) Load(ctx context.Context) (*history.History, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := scannedAt(ctx, db); err != nil {
		return nil, err
	}

	h := &history.History{Years: []history.Year{}}

	rows, err := db.QueryContext(ctx, `SELECT name FROM years ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return nil, err
		}
		h.Years = append(h.Years, history.Year{Name: name})
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT year_pos, name FROM months ORDER BY year_pos, pos`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var yi int
		var name string
		if err := rows.Scan(&yi, &name); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if yi < 0 || yi >= len(h.Years) {
			_ = rows.Close()
			return nil, fmt.Errorf("cache: month %q references missing year %d", name, yi)
		}
		h.Years[yi].Months = append(h.Years[yi].Months, history.Month{Name: name})
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT year_pos, month_pos, name FROM days ORDER BY year_pos, month_pos, pos`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var yi, mi int
		var name string
		if err := rows.Scan(&yi, &mi, &name); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if yi < 0 || yi >= len(h.Years) || mi < 0 || mi >= len(h.Years[yi].Months) {
			_ = rows.Close()
			return nil, fmt.Errorf("cache: day %q references missing month %d/%d", name, yi, mi)
		}
		m := &h.Years[yi].Months[mi]
		m.Days = append(m.Days, history.Day{Name: name})
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return h, nil
}

// ScannedAt returns when the cache was last saved.
func (c Cache) ScannedAt(ctx context.Context) (time.Time, error) {
	db, err := c.open(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer db.Close()
	return scannedAt(ctx, db)
}

func scannedAt(ctx context.Context, db *sql.DB) (time.Time, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM cache_meta WHERE k = 'scanned_at_unixms'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNoCache
	}
	if err != nil {
		return time.Time{}, err
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("cache: bad scanned_at %q: %w", v, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}
