package history

import (
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// MaxFreqsMarker tags auxiliary max-frequency plots that are never listed.
const MaxFreqsMarker = "maxfreqs"

var graphExts = map[string]bool{".png": true, ".svg": true}

// Graphs lists the graph files for d, relative to the root of fsys and sorted.
//
// filters is a comma-separated list of terms; when non-blank only graphs whose
// lowercase file name contains at least one term are returned.
func Graphs(fsys fs.FS, d Date, filters string) ([]string, error) {
	dir := path.Join(d.Year, d.Month, d.Day)
	if !fs.ValidPath(dir) || d.Year == "" || d.Month == "" || d.Day == "" {
		return []string{}, nil
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	terms := ParseFilters(filters)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !graphExts[strings.ToLower(path.Ext(name))] {
			continue
		}
		lower := strings.ToLower(name)
		if strings.Contains(lower, MaxFreqsMarker) {
			continue
		}
		if len(terms) > 0 && !matchesAny(lower, terms) {
			continue
		}
		out = append(out, path.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}

// LatestGraphs lists graphs for the most recent date in h.
func LatestGraphs(fsys fs.FS, h *History, filters string) (Date, []string, error) {
	d, ok := h.Latest()
	if !ok {
		return Date{}, []string{}, nil
	}
	gs, err := Graphs(fsys, d, filters)
	return d, gs, err
}

// ParseFilters splits a comma-separated filter string into lowercase terms.
func ParseFilters(filters string) []string {
	var out []string
	for _, f := range strings.Split(filters, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func matchesAny(name string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}
