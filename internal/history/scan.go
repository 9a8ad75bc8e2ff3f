package history

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// WebDir is the output subfolder holding on-demand web graphs. It is never
// part of the history.
const WebDir = "web"

// ScanDir scans an output directory laid out as <year>/<month>/<day>/.
func ScanDir(dir string) (*History, error) {
	return Scan(os.DirFS(dir))
}

// Scan builds a History from fsys. Every level is sorted oldest first, so
// month names and unpadded days keep calendar order. Months or years without
// any day folder are dropped. A missing root yields an empty history.
func Scan(fsys fs.FS) (*History, error) {
	h := &History{Years: []Year{}}

	yearNames, err := subdirs(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h, nil
		}
		return nil, err
	}

	for _, yn := range yearNames {
		if strings.EqualFold(yn, WebDir) {
			continue
		}
		y := Year{Name: yn}
		monthNames, err := subdirs(fsys, yn)
		if err != nil {
			return nil, err
		}
		for _, mn := range monthNames {
			dayNames, err := subdirs(fsys, yn+"/"+mn)
			if err != nil {
				return nil, err
			}
			if len(dayNames) == 0 {
				continue
			}
			m := Month{Name: mn, Days: make([]Day, 0, len(dayNames))}
			for _, dn := range dayNames {
				m.Days = append(m.Days, Day{Name: dn})
			}
			y.Months = append(y.Months, m)
		}
		if len(y.Months) == 0 {
			continue
		}
		h.Years = append(h.Years, y)
	}
	return h, nil
}

func subdirs(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	sortChronological(out)
	return out, nil
}
