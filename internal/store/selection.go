package store

import (
	"encoding/json"
	"errors"
	"strings"

	"graph-history/internal/picker"

	"github.com/peterbourgon/diskv/v3"
)

const selectionKey = "selection"

// SelectionStore remembers the last year/month/day picked in an interactive
// front end. Reads are best effort: missing or corrupt state counts as absent.
type SelectionStore struct {
	d *diskv.Diskv
}

func NewSelectionStore(dir string) (*SelectionStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("selection store: missing dir")
	}
	return &SelectionStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
	})}, nil
}

func (s *SelectionStore) Save(sel picker.Selection) error {
	b, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return s.d.Write(selectionKey, b)
}

func (s *SelectionStore) Load() (picker.Selection, bool, error) {
	if !s.d.Has(selectionKey) {
		return picker.Selection{}, false, nil
	}
	b, err := s.d.Read(selectionKey)
	if err != nil {
		return picker.Selection{}, false, err
	}
	var sel picker.Selection
	if err := json.Unmarshal(b, &sel); err != nil {
		log.Warningf("ignoring corrupt selection state: %v", err)
		return picker.Selection{}, false, nil
	}
	if strings.TrimSpace(sel.Year) == "" {
		return picker.Selection{}, false, nil
	}
	return sel, true, nil
}

func (s *SelectionStore) Clear() error {
	if !s.d.Has(selectionKey) {
		return nil
	}
	return s.d.Erase(selectionKey)
}
