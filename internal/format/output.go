package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Table is implemented by payloads that have a human-readable tabular form.
type Table interface {
	Header() []string
	Rows() [][]string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - table (payloads implementing Table; others fall back to json)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "table":
		if t, ok := v.(Table); ok {
			return WriteTable(w, t)
		}
		return WriteJSON(w, v, true)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteTable renders t with a bold header row. Color is dropped automatically
// when w is not a terminal (fatih/color's NoColor detection).
func WriteTable(w io.Writer, t Table) error {
	tbl := uitable.New()
	tbl.MaxColWidth = 80
	tbl.Wrap = true

	head := color.New(color.Bold, color.Underline)
	header := t.Header()
	cells := make([]interface{}, 0, len(header))
	for _, h := range header {
		cells = append(cells, head.Sprint(h))
	}
	tbl.AddRow(cells...)

	for _, r := range t.Rows() {
		row := make([]interface{}, 0, len(r))
		for _, c := range r {
			row = append(row, c)
		}
		tbl.AddRow(row...)
	}
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}
