package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes v as EDN. Values are first normalized through encoding/json
// so struct tags decide field names; map keys become kebab-case keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	e := &ednWriter{pretty: pretty}
	e.value(x, 0)
	e.b.WriteByte('\n')
	_, err = io.WriteString(w, e.b.String())
	return err
}

type ednWriter struct {
	b      strings.Builder
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.b.WriteString("nil")
	case bool:
		e.b.WriteString(strconv.FormatBool(t))
	case string:
		e.b.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.b.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.b.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.coll('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.coll('{', '}', len(keys), depth, func(i int) {
			e.b.WriteString(keyword(keys[i]))
			e.b.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	default:
		e.b.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

func (e *ednWriter) coll(open, close byte, n, depth int, item func(int)) {
	e.b.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.b.WriteByte('\n')
			e.b.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.b.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty && n > 0 {
		e.b.WriteByte('\n')
		e.b.WriteString(strings.Repeat("  ", depth))
	}
	e.b.WriteByte(close)
}

// keyword turns a JSON field name such as "outputDir" into ":output-dir".
func keyword(s string) string {
	var b strings.Builder
	b.WriteByte(':')
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
