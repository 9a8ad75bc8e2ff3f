package history

import (
	"fmt"
	"strings"
)

// Markdown renders an overview of h as nested lists, newest year first.
func (h *History) Markdown() string {
	var b strings.Builder
	b.WriteString("# Graph history\n\n")
	if h.Empty() {
		b.WriteString("_No graphs yet._\n")
		return b.String()
	}
	ys, ms, ds := h.Counts()
	fmt.Fprintf(&b, "%d years, %d months, %d days.\n\n", ys, ms, ds)
	if d, ok := h.Latest(); ok {
		fmt.Fprintf(&b, "Latest: **%s**\n\n", d.String())
	}
	for i := len(h.Years) - 1; i >= 0; i-- {
		y := h.Years[i]
		fmt.Fprintf(&b, "## %s\n\n", y.Name)
		for _, m := range y.Months {
			days := make([]string, 0, len(m.Days))
			for _, d := range m.Days {
				days = append(days, d.Name)
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", m.Name, strings.Join(days, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
