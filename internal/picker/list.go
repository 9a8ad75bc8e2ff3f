package picker

// Option is a single entry of a List.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// List is an in-memory Select used by the web front end and the pick command.
type List struct {
	options  []Option
	selected int
}

func NewList() *List {
	return &List{selected: -1}
}

func (l *List) SelectedIndex() int {
	if l.selected < 0 || l.selected >= len(l.options) {
		return -1
	}
	return l.selected
}

func (l *List) Len() int { return len(l.options) }

func (l *List) Remove(i int) {
	if i < 0 || i >= len(l.options) {
		return
	}
	l.options = append(l.options[:i], l.options[i+1:]...)
	switch {
	case l.selected == i:
		l.selected = -1
	case l.selected > i:
		l.selected--
	}
}

func (l *List) Append(value, label string) {
	l.options = append(l.options, Option{Value: value, Label: label})
}

func (l *List) Select(i int) {
	if i < 0 || i >= len(l.options) {
		l.selected = -1
		return
	}
	l.selected = i
}

// Options returns a copy of the options with Selected set on the current one.
func (l *List) Options() []Option {
	out := make([]Option, len(l.options))
	copy(out, l.options)
	if i := l.SelectedIndex(); i >= 0 {
		out[i].Selected = true
	}
	return out
}

// Values returns the option values in order.
func (l *List) Values() []string {
	out := make([]string, 0, len(l.options))
	for _, o := range l.options {
		out = append(out, o.Value)
	}
	return out
}

// SelectedValue returns the selected option's value, or "" when none is selected.
func (l *List) SelectedValue() string {
	if i := l.SelectedIndex(); i >= 0 {
		return l.options[i].Value
	}
	return ""
}

// SelectValue selects the first option whose value equals v.
func (l *List) SelectValue(v string) bool {
	for i, o := range l.options {
		if o.Value == v {
			l.selected = i
			return true
		}
	}
	return false
}

// NewListSynchronizer returns a Synchronizer wired to three fresh Lists.
func NewListSynchronizer() (Synchronizer, *List, *List, *List) {
	y, m, d := NewList(), NewList(), NewList()
	return Synchronizer{Year: y, Month: m, Day: d}, y, m, d
}
