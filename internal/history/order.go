package history

import (
	"sort"
	"strconv"
	"strings"
)

var monthNumbers = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// calendarKey maps a folder name to its position in the calendar: numbers
// ("2024", "02", "10") by value, English month names by month number.
func calendarKey(name string) (int, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if v, err := strconv.Atoi(n); err == nil {
		return v, true
	}
	v, ok := monthNumbers[n]
	return v, ok
}

// lessChronological orders folder names oldest first. Names without a
// calendar key sort after those with one, by plain string comparison.
func lessChronological(a, b string) bool {
	ka, oka := calendarKey(a)
	kb, okb := calendarKey(b)
	switch {
	case oka && okb && ka != kb:
		return ka < kb
	case oka != okb:
		return oka
	default:
		return a < b
	}
}

func sortChronological(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return lessChronological(names[i], names[j]) })
}
