package picklist

import (
	"slices"
	"strings"
	"time"
)

// sortDeadlines orders DD/MM/YYYY strings by date. Unparseable labels sort
// after every valid date, alphabetically.
func sortDeadlines(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		ta, errA := time.Parse(DateLayout, a)
		tb, errB := time.Parse(DateLayout, b)
		switch {
		case errA == nil && errB == nil:
			return ta.Compare(tb)
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
}
