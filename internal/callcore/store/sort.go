package store

import (
	"time"

	"github.com/sebas/sipwatch/internal/callcore/config"
	"github.com/sebas/sipwatch/internal/callcore/model"
)

// comparator returns a strict less-than over *model.Call for the given sort
// configuration, with Index as a stable tie-breaker so equal keys never
// reorder relative to insertion order.
func comparator(opts config.SortOptions) func(a, b *model.Call) bool {
	cmp := func(a, b *model.Call) int {
		switch opts.By {
		case config.SortByFrom:
			return compareStrings(a.From(), b.From())
		case config.SortByTo:
			return compareStrings(a.To(), b.To())
		case config.SortByStartTime:
			return compareTimes(a.CreatedAt, b.CreatedAt)
		case config.SortByState:
			return compareInts(int(a.State), int(b.State))
		case config.SortByDuration:
			return compareDurations(a.Duration(), b.Duration())
		default: // SortByIndex
			return compareUint64(a.Index, b.Index)
		}
	}

	return func(a, b *model.Call) bool {
		c := cmp(a, b)
		if c == 0 {
			// Stable tie-break on Index regardless of Asc, so rows with an
			// equal sort key never appear to shuffle across updates.
			return a.Index < b.Index
		}
		if opts.Asc {
			return c < 0
		}
		return c > 0
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInts(a, b int) int {
	return a - b
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func compareDurations(a, b time.Duration) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
