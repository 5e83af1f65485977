package feed

import (
	"time"

	"github.com/goliatone/go-timeline/pkg/types"
)

// Gap marks a stretch of silent days between two adjacent rows of the
// descending feed. Days is the whole-day distance between the two events'
// calendar dates; adjacent or same-day rows produce no gap.
type Gap struct {
	// AfterIndex is the index of the newer row; the gap renders between it
	// and the row at AfterIndex+1.
	AfterIndex int
	Days       int
}

// DayGaps computes the gap indicators for a descending row list.
func DayGaps(rows []types.Event) []Gap {
	if len(rows) < 2 {
		return nil
	}
	var gaps []Gap
	for i := 0; i < len(rows)-1; i++ {
		days := daysBetween(rows[i+1].Timestamp, rows[i].Timestamp)
		if days >= 2 {
			gaps = append(gaps, Gap{AfterIndex: i, Days: days})
		}
	}
	return gaps
}

func daysBetween(older, newer time.Time) int {
	a := midnightUTC(older)
	b := midnightUTC(newer)
	return int(b.Sub(a).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
