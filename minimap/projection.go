package minimap

import (
	"sort"
	"time"

	"github.com/goliatone/go-timeline/pkg/types"
)

// Marker is the presentational coordinate of one first-touchpoint on the
// minimap. X is measured from the chart's left edge.
type Marker struct {
	PersonID string
	Date     string
	X        float64
	// Snapped is true when the touchpoint's date is absent from the bucket
	// axis and the position fell back to the nearest axis entry.
	Snapped bool
}

// ProjectMarkers maps first-touchpoint dates onto the pixel domain defined by
// the bucket axis. The axis is the ascending, possibly sparse date series of
// inbound buckets; width is the rendered chart width and margin the fixed
// inset on each side.
//
// A touchpoint whose date is on the axis lands at the linear interpolation of
// its index across the usable width. Dates missing from the axis (a person
// whose first contact was outbound-only has no inbound bucket that day) still
// render: they snap to the nearest axis date instead of being dropped.
func ProjectMarkers(axis []string, touchpoints []types.FirstTouchpoint, width, margin float64) []Marker {
	if len(axis) == 0 || len(touchpoints) == 0 {
		return nil
	}

	inner := width - 2*margin
	if inner < 0 {
		inner = 0
	}

	index := make(map[string]int, len(axis))
	days := make([]time.Time, 0, len(axis))
	for i, date := range axis {
		index[date] = i
		if day, err := time.Parse(types.DateLayout, date); err == nil {
			days = append(days, day)
		}
	}
	if len(days) != len(axis) {
		return nil
	}

	markers := make([]Marker, 0, len(touchpoints))
	for _, tp := range touchpoints {
		idx, ok := index[tp.Date]
		snapped := false
		if !ok {
			day, err := time.Parse(types.DateLayout, tp.Date)
			if err != nil {
				continue
			}
			idx = nearestIndex(days, day)
			snapped = true
		}
		markers = append(markers, Marker{
			PersonID: tp.PersonID,
			Date:     tp.Date,
			X:        positionAt(idx, len(axis), inner, margin),
			Snapped:  snapped,
		})
	}
	return markers
}

func positionAt(idx, axisLen int, inner, margin float64) float64 {
	if axisLen == 1 {
		return margin + inner/2
	}
	return margin + float64(idx)*inner/float64(axisLen-1)
}

// nearestIndex picks the axis entry closest in days to the target; ties go to
// the earlier entry.
func nearestIndex(days []time.Time, target time.Time) int {
	at := sort.Search(len(days), func(i int) bool {
		return !days[i].Before(target)
	})
	if at == 0 {
		return 0
	}
	if at == len(days) {
		return len(days) - 1
	}
	before := target.Sub(days[at-1])
	after := days[at].Sub(target)
	if before <= after {
		return at - 1
	}
	return at
}
