package textgrid

import (
	"cmp"
	"slices"
	"sort"
)

// Interval is a labeled time span. XMin < XMax is expected but not enforced.
type Interval struct {
	XMin float64
	XMax float64
	Text string
}

// Duration returns XMax - XMin.
func (iv Interval) Duration() float64 {
	return iv.XMax - iv.XMin
}

// Midpoint returns the center of the interval.
func (iv Interval) Midpoint() float64 {
	return (iv.XMin + iv.XMax) / 2
}

// IntervalTier is a named tier of intervals kept sorted by XMin.
//
// The tier's XMin and XMax are expected to contain every interval; children
// outside them only produce warnings.
type IntervalTier struct {
	Name      string
	XMin      float64
	XMax      float64
	Intervals []Interval
}

// NewIntervalTier creates an interval tier holding a sorted copy of intervals.
func NewIntervalTier(name string, xmin, xmax float64, intervals ...Interval) *IntervalTier {
	t := &IntervalTier{
		Name:      name,
		XMin:      xmin,
		XMax:      xmax,
		Intervals: slices.Clone(intervals),
	}
	t.Reorder()
	return t
}

// Tier wraps t in the Tier variant.
func (t *IntervalTier) Tier() Tier {
	return Tier{Kind: KindInterval, IntervalTier: t}
}

// Size returns the number of intervals.
func (t *IntervalTier) Size() int {
	return len(t.Intervals)
}

// Push inserts iv at its sorted position. Intervals with an equal XMin keep
// their insertion order.
func (t *IntervalTier) Push(iv Interval, sink Sink) {
	t.warnOutside(iv, sink)
	i := sort.Search(len(t.Intervals), func(i int) bool {
		return t.Intervals[i].XMin > iv.XMin
	})
	t.Intervals = slices.Insert(t.Intervals, i, iv)
}

// Remove deletes the interval at index i.
func (t *IntervalTier) Remove(i int) (Interval, bool) {
	if i < 0 || i >= len(t.Intervals) {
		return Interval{}, false
	}
	iv := t.Intervals[i]
	t.Intervals = slices.Delete(t.Intervals, i, i+1)
	return iv, true
}

// SetIntervals replaces every interval, sorting the new set.
func (t *IntervalTier) SetIntervals(intervals []Interval, sink Sink) {
	for _, iv := range intervals {
		t.warnOutside(iv, sink)
	}
	t.Intervals = slices.Clone(intervals)
	t.Reorder()
}

// SetXMin moves the tier start, warning when an interval begins before it.
func (t *IntervalTier) SetXMin(xmin float64, sink Sink) {
	if len(t.Intervals) > 0 {
		lowest := slices.MinFunc(t.Intervals, func(a, b Interval) int {
			return cmp.Compare(a.XMin, b.XMin)
		}).XMin
		if lowest < xmin {
			Warnf(sink, WarnOutOfBounds, t.Name,
				"tier %q has an interval starting at %g but the tier xmin is set to %g", t.Name, lowest, xmin)
		}
	}
	t.XMin = xmin
}

// SetXMax moves the tier end, warning when an interval ends after it.
func (t *IntervalTier) SetXMax(xmax float64, sink Sink) {
	if len(t.Intervals) > 0 {
		highest := slices.MaxFunc(t.Intervals, func(a, b Interval) int {
			return cmp.Compare(a.XMax, b.XMax)
		}).XMax
		if highest > xmax {
			Warnf(sink, WarnOutOfBounds, t.Name,
				"tier %q has an interval ending at %g but the tier xmax is set to %g", t.Name, highest, xmax)
		}
	}
	t.XMax = xmax
}

// Reorder stable-sorts the intervals by XMin.
func (t *IntervalTier) Reorder() {
	slices.SortStableFunc(t.Intervals, func(a, b Interval) int {
		return cmp.Compare(a.XMin, b.XMin)
	})
}

func (t *IntervalTier) warnOutside(iv Interval, sink Sink) {
	if iv.XMin < t.XMin {
		Warnf(sink, WarnOutOfBounds, t.Name,
			"tier %q has an interval starting at %g before the tier xmin of %g", t.Name, iv.XMin, t.XMin)
	}
	if iv.XMax > t.XMax {
		Warnf(sink, WarnOutOfBounds, t.Name,
			"tier %q has an interval ending at %g after the tier xmax of %g", t.Name, iv.XMax, t.XMax)
	}
}
