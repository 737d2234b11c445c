package textgrid

// IndexPair identifies two children of a tier by position.
type IndexPair struct {
	First  int
	Second int
}

// CheckOverlaps sorts the tier and reports every adjacent pair whose
// boundaries do not meet exactly, whether they overlap or leave a gap.
// It returns nil, false when the tier tiles cleanly.
func (t *IntervalTier) CheckOverlaps() ([]IndexPair, bool) {
	t.Reorder()

	var defects []IndexPair
	for i := 0; i+1 < len(t.Intervals); i++ {
		if t.Intervals[i].XMax != t.Intervals[i+1].XMin {
			defects = append(defects, IndexPair{First: i, Second: i + 1})
		}
	}
	if len(defects) == 0 {
		return nil, false
	}
	return defects, true
}

// FixBoundaries sorts the tier and makes adjacent intervals meet. With
// preferFirst each interval's start is pulled to its predecessor's end;
// otherwise each interval's end is pushed to its successor's start. The
// first start and the last end never move, so gaps against the tier bounds
// are left for FillGaps.
func (t *IntervalTier) FixBoundaries(preferFirst bool) {
	t.Reorder()

	n := len(t.Intervals)
	if n < 2 {
		return
	}
	if preferFirst {
		for i := 1; i < n; i++ {
			t.Intervals[i].XMin = t.Intervals[i-1].XMax
		}
		return
	}
	for i := 0; i < n-1; i++ {
		t.Intervals[i].XMax = t.Intervals[i+1].XMin
	}
}

// FillGaps sorts the tier and inserts an interval labeled label into every
// gap: before the first interval, after the last one, and between adjacent
// intervals that do not touch. Overlaps are left alone. It returns the
// number of intervals added.
func (t *IntervalTier) FillGaps(label string) int {
	t.Reorder()

	if len(t.Intervals) == 0 {
		if t.XMin < t.XMax {
			t.Intervals = []Interval{{XMin: t.XMin, XMax: t.XMax, Text: label}}
			return 1
		}
		return 0
	}

	filled := make([]Interval, 0, len(t.Intervals)+2)
	added := 0

	if first := t.Intervals[0]; t.XMin < first.XMin {
		filled = append(filled, Interval{XMin: t.XMin, XMax: first.XMin, Text: label})
		added++
	}
	for i, iv := range t.Intervals {
		filled = append(filled, iv)
		if i+1 < len(t.Intervals) {
			if next := t.Intervals[i+1]; iv.XMax < next.XMin {
				filled = append(filled, Interval{XMin: iv.XMax, XMax: next.XMin, Text: label})
				added++
			}
		}
	}
	if last := t.Intervals[len(t.Intervals)-1]; last.XMax < t.XMax {
		filled = append(filled, Interval{XMin: last.XMax, XMax: t.XMax, Text: label})
		added++
	}

	t.Intervals = filled
	return added
}

// CheckOverlaps reports every ordered pair of distinct points sharing the
// same position. A duplicate pair appears twice, as (i, j) and (j, i). It
// returns nil, false when all positions are distinct.
func (t *PointTier) CheckOverlaps() ([]IndexPair, bool) {
	var defects []IndexPair
	for i, p := range t.Points {
		for j, q := range t.Points {
			if i != j && p.Number == q.Number {
				defects = append(defects, IndexPair{First: i, Second: j})
			}
		}
	}
	if len(defects) == 0 {
		return nil, false
	}
	return defects, true
}

// TierDefects lists the defects found in one tier of a document.
type TierDefects struct {
	Index int
	Name  string
	Kind  TierKind
	Pairs []IndexPair
}

// CheckOverlaps runs the per-tier check on every tier and returns the tiers
// with defects, in document order.
func (d *Document) CheckOverlaps() []TierDefects {
	var report []TierDefects
	for i, t := range d.tiers {
		var (
			pairs []IndexPair
			found bool
		)
		switch t.Kind {
		case KindInterval:
			pairs, found = t.IntervalTier.CheckOverlaps()
		case KindPoint:
			pairs, found = t.PointTier.CheckOverlaps()
		}
		if found {
			report = append(report, TierDefects{Index: i, Name: t.Name(), Kind: t.Kind, Pairs: pairs})
		}
	}
	return report
}
