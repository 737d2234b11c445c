package textgrid

import (
	"cmp"
	"slices"
	"sort"
)

// Point is a labeled time position.
type Point struct {
	Number float64
	Mark   string
}

// PointTier is a named tier of points kept sorted by Number. Praat calls
// this class "TextTier".
type PointTier struct {
	Name   string
	XMin   float64
	XMax   float64
	Points []Point
}

// NewPointTier creates a point tier holding a sorted copy of points.
func NewPointTier(name string, xmin, xmax float64, points ...Point) *PointTier {
	t := &PointTier{
		Name:   name,
		XMin:   xmin,
		XMax:   xmax,
		Points: slices.Clone(points),
	}
	t.Reorder()
	return t
}

// Tier wraps t in the Tier variant.
func (t *PointTier) Tier() Tier {
	return Tier{Kind: KindPoint, PointTier: t}
}

// Size returns the number of points.
func (t *PointTier) Size() int {
	return len(t.Points)
}

// Push inserts p at its sorted position.
func (t *PointTier) Push(p Point, sink Sink) {
	t.warnOutside(p, sink)
	i := sort.Search(len(t.Points), func(i int) bool {
		return t.Points[i].Number > p.Number
	})
	t.Points = slices.Insert(t.Points, i, p)
}

// Remove deletes the point at index i.
func (t *PointTier) Remove(i int) (Point, bool) {
	if i < 0 || i >= len(t.Points) {
		return Point{}, false
	}
	p := t.Points[i]
	t.Points = slices.Delete(t.Points, i, i+1)
	return p, true
}

// SetPoints replaces every point, sorting the new set.
func (t *PointTier) SetPoints(points []Point, sink Sink) {
	for _, p := range points {
		t.warnOutside(p, sink)
	}
	t.Points = slices.Clone(points)
	t.Reorder()
}

// SetXMin moves the tier start, warning when a point lies before it.
func (t *PointTier) SetXMin(xmin float64, sink Sink) {
	if len(t.Points) > 0 {
		lowest := slices.MinFunc(t.Points, comparePoints).Number
		if lowest < xmin {
			Warnf(sink, WarnOutOfBounds, t.Name,
				"tier %q has a point at %g but the tier xmin is set to %g", t.Name, lowest, xmin)
		}
	}
	t.XMin = xmin
}

// SetXMax moves the tier end, warning when a point lies after it.
func (t *PointTier) SetXMax(xmax float64, sink Sink) {
	if len(t.Points) > 0 {
		highest := slices.MaxFunc(t.Points, comparePoints).Number
		if highest > xmax {
			Warnf(sink, WarnOutOfBounds, t.Name,
				"tier %q has a point at %g but the tier xmax is set to %g", t.Name, highest, xmax)
		}
	}
	t.XMax = xmax
}

// Reorder stable-sorts the points by Number.
func (t *PointTier) Reorder() {
	slices.SortStableFunc(t.Points, comparePoints)
}

func comparePoints(a, b Point) int {
	return cmp.Compare(a.Number, b.Number)
}

func (t *PointTier) warnOutside(p Point, sink Sink) {
	if p.Number < t.XMin {
		Warnf(sink, WarnOutOfBounds, t.Name,
			"tier %q has a point at %g before the tier xmin of %g", t.Name, p.Number, t.XMin)
	}
	if p.Number > t.XMax {
		Warnf(sink, WarnOutOfBounds, t.Name,
			"tier %q has a point at %g after the tier xmax of %g", t.Name, p.Number, t.XMax)
	}
}
