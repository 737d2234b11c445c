package textgrid

import "fmt"

// TierKind selects which variant a Tier holds.
type TierKind int

const (
	// KindInterval marks a Tier holding an IntervalTier.
	KindInterval TierKind = iota + 1
	// KindPoint marks a Tier holding a PointTier.
	KindPoint
)

// Class names used by the text format.
const (
	IntervalTierClass = "IntervalTier"
	PointTierClass    = "TextTier"
)

// String returns the class name the text format uses for k.
func (k TierKind) String() string {
	switch k {
	case KindInterval:
		return IntervalTierClass
	case KindPoint:
		return PointTierClass
	default:
		return fmt.Sprintf("TierKind(%d)", int(k))
	}
}

// ParseTierKind maps a class name to its kind.
func ParseTierKind(class string) (TierKind, bool) {
	switch class {
	case IntervalTierClass:
		return KindInterval, true
	case PointTierClass:
		return KindPoint, true
	default:
		return 0, false
	}
}

// Tier is a closed variant over the two tier kinds. Exactly one of
// IntervalTier and PointTier is set, as selected by Kind.
type Tier struct {
	Kind         TierKind
	IntervalTier *IntervalTier
	PointTier    *PointTier
}

// Name returns the tier name.
func (t Tier) Name() string {
	switch t.Kind {
	case KindInterval:
		return t.IntervalTier.Name
	case KindPoint:
		return t.PointTier.Name
	default:
		return ""
	}
}

func (t Tier) setName(name string) {
	switch t.Kind {
	case KindInterval:
		t.IntervalTier.Name = name
	case KindPoint:
		t.PointTier.Name = name
	}
}

// Bounds returns the tier's declared xmin and xmax.
func (t Tier) Bounds() (xmin, xmax float64) {
	switch t.Kind {
	case KindInterval:
		return t.IntervalTier.XMin, t.IntervalTier.XMax
	case KindPoint:
		return t.PointTier.XMin, t.PointTier.XMax
	default:
		return 0, 0
	}
}

// Size returns the number of intervals or points.
func (t Tier) Size() int {
	switch t.Kind {
	case KindInterval:
		return t.IntervalTier.Size()
	case KindPoint:
		return t.PointTier.Size()
	default:
		return 0
	}
}

// Valid reports whether the pointer selected by Kind is set.
func (t Tier) Valid() bool {
	switch t.Kind {
	case KindInterval:
		return t.IntervalTier != nil
	case KindPoint:
		return t.PointTier != nil
	default:
		return false
	}
}
