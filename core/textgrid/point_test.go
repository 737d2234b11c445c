package textgrid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPointTierPushKeepsOrder(t *testing.T) {
	tier := NewPointTier("bells", 0, 3)
	tier.Push(Point{Number: 2, Mark: "c"}, nil)
	tier.Push(Point{Number: 0.5, Mark: "a"}, nil)
	tier.Push(Point{Number: 1, Mark: "b"}, nil)

	want := []Point{{0.5, "a"}, {1, "b"}, {2, "c"}}
	if diff := cmp.Diff(want, tier.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestPointTierWarnings(t *testing.T) {
	tier := NewPointTier("bells", 1, 2)
	var c Collector
	tier.Push(Point{Number: 0.5, Mark: "early"}, &c)
	tier.Push(Point{Number: 2.5, Mark: "late"}, &c)
	tier.Push(Point{Number: 1.5, Mark: "inside"}, &c)

	want := []WarningKind{WarnOutOfBounds, WarnOutOfBounds}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Errorf("warning kinds mismatch (-want +got):\n%s", diff)
	}

	c = Collector{}
	tier.SetXMin(1, &c)
	tier.SetXMax(2, &c)
	if c.Len() != 2 {
		t.Errorf("got %d bound warnings, want 2", c.Len())
	}
}

func TestPointTierRemoveAndSet(t *testing.T) {
	tier := NewPointTier("bells", 0, 3)
	tier.SetPoints([]Point{{2, "b"}, {1, "a"}}, nil)
	if tier.Points[0].Mark != "a" {
		t.Fatalf("SetPoints did not sort: %v", tier.Points)
	}
	p, ok := tier.Remove(1)
	if !ok || p.Mark != "b" {
		t.Errorf("Remove(1) = %v, %v", p, ok)
	}
	if _, ok := tier.Remove(-1); ok {
		t.Error("Remove(-1) succeeded")
	}
}
