package textgrid

import (
	"fmt"
	"slices"

	"github.com/FocuswithJustin/textgrid/core/errors"
)

// DefaultName is the display name given to documents not read from a file.
const DefaultName = "New TextGrid"

// Document is a TextGrid: a global time range and an ordered list of tiers
// with unique names. Tier order is the declaration order and is preserved
// on output.
type Document struct {
	Name  string
	XMin  float64
	XMax  float64
	tiers []Tier
}

// NewDocument creates an empty document.
func NewDocument(name string, xmin, xmax float64) *Document {
	if name == "" {
		name = DefaultName
	}
	return &Document{Name: name, XMin: xmin, XMax: xmax}
}

// Size returns the number of tiers.
func (d *Document) Size() int {
	return len(d.tiers)
}

// Tiers returns the tiers in declaration order. The slice is a copy; the
// tiers it holds are shared with the document.
func (d *Document) Tiers() []Tier {
	return slices.Clone(d.tiers)
}

// Tier returns the tier at index i.
func (d *Document) Tier(i int) (Tier, bool) {
	if i < 0 || i >= len(d.tiers) {
		return Tier{}, false
	}
	return d.tiers[i], true
}

// TierByName returns the tier called name.
func (d *Document) TierByName(name string) (Tier, bool) {
	if i := d.indexOf(name); i >= 0 {
		return d.tiers[i], true
	}
	return Tier{}, false
}

// PushTier appends t, renaming it when its name is already taken.
func (d *Document) PushTier(t Tier, sink Sink) error {
	return d.InsertTier(len(d.tiers), t, sink)
}

// InsertTier inserts t before index i (i == Size() appends). A duplicate
// name gets a numeric suffix and a WarnDuplicateName warning; a tier
// outside the document bounds gets a WarnOutOfBounds warning.
func (d *Document) InsertTier(i int, t Tier, sink Sink) error {
	if !t.Valid() {
		return errors.NewValidation("tier", "tier variant is not set")
	}
	if i < 0 || i > len(d.tiers) {
		return errors.NewValidation("index", fmt.Sprintf("%d out of range [0, %d]", i, len(d.tiers)))
	}

	name := t.Name()
	if unique := d.uniqueName(name); unique != name {
		Warnf(sink, WarnDuplicateName, unique, "tier name %q already exists; renamed to %q", name, unique)
		t.setName(unique)
	}
	d.warnOutside(t, sink)

	d.tiers = slices.Insert(d.tiers, i, t)
	return nil
}

// RemoveTier deletes the tier at index i.
func (d *Document) RemoveTier(i int) (Tier, bool) {
	if i < 0 || i >= len(d.tiers) {
		return Tier{}, false
	}
	t := d.tiers[i]
	d.tiers = slices.Delete(d.tiers, i, i+1)
	return t, true
}

// RenameTier renames the tier at index i, keeping names unique.
func (d *Document) RenameTier(i int, name string, sink Sink) (string, error) {
	t, ok := d.Tier(i)
	if !ok {
		return "", errors.NewNotFound("tier", fmt.Sprintf("index %d", i))
	}
	if t.Name() == name {
		return name, nil
	}
	unique := d.uniqueName(name)
	if unique != name {
		Warnf(sink, WarnDuplicateName, unique, "tier name %q already exists; renamed to %q", name, unique)
	}
	t.setName(unique)
	return unique, nil
}

// SetXMin moves the document start, warning for every tier that starts earlier.
func (d *Document) SetXMin(xmin float64, sink Sink) {
	for _, t := range d.tiers {
		if txmin, _ := t.Bounds(); txmin < xmin {
			Warnf(sink, WarnOutOfBounds, t.Name(),
				"tier %q has an xmin of %g but the document xmin is set to %g", t.Name(), txmin, xmin)
		}
	}
	d.XMin = xmin
}

// SetXMax moves the document end, warning for every tier that ends later.
func (d *Document) SetXMax(xmax float64, sink Sink) {
	for _, t := range d.tiers {
		if _, txmax := t.Bounds(); txmax > xmax {
			Warnf(sink, WarnOutOfBounds, t.Name(),
				"tier %q has an xmax of %g but the document xmax is set to %g", t.Name(), txmax, xmax)
		}
	}
	d.XMax = xmax
}

func (d *Document) indexOf(name string) int {
	return slices.IndexFunc(d.tiers, func(t Tier) bool {
		return t.Name() == name
	})
}

// uniqueName returns name, or name followed by the smallest positive
// integer that makes it unique.
func (d *Document) uniqueName(name string) string {
	if d.indexOf(name) < 0 {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s%d", name, n)
		if d.indexOf(candidate) < 0 {
			return candidate
		}
	}
}

func (d *Document) warnOutside(t Tier, sink Sink) {
	xmin, xmax := t.Bounds()
	if xmin < d.XMin {
		Warnf(sink, WarnOutOfBounds, t.Name(),
			"tier %q has an xmin of %g before the document xmin of %g", t.Name(), xmin, d.XMin)
	}
	if xmax > d.XMax {
		Warnf(sink, WarnOutOfBounds, t.Name(),
			"tier %q has an xmax of %g after the document xmax of %g", t.Name(), xmax, d.XMax)
	}
}
