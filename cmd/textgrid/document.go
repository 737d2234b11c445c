package main

import (
	"fmt"

	"github.com/FocuswithJustin/textgrid/core/praat"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
	"github.com/FocuswithJustin/textgrid/internal/logging"
)

// InfoCmd prints a summary of a TextGrid.
type InfoCmd struct {
	File string `arg:"" help:"TextGrid file" type:"path"`
}

func (c *InfoCmd) Run() error {
	s, err := newSession("info")
	if err != nil {
		return err
	}
	return s.fail(c.run(s))
}

func (c *InfoCmd) run(s *session) error {
	doc, err := s.load(c.File)
	if err != nil {
		return err
	}

	fp := praat.Fingerprint(doc)
	fmt.Fprintf(stdout, "TextGrid: %s\n", doc.Name)
	fmt.Fprintf(stdout, "  Range: %s - %s\n", praat.FormatNumber(doc.XMin), praat.FormatNumber(doc.XMax))
	fmt.Fprintf(stdout, "  SHA-256: %s\n", fp.SHA256)
	fmt.Fprintf(stdout, "  BLAKE3: %s\n", fp.BLAKE3)
	fmt.Fprintf(stdout, "  Tiers: %d\n", doc.Size())
	for i, tier := range doc.Tiers() {
		xmin, xmax := tier.Bounds()
		fmt.Fprintf(stdout, "    [%d] %-12s %q %s - %s, %d %s\n", i, tier.Kind, tier.Name(),
			praat.FormatNumber(xmin), praat.FormatNumber(xmax), tier.Size(), childNoun(tier))
	}
	fmt.Fprintf(stdout, "  Warnings: %d\n", s.warnings.Len())
	for _, w := range s.warnings.Warnings {
		fmt.Fprintf(stdout, "    %s: %s\n", w.Kind, w.Message)
	}
	return nil
}

func childNoun(t textgrid.Tier) string {
	if t.Kind == textgrid.KindPoint {
		return "points"
	}
	return "intervals"
}

// ConvertCmd rewrites a TextGrid in another layout.
type ConvertCmd struct {
	File string `arg:"" help:"TextGrid file" type:"path"`
	Out  string `short:"o" required:"" help:"Output file or directory (.xz and .gz are compressed)"`
	Mode string `short:"m" help:"Output layout: verbose (long) or compact (short)"`
}

func (c *ConvertCmd) Run() error {
	s, err := newSession("convert")
	if err != nil {
		return err
	}
	return s.fail(c.run(s))
}

func (c *ConvertCmd) run(s *session) error {
	mode, err := s.mode(c.Mode)
	if err != nil {
		return err
	}
	doc, err := s.load(c.File)
	if err != nil {
		return err
	}
	return s.write(doc, c.Out, mode)
}

// CheckCmd reports structural defects.
type CheckCmd struct {
	File string `arg:"" help:"TextGrid file" type:"path"`
}

func (c *CheckCmd) Run() error {
	s, err := newSession("check")
	if err != nil {
		return err
	}
	return s.fail(c.run(s))
}

func (c *CheckCmd) run(s *session) error {
	doc, err := s.load(c.File)
	if err != nil {
		return err
	}

	defects := doc.CheckOverlaps()
	if len(defects) == 0 {
		fmt.Fprintf(stdout, "%s: no defects\n", doc.Name)
		return nil
	}

	total := 0
	for _, d := range defects {
		tier, _ := doc.Tier(d.Index)
		fmt.Fprintf(stdout, "Tier [%d] %q:\n", d.Index, d.Name)
		found := 0
		for _, p := range d.Pairs {
			if d.Kind == textgrid.KindPoint && p.First > p.Second {
				continue
			}
			fmt.Fprintf(stdout, "  %s\n", describeDefect(tier, p))
			found++
		}
		logging.WarnContext(s.ctx, "tier has defects", "document", doc.Name, "tier", d.Name, "kind", d.Kind.String(), "defects", found)
		total += found
	}
	return fmt.Errorf("%s: %d defects found", doc.Name, total)
}

// describeDefect explains one pair reported by CheckOverlaps.
func describeDefect(tier textgrid.Tier, p textgrid.IndexPair) string {
	if tier.Kind == textgrid.KindPoint {
		pt := tier.PointTier.Points[p.First]
		return fmt.Sprintf("points %d and %d share time %s", p.First, p.Second, praat.FormatNumber(pt.Number))
	}
	a := tier.IntervalTier.Intervals[p.First]
	b := tier.IntervalTier.Intervals[p.Second]
	kind := "overlap"
	if a.XMax < b.XMin {
		kind = "gap"
	}
	return fmt.Sprintf("%s between intervals %d and %d: %s != %s",
		kind, p.First, p.Second, praat.FormatNumber(a.XMax), praat.FormatNumber(b.XMin))
}

// FixCmd repairs interval boundaries and optionally fills gaps.
type FixCmd struct {
	File       string `arg:"" help:"TextGrid file" type:"path"`
	Out        string `short:"o" required:"" help:"Output file or directory"`
	Mode       string `short:"m" help:"Output layout: verbose (long) or compact (short)"`
	PreferLast bool   `name:"prefer-last" help:"Move the end of the earlier interval instead of the start of the later one"`
	Fill       bool   `help:"Insert labeled intervals into gaps before repairing boundaries"`
	Label      string `help:"Text of filler intervals (default from config)"`
}

func (c *FixCmd) Run() error {
	s, err := newSession("fix")
	if err != nil {
		return err
	}
	return s.fail(c.run(s))
}

func (c *FixCmd) run(s *session) error {
	mode, err := s.mode(c.Mode)
	if err != nil {
		return err
	}
	doc, err := s.load(c.File)
	if err != nil {
		return err
	}

	preferFirst := s.cfg.PreferFirst && !c.PreferLast
	label := s.cfg.FillLabel
	if c.Label != "" {
		label = c.Label
	}

	filled := 0
	for _, tier := range doc.Tiers() {
		if tier.Kind != textgrid.KindInterval {
			continue
		}
		if c.Fill {
			filled += tier.IntervalTier.FillGaps(label)
		}
		tier.IntervalTier.FixBoundaries(preferFirst)
	}
	logging.InfoContext(s.ctx, "boundaries repaired", "document", doc.Name, "filled", filled, "prefer_first", preferFirst)
	fmt.Fprintf(stdout, "Repaired: %s (%d gaps filled)\n", doc.Name, filled)
	return s.write(doc, c.Out, mode)
}
