package praat

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/textgrid/core/encoding"
	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
)

// Mode selects the output layout.
type Mode int

const (
	// Verbose is Praat's labeled "long" text layout.
	Verbose Mode = iota
	// Compact is Praat's "short" layout carrying only values.
	Compact
)

func (m Mode) String() string {
	switch m {
	case Verbose:
		return "verbose"
	case Compact:
		return "compact"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "verbose"/"long" and "compact"/"short".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "long", "":
		return Verbose, nil
	case "compact", "short":
		return Compact, nil
	}
	return Verbose, errors.NewValidation("mode", fmt.Sprintf("unknown output mode %q", s))
}

// FormatNumber renders v in its shortest decimal form without an exponent.
// Negative zero is written as 0.
func FormatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CheckNumbers returns a ValidationError naming the first time in doc
// that the reader cannot take back: a negative, NaN or infinite value.
// The token filter only keeps unsigned decimals, so such a rendering
// would decode misaligned.
func CheckNumbers(doc *textgrid.Document) error {
	if err := checkNumber("xmin", doc.XMin); err != nil {
		return err
	}
	if err := checkNumber("xmax", doc.XMax); err != nil {
		return err
	}
	for i, tier := range doc.Tiers() {
		xmin, xmax := tier.Bounds()
		if err := checkNumber(fmt.Sprintf("xmin of tier %d", i+1), xmin); err != nil {
			return err
		}
		if err := checkNumber(fmt.Sprintf("xmax of tier %d", i+1), xmax); err != nil {
			return err
		}
		switch tier.Kind {
		case textgrid.KindInterval:
			for j, iv := range tier.IntervalTier.Intervals {
				if err := checkNumber(fmt.Sprintf("interval %d of tier %d xmin", j+1, i+1), iv.XMin); err != nil {
					return err
				}
				if err := checkNumber(fmt.Sprintf("interval %d of tier %d xmax", j+1, i+1), iv.XMax); err != nil {
					return err
				}
			}
		case textgrid.KindPoint:
			for j, p := range tier.PointTier.Points {
				if err := checkNumber(fmt.Sprintf("point %d of tier %d number", j+1, i+1), p.Number); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkNumber(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return &errors.ValidationError{
			Field:   field,
			Value:   FormatNumber(v),
			Message: "times must be finite and not negative",
			Err:     errors.ErrInvalidNumber,
		}
	}
	return nil
}

// Lines renders doc as output lines, without line terminators. Sizes are
// taken from the document as it is now, not from what was decoded. Lines
// does not call CheckNumbers.
func Lines(doc *textgrid.Document, mode Mode) []string {
	w := &lineWriter{}
	if mode == Compact {
		w.compact(doc)
	} else {
		w.verbose(doc)
	}
	return w.lines
}

// Render returns the full text of doc, each line ending in a newline.
func Render(doc *textgrid.Document, mode Mode) string {
	var sb strings.Builder
	for _, line := range Lines(doc, mode) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Encode writes the rendering of doc to w after CheckNumbers accepts it.
func Encode(w io.Writer, doc *textgrid.Document, mode Mode) error {
	if err := CheckNumbers(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, Render(doc, mode))
	return err
}

type lineWriter struct {
	lines []string
}

func (w *lineWriter) add(indent int, format string, args ...any) {
	w.lines = append(w.lines, strings.Repeat("    ", indent)+fmt.Sprintf(format, args...))
}

// value writes a labeled value the way Praat does, with a trailing blank.
func (w *lineWriter) value(indent int, label, v string) {
	w.add(indent, "%s = %s ", label, v)
}

func (w *lineWriter) verbose(doc *textgrid.Document) {
	w.add(0, "File type = %s", encoding.Quote(FileType))
	w.add(0, "Object class = %s", encoding.Quote(ObjectClass))
	w.add(0, "")
	w.value(0, "xmin", FormatNumber(doc.XMin))
	w.value(0, "xmax", FormatNumber(doc.XMax))
	if doc.Size() == 0 {
		w.add(0, "tiers? <absent> ")
		return
	}
	w.add(0, "tiers? <exists> ")
	w.value(0, "size", strconv.Itoa(doc.Size()))
	w.add(0, "item []: ")
	for i, tier := range doc.Tiers() {
		w.add(1, "item [%d]:", i+1)
		xmin, xmax := tier.Bounds()
		w.value(2, "class", encoding.Quote(tier.Kind.String()))
		w.value(2, "name", encoding.Quote(tier.Name()))
		w.value(2, "xmin", FormatNumber(xmin))
		w.value(2, "xmax", FormatNumber(xmax))
		switch tier.Kind {
		case textgrid.KindInterval:
			w.value(2, "intervals: size", strconv.Itoa(tier.Size()))
			for j, iv := range tier.IntervalTier.Intervals {
				w.add(2, "intervals [%d]:", j+1)
				w.value(3, "xmin", FormatNumber(iv.XMin))
				w.value(3, "xmax", FormatNumber(iv.XMax))
				w.value(3, "text", encoding.Quote(iv.Text))
			}
		case textgrid.KindPoint:
			w.value(2, "points: size", strconv.Itoa(tier.Size()))
			for j, p := range tier.PointTier.Points {
				w.add(2, "points [%d]:", j+1)
				w.value(3, "number", FormatNumber(p.Number))
				w.value(3, "mark", encoding.Quote(p.Mark))
			}
		}
	}
}

func (w *lineWriter) compact(doc *textgrid.Document) {
	w.add(0, "%s", encoding.Quote(FileType))
	w.add(0, "%s", encoding.Quote(ObjectClass))
	w.add(0, "")
	w.add(0, "%s", FormatNumber(doc.XMin))
	w.add(0, "%s", FormatNumber(doc.XMax))
	if doc.Size() == 0 {
		w.add(0, "<absent>")
		return
	}
	w.add(0, "<exists>")
	w.add(0, "%d", doc.Size())
	for _, tier := range doc.Tiers() {
		xmin, xmax := tier.Bounds()
		w.add(0, "%s", encoding.Quote(tier.Kind.String()))
		w.add(0, "%s", encoding.Quote(tier.Name()))
		w.add(0, "%s", FormatNumber(xmin))
		w.add(0, "%s", FormatNumber(xmax))
		w.add(0, "%d", tier.Size())
		switch tier.Kind {
		case textgrid.KindInterval:
			for _, iv := range tier.IntervalTier.Intervals {
				w.add(0, "%s", FormatNumber(iv.XMin))
				w.add(0, "%s", FormatNumber(iv.XMax))
				w.add(0, "%s", encoding.Quote(iv.Text))
			}
		case textgrid.KindPoint:
			for _, p := range tier.PointTier.Points {
				w.add(0, "%s", FormatNumber(p.Number))
				w.add(0, "%s", encoding.Quote(p.Mark))
			}
		}
	}
}
