package praat

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
	"github.com/google/go-cmp/cmp"
)

func exampleDocument(t *testing.T) *textgrid.Document {
	t.Helper()
	doc := textgrid.NewDocument("example", 0, 2.3)
	tiers := []textgrid.Tier{
		textgrid.NewIntervalTier("John", 0, 2.3, textgrid.Interval{XMin: 0, XMax: 2.3, Text: "daisy bell"}).Tier(),
		textgrid.NewIntervalTier("Kelly", 0, 2.3, textgrid.Interval{XMin: 0, XMax: 2.3}).Tier(),
		textgrid.NewPointTier("Bell", 0, 2.3, textgrid.Point{Number: 1, Mark: "give me your answer do"}).Tier(),
	}
	for _, tier := range tiers {
		if err := doc.PushTier(tier, nil); err != nil {
			t.Fatalf("PushTier() error = %v", err)
		}
	}
	return doc
}

func TestRenderMatchesFixtures(t *testing.T) {
	tests := []struct {
		fixture string
		mode    Mode
	}{
		{"example.TextGrid", Verbose},
		{"example_short.TextGrid", Compact},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			want, err := os.ReadFile("testdata/" + tt.fixture)
			if err != nil {
				t.Fatalf("failed to read fixture: %v", err)
			}
			if diff := cmp.Diff(string(want), Render(exampleDocument(t), tt.mode)); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRenderIsByteIdentical(t *testing.T) {
	want, err := os.ReadFile("testdata/example.TextGrid")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	doc, err := Decode(strings.Split(string(want), "\n"), "example", nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := Render(doc, Verbose); got != string(want) {
		t.Errorf("Render() is not byte identical:\n%s", cmp.Diff(string(want), got))
	}
	if tier, _ := doc.Tier(1); tier.Name() != "Kelly" {
		t.Errorf("Tier(1).Name() = %q, want Kelly", tier.Name())
	}
}

func TestRoundTrip(t *testing.T) {
	doc := exampleDocument(t)
	words := textgrid.NewIntervalTier("quotes", 0, 2.3,
		textgrid.Interval{XMin: 0, XMax: 0.125, Text: `say "hi"`},
		textgrid.Interval{XMin: 0.125, XMax: 1e-7 + 1, Text: "wow! really"},
		textgrid.Interval{XMin: 1.0000001, XMax: 2.3, Text: "12.5"},
	)
	if err := doc.PushTier(words.Tier(), nil); err != nil {
		t.Fatalf("PushTier() error = %v", err)
	}

	for _, mode := range []Mode{Verbose, Compact} {
		t.Run(mode.String(), func(t *testing.T) {
			got, err := Decode(Lines(doc, mode), doc.Name, nil)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(doc, got, cmp.AllowUnexported(textgrid.Document{})); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderRecountsSizes(t *testing.T) {
	doc := exampleDocument(t)
	tier, _ := doc.Tier(0)
	tier.IntervalTier.Push(textgrid.Interval{XMin: 2.3, XMax: 2.3, Text: "end"}, nil)
	doc.RemoveTier(2)

	out := Render(doc, Verbose)
	for _, want := range []string{"size = 2 \n", "intervals: size = 2 \n", "    item [2]:\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q", want)
		}
	}
	if strings.Contains(out, "item [3]") {
		t.Error("removed tier was rendered")
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	doc := textgrid.NewDocument("", 0, 1)
	want := "File type = \"ooTextFile\"\nObject class = \"TextGrid\"\n\nxmin = 0 \nxmax = 1 \ntiers? <absent> \n"
	if got := Render(doc, Verbose); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if got := Lines(doc, Compact); got[len(got)-1] != "<absent>" {
		t.Errorf("compact rendering ends with %q", got[len(got)-1])
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	doc := exampleDocument(t)
	if err := Encode(&buf, doc, Compact); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if buf.String() != Render(doc, Compact) {
		t.Error("Encode() and Render() disagree")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{2.3, "2.3"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1e21, "1000000000000000000000"},
		{1e-7, "0.0000001"},
		{math.Copysign(0, -1), "0"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.v); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"verbose", Verbose, false},
		{"long", Verbose, false},
		{"", Verbose, false},
		{"Compact", Compact, false},
		{"short", Compact, false},
		{"binary", Verbose, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("ParseMode(%q) error = %v, want ErrInvalidInput", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := exampleDocument(t)
	short, err := Decode(Lines(a, Compact), a.Name, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if Fingerprint(a) != Fingerprint(short) {
		t.Error("fingerprint depends on the layout the document was read from")
	}
	tier, _ := short.Tier(0)
	tier.IntervalTier.Intervals[0].Text = "changed"
	if Fingerprint(a) == Fingerprint(short) {
		t.Error("fingerprint did not change with the content")
	}
}

func TestCheckNumbers(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(doc *textgrid.Document)
		field string
	}{
		{"negative document xmin", func(d *textgrid.Document) { d.XMin = -1 }, "xmin"},
		{"infinite document xmax", func(d *textgrid.Document) { d.XMax = math.Inf(1) }, "xmax"},
		{"negative tier xmin", func(d *textgrid.Document) {
			tier, _ := d.Tier(1)
			tier.IntervalTier.XMin = -0.5
		}, "xmin of tier 2"},
		{"negative interval xmin", func(d *textgrid.Document) {
			tier, _ := d.Tier(0)
			tier.IntervalTier.Intervals[0].XMin = -0.5
		}, "interval 1 of tier 1 xmin"},
		{"NaN point", func(d *textgrid.Document) {
			tier, _ := d.Tier(2)
			tier.PointTier.Points[0].Number = math.NaN()
		}, "point 1 of tier 3 number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := exampleDocument(t)
			tt.edit(doc)

			err := CheckNumbers(doc)
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("CheckNumbers() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
			if !errors.Is(err, errors.ErrInvalidNumber) {
				t.Errorf("error %v does not wrap ErrInvalidNumber", err)
			}
		})
	}

	if err := CheckNumbers(exampleDocument(t)); err != nil {
		t.Errorf("CheckNumbers(example) error = %v", err)
	}
}

func TestEncodeRejectsNegativeTimes(t *testing.T) {
	for _, mode := range []Mode{Verbose, Compact} {
		doc := exampleDocument(t)
		doc.XMin = -1

		var buf bytes.Buffer
		if err := Encode(&buf, doc, mode); !errors.Is(err, errors.ErrInvalidNumber) {
			t.Errorf("Encode(%s) error = %v, want ErrInvalidNumber", mode, err)
		}
		if buf.Len() != 0 {
			t.Errorf("Encode(%s) wrote %d bytes", mode, buf.Len())
		}
	}
}
