package praat

import (
	"os"
	"strings"
	"testing"

	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
	"github.com/google/go-cmp/cmp"
)

func readFixture(t *testing.T, name string) []string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return strings.Split(string(data), "\n")
}

func TestDecodeExample(t *testing.T) {
	for _, fixture := range []string{"example.TextGrid", "example_short.TextGrid"} {
		t.Run(fixture, func(t *testing.T) {
			var c textgrid.Collector
			doc, err := Decode(readFixture(t, fixture), "example", &c)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if c.Len() != 0 {
				t.Errorf("unexpected warnings: %v", c.Warnings)
			}
			if doc.Name != "example" || doc.XMin != 0 || doc.XMax != 2.3 {
				t.Errorf("document = %q [%v, %v]", doc.Name, doc.XMin, doc.XMax)
			}
			if doc.Size() != 3 {
				t.Fatalf("Size() = %d, want 3", doc.Size())
			}

			tier, _ := doc.Tier(1)
			if tier.Name() != "Kelly" {
				t.Errorf("Tier(1).Name() = %q, want Kelly", tier.Name())
			}

			john, _ := doc.TierByName("John")
			want := []textgrid.Interval{{XMin: 0, XMax: 2.3, Text: "daisy bell"}}
			if diff := cmp.Diff(want, john.IntervalTier.Intervals); diff != "" {
				t.Errorf("John intervals mismatch (-want +got):\n%s", diff)
			}

			bell, _ := doc.TierByName("Bell")
			if bell.Kind != textgrid.KindPoint {
				t.Fatalf("Bell kind = %v", bell.Kind)
			}
			wantPoints := []textgrid.Point{{Number: 1, Mark: "give me your answer do"}}
			if diff := cmp.Diff(wantPoints, bell.PointTier.Points); diff != "" {
				t.Errorf("Bell points mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeIgnoresDeclaredCounts(t *testing.T) {
	input := `File type = "ooTextFile"
Object class = "TextGrid"

xmin = 0
xmax = 3
tiers? <exists>
size = 5
item []:
    item [1]:
        class = "IntervalTier"
        name = "words"
        xmin = 0
        xmax = 3
        intervals: size = 7
        intervals [1]:
            xmin = 0
            xmax = 1
            text = "one"
        intervals [2]:
            xmin = 1
            xmax = 3
            text = "two"
    item [2]:
        class = "TextTier"
        name = "marks"
        xmin = 0
        xmax = 3
        points: size = 0
        points [1]:
            number = 2
            mark = "x"
`
	var c textgrid.Collector
	doc, err := Decode(strings.Split(input, "\n"), "", &c)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", doc.Size())
	}
	words, _ := doc.Tier(0)
	if words.Size() != 2 {
		t.Errorf("words size = %d, want 2", words.Size())
	}
	marks, _ := doc.Tier(1)
	if marks.Size() != 1 {
		t.Errorf("marks size = %d, want 1", marks.Size())
	}

	want := []textgrid.WarningKind{textgrid.WarnCountMismatch, textgrid.WarnCountMismatch, textgrid.WarnCountMismatch}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Errorf("warning kinds mismatch (-want +got):\n%s", diff)
	}
	if c.Warnings[0].Tier != "words" || c.Warnings[1].Tier != "marks" || c.Warnings[2].Tier != "" {
		t.Errorf("warnings attributed to wrong tiers: %v", c.Warnings)
	}
}

func TestDecodeNilSink(t *testing.T) {
	input := []string{`"ooTextFile"`, `"TextGrid"`, `0`, `1`, `<exists>`, `4`,
		`"IntervalTier"`, `"a"`, `0`, `2`, `9`, `0`, `2`, `"x"`}
	doc, err := Decode(input, "", nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.Size() != 1 || doc.Name != textgrid.DefaultName {
		t.Errorf("document = %q with %d tiers", doc.Name, doc.Size())
	}
}

func TestDecodeOutOfBoundsWarns(t *testing.T) {
	input := []string{`"ooTextFile"`, `"TextGrid"`, `0`, `1`, `<exists>`, `1`,
		`"IntervalTier"`, `"a"`, `0`, `2`, `1`, `0`, `3`, `"x"`}
	var c textgrid.Collector
	if _, err := Decode(input, "", &c); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []textgrid.WarningKind{textgrid.WarnOutOfBounds, textgrid.WarnOutOfBounds}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Errorf("warning kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeWithoutTiers(t *testing.T) {
	input := []string{`File type = "ooTextFile"`, `Object class = "TextGrid"`, ``,
		`xmin = 0 `, `xmax = 1 `, `tiers? <absent> `}
	var c textgrid.Collector
	doc, err := Decode(input, "", &c)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.Size() != 0 || c.Len() != 0 {
		t.Errorf("Size() = %d, warnings = %v", doc.Size(), c.Warnings)
	}
}

func TestDecodeDuplicateTierNames(t *testing.T) {
	input := []string{`"ooTextFile"`, `"TextGrid"`, `0`, `1`, `<exists>`, `2`,
		`"TextTier"`, `"a"`, `0`, `1`, `0`,
		`"TextTier"`, `"a"`, `0`, `1`, `0`}
	var c textgrid.Collector
	doc, err := Decode(input, "", &c)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	second, _ := doc.Tier(1)
	if second.Name() != "a1" {
		t.Errorf("second tier name = %q, want a1", second.Name())
	}
	if diff := cmp.Diff([]textgrid.WarningKind{textgrid.WarnDuplicateName}, c.Kinds()); diff != "" {
		t.Errorf("warning kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    error
		field   string
		message string
	}{
		{
			name:  "wrong file type",
			input: []string{`File type = "ooBinaryFile"`, `Object class = "TextGrid"`},
			want:  errors.ErrMalformedHeader,
			field: "File type",
		},
		{
			name:  "wrong object class",
			input: []string{`File type = "ooTextFile"`, `Object class = "Sound"`},
			want:  errors.ErrMalformedHeader,
			field: "Object class",
		},
		{
			name:  "empty input",
			input: nil,
			want:  errors.ErrMalformedHeader,
			field: "File type",
		},
		{
			name:  "missing xmax",
			input: []string{`"ooTextFile"`, `"TextGrid"`, `0`},
			want:  errors.ErrUnexpectedEnd,
			field: "xmax",
		},
		{
			name:  "signed number is not a value",
			input: []string{`"ooTextFile"`, `"TextGrid"`, `-1`, `1`},
			want:  errors.ErrUnexpectedEnd,
			field: "xmax",
		},
		{
			name:  "fractional tier count",
			input: []string{`"ooTextFile"`, `"TextGrid"`, `0`, `1`, `<exists>`, `2.5`},
			want:  errors.ErrInvalidNumber,
			field: "size",
		},
		{
			name:    "unknown tier type",
			input:   []string{`"ooTextFile"`, `"TextGrid"`, `0`, `1`, `<exists>`, `1`, `"PitchTier"`, `"a"`},
			want:    errors.ErrUnknownTierType,
			message: "PitchTier",
		},
		{
			name:  "missing tier size",
			input: []string{`"ooTextFile"`, `"TextGrid"`, `0`, `1`, `<exists>`, `1`, `"IntervalTier"`, `"a"`, `0`, `1`},
			want:  errors.ErrUnexpectedEnd,
			field: `size of tier "a"`,
		},
		{
			name: "missing interval text",
			input: []string{`"ooTextFile"`, `"TextGrid"`, `0`, `1`, `<exists>`, `1`,
				`"IntervalTier"`, `"a"`, `0`, `1`, `1`, `0`, `1`},
			want:  errors.ErrUnexpectedEnd,
			field: `interval 1 of tier "a" text`,
		},
		{
			name: "missing point mark",
			input: []string{`"ooTextFile"`, `"TextGrid"`, `0`, `1`, `<exists>`, `1`,
				`"TextTier"`, `"a"`, `0`, `1`, `1`, `0.5`},
			want:  errors.ErrUnexpectedEnd,
			field: `point 1 of tier "a" mark`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(tt.input, "broken", nil)
			if doc != nil {
				t.Error("Decode() returned a document on error")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}
			var pe *errors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error is not a ParseError: %T", err)
			}
			if pe.Path != "broken" {
				t.Errorf("Path = %q, want broken", pe.Path)
			}
			if tt.field != "" && pe.Field != tt.field {
				t.Errorf("Field = %q, want %q", pe.Field, tt.field)
			}
			if tt.message != "" && !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}
