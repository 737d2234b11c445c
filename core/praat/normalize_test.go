package praat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStripComment(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"no comment", `xmin = 0 `, `xmin = 0 `},
		{"trailing comment", `xmin = 0 ! start`, `xmin = 0 `},
		{"whole line", `! header comment`, ``},
		{"bang inside label", `text = "hi!" `, `text = "hi!" `},
		{"comment after label", `text = "hi!" ! note`, `text = "hi!" `},
		{"doubled quote in label", `text = "say ""hi!""" ! x`, `text = "say ""hi!""" `},
		{"unterminated quote", `text = "open ! still text`, `text = "open ! still text`},
		{"two labels", `"a" "b!" !c`, `"a" "b!" `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripComment(tt.line); got != tt.want {
				t.Errorf("StripComment(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestNormalizeLines(t *testing.T) {
	in := []string{
		"\ufeffFile type = \"ooTextFile\"\r",
		"Object class = \"TextGrid\"\r",
		"\r",
		"   ",
		"! only a comment",
		"xmin = 0 ! start",
		"",
	}
	want := []string{
		`File type = "ooTextFile"`,
		`Object class = "TextGrid"`,
		`xmin = 0 `,
	}
	if diff := cmp.Diff(want, NormalizeLines(in)); diff != "" {
		t.Errorf("NormalizeLines() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeLinesKeepsLaterBOM(t *testing.T) {
	in := []string{"a", "\ufeffb"}
	got := NormalizeLines(in)
	if got[1] != "\ufeffb" {
		t.Errorf("byte order mark stripped from line 2: %q", got[1])
	}
}
