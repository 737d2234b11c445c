package cas

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/zeebo/blake3"
)

func TestHashKnownValue(t *testing.T) {
	// SHA-256 of the empty string.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Hash(nil); got != want {
		t.Errorf("Hash(nil) = %s, want %s", got, want)
	}
}

func TestSum(t *testing.T) {
	data := []byte("File type = \"ooTextFile\"\n")
	r := Sum(data)

	if r.SHA256 != Hash(data) {
		t.Errorf("SHA256 = %s, want %s", r.SHA256, Hash(data))
	}
	h := blake3.Sum256(data)
	if want := hex.EncodeToString(h[:]); r.BLAKE3 != want {
		t.Errorf("BLAKE3 = %s, want %s", r.BLAKE3, want)
	}
	if r.SHA256 == r.BLAKE3 {
		t.Error("SHA256 and BLAKE3 should differ")
	}
	if !IsValidHash(r.SHA256) || !IsValidHash(r.BLAKE3) {
		t.Errorf("Sum produced invalid hashes: %+v", r)
	}
}

func TestIsValidHash(t *testing.T) {
	tests := []struct {
		hash string
		want bool
	}{
		{Hash([]byte("x")), true},
		{"", false},
		{"abc", false},
		{"E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855", false},
		{"g3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", false},
	}
	for _, tt := range tests {
		if got := IsValidHash(tt.hash); got != tt.want {
			t.Errorf("IsValidHash(%q) = %v, want %v", tt.hash, got, tt.want)
		}
	}
}

func TestVerify(t *testing.T) {
	data := []byte("daisy bell")
	r := Sum(data)
	if err := r.Verify(data); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
	if err := r.Verify([]byte("daisy")); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("Verify() error = %v, want ErrHashMismatch", err)
	}
	if err := (HashResult{SHA256: "bad"}).Verify(data); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("Verify() error = %v, want ErrInvalidHash", err)
	}
}

func TestShort(t *testing.T) {
	r := Sum([]byte("x"))
	if got := r.Short(); len(got) != 12 || got != r.SHA256[:12] {
		t.Errorf("Short() = %q", got)
	}
	if got := (HashResult{SHA256: "abc"}).Short(); got != "abc" {
		t.Errorf("Short() = %q, want abc", got)
	}
}
