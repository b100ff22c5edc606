package digits

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/transform"
)

func TestToDevanagari(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2080", "२०८०"},
		{"0123456789", "०१२३४५६७८९"},
		{"2080-10-24", "२०८०-१०-२४"},
		{"Magh", "Magh"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToDevanagari(tt.in); got != tt.want {
			t.Errorf("ToDevanagari(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToASCII(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"२०७८-०१-१८", "2078-01-18"},
		{"माघ २४", "माघ 24"},
		{"2080", "2080"},
	}
	for _, tt := range tests {
		if got := ToASCII(tt.in); got != tt.want {
			t.Errorf("ToASCII(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPad(t *testing.T) {
	if got := Pad(7, 2); got != "07" {
		t.Errorf("Pad(7, 2) = %q, want %q", got, "07")
	}
	if got := Pad(123, 2); got != "123" {
		t.Errorf("Pad(123, 2) = %q, want %q", got, "123")
	}
	if got := PadDevanagari(5, 4); got != "०००५" {
		t.Errorf("PadDevanagari(5, 4) = %q, want %q", got, "०००५")
	}
}

func TestIsDevanagari(t *testing.T) {
	for _, r := range "०१२३४५६७८९" {
		if !IsDevanagari(r) {
			t.Errorf("IsDevanagari(%q) = false", r)
		}
	}
	for _, r := range "09aक" {
		if IsDevanagari(r) {
			t.Errorf("IsDevanagari(%q) = true", r)
		}
	}
}

func TestTransformer_Reader(t *testing.T) {
	r := transform.NewReader(strings.NewReader("BS 2081"), Transformer())
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if got := buf.String(); got != "BS २०८१" {
		t.Errorf("transformed = %q, want %q", got, "BS २०८१")
	}
}
