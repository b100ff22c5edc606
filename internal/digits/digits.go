// Package digits translates between ASCII and Devanagari decimal digits.
package digits

import (
	"strconv"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Zero is the Devanagari digit zero (U+0966). The digits ० through ९ are
// contiguous code points.
const Zero = '०'

var (
	toDevanagari = runes.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return Zero + (r - '0')
		}
		return r
	})

	toASCII = runes.Map(func(r rune) rune {
		if IsDevanagari(r) {
			return '0' + (r - Zero)
		}
		return r
	})
)

// IsDevanagari reports whether r is a Devanagari decimal digit.
func IsDevanagari(r rune) bool {
	return r >= Zero && r <= Zero+9
}

// ToDevanagari replaces every ASCII digit in s with its Devanagari form.
func ToDevanagari(s string) string {
	return apply(toDevanagari, s)
}

// ToASCII replaces every Devanagari digit in s with its ASCII form.
func ToASCII(s string) string {
	return apply(toASCII, s)
}

// Transformer returns a transformer mapping ASCII digits to Devanagari, for
// use with transform.NewReader and transform.NewWriter.
func Transformer() transform.Transformer {
	return toDevanagari
}

// Pad formats n in ASCII digits, zero-padded to width.
func Pad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// PadDevanagari formats n in Devanagari digits, zero-padded to width.
func PadDevanagari(n, width int) string {
	return ToDevanagari(Pad(n, width))
}

func apply(t transform.Transformer, s string) string {
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
