// Package numbers formats numbers the Nepali way: 3-2-2 digit grouping
// (12,34,567), number names in Nepali words and Nepali ordinal words.
package numbers

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/digits"
)

// Options controls Format.
type Options struct {
	Devanagari bool   // render digits as ०-९
	Delimiter  string // group separator, "," when empty
}

var plainNumber = regexp.MustCompile(`^(-?)(\d+)(?:\.(\d+))?$`)

// Format regroups the decimal number in s as the Nepali system writes it:
// the last three integer digits, then pairs. Existing commas are dropped so
// western-grouped input is accepted, as are Devanagari digits. The fraction
// is kept as written.
//
//	Format("1234567", Options{})        // 12,34,567
//	Format("2,553,871", Options{})      // 25,53,871
//	Format("-1234567.89", Options{})    // -12,34,567.89
func Format(s string, opts Options) (string, error) {
	clean := strings.ReplaceAll(digits.ToASCII(strings.TrimSpace(s)), ",", "")
	m := plainNumber.FindStringSubmatch(clean)
	if m == nil {
		return "", fmt.Errorf("%w: %q is not a number", calendar.ErrUnparseable, s)
	}

	delim := opts.Delimiter
	if delim == "" {
		delim = ","
	}

	out := m[1] + group(m[2], delim)
	if m[3] != "" {
		out += "." + m[3]
	}
	if opts.Devanagari {
		out = digits.ToDevanagari(out)
	}
	return out, nil
}

// FormatInt is Format for an integer.
func FormatInt(n int64, opts Options) string {
	s, _ := Format(strconv.FormatInt(n, 10), opts)
	return s
}

// FormatFloat is Format for a float printed with prec fraction digits. A
// prec of -1 uses the fewest digits that represent f exactly.
func FormatFloat(f float64, prec int, opts Options) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v is not a finite number", calendar.ErrUnparseable, f)
	}
	return Format(strconv.FormatFloat(f, 'f', prec, 64), opts)
}

func group(intPart, delim string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append(parts, head[len(head)-2:])
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append(parts, head)
	}

	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
		b.WriteString(delim)
	}
	b.WriteString(tail)
	return b.String()
}

// =============================================================================
// Words
// =============================================================================

// Zero is the Nepali word for 0.
const Zero = "शुन्य"

// cardinals[n] names 0 < n < 100. Nepali has a distinct word for each.
var cardinals = [100]string{
	"", "एक", "दुई", "तीन", "चार", "पाँच", "छ", "सात", "आठ", "नौ",
	"दश", "एघार", "बाह्र", "तेह्र", "चौध", "पन्ध्र", "सोह्र", "सत्र", "अठार", "उन्नाइस",
	"बीस", "एक्काइस", "बाइस", "तेइस", "चौबीस", "पच्चीस", "छब्बीस", "सत्ताइस", "अठ्ठाइस", "उनन्तीस",
	"तीस", "एकतीस", "बत्तीस", "तेत्तीस", "चौँतीस", "पैँतीस", "छत्तीस", "सैँतीस", "अठतीस", "उनन्चालीस",
	"चालीस", "एकचालीस", "बयालीस", "त्रिचालीस", "चवालीस", "पैँतालीस", "छयालीस", "सत्चालीस", "अठचालीस", "उनन्पचास",
	"पचास", "एकाउन्न", "बाउन्न", "त्रिपन्न", "चउन्न", "पचपन्न", "छपन्न", "सन्ताउन्न", "अन्ठाउन्न", "उनन्साठी",
	"साठी", "एकसट्ठी", "बयसट्ठी", "त्रिसट्ठी", "चौंसट्ठी", "पैंसट्ठी", "छयसट्ठी", "सतसट्ठी", "अठसट्ठी", "उनन्सत्तरी",
	"सत्तरी", "एकहत्तर", "बहत्तर", "त्रिहत्तर", "चौहत्तर", "पचहत्तर", "छयहत्तर", "सतहत्तर", "अठहत्तर", "उनासी",
	"असी", "एकासी", "बयासी", "त्रियासी", "चौरासी", "पचासी", "छयासी", "सतासी", "अठासी", "उनान्नब्बे",
	"नब्बे", "एकानब्बे", "बयानब्बे", "त्रियानब्बे", "चौरानब्बे", "पंचानब्बे", "छयानब्बे", "सन्तानब्बे", "अन्ठानब्बे", "उनान्सय",
}

// Scale words, largest first.
var scales = []struct {
	value int64
	word  string
}{
	{1e11, "खर्ब"},
	{1e9, "अर्ब"},
	{1e7, "करोड"},
	{1e5, "लाख"},
	{1e3, "हजार"},
	{1e2, "सय"},
}

// Words spells n in Nepali words using the Nepali scale: सय, हजार, लाख,
// करोड, अर्ब and खर्ब. Each scale takes a count below 100, except खर्ब,
// whose count is itself spelled out.
//
//	Words(1234)   // एक हजार दुई सय चौँतीस
//	Words(100000) // एक लाख
//
// Negative numbers are out of range.
func Words(n int64) (string, error) {
	if n < 0 {
		return "", &calendar.RangeError{Op: "Words", Field: "number", Value: int(n), Min: 0, Max: math.MaxInt}
	}
	if n == 0 {
		return Zero, nil
	}
	return strings.Join(words(n), " "), nil
}

func words(n int64) []string {
	var parts []string
	for _, s := range scales {
		if n < s.value {
			continue
		}
		count := n / s.value
		n %= s.value
		if count < 100 {
			parts = append(parts, cardinals[count], s.word)
		} else {
			parts = append(append(parts, words(count)...), s.word)
		}
	}
	if n > 0 {
		parts = append(parts, cardinals[n])
	}
	return parts
}
