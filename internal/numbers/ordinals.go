package numbers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/digits"
)

// MaxOrdinal is the largest ordinal with a Nepali word.
const MaxOrdinal = 100

// Ordinals[n-1] is the Nepali ordinal word for n. The first four are
// irregular; the rest add औं (or ौं) to the cardinal.
var Ordinals = [MaxOrdinal]string{
	"पहिलो", "दोस्रो", "तेस्रो", "चौथो", "पाँचौं", "छैठौं", "सातौं", "आठौं", "नवौं", "दशौं",
	"एघारौं", "बाह्रौं", "तेह्रौं", "चौधौं", "पन्ध्रौं", "सोह्रौं", "सत्रौं", "अठारौं", "उन्नाइसौं", "बीसौं",
	"एक्काइसौं", "बाइसौं", "तेइसौं", "चौबीसौं", "पच्चीसौं", "छब्बीसौं", "सत्ताइसौं", "अठ्ठाइसौं", "उनन्तीसौं", "तीसौं",
	"एकतीसौं", "बत्तीसौं", "तेत्तीसौं", "चौँतीसौं", "पैँतीसौं", "छत्तीसौं", "सैँतीसौं", "अठतीसौं", "उनन्चालीसौं", "चालीसौं",
	"एकचालीसौं", "बयालीसौं", "त्रिचालीसौं", "चवालीसौं", "पैँतालीसौं", "छयालीसौं", "सत्चालीसौं", "अठचालीसौं", "उनन्पचासौं", "पचासौं",
	"एकाउन्नौं", "बाउन्नौं", "त्रिपन्नौं", "चउन्नौं", "पचपन्नौं", "छपन्नौं", "सन्ताउन्नौं", "अन्ठाउन्नौं", "उनन्साठीऔं", "साठीऔं",
	"एकसट्ठीऔं", "बयसट्ठीऔं", "त्रिसट्ठीऔं", "चौंसट्ठीऔं", "पैंसट्ठीऔं", "छयसट्ठीऔं", "सतसट्ठीऔं", "अठसट्ठीऔं", "उनन्सत्तरीऔं", "सत्तरीऔं",
	"एकहत्तरौं", "बहत्तरौं", "त्रिहत्तरौं", "चौहत्तरौं", "पचहत्तरौं", "छयहत्तरौं", "सतहत्तरौं", "अठहत्तरौं", "उनासीऔं", "असीऔं",
	"एकासीऔं", "बयासीऔं", "त्रियासीऔं", "चौरासीऔं", "पचासीऔं", "छयासीऔं", "सतासीऔं", "अठासीऔं", "उनान्नब्बेऔं", "नब्बेऔं",
	"एकानब्बेऔं", "बयानब्बेऔं", "त्रियानब्बेऔं", "चौरानब्बेऔं", "पंचानब्बेऔं", "छयानब्बेऔं", "सन्तानब्बेऔं", "अन्ठानब्बेऔं", "उनान्सयौं", "सयौं",
}

// englishOrdinals maps lower-case English ordinal words to their value.
// Numeric forms such as "21st" are handled by suffix.
var englishOrdinals = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14, "fifteenth": 15,
	"sixteenth": 16, "seventeenth": 17, "eighteenth": 18, "nineteenth": 19, "twentieth": 20,
	"twenty-first": 21, "twenty-second": 22, "twenty-third": 23, "twenty-fourth": 24, "twenty-fifth": 25,
	"thirtieth": 30, "fortieth": 40, "fiftieth": 50, "sixtieth": 60, "seventieth": 70,
	"eightieth": 80, "ninetieth": 90, "hundredth": 100,
}

var ordinalIndex = func() map[string]int {
	idx := make(map[string]int, MaxOrdinal)
	for i, w := range Ordinals {
		idx[w] = i + 1
	}
	return idx
}()

// Ordinal returns the Nepali ordinal word for n, 1 through MaxOrdinal.
func Ordinal(n int) (string, error) {
	if n < 1 || n > MaxOrdinal {
		return "", &calendar.RangeError{Op: "Ordinal", Field: "ordinal", Value: n, Min: 1, Max: MaxOrdinal}
	}
	return Ordinals[n-1], nil
}

// OrdinalOf converts English ordinal text ("first", "21st") or a plain
// number ("7", "७") to the Nepali ordinal word. Case and surrounding space
// are ignored.
func OrdinalOf(text string) (string, error) {
	n, err := parseEnglish(text)
	if err != nil {
		return "", err
	}
	return Ordinal(n)
}

// ParseOrdinal returns the value of a Nepali ordinal word.
func ParseOrdinal(text string) (int, error) {
	if n, ok := ordinalIndex[strings.TrimSpace(text)]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q is not a Nepali ordinal", calendar.ErrUnparseable, text)
}

func parseEnglish(text string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if n, ok := englishOrdinals[s]; ok {
		return n, nil
	}

	num := s
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(s, suffix) {
			num = strings.TrimSuffix(s, suffix)
			if !validSuffix(num, suffix) {
				return 0, fmt.Errorf("%w: %q has the wrong suffix", calendar.ErrUnparseable, text)
			}
			break
		}
	}
	n, err := strconv.Atoi(digits.ToASCII(num))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an ordinal", calendar.ErrUnparseable, text)
	}
	return n, nil
}

// validSuffix reports whether suffix is the English one for the number num:
// 1st, 2nd, 3rd, but 11th, 12th, 13th.
func validSuffix(num, suffix string) bool {
	n, err := strconv.Atoi(num)
	if err != nil {
		return false
	}
	want := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			want = "st"
		case 2:
			want = "nd"
		case 3:
			want = "rd"
		}
	}
	return suffix == want
}
