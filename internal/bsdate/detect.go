package bsdate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/digits"
	"github.com/zapponejosh/patro-api/internal/names"
)

// shape is one literal form recognized by Parse. build returns ok=false
// when the captured fields do not form a valid value, in which case Parse
// moves on to the next shape.
type shape struct {
	re    *regexp.Regexp
	build func(m []string) (Value, bool)
}

// shapes are tried in order; more specific forms come first.
var shapes = []shape{
	{
		re:    regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})\s+(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\.(\d+))?$`),
		build: buildDateTime,
	},
	{
		re: regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`),
		build: func(m []string) (Value, bool) {
			return buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
		},
	},
	{
		re: regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2})(?:,?\s+)(\d{4})$`),
		build: func(m []string) (Value, bool) {
			return buildNamed(m[1], m[2], m[3])
		},
	},
	{
		re: regexp.MustCompile(`^([^\d\s]+)\s+(\d{1,2})(?:,?\s+)(\d{4})$`),
		build: func(m []string) (Value, bool) {
			return buildNamed(m[1], m[2], m[3])
		},
	},
	{
		re: regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)(?:,?\s+)(\d{4})$`),
		build: func(m []string) (Value, bool) {
			return buildNamed(m[2], m[1], m[3])
		},
	},
	{
		re:    regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})\s+(\d{1,2}):(\d{2})\s*(AM|PM|am|pm)$`),
		build: buildTwelveHour,
	},
	{
		re: regexp.MustCompile(`^(\d{2})[-/](\d{1,2})[-/](\d{1,2})$`),
		build: func(m []string) (Value, bool) {
			y := atoi(m[1])
			if y < 50 {
				y += 2000
			} else {
				y += 1900
			}
			return buildDate(y, atoi(m[2]), atoi(m[3]))
		},
	},
}

// Parse detects the form of text and returns the Date or DateTime it
// represents. Leading and trailing space is ignored and Devanagari digits
// are accepted anywhere. Recognized forms are
//
//	2080-10-24, 2080/10/24
//	2080-10-24 14:30, 2080-10-24 14:30:05, 2080-10-24 14:30:05.123
//	Magh 24, 2080 and 24 Magh 2080 (English names)
//	माघ २४, २०८० (Nepali names)
//	2080-10-24 2:30 PM
//	80-10-24 (two-digit year, 00-49 in the 2000s)
//
// A DateTime is returned only for forms with a time of day. The result is
// naive. An error wrapping calendar.ErrUnparseable is returned if no form
// both matches and validates.
func Parse(text string) (Value, error) {
	s := digits.ToASCII(strings.TrimSpace(text))
	for _, sh := range shapes {
		m := sh.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if v, ok := sh.build(m); ok {
			return v, nil
		}
	}
	return nil, &ParseError{
		Value:   strings.Clone(text),
		Message: "unrecognized date format",
		Kind:    calendar.ErrUnparseable,
	}
}

// ParseDate is like Parse but always returns a Date, dropping any time of
// day.
func ParseDate(text string) (Date, error) {
	v, err := Parse(text)
	if err != nil {
		return Date{}, err
	}
	return v.DateOf(), nil
}

// ParseDateTime is like Parse but always returns a DateTime. Dates are
// placed at midnight.
func ParseDateTime(text string) (DateTime, error) {
	v, err := Parse(text)
	if err != nil {
		return DateTime{}, err
	}
	if dt, ok := v.(DateTime); ok {
		return dt, nil
	}
	return DateTime{date: v.DateOf()}, nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func buildDate(y, m, d int) (Value, bool) {
	v, err := New(y, m, d)
	if err != nil {
		return nil, false
	}
	return v, true
}

func buildNamed(month, day, year string) (Value, bool) {
	mo, ok := names.MonthNumber(month)
	if !ok {
		return nil, false
	}
	return buildDate(atoi(year), mo, atoi(day))
}

func buildDateTime(m []string) (Value, bool) {
	c := Clock{Hour: atoi(m[4]), Minute: atoi(m[5])}
	if m[6] != "" {
		c.Second = atoi(m[6])
	}
	if frac := m[7]; frac != "" {
		if len(frac) > 6 {
			return nil, false
		}
		c.Microsecond = atoi(padFraction(frac))
	}
	return buildClocked(atoi(m[1]), atoi(m[2]), atoi(m[3]), c)
}

func buildTwelveHour(m []string) (Value, bool) {
	c := Clock{Hour: atoi(m[4]), Minute: atoi(m[5])}
	switch strings.ToUpper(m[6]) {
	case "PM":
		if c.Hour != 12 {
			c.Hour += 12
		}
	case "AM":
		if c.Hour == 12 {
			c.Hour = 0
		}
	}
	return buildClocked(atoi(m[1]), atoi(m[2]), atoi(m[3]), c)
}

func buildClocked(y, mo, d int, c Clock) (Value, bool) {
	date, err := New(y, mo, d)
	if err != nil {
		return nil, false
	}
	dt, err := Combine(date, c, nil)
	if err != nil {
		return nil, false
	}
	return dt, true
}
