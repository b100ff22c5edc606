package bsdate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zapponejosh/patro-api/internal/cache"
	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/digits"
)

// ParseError describes a problem parsing a date string. Kind is
// calendar.ErrFormatMismatch or calendar.ErrUnparseable and is matched by
// errors.Is.
type ParseError struct {
	Layout  string // empty for auto-detected input
	Value   string
	Message string
	Kind    error
}

// Error returns the string representation of a ParseError.
func (e *ParseError) Error() string {
	if e.Layout == "" {
		return fmt.Sprintf("parsing date %q: %s", e.Value, e.Message)
	}
	return fmt.Sprintf("parsing date %q as %q: %s", e.Value, e.Layout, e.Message)
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error { return e.Kind }

// groupPatterns maps parse codes to the pattern of their capture group. Codes
// not listed here are matched literally.
var groupPatterns = map[byte]string{
	'Y': `\d{4}`,
	'y': `\d{2}`,
	'm': `\d{1,2}`,
	'd': `\d{1,2}`,
	'K': `[०-९]{4}`,
	'k': `[०-९]{2}`,
	'n': `[०-९]{1,2}`,
	'D': `[०-९]{1,2}`,
	'H': `\d{1,2}`,
	'I': `\d{1,2}`,
	'M': `\d{1,2}`,
	'S': `\d{1,2}`,
	'f': `\d{1,6}`,
	'p': `AM|PM|am|pm`,
	'h': `[०-९]{1,2}`,
	'i': `[०-९]{1,2}`,
	's': `[०-९]{1,2}`,
	'P': `बिहान|दिउँसो|बेलुका|राति`,
}

// compiled layouts
var patterns cache.Cache[string, *regexp.Regexp]

// compile turns layout into an anchored regular expression with one named
// group per code. Single spaces match any run of whitespace. It returns nil
// if layout is not valid UTF-8.
func compile(layout string) *regexp.Regexp {
	var b strings.Builder
	b.WriteByte('^')
	lit := func(s string) {
		b.WriteString(regexp.QuoteMeta(s))
	}

	for i := 0; i < len(layout); i++ {
		c := layout[i]
		switch {
		case c == ' ':
			b.WriteString(`\s+`)
		case c != '%' || i+1 == len(layout):
			lit(layout[i : i+1])
		case layout[i+1] == '%':
			lit("%")
			i++
		default:
			code := layout[i+1]
			pat, ok := groupPatterns[code]
			if !ok {
				lit("%")
				continue
			}
			fmt.Fprintf(&b, "(?P<%c>%s)", code, pat)
			i++
		}
	}
	b.WriteByte('$')

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return re
}

// fields holds the captured groups of a match, keyed by code. The first
// non-empty capture wins when a code appears more than once.
type fields map[byte]string

func matchLayout(re *regexp.Regexp, text string) (fields, bool) {
	if re == nil {
		return nil, false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	f := make(fields)
	for i, name := range re.SubexpNames() {
		if name == "" || m[i] == "" {
			continue
		}
		if _, seen := f[name[0]]; !seen {
			f[name[0]] = m[i]
		}
	}
	return f, true
}

// int returns the first present code in order of precedence, as an integer.
// Devanagari digits are translated first.
func (f fields) int(codes ...byte) (code byte, n int, ok bool) {
	for _, c := range codes {
		s, present := f[c]
		if !present {
			continue
		}
		v, err := strconv.Atoi(digits.ToASCII(s))
		if err != nil {
			return 0, 0, false
		}
		return c, v, true
	}
	return 0, 0, false
}

// ParseFormat parses text according to layout and returns the date-time it
// represents. The layout codes are those of Format; codes without a parse
// pattern (such as %B) must appear literally in text.
//
// A year, month and day must all be captured by the layout; the time of day
// defaults to midnight. Two-digit years are read as 20YY. The result is
// naive.
func ParseFormat(text, layout string) (DateTime, error) {
	re := patterns.Get(layout, compile)
	f, ok := matchLayout(re, text)
	if !ok {
		return DateTime{}, mismatch(layout, text, "does not match layout")
	}

	var year, month, day int
	code, n, ok := f.int('Y', 'K', 'y', 'k')
	if !ok {
		return DateTime{}, mismatch(layout, text, "layout has no year")
	}
	year = n
	if code == 'y' || code == 'k' {
		year += 2000
	}
	if _, month, ok = f.int('m', 'n'); !ok {
		return DateTime{}, mismatch(layout, text, "layout has no month")
	}
	if _, day, ok = f.int('d', 'D'); !ok {
		return DateTime{}, mismatch(layout, text, "layout has no day")
	}

	var c Clock
	_, c.Hour, _ = f.int('H', 'h', 'I')
	_, c.Minute, _ = f.int('M', 'i')
	_, c.Second, _ = f.int('S', 's')
	if frac, ok := f['f']; ok {
		c.Microsecond, _ = strconv.Atoi(padFraction(frac))
	}

	// %P is recognized but does not change the hour.
	switch strings.ToUpper(f['p']) {
	case "PM":
		if c.Hour != 12 {
			c.Hour += 12
		}
	case "AM":
		if c.Hour == 12 {
			c.Hour = 0
		}
	}

	d, err := New(year, month, day)
	if err != nil {
		return DateTime{}, err
	}
	return Combine(d, c, nil)
}

// ParseDateFormat is like ParseFormat but returns only the date.
func ParseDateFormat(text, layout string) (Date, error) {
	dt, err := ParseFormat(text, layout)
	if err != nil {
		return Date{}, err
	}
	return dt.Date(), nil
}

func mismatch(layout, text, msg string) error {
	return &ParseError{
		Layout:  layout,
		Value:   strings.Clone(text),
		Message: msg,
		Kind:    calendar.ErrFormatMismatch,
	}
}
