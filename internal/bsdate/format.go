package bsdate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zapponejosh/patro-api/internal/cache"
	"github.com/zapponejosh/patro-api/internal/digits"
	"github.com/zapponejosh/patro-api/internal/names"
)

// Common layouts.
const (
	DateTimeLayout = "%Y-%m-%d %H:%M:%S"
	NepaliLayout   = "%K-%n-%D"
	LongLayout     = "%B %d, %Y"
	NepaliLong     = "%D %N %K, %G"
)

// Style selects the vocabulary of the Nepali month-name code %N.
type Style string

// Month-name styles.
const (
	StyleFormal   Style = "formal"   // colloquial names, e.g. जेठ
	StyleSanskrit Style = "sanskrit" // traditional names, e.g. ज्येष्ठ
)

// ParseStyle returns the Style named s. The empty string is StyleFormal.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case "", StyleFormal:
		return StyleFormal, nil
	case StyleSanskrit:
		return StyleSanskrit, nil
	}
	return "", fmt.Errorf("unknown style %q", s)
}

func (s Style) String() string { return string(s) }

// Value is implemented by Date and DateTime. TimeOf reports false for
// values without a time of day; Location returns nil for naive values.
type Value interface {
	DateOf() Date
	TimeOf() (Clock, bool)
	Location() *time.Location
}

// inst is a single component of a compiled layout, either a literal string or
// a formatting operator.
type inst struct {
	op  fmtOp
	lit string
}

// fmtOp is a formatting operator. Each operator corresponds to one
// two-character code.
type fmtOp int

const (
	opLiteral fmtOp = iota

	opYear          // %Y
	opShortYear     // %y
	opMonth         // %m
	opDay           // %d
	opLongMonth     // %B
	opShortMonth    // %b
	opLongWeekday   // %A
	opShortWeekday  // %a
	opNumWeekday    // %w
	opYearDay       // %j
	opNepYear       // %K
	opNepShortYear  // %k
	opNepMonth      // %n
	opNepDay        // %D
	opNepMonthName  // %N
	opNepWeekday    // %G
	opNepShortWkday // %g

	// Operators below need a time of day.
	opHour       // %H
	opHour12     // %I
	opMinute     // %M
	opSecond     // %S
	opMicro      // %f
	opAMPM       // %p
	opZoneOffset // %z
	opZoneName   // %Z
	opNepHour    // %h
	opNepMinute  // %i
	opNepSecond  // %s
	opNepPeriod  // %P

	opInvalid
)

var opCodes = map[byte]fmtOp{
	'Y': opYear,
	'y': opShortYear,
	'm': opMonth,
	'd': opDay,
	'B': opLongMonth,
	'b': opShortMonth,
	'A': opLongWeekday,
	'a': opShortWeekday,
	'w': opNumWeekday,
	'j': opYearDay,
	'K': opNepYear,
	'k': opNepShortYear,
	'n': opNepMonth,
	'D': opNepDay,
	'N': opNepMonthName,
	'G': opNepWeekday,
	'g': opNepShortWkday,
	'H': opHour,
	'I': opHour12,
	'M': opMinute,
	'S': opSecond,
	'f': opMicro,
	'p': opAMPM,
	'z': opZoneOffset,
	'Z': opZoneName,
	'h': opNepHour,
	'i': opNepMinute,
	's': opNepSecond,
	'P': opNepPeriod,
}

// code returns the layout code of op, e.g. "%Y".
func (op fmtOp) code() string {
	for c, o := range opCodes {
		if o == op {
			return "%" + string(c)
		}
	}
	panic("invalid fmtOp")
}

func (op fmtOp) needsClock() bool {
	return op >= opHour && op < opInvalid
}

// String implements fmt.Stringer, for debugging.
func (i inst) String() string {
	if i.op == opLiteral {
		return i.lit
	}
	return i.op.code()
}

// memoize compiled layout strings.
var memo cache.Cache[string, []inst]

// parseLayout compiles layout into a program. "%%" becomes a literal "%"
// and unknown codes are kept as literal text. Adjacent literals are merged.
func parseLayout(layout string) []inst {
	var (
		prog []inst
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			prog = append(prog, inst{lit: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c != '%' || i+1 == len(layout) {
			lit.WriteByte(c)
			continue
		}
		next := layout[i+1]
		if next == '%' {
			lit.WriteByte('%')
			i++
			continue
		}
		op, ok := opCodes[next]
		if !ok {
			lit.WriteByte(c)
			continue
		}
		flush()
		prog = append(prog, inst{op: op})
		i++
	}
	flush()
	return prog
}

// Format renders v according to layout. Codes that need a time of day are
// written out literally when v has none, and the zone codes %z and %Z
// render as the empty string for naive values. Formatting never fails.
func Format(v Value, layout string, style Style) string {
	const bufSize = 64
	var b []byte
	if n := len(layout) + 16; n < bufSize {
		var buf [bufSize]byte
		b = buf[:0]
	} else {
		b = make([]byte, 0, n)
	}
	return string(AppendFormat(b, v, layout, style))
}

// AppendFormat is like Format but appends the result to b and returns the
// extended buffer.
func AppendFormat(b []byte, v Value, layout string, style Style) []byte {
	d := v.DateOf()
	clock, hasClock := v.TimeOf()
	loc := v.Location()

	prog := memo.Get(layout, parseLayout)

	// Names are only looked up for real dates; the zero Date has month 0.
	valid := !d.IsZero()
	var wd time.Weekday
	if valid {
		wd = d.Weekday()
	}

	for _, i := range prog {
		if i.op == opLiteral {
			b = append(b, i.lit...)
			continue
		}
		if i.op.needsClock() && !hasClock {
			b = append(b, i.op.code()...)
			continue
		}

		switch i.op {
		case opYear:
			b = appendPad(b, d.year, 4)
		case opShortYear:
			b = appendPad(b, d.year%100, 2)
		case opMonth:
			b = appendPad(b, d.month, 2)
		case opDay:
			b = appendPad(b, d.day, 2)
		case opNepYear:
			b = append(b, digits.PadDevanagari(d.year, 4)...)
		case opNepShortYear:
			b = append(b, digits.PadDevanagari(d.year%100, 2)...)
		case opNepMonth:
			b = append(b, digits.PadDevanagari(d.month, 2)...)
		case opNepDay:
			b = append(b, digits.PadDevanagari(d.day, 2)...)
		case opLongMonth, opShortMonth, opNepMonthName:
			if valid {
				b = append(b, monthName(i.op, d.month, style)...)
			}
		case opLongWeekday:
			if valid {
				b = append(b, names.Weekdays[wd]...)
			}
		case opShortWeekday:
			if valid {
				b = append(b, names.ShortWeekdays[wd]...)
			}
		case opNepWeekday:
			if valid {
				b = append(b, names.NepaliWeekdays[wd]...)
			}
		case opNepShortWkday:
			if valid {
				b = append(b, names.NepaliShortWeekdays[wd]...)
			}
		case opNumWeekday:
			b = strconv.AppendInt(b, int64(wd), 10)
		case opYearDay:
			b = appendPad(b, d.YearDay(), 3)

		case opHour:
			b = appendPad(b, clock.Hour, 2)
		case opHour12:
			h := clock.Hour % 12
			if h == 0 {
				h = 12
			}
			b = appendPad(b, h, 2)
		case opMinute:
			b = appendPad(b, clock.Minute, 2)
		case opSecond:
			b = appendPad(b, clock.Second, 2)
		case opMicro:
			b = appendPad(b, clock.Microsecond, 6)
		case opAMPM:
			if clock.Hour >= 12 {
				b = append(b, "PM"...)
			} else {
				b = append(b, "AM"...)
			}
		case opNepHour:
			b = append(b, digits.PadDevanagari(clock.Hour, 2)...)
		case opNepMinute:
			b = append(b, digits.PadDevanagari(clock.Minute, 2)...)
		case opNepSecond:
			b = append(b, digits.PadDevanagari(clock.Second, 2)...)
		case opNepPeriod:
			b = append(b, names.Period(clock.Hour)...)
		case opZoneOffset, opZoneName:
			if loc == nil {
				break
			}
			t := zonedTime(d, clock, loc)
			if i.op == opZoneOffset {
				b = append(b, offsetString(t, false)...)
			} else {
				name, _ := t.Zone()
				b = append(b, name...)
			}
		default:
			panic("invalid inst " + i.String())
		}
	}
	return b
}

func monthName(op fmtOp, month int, style Style) string {
	switch op {
	case opLongMonth:
		return names.Months[month-1]
	case opShortMonth:
		return names.ShortMonths[month-1]
	}
	if style == StyleSanskrit {
		return names.SanskritMonths[month-1]
	}
	return names.NepaliMonths[month-1]
}

// zonedTime returns the instant of d and c in loc. The zero Date is placed
// at the anchor day.
func zonedTime(d Date, c Clock, loc *time.Location) time.Time {
	ad := d.AD()
	return time.Date(ad.Year(), ad.Month(), ad.Day(), c.Hour, c.Minute, c.Second, c.nanos(), loc)
}

// appendPad appends the decimal form of n, zero-padded to width. Negative
// values keep their sign ahead of the padding.
func appendPad(b []byte, n, width int) []byte {
	if n < 0 {
		b = append(b, '-')
		n = -n
		width--
	}
	var buf [20]byte
	s := strconv.AppendInt(buf[:0], int64(n), 10)
	for i := len(s); i < width; i++ {
		b = append(b, '0')
	}
	return append(b, s...)
}
