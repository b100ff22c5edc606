// Package bsdate provides Bikram Sambat date and date-time values, together
// with the format, parse, and auto-detect engines that render and read them.
//
// Values are validated against the process-wide almanac returned by
// calendar.Default and are immutable: every operation that changes a field
// returns a new value.
package bsdate

import (
	"fmt"
	"time"

	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/digits"
)

// ISOLayout is the layout used by Date.String and Date.MarshalText.
const ISOLayout = "%Y-%m-%d"

// cal returns the almanac every value is validated against.
func cal() *calendar.Converter {
	return calendar.Default()
}

// A Date is a validated day of the Bikram Sambat calendar.
//
// The zero Date is not a calendar day; it is only produced by declaring a
// variable and is reported by IsZero. Dates can be compared with ==.
type Date struct {
	year, month, day int
}

// New returns the Date for year, month and day, or an error wrapping
// calendar.ErrOutOfRange if that day is not in the almanac.
func New(year, month, day int) (Date, error) {
	if err := cal().Validate(year, month, day); err != nil {
		return Date{}, err
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustNew is like New but panics on an invalid date. It is intended for
// constants in tests and examples.
func MustNew(year, month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// FromOrdinal returns the Date with the given ordinal, where 1 is the first
// day of the almanac.
func FromOrdinal(o int) (Date, error) {
	y, m, d, err := cal().FromOrdinal(o)
	if err != nil {
		return Date{}, err
	}
	return Date{year: y, month: m, day: d}, nil
}

// FromAD returns the BS date of the calendar day of t in t's location.
func FromAD(t time.Time) (Date, error) {
	gy, gm, gd := t.Date()
	y, m, d, err := cal().ADToBS(gy, int(gm), gd)
	if err != nil {
		return Date{}, err
	}
	return Date{year: y, month: m, day: d}, nil
}

// Today returns the current date in loc. A nil loc means Nepal time.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = NPT
	}
	d, err := FromAD(time.Now().In(loc))
	if err != nil {
		// Only reachable after the almanac's last year.
		panic(err)
	}
	return d
}

// Year returns the BS year.
func (d Date) Year() int { return d.year }

// Month returns the month, 1 (Baishakh) through 12 (Chaitra).
func (d Date) Month() int { return d.month }

// Day returns the day of the month.
func (d Date) Day() int { return d.day }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Ordinal returns the day number of d, counting the first day of the
// almanac as 1. The zero Date has ordinal 0.
func (d Date) Ordinal() int {
	o, err := cal().ToOrdinal(d.year, d.month, d.day)
	if err != nil {
		return 0
	}
	return o
}

// Weekday returns the day of the week, Sunday being 0.
func (d Date) Weekday() time.Weekday {
	return cal().WeekdayOf(d.Ordinal())
}

// ISOWeekday returns the ISO day of the week, Monday being 1 and Sunday 7.
func (d Date) ISOWeekday() int {
	if w := d.Weekday(); w != time.Sunday {
		return int(w)
	}
	return 7
}

// YearDay returns the day of the BS year, starting at 1.
func (d Date) YearDay() int {
	first, err := cal().ToOrdinal(d.year, 1, 1)
	if err != nil {
		return 0
	}
	return d.Ordinal() - first + 1
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	n, _ := cal().DaysInMonth(d.year, d.month)
	return n
}

// AD returns the Gregorian date of d at midnight UTC.
func (d Date) AD() time.Time {
	return cal().ADOfOrdinal(d.Ordinal())
}

// AddDays returns d shifted by n days. It fails when the result leaves the
// almanac.
func (d Date) AddDays(n int) (Date, error) {
	return FromOrdinal(d.Ordinal() + n)
}

// Sub returns the number of days from u to d.
func (d Date) Sub(u Date) int {
	return d.Ordinal() - u.Ordinal()
}

// Replace returns d with the given fields replaced. A zero argument keeps
// the current value.
func (d Date) Replace(year, month, day int) (Date, error) {
	if year == 0 {
		year = d.year
	}
	if month == 0 {
		month = d.month
	}
	if day == 0 {
		day = d.day
	}
	return New(year, month, day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to,
// or after u.
func (d Date) Compare(u Date) int {
	switch a, b := d.Ordinal(), u.Ordinal(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Before reports whether d is before u.
func (d Date) Before(u Date) bool { return d.Compare(u) < 0 }

// After reports whether d is after u.
func (d Date) After(u Date) bool { return d.Compare(u) > 0 }

// Equal reports whether d and u are the same day.
func (d Date) Equal(u Date) bool { return d == u }

// DateOf implements Value.
func (d Date) DateOf() Date { return d }

// TimeOf implements Value. A Date has no time of day.
func (d Date) TimeOf() (Clock, bool) { return Clock{}, false }

// Location implements Value. A Date has no location.
func (d Date) Location() *time.Location { return nil }

// Format renders d according to layout using formal month names.
func (d Date) Format(layout string) string {
	return Format(d, layout, StyleFormal)
}

// FormatStyle renders d according to layout and the given month-name style.
func (d Date) FormatStyle(layout string, style Style) string {
	return Format(d, layout, style)
}

// ISOFormat returns d as YYYY-MM-DD.
func (d Date) ISOFormat() string {
	return digits.Pad(d.year, 4) + "-" + digits.Pad(d.month, 2) + "-" + digits.Pad(d.day, 2)
}

// String returns d as YYYY-MM-DD.
func (d Date) String() string {
	return d.ISOFormat()
}

// GoString implements fmt.GoStringer.
func (d Date) GoString() string {
	return fmt.Sprintf("bsdate.MustNew(%d, %d, %d)", d.year, d.month, d.day)
}

// MarshalText implements encoding.TextMarshaler using YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.ISOFormat()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts
// YYYY-MM-DD.
func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDateFormat(string(b), ISOLayout)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
