package bsdate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zapponejosh/patro-api/internal/calendar"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour        int // 0-23
	Minute      int // 0-59
	Second      int // 0-59
	Microsecond int // 0-999999
}

// Validate returns an error wrapping calendar.ErrOutOfRange if any field is
// outside its domain.
func (c Clock) Validate() error {
	switch {
	case c.Hour < 0 || c.Hour > 23:
		return &calendar.RangeError{Op: "Clock", Field: "hour", Value: c.Hour, Min: 0, Max: 23}
	case c.Minute < 0 || c.Minute > 59:
		return &calendar.RangeError{Op: "Clock", Field: "minute", Value: c.Minute, Min: 0, Max: 59}
	case c.Second < 0 || c.Second > 59:
		return &calendar.RangeError{Op: "Clock", Field: "second", Value: c.Second, Min: 0, Max: 59}
	case c.Microsecond < 0 || c.Microsecond > 999999:
		return &calendar.RangeError{Op: "Clock", Field: "microsecond", Value: c.Microsecond, Min: 0, Max: 999999}
	}
	return nil
}

func (c Clock) nanos() int {
	return c.Microsecond * 1000
}

// A DateTime is a BS date with a time of day and an optional location.
// A nil location makes the value naive: it names a wall-clock time without
// fixing an instant. Locations are shared, never copied.
type DateTime struct {
	date  Date
	clock Clock
	loc   *time.Location
}

// NewDateTime validates and returns a DateTime.
func NewDateTime(year, month, day, hour, minute, second, microsecond int, loc *time.Location) (DateTime, error) {
	d, err := New(year, month, day)
	if err != nil {
		return DateTime{}, err
	}
	return Combine(d, Clock{Hour: hour, Minute: minute, Second: second, Microsecond: microsecond}, loc)
}

// Combine joins a date and a clock.
func Combine(d Date, c Clock, loc *time.Location) (DateTime, error) {
	if d.IsZero() {
		return DateTime{}, &calendar.RangeError{Op: "Combine", Field: "year", Value: 0, Min: cal().MinYear(), Max: cal().MaxYear()}
	}
	if err := c.Validate(); err != nil {
		return DateTime{}, err
	}
	return DateTime{date: d, clock: c, loc: loc}, nil
}

// FromTime returns the BS date-time of t, keeping t's location.
func FromTime(t time.Time) (DateTime, error) {
	d, err := FromAD(t)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{
		date: d,
		clock: Clock{
			Hour:        t.Hour(),
			Minute:      t.Minute(),
			Second:      t.Second(),
			Microsecond: t.Nanosecond() / 1000,
		},
		loc: t.Location(),
	}, nil
}

// Now returns the current date-time in loc. A nil loc means Nepal time.
func Now(loc *time.Location) DateTime {
	if loc == nil {
		loc = NPT
	}
	dt, err := FromTime(time.Now().In(loc))
	if err != nil {
		panic(err)
	}
	return dt
}

// FromTimestamp returns the date-time of a Unix timestamp in seconds, in
// loc. A nil loc means Nepal time.
func FromTimestamp(sec float64, loc *time.Location) (DateTime, error) {
	if loc == nil {
		loc = NPT
	}
	whole, frac := math.Modf(sec)
	t := time.Unix(int64(whole), int64(math.Round(frac*1e6))*1000).In(loc)
	return FromTime(t)
}

// Date returns the date part of dt.
func (dt DateTime) Date() Date { return dt.date }

// Clock returns the time-of-day part of dt.
func (dt DateTime) Clock() Clock { return dt.clock }

// Year returns the BS year.
func (dt DateTime) Year() int { return dt.date.year }

// Month returns the BS month.
func (dt DateTime) Month() int { return dt.date.month }

// Day returns the day of the month.
func (dt DateTime) Day() int { return dt.date.day }

// Hour returns the hour, 0-23.
func (dt DateTime) Hour() int { return dt.clock.Hour }

// Minute returns the minute.
func (dt DateTime) Minute() int { return dt.clock.Minute }

// Second returns the second.
func (dt DateTime) Second() int { return dt.clock.Second }

// Microsecond returns the microsecond.
func (dt DateTime) Microsecond() int { return dt.clock.Microsecond }

// Location returns dt's location, or nil for a naive value.
func (dt DateTime) Location() *time.Location { return dt.loc }

// IsZero reports whether dt is the zero DateTime.
func (dt DateTime) IsZero() bool { return dt.date.IsZero() }

// Weekday returns the day of the week, Sunday being 0.
func (dt DateTime) Weekday() time.Weekday { return dt.date.Weekday() }

// ISOWeekday returns the ISO day of the week, Monday being 1.
func (dt DateTime) ISOWeekday() int { return dt.date.ISOWeekday() }

// Time returns the Gregorian instant of dt. Naive values are read as UTC
// wall-clock time.
func (dt DateTime) Time() time.Time {
	loc := dt.loc
	if loc == nil {
		loc = time.UTC
	}
	return zonedTime(dt.date, dt.clock, loc)
}

// Timestamp returns dt as Unix seconds.
func (dt DateTime) Timestamp() float64 {
	return float64(dt.Time().UnixMicro()) / 1e6
}

// In converts dt to the same instant in loc. A naive value is first read as
// UTC.
func (dt DateTime) In(loc *time.Location) (DateTime, error) {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(dt.Time().In(loc))
}

// WithLocation returns dt with its location replaced, keeping the wall
// clock. A nil loc makes the result naive.
func (dt DateTime) WithLocation(loc *time.Location) DateTime {
	dt.loc = loc
	return dt
}

// WithClock returns dt with its time of day replaced.
func (dt DateTime) WithClock(c Clock) (DateTime, error) {
	return Combine(dt.date, c, dt.loc)
}

// Replace returns dt with the given date fields replaced. A zero argument
// keeps the current value.
func (dt DateTime) Replace(year, month, day int) (DateTime, error) {
	d, err := dt.date.Replace(year, month, day)
	if err != nil {
		return DateTime{}, err
	}
	dt.date = d
	return dt, nil
}

// Add returns dt shifted by d. Naive values stay naive.
func (dt DateTime) Add(d time.Duration) (DateTime, error) {
	r, err := FromTime(dt.Time().Add(d))
	if err != nil {
		return DateTime{}, err
	}
	r.loc = dt.loc
	return r, nil
}

// Sub returns the duration dt-u.
func (dt DateTime) Sub(u DateTime) time.Duration {
	return dt.Time().Sub(u.Time())
}

// Compare compares the instants of dt and u.
func (dt DateTime) Compare(u DateTime) int {
	return dt.Time().Compare(u.Time())
}

// Before reports whether dt is before u.
func (dt DateTime) Before(u DateTime) bool { return dt.Compare(u) < 0 }

// After reports whether dt is after u.
func (dt DateTime) After(u DateTime) bool { return dt.Compare(u) > 0 }

// Equal reports whether dt and u have the same fields and the same zone.
func (dt DateTime) Equal(u DateTime) bool {
	return dt.date == u.date && dt.clock == u.clock && sameZone(dt.loc, u.loc)
}

// DateOf implements Value.
func (dt DateTime) DateOf() Date { return dt.date }

// TimeOf implements Value.
func (dt DateTime) TimeOf() (Clock, bool) { return dt.clock, true }

// Format renders dt according to layout using formal month names.
func (dt DateTime) Format(layout string) string {
	return Format(dt, layout, StyleFormal)
}

// FormatStyle renders dt according to layout and month-name style.
func (dt DateTime) FormatStyle(layout string, style Style) string {
	return Format(dt, layout, style)
}

// Timespec selects the precision of DateTime.ISOFormat.
type Timespec string

// Supported timespecs.
const (
	TimespecAuto         Timespec = "auto"
	TimespecHours        Timespec = "hours"
	TimespecMinutes      Timespec = "minutes"
	TimespecSeconds      Timespec = "seconds"
	TimespecMilliseconds Timespec = "milliseconds"
	TimespecMicroseconds Timespec = "microseconds"
)

// ISOFormat returns dt as YYYY-MM-DD<sep>HH:MM:SS with the precision given
// by spec, followed by a ±HH:MM offset when dt has a location. Auto prints
// microseconds only when they are non-zero. Unknown timespecs behave like
// auto.
func (dt DateTime) ISOFormat(sep string, spec Timespec) string {
	c := dt.clock
	b := []byte(dt.date.ISOFormat())
	b = append(b, sep...)
	b = appendPad(b, c.Hour, 2)

	switch spec {
	case TimespecHours:
	case TimespecMinutes:
		b = append(b, ':')
		b = appendPad(b, c.Minute, 2)
	case TimespecSeconds:
		b = appendHMS(b, c)
	case TimespecMilliseconds:
		b = appendHMS(b, c)
		b = append(b, '.')
		b = appendPad(b, c.Microsecond/1000, 3)
	case TimespecMicroseconds:
		b = appendHMS(b, c)
		b = append(b, '.')
		b = appendPad(b, c.Microsecond, 6)
	default:
		b = appendHMS(b, c)
		if c.Microsecond != 0 {
			b = append(b, '.')
			b = appendPad(b, c.Microsecond, 6)
		}
	}

	if dt.loc != nil {
		b = append(b, offsetString(dt.Time(), true)...)
	}
	return string(b)
}

func appendHMS(b []byte, c Clock) []byte {
	b = append(b, ':')
	b = appendPad(b, c.Minute, 2)
	b = append(b, ':')
	return appendPad(b, c.Second, 2)
}

// String returns dt as "YYYY-MM-DD HH:MM:SS", with an offset when dt has a
// location.
func (dt DateTime) String() string {
	return dt.ISOFormat(" ", TimespecSeconds)
}

// GoString implements fmt.GoStringer.
func (dt DateTime) GoString() string {
	c := dt.clock
	loc := "nil"
	if dt.loc != nil {
		loc = strconv.Quote(dt.loc.String())
	}
	return fmt.Sprintf("bsdate.NewDateTime(%d, %d, %d, %d, %d, %d, %d, %s)",
		dt.date.year, dt.date.month, dt.date.day, c.Hour, c.Minute, c.Second, c.Microsecond, loc)
}

// MarshalText implements encoding.TextMarshaler using ISOFormat with a "T"
// separator.
func (dt DateTime) MarshalText() ([]byte, error) {
	return []byte(dt.ISOFormat("T", TimespecAuto)), nil
}

var isoDateTime = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,6}))?)?(Z|[+-]\d{2}:\d{2})?$`)

// UnmarshalText implements encoding.TextUnmarshaler for the forms written
// by MarshalText and String. An offset of +05:45 is read as NPT.
func (dt *DateTime) UnmarshalText(b []byte) error {
	s := string(b)
	m := isoDateTime.FindStringSubmatch(s)
	if m == nil {
		return &ParseError{Value: s, Message: "not an ISO date-time", Kind: calendar.ErrFormatMismatch}
	}

	n := make([]int, 7)
	for i := 1; i <= 6; i++ {
		if m[i] != "" {
			n[i-1], _ = strconv.Atoi(m[i])
		}
	}
	if m[7] != "" {
		n[6], _ = strconv.Atoi(padFraction(m[7]))
	}

	var loc *time.Location
	switch z := m[8]; {
	case z == "":
	case z == "Z":
		loc = time.UTC
	default:
		h, _ := strconv.Atoi(z[1:3])
		mi, _ := strconv.Atoi(z[4:6])
		off := h*3600 + mi*60
		if z[0] == '-' {
			off = -off
		}
		if off == nptOffset {
			loc = NPT
		} else {
			loc = time.FixedZone("", off)
		}
	}

	v, err := NewDateTime(n[0], n[1], n[2], n[3], n[4], n[5], n[6], loc)
	if err != nil {
		return err
	}
	*dt = v
	return nil
}

// padFraction right-pads a fractional-second digit string to microseconds.
func padFraction(s string) string {
	if len(s) >= 6 {
		return s
	}
	return s + strings.Repeat("0", 6-len(s))
}
