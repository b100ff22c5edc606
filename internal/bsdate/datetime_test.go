package bsdate

import (
	"errors"
	"testing"
	"time"

	"github.com/zapponejosh/patro-api/internal/calendar"
)

func mustDateTime(t *testing.T, y, m, d, h, mi, s, us int, loc *time.Location) DateTime {
	t.Helper()
	dt, err := NewDateTime(y, m, d, h, mi, s, us, loc)
	if err != nil {
		t.Fatalf("NewDateTime(%d, %d, %d, %d, %d, %d, %d) failed: %v", y, m, d, h, mi, s, us, err)
	}
	return dt
}

func TestNewDateTime_Validation(t *testing.T) {
	tests := []struct {
		name         string
		h, mi, s, us int
		wantErr      bool
	}{
		{"midnight", 0, 0, 0, 0, false},
		{"last microsecond", 23, 59, 59, 999999, false},
		{"hour 24", 24, 0, 0, 0, true},
		{"minute 60", 12, 60, 0, 0, true},
		{"second 60", 12, 0, 60, 0, true},
		{"negative microsecond", 12, 0, 0, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateTime(2080, 10, 24, tt.h, tt.mi, tt.s, tt.us, nil)
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, calendar.ErrOutOfRange) {
				t.Errorf("error = %v, want ErrOutOfRange", err)
			}
		})
	}

	if _, err := NewDateTime(2080, 10, 31, 0, 0, 0, 0, nil); !errors.Is(err, calendar.ErrOutOfRange) {
		t.Errorf("invalid date: error = %v, want ErrOutOfRange", err)
	}
	if _, err := Combine(Date{}, Clock{}, nil); !errors.Is(err, calendar.ErrOutOfRange) {
		t.Errorf("Combine(zero Date) error = %v, want ErrOutOfRange", err)
	}
}

func TestDateTime_Add(t *testing.T) {
	dt := mustDateTime(t, 2080, 10, 24, 22, 0, 0, 0, nil)

	got, err := dt.Add(5 * time.Hour)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	want := mustDateTime(t, 2080, 10, 25, 3, 0, 0, 0, nil)
	if !got.Equal(want) {
		t.Errorf("Add(5h) = %v, want %v", got, want)
	}
	if got.Location() != nil {
		t.Errorf("Add on a naive value returned location %v", got.Location())
	}

	if d := got.Sub(dt); d != 5*time.Hour {
		t.Errorf("Sub() = %v, want 5h", d)
	}

	zoned := dt.WithLocation(NPT)
	got, err = zoned.Add(2 * time.Hour)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got.Location() != NPT || got.Day() != 25 || got.Hour() != 0 {
		t.Errorf("zoned Add(2h) = %v, want 2080-10-25 00:00:00+05:45", got)
	}

	// Crossing the year boundary.
	end := mustDateTime(t, 2080, 12, 30, 23, 30, 0, 0, nil)
	got, err = end.Add(time.Hour)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got.Year() != 2081 || got.Month() != 1 || got.Day() != 1 || got.Minute() != 30 {
		t.Errorf("Add(1h) across new year = %v", got)
	}
}

func TestDateTime_TimeAndIn(t *testing.T) {
	dt := mustDateTime(t, 2080, 10, 24, 0, 0, 0, 0, nil)

	want := time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC)
	if got := dt.Time(); !got.Equal(want) {
		t.Errorf("naive Time() = %v, want %v", got, want)
	}
	if got := dt.Timestamp(); got != float64(want.Unix()) {
		t.Errorf("Timestamp() = %v, want %v", got, want.Unix())
	}

	npt, err := dt.In(NPT)
	if err != nil {
		t.Fatalf("In(NPT) failed: %v", err)
	}
	if npt.Hour() != 5 || npt.Minute() != 45 || npt.Location() != NPT {
		t.Errorf("In(NPT) = %v, want 05:45 NPT", npt)
	}
	if npt.Compare(dt) != 0 {
		t.Errorf("In() changed the instant: %v vs %v", npt.Time(), dt.Time())
	}
	if npt.Equal(dt) {
		t.Error("Equal should compare fields and zone, not instants")
	}
}

func TestFromTime(t *testing.T) {
	tm := time.Date(2024, 2, 6, 14, 30, 15, 123456789, NPT)
	dt, err := FromTime(tm)
	if err != nil {
		t.Fatalf("FromTime failed: %v", err)
	}
	want := mustDateTime(t, 2080, 10, 24, 14, 30, 15, 123456, NPT)
	if !dt.Equal(want) {
		t.Errorf("FromTime() = %#v, want %#v", dt, want)
	}
}

func TestFromTimestamp(t *testing.T) {
	sec := float64(time.Date(2024, 4, 12, 18, 15, 0, 0, time.UTC).Unix()) + 0.25
	dt, err := FromTimestamp(sec, nil)
	if err != nil {
		t.Fatalf("FromTimestamp failed: %v", err)
	}
	want := mustDateTime(t, 2081, 1, 1, 0, 0, 0, 250000, NPT)
	if !dt.Equal(want) {
		t.Errorf("FromTimestamp() = %v, want %v", dt, want)
	}
}

func TestDateTime_ISOFormat(t *testing.T) {
	dt := mustDateTime(t, 2080, 10, 24, 14, 30, 5, 123456, nil)

	tests := []struct {
		spec Timespec
		want string
	}{
		{TimespecAuto, "2080-10-24T14:30:05.123456"},
		{TimespecHours, "2080-10-24T14"},
		{TimespecMinutes, "2080-10-24T14:30"},
		{TimespecSeconds, "2080-10-24T14:30:05"},
		{TimespecMilliseconds, "2080-10-24T14:30:05.123"},
		{TimespecMicroseconds, "2080-10-24T14:30:05.123456"},
	}
	for _, tt := range tests {
		if got := dt.ISOFormat("T", tt.spec); got != tt.want {
			t.Errorf("ISOFormat(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}

	whole := mustDateTime(t, 2080, 10, 24, 14, 30, 0, 0, NPT)
	if got := whole.ISOFormat("T", TimespecAuto); got != "2080-10-24T14:30:00+05:45" {
		t.Errorf("zoned ISOFormat = %q", got)
	}
	if got := whole.String(); got != "2080-10-24 14:30:00+05:45" {
		t.Errorf("String() = %q", got)
	}
	if got := whole.WithLocation(nil).String(); got != "2080-10-24 14:30:00" {
		t.Errorf("naive String() = %q", got)
	}
}

func TestDateTime_TextRoundTrip(t *testing.T) {
	tests := []DateTime{
		mustDateTime(t, 2080, 10, 24, 14, 30, 0, 0, nil),
		mustDateTime(t, 2080, 10, 24, 14, 30, 5, 500, NPT),
		mustDateTime(t, 2081, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, dt := range tests {
		text, err := dt.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText failed: %v", err)
		}
		var got DateTime
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) failed: %v", text, err)
		}
		if got.Compare(dt) != 0 || got.Clock() != dt.Clock() {
			t.Errorf("round trip of %s = %v", text, got)
		}
	}

	var dt DateTime
	if err := dt.UnmarshalText([]byte("2080-10-24T14:30:00+05:45")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if dt.Location() != NPT {
		t.Errorf("+05:45 should be read as NPT, got %v", dt.Location())
	}

	if err := dt.UnmarshalText([]byte("2080-10-24T14:30:00-03:30")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if _, off := dt.Time().Zone(); dt.Location() == NPT || off != -(3*3600+30*60) {
		t.Errorf("-03:30 read as %v with offset %d", dt.Location(), off)
	}

	if err := dt.UnmarshalText([]byte("yesterday")); !errors.Is(err, calendar.ErrFormatMismatch) {
		t.Errorf("UnmarshalText(garbage) error = %v, want ErrFormatMismatch", err)
	}
}

func TestDateTime_Replace(t *testing.T) {
	dt := mustDateTime(t, 2080, 10, 24, 14, 30, 0, 0, NPT)

	got, err := dt.Replace(0, 11, 1)
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if got.Month() != 11 || got.Day() != 1 || got.Hour() != 14 || got.Location() != NPT {
		t.Errorf("Replace(0, 11, 1) = %v", got)
	}

	got, err = dt.WithClock(Clock{Hour: 6})
	if err != nil {
		t.Fatalf("WithClock failed: %v", err)
	}
	if got.Hour() != 6 || got.Minute() != 0 || got.Date() != dt.Date() {
		t.Errorf("WithClock() = %v", got)
	}
	if _, err := dt.WithClock(Clock{Hour: 25}); !errors.Is(err, calendar.ErrOutOfRange) {
		t.Errorf("WithClock(25h) error = %v, want ErrOutOfRange", err)
	}
}

func TestNow(t *testing.T) {
	before := time.Now()
	now := Now(nil)
	after := time.Now()

	if now.Location() != NPT {
		t.Errorf("Now(nil) location = %v, want NPT", now.Location())
	}
	got := now.Time()
	if got.Before(before.Truncate(time.Microsecond)) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}
