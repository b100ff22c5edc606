// Package calendar implements the Bikram Sambat calendar table, the ordinal
// engine built on top of it, and conversion between Bikram Sambat (BS) and
// Gregorian (AD) dates.
package calendar

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Month length bounds accepted in an almanac table.
const (
	MinMonthDays = 29
	MaxMonthDays = 32
)

//go:embed data/bs_calendar.json
var embeddedTable []byte

// Table is an immutable almanac of BS month lengths over a contiguous range
// of years, together with the cumulative day counts used for ordinal
// conversion.
type Table struct {
	minYear int
	months  [][12]int

	// yearStart[i] is the number of days strictly before year minYear+i.
	// It has one extra trailing entry holding the total number of days.
	yearStart []int

	// monthStart[i][j] is the number of days in year minYear+i strictly
	// before month j+1. monthStart[i][12] is the length of the year.
	monthStart [][13]int

	// epoch is the day number, from 1970-01-01, of ordinal 1.
	epoch int
}

// NewTable builds a Table from per-year month lengths. Years must form a
// contiguous range and every month must have between MinMonthDays and
// MaxMonthDays days.
func NewTable(years map[int][12]int) (*Table, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("calendar table is empty")
	}

	keys := make([]int, 0, len(years))
	for y := range years {
		keys = append(keys, y)
	}
	sort.Ints(keys)

	t := &Table{
		minYear:    keys[0],
		months:     make([][12]int, len(keys)),
		yearStart:  make([]int, len(keys)+1),
		monthStart: make([][13]int, len(keys)),
	}

	for i, y := range keys {
		if y != t.minYear+i {
			return nil, fmt.Errorf("calendar table: year %d missing", t.minYear+i)
		}
		lengths := years[y]
		for m, n := range lengths {
			if n < MinMonthDays || n > MaxMonthDays {
				return nil, fmt.Errorf("calendar table: year %d month %d has %d days", y, m+1, n)
			}
			t.monthStart[i][m+1] = t.monthStart[i][m] + n
		}
		t.months[i] = lengths
		t.yearStart[i+1] = t.yearStart[i] + t.monthStart[i][12]
	}

	if err := t.anchor(); err != nil {
		return nil, err
	}
	return t, nil
}

// anchor places the table on the Gregorian calendar. Tables that include
// AnchorYear count from it directly. Tables starting later take the lengths
// of the years in between from the embedded almanac.
func (t *Table) anchor() error {
	switch {
	case t.minYear <= AnchorYear && AnchorYear <= t.MaxYear():
		t.epoch = anchorDay - t.yearStart[AnchorYear-t.minYear]
	case t.minYear > AnchorYear:
		ref, err := referenceTable()
		if err != nil {
			return err
		}
		if t.minYear > ref.MaxYear()+1 {
			return fmt.Errorf("calendar table: year %d is not reachable from %d, the embedded almanac ends at %d",
				t.minYear, AnchorYear, ref.MaxYear())
		}
		t.epoch = ref.epoch + ref.yearStart[t.minYear-ref.minYear]
	default:
		return fmt.Errorf("calendar table: ends at %d, before %d", t.MaxYear(), AnchorYear)
	}
	return nil
}

var (
	referenceOnce sync.Once
	reference     *Table
	referenceErr  error
)

// referenceTable returns the embedded almanac, parsed once. It starts at
// AnchorYear, so building it never needs itself.
func referenceTable() (*Table, error) {
	referenceOnce.Do(func() {
		reference, referenceErr = ParseTable(embeddedTable)
	})
	return reference, referenceErr
}

// ParseTable decodes an almanac in its JSON resource form: an object keyed
// by year, each value an array of twelve month lengths.
func ParseTable(data []byte) (*Table, error) {
	var raw map[string][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode calendar table: %w", err)
	}

	years := make(map[int][12]int, len(raw))
	for key, lengths := range raw {
		y, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("calendar table: invalid year %q", key)
		}
		if len(lengths) != 12 {
			return nil, fmt.Errorf("calendar table: year %d has %d months", y, len(lengths))
		}
		var row [12]int
		copy(row[:], lengths)
		years[y] = row
	}

	return NewTable(years)
}

// EmbeddedTable returns a freshly parsed copy of the almanac compiled into
// the binary.
func EmbeddedTable() (*Table, error) {
	return ParseTable(embeddedTable)
}

// MarshalJSON encodes the table in the same form ParseTable accepts.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := make(map[string][12]int, len(t.months))
	for i, row := range t.months {
		out[strconv.Itoa(t.minYear+i)] = row
	}
	return json.Marshal(out)
}

// MinYear returns the first year covered by the table.
func (t *Table) MinYear() int { return t.minYear }

// MaxYear returns the last year covered by the table.
func (t *Table) MaxYear() int { return t.minYear + len(t.months) - 1 }

// MaxOrdinal returns the ordinal of the last day of MaxYear.
func (t *Table) MaxOrdinal() int { return t.yearStart[len(t.months)] }

// Years returns every year in the table in ascending order.
func (t *Table) Years() []int {
	ys := make([]int, len(t.months))
	for i := range ys {
		ys[i] = t.minYear + i
	}
	return ys
}

// Months returns the month lengths of year y.
func (t *Table) Months(y int) ([12]int, bool) {
	if y < t.minYear || y > t.MaxYear() {
		return [12]int{}, false
	}
	return t.months[y-t.minYear], true
}

// DaysInMonth returns the length of month m of year y.
func (t *Table) DaysInMonth(y, m int) (int, error) {
	if err := t.checkYearMonth("DaysInMonth", y, m); err != nil {
		return 0, err
	}
	return t.months[y-t.minYear][m-1], nil
}

// DaysInYear returns the length of year y.
func (t *Table) DaysInYear(y int) (int, error) {
	if y < t.minYear || y > t.MaxYear() {
		return 0, rangeErr("DaysInYear", "year", y, t.minYear, t.MaxYear())
	}
	return t.monthStart[y-t.minYear][12], nil
}

// IsValid reports whether (y, m, d) is a date in the table.
func (t *Table) IsValid(y, m, d int) bool {
	return t.check("IsValid", y, m, d) == nil
}

// Validate returns a *RangeError naming the first field of (y, m, d) that
// falls outside the table, or nil.
func (t *Table) Validate(y, m, d int) error {
	return t.check("Validate", y, m, d)
}

func (t *Table) checkYearMonth(op string, y, m int) error {
	if y < t.minYear || y > t.MaxYear() {
		return rangeErr(op, "year", y, t.minYear, t.MaxYear())
	}
	if m < 1 || m > 12 {
		return rangeErr(op, "month", m, 1, 12)
	}
	return nil
}

func (t *Table) check(op string, y, m, d int) error {
	if err := t.checkYearMonth(op, y, m); err != nil {
		return err
	}
	if n := t.months[y-t.minYear][m-1]; d < 1 || d > n {
		return rangeErr(op, "day", d, 1, n)
	}
	return nil
}
