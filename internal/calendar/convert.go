package calendar

import (
	"sync"
	"time"

	"github.com/zapponejosh/patro-api/internal/cache"
)

// AnchorYear is the BS year whose first day is pinned to AnchorAD. Every
// table is placed on the Gregorian calendar relative to it.
const AnchorYear = 1901

// AnchorAD is the Gregorian date of BS 1901-01-01.
var AnchorAD = time.Date(1844, time.April, 11, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// anchorDay is the proleptic Gregorian day number of AnchorAD, counted from
// the Unix epoch.
var anchorDay = dayNumber(1844, 4, 11)

// ymd is the memoization key and value of the converter caches.
type ymd struct {
	y, m, d int
}

type conversion struct {
	out ymd
	err error
}

// Converter converts between BS and AD dates using a Table. Results are
// memoized in bounded caches. A Converter is safe for concurrent use.
type Converter struct {
	*Table

	toBS cache.Cache[ymd, conversion]
	toAD cache.Cache[ymd, conversion]
}

// NewConverter returns a converter over t whose caches hold at most
// cacheSize entries each. A cacheSize of zero selects cache.DefaultSize.
func NewConverter(t *Table, cacheSize int) *Converter {
	c := &Converter{Table: t}
	c.toBS.MaxSize = cacheSize
	c.toAD.MaxSize = cacheSize
	return c
}

// ADToBS converts a Gregorian date to the corresponding BS date.
func (c *Converter) ADToBS(gy, gm, gd int) (by, bm, bd int, err error) {
	r := c.toBS.Get(ymd{gy, gm, gd}, c.adToBS)
	return r.out.y, r.out.m, r.out.d, r.err
}

func (c *Converter) adToBS(k ymd) conversion {
	if k.m < 1 || k.m > 12 {
		return conversion{err: rangeErr("ADToBS", "month", k.m, 1, 12)}
	}
	if n := gregorianDaysIn(k.y, k.m); k.d < 1 || k.d > n {
		return conversion{err: rangeErr("ADToBS", "day", k.d, 1, n)}
	}
	o := c.OrdinalOfAD(k.y, k.m, k.d)
	if o < 1 || o > c.MaxOrdinal() {
		return conversion{err: rangeErr("ADToBS", "ordinal", o, 1, c.MaxOrdinal())}
	}
	y, m, d, err := c.FromOrdinal(o)
	return conversion{out: ymd{y, m, d}, err: err}
}

// BSToAD converts a BS date to the corresponding Gregorian date.
func (c *Converter) BSToAD(by, bm, bd int) (gy, gm, gd int, err error) {
	r := c.toAD.Get(ymd{by, bm, bd}, c.bsToAD)
	return r.out.y, r.out.m, r.out.d, r.err
}

func (c *Converter) bsToAD(k ymd) conversion {
	o, err := c.ToOrdinal(k.y, k.m, k.d)
	if err != nil {
		return conversion{err: err}
	}
	t := c.ADOfOrdinal(o)
	return conversion{out: ymd{t.Year(), int(t.Month()), t.Day()}}
}

// FirstDay returns the Gregorian date (at UTC midnight) of ordinal 1, the
// first day of MinYear.
func (t *Table) FirstDay() time.Time {
	return time.Unix(int64(t.epoch)*secondsPerDay, 0).UTC()
}

// OrdinalOfAD returns the ordinal of a Gregorian date without range checks.
// Dates before FirstDay yield values below 1.
func (t *Table) OrdinalOfAD(gy, gm, gd int) int {
	return dayNumber(gy, gm, gd) - t.epoch + 1
}

// ADOfOrdinal returns the Gregorian date (at UTC midnight) of ordinal o.
func (t *Table) ADOfOrdinal(o int) time.Time {
	return t.FirstDay().AddDate(0, 0, o-1)
}

// WeekdayOf returns the day of the week of ordinal o.
func (t *Table) WeekdayOf(o int) time.Weekday {
	// Day 0, 1970-01-01, was a Thursday.
	n := (t.epoch + o - 1) % 7
	return time.Weekday((n + 7 + 4) % 7)
}

// CacheStats reports hits and misses summed over both conversion caches.
func (c *Converter) CacheStats() (hits, misses uint64) {
	h1, m1 := c.toBS.Stats()
	h2, m2 := c.toAD.Stats()
	return h1 + h2, m1 + m2
}

// dayNumber returns the proleptic Gregorian day number of the date, with
// 1970-01-01 as day 0.
func dayNumber(y, m, d int) int {
	return int(time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

func gregorianDaysIn(y, m int) int {
	return time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// =============================================================================
// Process-wide calendar
// =============================================================================

var (
	defaultOnce sync.Once
	defaultConv *Converter
)

// Default returns the process-wide converter. Unless Install was called
// first, it is built from the embedded almanac on first use.
func Default() *Converter {
	defaultOnce.Do(func() {
		t, err := EmbeddedTable()
		if err != nil {
			panic("calendar: embedded almanac is invalid: " + err.Error())
		}
		defaultConv = NewConverter(t, cache.DefaultSize)
	})
	return defaultConv
}

// Install makes c the process-wide converter returned by Default. It must
// run before the first call to Default and returns ErrAlreadyInitialized
// otherwise.
func Install(c *Converter) error {
	installed := false
	defaultOnce.Do(func() {
		defaultConv = c
		installed = true
	})
	if !installed {
		return ErrAlreadyInitialized
	}
	return nil
}
