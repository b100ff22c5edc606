package calendar

import "sort"

// ToOrdinal returns the number of days from the first day of MinYear to
// (y, m, d), counting that first day as 1.
func (t *Table) ToOrdinal(y, m, d int) (int, error) {
	if err := t.check("ToOrdinal", y, m, d); err != nil {
		return 0, err
	}
	i := y - t.minYear
	return t.yearStart[i] + t.monthStart[i][m-1] + d, nil
}

// FromOrdinal is the inverse of ToOrdinal.
func (t *Table) FromOrdinal(o int) (y, m, d int, err error) {
	if o < 1 || o > t.MaxOrdinal() {
		return 0, 0, 0, rangeErr("FromOrdinal", "ordinal", o, 1, t.MaxOrdinal())
	}
	n := o - 1

	// Largest i with yearStart[i] <= n.
	i := sort.Search(len(t.months), func(i int) bool {
		return t.yearStart[i+1] > n
	})
	n -= t.yearStart[i]

	starts := &t.monthStart[i]
	j := sort.Search(12, func(j int) bool {
		return starts[j+1] > n
	})

	return t.minYear + i, j + 1, n - starts[j] + 1, nil
}
