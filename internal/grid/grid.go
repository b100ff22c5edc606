// Package grid renders Bikram Sambat months and years as plain-text
// calendars.
package grid

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zapponejosh/patro-api/internal/bsdate"
	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/digits"
	"github.com/zapponejosh/patro-api/internal/names"
)

const (
	cellWidth   = 4
	weekWidth   = 7*cellWidth - 1
	blockWidth  = 25
	blockGutter = "   "
)

// DefaultColumns is the number of months per row in YearCalendar.
const DefaultColumns = 3

// Options controls calendar rendering.
type Options struct {
	Nepali       bool         // Devanagari digits and Nepali names
	FirstWeekday time.Weekday // first column, Sunday by default
	Highlight    *bsdate.Date // day shown in brackets, if in the month
	Columns      int          // months per row in YearCalendar; 0 means DefaultColumns
}

// MonthCalendar renders one month: a centred "Month Year" header, a row of
// weekday names and the days, one week per line. Lines are joined with "\n"
// and there is no trailing newline.
//
//	         Magh 2080
//	Sun Mon Tue Wed Thu Fri Sat
//	  1   2   3   4   5   6   7
//	...
func MonthCalendar(year, month int, opts Options) (string, error) {
	lines, err := monthLines(year, month, opts)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func monthLines(year, month int, opts Options) ([]string, error) {
	first, err := bsdate.New(year, month, 1)
	if err != nil {
		return nil, err
	}
	days := first.DaysInMonth()
	fw := int(opts.FirstWeekday) % 7
	if fw < 0 {
		fw += 7
	}

	var (
		header   string
		dayNames [7]string
		number   func(int) string
	)
	if opts.Nepali {
		header = names.NepaliMonths[month-1] + " " + digits.ToDevanagari(strconv.Itoa(year))
		dayNames = names.NepaliShortWeekdays
		number = func(n int) string { return digits.ToDevanagari(strconv.Itoa(n)) }
	} else {
		header = names.Months[month-1] + " " + strconv.Itoa(year)
		dayNames = names.ShortWeekdays
		number = strconv.Itoa
	}

	lines := []string{center(header, weekWidth)}

	cols := make([]string, 7)
	for i := range cols {
		cols[i] = ljust(dayNames[(fw+i)%7], 3)
	}
	lines = append(lines, strings.Join(cols, " "))

	start := (int(first.Weekday()) - fw + 7) % 7
	week := make([]string, 0, 7)
	for i := 0; i < start; i++ {
		week = append(week, "   ")
	}
	for day := 1; day <= days; day++ {
		h := opts.Highlight
		if h != nil && h.Year() == year && h.Month() == month && h.Day() == day {
			week = append(week, rjust("["+number(day)+"]", 4))
		} else {
			week = append(week, rjust(number(day), 3))
		}
		if len(week) == 7 {
			lines = append(lines, strings.Join(week, " "))
			week = week[:0]
		}
	}
	if len(week) > 0 {
		lines = append(lines, strings.Join(week, " "))
	}
	return lines, nil
}

// YearCalendar renders all twelve months of year under a banner, with
// opts.Columns months side by side and a blank line after each row.
func YearCalendar(year int, opts Options) (string, error) {
	c := calendar.Default()
	if year < c.MinYear() || year > c.MaxYear() {
		return "", &calendar.RangeError{Op: "YearCalendar", Field: "year", Value: year, Min: c.MinYear(), Max: c.MaxYear()}
	}
	columns := opts.Columns
	if columns <= 0 {
		columns = DefaultColumns
	}

	blocks := make([][]string, 12)
	for m := range blocks {
		lines, err := monthLines(year, m+1, opts)
		if err != nil {
			return "", err
		}
		blocks[m] = lines
	}

	banner := strconv.Itoa(year)
	if opts.Nepali {
		banner = digits.ToDevanagari(banner)
	}
	bar := strings.Repeat("=", 20)
	out := []string{bar + " " + banner + " " + bar, ""}

	for start := 0; start < len(blocks); start += columns {
		row := blocks[start:min(start+columns, len(blocks))]

		height := 0
		for _, b := range row {
			height = max(height, len(b))
		}
		for i := 0; i < height; i++ {
			cells := make([]string, len(row))
			for j, b := range row {
				if i < len(b) {
					cells[j] = ljust(b[i], blockWidth)
				} else {
					cells[j] = strings.Repeat(" ", utf8.RuneCountInString(b[0]))
				}
			}
			out = append(out, strings.Join(cells, blockGutter))
		}
		out = append(out, "")
	}
	return strings.Join(out, "\n"), nil
}

// center pads s to width, counting runes. An odd margin puts the extra
// space on the left when width is odd.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	marg := width - n
	left := marg/2 + (marg & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", marg-left)
}

func ljust(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func rjust(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
