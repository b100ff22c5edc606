package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/zapponejosh/patro-api/internal/bsdate"
	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/names"
)

// This script prints the first and last day of every month of a BS year
// with their AD equivalents, for checking the almanac against a printed
// patro and for seeding API test cases.

func main() {
	year := flag.Int("year", 0, "BS year to generate dates for (default: current year)")
	nepali := flag.Bool("nepali", false, "Also print dates in Devanagari")
	flag.Parse()

	if *year == 0 {
		*year = bsdate.Today(nil).Year()
	}

	conv := calendar.Default()
	total, err := conv.DaysInYear(*year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== BS Date Generator for %d ===\n\n", *year)

	first := bsdate.MustNew(*year, 1, 1)
	lastMonth := bsdate.MustNew(*year, 12, 1)
	last := bsdate.MustNew(*year, 12, lastMonth.DaysInMonth())

	fmt.Println("Key Dates:")
	fmt.Printf("  New Year:        %s = %s AD (%s)\n", first, first.AD().Format("2006-01-02"), names.Weekdays[first.Weekday()])
	fmt.Printf("  Year End:        %s = %s AD (%s)\n", last, last.AD().Format("2006-01-02"), names.Weekdays[last.Weekday()])
	fmt.Printf("  Days in Year:    %d\n", total)
	fmt.Println()

	header := fmt.Sprintf("%-10s %4s  %-10s %-10s %-10s %-10s", "Month", "Days", "First BS", "First AD", "Last BS", "Last AD")
	fmt.Println(header)
	fmt.Println(strings.Repeat("-", len(header)))

	for m := 1; m <= 12; m++ {
		start := bsdate.MustNew(*year, m, 1)
		end := bsdate.MustNew(*year, m, start.DaysInMonth())

		fmt.Printf("%-10s %4d  %-10s %-10s %-10s %-10s\n",
			names.Months[m-1],
			start.DaysInMonth(),
			start, start.AD().Format("2006-01-02"),
			end, end.AD().Format("2006-01-02"),
		)
		if *nepali {
			fmt.Printf("%-10s       %s  ...  %s\n", "", start.Format(bsdate.NepaliLong), end.Format(bsdate.NepaliLong))
		}
	}

	fmt.Println()
	fmt.Println("Boundary dates for API tests:")
	for _, d := range []bsdate.Date{first, last} {
		fmt.Printf("  {%q, %q},\n", d.AD().Format("2006-01-02"), d.String())
	}
	if next, err := last.AddDays(1); err == nil {
		fmt.Printf("  {%q, %q},\n", next.AD().Format("2006-01-02"), next.String())
	}
}
