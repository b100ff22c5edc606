package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/names"
)

// This script shows how month lengths are distributed across the almanac.
// Run it after editing the almanac JSON to spot a mistyped month: a value no
// other year uses for that month shows up as a rare length.

func main() {
	path := flag.String("json", "", "Almanac JSON file (default: built-in almanac)")
	rare := flag.Int("rare", 3, "Report lengths seen in at most this many years")
	flag.Parse()

	table, err := load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Month Lengths %d-%d ===\n\n", table.MinYear(), table.MaxYear())

	// counts[m][days] is the number of years whose month m has that many days.
	var counts [12]map[int][]int
	for m := range counts {
		counts[m] = make(map[int][]int)
	}
	yearLengths := make(map[int]int)

	for _, y := range table.Years() {
		months, _ := table.Months(y)
		for m, days := range months {
			counts[m][days] = append(counts[m][days], y)
		}
		total, _ := table.DaysInYear(y)
		yearLengths[total]++
	}

	fmt.Printf("%-10s %6s %6s %6s %6s\n", "Month", "29", "30", "31", "32")
	fmt.Println(strings.Repeat("-", 38))
	for m := range counts {
		fmt.Printf("%-10s", names.Months[m])
		for days := calendar.MinMonthDays; days <= calendar.MaxMonthDays; days++ {
			fmt.Printf(" %6d", len(counts[m][days]))
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Println("Year lengths:")
	var totals []int
	for total := range yearLengths {
		totals = append(totals, total)
	}
	sort.Ints(totals)
	for _, total := range totals {
		fmt.Printf("  %d days: %d years\n", total, yearLengths[total])
	}

	fmt.Println()
	fmt.Printf("Rare lengths (seen in <= %d years):\n", *rare)
	found := false
	for m := range counts {
		for days, years := range counts[m] {
			if len(years) > *rare {
				continue
			}
			found = true
			fmt.Printf("  %-10s %d days: %v\n", names.Months[m], days, years)
		}
	}
	if !found {
		fmt.Println("  none")
	}
}

func load(path string) (*calendar.Table, error) {
	if path == "" {
		return calendar.EmbeddedTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return calendar.ParseTable(data)
}
