package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/patro-api/internal/bsdate"
	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/grid"
	"github.com/zapponejosh/patro-api/internal/names"
)

// dateResult is the structured form of a single converted date.
type dateResult struct {
	BS        string `json:"bs" yaml:"bs"`
	AD        string `json:"ad" yaml:"ad"`
	Weekday   string `json:"weekday" yaml:"weekday"`
	MonthName string `json:"month_name" yaml:"month_name"`
	Nepali    string `json:"nepali" yaml:"nepali"`
	DateTime  string `json:"datetime,omitempty" yaml:"datetime,omitempty"`
	Zone      string `json:"zone,omitempty" yaml:"zone,omitempty"`
}

func newDateResult(d bsdate.Date, style bsdate.Style) dateResult {
	return dateResult{
		BS:        d.String(),
		AD:        d.AD().Format(time.DateOnly),
		Weekday:   names.Weekdays[d.Weekday()],
		MonthName: names.Months[d.Month()-1],
		Nepali:    d.FormatStyle(bsdate.NepaliLong, style),
	}
}

// text renders r as a short human-readable block.
func (r dateResult) text(o *options) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", label)), value)
	}
	if o.nepali {
		line("BS", r.Nepali)
	} else {
		line("BS", r.BS)
	}
	line("AD", r.AD)
	line("Weekday", r.Weekday)
	if r.DateTime != "" {
		line("Time", r.DateTime)
	}
	if r.Zone != "" {
		line("Zone", mutedStyle.Render(r.Zone))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// =============================================================================
// today
// =============================================================================

func newTodayCmd(opts *options) *cobra.Command {
	var tz string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's BS date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, opts, tz)
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone (default Asia/Kathmandu)")
	return cmd
}

func runToday(cmd *cobra.Command, opts *options, tz string) error {
	loc := bsdate.NPT
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid time zone %q: %w", tz, err)
		}
		loc = l
	}

	now := bsdate.Now(loc)
	res := newDateResult(now.Date(), opts.bsStyle())
	res.DateTime = now.ISOFormat("T", bsdate.TimespecSeconds)
	res.Zone = loc.String()
	return opts.render(cmd.OutOrStdout(), res, func() string { return res.text(opts) })
}

// =============================================================================
// convert
// =============================================================================

func newConvertCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert dates between BS and AD",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "ad2bs DATE",
			Aliases: []string{"ad-to-bs"},
			Short:   "Convert an AD date (YYYY-MM-DD) to BS",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := time.Parse(time.DateOnly, args[0])
				if err != nil {
					return fmt.Errorf("invalid AD date %q (want YYYY-MM-DD)", args[0])
				}
				d, err := bsdate.FromAD(t)
				if err != nil {
					return err
				}
				res := newDateResult(d, opts.bsStyle())
				return opts.render(cmd.OutOrStdout(), res, func() string { return res.text(opts) })
			},
		},
		&cobra.Command{
			Use:     "bs2ad DATE",
			Aliases: []string{"bs-to-ad"},
			Short:   "Convert a BS date to AD",
			Long: `Convert a BS date to AD. The date may be in any form the parse
command understands, e.g. 2080-10-24, 2080/10/24 or Magh 24, 2080.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := bsdate.ParseDate(args[0])
				if err != nil {
					return err
				}
				res := newDateResult(d, opts.bsStyle())
				return opts.render(cmd.OutOrStdout(), res, func() string { return res.text(opts) })
			},
		},
	)
	return cmd
}

// =============================================================================
// format / parse
// =============================================================================

type formatResult struct {
	Input  string `json:"input" yaml:"input"`
	Layout string `json:"layout" yaml:"layout"`
	Style  string `json:"style" yaml:"style"`
	Result string `json:"result" yaml:"result"`
}

func newFormatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "format DATE LAYOUT",
		Short: "Format a BS date with a percent-code layout",
		Long: `Format a BS date or date-time with a percent-code layout.

Codes: %Y %y %m %-m %d %-d %B %b %N %G %K %n %D %k %j %a %A %w %u
       %H %I %p %P %M %S %f %z %Z %%`,
		Example: `  patro format 2080-10-24 "%B %d, %Y"
  patro format 2080-10-24 "%D %N %K" --style sanskrit`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := bsdate.Parse(args[0])
			if err != nil {
				return err
			}
			style := opts.bsStyle()
			res := formatResult{
				Input:  args[0],
				Layout: args[1],
				Style:  style.String(),
				Result: bsdate.Format(v, args[1], style),
			}
			return opts.render(cmd.OutOrStdout(), res, func() string { return res.Result })
		},
	}
}

func newParseCmd(opts *options) *cobra.Command {
	var layout string
	cmd := &cobra.Command{
		Use:   "parse TEXT",
		Short: "Parse a BS date, guessing the layout unless --layout is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				v   bsdate.Value
				err error
			)
			if layout != "" {
				v, err = bsdate.ParseFormat(args[0], layout)
			} else {
				v, err = bsdate.Parse(args[0])
			}
			if err != nil {
				return err
			}

			res := newDateResult(v.DateOf(), opts.bsStyle())
			if dt, ok := v.(bsdate.DateTime); ok {
				res.DateTime = dt.ISOFormat("T", bsdate.TimespecAuto)
				if loc := dt.Location(); loc != nil {
					res.Zone = loc.String()
				}
			}
			return opts.render(cmd.OutOrStdout(), res, func() string { return res.text(opts) })
		},
	}
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "Percent-code layout, e.g. %Y/%m/%d")
	return cmd
}

// =============================================================================
// cal
// =============================================================================

type calResult struct {
	Year      int    `json:"year" yaml:"year"`
	Month     int    `json:"month,omitempty" yaml:"month,omitempty"`
	MonthName string `json:"month_name,omitempty" yaml:"month_name,omitempty"`
	Days      int    `json:"days" yaml:"days"`
	Text      string `json:"text" yaml:"text"`
}

func newCalCmd(opts *options) *cobra.Command {
	var first string
	cmd := &cobra.Command{
		Use:   "cal [YEAR [MONTH]]",
		Short: "Print a BS month or year calendar",
		Long: `Print a BS calendar. With no arguments the current month is shown,
with a year the whole year, with a year and month that month.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fw, ok := weekdayNumber(first)
			if !ok {
				return fmt.Errorf("invalid first weekday %q", first)
			}
			today := bsdate.Today(nil)
			gopts := grid.Options{Nepali: opts.nepali, FirstWeekday: fw, Highlight: &today}

			switch len(args) {
			case 0:
				return renderMonth(cmd, opts, today.Year(), today.Month(), gopts)
			case 1:
				year, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
				return renderYear(cmd, opts, year, gopts)
			}
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			month, ok := names.MonthNumber(args[1])
			if !ok {
				if month, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid month %q", args[1])
				}
			}
			return renderMonth(cmd, opts, year, month, gopts)
		},
	}
	cmd.Flags().StringVar(&first, "first", "sunday", "First day of the week")
	return cmd
}

func renderMonth(cmd *cobra.Command, opts *options, year, month int, gopts grid.Options) error {
	text, err := grid.MonthCalendar(year, month, gopts)
	if err != nil {
		return err
	}
	days, _ := calendar.Default().DaysInMonth(year, month)
	res := calResult{
		Year:      year,
		Month:     month,
		MonthName: names.Months[month-1],
		Days:      days,
		Text:      text,
	}
	return opts.render(cmd.OutOrStdout(), res, func() string {
		return borderStyle.Render(styleCalendar(text))
	})
}

func renderYear(cmd *cobra.Command, opts *options, year int, gopts grid.Options) error {
	text, err := grid.YearCalendar(year, gopts)
	if err != nil {
		return err
	}
	days, _ := calendar.Default().DaysInYear(year)
	res := calResult{Year: year, Days: days, Text: text}
	return opts.render(cmd.OutOrStdout(), res, func() string { return styleCalendar(text) })
}

// styleCalendar colours the first line and the bracketed day of a grid.
func styleCalendar(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		lines[0] = titleStyle.Render(lines[0])
	}
	for i, l := range lines {
		open := strings.IndexByte(l, '[')
		if open < 0 {
			continue
		}
		end := strings.IndexByte(l[open:], ']')
		if end < 0 {
			continue
		}
		end += open + 1
		lines[i] = l[:open] + todayStyle.Render(l[open:end]) + l[end:]
	}
	return strings.Join(lines, "\n")
}

func weekdayNumber(s string) (time.Weekday, bool) {
	s = strings.ToLower(s)
	for i, name := range names.Weekdays {
		if strings.ToLower(name) == s || strings.ToLower(names.ShortWeekdays[i]) == s {
			return time.Weekday(i), true
		}
	}
	return 0, false
}
