// Patro - Bikram Sambat calendar on the command line.
// Converts between BS and AD dates, formats and parses BS dates and prints
// month and year calendars.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/patro-api/internal/bsdate"
	"github.com/zapponejosh/patro-api/internal/cache"
	"github.com/zapponejosh/patro-api/internal/calendar"
	"github.com/zapponejosh/patro-api/internal/logger"
)

var version = "0.1.0"

// Output formats
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	accent = lipgloss.Color("#DC143C")
	muted  = lipgloss.Color("#666666")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	todayStyle  = lipgloss.NewStyle().Reverse(true)
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
)

// options holds the persistent flags shared by every command.
type options struct {
	output  string
	style   string
	nepali  bool
	almanac string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "patro",
		Short: "Patro - Bikram Sambat dates and calendars",
		Long: `Patro converts between Bikram Sambat (BS) and Gregorian (AD) dates,
formats and parses BS dates and prints month and year calendars.

Run without arguments to show today's date in Nepal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, opts, "")
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", outputText, "Output format: text, json, yaml")
	flags.StringVar(&opts.style, "style", string(bsdate.StyleFormal), "Nepali month names: formal, sanskrit")
	flags.BoolVar(&opts.nepali, "nepali", false, "Use Devanagari digits and Nepali names")
	flags.StringVar(&opts.almanac, "almanac", "", "Almanac JSON file to use instead of the built-in one")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging on stderr")

	root.AddCommand(
		newTodayCmd(opts),
		newConvertCmd(opts),
		newFormatCmd(opts),
		newParseCmd(opts),
		newCalCmd(opts),
		newNumCmd(opts),
	)
	return root
}

// setup validates the shared flags, configures logging and installs a
// custom almanac when one is given.
func (o *options) setup() error {
	switch o.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", o.output)
	}
	if _, err := bsdate.ParseStyle(o.style); err != nil {
		return err
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	slog.SetDefault(logger.New(os.Stderr, level, "text"))

	if o.almanac == "" {
		return nil
	}
	data, err := os.ReadFile(o.almanac)
	if err != nil {
		return fmt.Errorf("read almanac: %w", err)
	}
	table, err := calendar.ParseTable(data)
	if err != nil {
		return err
	}
	if err := calendar.Install(calendar.NewConverter(table, cache.DefaultSize)); err != nil {
		return err
	}
	slog.Debug("almanac installed",
		slog.String("path", o.almanac),
		slog.Int("min_year", table.MinYear()),
		slog.Int("max_year", table.MaxYear()),
	)
	return nil
}

func (o *options) bsStyle() bsdate.Style {
	s, _ := bsdate.ParseStyle(o.style)
	return s
}

// render writes v as JSON or YAML, or calls text for the plain format.
func (o *options) render(w io.Writer, v interface{}, text func() string) error {
	switch o.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, text())
	return err
}
