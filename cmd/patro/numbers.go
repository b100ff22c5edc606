package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/patro-api/internal/digits"
	"github.com/zapponejosh/patro-api/internal/numbers"
)

type numberResult struct {
	Input  string `json:"input" yaml:"input"`
	Result string `json:"result" yaml:"result"`
	Words  string `json:"words,omitempty" yaml:"words,omitempty"`
}

type ordinalResult struct {
	Input  string `json:"input" yaml:"input"`
	Value  int    `json:"value" yaml:"value"`
	Nepali string `json:"nepali" yaml:"nepali"`
}

func newNumCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "num",
		Short: "Nepali number grouping, words and ordinals",
	}

	var delimiter string
	format := &cobra.Command{
		Use:   "format VALUE",
		Short: "Group a number the Nepali way (12,34,567)",
		Example: `  patro num format 1234567
  patro num format 2,553,871 --nepali`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := numbers.Format(args[0], numbers.Options{Devanagari: opts.nepali, Delimiter: delimiter})
			if err != nil {
				return err
			}
			res := numberResult{Input: args[0], Result: result}
			if n, ok := plainInt(args[0]); ok && n >= 0 {
				res.Words, _ = numbers.Words(n)
			}
			return opts.render(cmd.OutOrStdout(), res, func() string { return res.Result })
		},
	}
	format.Flags().StringVar(&delimiter, "delimiter", "", "Group separator (default \",\")")

	words := &cobra.Command{
		Use:   "words N",
		Short: "Spell a whole number in Nepali words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, ok := plainInt(args[0])
			if !ok {
				return fmt.Errorf("invalid number %q", args[0])
			}
			w, err := numbers.Words(n)
			if err != nil {
				return err
			}
			res := numberResult{
				Input:  args[0],
				Result: numbers.FormatInt(n, numbers.Options{Devanagari: opts.nepali}),
				Words:  w,
			}
			return opts.render(cmd.OutOrStdout(), res, func() string { return res.Words })
		},
	}

	ordinal := &cobra.Command{
		Use:   "ordinal VALUE",
		Short: "Convert a number, English ordinal or Nepali ordinal word",
		Example: `  patro num ordinal 21st
  patro num ordinal पहिलो`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := numbers.ParseOrdinal(args[0])
			if err != nil {
				var word string
				if word, err = numbers.OrdinalOf(args[0]); err != nil {
					return err
				}
				n, _ = numbers.ParseOrdinal(word)
			}
			word, _ := numbers.Ordinal(n)
			res := ordinalResult{Input: args[0], Value: n, Nepali: word}
			return opts.render(cmd.OutOrStdout(), res, func() string {
				if opts.nepali {
					return res.Nepali
				}
				return fmt.Sprintf("%d %s", res.Value, res.Nepali)
			})
		},
	}

	cmd.AddCommand(format, words, ordinal)
	return cmd
}

// plainInt reads s as a whole number, allowing commas and Devanagari digits.
func plainInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.ReplaceAll(digits.ToASCII(strings.TrimSpace(s)), ",", ""), 10, 64)
	return n, err == nil
}
