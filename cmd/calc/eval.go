package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/accumulator"
)

func newEvalCmd() *cobra.Command {
	var steps bool

	cmd := &cobra.Command{
		Use:   "eval KEYS...",
		Short: "Replay a key sequence and print the display",
		Long: `Replays keys through a fresh calculator and prints the final display.
Keys are digits, ".", "+", "-", "*", "/", "=" and "C", plus the function
keys "n" (±), "%", "r" (√) and "s" (x²). Whitespace between keys is ignored,
so "2 + 3 =" and "2+3=" are the same sequence.`,
		Example: `  calc eval 2+3*4=
  calc eval --steps "1 / 0 ="`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intents, err := accumulator.ParseKeys(strings.Join(args, " "))
			if err != nil {
				return err
			}

			acc := accumulator.New()
			out := cmd.OutOrStdout()
			for _, in := range intents {
				display := acc.Dispatch(in)
				if !steps {
					continue
				}
				if total := acc.RunningTotal(); total != "" {
					fmt.Fprintf(out, "%s\t%s\t(%s)\n", in.Key(), display, total)
				} else {
					fmt.Fprintf(out, "%s\t%s\n", in.Key(), display)
				}
			}

			if !steps {
				fmt.Fprintln(out, acc.Display())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&steps, "steps", false, "print the display after every key")

	return cmd
}
