package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/accumulator"
	"go-chi-calculator/internal/tui"
)

var version = "dev" // set by the linker

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}

// newRootCmd builds the calc command tree. Tests call it for a fresh,
// isolated instance.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc [KEYS...]",
		Short: "calc is a four-function running calculator.",
		Long: `calc is a four-function calculator that applies operators strictly
left to right as they are chosen, like a pocket calculator.

Running without a subcommand launches the interactive keypad. Any KEYS
given are pressed before the keypad opens.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := replay(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return tui.Run(acc)
		},
	}

	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newMCPCmd())

	cmd.Version = version

	return cmd
}

// replay presses keys on a fresh accumulator.
func replay(keys string) (*accumulator.Accumulator, error) {
	intents, err := accumulator.ParseKeys(keys)
	if err != nil {
		return nil, err
	}
	acc := accumulator.New()
	for _, in := range intents {
		acc.Dispatch(in)
	}
	return acc, nil
}
