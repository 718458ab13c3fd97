package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "urubu",
	Short: "Drive an LR parse over a token stream using a compiled grammar",
	Long: `urubu is the runtime for table-driven LR parsing:
- Parses a text stream using a precomputed parsing table.
- Recovers from syntax errors by parsing ahead over buffered lookahead.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
