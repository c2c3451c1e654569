package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe a weft error code",
		Long: `Print the explanation registered for an error code such as E002.

Without an argument every known code is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.Codes() {
					t, _ := errors.Lookup(code)
					fmt.Fprintf(out, "%s  %-10s %s\n", code, t.Category, t.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			t, ok := errors.Lookup(code)
			if !ok {
				return fmt.Errorf("unknown error code %q (run 'weft explain' for the list)", args[0])
			}
			fmt.Fprintf(out, "%s: %s\n\n%s\n\n%s\n", code, t.Message, t.Detail, t.DocURL)
			return nil
		},
	}
}
