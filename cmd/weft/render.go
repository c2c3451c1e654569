package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/tree"
	"github.com/vango-dev/weft/pkg/weft"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		budget    time.Duration
		scheduler string
		fibers    int
		stats     bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render [document.yaml]",
		Short: "Render an element document to HTML",
		Long: `Render a YAML element document through the engine and print the
resulting host tree as HTML.

Use "-" to read the document from stdin. Without an argument the built-in
demo document is rendered.

Examples:
  weft render page.yaml
  weft render --scheduler=manual --fibers=2 --stats page.yaml
  cat page.yaml | weft render -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if budget > 0 {
				cfg.Engine.SlotBudget = budget
			}
			if scheduler != "" {
				cfg.Engine.Scheduler = scheduler
			}
			if cmd.Flags().Changed("fibers") {
				cfg.Engine.ManualBudget = fibers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			el, err := loadDocument(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			logger := cfg.Logger(cmd.ErrOrStderr())
			s := newSession(newRunner(cfg, logger), weft.WithLogger(logger))
			defer s.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := s.render(ctx, el); err != nil {
				return err
			}
			html, err := s.html(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)

			if stats {
				st, err := s.stats(ctx)
				if err != nil {
					return err
				}
				info(cmd, "fibers=%d placements=%d updates=%d deletions=%d commit=%s",
					st.Fibers, st.Placements, st.Updates, st.Deletions, st.Duration)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&budget, "budget", 0, "Loop scheduler slot budget (default from weft.yaml)")
	cmd.Flags().StringVar(&scheduler, "scheduler", "", "Scheduler: loop or manual (default from weft.yaml)")
	cmd.Flags().IntVar(&fibers, "fibers", 0, "Manual scheduler fibers per slot, 0 for unlimited")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print commit statistics to stderr")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Maximum time to wait for the render")

	return cmd
}

// loadDocument decodes the document named by args, stdin for "-", or the
// demo document.
func loadDocument(stdin io.Reader, args []string) (*weft.Element, error) {
	switch {
	case len(args) == 0:
		return tree.Decode([]byte(demoDocument), components)
	case args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return tree.Decode(data, components)
	default:
		return tree.DecodeFile(args[0], components)
	}
}
