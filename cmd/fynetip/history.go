package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skobkin/fynetip/internal/app"
	"github.com/skobkin/fynetip/internal/events"
)

const defaultHistoryLimit = 20

func historyCmd() *cobra.Command {
	var (
		configPath string
		limit      int
		clearAll   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recorded tooltip visibility changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}

			journal, err := app.OpenHistory(cmd.Context(), configPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer func() { _ = journal.Close() }()

			if clearAll {
				if err := journal.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "journal cleared")

				return nil
			}

			recent, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return writeHistory(cmd.OutOrStdout(), recent)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the JSON config file; the journal lives next to it")
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "number of newest events to print")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all recorded events")

	return cmd
}

func writeHistory(out io.Writer, recent []events.TooltipVisibility) error {
	if len(recent) == 0 {
		_, err := fmt.Fprintln(out, "no recorded events")

		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSTATE\tNAME\tTOOLTIP")
	for _, ev := range recent {
		state := "hidden"
		if ev.Visible {
			state = "shown"
		}
		name := ev.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ev.Timestamp.Format("2006-01-02 15:04:05.000"), state, name, ev.TooltipID)
	}

	return tw.Flush()
}
