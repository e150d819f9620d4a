package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved analysis runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No saved runs. Use 'sift analyze --save' to record one.")
				return nil
			}

			for _, run := range runs {
				gate := "no gate"
				switch {
				case run.GateBlocked:
					gate = "gate BLOCKED"
				case run.GatePassed != nil && *run.GatePassed:
					gate = "gate passed"
				case run.GatePassed != nil:
					gate = "gate failed"
				}
				fmt.Printf("%s  %s  %-40s %6d rows  %5d flagged  %s\n",
					run.ID[:8],
					run.CreatedAt.Format("2006-01-02 15:04"),
					run.SourceFile,
					run.RecordCount,
					run.FlaggedCount,
					gate)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of runs to list")
	return cmd
}
