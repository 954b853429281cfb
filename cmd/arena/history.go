package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/arena/internal/orchestrators/arena"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded battles, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		out, err := a.service.ListBattles(ctx, &arena.ListBattlesInput{Limit: historyLimit})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderRecords(out.Battles))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of battles to list")
}
