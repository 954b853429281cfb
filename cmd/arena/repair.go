package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/arena/internal/errors"
	"github.com/KirkDiggler/arena/internal/redis"
	"github.com/KirkDiggler/arena/internal/repositories/battles"
)

var applyRepair bool

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Check the redis battle records and fix the index",
	Long: `Repair scans every battle record in redis. It reports records that cannot
be decoded, index entries without a record and records missing from the index.
With --apply it deletes the broken records and rewrites the index.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		addr := viper.GetString("redis_addr")
		if addr == "" {
			return errors.FailedPrecondition("repair needs a redis address (--redis-addr or ARENA_REDIS_ADDR)")
		}

		client, err := redis.NewClient(addr, &redis.Options{
			Password: viper.GetString("redis_password"),
			DB:       viper.GetInt("redis_db"),
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := redis.Ping(pingCtx, client); err != nil {
			return err
		}

		out, err := battles.RepairRedis(ctx, client, &battles.RepairInput{Apply: applyRepair})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderRepair(out))
		return nil
	},
}

func init() {
	repairCmd.Flags().BoolVar(&applyRepair, "apply", false, "delete broken records and rewrite the index")
	rootCmd.AddCommand(repairCmd)
}

func renderRepair(out *battles.RepairOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Checked %d records.\n", out.Checked)
	if out.Clean() {
		b.WriteString(infoStyle.Render("Nothing to repair."))
		return b.String()
	}

	for _, group := range []struct {
		label string
		ids   []string
	}{
		{"Corrupted records", out.Corrupted},
		{"Orphaned index entries", out.Orphaned},
		{"Unindexed records", out.Unindexed},
	} {
		if len(group.ids) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", group.label)
		for _, id := range group.ids {
			fmt.Fprintf(&b, "  - %s\n", id)
		}
	}

	if out.Applied {
		b.WriteString(winnerStyle.Render("Repaired."))
	} else {
		b.WriteString(infoStyle.Render("Run again with --apply to fix these."))
	}
	return b.String()
}
