/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/moamenhredeen/relcheck/internal/config"
	"github.com/moamenhredeen/relcheck/internal/history"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

var historyCount int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs recorded in Redis",
	Long: `Show the most recent runs recorded by "relcheck run" when
history.redis_addr (or --history-redis) is configured.

A non-zero drift means the product count at the start of a run differs from
the count the previous run ended with.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromCmd(cmd)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.History.RedisAddr == "" {
			return fmt.Errorf("history.redis_addr is not configured")
		}

		store, closeStore, err := openHistory(cmd.Context(), cfg.History, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		records, err := store.Recent(cmd.Context(), historyCount)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No runs recorded")
			return nil
		}

		drift := history.BaselineDrift(records)
		fmt.Printf("%-19s  %-32s %6s  %-10s %8s %6s %6s\n",
			"AT", "SERVER", "GRADE", "BAND", "PRODUCTS", "DELTA", "DRIFT")
		for i, r := range records {
			products := countText(r.InitialCount, r.InitialCounted) + "->" + countText(r.FinalCount, r.FinalCounted)
			fmt.Printf("%-19s  %-32s %6.1f  %-10s %8s %6s %6s\n",
				r.At.Local().Format(time.DateTime), r.BaseURL, r.Grade, r.Band,
				products, r.Delta(), drift[i])
		}
		return nil
	},
}

// openHistory connects the Redis run history. With no address it returns an
// in-memory store.
func openHistory(ctx context.Context, cfg config.History, logger pslog.Logger) (history.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return history.NewMemoryStore(cfg.Keep), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	_, err := rdb.Ping(pingCtx).Result()
	cancel()
	if err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	logger.Debug("run history connected", "addr", cfg.RedisAddr, "prefix", cfg.Prefix)

	store := history.NewRedisStore(rdb, history.WithPrefix(cfg.Prefix), history.WithKeep(cfg.Keep))
	return store, func() { _ = rdb.Close() }, nil
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 10, "Number of runs to show")
}
