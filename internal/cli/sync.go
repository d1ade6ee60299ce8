package cli

import (
	"fmt"

	"glowupp/nutrition-api/internal/cache"
	"glowupp/nutrition-api/internal/config"
	"glowupp/nutrition-api/internal/daysync"
	"glowupp/nutrition-api/internal/repository/mongo"

	"github.com/spf13/cobra"
)

func newSyncCmd(configPath *string) *cobra.Command {
	var cachePath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push every pending cached day to MongoDB once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if cachePath != "" {
				cfg.Cache.Path = cachePath
			}

			store, err := cache.Open(cfg.Cache.Path)
			if err != nil {
				return fmt.Errorf("open day cache: %w", err)
			}
			defer store.Close()

			client, err := mongo.ConnectDB(cfg.Database.URI, cfg.Database.ConnectAttempts)
			if err != nil {
				return err
			}
			defer mongo.DisconnectDB(client)

			repo := mongo.NewMongoDailyLogRepository(client.Database(cfg.Database.Name))
			syncer := daysync.NewSyncer(store, repo, cfg.Sync.BatchSize)

			res, err := syncer.PushPending(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "pushed=%d stale=%d failed=%d\n", res.Pushed, res.Stale, res.Failed)
			return err
		},
	}
	cmd.Flags().StringVar(&cachePath, "cache", "", "Override the SQLite day cache path")
	return cmd
}
