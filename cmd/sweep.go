package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/rehiko/picstash/config"
	"github.com/rehiko/picstash/database"
	repoCollections "github.com/rehiko/picstash/database/repo/collections"
	"github.com/rehiko/picstash/internal/sweeper"
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove orphaned images and exit",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitConfig()
		cfg := config.Get()

		factory, err := database.NewFactory(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer factory.Close()

		repo := repoCollections.NewRepository(factory.GetProvider())
		s := sweeper.New(repo, cfg.SweepBatchSize, 0)

		deleted, err := s.RunOnce(context.Background())
		if err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		log.Printf("Sweep completed, removed %d orphaned images", deleted)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
