package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/rehiko/picstash/config"
	"github.com/rehiko/picstash/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitConfig()
		cfg := config.Get()

		factory, err := database.NewFactory(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer factory.Close()

		if err := factory.AutoMigrate(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
