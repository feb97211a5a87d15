package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rehiko/picstash/api/core"
	"github.com/rehiko/picstash/config"
	"github.com/rehiko/picstash/internal/app"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if cfg.DBType == "sqlite" {
		if err := os.MkdirAll("./data", os.ModePerm); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	container := app.NewContainer(cfg)
	if err := container.Init(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := container.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 后台孤儿清理，sweep_interval 为 0 时不启动
	container.Sweeper.Start()

	deps := &core.RouterDependencies{
		Config:             cfg,
		DBProvider:         container.GetDatabaseProvider(),
		CacheProvider:      container.GetCacheProvider(),
		JWTService:         container.JWTService,
		LoginService:       container.LoginService,
		CollectionsService: container.CollectionsService,
		UnsplashClient:     container.UnsplashClient,
		Sweeper:            container.Sweeper,
	}

	// 启动gin
	server, cleanup := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cleanup != nil {
		cleanup()
		log.Println("Cleanup tasks finished.")
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	container.Close()
	log.Println("Server exited.")
}
