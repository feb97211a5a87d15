package app

import (
	"fmt"
	"log"

	"github.com/rehiko/picstash/cache"
	"github.com/rehiko/picstash/config"
	"github.com/rehiko/picstash/database"
	"github.com/rehiko/picstash/database/repo/accounts"
	repoCollections "github.com/rehiko/picstash/database/repo/collections"
	"github.com/rehiko/picstash/database/repo/images"
	svcAuth "github.com/rehiko/picstash/internal/auth"
	svcCollections "github.com/rehiko/picstash/internal/collections"
	"github.com/rehiko/picstash/internal/sweeper"
	"github.com/rehiko/picstash/internal/unsplash"
	"github.com/rehiko/picstash/utils"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config          *config.Config
	databaseFactory *database.Factory
	cacheProvider   cache.Provider

	AccountsRepo    *accounts.Repository
	CollectionsRepo *repoCollections.Repository
	ImagesRepo      *images.Repository

	JWTService         *svcAuth.JWTService
	LoginService       *svcAuth.LoginService
	CollectionsService *svcCollections.Service
	UnsplashClient     *unsplash.Client
	Sweeper            *sweeper.Sweeper
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Init 初始化全部依赖：数据库、缓存、仓库与服务
func (c *Container) Init() error {
	if err := c.initDatabase(); err != nil {
		return err
	}
	c.initCache()
	if err := c.initServices(); err != nil {
		return err
	}
	utils.LogIfDevf("DI container initialized successfully")
	return nil
}

func (c *Container) initDatabase() error {
	factory, err := database.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database factory: %w", err)
	}
	c.databaseFactory = factory

	provider := factory.GetProvider()
	c.AccountsRepo = accounts.NewRepository(provider)
	c.CollectionsRepo = repoCollections.NewRepository(provider)
	c.ImagesRepo = images.NewRepository(provider)
	return nil
}

// initCache 缓存是可选依赖，初始化失败时降级为无缓存运行
func (c *Container) initCache() {
	provider, err := cache.NewProvider(c.config)
	if err != nil {
		log.Printf("Cache provider unavailable, running without cache: %v", err)
		return
	}
	c.cacheProvider = provider
}

func (c *Container) initServices() error {
	jwtService, err := svcAuth.NewJWTService(c.config.JWTSecret, c.config.JWTExpiresIn, c.config.JWTRefreshExpiresIn)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	c.JWTService = jwtService
	c.LoginService = svcAuth.NewLoginService(c.AccountsRepo, jwtService)

	cacheHelper := cache.NewHelper(c.cacheProvider)
	c.CollectionsService = svcCollections.NewService(c.CollectionsRepo, c.ImagesRepo, cacheHelper)

	c.UnsplashClient = unsplash.NewClient(c.config.UnsplashAccessKey,
		unsplash.WithCache(cacheHelper, c.config.UnsplashCacheTTL))

	c.Sweeper = sweeper.New(c.CollectionsRepo, c.config.SweepBatchSize, c.config.SweepInterval)
	return nil
}

// AutoMigrate 自动迁移数据库结构
func (c *Container) AutoMigrate() error {
	if c.databaseFactory == nil {
		return fmt.Errorf("database factory not initialized")
	}
	return c.databaseFactory.AutoMigrate()
}

// GetDatabaseProvider 获取数据库提供者
func (c *Container) GetDatabaseProvider() database.Provider {
	if c.databaseFactory == nil {
		return nil
	}
	return c.databaseFactory.GetProvider()
}

// GetCacheProvider 获取缓存提供者，未启用时返回 nil
func (c *Container) GetCacheProvider() cache.Provider {
	return c.cacheProvider
}

// Close 释放容器持有的全部资源
func (c *Container) Close() {
	if c.Sweeper != nil {
		c.Sweeper.Stop()
	}
	if c.cacheProvider != nil {
		if err := c.cacheProvider.Close(); err != nil {
			log.Printf("Failed to close cache provider: %v", err)
		}
	}
	if c.databaseFactory != nil {
		if err := c.databaseFactory.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}
