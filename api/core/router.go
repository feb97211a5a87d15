package core

import (
	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	handlerAuth "github.com/rehiko/picstash/api/handler/auth"
	handlerCollections "github.com/rehiko/picstash/api/handler/collections"
	handlerCron "github.com/rehiko/picstash/api/handler/cron"
	handlerPhotos "github.com/rehiko/picstash/api/handler/photos"
	"github.com/rehiko/picstash/api/middleware"
	"github.com/rehiko/picstash/cache"
	"github.com/rehiko/picstash/config"
	"github.com/rehiko/picstash/database"
	svcAuth "github.com/rehiko/picstash/internal/auth"
	svcCollections "github.com/rehiko/picstash/internal/collections"
	"github.com/rehiko/picstash/internal/sweeper"
	"github.com/rehiko/picstash/internal/unsplash"
)

// RouterDependencies 路由注册依赖
type RouterDependencies struct {
	Config             *config.Config
	DBProvider         database.Provider
	CacheProvider      cache.Provider
	JWTService         *svcAuth.JWTService
	LoginService       *svcAuth.LoginService
	CollectionsService *svcCollections.Service
	UnsplashClient     *unsplash.Client
	Sweeper            *sweeper.Sweeper
	AuthRateLimiter    *middleware.IPRateLimiter
	APIRateLimiter     *middleware.IPRateLimiter
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps *RouterDependencies) {
	registerBasicRoutes(router, deps)
	registerAPIRoutes(router, deps)
}

// registerBasicRoutes 注册基础路由
func registerBasicRoutes(router *gin.Engine, deps *RouterDependencies) {
	healthHandler := NewHealthHandler(deps.DBProvider, deps.CacheProvider)
	router.GET("/health", healthHandler.Handle)

	router.GET("/version", func(c *gin.Context) {
		common.RespondSuccess(c, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
}

// registerAPIRoutes 注册 API 路由
func registerAPIRoutes(router *gin.Engine, deps *RouterDependencies) {
	loginHandler := handlerAuth.NewHandler(deps.LoginService)
	collectionHandler := handlerCollections.NewHandler(deps.CollectionsService)
	photoHandler := handlerPhotos.NewHandler(deps.UnsplashClient, deps.CollectionsService, deps.Config.FeaturedCollections)
	cronHandler := handlerCron.NewHandler(deps.Sweeper, deps.Config.SweepSecret)

	apiGroup := router.Group("/api")
	apiGroup.Use(func(c *gin.Context) { // 所有API禁止缓存
		c.Header("Cache-Control", "no-store")
		c.Next()
	})
	{
		// 认证路由
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(deps.AuthRateLimiter.Middleware())
		{
			authGroup.POST("/register", loginHandler.RegisterHandlerFunc) // POST /api/auth/register
			authGroup.POST("/login", loginHandler.LoginHandlerFunc)       // POST /api/auth/login
			authGroup.POST("/refresh", loginHandler.RefreshTokenHandlerFunc)
			authGroup.POST("/logout", loginHandler.LogoutHandlerFunc)
		}

		// 计划任务路由，走独立的共享密钥认证
		cronGroup := apiGroup.Group("/cron")
		{
			cronGroup.GET("/sweep-orphans", cronHandler.SweepOrphansHandler) // GET /api/cron/sweep-orphans
		}

		v1 := apiGroup.Group("/v1")
		v1.Use(deps.APIRateLimiter.Middleware())
		{
			// 合集管理，全部要求认证
			collectionsGroup := v1.Group("/collections")
			collectionsGroup.Use(middleware.JWTAuth(deps.JWTService))
			{
				collectionsGroup.GET("", collectionHandler.ListCollectionsHandler)      // GET /api/v1/collections
				collectionsGroup.POST("", collectionHandler.CreateCollectionHandler)    // POST /api/v1/collections
				collectionsGroup.GET("/:id", collectionHandler.GetCollectionHandler)    // GET /api/v1/collections/{id}
				collectionsGroup.PUT("/:id", collectionHandler.UpdateCollectionHandler) // PUT /api/v1/collections/{id}
				collectionsGroup.DELETE("/:id", collectionHandler.DeleteCollectionHandler)

				// 合集图片管理
				collectionsGroup.GET("/:id/images", collectionHandler.ListCollectionImagesHandler)      // GET /api/v1/collections/{id}/images
				collectionsGroup.POST("/:id/images", collectionHandler.AddImageHandler)                 // POST /api/v1/collections/{id}/images
				collectionsGroup.DELETE("/:id/images/:imageId", collectionHandler.RemoveImageHandler)   // DELETE /api/v1/collections/{id}/images/{imageId}
			}

			// 照片浏览，匿名可读，带身份时附带个性化数据
			photosGroup := v1.Group("/photos")
			photosGroup.Use(middleware.OptionalJWTAuth(deps.JWTService))
			{
				photosGroup.GET("/search", photoHandler.SearchPhotosHandler) // GET /api/v1/photos/search
				photosGroup.GET("/featured", photoHandler.FeaturedHandler)   // GET /api/v1/photos/featured
				photosGroup.GET("/:id", photoHandler.GetPhotoHandler)        // GET /api/v1/photos/{id}
				photosGroup.GET("/:id/collections/available", photoHandler.ListAvailableCollectionsHandler)
			}
		}
	}
}
