package core

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/cache"
	"github.com/rehiko/picstash/config"
	"github.com/rehiko/picstash/database"
)

var startTime = time.Now()

// HealthHandler 健康检查处理器
type HealthHandler struct {
	db            database.Provider
	cacheProvider cache.Provider
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db database.Provider, cacheProvider cache.Provider) *HealthHandler {
	return &HealthHandler{db: db, cacheProvider: cacheProvider}
}

// Handle 健康检查，任一依赖不可用时返回 503
func (h *HealthHandler) Handle(c *gin.Context) {
	checks := gin.H{
		"database": h.checkDatabase(c.Request.Context()),
		"cache":    h.checkCache(c.Request.Context()),
	}

	httpStatus := http.StatusOK
	for _, result := range checks {
		if result != "ok" {
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":  statusText(httpStatus),
		"uptime":  time.Since(startTime).Round(time.Second).String(),
		"version": config.Version,
		"checks":  checks,
	})
}

func statusText(httpStatus int) string {
	if httpStatus == http.StatusOK {
		return "ok"
	}
	return "degraded"
}

func (h *HealthHandler) checkDatabase(ctx context.Context) string {
	if h.db == nil {
		return "not configured"
	}
	if err := h.db.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func (h *HealthHandler) checkCache(ctx context.Context) string {
	if h.cacheProvider == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := h.cacheProvider.Exists(ctx, "health_check"); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}
