package cron

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/internal/sweeper"
)

// Handler 计划任务处理器 - 供外部调度器按 Bearer 密钥触发
type Handler struct {
	sweeper *sweeper.Sweeper
	secret  string
}

// NewHandler 创建新的计划任务处理器
func NewHandler(s *sweeper.Sweeper, secret string) *Handler {
	return &Handler{sweeper: s, secret: secret}
}

// SweepOrphansHandler 触发一轮孤儿图片清理
// 这条路由不走用户认证，只认共享密钥
func (h *Handler) SweepOrphansHandler(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	deleted, err := h.sweeper.RunOnce(c.Request.Context())
	if err != nil {
		log.Printf("[cron] orphan sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to sweep orphaned images",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"deletedCount": deleted,
	})
}

func (h *Handler) authorized(c *gin.Context) bool {
	if h.secret == "" {
		return false
	}
	authHeader := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}
