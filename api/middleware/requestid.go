package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求 ID 响应头
	RequestIDHeader = "X-Request-ID"
	// ContextRequestIDKey 上下文中的请求 ID 键
	ContextRequestIDKey = "request_id"
)

// RequestID 为每个请求分配 ID，客户端提供时沿用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(ContextRequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
