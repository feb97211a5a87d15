package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/internal/auth"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// JWTAuth 校验 Bearer 访问令牌并将用户身份写入请求上下文
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespondError(c, http.StatusUnauthorized, "No Authorization request header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.RespondError(c, http.StatusUnauthorized, "Authorization field format error")
			c.Abort()
			return
		}

		userID, username, err := jwtService.ParseAccessToken(parts[1])
		if err != nil {
			common.RespondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextUsernameKey, username)
		c.Next()
	}
}

// OptionalJWTAuth 尽力解析身份但不拒绝匿名请求
// 用于匿名可读、登录后附带个性化数据的照片读路径
func OptionalJWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				if userID, username, err := jwtService.ParseAccessToken(parts[1]); err == nil {
					c.Set(ContextUserIDKey, userID)
					c.Set(ContextUsernameKey, username)
				}
			}
		}
		c.Next()
	}
}

// CurrentUserID 读取上下文中的用户 ID，匿名请求返回 0
func CurrentUserID(c *gin.Context) uint {
	val, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0
	}
	userID, ok := val.(uint)
	if !ok {
		return 0
	}
	return userID
}
