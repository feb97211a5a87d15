package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/internal/auth"
)

func newTestJWTService(t *testing.T) *auth.JWTService {
	svc, err := auth.NewJWTService("0123456789abcdef0123456789abcdef", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return svc
}

func accessToken(t *testing.T, svc *auth.JWTService) string {
	pair, err := svc.GenerateTokens("alice", 42)
	require.NoError(t, err)
	return pair.AccessToken
}

func setupAuthRouter(t *testing.T, svc *auth.JWTService, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mw := JWTAuth(svc)
	if optional {
		mw = OptionalJWTAuth(svc)
	}

	router.GET("/test", mw, func(c *gin.Context) {
		common.RespondSuccess(c, gin.H{"user_id": CurrentUserID(c)})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWTService(t)
	router := setupAuthRouter(t, svc, false)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + accessToken(t, svc), wantStatus: http.StatusOK},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "ApiKey xyz", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", authHeader: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.authHeader)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestJWTAuth_RejectsRefreshToken(t *testing.T) {
	svc := newTestJWTService(t)
	router := setupAuthRouter(t, svc, false)

	pair, err := svc.GenerateTokens("alice", 42)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWTService(t)
	router := setupAuthRouter(t, svc, true)

	// 匿名请求放行，身份为 0
	w := doRequest(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)

	// 无效令牌同样放行为匿名
	w = doRequest(router, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)

	// 有效令牌附带身份
	w = doRequest(router, "Bearer "+accessToken(t, svc))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}
