package collections

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rehiko/picstash/api/common"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// --- 测试请求 DTO 绑定 ---

// TestCreateCollectionRequest_Binding 测试创建合集请求绑定
func TestCreateCollectionRequest_Binding(t *testing.T) {
	router := setupTestRouter(t)
	router.POST("/test", func(c *gin.Context) {
		var req createCollectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondSuccess(c, req)
	})

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:       "valid request",
			body:       map[string]interface{}{"name": "Summer Trip"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing name",
			body:       map[string]interface{}{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "name wrong type",
			body:       map[string]interface{}{"name": 42},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(jsonBody))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestAddImageRequest_Binding 测试加图请求绑定
func TestAddImageRequest_Binding(t *testing.T) {
	router := setupTestRouter(t)
	router.POST("/test", func(c *gin.Context) {
		var req addImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondSuccess(c, req)
	})

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid request",
			body: map[string]interface{}{
				"image_id":    "abc123",
				"width":       1920,
				"height":      1080,
				"url_regular": "https://img/r",
				"url_small":   "https://img/s",
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing image_id",
			body: map[string]interface{}{
				"url_regular": "https://img/r",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing url_regular",
			body: map[string]interface{}{
				"image_id": "abc123",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "dimensions are optional",
			body: map[string]interface{}{
				"image_id":    "abc123",
				"url_regular": "https://img/r",
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBuffer(jsonBody))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestParseCollectionID 测试路径参数解析
func TestParseCollectionID(t *testing.T) {
	router := setupTestRouter(t)
	router.GET("/test/:id", func(c *gin.Context) {
		id, ok := parseCollectionID(c)
		if !ok {
			return
		}
		common.RespondSuccess(c, gin.H{"id": id})
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "numeric id", path: "/test/42", wantStatus: http.StatusOK},
		{name: "zero id", path: "/test/0", wantStatus: http.StatusBadRequest},
		{name: "negative id", path: "/test/-1", wantStatus: http.StatusBadRequest},
		{name: "non numeric id", path: "/test/abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
