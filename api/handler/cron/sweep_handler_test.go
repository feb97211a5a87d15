package cron

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rehiko/picstash/database"
	"github.com/rehiko/picstash/database/models"
	"github.com/rehiko/picstash/database/repo/collections"
	"github.com/rehiko/picstash/internal/sweeper"
)

var testDBSeq int64

type testProvider struct {
	db *gorm.DB
}

func (p *testProvider) DB() *gorm.DB                             { return p.db }
func (p *testProvider) WithContext(ctx context.Context) *gorm.DB { return p.db.WithContext(ctx) }
func (p *testProvider) Transaction(fn database.TxFunc) error     { return p.db.Transaction(fn) }
func (p *testProvider) TransactionWithContext(ctx context.Context, fn database.TxFunc) error {
	return p.db.WithContext(ctx).Transaction(fn)
}
func (p *testProvider) AutoMigrate(models ...interface{}) error { return p.db.AutoMigrate(models...) }
func (p *testProvider) SQLDB() (*sql.DB, error)                 { return p.db.DB() }
func (p *testProvider) Ping() error                             { return nil }
func (p *testProvider) Close() error                            { return nil }
func (p *testProvider) Name() string                            { return "sqlite" }

func setupHandler(t *testing.T, secret string) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:cron_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.SetupJoinTable(&models.Collection{}, "Images", &models.CollectionImage{}))
	require.NoError(t, db.SetupJoinTable(&models.Image{}, "Collections", &models.CollectionImage{}))
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Collection{}, &models.Image{}, &models.CollectionImage{}))

	repo := collections.NewRepository(&testProvider{db: db})
	handler := NewHandler(sweeper.New(repo, 500, 0), secret)

	router := gin.New()
	router.GET("/api/cron/sweep-orphans", handler.SweepOrphansHandler)
	return router, db
}

func doSweep(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/cron/sweep-orphans", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSweepOrphansHandler_Success(t *testing.T) {
	router, db := setupHandler(t, "cron-secret")

	require.NoError(t, db.Create(&models.Image{ID: "orphan", Width: 1, Height: 1, URLRegular: "r", URLSmall: "s"}).Error)

	w := doSweep(router, "Bearer cron-secret")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["deletedCount"])
}

func TestSweepOrphansHandler_Unauthorized(t *testing.T) {
	router, _ := setupHandler(t, "cron-secret")

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "missing header", authHeader: ""},
		{name: "wrong secret", authHeader: "Bearer wrong"},
		{name: "wrong scheme", authHeader: "Basic cron-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doSweep(router, tt.authHeader)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Unauthorized", body["error"])
		})
	}
}

func TestSweepOrphansHandler_EmptySecretAlwaysRejects(t *testing.T) {
	router, _ := setupHandler(t, "")

	w := doSweep(router, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
