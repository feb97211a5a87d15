package sweeper

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rehiko/picstash/database"
	"github.com/rehiko/picstash/database/models"
	"github.com/rehiko/picstash/database/repo/collections"
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

func setupSweeper(t *testing.T, batchSize int) (*Sweeper, *gorm.DB) {
	dsn := fmt.Sprintf("file:sweeper_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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
	return New(repo, batchSize, 0), db
}

func orphan(id string) *models.Image {
	return &models.Image{ID: id, Width: 1, Height: 1, URLRegular: "r", URLSmall: "s"}
}

func TestSweeper_RunOnce(t *testing.T) {
	s, db := setupSweeper(t, 500)

	require.NoError(t, db.Create(orphan("orphan-1")).Error)
	require.NoError(t, db.Create(orphan("orphan-2")).Error)

	deleted, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.Image{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestSweeper_RunOnce_Empty(t *testing.T) {
	s, _ := setupSweeper(t, 500)

	deleted, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestSweeper_RunOnce_BatchLimit(t *testing.T) {
	s, db := setupSweeper(t, 3)

	for i := 0; i < 10; i++ {
		require.NoError(t, db.Create(orphan(fmt.Sprintf("orphan-%d", i))).Error)
	}

	deleted, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)
}

func TestSweeper_StartStop_NoIntervalIsNoOp(t *testing.T) {
	s, _ := setupSweeper(t, 500)

	// interval 为 0 时 Start 不应启动循环，Stop 也不应阻塞
	s.Start()
	s.Stop()
}
