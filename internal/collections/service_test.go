package collections

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rehiko/picstash/database"
	"github.com/rehiko/picstash/database/models"
	repoCollections "github.com/rehiko/picstash/database/repo/collections"
	repoImages "github.com/rehiko/picstash/database/repo/images"
	"github.com/rehiko/picstash/internal/errs"
)

var testDBSeq int64

type testProvider struct {
	db *gorm.DB
}

func (p *testProvider) DB() *gorm.DB                     { return p.db }
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

func setupService(t *testing.T) (*Service, *gorm.DB) {
	dsn := fmt.Sprintf("file:collections_svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.SetupJoinTable(&models.Collection{}, "Images", &models.CollectionImage{}))
	require.NoError(t, db.SetupJoinTable(&models.Image{}, "Collections", &models.CollectionImage{}))
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Collection{}, &models.Image{}, &models.CollectionImage{}))

	provider := &testProvider{db: db}
	svc := NewService(repoCollections.NewRepository(provider), repoImages.NewRepository(provider), nil)
	return svc, db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{Username: username, Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// --- 名称校验 ---

func TestService_Create_TrimsName(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")

	col, err := svc.Create(context.Background(), user.ID, "  Sunsets  ")
	require.NoError(t, err)
	assert.Equal(t, "Sunsets", col.Name)
}

func TestService_Create_RejectsEmptyName(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")

	tests := []string{"", "   ", "\t\n"}
	for _, name := range tests {
		_, err := svc.Create(context.Background(), user.ID, name)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	}
}

func TestService_Create_RejectsOverlongName(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")

	_, err := svc.Create(context.Background(), user.ID, strings.Repeat("a", 101))
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	// 恰好 100 个字符合法
	_, err = svc.Create(context.Background(), user.ID, strings.Repeat("b", 100))
	assert.NoError(t, err)
}

func TestService_Create_NameLengthCountsRunes(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")

	// 100 个多字节字符，字节数超过 100 但字符数不超
	_, err := svc.Create(context.Background(), user.ID, strings.Repeat("照", 100))
	assert.NoError(t, err)
}

func TestService_Create_Unauthenticated(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Create(context.Background(), 0, "Sunsets")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestService_Create_Conflict(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")

	_, err := svc.Create(context.Background(), user.ID, "Sunsets")
	require.NoError(t, err)

	// 去除空白后与已有名称相同
	_, err = svc.Create(context.Background(), user.ID, " Sunsets ")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

// --- Rename ---

func TestService_Rename_ValidatesName(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")
	col, err := svc.Create(context.Background(), user.ID, "Old")
	require.NoError(t, err)

	err = svc.Rename(context.Background(), user.ID, col.ID, "   ")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestService_Rename_SameNameSucceeds(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")
	col, err := svc.Create(context.Background(), user.ID, "Keep")
	require.NoError(t, err)

	assert.NoError(t, svc.Rename(context.Background(), user.ID, col.ID, "Keep"))
}

// --- AddImage / RemoveImage ---

func TestService_AddImage_RejectsEmptyImageID(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")
	col, err := svc.Create(context.Background(), user.ID, "Sunsets")
	require.NoError(t, err)

	err = svc.AddImage(context.Background(), user.ID, col.ID, "  ", ImageMetadata{})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestService_AddRemoveImage_Lifecycle(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "alice")
	col, err := svc.Create(context.Background(), user.ID, "Sunsets")
	require.NoError(t, err)

	meta := ImageMetadata{Width: 1920, Height: 1080, URLRegular: "https://example.com/r", URLSmall: "https://example.com/s"}
	require.NoError(t, svc.AddImage(context.Background(), user.ID, col.ID, "photo-1", meta))

	// 重复加入
	err = svc.AddImage(context.Background(), user.ID, col.ID, "photo-1", meta)
	assert.ErrorIs(t, err, errs.ErrConflict)

	img, err := svc.GetImage(context.Background(), "photo-1")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, 1920, img.Width)

	require.NoError(t, svc.RemoveImage(context.Background(), user.ID, col.ID, "photo-1"))

	// 最后一条引用删除后图片行被回收
	img, err = svc.GetImage(context.Background(), "photo-1")
	require.NoError(t, err)
	assert.Nil(t, img)
}

// --- 匿名读路径 ---

func TestService_AnonymousReadsReturnEmpty(t *testing.T) {
	svc, _ := setupService(t)

	infos, err := svc.ListCollectionsForImage(context.Background(), 0, "photo-1")
	require.NoError(t, err)
	assert.Empty(t, infos)

	cols, err := svc.ListAvailableCollectionsForImage(context.Background(), 0, "photo-1", "")
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestService_ListMyCollections_Unauthenticated(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.ListMyCollections(context.Background(), 0)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}
