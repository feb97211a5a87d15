package auth

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rehiko/picstash/database"
	"github.com/rehiko/picstash/database/models"
	"github.com/rehiko/picstash/database/repo/accounts"
	"github.com/rehiko/picstash/internal/errs"
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

func setupLoginService(t *testing.T) *LoginService {
	dsn := fmt.Sprintf("file:login_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}))

	jwtService, err := NewJWTService("0123456789abcdef0123456789abcdef", 15*time.Minute, time.Hour)
	require.NoError(t, err)

	return NewLoginService(accounts.NewRepository(&testProvider{db: db}), jwtService)
}

func TestLoginService_RegisterAndLogin(t *testing.T) {
	svc := setupLoginService(t)

	user, err := svc.Register("alice", "correct horse battery staple")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct horse battery staple", user.Password)

	result, err := svc.Login("alice", "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestLoginService_Register_DuplicateUsername(t *testing.T) {
	svc := setupLoginService(t)

	_, err := svc.Register("alice", "password-one")
	require.NoError(t, err)

	_, err = svc.Register("alice", "password-two")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestLoginService_Login_InvalidCredentials(t *testing.T) {
	svc := setupLoginService(t)

	_, err := svc.Register("alice", "the right password")
	require.NoError(t, err)

	_, err = svc.Login("alice", "the wrong password")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = svc.Login("nobody", "whatever password")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestLoginService_Refresh(t *testing.T) {
	svc := setupLoginService(t)

	_, err := svc.Register("alice", "correct horse battery staple")
	require.NoError(t, err)

	result, err := svc.Login("alice", "correct horse battery staple")
	require.NoError(t, err)

	tokens, err := svc.Refresh(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	// 访问令牌不能用来刷新
	_, err = svc.Refresh(result.Tokens.AccessToken)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}
