package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestJWTService(t *testing.T) *JWTService {
	svc, err := NewJWTService(testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	_, err := NewJWTService("too-short", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestJWTService_GenerateAndParseTokens(t *testing.T) {
	svc := newTestJWTService(t)

	pair, err := svc.GenerateTokens("alice", 42)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	userID, username, err := svc.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
	assert.Equal(t, "alice", username)

	userID, username, err = svc.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
	assert.Equal(t, "alice", username)
}

func TestJWTService_RejectsWrongTokenType(t *testing.T) {
	svc := newTestJWTService(t)

	pair, err := svc.GenerateTokens("alice", 42)
	require.NoError(t, err)

	// 刷新令牌不能当访问令牌用，反之亦然
	_, _, err = svc.ParseAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, _, err = svc.ParseRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsForeignToken(t *testing.T) {
	svc := newTestJWTService(t)
	other, err := NewJWTService("ffffffffffffffffffffffffffffffff", time.Minute, time.Hour)
	require.NoError(t, err)

	pair, err := other.GenerateTokens("alice", 42)
	require.NoError(t, err)

	_, _, err = svc.ParseAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc, err := NewJWTService(testSecret, -time.Minute, -time.Minute)
	require.NoError(t, err)

	// 负的有效期会被修正为默认值，手动构造过期令牌验证解析
	expired, _, err := svc.generateToken("alice", 42, TokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	_, _, err = svc.ParseAccessToken(expired)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestJWTService(t)

	_, _, err := svc.ParseAccessToken("not.a.token")
	assert.Error(t, err)
}
