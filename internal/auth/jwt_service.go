package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTypeAccess 访问令牌
	TokenTypeAccess = "access"
	// TokenTypeRefresh 刷新令牌
	TokenTypeRefresh = "refresh"
)

// TokenPair 包含访问令牌和刷新令牌
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// JWTService JWT Token 服务
type JWTService struct {
	secret           []byte
	expiresIn        time.Duration
	refreshExpiresIn time.Duration
}

// NewJWTService 创建新的 JWT 服务
func NewJWTService(secret string, expiresIn, refreshExpiresIn time.Duration) (*JWTService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters long, got %d", len(secret))
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	if refreshExpiresIn <= 0 {
		refreshExpiresIn = 7 * 24 * time.Hour
	}

	return &JWTService{
		secret:           []byte(secret),
		expiresIn:        expiresIn,
		refreshExpiresIn: refreshExpiresIn,
	}, nil
}

// GenerateTokens 为用户生成访问令牌和刷新令牌
func (s *JWTService) GenerateTokens(username string, userID uint) (*TokenPair, error) {
	accessToken, accessExpiry, err := s.generateToken(username, userID, TokenTypeAccess, s.expiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiry, err := s.generateToken(username, userID, TokenTypeRefresh, s.refreshExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:        accessToken,
		AccessTokenExpiry:  accessExpiry,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: refreshExpiry,
	}, nil
}

func (s *JWTService) generateToken(username string, userID uint, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(ttl)

	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"type":     tokenType,
		"iat":      now.Unix(),
		"exp":      expiry.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseToken 解析并校验令牌，返回声明
func (s *JWTService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ParseAccessToken 解析访问令牌，返回用户 ID 与用户名
func (s *JWTService) ParseAccessToken(tokenString string) (uint, string, error) {
	return s.parseTypedToken(tokenString, TokenTypeAccess)
}

// ParseRefreshToken 解析刷新令牌，返回用户 ID 与用户名
func (s *JWTService) ParseRefreshToken(tokenString string) (uint, string, error) {
	return s.parseTypedToken(tokenString, TokenTypeRefresh)
}

func (s *JWTService) parseTypedToken(tokenString, wantType string) (uint, string, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return 0, "", err
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		return 0, "", fmt.Errorf("unexpected token type: %s", tokenType)
	}

	userIDValue, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", errors.New("user_id not found in token claims")
	}
	username, ok := claims["username"].(string)
	if !ok {
		return 0, "", errors.New("username not found in token claims")
	}

	return uint(userIDValue), username, nil
}
