package auth

import (
	"fmt"

	"github.com/rehiko/picstash/database/models"
	"github.com/rehiko/picstash/database/repo/accounts"
	"github.com/rehiko/picstash/internal/errs"
	cryptopackage "github.com/rehiko/picstash/utils/crypto"
)

// LoginResult 登录结果
type LoginResult struct {
	User   *models.User
	Tokens *TokenPair
}

// LoginService 登录服务
type LoginService struct {
	accountsRepo *accounts.Repository
	jwtService   *JWTService
}

// NewLoginService 创建新的登录服务
func NewLoginService(accountsRepo *accounts.Repository, jwtService *JWTService) *LoginService {
	return &LoginService{
		accountsRepo: accountsRepo,
		jwtService:   jwtService,
	}
}

// Register 注册新用户
func (s *LoginService) Register(username, password string) (*models.User, error) {
	existing, err := s.accountsRepo.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, errs.WithMessage(errs.ErrConflict, "username already taken")
	}

	hash, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: hash,
	}
	if err := s.accountsRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ValidateCredentials 验证用户凭据
func (s *LoginService) ValidateCredentials(username, password string) (*models.User, bool, error) {
	user, err := s.accountsRepo.GetUserByUsername(username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, false, nil
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, false, fmt.Errorf("password comparison failed: %w", err)
	}
	return user, ok, nil
}

// Login 执行登录操作
func (s *LoginService) Login(username, password string) (*LoginResult, error) {
	user, valid, err := s.ValidateCredentials(username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to validate credentials: %w", err)
	}
	if !valid {
		return nil, errs.WithMessage(errs.ErrUnauthenticated, "invalid credentials")
	}

	tokens, err := s.jwtService.GenerateTokens(user.Username, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &LoginResult{User: user, Tokens: tokens}, nil
}

// Refresh 用刷新令牌换取新的令牌对
func (s *LoginService) Refresh(refreshToken string) (*TokenPair, error) {
	userID, _, err := s.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, errs.WithMessage(errs.ErrUnauthenticated, "invalid refresh token")
	}

	user, err := s.accountsRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errs.WithMessage(errs.ErrUnauthenticated, "user not found")
	}

	tokens, err := s.jwtService.GenerateTokens(user.Username, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, nil
}
