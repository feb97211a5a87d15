package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/config"
	svcAuth "github.com/rehiko/picstash/internal/auth"
	"github.com/rehiko/picstash/utils"
)

const refreshCookieName = "refresh_token"
const refreshCookiePath = "/api/auth/"

// Handler 认证处理器
type Handler struct {
	loginService *svcAuth.LoginService
}

// NewHandler 创建新的认证处理器
func NewHandler(loginService *svcAuth.LoginService) *Handler {
	return &Handler{loginService: loginService}
}

type userAuthRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginResponse struct {
	AccessToken       string `json:"access_token"`
	AccessTokenExpiry int64  `json:"access_token_expiry"`
	Username          string `json:"username"`
}

// RegisterHandlerFunc user registration
func (h *Handler) RegisterHandlerFunc(c *gin.Context) {
	var req userAuthRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.loginService.Register(req.Username, req.Password)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	utils.LogIfDevf("user %s registered", utils.SanitizeLogUsername(user.Username))
	common.RespondCreated(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

// LoginHandlerFunc user login
func (h *Handler) LoginHandlerFunc(c *gin.Context) {
	var req userAuthRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.loginService.Login(req.Username, req.Password)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	// refresh token 走 HttpOnly Cookie，不出现在响应体里
	maxAge := int(time.Until(result.Tokens.RefreshTokenExpiry).Seconds())
	setRefreshCookie(c, result.Tokens.RefreshToken, maxAge)

	common.RespondSuccessMessage(c, "Login successful", loginResponse{
		AccessToken:       "Bearer " + result.Tokens.AccessToken,
		AccessTokenExpiry: result.Tokens.AccessTokenExpiry.Unix(),
		Username:          result.User.Username,
	})
}

// RefreshTokenHandlerFunc Refresh token authentication
func (h *Handler) RefreshTokenHandlerFunc(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	tokens, err := h.loginService.Refresh(refreshToken)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	maxAge := int(time.Until(tokens.RefreshTokenExpiry).Seconds())
	setRefreshCookie(c, tokens.RefreshToken, maxAge)

	common.RespondSuccessMessage(c, "Refresh token successful", loginResponse{
		AccessToken:       "Bearer " + tokens.AccessToken,
		AccessTokenExpiry: tokens.AccessTokenExpiry.Unix(),
	})
}

// LogoutHandlerFunc user logout
func (h *Handler) LogoutHandlerFunc(c *gin.Context) {
	clearRefreshCookie(c)
	common.RespondSuccessMessage(c, "Logout successful", nil)
}

// setRefreshCookie 设置 refresh_token cookie
func setRefreshCookie(c *gin.Context, refreshToken string, maxAge int) {
	cookie := http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		MaxAge:   maxAge,
		Path:     refreshCookiePath,
		Secure:   config.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(c.Writer, &cookie)
}

// clearRefreshCookie 将 MaxAge 设置为 -1 来让浏览器删除 Cookie
func clearRefreshCookie(c *gin.Context) {
	cfg := config.Get()
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, cfg.ServerDomain, false, true)
}
