package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/internal/errs"
)

type Response struct {
	Status string      `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

func Respond(c *gin.Context, httpStatus int, status string, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Status: status,
		Msg:    message,
		Data:   data,
	})
}

// RespondSuccess sends a success response with data.
func RespondSuccess(c *gin.Context, data interface{}) {
	Respond(c, http.StatusOK, "success", "", data)
}

// RespondSuccessMessage sends a success response with message and data.
func RespondSuccessMessage(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, "success", message, data)
}

// RespondCreated sends a created response with data.
func RespondCreated(c *gin.Context, data interface{}) {
	Respond(c, http.StatusCreated, "success", "", data)
}

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	Respond(c, httpStatus, "error", message, nil)
}

// RespondErrorAbort sends an error response and aborts the handler chain.
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	RespondError(c, httpStatus, message)
	c.Abort()
}

// RespondDomainError 将领域错误映射到 HTTP 状态码
// 内部错误不向客户端泄漏细节
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrConflict):
		RespondError(c, http.StatusConflict, err.Error())
	default:
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
