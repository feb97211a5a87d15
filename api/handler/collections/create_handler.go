package collections

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/api/middleware"
)

type createCollectionRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCollectionHandler 创建合集
func (h *Handler) CreateCollectionHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	col, err := h.svc.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	common.RespondCreated(c, gin.H{
		"id":         col.ID,
		"name":       col.Name,
		"created_at": col.CreatedAt,
	})
}
