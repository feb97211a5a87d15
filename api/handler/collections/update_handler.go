package collections

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/api/middleware"
)

type updateCollectionRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCollectionHandler 重命名合集
// 新名称与当前名称相同为幂等空操作，同样返回成功
func (h *Handler) UpdateCollectionHandler(c *gin.Context) {
	collectionID, ok := parseCollectionID(c)
	if !ok {
		return
	}
	userID := c.GetUint(middleware.ContextUserIDKey)

	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Rename(c.Request.Context(), userID, collectionID, req.Name); err != nil {
		common.RespondDomainError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Collection updated successfully", nil)
}
