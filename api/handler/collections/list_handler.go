package collections

import (
	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/api/middleware"
)

// ListCollectionsHandler 获取当前用户的全部合集，按创建时间倒序
func (h *Handler) ListCollectionsHandler(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	infos, err := h.svc.ListMyCollections(c.Request.Context(), userID)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	views := make([]collectionView, len(infos))
	for i, info := range infos {
		views[i] = toCollectionView(info)
	}

	common.RespondSuccess(c, gin.H{
		"collections": views,
		"total":       len(views),
	})
}
