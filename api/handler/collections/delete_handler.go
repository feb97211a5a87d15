package collections

import (
	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/api/middleware"
)

// DeleteCollectionHandler 删除合集
// 级联删除全部图片关联，失去最后引用的图片随之回收
func (h *Handler) DeleteCollectionHandler(c *gin.Context) {
	collectionID, ok := parseCollectionID(c)
	if !ok {
		return
	}
	userID := c.GetUint(middleware.ContextUserIDKey)

	if err := h.svc.Delete(c.Request.Context(), userID, collectionID); err != nil {
		common.RespondDomainError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Collection deleted successfully", nil)
}
