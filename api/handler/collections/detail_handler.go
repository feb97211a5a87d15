package collections

import (
	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/api/middleware"
)

// GetCollectionHandler 获取合集详情及其全部图片
func (h *Handler) GetCollectionHandler(c *gin.Context) {
	collectionID, ok := parseCollectionID(c)
	if !ok {
		return
	}
	userID := c.GetUint(middleware.ContextUserIDKey)

	col, err := h.svc.GetCollection(c.Request.Context(), userID, collectionID)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	images, err := h.svc.ListImagesInCollection(c.Request.Context(), userID, collectionID)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	views := make([]imageView, len(images))
	for i, img := range images {
		views[i] = toImageView(img)
	}

	common.RespondSuccess(c, gin.H{
		"id":          col.ID,
		"name":        col.Name,
		"created_at":  col.CreatedAt,
		"updated_at":  col.UpdatedAt,
		"images":      views,
		"image_count": len(views),
	})
}

// ListCollectionImagesHandler 获取合集内全部图片
func (h *Handler) ListCollectionImagesHandler(c *gin.Context) {
	collectionID, ok := parseCollectionID(c)
	if !ok {
		return
	}
	userID := c.GetUint(middleware.ContextUserIDKey)

	images, err := h.svc.ListImagesInCollection(c.Request.Context(), userID, collectionID)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	views := make([]imageView, len(images))
	for i, img := range images {
		views[i] = toImageView(img)
	}

	common.RespondSuccess(c, gin.H{
		"images": views,
		"total":  len(views),
	})
}
