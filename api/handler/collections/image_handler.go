package collections

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/api/middleware"
	svcCollections "github.com/rehiko/picstash/internal/collections"
)

// addImageRequest 加图请求，元数据由客户端随上游照片一并提交
type addImageRequest struct {
	ImageID     string `json:"image_id" binding:"required"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URLRegular  string `json:"url_regular" binding:"required"`
	URLSmall    string `json:"url_small"`
	Description string `json:"description"`
}

// AddImageHandler 向合集加入图片
func (h *Handler) AddImageHandler(c *gin.Context) {
	collectionID, ok := parseCollectionID(c)
	if !ok {
		return
	}
	userID := c.GetUint(middleware.ContextUserIDKey)

	var req addImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	meta := svcCollections.ImageMetadata{
		Width:       req.Width,
		Height:      req.Height,
		URLRegular:  req.URLRegular,
		URLSmall:    req.URLSmall,
		Description: req.Description,
	}

	if err := h.svc.AddImage(c.Request.Context(), userID, collectionID, req.ImageID, meta); err != nil {
		common.RespondDomainError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Image added to collection successfully", gin.H{
		"collection_id": collectionID,
		"image_id":      req.ImageID,
	})
}

// RemoveImageHandler 从合集移除图片
func (h *Handler) RemoveImageHandler(c *gin.Context) {
	collectionID, ok := parseCollectionID(c)
	if !ok {
		return
	}
	imageID := c.Param("imageId")
	if imageID == "" {
		common.RespondError(c, http.StatusBadRequest, "Invalid image ID format")
		return
	}
	userID := c.GetUint(middleware.ContextUserIDKey)

	if err := h.svc.RemoveImage(c.Request.Context(), userID, collectionID, imageID); err != nil {
		common.RespondDomainError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Image removed from collection successfully", nil)
}
