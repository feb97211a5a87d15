package photos

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/api/middleware"
	"github.com/rehiko/picstash/utils"
)

// collectionRef 照片详情中的合集引用
type collectionRef struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ImageCount int64  `json:"image_count"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// GetPhotoHandler 获取照片详情
// 优先回源上游，上游不可用时回退到本地已保存的图片行；
// 已认证的调用者额外得到包含这张照片的自有合集列表
func (h *Handler) GetPhotoHandler(c *gin.Context) {
	photoID := c.Param("id")
	if photoID == "" {
		common.RespondError(c, http.StatusBadRequest, "Invalid photo ID format")
		return
	}
	userID := middleware.CurrentUserID(c)

	var display DisplayPhoto
	photo, err := h.upstream.GetPhoto(c.Request.Context(), photoID)
	if err == nil {
		display = fromUpstream(photo)
	} else {
		utils.LogIfDevf("[photos] upstream lookup failed for %s, falling back to saved copy: %v", photoID, err)
		saved, dbErr := h.collections.GetImage(c.Request.Context(), photoID)
		if dbErr != nil {
			common.RespondDomainError(c, dbErr)
			return
		}
		if saved == nil {
			common.RespondError(c, http.StatusNotFound, "Photo not found")
			return
		}
		display = fromSaved(saved)
	}

	// 匿名调用者得到空合集列表而不是错误
	infos, err := h.collections.ListCollectionsForImage(c.Request.Context(), userID, photoID)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	refs := make([]collectionRef, len(infos))
	for i, info := range infos {
		ref := collectionRef{
			ID:         info.Collection.ID,
			Name:       info.Collection.Name,
			ImageCount: info.ImageCount,
		}
		if len(info.Previews) > 0 {
			ref.PreviewURL = info.Previews[0].URLSmall
		}
		refs[i] = ref
	}

	common.RespondSuccess(c, gin.H{
		"photo":          display,
		"in_collections": refs,
	})
}
