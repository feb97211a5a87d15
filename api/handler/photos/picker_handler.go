package photos

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/api/middleware"
)

// pickerCollection "加入合集"选择器中的条目
type pickerCollection struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListAvailableCollectionsHandler 获取尚未包含这张照片的自有合集
// 支持 name 参数做不区分大小写的子串过滤，结果按名称升序
func (h *Handler) ListAvailableCollectionsHandler(c *gin.Context) {
	photoID := c.Param("id")
	if photoID == "" {
		common.RespondError(c, http.StatusBadRequest, "Invalid photo ID format")
		return
	}
	userID := middleware.CurrentUserID(c)
	nameFilter := c.Query("name")

	cols, err := h.collections.ListAvailableCollectionsForImage(c.Request.Context(), userID, photoID, nameFilter)
	if err != nil {
		common.RespondDomainError(c, err)
		return
	}

	views := make([]pickerCollection, len(cols))
	for i, col := range cols {
		views[i] = pickerCollection{
			ID:        col.ID,
			Name:      col.Name,
			CreatedAt: col.CreatedAt,
		}
	}

	common.RespondSuccess(c, gin.H{
		"collections": views,
		"total":       len(views),
	})
}
