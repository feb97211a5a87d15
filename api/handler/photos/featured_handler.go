package photos

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/utils"
)

// featuredSection 首页的单个策展区块
type featuredSection struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	TotalPhotos int            `json:"total_photos"`
	Photos      []DisplayPhoto `json:"photos"`
}

// FeaturedHandler 获取首页的策展合集区块
// 单个上游合集获取失败只跳过该区块，不让整个首页失败
func (h *Handler) FeaturedHandler(c *gin.Context) {
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "12"))

	sections := make([]featuredSection, 0, len(h.featuredIDs))
	for _, id := range h.featuredIDs {
		meta, err := h.upstream.GetCollection(c.Request.Context(), id)
		if err != nil {
			utils.LogIfDevf("[photos] failed to load featured collection %s: %v", id, err)
			continue
		}

		photos, err := h.upstream.GetCollectionPhotos(c.Request.Context(), id, 1, perPage, "")
		if err != nil {
			utils.LogIfDevf("[photos] failed to load photos of featured collection %s: %v", id, err)
			continue
		}

		displays := make([]DisplayPhoto, len(photos))
		for i, p := range photos {
			displays[i] = fromUpstream(p)
		}

		sections = append(sections, featuredSection{
			ID:          meta.ID,
			Title:       meta.Title,
			Description: meta.Description,
			TotalPhotos: meta.TotalPhotos,
			Photos:      displays,
		})
	}

	common.RespondSuccess(c, gin.H{
		"sections": sections,
	})
}
