package photos

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
)

// SearchPhotosHandler 按关键词搜索上游照片
func (h *Handler) SearchPhotosHandler(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		common.RespondError(c, http.StatusBadRequest, "query parameter is required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "12"))

	result, err := h.upstream.SearchPhotos(c.Request.Context(), query, page, perPage)
	if err != nil {
		common.RespondError(c, http.StatusBadGateway, "photo source is unavailable")
		return
	}

	photos := make([]DisplayPhoto, len(result.Results))
	for i, p := range result.Results {
		photos[i] = fromUpstream(p)
	}

	common.RespondSuccess(c, gin.H{
		"photos":      photos,
		"total":       result.Total,
		"total_pages": result.TotalPages,
		"page":        page,
	})
}
