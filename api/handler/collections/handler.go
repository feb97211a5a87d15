package collections

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rehiko/picstash/api/common"
	"github.com/rehiko/picstash/database/models"
	svcCollections "github.com/rehiko/picstash/internal/collections"
	repoCollections "github.com/rehiko/picstash/database/repo/collections"
)

// Handler 合集处理器
type Handler struct {
	svc *svcCollections.Service
}

// NewHandler 创建新的合集处理器
func NewHandler(svc *svcCollections.Service) *Handler {
	return &Handler{svc: svc}
}

// collectionView 合集的对外表示
type collectionView struct {
	ID         uint                          `json:"id"`
	Name       string                        `json:"name"`
	CreatedAt  time.Time                     `json:"created_at"`
	UpdatedAt  time.Time                     `json:"updated_at"`
	ImageCount int64                         `json:"image_count"`
	Previews   []repoCollections.PreviewImage `json:"previews"`
}

// imageView 图片的对外表示
type imageView struct {
	ID          string    `json:"id"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	URLRegular  string    `json:"url_regular"`
	URLSmall    string    `json:"url_small"`
	Description string    `json:"description"`
	AddedAt     time.Time `json:"added_at"`
}

func toCollectionView(info *svcCollections.CollectionInfo) collectionView {
	previews := info.Previews
	if previews == nil {
		previews = []repoCollections.PreviewImage{}
	}
	return collectionView{
		ID:         info.Collection.ID,
		Name:       info.Collection.Name,
		CreatedAt:  info.Collection.CreatedAt,
		UpdatedAt:  info.Collection.UpdatedAt,
		ImageCount: info.ImageCount,
		Previews:   previews,
	}
}

func toImageView(img *models.Image) imageView {
	return imageView{
		ID:          img.ID,
		Width:       img.Width,
		Height:      img.Height,
		URLRegular:  img.URLRegular,
		URLSmall:    img.URLSmall,
		Description: img.Description,
		AddedAt:     img.CreatedAt,
	}
}

// parseCollectionID 解析路径中的合集 ID
func parseCollectionID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		common.RespondError(c, http.StatusBadRequest, "Invalid collection ID format")
		return 0, false
	}
	return uint(id), true
}
