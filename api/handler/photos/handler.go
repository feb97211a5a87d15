package photos

import (
	svcCollections "github.com/rehiko/picstash/internal/collections"
	"github.com/rehiko/picstash/internal/unsplash"
)

// Handler 照片处理器 - 聚合上游照片源与本地合集数据
type Handler struct {
	upstream    *unsplash.Client
	collections *svcCollections.Service
	featuredIDs []string
}

// NewHandler 创建新的照片处理器
// featuredIDs 为首页展示的上游策展合集 ID 列表
func NewHandler(upstream *unsplash.Client, collections *svcCollections.Service, featuredIDs []string) *Handler {
	return &Handler{
		upstream:    upstream,
		collections: collections,
		featuredIDs: featuredIDs,
	}
}
