package cache

import (
	"fmt"
	"strings"
)

// KeyBuilder 缓存键构建器
type KeyBuilder struct {
	prefix string
	sep    string
}

// NewKeyBuilder 创建新的键构建器
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
		sep:    ":",
	}
}

// Build 构建缓存键
func (kb *KeyBuilder) Build(parts ...string) string {
	if len(parts) == 0 {
		return kb.prefix
	}
	return kb.prefix + kb.sep + strings.Join(parts, kb.sep)
}

// BuildID 构建带 ID 的缓存键
func (kb *KeyBuilder) BuildID(id interface{}) string {
	return fmt.Sprintf("%s%s%v", kb.prefix, kb.sep, id)
}

// 预定义的 KeyBuilder 实例
var (
	// CollectionList 用户合集列表视图缓存
	CollectionList = NewKeyBuilder("collection_list")

	// Collection 合集详情视图缓存
	Collection = NewKeyBuilder("collection")

	// Photo 单张照片详情视图缓存
	Photo = NewKeyBuilder("photo")

	// Unsplash 上游 API 响应缓存
	Unsplash = NewKeyBuilder("unsplash")
)
