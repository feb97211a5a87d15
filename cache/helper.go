package cache

import (
	"context"
	"time"
)

// Helper 视图缓存辅助 - 变更操作提交成功后通过它作废依赖视图
// 具体失效机制就是删除对应缓存键，读路径未命中时回源重建
type Helper struct {
	provider Provider
}

// NewHelper 创建新的缓存辅助
func NewHelper(provider Provider) *Helper {
	return &Helper{provider: provider}
}

// SetJSON 缓存任意可序列化对象
func (h *Helper) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if h.provider == nil {
		return nil
	}
	return h.provider.Set(ctx, key, value, ttl)
}

// GetJSON 读取缓存对象，未命中返回 false
func (h *Helper) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if h.provider == nil {
		return false, nil
	}
	err := h.provider.Get(ctx, key, dest)
	if err != nil {
		if IsCacheMiss(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// InvalidateCollectionList 作废用户的合集列表视图
func (h *Helper) InvalidateCollectionList(ctx context.Context, userID uint) error {
	if h.provider == nil {
		return nil
	}
	return h.provider.Delete(ctx, CollectionList.BuildID(userID))
}

// InvalidateCollection 作废合集详情视图
func (h *Helper) InvalidateCollection(ctx context.Context, collectionID uint) error {
	if h.provider == nil {
		return nil
	}
	return h.provider.Delete(ctx, Collection.BuildID(collectionID))
}

// InvalidatePhoto 作废单张照片详情视图
func (h *Helper) InvalidatePhoto(ctx context.Context, imageID string) error {
	if h.provider == nil {
		return nil
	}
	return h.provider.Delete(ctx, Photo.BuildID(imageID))
}
