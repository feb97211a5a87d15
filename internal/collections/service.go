package collections

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/rehiko/picstash/cache"
	"github.com/rehiko/picstash/database/models"
	repo "github.com/rehiko/picstash/database/repo/collections"
	"github.com/rehiko/picstash/database/repo/images"
	"github.com/rehiko/picstash/internal/errs"
)

// 合集名称上限（去除首尾空白后）
const maxNameLength = 100

// CollectionInfo 带数量与预览的合集信息（从 repository 透传）
type CollectionInfo = repo.CollectionInfo

// ImageMetadata 加入合集时由调用方提供的图片元数据
// 仅在图片行首次创建时生效，已存在的行保持原有元数据
type ImageMetadata struct {
	Width       int
	Height      int
	URLRegular  string
	URLSmall    string
	Description string
}

// Service 合集服务层 - 负责输入校验、所有权语义和视图失效
type Service struct {
	repo        *repo.Repository
	imagesRepo  *images.Repository
	cacheHelper *cache.Helper
}

// NewService 创建新的合集服务
func NewService(collectionsRepo *repo.Repository, imagesRepo *images.Repository, cacheHelper *cache.Helper) *Service {
	return &Service{
		repo:        collectionsRepo,
		imagesRepo:  imagesRepo,
		cacheHelper: cacheHelper,
	}
}

// validateName 校验合集名称，返回去除首尾空白后的值
func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errs.WithMessage(errs.ErrInvalidInput, "collection name cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", errs.WithMessage(errs.ErrInvalidInput, "collection name too long (max 100 characters)")
	}
	return trimmed, nil
}

// isDomainErr 判断错误是否属于领域错误分类（原样向上传递）
func isDomainErr(err error) bool {
	return errors.Is(err, errs.ErrUnauthenticated) ||
		errors.Is(err, errs.ErrForbidden) ||
		errors.Is(err, errs.ErrNotFound) ||
		errors.Is(err, errs.ErrInvalidInput) ||
		errors.Is(err, errs.ErrConflict)
}

// wrapStoreErr 领域错误原样传递；其余错误记录日志后归类为内部错误，
// 不向调用方泄漏存储层错误细节
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainErr(err) {
		return err
	}
	log.Printf("[collections] %s failed: %v", op, err)
	return errs.Internal(op, err)
}

// Create 创建合集
func (s *Service) Create(ctx context.Context, callerID uint, name string) (*models.Collection, error) {
	if callerID == 0 {
		return nil, errs.ErrUnauthenticated
	}
	trimmed, err := validateName(name)
	if err != nil {
		return nil, err
	}

	col := &models.Collection{
		UserID: callerID,
		Name:   trimmed,
	}
	if err := s.repo.Create(col); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, errs.WithMessage(errs.ErrConflict, "a collection with this name already exists")
		}
		return nil, wrapStoreErr("create collection", err)
	}

	s.invalidate(ctx, func(h *cache.Helper) error {
		return h.InvalidateCollectionList(ctx, callerID)
	})
	return col, nil
}

// Rename 重命名合集
// 新名称等于当前名称时为幂等空操作，不产生写入也不发出失效信号
func (s *Service) Rename(ctx context.Context, callerID, collectionID uint, newName string) error {
	if callerID == 0 {
		return errs.ErrUnauthenticated
	}
	trimmed, err := validateName(newName)
	if err != nil {
		return err
	}

	changed, err := s.repo.Rename(collectionID, callerID, trimmed)
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return errs.WithMessage(errs.ErrConflict, "a collection with this name already exists")
		}
		return wrapStoreErr("rename collection", err)
	}

	if changed {
		s.invalidate(ctx, func(h *cache.Helper) error {
			if err := h.InvalidateCollectionList(ctx, callerID); err != nil {
				return err
			}
			return h.InvalidateCollection(ctx, collectionID)
		})
	}
	return nil
}

// Delete 删除合集，级联删除关联行并回收失去最后引用的图片
func (s *Service) Delete(ctx context.Context, callerID, collectionID uint) error {
	if callerID == 0 {
		return errs.ErrUnauthenticated
	}

	if err := s.repo.Delete(collectionID, callerID); err != nil {
		return wrapStoreErr("delete collection", err)
	}

	s.invalidate(ctx, func(h *cache.Helper) error {
		if err := h.InvalidateCollectionList(ctx, callerID); err != nil {
			return err
		}
		return h.InvalidateCollection(ctx, collectionID)
	})
	return nil
}

// AddImage 向合集加入图片
// 图片行按外部 ID upsert，重复加入返回冲突错误
func (s *Service) AddImage(ctx context.Context, callerID, collectionID uint, imageID string, meta ImageMetadata) error {
	if callerID == 0 {
		return errs.ErrUnauthenticated
	}
	if strings.TrimSpace(imageID) == "" {
		return errs.WithMessage(errs.ErrInvalidInput, "image id cannot be empty")
	}

	image := &models.Image{
		ID:          imageID,
		Width:       meta.Width,
		Height:      meta.Height,
		URLRegular:  meta.URLRegular,
		URLSmall:    meta.URLSmall,
		Description: meta.Description,
	}

	if err := s.repo.AddImage(collectionID, callerID, image); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return errs.WithMessage(errs.ErrConflict, "image is already in this collection")
		}
		return wrapStoreErr("add image to collection", err)
	}

	s.invalidate(ctx, func(h *cache.Helper) error {
		if err := h.InvalidateCollection(ctx, collectionID); err != nil {
			return err
		}
		return h.InvalidateCollectionList(ctx, callerID)
	})
	return nil
}

// RemoveImage 从合集移除图片，失去最后引用的图片行随之删除
func (s *Service) RemoveImage(ctx context.Context, callerID, collectionID uint, imageID string) error {
	if callerID == 0 {
		return errs.ErrUnauthenticated
	}

	if err := s.repo.RemoveImage(collectionID, callerID, imageID); err != nil {
		return wrapStoreErr("remove image from collection", err)
	}

	s.invalidate(ctx, func(h *cache.Helper) error {
		if err := h.InvalidateCollection(ctx, collectionID); err != nil {
			return err
		}
		if err := h.InvalidateCollectionList(ctx, callerID); err != nil {
			return err
		}
		return h.InvalidatePhoto(ctx, imageID)
	})
	return nil
}

// ListMyCollections 获取调用者的全部合集，带预览与数量，按创建时间倒序
// 这是唯一要求身份的读路径
func (s *Service) ListMyCollections(ctx context.Context, callerID uint) ([]*CollectionInfo, error) {
	if callerID == 0 {
		return nil, errs.ErrUnauthenticated
	}

	infos, err := s.repo.ListByUser(callerID)
	if err != nil {
		return nil, wrapStoreErr("list collections", err)
	}
	return infos, nil
}

// GetCollection 获取合集详情，仅所有者可见
func (s *Service) GetCollection(ctx context.Context, callerID, collectionID uint) (*models.Collection, error) {
	if callerID == 0 {
		return nil, errs.ErrUnauthenticated
	}

	col, err := s.repo.GetByID(collectionID, callerID)
	if err != nil {
		return nil, wrapStoreErr("get collection", err)
	}
	return col, nil
}

// ListImagesInCollection 获取合集内全部图片，仅所有者可见
func (s *Service) ListImagesInCollection(ctx context.Context, callerID, collectionID uint) ([]*models.Image, error) {
	if callerID == 0 {
		return nil, errs.ErrUnauthenticated
	}

	imgs, err := s.repo.ListImages(collectionID, callerID)
	if err != nil {
		return nil, wrapStoreErr("list images in collection", err)
	}
	return imgs, nil
}

// ListCollectionsForImage 获取调用者中包含指定图片的合集
// 未认证调用者得到空结果而不是错误
func (s *Service) ListCollectionsForImage(ctx context.Context, callerID uint, imageID string) ([]*CollectionInfo, error) {
	if callerID == 0 {
		return []*CollectionInfo{}, nil
	}

	infos, err := s.repo.ListContainingImage(callerID, imageID)
	if err != nil {
		return nil, wrapStoreErr("list collections for image", err)
	}
	return infos, nil
}

// ListAvailableCollectionsForImage 获取调用者中尚未包含指定图片的合集，
// 供"加入合集"选择器使用；未认证调用者得到空结果
func (s *Service) ListAvailableCollectionsForImage(ctx context.Context, callerID uint, imageID, nameFilter string) ([]*models.Collection, error) {
	if callerID == 0 {
		return []*models.Collection{}, nil
	}

	cols, err := s.repo.ListAvailableForImage(callerID, imageID, strings.TrimSpace(nameFilter))
	if err != nil {
		return nil, wrapStoreErr("list available collections for image", err)
	}
	return cols, nil
}

// GetImage 按外部 ID 查找已保存的图片行，不存在时返回 (nil, nil)
func (s *Service) GetImage(ctx context.Context, imageID string) (*models.Image, error) {
	image, err := s.imagesRepo.GetByID(imageID)
	if err != nil {
		return nil, wrapStoreErr("get image", err)
	}
	return image, nil
}

// invalidate 视图失效是尽力而为的旁路调用，失败只记日志不影响主流程
func (s *Service) invalidate(ctx context.Context, fn func(h *cache.Helper) error) {
	if s.cacheHelper == nil {
		return
	}
	if err := fn(s.cacheHelper); err != nil {
		log.Printf("[collections] cache invalidation failed: %v", err)
	}
}
