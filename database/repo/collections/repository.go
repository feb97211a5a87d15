package collections

import (
	"context"
	"errors"
	"strings"

	"github.com/rehiko/picstash/database"
	"github.com/rehiko/picstash/database/models"
	"github.com/rehiko/picstash/internal/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 合集列表预览图上限
const previewLimit = 3

// Repository 合集仓库 - 封装所有合集及其图片关联的数据库操作
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的合集仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// PreviewImage 合集预览图
type PreviewImage struct {
	ImageID    string `json:"image_id"`
	URLRegular string `json:"url_regular"`
	URLSmall   string `json:"url_small"`
}

// CollectionInfo 带图片数量和预览图的合集信息
type CollectionInfo struct {
	Collection *models.Collection
	ImageCount int64
	Previews   []PreviewImage
}

// lockCollection 按 ID 锁定合集行并校验所有权
// 返回 errs.ErrNotFound / errs.ErrForbidden
func lockCollection(tx *gorm.DB, collectionID, userID uint) (*models.Collection, error) {
	var col models.Collection
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&col, "id = ?", collectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if col.UserID != userID {
		return nil, errs.ErrForbidden
	}
	return &col, nil
}

// GetByOwnerAndName 按所有者与名称查找合集，不存在时返回 (nil, nil)
// 名称比较区分大小写，与 (user_id, name) 唯一索引保持一致
func (r *Repository) GetByOwnerAndName(userID uint, name string) (*models.Collection, error) {
	var col models.Collection
	err := r.db.DB().First(&col, "user_id = ? AND name = ?", userID, name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// Create 创建合集
// 先做应用层重名检查以给出友好错误；唯一索引是最终裁决，
// 并发窗口内触发的约束冲突同样转换为 errs.ErrConflict
func (r *Repository) Create(col *models.Collection) error {
	existing, err := r.GetByOwnerAndName(col.UserID, col.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return errs.ErrConflict
	}

	if err := r.db.DB().Create(col).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.ErrConflict
		}
		return err
	}
	return nil
}

// Rename 重命名合集
// 新名称与当前名称相同为幂等空操作，返回 changed=false 且不产生写入
func (r *Repository) Rename(collectionID, userID uint, newName string) (changed bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		col, err := lockCollection(tx, collectionID, userID)
		if err != nil {
			return err
		}

		if col.Name == newName {
			return nil
		}

		var count int64
		if err := tx.Model(&models.Collection{}).
			Where("user_id = ? AND name = ? AND id <> ?", userID, newName, collectionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrConflict
		}

		if err := tx.Model(col).Update("name", newName).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.ErrConflict
			}
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

// Delete 删除合集并级联清理
// 在单个事务内完成：锁定合集行、删除全部关联行、删除合集，
// 最后用一次聚合查询找出不再被任何合集引用的图片并批量删除，
// 避免逐图查询的 N+1 往返，也封闭了并发加图与删图之间的竞态窗口
func (r *Repository) Delete(collectionID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockCollection(tx, collectionID, userID); err != nil {
			return err
		}

		var imageIDs []string
		if err := tx.Model(&models.CollectionImage{}).
			Where("collection_id = ?", collectionID).
			Pluck("image_id", &imageIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("collection_id = ?", collectionID).
			Delete(&models.CollectionImage{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Collection{}, collectionID).Error; err != nil {
			return err
		}

		if len(imageIDs) == 0 {
			return nil
		}

		// 仍被其他合集引用的图片
		var stillReferenced []string
		if err := tx.Model(&models.CollectionImage{}).
			Distinct("image_id").
			Where("image_id IN ?", imageIDs).
			Pluck("image_id", &stillReferenced).Error; err != nil {
			return err
		}

		referenced := make(map[string]struct{}, len(stillReferenced))
		for _, id := range stillReferenced {
			referenced[id] = struct{}{}
		}

		var orphaned []string
		for _, id := range imageIDs {
			if _, ok := referenced[id]; !ok {
				orphaned = append(orphaned, id)
			}
		}

		if len(orphaned) == 0 {
			return nil
		}
		return tx.Where("id IN ?", orphaned).Delete(&models.Image{}).Error
	})
}

// GetByID 获取合集并校验所有权
func (r *Repository) GetByID(collectionID, userID uint) (*models.Collection, error) {
	var col models.Collection
	if err := r.db.DB().First(&col, "id = ?", collectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if col.UserID != userID {
		return nil, errs.ErrForbidden
	}
	return &col, nil
}

// ListByUser 获取用户全部合集，按创建时间倒序，
// 附带图片数量和最近加入的预览图（最多 previewLimit 张）
func (r *Repository) ListByUser(userID uint) ([]*CollectionInfo, error) {
	var cols []*models.Collection
	if err := r.db.DB().
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&cols).Error; err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return []*CollectionInfo{}, nil
	}

	ids := make([]uint, len(cols))
	for i, col := range cols {
		ids[i] = col.ID
	}

	countMap, err := r.membershipCounts(ids)
	if err != nil {
		return nil, err
	}

	previewMap, err := r.previewImages(ids, previewLimit)
	if err != nil {
		return nil, err
	}

	result := make([]*CollectionInfo, len(cols))
	for i, col := range cols {
		result[i] = &CollectionInfo{
			Collection: col,
			ImageCount: countMap[col.ID],
			Previews:   previewMap[col.ID],
		}
	}
	return result, nil
}

// membershipCounts 批量统计各合集的图片数量
func (r *Repository) membershipCounts(collectionIDs []uint) (map[uint]int64, error) {
	var rows []struct {
		CollectionID uint
		Count        int64
	}
	if err := r.db.DB().Model(&models.CollectionImage{}).
		Select("collection_id, COUNT(*) as count").
		Where("collection_id IN ?", collectionIDs).
		Group("collection_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CollectionID] = row.Count
	}
	return counts, nil
}

// previewImages 批量获取各合集最近加入的图片，按加入时间倒序，每个合集截取 limit 张
func (r *Repository) previewImages(collectionIDs []uint, limit int) (map[uint][]PreviewImage, error) {
	var rows []struct {
		CollectionID uint
		ImageID      string
		URLRegular   string
		URLSmall     string
	}
	if err := r.db.DB().Table("collection_images").
		Select("collection_images.collection_id, images.id as image_id, images.url_regular, images.url_small").
		Joins("JOIN images ON images.id = collection_images.image_id").
		Where("collection_images.collection_id IN ?", collectionIDs).
		Order("collection_images.added_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	previews := make(map[uint][]PreviewImage)
	for _, row := range rows {
		if len(previews[row.CollectionID]) >= limit {
			continue
		}
		previews[row.CollectionID] = append(previews[row.CollectionID], PreviewImage{
			ImageID:    row.ImageID,
			URLRegular: row.URLRegular,
			URLSmall:   row.URLSmall,
		})
	}
	return previews, nil
}

// ListImages 获取合集内全部图片，按图片创建时间倒序
// 先校验合集存在且属于该用户
func (r *Repository) ListImages(collectionID, userID uint) ([]*models.Image, error) {
	if _, err := r.GetByID(collectionID, userID); err != nil {
		return nil, err
	}

	var images []*models.Image
	err := r.db.DB().
		Joins("JOIN collection_images ON collection_images.image_id = images.id").
		Where("collection_images.collection_id = ?", collectionID).
		Order("images.created_at desc").
		Find(&images).Error
	return images, err
}

// ListContainingImage 获取用户中包含指定图片的合集，附带单张预览与数量
func (r *Repository) ListContainingImage(userID uint, imageID string) ([]*CollectionInfo, error) {
	var cols []*models.Collection
	if err := r.db.DB().
		Joins("JOIN collection_images ON collection_images.collection_id = collections.id").
		Where("collections.user_id = ? AND collection_images.image_id = ?", userID, imageID).
		Find(&cols).Error; err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return []*CollectionInfo{}, nil
	}

	ids := make([]uint, len(cols))
	for i, col := range cols {
		ids[i] = col.ID
	}

	countMap, err := r.membershipCounts(ids)
	if err != nil {
		return nil, err
	}
	previewMap, err := r.previewImages(ids, 1)
	if err != nil {
		return nil, err
	}

	result := make([]*CollectionInfo, len(cols))
	for i, col := range cols {
		result[i] = &CollectionInfo{
			Collection: col,
			ImageCount: countMap[col.ID],
			Previews:   previewMap[col.ID],
		}
	}
	return result, nil
}

// ListAvailableForImage 获取用户中尚未包含指定图片的合集，用于"加入合集"选择器
// 可选名称过滤为不区分大小写的子串匹配，结果按名称升序
func (r *Repository) ListAvailableForImage(userID uint, imageID, nameFilter string) ([]*models.Collection, error) {
	query := r.db.DB().
		Where("user_id = ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM collection_images ci WHERE ci.collection_id = collections.id AND ci.image_id = ?)", imageID)

	if nameFilter != "" {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(nameFilter)+"%")
	}

	var cols []*models.Collection
	err := query.Order("name asc").Find(&cols).Error
	if cols == nil {
		cols = []*models.Collection{}
	}
	return cols, err
}

// AddImage 向合集加入图片
// 图片行按外部 ID upsert：已存在则保持原有元数据不变；
// 重复加入同一合集由复合主键拒绝并转换为 errs.ErrConflict
func (r *Repository) AddImage(collectionID, userID uint, image *models.Image) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockCollection(tx, collectionID, userID); err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(image).Error; err != nil {
			return err
		}

		membership := models.CollectionImage{
			CollectionID: collectionID,
			ImageID:      image.ID,
		}
		if err := tx.Create(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.ErrConflict
			}
			return err
		}
		return nil
	})
}

// RemoveImage 从合集移除图片
// 删除关联行后统计剩余引用，归零时在同一事务内删除图片行
func (r *Repository) RemoveImage(collectionID, userID uint, imageID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockCollection(tx, collectionID, userID); err != nil {
			return err
		}

		res := tx.Where("collection_id = ? AND image_id = ?", collectionID, imageID).
			Delete(&models.CollectionImage{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrNotFound
		}

		var remaining int64
		if err := tx.Model(&models.CollectionImage{}).
			Where("image_id = ?", imageID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Where("id = ?", imageID).Delete(&models.Image{}).Error
		}
		return nil
	})
}

// SweepOrphans 批量回收没有任何关联的孤儿图片，单次最多 batchSize 张
// 删除严格按先选出的 ID 列表执行，而不是在删除时重新评估零引用谓词
func (r *Repository) SweepOrphans(ctx context.Context, batchSize int) (int64, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Image{}).
		Where("NOT EXISTS (SELECT 1 FROM collection_images ci WHERE ci.image_id = images.id)").
		Limit(batchSize).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Image{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
