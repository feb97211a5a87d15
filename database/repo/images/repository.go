package images

import (
	"errors"

	"github.com/rehiko/picstash/database"
	"github.com/rehiko/picstash/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 图片仓库 - 图片行是按外部照片 ID 共享的缓存行，没有单一所有者
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的图片仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// Upsert 按外部 ID 插入图片，已存在则不修改原有元数据
func (r *Repository) Upsert(image *models.Image) error {
	return r.db.DB().Clauses(clause.OnConflict{DoNothing: true}).Create(image).Error
}

// GetByID 按外部 ID 查找图片，不存在时返回 (nil, nil)
func (r *Repository) GetByID(id string) (*models.Image, error) {
	var image models.Image
	err := r.db.DB().First(&image, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// CountReferences 统计图片当前被多少条合集关联引用
func (r *Repository) CountReferences(id string) (int64, error) {
	var count int64
	err := r.db.DB().Model(&models.CollectionImage{}).
		Where("image_id = ?", id).
		Count(&count).Error
	return count, err
}
