package models

import "time"

// Image 外部图库照片的共享元数据行，主键即 Unsplash 照片 ID
// 不属于任何单个用户，引用计数由 collection_images 关联行隐式维护；
// 最后一条关联删除时立即回收，漏网的行由孤儿清理任务兜底
type Image struct {
	ID          string `gorm:"type:varchar(64);primaryKey"`
	Width       int    `gorm:"not null"`
	Height      int    `gorm:"not null"`
	URLRegular  string `gorm:"type:varchar(2048);not null"`
	URLSmall    string `gorm:"type:varchar(2048);not null"`
	Description string `gorm:"type:varchar(512)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Collections []*Collection `gorm:"many2many:collection_images;"`
}
