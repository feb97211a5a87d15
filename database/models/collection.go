package models

import "time"

// Collection 用户的图片合集
// (user_id, name) 唯一约束是重名校验的最终依据，应用层检查只负责给出友好错误
type Collection struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_owner_name,priority:1"`
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_owner_name,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Images []*Image `gorm:"many2many:collection_images;"`
}
