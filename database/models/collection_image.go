package models

import "time"

// CollectionImage 合集与图片的关联实体（显式连接表）
// 复合主键保证同一张图片不能重复加入同一个合集
type CollectionImage struct {
	CollectionID uint      `gorm:"primaryKey;autoIncrement:false"`
	ImageID      string    `gorm:"type:varchar(64);primaryKey"`
	AddedAt      time.Time `gorm:"autoCreateTime"`
}
