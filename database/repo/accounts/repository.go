package accounts

import (
	"errors"

	"github.com/rehiko/picstash/database"
	"github.com/rehiko/picstash/database/models"
	"gorm.io/gorm"
)

// Repository 用户账户仓库
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的账户仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// GetUserByUsername 按用户名查找用户，不存在时返回 (nil, nil)
func (r *Repository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.DB().First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID 按 ID 查找用户，不存在时返回 (nil, nil)
func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.DB().First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser 创建用户
func (r *Repository) CreateUser(user *models.User) error {
	return r.db.DB().Create(user).Error
}

// CountUsers 统计用户数量
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.DB().Model(&models.User{}).Count(&count).Error
	return count, err
}
