package database

import (
	"fmt"
	"log"

	"github.com/rehiko/picstash/config"
	"github.com/rehiko/picstash/database/models"
)

// Factory 数据库工厂 - 负责创建和管理数据库提供者
type Factory struct {
	provider Provider
}

// NewFactory 创建新的数据库工厂
func NewFactory(cfg *config.Config) (*Factory, error) {
	log.Println("Initializing database provider...")

	provider, err := NewGormProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database provider: %w", err)
	}

	log.Printf("Database provider '%s' initialized successfully", provider.Name())

	return &Factory{
		provider: provider,
	}, nil
}

// GetProvider 获取数据库提供者
func (f *Factory) GetProvider() Provider {
	return f.provider
}

// AutoMigrate 自动迁移数据库结构
func (f *Factory) AutoMigrate() error {
	if f.provider == nil {
		return fmt.Errorf("database provider not initialized")
	}

	db := f.provider.DB()

	// 注册显式连接表，保留 added_at 并形成 (collection_id, image_id) 复合主键
	if err := db.SetupJoinTable(&models.Collection{}, "Images", &models.CollectionImage{}); err != nil {
		return fmt.Errorf("failed to set up collection_images join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Image{}, "Collections", &models.CollectionImage{}); err != nil {
		return fmt.Errorf("failed to set up collection_images join table: %w", err)
	}

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Collection{},
		&models.Image{},
		&models.CollectionImage{},
	}

	log.Println("Running database auto migration...")
	if err := f.provider.AutoMigrate(modelsToMigrate...); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	log.Println("Database auto migration completed.")
	return nil
}

// Close 关闭数据库连接
func (f *Factory) Close() error {
	if f.provider != nil {
		return f.provider.Close()
	}
	return nil
}
