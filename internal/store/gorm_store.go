package store

import (
	"github.com/GTsubekti/madrasah-defi/internal/logger"
	"github.com/GTsubekti/madrasah-defi/internal/model"
	"gorm.io/gorm"
)

// GormStore 基于Postgres的申请集合存储
// 保持与FileStore相同的整体读/整体写契约，作为多端共享的权威副本
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建数据库存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load 读取全部申请记录
func (s *GormStore) Load() []model.WithdrawRequest {
	var records []model.WithdrawRequest
	if err := s.db.Order("created_at DESC").Find(&records).Error; err != nil {
		logger.Warn("Failed to load withdraw requests from database: %v", err)
		return []model.WithdrawRequest{}
	}
	return records
}

// Save 用给定集合整体替换表内容
func (s *GormStore) Save(records []model.WithdrawRequest) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.WithdrawRequest{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 100).Error
	})
	if err != nil {
		logger.Warn("Failed to save %d withdraw requests to database: %v", len(records), err)
	}
}
