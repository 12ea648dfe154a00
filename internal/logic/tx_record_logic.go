package logic

import (
	"errors"
	"fmt"

	"github.com/GTsubekti/madrasah-defi/internal/model"
	"gorm.io/gorm"
)

// TxRecordLogic 链上交易记录业务逻辑
type TxRecordLogic struct {
	db *gorm.DB
}

// NewTxRecordLogic 创建交易记录业务逻辑
func NewTxRecordLogic(db *gorm.DB) *TxRecordLogic {
	return &TxRecordLogic{db: db}
}

// Create 登记一笔已提交的交易
func (t *TxRecordLogic) Create(record *model.TxRecord) error {
	if record.TxHash == "" {
		return errors.New("tx hash is required")
	}
	if record.Status == "" {
		record.Status = model.TxStatusPending
	}
	if err := t.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create tx record: %w", err)
	}
	return nil
}

// GetByHash 按交易哈希查找
func (t *TxRecordLogic) GetByHash(txHash string) (*model.TxRecord, error) {
	var record model.TxRecord
	if err := t.db.Where("tx_hash = ?", txHash).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrTxNotFound
		}
		return nil, fmt.Errorf("failed to query tx record: %w", err)
	}
	return &record, nil
}

// ListPending 列出所有待确认的交易
func (t *TxRecordLogic) ListPending() ([]model.TxRecord, error) {
	var records []model.TxRecord
	if err := t.db.Where("status = ?", model.TxStatusPending).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending tx records: %w", err)
	}
	return records, nil
}

// MarkConfirmed 标记交易已确认
func (t *TxRecordLogic) MarkConfirmed(id int64, blockNum uint64) error {
	return t.db.Model(&model.TxRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    model.TxStatusConfirmed,
		"block_num": blockNum,
	}).Error
}

// MarkFailed 标记交易失败，保留链返回的原始失败文本
func (t *TxRecordLogic) MarkFailed(id int64, reason string) error {
	return t.db.Model(&model.TxRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    model.TxStatusFailed,
		"fail_text": reason,
	}).Error
}
