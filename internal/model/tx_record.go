package model

import (
	"time"
)

// TxRecord 已提交链上交易记录
type TxRecord struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Action    string   `json:"action" gorm:"not null"` // approve, deposit, borrow, repay, evaluate, mint, set_allowlist, admin_withdraw
	TxHash    string   `json:"tx_hash" gorm:"uniqueIndex;not null"`
	From      string   `json:"from"`
	RequestId string   `json:"request_id"` // 关联的提现申请ID（仅admin_withdraw）
	Status    TxStatus `json:"status" gorm:"default:'pending'"`
	BlockNum  uint64   `json:"block_num"`
	FailText  string   `json:"fail_text" gorm:"type:text"`
}

// TxStatus 交易状态
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"   // 待确认
	TxStatusConfirmed TxStatus = "confirmed" // 已确认
	TxStatusFailed    TxStatus = "failed"    // 失败
)

// TableName 自定义表名
func (TxRecord) TableName() string {
	return "tx_record"
}
