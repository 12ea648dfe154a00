package model

// WithdrawRequest 提现申请记录
// 字段顺序与持久化的JSON保持一致，createdAt为毫秒时间戳
type WithdrawRequest struct {
	Id        string        `json:"id" gorm:"primaryKey"`
	Student   string        `json:"student" gorm:"not null;index"`
	Amount    string        `json:"amount" gorm:"not null"` // 展示单位的十进制字符串
	Symbol    string        `json:"symbol"`
	CreatedAt int64         `json:"createdAt" gorm:"not null"`
	Status    RequestStatus `json:"status" gorm:"default:'PENDING'"`
	Note      string        `json:"note,omitempty" gorm:"type:text"`
}

// RequestStatus 申请状态
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"  // 待审批
	RequestStatusApproved RequestStatus = "APPROVED" // 已批准
	RequestStatusRejected RequestStatus = "REJECTED" // 已拒绝
)

// TableName 自定义表名
func (WithdrawRequest) TableName() string {
	return "withdraw_request"
}
