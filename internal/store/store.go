package store

import (
	"github.com/GTsubekti/madrasah-defi/internal/model"
)

// RequestKey 提现申请集合的固定存储键
const RequestKey = "madrasahdefi_withdraw_requests_v1"

// Store 提现申请集合的持久化适配器
// Load在键缺失或数据损坏时返回空集合，从不向调用方报错；
// Save整体覆盖写入，后写者胜，无合并、无并发检查。
type Store interface {
	Load() []model.WithdrawRequest
	Save(records []model.WithdrawRequest)
}
