package logic

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GTsubekti/madrasah-defi/internal/model"
	"github.com/GTsubekti/madrasah-defi/internal/store"
)

// WithdrawRequestLogic 提现申请台账业务逻辑
// 存储适配器可替换：本地文件或数据库，接口语义不变
type WithdrawRequestLogic struct {
	store         store.Store
	allowRedecide bool // 是否允许已决定的申请再次翻转
}

// NewWithdrawRequestLogic 创建提现申请业务逻辑
func NewWithdrawRequestLogic(s store.Store, allowRedecide bool) *WithdrawRequestLogic {
	return &WithdrawRequestLogic{store: s, allowRedecide: allowRedecide}
}

// Submit 学生提交提现申请
// amountText必须能解析为严格大于0的数，否则不产生任何记录
func (l *WithdrawRequestLogic) Submit(student, amountText, symbol, note string) (*model.WithdrawRequest, error) {
	if strings.TrimSpace(student) == "" {
		return nil, model.ErrInvalidAddress
	}

	amt := strings.TrimSpace(amountText)
	value, err := strconv.ParseFloat(amt, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return nil, model.ErrInvalidAmount
	}

	record := model.WithdrawRequest{
		Id:        newRequestId(),
		Student:   student,
		Amount:    amt,
		Symbol:    symbol,
		CreatedAt: time.Now().UnixMilli(),
		Status:    model.RequestStatusPending,
		Note:      note,
	}

	// 最新的记录放最前
	all := l.store.Load()
	all = append([]model.WithdrawRequest{record}, all...)
	l.store.Save(all)

	return &record, nil
}

// ListAll 按创建时间倒序返回全部申请
func (l *WithdrawRequestLogic) ListAll() []model.WithdrawRequest {
	return sortByCreatedAt(l.store.Load())
}

// ListFor 返回某学生的申请，地址比较不区分大小写
func (l *WithdrawRequestLogic) ListFor(student string) []model.WithdrawRequest {
	all := l.ListAll()
	mine := make([]model.WithdrawRequest, 0, len(all))
	for _, r := range all {
		if strings.EqualFold(r.Student, student) {
			mine = append(mine, r)
		}
	}
	return mine
}

// Get 按ID查找申请
func (l *WithdrawRequestLogic) Get(id string) (*model.WithdrawRequest, error) {
	for _, r := range l.store.Load() {
		if r.Id == id {
			return &r, nil
		}
	}
	return nil, model.ErrRequestNotFound
}

// SetStatus 管理员批准或拒绝申请，只改status字段
// 状态不允许回到PENDING；默认只有PENDING可以被决定
func (l *WithdrawRequestLogic) SetStatus(id string, status model.RequestStatus) (*model.WithdrawRequest, error) {
	if status != model.RequestStatusApproved && status != model.RequestStatusRejected {
		return nil, model.ErrInvalidStatus
	}

	all := l.store.Load()
	for i := range all {
		if all[i].Id != id {
			continue
		}
		if !l.allowRedecide && all[i].Status != model.RequestStatusPending {
			return nil, model.ErrAlreadyDecided
		}
		all[i].Status = status
		l.store.Save(all)
		updated := all[i]
		return &updated, nil
	}
	return nil, model.ErrRequestNotFound
}

// Refresh 重新从存储加载最新视图
// 用于同一存储被其他进程修改后的对账
func (l *WithdrawRequestLogic) Refresh() []model.WithdrawRequest {
	return l.ListAll()
}

// newRequestId 生成唯一申请ID：毫秒时间戳+随机十六进制后缀
func newRequestId() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// 随机源不可用时退化为纳秒时钟
		return fmt.Sprintf("%d_%x", time.Now().UnixMilli(), time.Now().UnixNano())
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}

// sortByCreatedAt 按创建时间倒序稳定排序
func sortByCreatedAt(records []model.WithdrawRequest) []model.WithdrawRequest {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	return records
}
