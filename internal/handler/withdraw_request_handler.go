package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/GTsubekti/madrasah-defi/internal/contract"
	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/GTsubekti/madrasah-defi/internal/logger"
	"github.com/GTsubekti/madrasah-defi/internal/logic"
	"github.com/GTsubekti/madrasah-defi/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 展示锁仓时间用的时区，与部署环境一致
var wib = time.FixedZone("WIB", 7*60*60)

// WithdrawRequestHandler 提现申请的管理员与学生两侧接口
type WithdrawRequestHandler struct {
	ledger    *logic.WithdrawRequestLogic
	txLogic   *logic.TxRecordLogic
	eth       *ethereum.Client
	contracts *contract.Registry
}

// NewWithdrawRequestHandler 创建提现申请处理器
// db、eth、contracts允许为nil：纯台账操作不依赖链和交易记录
func NewWithdrawRequestHandler(ledger *logic.WithdrawRequestLogic, db *gorm.DB, eth *ethereum.Client, contracts *contract.Registry) *WithdrawRequestHandler {
	h := &WithdrawRequestHandler{
		ledger:    ledger,
		eth:       eth,
		contracts: contracts,
	}
	if db != nil {
		h.txLogic = logic.NewTxRecordLogic(db)
	}
	return h
}

// ListRequests 管理员查看全部申请；带student查询参数时按学生过滤
func (h *WithdrawRequestHandler) ListRequests(c *gin.Context) {
	var requests []model.WithdrawRequest
	if student := c.Query("student"); student != "" {
		requests = h.ledger.ListFor(student)
	} else {
		requests = h.ledger.ListAll()
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

// GetRequest 查看单条申请详情
func (h *WithdrawRequestHandler) GetRequest(c *gin.Context) {
	record, err := h.ledger.Get(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": record})
}

// ListStudentRequests 学生查看自己的申请
func (h *WithdrawRequestHandler) ListStudentRequests(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		ErrorResponse(c, http.StatusBadRequest, model.ErrInvalidAddress.Error())
		return
	}

	requests := h.ledger.ListFor(address)
	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

// SubmitRequest 学生提交提现申请
func (h *WithdrawRequestHandler) SubmitRequest(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		ErrorResponse(c, http.StatusBadRequest, model.ErrInvalidAddress.Error())
		return
	}

	var req SubmitWithdrawRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 提交时刻的代币符号与锁仓备注都取当前链上状态
	symbol := "IDRT"
	note := req.Note
	if h.contracts != nil {
		if sym, err := h.contracts.Token.Symbol(c.Request.Context()); err == nil {
			symbol = sym
		}
		if note == "" {
			note = h.lockNote(c, common.HexToAddress(address))
		}
	}

	record, err := h.ledger.Submit(address, req.Amount, symbol, note)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "withdraw request submitted", record)
}

// ApproveRequest 管理员批准申请
func (h *WithdrawRequestHandler) ApproveRequest(c *gin.Context) {
	h.decide(c, model.RequestStatusApproved)
}

// RejectRequest 管理员拒绝申请
func (h *WithdrawRequestHandler) RejectRequest(c *gin.Context) {
	h.decide(c, model.RequestStatusRejected)
}

func (h *WithdrawRequestHandler) decide(c *gin.Context, status model.RequestStatus) {
	record, err := h.ledger.SetStatus(c.Param("id"), status)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRequestNotFound):
			ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, model.ErrAlreadyDecided):
			ErrorResponse(c, http.StatusConflict, err.Error())
		default:
			ErrorResponse(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	SuccessResponse(c, http.StatusOK, "request "+string(status), record)
}

// ExecuteRequest 管理员执行链上提现（adminWithdrawFor）
// 不看锁仓状态，锁仓与流动性校验由合约执行；台账状态不因链上结果回滚
func (h *WithdrawRequestHandler) ExecuteRequest(c *gin.Context) {
	record, err := h.ledger.Get(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}

	if h.eth == nil || !h.eth.HasSigner() {
		ErrorResponse(c, http.StatusBadRequest, model.ErrNoSigner.Error())
		return
	}

	ctx := c.Request.Context()

	owner, err := h.contracts.QardPool.Owner(ctx)
	if err != nil {
		ErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	if owner != h.eth.SignerAddress() {
		ErrorResponse(c, http.StatusForbidden, model.ErrNotOwner.Error())
		return
	}

	if record.Status != model.RequestStatusApproved {
		ErrorResponse(c, http.StatusConflict, "request must be approved before execution")
		return
	}
	if !common.IsHexAddress(record.Student) {
		ErrorResponse(c, http.StatusBadRequest, model.ErrInvalidAddress.Error())
		return
	}

	decimals, err := h.contracts.Token.Decimals(ctx)
	if err != nil {
		ErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}

	amount, err := contract.ParseUnits(record.Amount, decimals)
	if err != nil || amount.Sign() <= 0 {
		ErrorResponse(c, http.StatusBadRequest, model.ErrInvalidAmount.Error())
		return
	}

	txHash, err := h.contracts.QardPool.AdminWithdrawFor(ctx, common.HexToAddress(record.Student), amount)
	if err != nil {
		// 链上失败原因原样返回，不重试、不回滚台账
		ErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}

	h.recordTx("admin_withdraw", txHash.Hex(), record.Id)

	SuccessResponse(c, http.StatusOK, "withdraw execution submitted", TxSubmittedResponse{
		Action: "admin_withdraw",
		TxHash: txHash.Hex(),
	})
}

// lockNote 生成提交时刻的锁仓备注
func (h *WithdrawRequestHandler) lockNote(c *gin.Context, student common.Address) string {
	lockText := "belum terbaca"
	if lockedUntil, err := h.contracts.QardPool.LockedUntil(c.Request.Context(), student); err == nil {
		lockText = time.Unix(int64(lockedUntil), 0).In(wib).Format("02 Jan 2006 15:04")
	}
	return "Locked until: " + lockText + " (WIB)"
}

func (h *WithdrawRequestHandler) recordTx(action, txHash, requestId string) {
	if h.txLogic == nil {
		return
	}
	record := &model.TxRecord{
		Action:    action,
		TxHash:    txHash,
		From:      h.eth.SignerAddress().Hex(),
		RequestId: requestId,
	}
	if err := h.txLogic.Create(record); err != nil {
		logger.Warn("Failed to record %s tx %s: %v", action, txHash, err)
	}
}
