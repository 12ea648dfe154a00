package handler

import (
	"math/big"
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

// StudentHandler 学生侧链上读与写操作
// 写操作用服务配置的私钥签名提交，每次调用就是一笔链上交易
type StudentHandler struct {
	eth       *ethereum.Client
	contracts *contract.Registry
	txLogic   *logic.TxRecordLogic
}

// NewStudentHandler 创建学生处理器
func NewStudentHandler(db *gorm.DB, eth *ethereum.Client, contracts *contract.Registry) *StudentHandler {
	h := &StudentHandler{eth: eth, contracts: contracts}
	if db != nil {
		h.txLogic = logic.NewTxRecordLogic(db)
	}
	return h
}

// GetStatus 学生链上状态汇总
func (h *StudentHandler) GetStatus(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidAddress.Error()})
		return
	}

	ctx := c.Request.Context()
	user := common.HexToAddress(address)
	token := h.contracts.Token
	pool := h.contracts.QardPool

	decimals, err := token.Decimals(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	symbol, err := token.Symbol(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	balance, err := token.BalanceOf(ctx, user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	allowance, err := token.Allowance(ctx, user, pool.Address())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	allowlisted, err := pool.Allowlisted(ctx, user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	trustBalance, err := h.contracts.TrustNFT.BalanceOf(ctx, user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	deposit, err := pool.DepositOf(ctx, user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	lockedUntil, err := pool.LockedUntil(ctx, user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	totalDeposits, err := pool.TotalDeposits(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	liquidity, err := pool.AvailableLiquidity(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	hasLoan, err := pool.HasActiveLoan(ctx, user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := StudentStatusResponse{
		Address:            user.Hex(),
		Symbol:             symbol,
		Decimals:           decimals,
		Balance:            contract.FormatUnits(balance, decimals),
		AllowanceToPool:    contract.FormatUnits(allowance, decimals),
		Allowlisted:        allowlisted,
		HasTrustNFT:        trustBalance.Sign() > 0,
		Deposit:            contract.FormatUnits(deposit, decimals),
		LockedUntil:        lockedUntil,
		Locked:             uint64(time.Now().Unix()) < lockedUntil,
		TotalDeposits:      contract.FormatUnits(totalDeposits, decimals),
		AvailableLiquidity: contract.FormatUnits(liquidity, decimals),
		HasActiveLoan:      hasLoan,
	}

	loan, err := pool.LoanOf(ctx, user)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if loan.IsActive {
		resp.Loan = &LoanResponse{
			Principal:           contract.FormatUnits(loan.Principal, decimals),
			PaidSoFar:           contract.FormatUnits(loan.PaidSoFar, decimals),
			Remaining:           contract.FormatUnits(loan.Remaining(), decimals),
			StartTime:           loan.StartTime,
			TenorMonths:         loan.TenorMonths,
			LatePeriods:         loan.LatePeriods,
			LastEvaluatedPeriod: loan.LastEvaluatedPeriod,
			IsActive:            loan.IsActive,
		}
	}

	c.JSON(http.StatusOK, gin.H{"student": resp})
}

// Approve 授权资金池消费代币（存款或还款前置）
func (h *StudentHandler) Approve(c *gin.Context) {
	var req AmountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, ok := h.requireAmount(c, req.Amount)
	if !ok {
		return
	}

	txHash, err := h.contracts.Token.Approve(c.Request.Context(), h.contracts.QardPool.Address(), amount)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.submitted(c, "approve", txHash.Hex())
}

// Deposit 存款
func (h *StudentHandler) Deposit(c *gin.Context) {
	var req AmountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, ok := h.requireAmount(c, req.Amount)
	if !ok {
		return
	}

	txHash, err := h.contracts.QardPool.Deposit(c.Request.Context(), amount)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.submitted(c, "deposit", txHash.Hex())
}

// Borrow 借款
func (h *StudentHandler) Borrow(c *gin.Context) {
	var req BorrowReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, ok := h.requireAmount(c, req.Amount)
	if !ok {
		return
	}

	txHash, err := h.contracts.QardPool.Borrow(c.Request.Context(), amount, req.TenorMonths)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.submitted(c, "borrow", txHash.Hex())
}

// Repay 还款
func (h *StudentHandler) Repay(c *gin.Context) {
	var req AmountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, ok := h.requireAmount(c, req.Amount)
	if !ok {
		return
	}

	txHash, err := h.contracts.QardPool.Repay(c.Request.Context(), amount)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.submitted(c, "repay", txHash.Hex())
}

// Evaluate 触发逾期评估
func (h *StudentHandler) Evaluate(c *gin.Context) {
	if !h.eth.HasSigner() {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrNoSigner.Error()})
		return
	}

	txHash, err := h.contracts.QardPool.EvaluateMyLoan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.submitted(c, "evaluate", txHash.Hex())
}

// Mint 铸造会员凭证，入口名可选，未准入的签名账户直接拒绝
func (h *StudentHandler) Mint(c *gin.Context) {
	var req MintReq
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Method == "" {
		req.Method = "mint"
	}

	if !h.eth.HasSigner() {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrNoSigner.Error()})
		return
	}

	ctx := c.Request.Context()

	allowed, err := h.contracts.QardPool.Allowlisted(ctx, h.eth.SignerAddress())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": model.ErrNotAllowlisted.Error()})
		return
	}

	txHash, err := h.contracts.TrustNFT.Mint(ctx, req.Method)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.submitted(c, "mint", txHash.Hex())
}

// requireAmount 校验签名配置并把展示金额转换成定点整数
// 任何非法输入在链调用前同步拒绝
func (h *StudentHandler) requireAmount(c *gin.Context, amountText string) (*big.Int, bool) {
	if !h.eth.HasSigner() {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrNoSigner.Error()})
		return nil, false
	}

	decimals, err := h.contracts.Token.Decimals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return nil, false
	}

	amount, err := contract.ParseUnits(amountText, decimals)
	if err != nil || amount.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidAmount.Error()})
		return nil, false
	}
	return amount, true
}

func (h *StudentHandler) submitted(c *gin.Context, action, txHash string) {
	if h.txLogic != nil {
		record := &model.TxRecord{
			Action: action,
			TxHash: txHash,
			From:   h.eth.SignerAddress().Hex(),
		}
		if err := h.txLogic.Create(record); err != nil {
			logger.Warn("Failed to record %s tx %s: %v", action, txHash, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": action + " submitted",
		"tx_hash": txHash,
	})
}
