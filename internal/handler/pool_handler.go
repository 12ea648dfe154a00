package handler

import (
	"net/http"

	"github.com/GTsubekti/madrasah-defi/internal/contract"
	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/GTsubekti/madrasah-defi/internal/logger"
	"github.com/GTsubekti/madrasah-defi/internal/logic"
	"github.com/GTsubekti/madrasah-defi/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PoolHandler 资金池概览与准入名单管理
type PoolHandler struct {
	eth       *ethereum.Client
	contracts *contract.Registry
	txLogic   *logic.TxRecordLogic
}

// NewPoolHandler 创建资金池处理器
func NewPoolHandler(db *gorm.DB, eth *ethereum.Client, contracts *contract.Registry) *PoolHandler {
	h := &PoolHandler{eth: eth, contracts: contracts}
	if db != nil {
		h.txLogic = logic.NewTxRecordLogic(db)
	}
	return h
}

// GetOverview 资金池概览
func (h *PoolHandler) GetOverview(c *gin.Context) {
	ctx := c.Request.Context()
	pool := h.contracts.QardPool
	token := h.contracts.Token

	owner, err := pool.Owner(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
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
	outstanding, err := pool.TotalOutstandingDebt(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := PoolOverviewResponse{
		Owner:                owner.Hex(),
		IsOwner:              h.eth.HasSigner() && owner == h.eth.SignerAddress(),
		Symbol:               symbol,
		Decimals:             decimals,
		TotalDeposits:        contract.FormatUnits(totalDeposits, decimals),
		AvailableLiquidity:   contract.FormatUnits(liquidity, decimals),
		TotalOutstandingDebt: contract.FormatUnits(outstanding, decimals),
	}
	if h.eth.HasSigner() {
		resp.Signer = h.eth.SignerAddress().Hex()
	}

	c.JSON(http.StatusOK, gin.H{"pool": resp})
}

// GetAllowlisted 查询某地址的准入状态
func (h *PoolHandler) GetAllowlisted(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidAddress.Error()})
		return
	}

	allowed, err := h.contracts.QardPool.Allowlisted(c.Request.Context(), common.HexToAddress(address))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":     address,
		"allowlisted": allowed,
	})
}

// SetAllowlist 管理员设置准入名单
func (h *PoolHandler) SetAllowlist(c *gin.Context) {
	var req AllowlistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHexAddress(req.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidAddress.Error()})
		return
	}
	if !h.eth.HasSigner() {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrNoSigner.Error()})
		return
	}

	ctx := c.Request.Context()

	owner, err := h.contracts.QardPool.Owner(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if owner != h.eth.SignerAddress() {
		c.JSON(http.StatusForbidden, gin.H{"error": model.ErrNotOwner.Error()})
		return
	}

	txHash, err := h.contracts.QardPool.SetAllowlist(ctx, common.HexToAddress(req.Address), req.Allowed)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.recordTx("set_allowlist", txHash.Hex())

	c.JSON(http.StatusOK, gin.H{
		"message": "allowlist update submitted",
		"tx_hash": txHash.Hex(),
	})
}

func (h *PoolHandler) recordTx(action, txHash string) {
	if h.txLogic == nil {
		return
	}
	record := &model.TxRecord{
		Action: action,
		TxHash: txHash,
		From:   h.eth.SignerAddress().Hex(),
	}
	if err := h.txLogic.Create(record); err != nil {
		logger.Warn("Failed to record %s tx %s: %v", action, txHash, err)
	}
}
