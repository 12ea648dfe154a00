package handler

import (
	"errors"
	"net/http"

	"github.com/GTsubekti/madrasah-defi/internal/logic"
	"github.com/GTsubekti/madrasah-defi/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TxHandler 已提交交易的状态查询
type TxHandler struct {
	txLogic *logic.TxRecordLogic
}

// NewTxHandler 创建交易查询处理器，db为nil时交易跟踪未启用
func NewTxHandler(db *gorm.DB) *TxHandler {
	h := &TxHandler{}
	if db != nil {
		h.txLogic = logic.NewTxRecordLogic(db)
	}
	return h
}

// GetTx 按交易哈希查询观察到的状态
func (h *TxHandler) GetTx(c *gin.Context) {
	if h.txLogic == nil {
		ErrorResponse(c, http.StatusServiceUnavailable, "transaction tracking not enabled")
		return
	}
	record, err := h.txLogic.GetByHash(c.Param("hash"))
	if err != nil {
		if errors.Is(err, model.ErrTxNotFound) {
			ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"tx": record})
}
