package handler

// 请求模型

// SubmitWithdrawRequestReq 学生提交提现申请
type SubmitWithdrawRequestReq struct {
	Amount string `json:"amount" binding:"required"`
	Note   string `json:"note"`
}

// AllowlistReq 设置准入名单
type AllowlistReq struct {
	Address string `json:"address" binding:"required"`
	Allowed bool   `json:"allowed"`
}

// AmountReq 单金额写操作（approve/deposit/repay）
type AmountReq struct {
	Amount string `json:"amount" binding:"required"`
}

// BorrowReq 借款
type BorrowReq struct {
	Amount      string `json:"amount" binding:"required"`
	TenorMonths uint8  `json:"tenor_months" binding:"required"`
}

// MintReq 铸造会员凭证
type MintReq struct {
	Method string `json:"method"`
}

// 响应模型

// PoolOverviewResponse 资金池概览
type PoolOverviewResponse struct {
	Owner                string `json:"owner"`
	Signer               string `json:"signer,omitempty"`
	IsOwner              bool   `json:"is_owner"`
	Symbol               string `json:"symbol"`
	Decimals             uint8  `json:"decimals"`
	TotalDeposits        string `json:"total_deposits"`
	AvailableLiquidity   string `json:"available_liquidity"`
	TotalOutstandingDebt string `json:"total_outstanding_debt"`
}

// LoanResponse 借款详情
type LoanResponse struct {
	Principal           string `json:"principal"`
	PaidSoFar           string `json:"paid_so_far"`
	Remaining           string `json:"remaining"`
	StartTime           uint64 `json:"start_time"`
	TenorMonths         uint8  `json:"tenor_months"`
	LatePeriods         uint8  `json:"late_periods"`
	LastEvaluatedPeriod uint8  `json:"last_evaluated_period"`
	IsActive            bool   `json:"is_active"`
}

// StudentStatusResponse 学生链上状态汇总
type StudentStatusResponse struct {
	Address            string        `json:"address"`
	Symbol             string        `json:"symbol"`
	Decimals           uint8         `json:"decimals"`
	Balance            string        `json:"balance"`
	AllowanceToPool    string        `json:"allowance_to_pool"`
	Allowlisted        bool          `json:"allowlisted"`
	HasTrustNFT        bool          `json:"has_trust_nft"`
	Deposit            string        `json:"deposit"`
	LockedUntil        uint64        `json:"locked_until"`
	Locked             bool          `json:"locked"`
	TotalDeposits      string        `json:"total_deposits"`
	AvailableLiquidity string        `json:"available_liquidity"`
	HasActiveLoan      bool          `json:"has_active_loan"`
	Loan               *LoanResponse `json:"loan,omitempty"`
}

// TxSubmittedResponse 写操作返回的待确认交易
type TxSubmittedResponse struct {
	Action string `json:"action"`
	TxHash string `json:"tx_hash"`
}
