package contract

import (
	"context"
	"math/big"

	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// QardPool借贷池ABI（最小集）
// 准入、锁仓、还款评估等规则全部由链上合约执行
const qardPoolABI = `[
	{
		"type": "function",
		"name": "totalDeposits",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "availableLiquidity",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "totalOutstandingDebt",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "depositOf",
		"stateMutability": "view",
		"inputs": [{"name": "", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "lockedUntil",
		"stateMutability": "view",
		"inputs": [{"name": "", "type": "address"}],
		"outputs": [{"name": "", "type": "uint64"}]
	},
	{
		"type": "function",
		"name": "owner",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"type": "function",
		"name": "deposit",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "amount", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "adminWithdrawFor",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "user", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "allowlisted",
		"stateMutability": "view",
		"inputs": [{"name": "", "type": "address"}],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "setAllowlist",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "user", "type": "address"},
			{"name": "allowed", "type": "bool"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "hasActiveLoan",
		"stateMutability": "view",
		"inputs": [{"name": "user", "type": "address"}],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "loanOf",
		"stateMutability": "view",
		"inputs": [{"name": "", "type": "address"}],
		"outputs": [
			{"name": "principal", "type": "uint256"},
			{"name": "paidSoFar", "type": "uint256"},
			{"name": "startTime", "type": "uint64"},
			{"name": "tenorMonths", "type": "uint8"},
			{"name": "latePeriods", "type": "uint8"},
			{"name": "lastEvaluatedPeriod", "type": "uint8"},
			{"name": "isActive", "type": "bool"}
		]
	},
	{
		"type": "function",
		"name": "borrow",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "amount", "type": "uint256"},
			{"name": "tenorMonths", "type": "uint8"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "repay",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "amount", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "evaluateMyLoan",
		"stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []
	}
]`

// Loan 链上借款记录
type Loan struct {
	Principal           *big.Int `json:"principal"`
	PaidSoFar           *big.Int `json:"paid_so_far"`
	StartTime           uint64   `json:"start_time"`
	TenorMonths         uint8    `json:"tenor_months"`
	LatePeriods         uint8    `json:"late_periods"`
	LastEvaluatedPeriod uint8    `json:"last_evaluated_period"`
	IsActive            bool     `json:"is_active"`
}

// Remaining 剩余应还本金
func (l *Loan) Remaining() *big.Int {
	if l.Principal.Cmp(l.PaidSoFar) > 0 {
		return new(big.Int).Sub(l.Principal, l.PaidSoFar)
	}
	return big.NewInt(0)
}

// QardPool 借贷池合约
type QardPool struct {
	*Contract
}

// NewQardPool 创建借贷池合约实例
func NewQardPool(client *ethereum.Client, address string) (*QardPool, error) {
	c, err := newContract(client, "QardPool", address, qardPoolABI)
	if err != nil {
		return nil, err
	}
	return &QardPool{Contract: c}, nil
}

// Owner 查询合约所有者
func (p *QardPool) Owner(ctx context.Context) (common.Address, error) {
	out, err := p.Call(ctx, "owner")
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// TotalDeposits 查询总存款
func (p *QardPool) TotalDeposits(ctx context.Context) (*big.Int, error) {
	return p.callUint256(ctx, "totalDeposits")
}

// AvailableLiquidity 查询可用流动性
func (p *QardPool) AvailableLiquidity(ctx context.Context) (*big.Int, error) {
	return p.callUint256(ctx, "availableLiquidity")
}

// TotalOutstandingDebt 查询未偿还债务总额
func (p *QardPool) TotalOutstandingDebt(ctx context.Context) (*big.Int, error) {
	return p.callUint256(ctx, "totalOutstandingDebt")
}

// DepositOf 查询某地址的存款
func (p *QardPool) DepositOf(ctx context.Context, user common.Address) (*big.Int, error) {
	return p.callUint256(ctx, "depositOf", user)
}

// LockedUntil 查询某地址的锁仓截止时间（unix秒）
func (p *QardPool) LockedUntil(ctx context.Context, user common.Address) (uint64, error) {
	out, err := p.Call(ctx, "lockedUntil", user)
	if err != nil {
		return 0, err
	}
	return out[0].(uint64), nil
}

// Allowlisted 查询某地址是否在准入名单
func (p *QardPool) Allowlisted(ctx context.Context, user common.Address) (bool, error) {
	out, err := p.Call(ctx, "allowlisted", user)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

// HasActiveLoan 查询某地址是否有在贷
func (p *QardPool) HasActiveLoan(ctx context.Context, user common.Address) (bool, error) {
	out, err := p.Call(ctx, "hasActiveLoan", user)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

// LoanOf 查询某地址的借款记录
func (p *QardPool) LoanOf(ctx context.Context, user common.Address) (*Loan, error) {
	out, err := p.Call(ctx, "loanOf", user)
	if err != nil {
		return nil, err
	}
	return &Loan{
		Principal:           out[0].(*big.Int),
		PaidSoFar:           out[1].(*big.Int),
		StartTime:           out[2].(uint64),
		TenorMonths:         out[3].(uint8),
		LatePeriods:         out[4].(uint8),
		LastEvaluatedPeriod: out[5].(uint8),
		IsActive:            out[6].(bool),
	}, nil
}

// Deposit 存入定点单位的代币
func (p *QardPool) Deposit(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return p.Transact(ctx, "deposit", amount)
}

// AdminWithdrawFor 管理员代为提现，锁仓校验由合约执行
func (p *QardPool) AdminWithdrawFor(ctx context.Context, user common.Address, amount *big.Int) (common.Hash, error) {
	return p.Transact(ctx, "adminWithdrawFor", user, amount)
}

// SetAllowlist 设置准入名单
func (p *QardPool) SetAllowlist(ctx context.Context, user common.Address, allowed bool) (common.Hash, error) {
	return p.Transact(ctx, "setAllowlist", user, allowed)
}

// Borrow 借款
func (p *QardPool) Borrow(ctx context.Context, amount *big.Int, tenorMonths uint8) (common.Hash, error) {
	return p.Transact(ctx, "borrow", amount, tenorMonths)
}

// Repay 还款
func (p *QardPool) Repay(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return p.Transact(ctx, "repay", amount)
}

// EvaluateMyLoan 触发借款逾期评估
func (p *QardPool) EvaluateMyLoan(ctx context.Context) (common.Hash, error) {
	return p.Transact(ctx, "evaluateMyLoan")
}

func (p *QardPool) callUint256(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := p.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}
