package contract

import (
	"context"
	"math/big"

	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// IDRT代币ABI（最小集）
const tokenABI = `[
	{
		"type": "function",
		"name": "balanceOf",
		"stateMutability": "view",
		"inputs": [{"name": "account", "type": "address"}],
		"outputs": [{"name": "balance", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "allowance",
		"stateMutability": "view",
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"outputs": [{"name": "amount", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "approve",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "decimals",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint8"}]
	},
	{
		"type": "function",
		"name": "symbol",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "string"}]
	}
]`

// Token 储蓄代币合约
type Token struct {
	*Contract
}

// NewToken 创建代币合约实例
func NewToken(client *ethereum.Client, address string) (*Token, error) {
	c, err := newContract(client, "Token", address, tokenABI)
	if err != nil {
		return nil, err
	}
	return &Token{Contract: c}, nil
}

// BalanceOf 查询余额
func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	out, err := t.Call(ctx, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// Allowance 查询授权额度
func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := t.Call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// Decimals 查询小数位数
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.Call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return out[0].(uint8), nil
}

// Symbol 查询代币符号
func (t *Token) Symbol(ctx context.Context) (string, error) {
	out, err := t.Call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}

// Approve 授权spender消费amount
func (t *Token) Approve(ctx context.Context, spender common.Address, amount *big.Int) (common.Hash, error) {
	return t.Transact(ctx, "approve", spender, amount)
}
