package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// TrustNFT会员凭证ABI，持有即代表通过认证
// 不同部署的铸造入口名不同，三个都声明，调用时选择
const trustNFTABI = `[
	{
		"type": "function",
		"name": "balanceOf",
		"stateMutability": "view",
		"inputs": [{"name": "owner", "type": "address"}],
		"outputs": [{"name": "balance", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "mint",
		"stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []
	},
	{
		"type": "function",
		"name": "mintMe",
		"stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []
	},
	{
		"type": "function",
		"name": "claim",
		"stateMutability": "nonpayable",
		"inputs": [],
		"outputs": []
	}
]`

// MintMethods 可用的铸造入口
var MintMethods = []string{"mint", "mintMe", "claim"}

// TrustNFT 会员凭证合约
type TrustNFT struct {
	*Contract
}

// NewTrustNFT 创建会员凭证合约实例
func NewTrustNFT(client *ethereum.Client, address string) (*TrustNFT, error) {
	c, err := newContract(client, "TrustNFT", address, trustNFTABI)
	if err != nil {
		return nil, err
	}
	return &TrustNFT{Contract: c}, nil
}

// BalanceOf 查询持有数量
func (n *TrustNFT) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := n.Call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// Mint 铸造凭证，method必须是mint、mintMe或claim之一
func (n *TrustNFT) Mint(ctx context.Context, method string) (common.Hash, error) {
	valid := false
	for _, m := range MintMethods {
		if m == method {
			valid = true
			break
		}
	}
	if !valid {
		return common.Hash{}, fmt.Errorf("unsupported mint method: %s", method)
	}
	return n.Transact(ctx, method)
}
