package contract

import (
	"context"
	"fmt"
	"strings"

	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract 合约工具类
// 基于内嵌的最小ABI做打包调用，合约规则本身在链上，这里只做消费
type Contract struct {
	name    string
	address common.Address
	abi     abi.ABI
	client  *ethereum.Client
}

// newContract 创建合约实例
func newContract(client *ethereum.Client, name, address, abiJSON string) (*Contract, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid %s contract address: %s", name, address)
	}

	parsedABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s ABI: %w", name, err)
	}

	return &Contract{
		name:    name,
		address: common.HexToAddress(address),
		abi:     parsedABI,
		client:  client,
	}, nil
}

// Address 获取合约地址
func (c *Contract) Address() common.Address {
	return c.address
}

// Name 获取合约名称
func (c *Contract) Name() string {
	return c.name
}

// Call 只读调用并解包返回值
func (c *Contract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s.%s: %w", c.name, method, err)
	}

	output, err := c.client.CallContract(ctx, c.address, data)
	if err != nil {
		return nil, fmt.Errorf("%s.%s call failed: %w", c.name, method, err)
	}

	values, err := c.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s.%s result: %w", c.name, method, err)
	}
	return values, nil
}

// Transact 提交一笔写交易，返回待确认哈希
func (c *Contract) Transact(ctx context.Context, method string, args ...interface{}) (common.Hash, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack %s.%s: %w", c.name, method, err)
	}
	return c.client.Transact(ctx, c.address, data)
}
