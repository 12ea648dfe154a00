package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/GTsubekti/madrasah-defi/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client 以太坊客户端封装
// 私钥可选：未配置时所有读操作可用，写操作返回错误
type Client struct {
	client        *ethclient.Client
	privateKey    *ecdsa.PrivateKey
	chainId       *big.Int
	confirmations int
}

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接以太坊客户端
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	c := &Client{
		client:        client,
		chainId:       big.NewInt(cfg.ChainId),
		confirmations: cfg.Confirmations,
	}

	// 解析私钥（可为空）
	if cfg.PrivateKey != "" {
		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		c.privateKey = privateKey
	}

	return c, nil
}

// HasSigner 是否配置了签名私钥
func (c *Client) HasSigner() bool {
	return c.privateKey != nil
}

// SignerAddress 获取签名账户地址
func (c *Client) SignerAddress() common.Address {
	if c.privateKey == nil {
		return common.Address{}
	}
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}

// ChainId 获取链ID
func (c *Client) ChainId() *big.Int {
	return new(big.Int).Set(c.chainId)
}

// CallContract 只读合约调用
func (c *Client) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	return c.client.CallContract(ctx, msg, nil)
}

// Transact 打包、签名并提交一笔合约交易，返回待确认的交易哈希
func (c *Client) Transact(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	if c.privateKey == nil {
		return common.Hash{}, fmt.Errorf("cannot send transaction: no private key configured")
	}

	from := c.SignerAddress()

	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: data,
	})
	if err != nil {
		// 预估失败通常就是合约会revert，原样返回失败原因
		return common.Hash{}, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainId), c.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash(), nil
}

// GetLatestBlock 获取最新区块号
func (c *Client) GetLatestBlock(ctx context.Context) (uint64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// GetTransactionReceipt 获取交易回执
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(ctx, txHash)
}

// IsTransactionConfirmed 检查交易是否已达到确认区块数
func (c *Client) IsTransactionConfirmed(ctx context.Context, txHash common.Hash) (bool, *types.Receipt, error) {
	receipt, err := c.GetTransactionReceipt(ctx, txHash)
	if err != nil {
		if err == ethereum.NotFound {
			return false, nil, nil
		}
		return false, nil, err
	}

	latestBlock, err := c.GetLatestBlock(ctx)
	if err != nil {
		return false, receipt, err
	}

	confirmed := latestBlock >= receipt.BlockNumber.Uint64()+uint64(c.confirmations)
	return confirmed, receipt, nil
}
