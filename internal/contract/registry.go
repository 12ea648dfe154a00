package contract

import (
	"github.com/GTsubekti/madrasah-defi/internal/config"
	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/GTsubekti/madrasah-defi/internal/logger"
)

// Registry 三个已部署合约的客户端集合
type Registry struct {
	Token    *Token
	TrustNFT *TrustNFT
	QardPool *QardPool
}

// NewRegistry 按配置初始化全部合约客户端
func NewRegistry(client *ethereum.Client, cfg config.ContractsConfig) (*Registry, error) {
	token, err := NewToken(client, cfg.Token)
	if err != nil {
		return nil, err
	}
	logger.Info("Initialized Token contract at %s", token.Address().Hex())

	trustNFT, err := NewTrustNFT(client, cfg.TrustNFT)
	if err != nil {
		return nil, err
	}
	logger.Info("Initialized TrustNFT contract at %s", trustNFT.Address().Hex())

	qardPool, err := NewQardPool(client, cfg.QardPool)
	if err != nil {
		return nil, err
	}
	logger.Info("Initialized QardPool contract at %s", qardPool.Address().Hex())

	return &Registry{
		Token:    token,
		TrustNFT: trustNFT,
		QardPool: qardPool,
	}, nil
}
