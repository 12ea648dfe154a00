package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/GTsubekti/madrasah-defi/internal/config"
	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/GTsubekti/madrasah-defi/internal/logger"
	"github.com/GTsubekti/madrasah-defi/internal/logic"
	"github.com/GTsubekti/madrasah-defi/internal/model"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// TxWatcherJob 交易确认监视任务
// 轮询待确认交易的回执，更新为confirmed或failed
// 台账状态与链上结果保持解耦，这里只记录观察到的结果
type TxWatcherJob struct {
	txLogic   *logic.TxRecordLogic
	ethClient *ethereum.Client
	config    *config.Config
}

// NewTxWatcherJob 创建交易确认监视任务
func NewTxWatcherJob(db *gorm.DB, ethClient *ethereum.Client, cfg *config.Config) *TxWatcherJob {
	return &TxWatcherJob{
		txLogic:   logic.NewTxRecordLogic(db),
		ethClient: ethClient,
		config:    cfg,
	}
}

// GetName 获取任务名称
func (j *TxWatcherJob) GetName() string {
	return "tx_confirmation_watcher"
}

// GetSchedule 获取调度配置
func (j *TxWatcherJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *TxWatcherJob) Execute() {
	records, err := j.txLogic.ListPending()
	if err != nil {
		logger.Error("Failed to list pending transactions: %v", err)
		return
	}
	if len(records) == 0 {
		return
	}

	logger.Debug("Checking %d pending transactions", len(records))

	workers := j.config.Scheduler.Workers
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Error("Failed to create watcher pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range records {
		record := records[i]
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			j.checkTransaction(record)
		})
		if err != nil {
			wg.Done()
			logger.Warn("Failed to submit tx check for %s: %v", record.TxHash, err)
		}
	}
	wg.Wait()
}

// checkTransaction 检查单笔交易的确认状态
func (j *TxWatcherJob) checkTransaction(record model.TxRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	confirmed, receipt, err := j.ethClient.IsTransactionConfirmed(ctx, ethcommon.HexToHash(record.TxHash))
	if err != nil {
		logger.Warn("Failed to check tx %s: %v", record.TxHash, err)
		return
	}
	if receipt == nil {
		// 还在内存池里
		return
	}

	if receipt.Status == ethtypes.ReceiptStatusFailed {
		if err := j.txLogic.MarkFailed(record.Id, "transaction reverted on-chain"); err != nil {
			logger.Error("Failed to mark tx %s failed: %v", record.TxHash, err)
			return
		}
		logger.Info("Transaction %s (%s) reverted on-chain", record.TxHash, record.Action)
		return
	}

	if confirmed {
		if err := j.txLogic.MarkConfirmed(record.Id, receipt.BlockNumber.Uint64()); err != nil {
			logger.Error("Failed to mark tx %s confirmed: %v", record.TxHash, err)
			return
		}
		logger.Info("Transaction %s (%s) confirmed at block %d", record.TxHash, record.Action, receipt.BlockNumber.Uint64())
	}
}
