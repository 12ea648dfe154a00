package main

import (
	"log"

	"github.com/GTsubekti/madrasah-defi/internal/config"
	"github.com/GTsubekti/madrasah-defi/internal/contract"
	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/GTsubekti/madrasah-defi/internal/logger"
	"github.com/GTsubekti/madrasah-defi/internal/logic"
	"github.com/GTsubekti/madrasah-defi/internal/repository"
	"github.com/GTsubekti/madrasah-defi/internal/router"
	"github.com/GTsubekti/madrasah-defi/internal/scheduler"
	"github.com/GTsubekti/madrasah-defi/internal/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	logger.InitFromConfig(cfg.Log)

	// 初始化数据库，未配置时跳过，交易跟踪随之关闭
	var db *gorm.DB
	if cfg.Database.Host != "" {
		var err error
		db, err = repository.Init(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	} else {
		log.Println("Database not configured, transaction tracking disabled")
	}

	// 初始化以太坊客户端
	ethClient, err := ethereum.Init(cfg.Chain)
	if err != nil {
		log.Fatalf("Failed to initialize ethereum client: %v", err)
	}

	// 初始化合约客户端
	contracts, err := contract.NewRegistry(ethClient, cfg.Chain.Contracts)
	if err != nil {
		log.Fatalf("Failed to initialize contracts: %v", err)
	}

	// 初始化提现申请台账，存储驱动可选
	var ledgerStore store.Store
	switch cfg.Ledger.Driver {
	case "postgres":
		if db == nil {
			log.Fatal("Ledger driver is postgres but database is not configured")
		}
		ledgerStore = store.NewGormStore(db)
	default:
		ledgerStore = store.NewFileStore(cfg.Ledger.File)
	}
	ledger := logic.NewWithdrawRequestLogic(ledgerStore, cfg.Ledger.AllowRedecide)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, ethClient, contracts, ledger, cfg)

	// 启动定时任务，交易确认监视依赖数据库
	if db != nil {
		scheduler.Start(db, ethClient, cfg)
	}

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
