package scheduler

import (
	"log"

	"github.com/GTsubekti/madrasah-defi/internal/config"
	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	ethClient *ethereum.Client
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, ethClient *ethereum.Client, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		db:        db,
		ethClient: ethClient,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, ethClient *ethereum.Client, cfg *config.Config) *Manager {
	manager := NewManager(db, ethClient, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	log.Println("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	// 注册交易确认监视任务
	m.registerTxWatcherJob(NewTxWatcherJob(m.db, m.ethClient, m.config))
}

// registerTxWatcherJob 注册交易确认监视任务
func (m *Manager) registerTxWatcherJob(job *TxWatcherJob) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		log.Printf("Failed to shutdown scheduler: %v", err)
	}
	log.Println("Task manager stopped")
}
