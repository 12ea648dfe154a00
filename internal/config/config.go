package config

import (
	"github.com/GTsubekti/madrasah-defi/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链配置
type ChainConfig struct {
	ChainId       int64           `mapstructure:"chain_id"`      // 链ID（测试网）
	RpcUrl        string          `mapstructure:"rpc_url"`       // RPC节点URL
	PrivateKey    string          `mapstructure:"private_key"`   // 签名私钥（可为空，空则只读）
	Confirmations int             `mapstructure:"confirmations"` // 确认区块数
	Contracts     ContractsConfig `mapstructure:"contracts"`     // 已部署合约地址
}

// ContractsConfig 三个已部署合约的地址
type ContractsConfig struct {
	Token    string `mapstructure:"token"`     // IDRT代币
	TrustNFT string `mapstructure:"trust_nft"` // 会员凭证NFT
	QardPool string `mapstructure:"qard_pool"` // 借贷池
}

// LedgerConfig 提现申请台账配置
type LedgerConfig struct {
	Driver        string `mapstructure:"driver"`         // 存储驱动: file, postgres
	File          string `mapstructure:"file"`           // file驱动的存储文件路径
	AllowRedecide bool   `mapstructure:"allow_redecide"` // 是否允许APPROVED/REJECTED互相翻转
}

type SchedulerConfig struct {
	Interval int `mapstructure:"interval"` // 秒
	Workers  int `mapstructure:"workers"`  // 交易确认检查的并发数
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/madrasah-defi")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	// database.host留空表示不启用数据库
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "madrasah_defi")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.chain_id", 11155111)
	viper.SetDefault("chain.confirmations", 3)
	viper.SetDefault("ledger.driver", "file")
	viper.SetDefault("ledger.file", "data/ledger.json")
	viper.SetDefault("ledger.allow_redecide", false)
	viper.SetDefault("scheduler.interval", 15)
	viper.SetDefault("scheduler.workers", 4)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
