package router

import (
	"github.com/GTsubekti/madrasah-defi/internal/config"
	"github.com/GTsubekti/madrasah-defi/internal/contract"
	"github.com/GTsubekti/madrasah-defi/internal/ethereum"
	"github.com/GTsubekti/madrasah-defi/internal/handler"
	"github.com/GTsubekti/madrasah-defi/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, ethClient *ethereum.Client, contracts *contract.Registry, ledger *logic.WithdrawRequestLogic, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "madrasah-defi",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 资金池与准入名单（管理员侧）
		poolHandler := handler.NewPoolHandler(db, ethClient, contracts)
		v1.GET("/pool", poolHandler.GetOverview)
		v1.GET("/allowlist/:address", poolHandler.GetAllowlisted)
		v1.POST("/allowlist", poolHandler.SetAllowlist)

		// 提现申请台账
		requestHandler := handler.NewWithdrawRequestHandler(ledger, db, ethClient, contracts)
		requests := v1.Group("/requests")
		{
			requests.GET("", requestHandler.ListRequests)
			requests.GET("/:id", requestHandler.GetRequest)
			requests.POST("/:id/approve", requestHandler.ApproveRequest)
			requests.POST("/:id/reject", requestHandler.RejectRequest)
			requests.POST("/:id/execute", requestHandler.ExecuteRequest)
		}

		// 学生侧链上状态与申请
		studentHandler := handler.NewStudentHandler(db, ethClient, contracts)
		students := v1.Group("/students")
		{
			students.GET("/:address", studentHandler.GetStatus)
			students.GET("/:address/requests", requestHandler.ListStudentRequests)
			students.POST("/:address/requests", requestHandler.SubmitRequest)
		}

		// 学生侧写操作，用服务签名账户提交
		student := v1.Group("/student")
		{
			student.POST("/approve", studentHandler.Approve)
			student.POST("/deposit", studentHandler.Deposit)
			student.POST("/borrow", studentHandler.Borrow)
			student.POST("/repay", studentHandler.Repay)
			student.POST("/evaluate", studentHandler.Evaluate)
			student.POST("/mint", studentHandler.Mint)
		}

		// 交易状态查询
		txHandler := handler.NewTxHandler(db)
		v1.GET("/txs/:hash", txHandler.GetTx)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
