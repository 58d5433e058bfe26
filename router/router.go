package router

import (
	"time"

	"fintrack/api"
	"fintrack/config"
	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, verifier service.GoogleVerifier) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件，Cookie 会话要求指定具体前端地址
	r.Use(CORSMiddleware(cfg.Server.FrontendURL))

	// 认证相关路由（无需登录）
	authHandler := api.NewAuthHandler(cfg, verifier)
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	// 商家搜索（输入联想，无需登录）
	companyHandler := api.NewCompanyHandler()
	r.GET("/companies", companyHandler.List)

	// 需要会话认证的路由
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth())
	{
		authorized.GET("/auth/profile", authHandler.GetProfile)

		authorized.POST("/companies", companyHandler.Create)

		categoryHandler := api.NewCategoryHandler()
		authorized.GET("/categories", categoryHandler.List)
		authorized.POST("/categories", categoryHandler.Create)

		incomeHandler := api.NewIncomeHandler()
		income := authorized.Group("/income")
		{
			income.POST("", incomeHandler.Create)
			income.GET("", incomeHandler.List)
			income.GET("/years", incomeHandler.Years)
			income.DELETE("/:id", incomeHandler.Delete)
		}

		transactionHandler := api.NewTransactionHandler()
		transactions := authorized.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		netWorthHandler := api.NewNetWorthHandler()
		networth := authorized.Group("/networth")
		{
			networth.POST("", netWorthHandler.Create)
			networth.GET("", netWorthHandler.Yearly)
			networth.GET("/current", netWorthHandler.Current)
			networth.GET("/all", netWorthHandler.All)
			networth.PUT("/:date", netWorthHandler.Update)
			networth.DELETE("/:date", netWorthHandler.Delete)
		}

		exportHandler := api.NewExportHandler()
		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件，携带 Cookie 时浏览器不接受通配符 origin
func CORSMiddleware(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", frontendURL)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
