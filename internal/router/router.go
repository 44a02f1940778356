package router

import (
	"fmt"
	"strings"

	"github.com/zulin-next/internal/cache"
	"github.com/zulin-next/internal/config"
	"github.com/zulin-next/internal/constants"
	adminhandlers "github.com/zulin-next/internal/http/handlers/admin"
	publichandlers "github.com/zulin-next/internal/http/handlers/public"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "zl"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 设备目录（无需登录）
		apiV1.GET("/skus", publicHandler.ListSKUs)
		apiV1.GET("/skus/:id", publicHandler.GetSKU)

		// 微信支付回调（无鉴权，验签保证来源）
		apiV1.POST("/payments/wechat/notify", publicHandler.WechatPayNotify)

		// 客户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Profile)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			user.PUT("/orders/:id/address", publicHandler.ChangeOrderAddress)
			user.GET("/orders/:id/payments", publicHandler.ListOrderPayments)
			user.POST("/payments/:id/wechat/prepay", publicHandler.CreateWechatPrepay)
			user.GET("/credit/account", publicHandler.GetCreditAccount)
			user.GET("/credit/transactions", publicHandler.ListCreditTransactions)
		}

		// 管理端接口（商户管理员/平台管理员）
		admin := apiV1.Group("/admin")
		admin.Use(
			JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo),
			RequireRoles(constants.RoleMerchantAdmin, constants.RolePlatformAdmin),
		)
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.POST("/orders/:id/transition", adminHandler.TransitionOrder)
			admin.DELETE("/orders/:id", adminHandler.DeleteOrder)

			admin.POST("/credit/accounts", adminHandler.CreateCreditAccount)
			admin.PUT("/credit/accounts/limit", adminHandler.AdjustCreditLimit)
			admin.PUT("/credit/accounts/status", adminHandler.SetCreditStatus)
			admin.GET("/credit/accounts", adminHandler.ListCreditAccounts)
			admin.GET("/credit/transactions", adminHandler.ListCreditTransactions)

			admin.POST("/merchants", adminHandler.CreateMerchant)
			admin.GET("/merchants", adminHandler.ListMerchants)
			admin.GET("/merchants/:id", adminHandler.GetMerchant)

			admin.POST("/skus", adminHandler.CreateSKU)
			admin.PUT("/skus/:id", adminHandler.UpdateSKU)
			admin.GET("/skus", adminHandler.ListSKUs)

			admin.POST("/devices", adminHandler.RegisterDevice)
			admin.PUT("/devices/:id/status", adminHandler.UpdateDeviceStatus)
			admin.GET("/devices", adminHandler.ListDevices)

			admin.POST("/return-infos", adminHandler.CreateReturnInfo)
			admin.PUT("/return-infos/:id/default", adminHandler.SetDefaultReturnInfo)
			admin.GET("/return-infos", adminHandler.ListReturnInfos)

			admin.POST("/shipping-templates", adminHandler.CreateTemplate)
			admin.GET("/shipping-templates", adminHandler.ListTemplates)
			admin.GET("/shipping-templates/:id", adminHandler.GetTemplate)
			admin.PUT("/shipping-templates/:id", adminHandler.UpdateTemplate)
			admin.DELETE("/shipping-templates/:id", adminHandler.DeleteTemplate)
			admin.POST("/shipping-templates/:id/preview-fee", adminHandler.PreviewFee)

			admin.GET("/payments", adminHandler.ListPayments)
			admin.POST("/payments", adminHandler.CreatePayment)
			admin.POST("/payments/:id/mark-paid", adminHandler.MarkPaymentPaid)
			admin.POST("/payments/:id/mark-refunded", adminHandler.MarkPaymentRefunded)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
