package provider

import (
	"github.com/zulin-next/internal/cache"
	"github.com/zulin-next/internal/config"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/payment/wechatpay"
	"github.com/zulin-next/internal/queue"
	"github.com/zulin-next/internal/repository"
	"github.com/zulin-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo       repository.UserRepository
	MerchantRepo   repository.MerchantRepository
	SKURepo        repository.SKURepository
	DeviceRepo     repository.DeviceRepository
	TemplateRepo   repository.ShippingTemplateRepository
	ReturnInfoRepo repository.ReturnInfoRepository
	CreditRepo     repository.CreditRepository
	OrderRepo      repository.OrderRepository
	PaymentRepo    repository.PaymentRepository

	// Services
	UserAuthService *service.UserAuthService
	MerchantService *service.MerchantService
	TemplateService *service.TemplateService
	CreditService   *service.CreditService
	OrderService    *service.OrderService
	PaymentService  *service.PaymentService

	// WechatProvider 微信支付提供方，未启用时为 nil
	WechatProvider *wechatpay.Provider
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.MerchantRepo = repository.NewMerchantRepository(db)
	c.SKURepo = repository.NewSKURepository(db)
	c.DeviceRepo = repository.NewDeviceRepository(db)
	c.TemplateRepo = repository.NewShippingTemplateRepository(db)
	c.ReturnInfoRepo = repository.NewReturnInfoRepository(db)
	c.CreditRepo = repository.NewCreditRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.MerchantService = service.NewMerchantService(c.MerchantRepo, c.SKURepo, c.DeviceRepo, c.ReturnInfoRepo)
	c.TemplateService = service.NewTemplateService(c.TemplateRepo)
	c.CreditService = service.NewCreditService(c.CreditRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.SKURepo,
		c.DeviceRepo,
		c.TemplateRepo,
		c.ReturnInfoRepo,
		c.PaymentRepo,
		c.CreditService,
	)
	c.OrderService.SetMaxRentDays(c.Config.Rental.MaxRentDays)
	if c.QueueClient.Enabled() {
		c.OrderService.SetNotifier(c.QueueClient)
	}
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo, c.OrderService)

	if c.Config.WeChat.Enabled {
		wechatProvider, err := wechatpay.NewProvider(c.Config.WeChat)
		if err != nil {
			logger.Errorw("provider_init_wechatpay_failed", "error", err)
		} else {
			c.WechatProvider = wechatProvider
			c.PaymentService.SetPrepayer(wechatProvider)
		}
	}
}
