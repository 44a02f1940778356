package main

import (
	"os"
	"time"

	"github.com/zulin-next/internal/config"
	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	now := time.Now()

	// 商户
	merchant := models.Merchant{
		Name:         "华南设备租赁",
		ContactName:  "李工",
		ContactPhone: "13800000001",
		Status:       models.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var existingMerchant models.Merchant
	if err := models.DB.Where("name = ?", merchant.Name).First(&existingMerchant).Error; err != nil {
		if err := models.DB.Create(&merchant).Error; err != nil {
			stdLog.Fatalf("创建商户失败: %v", err)
		}
		stdLog.Printf("已创建商户: %s", merchant.Name)
	} else {
		merchant = existingMerchant
		stdLog.Printf("商户已存在: %s", merchant.Name)
	}

	// 运费模板
	template := models.ShippingTemplate{
		MerchantID: merchant.ID,
		Name:       "默认运费模板",
		IsDefault:  true,
		Active:     true,
		DefaultFee: models.NewMoneyFromInt(20),
		Rules: models.RegionRules{
			{RegionCodePath: "440000", Label: "广东省", Fee: models.NewMoneyFromInt(10)},
			{RegionCodePath: "440305", Label: "深圳市南山区", Fee: models.NewMoneyFromInt(5)},
		},
		Blacklist: models.BlacklistRegions{
			{RegionCodePath: "110000", Label: "北京市", Reason: "暂不支持京区配送"},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var existingTemplate models.ShippingTemplate
	if err := models.DB.Where("merchant_id = ? AND name = ?", merchant.ID, template.Name).
		First(&existingTemplate).Error; err != nil {
		if err := models.DB.Create(&template).Error; err != nil {
			stdLog.Fatalf("创建运费模板失败: %v", err)
		}
		stdLog.Printf("已创建运费模板: %s", template.Name)
	} else {
		template = existingTemplate
	}

	// 默认退货点
	returnInfo := models.ReturnInfo{
		MerchantID: merchant.ID,
		Address: models.Address{
			Contact:    "仓库收货组",
			Phone:      "0755-88880000",
			Province:   "广东省",
			City:       "深圳市",
			District:   "南山区",
			Street:     "科技园路 8 号仓储中心",
			RegionCode: "440305",
		},
		IsDefault: true,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var existingReturn models.ReturnInfo
	if err := models.DB.Where("merchant_id = ? AND is_default = ?", merchant.ID, true).
		First(&existingReturn).Error; err != nil {
		if err := models.DB.Create(&returnInfo).Error; err != nil {
			stdLog.Fatalf("创建退货点失败: %v", err)
		}
		stdLog.Printf("已创建默认退货点")
	}

	// SKU 与设备
	skus := []models.MerchantSKU{
		{
			MerchantID:  merchant.ID,
			Name:        "工业级全站仪",
			Model:       "TS-09",
			DailyFee:    models.NewMoneyFromInt(100),
			DeviceValue: models.NewMoneyFromInt(3000),
			Status:      constants.SKUStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			MerchantID:  merchant.ID,
			Name:        "激光水平仪",
			Model:       "LL-3P",
			DailyFee:    models.NewMoneyFromDecimal(decimal.NewFromFloat(39.5)),
			DeviceValue: models.NewMoneyFromInt(1200),
			Status:      constants.SKUStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	for i := range skus {
		var existing models.MerchantSKU
		if err := models.DB.Where("merchant_id = ? AND name = ?", merchant.ID, skus[i].Name).
			First(&existing).Error; err != nil {
			if err := models.DB.Create(&skus[i]).Error; err != nil {
				stdLog.Fatalf("创建 SKU 失败: %v", err)
			}
			stdLog.Printf("已创建 SKU: %s", skus[i].Name)
		} else {
			skus[i] = existing
		}

		sn := skus[i].Model + "-0001"
		var existingDevice models.Device
		if err := models.DB.Where("sn = ?", sn).First(&existingDevice).Error; err != nil {
			device := models.Device{
				SN:         sn,
				SKUID:      skus[i].ID,
				MerchantID: merchant.ID,
				Status:     constants.DeviceStatusInStock,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := models.DB.Create(&device).Error; err != nil {
				stdLog.Fatalf("创建设备失败: %v", err)
			}
			stdLog.Printf("已创建设备: %s", sn)
		}
	}

	// 用户：平台管理员、商户管理员、示例客户
	adminPassword := os.Getenv("ZL_DEFAULT_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin-change-me"
		stdLog.Printf("警告: 未设置 ZL_DEFAULT_ADMIN_PASSWORD，使用默认密码")
	}
	users := []struct {
		email    string
		name     string
		role     string
		merchant *uint
		password string
	}{
		{"admin@zulin.local", "平台管理员", constants.RolePlatformAdmin, nil, adminPassword},
		{"ops@huanan.local", "华南设备运营", constants.RoleMerchantAdmin, &merchant.ID, adminPassword},
		{"demo@customer.local", "示例客户", constants.RoleCustomer, nil, "demo-password"},
	}
	var customerID uint
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.email).First(&existing).Error; err == nil {
			if u.role == constants.RoleCustomer {
				customerID = existing.ID
			}
			stdLog.Printf("用户已存在: %s", u.email)
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("密码哈希失败: %v", err)
		}
		user := models.User{
			Email:        u.email,
			PasswordHash: string(hashed),
			Name:         u.name,
			Role:         u.role,
			MerchantID:   u.merchant,
			Status:       models.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Fatalf("创建用户失败: %v", err)
		}
		if u.role == constants.RoleCustomer {
			customerID = user.ID
		}
		stdLog.Printf("已创建用户: %s (%s)", u.email, u.role)
	}

	// 示例客户的授信账户
	if customerID != 0 {
		var existingAccount models.CreditAccount
		if err := models.DB.Where("user_id = ? AND merchant_id = ?", customerID, merchant.ID).
			First(&existingAccount).Error; err != nil {
			account := models.CreditAccount{
				UserID:      customerID,
				MerchantID:  merchant.ID,
				CreditLimit: models.NewMoneyFromInt(5000),
				UsedCredit:  models.NewMoneyFromInt(0),
				Status:      constants.CreditStatusActive,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := models.DB.Create(&account).Error; err != nil {
				stdLog.Fatalf("创建授信账户失败: %v", err)
			}
			stdLog.Printf("已创建示例客户授信账户，额度 5000")
		}
	}

	stdLog.Printf("种子数据初始化完成")
}
