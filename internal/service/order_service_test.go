package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderTestEnv struct {
	svc        *OrderService
	creditSvc  *CreditService
	paymentSvc *PaymentService
	db         *gorm.DB
	merchantID uint
	skuID      uint
	userID     uint
}

func setupOrderServiceTest(t *testing.T) *orderTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Merchant{},
		&models.MerchantSKU{},
		&models.Device{},
		&models.ShippingTemplate{},
		&models.ReturnInfo{},
		&models.CreditAccount{},
		&models.CreditTransaction{},
		&models.Order{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	orderRepo := repository.NewOrderRepository(db)
	skuRepo := repository.NewSKURepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	tmplRepo := repository.NewShippingTemplateRepository(db)
	returnRepo := repository.NewReturnInfoRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	creditSvc := NewCreditService(repository.NewCreditRepository(db))
	orderSvc := NewOrderService(orderRepo, skuRepo, deviceRepo, tmplRepo, returnRepo, paymentRepo, creditSvc)
	paymentSvc := NewPaymentService(paymentRepo, orderRepo, orderSvc)

	env := &orderTestEnv{
		svc:        orderSvc,
		creditSvc:  creditSvc,
		paymentSvc: paymentSvc,
		db:         db,
		merchantID: 1,
		userID:     301,
	}

	merchant := models.Merchant{ID: env.merchantID, Name: "华南设备租赁", Status: "active"}
	if err := db.Create(&merchant).Error; err != nil {
		t.Fatalf("create merchant failed: %v", err)
	}
	tmpl := models.ShippingTemplate{
		MerchantID: env.merchantID,
		Name:       "默认模板",
		IsDefault:  true,
		Active:     true,
		DefaultFee: models.NewMoneyFromInt(20),
		Rules: models.RegionRules{
			{RegionCodePath: "440000", Label: "广东省", Fee: models.NewMoneyFromInt(10)},
			{RegionCodePath: "440305", Label: "深圳市南山区", Fee: models.NewMoneyFromInt(5)},
		},
		Blacklist: models.BlacklistRegions{
			{RegionCodePath: "110000", Label: "北京市", Reason: "该区域暂不支持发货"},
		},
		Version: 1,
	}
	if err := db.Create(&tmpl).Error; err != nil {
		t.Fatalf("create template failed: %v", err)
	}
	returnInfo := models.ReturnInfo{
		MerchantID: env.merchantID,
		Address: models.Address{
			Contact:  "退货仓",
			Phone:    "075500000000",
			Province: "广东省",
			City:     "深圳市",
			District: "宝安区",
			Street:   "仓储路 1 号",
		},
		IsDefault: true,
		Active:    true,
	}
	if err := db.Create(&returnInfo).Error; err != nil {
		t.Fatalf("create return info failed: %v", err)
	}
	sku := models.MerchantSKU{
		MerchantID:  env.merchantID,
		Name:        "工业级全站仪",
		Model:       "ZT-9",
		DailyFee:    models.NewMoneyFromInt(100),
		DeviceValue: models.NewMoneyFromInt(3000),
		Status:      constants.SKUStatusActive,
	}
	if err := db.Create(&sku).Error; err != nil {
		t.Fatalf("create sku failed: %v", err)
	}
	env.skuID = sku.ID

	if _, err := creditSvc.CreateAccount(env.userID, env.merchantID, models.NewMoneyFromInt(5000)); err != nil {
		t.Fatalf("create credit account failed: %v", err)
	}
	return env
}

func shenzhenAddress() models.Address {
	return models.Address{
		Contact:  "张工",
		Phone:    "13800000000",
		Province: "广东省",
		City:     "深圳市",
		District: "南山区",
		Street:   "科技园南路 88 号",
	}
}

func (env *orderTestEnv) createOrder(t *testing.T, start, end time.Time) *models.Order {
	t.Helper()
	order, err := env.svc.CreateOrder(CreateOrderInput{
		UserID:        env.userID,
		SKUID:         env.skuID,
		RentStartDate: start,
		RentEndDate:   end,
		Address:       shenzhenAddress(),
		Operator:      "customer:301",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderServiceCreateOrder(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Date(2025, 10, 23, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, 10, 30, 0, 0, 0, 0, time.Local)

	order := env.createOrder(t, start, end)
	if order.RentDays != 7 {
		t.Fatalf("rent_days want 7 got %d", order.RentDays)
	}
	if !strings.HasPrefix(order.OrderNo, "ZL") {
		t.Fatalf("unexpected order_no: %s", order.OrderNo)
	}
	// 最长前缀命中 440305 规则的 5 元运费
	if !order.ShippingFeeSnapshot.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("shipping_fee want 5 got %s", order.ShippingFeeSnapshot.String())
	}
	// 700 租金 + 5 运费
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(705)) {
		t.Fatalf("total want 705 got %s", order.TotalAmount.String())
	}
	if !order.CreditHoldAmount.Decimal.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("credit_hold want 3000 got %s", order.CreditHoldAmount.String())
	}
	if order.ShippingAddress.RegionCode != "440305" {
		t.Fatalf("region_code want 440305 got %s", order.ShippingAddress.RegionCode)
	}
	if len(order.History) != 1 || order.History[0].Status != constants.OrderStatusNew {
		t.Fatalf("status history must seed with new: %+v", order.History)
	}
	if order.ReturnAddress.IsZero() {
		t.Fatal("return address must auto-populate from merchant default")
	}

	account, _ := env.creditSvc.GetAccount(env.userID, env.merchantID)
	if !account.UsedCredit.Decimal.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("credit must be frozen on create, used=%s", account.UsedCredit.String())
	}

	payments, err := env.paymentSvc.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list payments failed: %v", err)
	}
	if len(payments) != 1 || payments[0].Type != constants.PaymentTypeRent || payments[0].Status != constants.PaymentStatusPending {
		t.Fatalf("expected one pending rent payment, got %+v", payments)
	}
}

func TestOrderServiceCreateOrderInsufficientCreditAllOrNothing(t *testing.T) {
	env := setupOrderServiceTest(t)
	// 占掉大部分额度，再下单冻结 3000 必然失败
	if err := env.creditSvc.Freeze(env.userID, env.merchantID, models.NewMoneyFromInt(4000), nil, "freeze:test:pre"); err != nil {
		t.Fatalf("pre-freeze failed: %v", err)
	}

	_, err := env.svc.CreateOrder(CreateOrderInput{
		UserID:        env.userID,
		SKUID:         env.skuID,
		RentStartDate: time.Now(),
		RentEndDate:   time.Now().AddDate(0, 0, 7),
		Address:       shenzhenAddress(),
	})
	if !errors.Is(err, ErrCreditInsufficient) {
		t.Fatalf("expected insufficient credit, got: %v", err)
	}

	var count int64
	if err := env.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed freeze must roll back the order, got %d rows", count)
	}
}

func TestOrderServiceCreateOrderBlacklistedRegion(t *testing.T) {
	env := setupOrderServiceTest(t)
	addr := models.Address{
		Contact:    "李工",
		Phone:      "13900000000",
		RegionCode: "110105",
		Street:     "望京街 1 号",
	}
	_, err := env.svc.CreateOrder(CreateOrderInput{
		UserID:        env.userID,
		SKUID:         env.skuID,
		RentStartDate: time.Now(),
		RentEndDate:   time.Now().AddDate(0, 0, 7),
		Address:       addr,
	})
	if !errors.Is(err, ErrRegionBlacklisted) {
		t.Fatalf("expected blacklisted region, got: %v", err)
	}
}

func TestOrderServiceCreateOrderAddressFieldErrors(t *testing.T) {
	env := setupOrderServiceTest(t)
	addr := shenzhenAddress()
	addr.Contact = ""
	_, err := env.svc.CreateOrder(CreateOrderInput{
		UserID:        env.userID,
		SKUID:         env.skuID,
		RentStartDate: time.Now(),
		RentEndDate:   time.Now().AddDate(0, 0, 7),
		Address:       addr,
	})
	if !errors.Is(err, ErrAddressInvalid) {
		t.Fatalf("expected address invalid, got: %v", err)
	}
	if !strings.Contains(err.Error(), "联系人") {
		t.Fatalf("error must name the missing field: %v", err)
	}
}

func TestOrderServiceFullLifecycleWithOverdue(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))

	// 支付 → 自动进入待发货
	order, err := env.svc.TransitionOrder(TransitionInput{
		OrderID:  order.ID,
		Target:   constants.OrderStatusPaid,
		Operator: "customer:301",
	})
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if order.Status != constants.OrderStatusToShip {
		t.Fatalf("paid must auto-advance to to_ship, got %s", order.Status)
	}
	if order.PaidAt == nil {
		t.Fatal("paid_at must be stamped")
	}

	// 发货：设备自动建档为在途，计费起始日为次日零点
	order, err = env.svc.TransitionOrder(TransitionInput{
		OrderID:  order.ID,
		Target:   constants.OrderStatusShipped,
		Operator: "merchant:1",
		DeviceSN: "ZT9-0001",
	})
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if order.DeviceSN != "ZT9-0001" || order.DeviceID == nil {
		t.Fatalf("device must be bound: %+v", order)
	}
	if order.ActualStartDate == nil {
		t.Fatal("actual_start_date must be set on ship")
	}
	gotStart := *order.ActualStartDate
	if gotStart.Hour() != 0 || gotStart.Minute() != 0 || !gotStart.After(*order.ShippedAt) {
		t.Fatalf("actual_start_date must be next midnight after ship, got %s", gotStart)
	}
	var device models.Device
	if err := env.db.Where("sn = ?", "ZT9-0001").First(&device).Error; err != nil {
		t.Fatalf("auto-provisioned device missing: %v", err)
	}
	if device.Status != constants.DeviceStatusInTransit || device.SKUID != env.skuID {
		t.Fatalf("unexpected device record: %+v", device)
	}

	for _, target := range []string{constants.OrderStatusInRent, constants.OrderStatusReturning} {
		order, err = env.svc.TransitionOrder(TransitionInput{
			OrderID:  order.ID,
			Target:   target,
			Operator: "merchant:1",
		})
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
	}

	// T+9 归还，租期 7 天 ⇒ 逾期 2 天，逾期费 200
	confirmAt := order.ActualStartDate.AddDate(0, 0, 9)
	order, err = env.svc.TransitionOrder(TransitionInput{
		OrderID:         order.ID,
		Target:          constants.OrderStatusReturned,
		Operator:        "merchant:1",
		ReturnConfirmAt: &confirmAt,
	})
	if err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if !order.IsOverdue || order.OverdueDays != 2 {
		t.Fatalf("overdue want 2 days got %+v", order)
	}
	if !order.OverdueAmount.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("overdue_amount want 200 got %s", order.OverdueAmount.String())
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(905)) {
		t.Fatalf("total want 905 got %s", order.TotalAmount.String())
	}

	// 逾期费未结清时完成被拒
	_, err = env.svc.TransitionOrder(TransitionInput{
		OrderID:  order.ID,
		Target:   constants.OrderStatusCompleted,
		Operator: "merchant:1",
	})
	if !errors.Is(err, ErrOverdueUnpaid) {
		t.Fatalf("completion must be blocked by unpaid overdue, got: %v", err)
	}

	// 支付逾期费后完成放行，授信释放
	payments, _ := env.paymentSvc.ListByOrder(order.ID)
	var overduePaymentID uint
	for _, p := range payments {
		if p.Type == constants.PaymentTypeOverdue && p.Status == constants.PaymentStatusPending {
			overduePaymentID = p.ID
		}
	}
	if overduePaymentID == 0 {
		t.Fatalf("pending overdue payment missing: %+v", payments)
	}
	if _, err := env.paymentSvc.MarkPaid(overduePaymentID, "manual", "", "merchant:1"); err != nil {
		t.Fatalf("pay overdue failed: %v", err)
	}

	order, err = env.svc.TransitionOrder(TransitionInput{
		OrderID:  order.ID,
		Target:   constants.OrderStatusCompleted,
		Operator: "merchant:1",
	})
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if order.CreditReleasedAt == nil || order.CompletedAt == nil {
		t.Fatalf("completion must release credit and stamp completed_at: %+v", order)
	}
	account, _ := env.creditSvc.GetAccount(env.userID, env.merchantID)
	if !account.UsedCredit.Decimal.IsZero() {
		t.Fatalf("credit must be fully released, used=%s", account.UsedCredit.String())
	}

	// 终态后不允许再流转
	if _, err := env.svc.TransitionOrder(TransitionInput{
		OrderID: order.ID,
		Target:  constants.OrderStatusCanceled,
		Force:   true,
	}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("terminal order must reject transitions, got: %v", err)
	}
}

func TestOrderServiceReturnOnTimeClearsOverdue(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))

	for _, target := range []string{
		constants.OrderStatusPaid,
		constants.OrderStatusShipped,
		constants.OrderStatusInRent,
		constants.OrderStatusReturning,
	} {
		var err error
		order, err = env.svc.TransitionOrder(TransitionInput{
			OrderID: order.ID, Target: target, Operator: "test",
		})
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
	}

	confirmAt := order.ActualStartDate.AddDate(0, 0, 6)
	order, err := env.svc.TransitionOrder(TransitionInput{
		OrderID:         order.ID,
		Target:          constants.OrderStatusReturned,
		ReturnConfirmAt: &confirmAt,
	})
	if err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if order.IsOverdue || order.OverdueDays != 0 || !order.OverdueAmount.Decimal.IsZero() {
		t.Fatalf("on-time return must clear overdue fields: %+v", order)
	}

	order, err = env.svc.TransitionOrder(TransitionInput{
		OrderID: order.ID,
		Target:  constants.OrderStatusCompleted,
	})
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
}

func TestOrderServiceCancelReleasesCreditAndRefunds(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))

	order, err := env.svc.TransitionOrder(TransitionInput{
		OrderID: order.ID, Target: constants.OrderStatusPaid, Operator: "customer:301",
	})
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	order, err = env.svc.TransitionOrder(TransitionInput{
		OrderID: order.ID, Target: constants.OrderStatusCanceled, Operator: "customer:301",
	})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if order.CreditReleasedAt == nil || order.CanceledAt == nil {
		t.Fatalf("cancel must release credit: %+v", order)
	}
	account, _ := env.creditSvc.GetAccount(env.userID, env.merchantID)
	if !account.UsedCredit.Decimal.IsZero() {
		t.Fatalf("credit must be released on cancel, used=%s", account.UsedCredit.String())
	}

	payments, _ := env.paymentSvc.ListByOrder(order.ID)
	var refundFound bool
	for _, p := range payments {
		if p.Type == constants.PaymentTypeCancelRefund && p.Amount.Decimal.Equal(decimal.NewFromInt(-705)) {
			refundFound = true
		}
	}
	if !refundFound {
		t.Fatalf("paid order cancel must create refund record: %+v", payments)
	}
}

func TestOrderServiceShipRejectsMismatchedDevice(t *testing.T) {
	env := setupOrderServiceTest(t)
	otherSKU := models.MerchantSKU{
		MerchantID:  env.merchantID,
		Name:        "其他型号",
		DailyFee:    models.NewMoneyFromInt(50),
		DeviceValue: models.NewMoneyFromInt(1000),
		Status:      constants.SKUStatusActive,
	}
	if err := env.db.Create(&otherSKU).Error; err != nil {
		t.Fatalf("create other sku failed: %v", err)
	}
	device := models.Device{
		SN:         "OTHER-001",
		SKUID:      otherSKU.ID,
		MerchantID: env.merchantID,
		Status:     constants.DeviceStatusInStock,
	}
	if err := env.db.Create(&device).Error; err != nil {
		t.Fatalf("create device failed: %v", err)
	}

	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))
	if _, err := env.svc.TransitionOrder(TransitionInput{
		OrderID: order.ID, Target: constants.OrderStatusPaid,
	}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	_, err := env.svc.TransitionOrder(TransitionInput{
		OrderID:  order.ID,
		Target:   constants.OrderStatusShipped,
		DeviceSN: "OTHER-001",
	})
	if !errors.Is(err, ErrDeviceSKUMismatch) {
		t.Fatalf("expected sku mismatch, got: %v", err)
	}
}

func TestOrderServiceInvalidTransitionRejected(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))

	_, err := env.svc.TransitionOrder(TransitionInput{
		OrderID: order.ID,
		Target:  constants.OrderStatusShipped,
	})
	if !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("new → shipped must be rejected, got: %v", err)
	}
}
