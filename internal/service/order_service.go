package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/region"
	"github.com/zulin-next/internal/repository"
	"github.com/zulin-next/internal/shipping"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusNotifier 订单状态变更通知（异步投递，失败不阻塞主流程）
type StatusNotifier interface {
	EnqueueStatusNotify(orderID uint, status string)
}

// OrderService 订单服务：状态机、定价与授信冻结的协调者
type OrderService struct {
	orderRepo   repository.OrderRepository
	skuRepo     repository.SKURepository
	deviceRepo  repository.DeviceRepository
	tmplRepo    repository.ShippingTemplateRepository
	returnRepo  repository.ReturnInfoRepository
	paymentRepo repository.PaymentRepository
	creditSvc   *CreditService
	notifier    StatusNotifier
	maxRentDays int
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	skuRepo repository.SKURepository,
	deviceRepo repository.DeviceRepository,
	tmplRepo repository.ShippingTemplateRepository,
	returnRepo repository.ReturnInfoRepository,
	paymentRepo repository.PaymentRepository,
	creditSvc *CreditService,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		skuRepo:     skuRepo,
		deviceRepo:  deviceRepo,
		tmplRepo:    tmplRepo,
		returnRepo:  returnRepo,
		paymentRepo: paymentRepo,
		creditSvc:   creditSvc,
	}
}

// SetNotifier 注入状态变更通知器
func (s *OrderService) SetNotifier(notifier StatusNotifier) {
	s.notifier = notifier
}

// SetMaxRentDays 设置租期上限（0 表示不限）
func (s *OrderService) SetMaxRentDays(days int) {
	s.maxRentDays = days
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	UserID        uint
	SKUID         uint
	RentStartDate time.Time
	RentEndDate   time.Time
	Address       models.Address
	Operator      string
}

// CreateOrder 创建订单：SKU 快照、模板解析、地址校验、运费计算、
// 授信冻结与订单落库在同一事务内完成，任一步失败则整体回滚。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	sku, err := s.skuRepo.GetByID(input.SKUID)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, ErrSKUNotFound
	}
	if sku.Status != constants.SKUStatusActive {
		return nil, ErrSKUInactive
	}

	rentDays := rentDaysBetween(input.RentStartDate, input.RentEndDate)
	if rentDays <= 0 {
		return nil, ErrRentPeriodInvalid
	}
	if s.maxRentDays > 0 && rentDays > s.maxRentDays {
		return nil, fmt.Errorf("%w: %d 天", ErrRentPeriodTooLong, rentDays)
	}

	addr, err := resolveAddress(input.Address)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.resolveTemplate(sku)
	if err != nil {
		return nil, err
	}
	feeResult := shipping.CalculateFee(tmpl, addr)
	if feeResult.IsBlacklisted {
		return nil, fmt.Errorf("%w: %s", ErrRegionBlacklisted, feeResult.BlacklistReason)
	}

	returnInfo, err := s.returnRepo.GetDefaultByMerchant(sku.MerchantID)
	if err != nil {
		return nil, err
	}
	if returnInfo == nil {
		return nil, ErrReturnInfoNotFound
	}

	now := time.Now()
	rentTotal := sku.DailyFee.Decimal.Mul(decimal.NewFromInt(int64(rentDays)))
	total := rentTotal.Add(feeResult.Fee.Decimal).Round(2)

	order := &models.Order{
		OrderNo:             generateOrderNo(),
		UserID:              input.UserID,
		MerchantID:          sku.MerchantID,
		SKUID:               sku.ID,
		Status:              constants.OrderStatusNew,
		RentStartDate:       input.RentStartDate,
		RentEndDate:         input.RentEndDate,
		RentDays:            rentDays,
		DailyFeeSnapshot:    sku.DailyFee,
		DeviceValueSnapshot: sku.DeviceValue,
		ShippingFeeSnapshot: feeResult.Fee,
		CreditHoldAmount:    sku.DeviceValue,
		TotalAmount:         models.NewMoneyFromDecimal(total),
		ShippingAddress:     addr,
		ReturnAddress:       returnInfo.Address,
		History: models.StatusHistory{{
			Status:    constants.OrderStatusNew,
			Operator:  input.Operator,
			ChangedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		reference := fmt.Sprintf("freeze:order:%d", order.ID)
		if err := s.creditSvc.FreezeTx(tx, order.UserID, order.MerchantID, order.CreditHoldAmount, &order.ID, reference); err != nil {
			return err
		}
		rentPayment := &models.Payment{
			OrderID:   order.ID,
			Type:      constants.PaymentTypeRent,
			Amount:    order.TotalAmount,
			Status:    constants.PaymentStatusPending,
			Remark:    "租金与运费",
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.paymentRepo.WithTx(tx).Create(rentPayment)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"merchant_id", order.MerchantID,
		"sku_id", order.SKUID,
		"rent_days", order.RentDays,
		"total_amount", order.TotalAmount.String(),
		"credit_hold", order.CreditHoldAmount.String(),
	)
	return order, nil
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderForUser 获取客户自己的订单详情
func (s *OrderService) GetOrderForUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 分页查询订单
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// DeleteOrder 硬删除订单（仅平台管理员，终态订单）
func (s *OrderService) DeleteOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !isTerminalStatus(order.Status) {
		return ErrOrderStatusInvalid
	}
	if err := s.orderRepo.Delete(orderID); err != nil {
		return err
	}
	logger.Infow("order_deleted", "order_no", order.OrderNo, "order_id", order.ID)
	return nil
}

// resolveTemplate 解析运费模板：SKU 专属模板优先，其次商户默认模板
func (s *OrderService) resolveTemplate(sku *models.MerchantSKU) (*models.ShippingTemplate, error) {
	if sku.ShippingTemplateID != nil {
		tmpl, err := s.tmplRepo.GetByID(*sku.ShippingTemplateID)
		if err != nil {
			return nil, err
		}
		if tmpl != nil && tmpl.Active {
			return tmpl, nil
		}
	}
	tmpl, err := s.tmplRepo.GetDefaultByMerchant(sku.MerchantID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrShippingTemplateNotFound
	}
	return tmpl, nil
}

// resolveAddress 交叉校验并补全地址：权威码表优先，启发式解析兜底，
// 缺失字段按字段名逐个报错。
func resolveAddress(addr models.Address) (models.Address, error) {
	addr.Contact = strings.TrimSpace(addr.Contact)
	addr.Phone = strings.TrimSpace(addr.Phone)
	addr.Province = strings.TrimSpace(addr.Province)
	addr.City = strings.TrimSpace(addr.City)
	addr.District = strings.TrimSpace(addr.District)
	addr.Street = strings.TrimSpace(addr.Street)
	addr.RegionCode = strings.TrimSpace(addr.RegionCode)

	if addr.Contact == "" {
		return addr, fmt.Errorf("%w: 缺少联系人", ErrAddressInvalid)
	}
	if addr.Phone == "" {
		return addr, fmt.Errorf("%w: 缺少联系电话", ErrAddressInvalid)
	}

	// 行政区划名缺失时先尝试从详细地址启发式解析
	if addr.Province == "" && addr.City == "" && addr.District == "" && addr.RegionCode == "" && addr.Street != "" {
		parsed := region.ParseAddress(addr.Street)
		addr.Province = parsed.Province
		addr.City = parsed.City
		addr.District = parsed.District
		if parsed.Street != "" {
			addr.Street = parsed.Street
		}
	}

	// 码表优先：有码补名，有名补码
	if addr.RegionCode != "" {
		if names, ok := region.NameForCode(addr.RegionCode); ok {
			if addr.Province == "" {
				addr.Province = names.Province
			}
			if addr.City == "" {
				addr.City = names.City
			}
			if addr.District == "" {
				addr.District = names.District
			}
		}
	} else if addr.Province != "" {
		if code, ok := region.CodeForNames(addr.Province, addr.City, addr.District); ok {
			addr.RegionCode = code
		}
	}

	if addr.Province == "" {
		return addr, fmt.Errorf("%w: 缺少省份", ErrAddressInvalid)
	}
	if addr.City == "" {
		return addr, fmt.Errorf("%w: 缺少城市", ErrAddressInvalid)
	}
	if addr.District == "" {
		return addr, fmt.Errorf("%w: 缺少区县", ErrAddressInvalid)
	}
	if addr.Street == "" {
		return addr, fmt.Errorf("%w: 缺少详细地址", ErrAddressInvalid)
	}
	return addr, nil
}

// rentDaysBetween 计算租期天数 = ceil((end − start) / 24h)
func rentDaysBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	hours := end.Sub(start).Hours()
	days := int(hours / 24)
	if hours > float64(days)*24 {
		days++
	}
	return days
}

func isTerminalStatus(status string) bool {
	return status == constants.OrderStatusCompleted || status == constants.OrderStatusCanceled
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("ZL%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
