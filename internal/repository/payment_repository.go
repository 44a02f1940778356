package repository

import (
	"errors"
	"strings"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository 支付单数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetLatestByProviderRef(providerRef string) (*models.Payment, error)
	ListByOrderID(orderID uint) ([]models.Payment, error)
	GetLatestPendingByOrderType(orderID uint, paymentType string) (*models.Payment, error)
	HasUnpaidByOrderType(orderID uint, paymentType string) (bool, error)
	SumPaidByOrderType(orderID uint, paymentType string) (models.Money, error)
	ListAdmin(filter PaymentListFilter) ([]models.Payment, int64, error)
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付单仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付单
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// Update 更新支付单
func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// GetByID 根据 ID 获取支付单
func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetLatestByProviderRef 根据第三方流水号获取最新支付单
func (r *GormPaymentRepository) GetLatestByProviderRef(providerRef string) (*models.Payment, error) {
	providerRef = strings.TrimSpace(providerRef)
	if providerRef == "" {
		return nil, nil
	}
	var payment models.Payment
	if err := r.db.Where("provider_ref = ?", providerRef).
		Order("id desc").First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// ListByOrderID 获取订单下全部支付单
func (r *GormPaymentRepository) ListByOrderID(orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).
		Order("id asc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetLatestPendingByOrderType 获取订单下某类型最新待支付单
func (r *GormPaymentRepository) GetLatestPendingByOrderType(orderID uint, paymentType string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.
		Where("order_id = ? AND type = ? AND status = ?", orderID, paymentType, constants.PaymentStatusPending).
		Order("id desc").First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// HasUnpaidByOrderType 判断订单下某类型是否还有未支付单
func (r *GormPaymentRepository) HasUnpaidByOrderType(orderID uint, paymentType string) (bool, error) {
	var total int64
	err := r.db.Model(&models.Payment{}).
		Where("order_id = ? AND type = ? AND status = ?", orderID, paymentType, constants.PaymentStatusPending).
		Count(&total).Error
	return total > 0, err
}

// SumPaidByOrderType 汇总订单下某类型已支付金额
func (r *GormPaymentRepository) SumPaidByOrderType(orderID uint, paymentType string) (models.Money, error) {
	var payments []models.Payment
	if err := r.db.
		Where("order_id = ? AND type = ? AND status = ?", orderID, paymentType, constants.PaymentStatusPaid).
		Find(&payments).Error; err != nil {
		return models.Money{}, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount.Decimal)
	}
	return models.NewMoneyFromDecimal(total), nil
}

// ListAdmin 管理端支付单列表
func (r *GormPaymentRepository) ListAdmin(filter PaymentListFilter) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var payments []models.Payment
	if err := query.Order("id desc").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
