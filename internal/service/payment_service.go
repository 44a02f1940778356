package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"

	"github.com/shopspring/decimal"
)

// WechatPrepayer 微信 Native 预下单能力
type WechatPrepayer interface {
	PrepayNative(outTradeNo, description string, amountFen int64) (string, error)
}

// PaymentService 支付台账服务：支付单只追加，状态单向流转
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	orderSvc    *OrderService
	prepayer    WechatPrepayer
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	orderSvc *OrderService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		orderSvc:    orderSvc,
	}
}

// SetPrepayer 注入微信预下单实现
func (s *PaymentService) SetPrepayer(prepayer WechatPrepayer) {
	s.prepayer = prepayer
}

// CreatePaymentInput 手工创建支付单输入
type CreatePaymentInput struct {
	OrderID uint
	Type    string
	Amount  models.Money
	Remark  string
}

// CreatePayment 手工创建支付单（管理端补录）
func (s *PaymentService) CreatePayment(input CreatePaymentInput) (*models.Payment, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	now := time.Now()
	payment := &models.Payment{
		OrderID:   input.OrderID,
		Type:      input.Type,
		Amount:    input.Amount,
		Status:    constants.PaymentStatusPending,
		Remark:    input.Remark,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayment 获取支付单
func (s *PaymentService) GetPayment(paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// ListByOrder 获取订单的支付单列表
func (s *PaymentService) ListByOrder(orderID uint) ([]models.Payment, error) {
	return s.paymentRepo.ListByOrderID(orderID)
}

// ListAdmin 管理端支付单列表
func (s *PaymentService) ListAdmin(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.ListAdmin(filter)
}

// MarkPaid 标记支付完成；租金支付会驱动订单进入已支付状态
func (s *PaymentService) MarkPaid(paymentID uint, method, providerRef, operator string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusPending {
		return nil, fmt.Errorf("%w: %s", ErrPaymentStatusInvalid, payment.Status)
	}

	now := time.Now()
	payment.Status = constants.PaymentStatusPaid
	payment.Method = method
	payment.ProviderRef = providerRef
	payment.PaidAt = &now
	payment.UpdatedAt = now
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	logger.Infow("payment_marked_paid",
		"payment_id", payment.ID,
		"order_id", payment.OrderID,
		"type", payment.Type,
		"amount", payment.Amount.String(),
		"method", method,
	)

	if payment.Type == constants.PaymentTypeRent {
		order, err := s.orderRepo.GetByID(payment.OrderID)
		if err != nil {
			return nil, err
		}
		if order != nil && order.Status == constants.OrderStatusNew {
			if _, err := s.orderSvc.MarkOrderPaid(order.ID, operator); err != nil {
				return nil, err
			}
		}
	}
	return payment, nil
}

// MarkRefunded 标记已退款（仅已支付单）
func (s *PaymentService) MarkRefunded(paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: %s", ErrPaymentStatusInvalid, payment.Status)
	}
	now := time.Now()
	payment.Status = constants.PaymentStatusRefunded
	payment.RefundedAt = &now
	payment.UpdatedAt = now
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// CreateWechatPrepay 发起微信 Native 预下单，返回收款二维码链接与外部单号
func (s *PaymentService) CreateWechatPrepay(paymentID uint) (string, string, error) {
	if s.prepayer == nil {
		return "", "", ErrPaymentStatusInvalid
	}
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return "", "", err
	}
	if payment == nil {
		return "", "", ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusPending {
		return "", "", fmt.Errorf("%w: %s", ErrPaymentStatusInvalid, payment.Status)
	}
	if payment.Amount.Decimal.LessThanOrEqual(decimal.Zero) {
		return "", "", fmt.Errorf("%w: 退款单不支持收款", ErrPaymentStatusInvalid)
	}
	order, err := s.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		return "", "", err
	}
	if order == nil {
		return "", "", ErrOrderNotFound
	}

	outTradeNo := buildOutTradeNo(order.OrderNo, payment.ID)
	amountFen := payment.Amount.Decimal.Mul(decimal.NewFromInt(100)).IntPart()
	description := fmt.Sprintf("设备租赁-%s", order.OrderNo)
	codeURL, err := s.prepayer.PrepayNative(outTradeNo, description, amountFen)
	if err != nil {
		return "", "", err
	}
	return codeURL, outTradeNo, nil
}

// HandleWechatPaid 微信支付回调：按外部单号定位支付单并标记完成
func (s *PaymentService) HandleWechatPaid(outTradeNo, transactionID string) (*models.Payment, error) {
	paymentID, err := parseOutTradeNo(outTradeNo)
	if err != nil {
		return nil, err
	}
	return s.MarkPaid(paymentID, "wechat", transactionID, "wechatpay")
}

// buildOutTradeNo 外部单号 = 订单号-支付单ID，回调时可反解
func buildOutTradeNo(orderNo string, paymentID uint) string {
	return fmt.Sprintf("%s-%d", orderNo, paymentID)
}

func parseOutTradeNo(outTradeNo string) (uint, error) {
	idx := strings.LastIndex(outTradeNo, "-")
	if idx < 0 || idx == len(outTradeNo)-1 {
		return 0, ErrPaymentNotFound
	}
	id, err := strconv.ParseUint(outTradeNo[idx+1:], 10, 64)
	if err != nil {
		return 0, ErrPaymentNotFound
	}
	return uint(id), nil
}
