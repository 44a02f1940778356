package service

import (
	"fmt"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// allowedTransitions 订单状态流转表
var allowedTransitions = map[string][]string{
	constants.OrderStatusNew:       {constants.OrderStatusPaid, constants.OrderStatusCanceled},
	constants.OrderStatusPaid:      {constants.OrderStatusToShip, constants.OrderStatusCanceled},
	constants.OrderStatusToShip:    {constants.OrderStatusShipped, constants.OrderStatusCanceled},
	constants.OrderStatusShipped:   {constants.OrderStatusInRent},
	constants.OrderStatusInRent:    {constants.OrderStatusReturning},
	constants.OrderStatusReturning: {constants.OrderStatusReturned},
	constants.OrderStatusReturned:  {constants.OrderStatusCompleted},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionInput 状态流转输入
type TransitionInput struct {
	OrderID         uint
	Target          string
	Operator        string
	Notes           string
	DeviceSN        string
	ReturnConfirmAt *time.Time
	Force           bool
}

// TransitionOrder 执行一次状态流转：校验流转表（平台可 Force 跳过）、
// 执行目标状态的副作用、追加审计日志，整体在一个事务内。
func (s *OrderService) TransitionOrder(input TransitionInput) (*models.Order, error) {
	var result *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByIDForUpdate(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if isTerminalStatus(order.Status) {
			return fmt.Errorf("%w: %s 为终态", ErrOrderStatusInvalid, order.Status)
		}
		if !input.Force && !canTransition(order.Status, input.Target) {
			return fmt.Errorf("%w: %s → %s", ErrOrderStatusInvalid, order.Status, input.Target)
		}

		now := time.Now()
		switch input.Target {
		case constants.OrderStatusPaid:
			if err := s.applyPaid(tx, order, now); err != nil {
				return err
			}
		case constants.OrderStatusShipped:
			if err := s.applyShipment(tx, order, input.DeviceSN, now); err != nil {
				return err
			}
		case constants.OrderStatusInRent:
			s.updateBoundDevice(tx, order, constants.DeviceStatusInRent)
		case constants.OrderStatusReturning:
			s.updateBoundDevice(tx, order, constants.DeviceStatusReturning)
		case constants.OrderStatusReturned:
			if err := s.applyReturn(tx, order, input.ReturnConfirmAt, now); err != nil {
				return err
			}
		case constants.OrderStatusCompleted:
			if err := s.applyCompletion(tx, order, now); err != nil {
				return err
			}
		case constants.OrderStatusCanceled:
			if err := s.applyCancellation(tx, order, now); err != nil {
				return err
			}
		}

		order.Status = input.Target
		order.History = append(order.History, models.StatusChange{
			Status:    input.Target,
			Operator:  input.Operator,
			Notes:     input.Notes,
			ChangedAt: now,
		})
		order.UpdatedAt = now
		if err := s.orderRepo.WithTx(tx).Update(order); err != nil {
			return err
		}

		// 支付即进入待发货，无独立结算环节
		if input.Target == constants.OrderStatusPaid {
			order.Status = constants.OrderStatusToShip
			order.History = append(order.History, models.StatusChange{
				Status:    constants.OrderStatusToShip,
				Operator:  "system",
				Notes:     "支付完成自动进入待发货",
				ChangedAt: now,
			})
			if err := s.orderRepo.WithTx(tx).Update(order); err != nil {
				return err
			}
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_status_changed",
		"order_no", result.OrderNo,
		"order_id", result.ID,
		"status", result.Status,
		"operator", input.Operator,
	)
	if s.notifier != nil {
		s.notifier.EnqueueStatusNotify(result.ID, result.Status)
	}
	return result, nil
}

// MarkOrderPaid 支付回调入口：new → paid（随后自动进入 to_ship）
func (s *OrderService) MarkOrderPaid(orderID uint, operator string) (*models.Order, error) {
	return s.TransitionOrder(TransitionInput{
		OrderID:  orderID,
		Target:   constants.OrderStatusPaid,
		Operator: operator,
		Notes:    "租金支付完成",
	})
}

func (s *OrderService) applyPaid(tx *gorm.DB, order *models.Order, now time.Time) error {
	order.PaidAt = &now
	payment, err := s.paymentRepo.WithTx(tx).GetLatestPendingByOrderType(order.ID, constants.PaymentTypeRent)
	if err != nil {
		return err
	}
	if payment != nil {
		payment.Status = constants.PaymentStatusPaid
		payment.PaidAt = &now
		payment.UpdatedAt = now
		if err := s.paymentRepo.WithTx(tx).Update(payment); err != nil {
			return err
		}
	}
	return nil
}

// applyShipment 发货：绑定设备（缺失则自动建档）、写入发货时间，
// 计费起始日为发货后的下一个本地零点。
func (s *OrderService) applyShipment(tx *gorm.DB, order *models.Order, deviceSN string, now time.Time) error {
	deviceRepo := s.deviceRepo.WithTx(tx)

	var device *models.Device
	var err error
	if deviceSN != "" {
		device, err = deviceRepo.GetBySNForUpdate(deviceSN)
		if err != nil {
			return err
		}
		if device != nil {
			if device.SKUID != order.SKUID {
				return fmt.Errorf("%w: 设备 %s 属于 SKU %d", ErrDeviceSKUMismatch, device.SN, device.SKUID)
			}
			if !device.Shippable() {
				return fmt.Errorf("%w: %s", ErrDeviceUnavailable, device.Status)
			}
			device.Status = constants.DeviceStatusInTransit
			device.UpdatedAt = now
			if err := deviceRepo.Update(device); err != nil {
				return err
			}
		} else {
			// 未预先登记的整机直接建档为在途
			device = &models.Device{
				SN:         deviceSN,
				SKUID:      order.SKUID,
				MerchantID: order.MerchantID,
				Status:     constants.DeviceStatusInTransit,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := deviceRepo.Create(device); err != nil {
				return err
			}
		}
	} else {
		device, err = deviceRepo.FirstShippableBySKU(order.SKUID)
		if err != nil {
			return err
		}
		if device == nil {
			device = &models.Device{
				SN:         fmt.Sprintf("AUTO-%s", uuid.NewString()[:8]),
				SKUID:      order.SKUID,
				MerchantID: order.MerchantID,
				Status:     constants.DeviceStatusInTransit,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := deviceRepo.Create(device); err != nil {
				return err
			}
		} else {
			device.Status = constants.DeviceStatusInTransit
			device.UpdatedAt = now
			if err := deviceRepo.Update(device); err != nil {
				return err
			}
		}
	}

	order.DeviceID = &device.ID
	order.DeviceSN = device.SN
	order.ShippedAt = &now
	if order.ActualStartDate == nil {
		start := nextLocalMidnight(now)
		order.ActualStartDate = &start
	}
	return nil
}

// applyReturn 归还确认：实际租期 = ceil((确认时间 − 计费起始日)/24h)，
// 逾期字段每次整体重算，不做增量累计。
func (s *OrderService) applyReturn(tx *gorm.DB, order *models.Order, confirmAt *time.Time, now time.Time) error {
	confirm := now
	if confirmAt != nil {
		confirm = *confirmAt
	}
	order.ReturnConfirmAt = &confirm

	actualDays := 0
	if order.ActualStartDate != nil {
		actualDays = rentDaysBetween(*order.ActualStartDate, confirm)
	}

	baseTotal := order.TotalAmount.Decimal.Sub(order.OverdueAmount.Decimal)
	if actualDays > order.RentDays {
		overdueDays := actualDays - order.RentDays
		overdueAmount := order.DailyFeeSnapshot.Decimal.Mul(decimal.NewFromInt(int64(overdueDays))).Round(2)
		order.IsOverdue = true
		order.OverdueDays = overdueDays
		order.OverdueAmount = models.NewMoneyFromDecimal(overdueAmount)
		order.TotalAmount = models.NewMoneyFromDecimal(baseTotal.Add(overdueAmount).Round(2))

		overduePayment := &models.Payment{
			OrderID:   order.ID,
			Type:      constants.PaymentTypeOverdue,
			Amount:    order.OverdueAmount,
			Status:    constants.PaymentStatusPending,
			Remark:    fmt.Sprintf("逾期 %d 天", overdueDays),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.paymentRepo.WithTx(tx).Create(overduePayment); err != nil {
			return err
		}
	} else {
		order.IsOverdue = false
		order.OverdueDays = 0
		order.OverdueAmount = models.NewMoneyFromDecimal(decimal.Zero)
		order.TotalAmount = models.NewMoneyFromDecimal(baseTotal.Round(2))
	}

	s.updateBoundDevice(tx, order, constants.DeviceStatusInStock)
	return nil
}

// applyCompletion 完成：逾期费未结清则拒绝，并在错误中带上剩余应付金额
func (s *OrderService) applyCompletion(tx *gorm.DB, order *models.Order, now time.Time) error {
	if order.IsOverdue && order.OverdueAmount.Decimal.GreaterThan(decimal.Zero) {
		paid, err := s.paymentRepo.WithTx(tx).SumPaidByOrderType(order.ID, constants.PaymentTypeOverdue)
		if err != nil {
			return err
		}
		remaining := order.OverdueAmount.Decimal.Sub(paid.Decimal).Round(2)
		if remaining.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: 剩余应付 %s", ErrOverdueUnpaid, remaining.StringFixed(2))
		}
	}
	order.CompletedAt = &now
	return s.releaseCredit(tx, order, now)
}

// applyCancellation 取消：仅限发货前；已支付的租金生成退款支付单
func (s *OrderService) applyCancellation(tx *gorm.DB, order *models.Order, now time.Time) error {
	order.CanceledAt = &now
	if order.PaidAt != nil {
		paid, err := s.paymentRepo.WithTx(tx).SumPaidByOrderType(order.ID, constants.PaymentTypeRent)
		if err != nil {
			return err
		}
		if paid.Decimal.GreaterThan(decimal.Zero) {
			refund := &models.Payment{
				OrderID:   order.ID,
				Type:      constants.PaymentTypeCancelRefund,
				Amount:    models.NewMoneyFromDecimal(paid.Decimal.Neg()),
				Status:    constants.PaymentStatusPending,
				Remark:    "取消订单退款",
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.paymentRepo.WithTx(tx).Create(refund); err != nil {
				return err
			}
		}
	}
	return s.releaseCredit(tx, order, now)
}

// releaseCredit 终态释放授信：credit_released_at 保证只发起一次，
// 台账层的引用号幂等与零下钳制是第二道防线。
func (s *OrderService) releaseCredit(tx *gorm.DB, order *models.Order, now time.Time) error {
	if order.CreditReleasedAt != nil {
		return nil
	}
	reference := fmt.Sprintf("release:order:%d", order.ID)
	if err := s.creditSvc.ReleaseTx(tx, order.UserID, order.MerchantID, order.CreditHoldAmount, &order.ID, reference); err != nil {
		return err
	}
	order.CreditReleasedAt = &now
	return nil
}

// updateBoundDevice 同步绑定设备的状态，未绑定时跳过
func (s *OrderService) updateBoundDevice(tx *gorm.DB, order *models.Order, status string) {
	if order.DeviceID == nil {
		return
	}
	if err := s.deviceRepo.WithTx(tx).UpdateStatus(*order.DeviceID, status); err != nil {
		logger.Warnw("device_status_update_failed",
			"device_id", *order.DeviceID,
			"status", status,
			"error", err,
		)
	}
}

// CancelExpiredOrders 取消超时未支付订单，返回取消数量
func (s *OrderService) CancelExpiredOrders(expireBefore time.Time) (int, error) {
	orders, err := s.orderRepo.ListUnpaidCreatedBefore(expireBefore)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range orders {
		if _, err := s.TransitionOrder(TransitionInput{
			OrderID:  orders[i].ID,
			Target:   constants.OrderStatusCanceled,
			Operator: "system",
			Notes:    "支付超时自动取消",
		}); err != nil {
			logger.Warnw("order_expire_cancel_failed", "order_id", orders[i].ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// CancelIfUnpaid 单笔订单支付超时取消：仍处于待支付时取消并返回 true，
// 已支付或已进入其他状态时不动作。
func (s *OrderService) CancelIfUnpaid(orderID uint) (bool, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return false, err
	}
	if order.Status != constants.OrderStatusNew {
		return false, nil
	}
	if _, err := s.TransitionOrder(TransitionInput{
		OrderID:  orderID,
		Target:   constants.OrderStatusCanceled,
		Operator: "system",
		Notes:    "支付超时自动取消",
	}); err != nil {
		return false, err
	}
	return true, nil
}

// ScanOverdue 逾期扫描：对在租/归还中且已过约定到期日的订单打逾期预览标记。
// 权威的逾期金额仍在归还确认时整体重算。
func (s *OrderService) ScanOverdue(now time.Time) (int, error) {
	orders, err := s.orderRepo.ListRentingBefore(now)
	if err != nil {
		return 0, err
	}
	flagged := 0
	for i := range orders {
		order := &orders[i]
		if order.ActualStartDate == nil {
			continue
		}
		elapsed := rentDaysBetween(*order.ActualStartDate, now)
		if elapsed <= order.RentDays {
			continue
		}
		overdueDays := elapsed - order.RentDays
		if order.IsOverdue && order.OverdueDays == overdueDays {
			continue
		}
		order.IsOverdue = true
		order.OverdueDays = overdueDays
		order.UpdatedAt = now
		if err := s.orderRepo.Update(order); err != nil {
			logger.Warnw("order_overdue_flag_failed", "order_id", order.ID, "error", err)
			continue
		}
		flagged++
		if s.notifier != nil {
			s.notifier.EnqueueStatusNotify(order.ID, order.Status)
		}
	}
	return flagged, nil
}

// nextLocalMidnight 发货后的下一个本地零点：计费起始日整日顺延
func nextLocalMidnight(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location()).AddDate(0, 0, 1)
}
