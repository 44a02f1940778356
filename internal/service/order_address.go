package service

import (
	"fmt"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/shipping"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChangeAddressInput 修改收货地址输入
type ChangeAddressInput struct {
	OrderID  uint
	Address  models.Address
	Operator string
}

// addressEditableStatuses 允许修改地址的订单状态
var addressEditableStatuses = map[string]bool{
	constants.OrderStatusNew:    true,
	constants.OrderStatusPaid:   true,
	constants.OrderStatusToShip: true,
}

// ChangeOrderAddress 修改收货地址并重新计价：新建单直接改写运费快照，
// 已支付单只累计运费差额，快照一经支付不再改写。每次修改都会留下
// 完整的前后对照记录，次数封顶。
func (s *OrderService) ChangeOrderAddress(input ChangeAddressInput) (*models.Order, error) {
	newAddr, err := resolveAddress(input.Address)
	if err != nil {
		return nil, err
	}

	var result *models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByIDForUpdate(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !addressEditableStatuses[order.Status] {
			return fmt.Errorf("%w: %s", ErrAddressNotEditable, order.Status)
		}
		if order.AddressChangeCount >= constants.MaxAddressChanges {
			return ErrAddressChangeLimit
		}

		sku, err := s.skuRepo.GetByID(order.SKUID)
		if err != nil {
			return err
		}
		if sku == nil {
			return ErrSKUNotFound
		}
		tmpl, err := s.resolveTemplate(sku)
		if err != nil {
			return err
		}
		feeResult := shipping.CalculateFee(tmpl, newAddr)
		if feeResult.IsBlacklisted {
			return fmt.Errorf("%w: %s", ErrRegionBlacklisted, feeResult.BlacklistReason)
		}

		now := time.Now()
		before := order.ShippingAddress
		feeBefore := order.ShippingFeeTotal()
		feeAfter := feeResult.Fee.Decimal.Round(2)
		delta := feeAfter.Sub(feeBefore.Decimal).Round(2)

		if order.Status == constants.OrderStatusNew {
			order.ShippingFeeSnapshot = feeResult.Fee
		} else {
			order.ShippingFeeAdjustment = models.NewMoneyFromDecimal(
				order.ShippingFeeAdjustment.Decimal.Add(delta).Round(2))
			if !delta.IsZero() {
				paymentType := constants.PaymentTypeAddressUp
				if delta.LessThan(decimal.Zero) {
					paymentType = constants.PaymentTypeAddressDown
				}
				adjustment := &models.Payment{
					OrderID:   order.ID,
					Type:      paymentType,
					Amount:    models.NewMoneyFromDecimal(delta),
					Status:    constants.PaymentStatusPending,
					Remark:    "地址变更运费差额",
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := s.paymentRepo.WithTx(tx).Create(adjustment); err != nil {
					return err
				}
			}
		}

		rentTotal := order.DailyFeeSnapshot.Decimal.Mul(decimal.NewFromInt(int64(order.RentDays)))
		total := rentTotal.
			Add(order.ShippingFeeSnapshot.Decimal).
			Add(order.ShippingFeeAdjustment.Decimal).
			Add(order.OverdueAmount.Decimal).
			Round(2)
		order.TotalAmount = models.NewMoneyFromDecimal(total)

		order.ShippingAddress = newAddr
		order.AddressChangeCount++
		order.AddressChanges = append(order.AddressChanges, models.AddressChange{
			Before:    before,
			After:     newAddr,
			FeeBefore: feeBefore,
			FeeAfter:  models.NewMoneyFromDecimal(feeAfter),
			FeeDelta:  models.NewMoneyFromDecimal(delta),
			Operator:  input.Operator,
			ChangedAt: now,
		})
		order.UpdatedAt = now
		if err := s.orderRepo.WithTx(tx).Update(order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_address_changed",
		"order_no", result.OrderNo,
		"order_id", result.ID,
		"change_count", result.AddressChangeCount,
		"operator", input.Operator,
	)
	return result, nil
}
