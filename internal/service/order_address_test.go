package service

import (
	"errors"
	"testing"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"

	"github.com/shopspring/decimal"
)

func guangzhouAddress() models.Address {
	return models.Address{
		Contact:  "张工",
		Phone:    "13800000000",
		Province: "广东省",
		City:     "广州市",
		District: "天河区",
		Street:   "体育西路 10 号",
	}
}

func changshaAddress() models.Address {
	return models.Address{
		Contact:  "张工",
		Phone:    "13800000000",
		Province: "湖南省",
		City:     "长沙市",
		District: "芙蓉区",
		Street:   "五一大道 2 号",
	}
}

func TestChangeOrderAddressNewReplacesSnapshot(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))

	// 南山区命中 5 元规则，天河区回落到 440000 的 10 元规则
	order, err := env.svc.ChangeOrderAddress(ChangeAddressInput{
		OrderID:  order.ID,
		Address:  guangzhouAddress(),
		Operator: "customer:301",
	})
	if err != nil {
		t.Fatalf("change address failed: %v", err)
	}
	if !order.ShippingFeeSnapshot.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("snapshot must be replaced before payment, got %s", order.ShippingFeeSnapshot.String())
	}
	if !order.ShippingFeeAdjustment.Decimal.IsZero() {
		t.Fatalf("adjustment must stay zero before payment, got %s", order.ShippingFeeAdjustment.String())
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(710)) {
		t.Fatalf("total want 710 got %s", order.TotalAmount.String())
	}
	if order.AddressChangeCount != 1 || len(order.AddressChanges) != 1 {
		t.Fatalf("change log missing: count=%d logs=%d", order.AddressChangeCount, len(order.AddressChanges))
	}
	change := order.AddressChanges[0]
	if change.Before.District != "南山区" || change.After.District != "天河区" {
		t.Fatalf("change log must keep before/after: %+v", change)
	}
	if !change.FeeDelta.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("fee_delta want 5 got %s", change.FeeDelta.String())
	}

	payments, _ := env.paymentSvc.ListByOrder(order.ID)
	for _, p := range payments {
		if p.Type == constants.PaymentTypeAddressUp || p.Type == constants.PaymentTypeAddressDown {
			t.Fatalf("snapshot replacement must not create adjustment payment: %+v", p)
		}
	}
}

func TestChangeOrderAddressAfterPaidAccumulatesAdjustment(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))
	order, err := env.svc.TransitionOrder(TransitionInput{
		OrderID: order.ID, Target: constants.OrderStatusPaid,
	})
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	// 长沙不在任何规则内，走 20 元兜底，差额 +15
	order, err = env.svc.ChangeOrderAddress(ChangeAddressInput{
		OrderID:  order.ID,
		Address:  changshaAddress(),
		Operator: "customer:301",
	})
	if err != nil {
		t.Fatalf("change address failed: %v", err)
	}
	if !order.ShippingFeeSnapshot.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("snapshot must be frozen after payment, got %s", order.ShippingFeeSnapshot.String())
	}
	if !order.ShippingFeeAdjustment.Decimal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("adjustment want 15 got %s", order.ShippingFeeAdjustment.String())
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(720)) {
		t.Fatalf("total want 720 got %s", order.TotalAmount.String())
	}

	payments, _ := env.paymentSvc.ListByOrder(order.ID)
	var upFound bool
	for _, p := range payments {
		if p.Type == constants.PaymentTypeAddressUp &&
			p.Status == constants.PaymentStatusPending &&
			p.Amount.Decimal.Equal(decimal.NewFromInt(15)) {
			upFound = true
		}
	}
	if !upFound {
		t.Fatalf("positive delta must create address_up payment: %+v", payments)
	}

	// 改回广东命中 10 元规则，差额 −10，累计调整 +5
	order, err = env.svc.ChangeOrderAddress(ChangeAddressInput{
		OrderID:  order.ID,
		Address:  guangzhouAddress(),
		Operator: "customer:301",
	})
	if err != nil {
		t.Fatalf("second change failed: %v", err)
	}
	if !order.ShippingFeeAdjustment.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("adjustment want 5 got %s", order.ShippingFeeAdjustment.String())
	}

	payments, _ = env.paymentSvc.ListByOrder(order.ID)
	var downFound bool
	for _, p := range payments {
		if p.Type == constants.PaymentTypeAddressDown && p.Amount.Decimal.Equal(decimal.NewFromInt(-10)) {
			downFound = true
		}
	}
	if !downFound {
		t.Fatalf("negative delta must create address_down payment: %+v", payments)
	}
}

func TestChangeOrderAddressLimit(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))

	for i := 0; i < constants.MaxAddressChanges; i++ {
		addr := guangzhouAddress()
		if i%2 == 1 {
			addr = shenzhenAddress()
		}
		if _, err := env.svc.ChangeOrderAddress(ChangeAddressInput{
			OrderID: order.ID, Address: addr,
		}); err != nil {
			t.Fatalf("change %d failed: %v", i+1, err)
		}
	}

	_, err := env.svc.ChangeOrderAddress(ChangeAddressInput{
		OrderID: order.ID, Address: changshaAddress(),
	})
	if !errors.Is(err, ErrAddressChangeLimit) {
		t.Fatalf("third change must hit the limit, got: %v", err)
	}
}

func TestChangeOrderAddressNotEditableAfterShip(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))
	for _, target := range []string{constants.OrderStatusPaid, constants.OrderStatusShipped} {
		var err error
		order, err = env.svc.TransitionOrder(TransitionInput{OrderID: order.ID, Target: target})
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
	}

	_, err := env.svc.ChangeOrderAddress(ChangeAddressInput{
		OrderID: order.ID, Address: guangzhouAddress(),
	})
	if !errors.Is(err, ErrAddressNotEditable) {
		t.Fatalf("shipped order must reject address change, got: %v", err)
	}
}

func TestChangeOrderAddressBlacklistedRejected(t *testing.T) {
	env := setupOrderServiceTest(t)
	start := time.Now()
	order := env.createOrder(t, start, start.AddDate(0, 0, 7))

	_, err := env.svc.ChangeOrderAddress(ChangeAddressInput{
		OrderID: order.ID,
		Address: models.Address{
			Contact:    "李工",
			Phone:      "13900000000",
			RegionCode: "110105",
			Street:     "望京街 1 号",
		},
	})
	if !errors.Is(err, ErrRegionBlacklisted) {
		t.Fatalf("blacklisted region must be rejected, got: %v", err)
	}
}
