package authz

import (
	"testing"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestCanReadOrder(t *testing.T) {
	order := &models.Order{UserID: 7, MerchantID: 3}

	owner := Principal{UserID: 7, Role: constants.RoleCustomer}
	if !CanReadOrder(owner, order) {
		t.Fatalf("owner should read own order")
	}

	stranger := Principal{UserID: 8, Role: constants.RoleCustomer}
	if CanReadOrder(stranger, order) {
		t.Fatalf("other customer must not read order")
	}

	merchant := Principal{UserID: 20, Role: constants.RoleMerchantAdmin, MerchantID: uintPtr(3)}
	if !CanReadOrder(merchant, order) {
		t.Fatalf("merchant admin should read merchant order")
	}

	otherMerchant := Principal{UserID: 21, Role: constants.RoleMerchantAdmin, MerchantID: uintPtr(4)}
	if CanReadOrder(otherMerchant, order) {
		t.Fatalf("foreign merchant admin must not read order")
	}

	platform := Principal{UserID: 1, Role: constants.RolePlatformAdmin}
	if !CanReadOrder(platform, order) {
		t.Fatalf("platform admin should read any order")
	}
}

func TestShipAndAddressSplit(t *testing.T) {
	order := &models.Order{UserID: 7, MerchantID: 3}
	owner := Principal{UserID: 7, Role: constants.RoleCustomer}
	merchant := Principal{UserID: 20, Role: constants.RoleMerchantAdmin, MerchantID: uintPtr(3)}

	if !CanChangeOrderAddress(owner, order) {
		t.Fatalf("owner should change address")
	}
	if CanChangeOrderAddress(merchant, order) {
		t.Fatalf("merchant must not change customer address")
	}
	if CanShipOrder(owner, order) {
		t.Fatalf("customer must not ship")
	}
	if !CanShipOrder(merchant, order) {
		t.Fatalf("merchant admin should ship")
	}
}

func TestPlatformOnlyOperations(t *testing.T) {
	merchant := Principal{Role: constants.RoleMerchantAdmin, MerchantID: uintPtr(3)}
	platform := Principal{Role: constants.RolePlatformAdmin}

	if CanForceTransition(merchant) || CanDeleteOrder(merchant) {
		t.Fatalf("merchant admin must not force transition or delete")
	}
	if !CanForceTransition(platform) || !CanDeleteOrder(platform) {
		t.Fatalf("platform admin should force transition and delete")
	}
}

func TestCanReadCredit(t *testing.T) {
	account := &models.CreditAccount{UserID: 7, MerchantID: 3}
	if !CanReadCredit(Principal{UserID: 7, Role: constants.RoleCustomer}, account) {
		t.Fatalf("credit owner should read account")
	}
	if CanReadCredit(Principal{UserID: 9, Role: constants.RoleCustomer}, account) {
		t.Fatalf("other customer must not read account")
	}
	if !CanReadCredit(Principal{Role: constants.RoleMerchantAdmin, MerchantID: uintPtr(3)}, account) {
		t.Fatalf("merchant admin should read merchant accounts")
	}
}
