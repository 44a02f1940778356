package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func seedOrder(t *testing.T, db *gorm.DB, orderNo string, userID, merchantID uint, status string, endDate time.Time) models.Order {
	t.Helper()
	order := models.Order{
		OrderNo:       orderNo,
		UserID:        userID,
		MerchantID:    merchantID,
		SKUID:         1,
		Status:        status,
		RentStartDate: endDate.AddDate(0, 0, -7),
		RentEndDate:   endDate,
		RentDays:      7,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order %s failed: %v", orderNo, err)
	}
	return order
}

func TestOrderRepositoryListByUser(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	now := time.Now().UTC()

	seedOrder(t, db, "ZL-A001", 7, 3, constants.OrderStatusInRent, now.AddDate(0, 0, 3))
	seedOrder(t, db, "ZL-A002", 7, 3, constants.OrderStatusCompleted, now.AddDate(0, 0, -3))
	seedOrder(t, db, "ZL-B001", 8, 3, constants.OrderStatusInRent, now.AddDate(0, 0, 3))

	rows, total, err := repo.ListByUser(OrderListFilter{Page: 1, PageSize: 10, UserID: 7})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("want 2 rows got total=%d len=%d", total, len(rows))
	}

	rows, total, err = repo.ListByUser(OrderListFilter{
		Page: 1, PageSize: 10, UserID: 7, Status: constants.OrderStatusInRent,
	})
	if err != nil {
		t.Fatalf("list by user+status failed: %v", err)
	}
	if total != 1 || rows[0].OrderNo != "ZL-A001" {
		t.Fatalf("unexpected in_rent rows: total=%d rows=%+v", total, rows)
	}
}

func TestOrderRepositoryListAdminFilterBySKU(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	now := time.Now().UTC()

	first := seedOrder(t, db, "ZL-S1", 7, 3, constants.OrderStatusInRent, now.AddDate(0, 0, 3))
	other := seedOrder(t, db, "ZL-S2", 7, 3, constants.OrderStatusInRent, now.AddDate(0, 0, 3))
	other.SKUID = 2
	if err := db.Save(&other).Error; err != nil {
		t.Fatalf("update order sku failed: %v", err)
	}

	rows, total, err := repo.ListAdmin(OrderListFilter{Page: 1, PageSize: 10, SKUID: 1})
	if err != nil {
		t.Fatalf("list admin by sku failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != first.ID {
		t.Fatalf("sku filter want only %s: total=%d rows=%+v", first.OrderNo, total, rows)
	}
}

func TestOrderRepositoryListRentingBefore(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	now := time.Now().UTC()

	overdue := seedOrder(t, db, "ZL-OVD", 7, 3, constants.OrderStatusInRent, now.AddDate(0, 0, -2))
	seedOrder(t, db, "ZL-OK", 7, 3, constants.OrderStatusInRent, now.AddDate(0, 0, 5))
	seedOrder(t, db, "ZL-DONE", 7, 3, constants.OrderStatusCompleted, now.AddDate(0, 0, -10))
	returning := seedOrder(t, db, "ZL-RTN", 8, 3, constants.OrderStatusReturning, now.AddDate(0, 0, -1))

	rows, err := repo.ListRentingBefore(now)
	if err != nil {
		t.Fatalf("list renting before failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 overdue candidates got %d", len(rows))
	}
	if rows[0].ID != overdue.ID || rows[1].ID != returning.ID {
		t.Fatalf("unexpected rows order: %+v", rows)
	}
}

func TestOrderRepositoryCountActiveByUserAndMerchant(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	now := time.Now().UTC()

	seedOrder(t, db, "ZL-N1", 7, 3, constants.OrderStatusNew, now.AddDate(0, 0, 7))
	seedOrder(t, db, "ZL-N2", 7, 3, constants.OrderStatusInRent, now.AddDate(0, 0, 7))
	seedOrder(t, db, "ZL-N3", 7, 3, constants.OrderStatusCanceled, now.AddDate(0, 0, 7))
	seedOrder(t, db, "ZL-N4", 7, 4, constants.OrderStatusNew, now.AddDate(0, 0, 7))

	total, err := repo.CountActiveByUserAndMerchant(7, 3)
	if err != nil {
		t.Fatalf("count active failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("active count want 2 got %d", total)
	}
}
