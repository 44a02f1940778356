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

func setupDeviceRepositoryTest(t *testing.T) (*GormDeviceRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:device_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Device{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewDeviceRepository(db), db
}

func seedDevice(t *testing.T, db *gorm.DB, sn string, skuID, merchantID uint, status string) models.Device {
	t.Helper()
	device := models.Device{
		SN:         sn,
		SKUID:      skuID,
		MerchantID: merchantID,
		Status:     status,
	}
	if err := db.Create(&device).Error; err != nil {
		t.Fatalf("create device %s failed: %v", sn, err)
	}
	return device
}

func TestDeviceRepositoryFirstShippableBySKU(t *testing.T) {
	repo, db := setupDeviceRepositoryTest(t)

	seedDevice(t, db, "TS-0001", 1, 3, constants.DeviceStatusInRent)
	want := seedDevice(t, db, "TS-0002", 1, 3, constants.DeviceStatusInStock)
	seedDevice(t, db, "TS-0003", 1, 3, constants.DeviceStatusInStock)
	seedDevice(t, db, "LL-0001", 2, 3, constants.DeviceStatusInStock)

	got, err := repo.FirstShippableBySKU(1)
	if err != nil {
		t.Fatalf("first shippable failed: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Fatalf("want device %d got %+v", want.ID, got)
	}

	// 该 SKU 无在库设备时返回 nil 而非报错
	got, err = repo.FirstShippableBySKU(9)
	if err != nil {
		t.Fatalf("first shippable for empty sku failed: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for sku without stock, got %+v", got)
	}

	if got, err = repo.FirstShippableBySKU(0); err != nil || got != nil {
		t.Fatalf("zero sku id want nil,nil got %+v, %v", got, err)
	}
}

func TestDeviceRepositoryListFilterBySKU(t *testing.T) {
	repo, db := setupDeviceRepositoryTest(t)

	seedDevice(t, db, "TS-0001", 1, 3, constants.DeviceStatusInStock)
	seedDevice(t, db, "TS-0002", 1, 3, constants.DeviceStatusInRent)
	seedDevice(t, db, "LL-0001", 2, 3, constants.DeviceStatusInStock)

	rows, total, err := repo.List(DeviceListFilter{Page: 1, PageSize: 10, SKUID: 1})
	if err != nil {
		t.Fatalf("list by sku failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("want 2 rows got total=%d len=%d", total, len(rows))
	}
	for _, d := range rows {
		if d.SKUID != 1 {
			t.Fatalf("unexpected device in result: %+v", d)
		}
	}
}
