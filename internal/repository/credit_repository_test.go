package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCreditRepositoryTest(t *testing.T) (*GormCreditRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:credit_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.CreditAccount{},
		&models.CreditTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCreditRepository(db), db
}

func TestCreditRepositoryAccountLookup(t *testing.T) {
	repo, db := setupCreditRepositoryTest(t)

	account := models.CreditAccount{
		UserID:      7,
		MerchantID:  3,
		CreditLimit: models.NewMoneyFromDecimal(decimal.RequireFromString("5000.00")),
		UsedCredit:  models.NewMoneyFromDecimal(decimal.RequireFromString("1200.00")),
		Status:      constants.CreditStatusActive,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	got, err := repo.GetAccount(7, 3)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected account, got nil")
	}
	if !got.Available().Equal(decimal.RequireFromString("3800.00")) {
		t.Fatalf("available want 3800.00 got %s", got.Available())
	}

	missing, err := repo.GetAccount(7, 99)
	if err != nil {
		t.Fatalf("get missing account failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing account, got %+v", missing)
	}
}

func TestCreditRepositoryTransactionReference(t *testing.T) {
	repo, db := setupCreditRepositoryTest(t)

	orderID := uint(42)
	txn := models.CreditTransaction{
		AccountID:  1,
		UserID:     7,
		MerchantID: 3,
		OrderID:    &orderID,
		Type:       constants.CreditTxnTypeFreeze,
		Amount:     models.NewMoneyFromDecimal(decimal.RequireFromString("3000.00")),
		UsedBefore: models.NewMoneyFromDecimal(decimal.Zero),
		UsedAfter:  models.NewMoneyFromDecimal(decimal.RequireFromString("3000.00")),
		Reference:  "freeze:order:42",
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}

	got, err := repo.GetTransactionByReference("freeze:order:42")
	if err != nil {
		t.Fatalf("get by reference failed: %v", err)
	}
	if got == nil || got.ID != txn.ID {
		t.Fatalf("expected txn %d, got %+v", txn.ID, got)
	}

	empty, err := repo.GetTransactionByReference("   ")
	if err != nil {
		t.Fatalf("blank reference lookup failed: %v", err)
	}
	if empty != nil {
		t.Fatalf("expected nil for blank reference, got %+v", empty)
	}
}

func TestCreditRepositoryListTransactions(t *testing.T) {
	repo, db := setupCreditRepositoryTest(t)

	orderA := uint(1)
	orderB := uint(2)
	txns := []models.CreditTransaction{
		{AccountID: 1, UserID: 7, MerchantID: 3, OrderID: &orderA, Type: constants.CreditTxnTypeFreeze, Amount: models.NewMoneyFromInt(100), Reference: "freeze:order:1"},
		{AccountID: 1, UserID: 7, MerchantID: 3, OrderID: &orderA, Type: constants.CreditTxnTypeRelease, Amount: models.NewMoneyFromInt(100), Reference: "release:order:1"},
		{AccountID: 2, UserID: 8, MerchantID: 3, OrderID: &orderB, Type: constants.CreditTxnTypeFreeze, Amount: models.NewMoneyFromInt(200), Reference: "freeze:order:2"},
	}
	if err := db.Create(&txns).Error; err != nil {
		t.Fatalf("create transactions failed: %v", err)
	}

	rows, total, err := repo.ListTransactions(CreditTransactionListFilter{
		Page: 1, PageSize: 10, AccountID: 1,
	})
	if err != nil {
		t.Fatalf("list by account failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("want 2 rows got total=%d len=%d", total, len(rows))
	}

	rows, total, err = repo.ListTransactions(CreditTransactionListFilter{
		Page: 1, PageSize: 10, Type: constants.CreditTxnTypeRelease,
	})
	if err != nil {
		t.Fatalf("list by type failed: %v", err)
	}
	if total != 1 || rows[0].Reference != "release:order:1" {
		t.Fatalf("unexpected release rows: total=%d rows=%+v", total, rows)
	}
}
