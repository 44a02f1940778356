package service

import (
	"fmt"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditService 授信台账服务：冻结/释放/管理员调整均在行锁事务内完成
type CreditService struct {
	creditRepo repository.CreditRepository
}

// NewCreditService 创建授信服务
func NewCreditService(creditRepo repository.CreditRepository) *CreditService {
	return &CreditService{creditRepo: creditRepo}
}

// CreditAdjustInput 管理员额度调整输入
type CreditAdjustInput struct {
	UserID     uint
	MerchantID uint
	NewLimit   models.Money
	Operator   string
	Remark     string
}

// GetAccount 获取授信账户
func (s *CreditService) GetAccount(userID, merchantID uint) (*models.CreditAccount, error) {
	account, err := s.creditRepo.GetAccount(userID, merchantID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrCreditNotFound
	}
	return account, nil
}

// CreateAccount 开通授信账户
func (s *CreditService) CreateAccount(userID, merchantID uint, limit models.Money) (*models.CreditAccount, error) {
	if limit.Decimal.LessThan(decimal.Zero) {
		return nil, ErrCreditInvalidAmount
	}
	existing, err := s.creditRepo.GetAccount(userID, merchantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCreditAlreadyExists
	}
	now := time.Now()
	account := &models.CreditAccount{
		UserID:      userID,
		MerchantID:  merchantID,
		CreditLimit: limit,
		UsedCredit:  models.NewMoneyFromDecimal(decimal.Zero),
		Status:      constants.CreditStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.creditRepo.CreateAccount(account); err != nil {
		return nil, err
	}
	logger.Infow("credit_account_created",
		"user_id", userID,
		"merchant_id", merchantID,
		"credit_limit", limit.String(),
	)
	return account, nil
}

// AdjustLimit 管理员调整授信额度，记录 admin_adjust 流水
func (s *CreditService) AdjustLimit(input CreditAdjustInput) (*models.CreditAccount, error) {
	if input.NewLimit.Decimal.LessThan(decimal.Zero) {
		return nil, ErrCreditInvalidAmount
	}
	var account *models.CreditAccount
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.creditRepo.WithTx(tx)
		locked, err := repo.GetAccountForUpdate(input.UserID, input.MerchantID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrCreditNotFound
		}
		now := time.Now()
		oldLimit := locked.CreditLimit.Decimal.Round(2)
		locked.CreditLimit = input.NewLimit
		locked.UpdatedAt = now
		if err := repo.UpdateAccount(locked); err != nil {
			return err
		}
		txn := &models.CreditTransaction{
			AccountID:  locked.ID,
			UserID:     locked.UserID,
			MerchantID: locked.MerchantID,
			Type:       constants.CreditTxnTypeAdminAdjust,
			Amount:     models.NewMoneyFromDecimal(input.NewLimit.Decimal.Sub(oldLimit)),
			UsedBefore: locked.UsedCredit,
			UsedAfter:  locked.UsedCredit,
			Remark:     cleanRemark(input.Remark, "管理员调整额度"),
			CreatedAt:  now,
		}
		if err := repo.CreateTransaction(txn); err != nil {
			return err
		}
		account = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("credit_limit_adjusted",
		"user_id", input.UserID,
		"merchant_id", input.MerchantID,
		"new_limit", input.NewLimit.String(),
		"operator", input.Operator,
	)
	return account, nil
}

// SetStatus 启用/禁用/冻结授信账户（账户只停用，不删除）
func (s *CreditService) SetStatus(userID, merchantID uint, status string) (*models.CreditAccount, error) {
	switch status {
	case constants.CreditStatusActive, constants.CreditStatusDisabled, constants.CreditStatusFrozen:
	default:
		return nil, ErrCreditStateInvalid
	}
	account, err := s.creditRepo.GetAccount(userID, merchantID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrCreditNotFound
	}
	account.Status = status
	account.UpdatedAt = time.Now()
	if err := s.creditRepo.UpdateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Freeze 冻结授信额度（独立事务）
func (s *CreditService) Freeze(userID, merchantID uint, amount models.Money, orderID *uint, reference string) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		return s.FreezeTx(tx, userID, merchantID, amount, orderID, reference)
	})
}

// FreezeTx 在事务内冻结授信额度：可用不足或账户不可用时失败且不改动余额
func (s *CreditService) FreezeTx(tx *gorm.DB, userID, merchantID uint, amount models.Money, orderID *uint, reference string) error {
	amt := amount.Decimal.Round(2)
	if amt.LessThanOrEqual(decimal.Zero) {
		return ErrCreditInvalidAmount
	}
	repo := s.creditRepo.WithTx(tx)
	account, err := repo.GetAccountForUpdate(userID, merchantID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrCreditNotFound
	}
	if account.Status != constants.CreditStatusActive {
		return fmt.Errorf("%w: %s", ErrCreditStateInvalid, account.Status)
	}
	if reference != "" {
		exists, err := repo.GetTransactionByReference(reference)
		if err != nil {
			return err
		}
		if exists != nil {
			return nil
		}
	}
	available := account.Available()
	if available.LessThan(amt) {
		return fmt.Errorf("%w: 需要 %s，可用 %s", ErrCreditInsufficient, amt.StringFixed(2), available.StringFixed(2))
	}

	now := time.Now()
	before := account.UsedCredit.Decimal.Round(2)
	after := before.Add(amt).Round(2)
	account.UsedCredit = models.NewMoneyFromDecimal(after)
	account.UpdatedAt = now
	if err := repo.UpdateAccount(account); err != nil {
		return err
	}
	txn := &models.CreditTransaction{
		AccountID:  account.ID,
		UserID:     account.UserID,
		MerchantID: account.MerchantID,
		OrderID:    orderID,
		Type:       constants.CreditTxnTypeFreeze,
		Amount:     models.NewMoneyFromDecimal(amt),
		UsedBefore: models.NewMoneyFromDecimal(before),
		UsedAfter:  models.NewMoneyFromDecimal(after),
		Reference:  reference,
		Remark:     "订单冻结授信",
		CreatedAt:  now,
	}
	return repo.CreateTransaction(txn)
}

// Release 释放授信额度（独立事务）
func (s *CreditService) Release(userID, merchantID uint, amount models.Money, orderID *uint, reference string) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		return s.ReleaseTx(tx, userID, merchantID, amount, orderID, reference)
	})
}

// ReleaseTx 在事务内释放授信额度：账户缺失仅记日志，超额释放钳制到零
func (s *CreditService) ReleaseTx(tx *gorm.DB, userID, merchantID uint, amount models.Money, orderID *uint, reference string) error {
	amt := amount.Decimal.Round(2)
	if amt.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	repo := s.creditRepo.WithTx(tx)
	account, err := repo.GetAccountForUpdate(userID, merchantID)
	if err != nil {
		return err
	}
	if account == nil {
		logger.Warnw("credit_release_account_missing",
			"user_id", userID,
			"merchant_id", merchantID,
			"amount", amt.StringFixed(2),
		)
		return nil
	}
	if reference != "" {
		exists, err := repo.GetTransactionByReference(reference)
		if err != nil {
			return err
		}
		if exists != nil {
			return nil
		}
	}

	now := time.Now()
	before := account.UsedCredit.Decimal.Round(2)
	after := before.Sub(amt).Round(2)
	if after.LessThan(decimal.Zero) {
		logger.Warnw("credit_release_clamped",
			"user_id", userID,
			"merchant_id", merchantID,
			"used_before", before.StringFixed(2),
			"release_amount", amt.StringFixed(2),
		)
		after = decimal.Zero
	}
	account.UsedCredit = models.NewMoneyFromDecimal(after)
	account.UpdatedAt = now
	if err := repo.UpdateAccount(account); err != nil {
		return err
	}
	txn := &models.CreditTransaction{
		AccountID:  account.ID,
		UserID:     account.UserID,
		MerchantID: account.MerchantID,
		OrderID:    orderID,
		Type:       constants.CreditTxnTypeRelease,
		Amount:     models.NewMoneyFromDecimal(amt),
		UsedBefore: models.NewMoneyFromDecimal(before),
		UsedAfter:  models.NewMoneyFromDecimal(after),
		Reference:  reference,
		Remark:     "订单释放授信",
		CreatedAt:  now,
	}
	return repo.CreateTransaction(txn)
}

// ListAccounts 分页查询授信账户
func (s *CreditService) ListAccounts(filter repository.CreditAccountListFilter) ([]models.CreditAccount, int64, error) {
	return s.creditRepo.ListAccounts(filter)
}

// ListTransactions 分页查询授信流水
func (s *CreditService) ListTransactions(filter repository.CreditTransactionListFilter) ([]models.CreditTransaction, int64, error) {
	return s.creditRepo.ListTransactions(filter)
}

func cleanRemark(remark, fallback string) string {
	if remark == "" {
		return fallback
	}
	return remark
}
