package repository

import (
	"errors"
	"strings"

	"github.com/zulin-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreditRepository 授信账户与流水数据访问接口
type CreditRepository interface {
	GetAccountByID(id uint) (*models.CreditAccount, error)
	GetAccount(userID, merchantID uint) (*models.CreditAccount, error)
	GetAccountForUpdate(userID, merchantID uint) (*models.CreditAccount, error)
	CreateAccount(account *models.CreditAccount) error
	UpdateAccount(account *models.CreditAccount) error
	ListAccounts(filter CreditAccountListFilter) ([]models.CreditAccount, int64, error)
	CreateTransaction(txn *models.CreditTransaction) error
	GetTransactionByReference(reference string) (*models.CreditTransaction, error)
	ListTransactions(filter CreditTransactionListFilter) ([]models.CreditTransaction, int64, error)
	WithTx(tx *gorm.DB) *GormCreditRepository
}

// GormCreditRepository GORM 授信仓储实现
type GormCreditRepository struct {
	db *gorm.DB
}

// NewCreditRepository 创建授信仓储
func NewCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCreditRepository) WithTx(tx *gorm.DB) *GormCreditRepository {
	if tx == nil {
		return r
	}
	return &GormCreditRepository{db: tx}
}

// GetAccountByID 按 ID 获取授信账户
func (r *GormCreditRepository) GetAccountByID(id uint) (*models.CreditAccount, error) {
	var account models.CreditAccount
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetAccount 按客户与商户获取授信账户
func (r *GormCreditRepository) GetAccount(userID, merchantID uint) (*models.CreditAccount, error) {
	if userID == 0 || merchantID == 0 {
		return nil, nil
	}
	var account models.CreditAccount
	if err := r.db.Where("user_id = ? AND merchant_id = ?", userID, merchantID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountForUpdate 按客户与商户加锁获取授信账户
func (r *GormCreditRepository) GetAccountForUpdate(userID, merchantID uint) (*models.CreditAccount, error) {
	if userID == 0 || merchantID == 0 {
		return nil, nil
	}
	var account models.CreditAccount
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND merchant_id = ?", userID, merchantID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount 创建授信账户
func (r *GormCreditRepository) CreateAccount(account *models.CreditAccount) error {
	return r.db.Create(account).Error
}

// UpdateAccount 更新授信账户
func (r *GormCreditRepository) UpdateAccount(account *models.CreditAccount) error {
	return r.db.Save(account).Error
}

// ListAccounts 分页查询授信账户
func (r *GormCreditRepository) ListAccounts(filter CreditAccountListFilter) ([]models.CreditAccount, int64, error) {
	query := r.db.Model(&models.CreditAccount{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var accounts []models.CreditAccount
	if err := query.Order("id desc").Find(&accounts).Error; err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// CreateTransaction 创建授信流水
func (r *GormCreditRepository) CreateTransaction(txn *models.CreditTransaction) error {
	return r.db.Create(txn).Error
}

// GetTransactionByReference 按幂等引用号获取流水
func (r *GormCreditRepository) GetTransactionByReference(reference string) (*models.CreditTransaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, nil
	}
	var txn models.CreditTransaction
	if err := r.db.Where("reference = ?", reference).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// ListTransactions 分页查询授信流水
func (r *GormCreditRepository) ListTransactions(filter CreditTransactionListFilter) ([]models.CreditTransaction, int64, error) {
	query := r.db.Model(&models.CreditTransaction{})
	if filter.AccountID != 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
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

	var txns []models.CreditTransaction
	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
