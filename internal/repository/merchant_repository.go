package repository

import (
	"errors"

	"github.com/zulin-next/internal/models"

	"gorm.io/gorm"
)

// MerchantRepository 商户数据访问接口
type MerchantRepository interface {
	Create(merchant *models.Merchant) error
	Update(merchant *models.Merchant) error
	GetByID(id uint) (*models.Merchant, error)
	List(page, pageSize int) ([]models.Merchant, int64, error)
	WithTx(tx *gorm.DB) *GormMerchantRepository
}

// GormMerchantRepository GORM 实现
type GormMerchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository 创建商户仓库
func NewMerchantRepository(db *gorm.DB) *GormMerchantRepository {
	return &GormMerchantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMerchantRepository) WithTx(tx *gorm.DB) *GormMerchantRepository {
	if tx == nil {
		return r
	}
	return &GormMerchantRepository{db: tx}
}

// Create 创建商户
func (r *GormMerchantRepository) Create(merchant *models.Merchant) error {
	return r.db.Create(merchant).Error
}

// Update 更新商户
func (r *GormMerchantRepository) Update(merchant *models.Merchant) error {
	return r.db.Save(merchant).Error
}

// GetByID 根据 ID 获取商户
func (r *GormMerchantRepository) GetByID(id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// List 分页查询商户
func (r *GormMerchantRepository) List(page, pageSize int) ([]models.Merchant, int64, error) {
	query := r.db.Model(&models.Merchant{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var merchants []models.Merchant
	if err := query.Order("id desc").Find(&merchants).Error; err != nil {
		return nil, 0, err
	}
	return merchants, total, nil
}
