package repository

import (
	"errors"

	"github.com/zulin-next/internal/models"

	"gorm.io/gorm"
)

// SKURepository 商户 SKU 数据访问接口
type SKURepository interface {
	Create(sku *models.MerchantSKU) error
	Update(sku *models.MerchantSKU) error
	GetByID(id uint) (*models.MerchantSKU, error)
	List(filter SKUListFilter) ([]models.MerchantSKU, int64, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormSKURepository
}

// GormSKURepository GORM 实现
type GormSKURepository struct {
	db *gorm.DB
}

// NewSKURepository 创建 SKU 仓库
func NewSKURepository(db *gorm.DB) *GormSKURepository {
	return &GormSKURepository{db: db}
}

// WithTx 绑定事务
func (r *GormSKURepository) WithTx(tx *gorm.DB) *GormSKURepository {
	if tx == nil {
		return r
	}
	return &GormSKURepository{db: tx}
}

// Create 创建 SKU
func (r *GormSKURepository) Create(sku *models.MerchantSKU) error {
	return r.db.Create(sku).Error
}

// Update 更新 SKU
func (r *GormSKURepository) Update(sku *models.MerchantSKU) error {
	return r.db.Save(sku).Error
}

// GetByID 根据 ID 获取 SKU
func (r *GormSKURepository) GetByID(id uint) (*models.MerchantSKU, error) {
	var sku models.MerchantSKU
	if err := r.db.First(&sku, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sku, nil
}

// List 分页查询 SKU
func (r *GormSKURepository) List(filter SKUListFilter) ([]models.MerchantSKU, int64, error) {
	query := r.db.Model(&models.MerchantSKU{})
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR model LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var skus []models.MerchantSKU
	if err := query.Order("id desc").Find(&skus).Error; err != nil {
		return nil, 0, err
	}
	return skus, total, nil
}

// Delete 软删除 SKU
func (r *GormSKURepository) Delete(id uint) error {
	return r.db.Delete(&models.MerchantSKU{}, id).Error
}
