package repository

import (
	"errors"

	"github.com/zulin-next/internal/models"

	"gorm.io/gorm"
)

// ShippingTemplateRepository 运费模板数据访问接口
type ShippingTemplateRepository interface {
	Create(tmpl *models.ShippingTemplate) error
	Update(tmpl *models.ShippingTemplate) error
	GetByID(id uint) (*models.ShippingTemplate, error)
	GetDefaultByMerchant(merchantID uint) (*models.ShippingTemplate, error)
	List(filter ShippingTemplateListFilter) ([]models.ShippingTemplate, int64, error)
	ClearDefault(merchantID uint) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormShippingTemplateRepository
}

// GormShippingTemplateRepository GORM 实现
type GormShippingTemplateRepository struct {
	db *gorm.DB
}

// NewShippingTemplateRepository 创建运费模板仓库
func NewShippingTemplateRepository(db *gorm.DB) *GormShippingTemplateRepository {
	return &GormShippingTemplateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShippingTemplateRepository) WithTx(tx *gorm.DB) *GormShippingTemplateRepository {
	if tx == nil {
		return r
	}
	return &GormShippingTemplateRepository{db: tx}
}

// Create 创建运费模板
func (r *GormShippingTemplateRepository) Create(tmpl *models.ShippingTemplate) error {
	return r.db.Create(tmpl).Error
}

// Update 更新运费模板
func (r *GormShippingTemplateRepository) Update(tmpl *models.ShippingTemplate) error {
	return r.db.Save(tmpl).Error
}

// GetByID 根据 ID 获取运费模板
func (r *GormShippingTemplateRepository) GetByID(id uint) (*models.ShippingTemplate, error) {
	var tmpl models.ShippingTemplate
	if err := r.db.First(&tmpl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tmpl, nil
}

// GetDefaultByMerchant 获取商户的默认运费模板
func (r *GormShippingTemplateRepository) GetDefaultByMerchant(merchantID uint) (*models.ShippingTemplate, error) {
	if merchantID == 0 {
		return nil, nil
	}
	var tmpl models.ShippingTemplate
	if err := r.db.Where("merchant_id = ? AND is_default = ? AND active = ?", merchantID, true, true).
		First(&tmpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tmpl, nil
}

// List 分页查询运费模板
func (r *GormShippingTemplateRepository) List(filter ShippingTemplateListFilter) ([]models.ShippingTemplate, int64, error) {
	query := r.db.Model(&models.ShippingTemplate{})
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.OnlyActive {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var tmpls []models.ShippingTemplate
	if err := query.Order("id desc").Find(&tmpls).Error; err != nil {
		return nil, 0, err
	}
	return tmpls, total, nil
}

// ClearDefault 清除商户下的默认模板标记
func (r *GormShippingTemplateRepository) ClearDefault(merchantID uint) error {
	return r.db.Model(&models.ShippingTemplate{}).
		Where("merchant_id = ? AND is_default = ?", merchantID, true).
		Update("is_default", false).Error
}

// Delete 删除运费模板
func (r *GormShippingTemplateRepository) Delete(id uint) error {
	return r.db.Delete(&models.ShippingTemplate{}, id).Error
}
