package repository

import (
	"errors"

	"github.com/zulin-next/internal/models"

	"gorm.io/gorm"
)

// ReturnInfoRepository 商户退货点数据访问接口
type ReturnInfoRepository interface {
	Create(info *models.ReturnInfo) error
	Update(info *models.ReturnInfo) error
	GetByID(id uint) (*models.ReturnInfo, error)
	GetDefaultByMerchant(merchantID uint) (*models.ReturnInfo, error)
	ListByMerchant(merchantID uint) ([]models.ReturnInfo, error)
	ClearDefault(merchantID uint) error
	WithTx(tx *gorm.DB) *GormReturnInfoRepository
}

// GormReturnInfoRepository GORM 实现
type GormReturnInfoRepository struct {
	db *gorm.DB
}

// NewReturnInfoRepository 创建退货点仓库
func NewReturnInfoRepository(db *gorm.DB) *GormReturnInfoRepository {
	return &GormReturnInfoRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReturnInfoRepository) WithTx(tx *gorm.DB) *GormReturnInfoRepository {
	if tx == nil {
		return r
	}
	return &GormReturnInfoRepository{db: tx}
}

// Create 创建退货点
func (r *GormReturnInfoRepository) Create(info *models.ReturnInfo) error {
	return r.db.Create(info).Error
}

// Update 更新退货点
func (r *GormReturnInfoRepository) Update(info *models.ReturnInfo) error {
	return r.db.Save(info).Error
}

// GetByID 根据 ID 获取退货点
func (r *GormReturnInfoRepository) GetByID(id uint) (*models.ReturnInfo, error) {
	var info models.ReturnInfo
	if err := r.db.First(&info, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// GetDefaultByMerchant 获取商户默认退货点
func (r *GormReturnInfoRepository) GetDefaultByMerchant(merchantID uint) (*models.ReturnInfo, error) {
	if merchantID == 0 {
		return nil, nil
	}
	var info models.ReturnInfo
	if err := r.db.Where("merchant_id = ? AND is_default = ? AND active = ?", merchantID, true, true).
		First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// ListByMerchant 获取商户退货点列表
func (r *GormReturnInfoRepository) ListByMerchant(merchantID uint) ([]models.ReturnInfo, error) {
	var infos []models.ReturnInfo
	if err := r.db.Where("merchant_id = ?", merchantID).
		Order("id desc").Find(&infos).Error; err != nil {
		return nil, err
	}
	return infos, nil
}

// ClearDefault 清除商户下的默认退货点标记
func (r *GormReturnInfoRepository) ClearDefault(merchantID uint) error {
	return r.db.Model(&models.ReturnInfo{}).
		Where("merchant_id = ? AND is_default = ?", merchantID, true).
		Update("is_default", false).Error
}
