package repository

import (
	"errors"
	"strings"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceRepository 设备数据访问接口
type DeviceRepository interface {
	Create(device *models.Device) error
	Update(device *models.Device) error
	GetByID(id uint) (*models.Device, error)
	GetBySN(sn string) (*models.Device, error)
	GetBySNForUpdate(sn string) (*models.Device, error)
	FirstShippableBySKU(skuID uint) (*models.Device, error)
	List(filter DeviceListFilter) ([]models.Device, int64, error)
	UpdateStatus(id uint, status string) error
	WithTx(tx *gorm.DB) *GormDeviceRepository
}

// GormDeviceRepository GORM 实现
type GormDeviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository 创建设备仓库
func NewDeviceRepository(db *gorm.DB) *GormDeviceRepository {
	return &GormDeviceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeviceRepository) WithTx(tx *gorm.DB) *GormDeviceRepository {
	if tx == nil {
		return r
	}
	return &GormDeviceRepository{db: tx}
}

// Create 创建设备
func (r *GormDeviceRepository) Create(device *models.Device) error {
	return r.db.Create(device).Error
}

// Update 更新设备
func (r *GormDeviceRepository) Update(device *models.Device) error {
	return r.db.Save(device).Error
}

// GetByID 根据 ID 获取设备
func (r *GormDeviceRepository) GetByID(id uint) (*models.Device, error) {
	var device models.Device
	if err := r.db.First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// GetBySN 根据序列号获取设备
func (r *GormDeviceRepository) GetBySN(sn string) (*models.Device, error) {
	sn = strings.TrimSpace(sn)
	if sn == "" {
		return nil, nil
	}
	var device models.Device
	if err := r.db.Where("sn = ?", sn).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// GetBySNForUpdate 根据序列号加锁获取设备（发货绑定期间持锁）
func (r *GormDeviceRepository) GetBySNForUpdate(sn string) (*models.Device, error) {
	sn = strings.TrimSpace(sn)
	if sn == "" {
		return nil, nil
	}
	var device models.Device
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sn = ?", sn).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// FirstShippableBySKU 取该 SKU 下第一台可发货的在库设备
func (r *GormDeviceRepository) FirstShippableBySKU(skuID uint) (*models.Device, error) {
	if skuID == 0 {
		return nil, nil
	}
	var device models.Device
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sku_id = ? AND status = ?", skuID, constants.DeviceStatusInStock).
		Order("id asc").
		First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// List 分页查询设备
func (r *GormDeviceRepository) List(filter DeviceListFilter) ([]models.Device, int64, error) {
	query := r.db.Model(&models.Device{})
	if filter.MerchantID != 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.SKUID != 0 {
		query = query.Where("sku_id = ?", filter.SKUID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SN != "" {
		query = query.Where("sn LIKE ?", "%"+filter.SN+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var devices []models.Device
	if err := query.Order("id desc").Find(&devices).Error; err != nil {
		return nil, 0, err
	}
	return devices, total, nil
}

// UpdateStatus 更新设备状态
func (r *GormDeviceRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Device{}).Where("id = ?", id).
		Update("status", status).Error
}
