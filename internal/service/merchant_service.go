package service

import (
	"strings"
	"time"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"

	"gorm.io/gorm"
)

// MerchantService 商户资料、SKU、设备与退货点管理
type MerchantService struct {
	merchantRepo repository.MerchantRepository
	skuRepo      repository.SKURepository
	deviceRepo   repository.DeviceRepository
	returnRepo   repository.ReturnInfoRepository
}

// NewMerchantService 创建商户服务
func NewMerchantService(
	merchantRepo repository.MerchantRepository,
	skuRepo repository.SKURepository,
	deviceRepo repository.DeviceRepository,
	returnRepo repository.ReturnInfoRepository,
) *MerchantService {
	return &MerchantService{
		merchantRepo: merchantRepo,
		skuRepo:      skuRepo,
		deviceRepo:   deviceRepo,
		returnRepo:   returnRepo,
	}
}

// GetMerchant 获取商户
func (s *MerchantService) GetMerchant(id uint) (*models.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	return merchant, nil
}

// CreateMerchant 创建商户
func (s *MerchantService) CreateMerchant(merchant *models.Merchant) (*models.Merchant, error) {
	now := time.Now()
	if merchant.Status == "" {
		merchant.Status = models.UserStatusActive
	}
	merchant.CreatedAt = now
	merchant.UpdatedAt = now
	if err := s.merchantRepo.Create(merchant); err != nil {
		return nil, err
	}
	return merchant, nil
}

// ListMerchants 分页查询商户
func (s *MerchantService) ListMerchants(page, pageSize int) ([]models.Merchant, int64, error) {
	return s.merchantRepo.List(page, pageSize)
}

// GetSKU 获取 SKU
func (s *MerchantService) GetSKU(id uint) (*models.MerchantSKU, error) {
	sku, err := s.skuRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, ErrSKUNotFound
	}
	return sku, nil
}

// CreateSKU 创建 SKU
func (s *MerchantService) CreateSKU(sku *models.MerchantSKU) (*models.MerchantSKU, error) {
	merchant, err := s.merchantRepo.GetByID(sku.MerchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	now := time.Now()
	if sku.Status == "" {
		sku.Status = constants.SKUStatusActive
	}
	sku.CreatedAt = now
	sku.UpdatedAt = now
	if err := s.skuRepo.Create(sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// UpdateSKU 更新 SKU
func (s *MerchantService) UpdateSKU(sku *models.MerchantSKU) (*models.MerchantSKU, error) {
	existing, err := s.skuRepo.GetByID(sku.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrSKUNotFound
	}
	sku.UpdatedAt = time.Now()
	if err := s.skuRepo.Update(sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// ListSKUs 分页查询 SKU
func (s *MerchantService) ListSKUs(filter repository.SKUListFilter) ([]models.MerchantSKU, int64, error) {
	return s.skuRepo.List(filter)
}

// RegisterDevice 登记设备，序列号全局唯一
func (s *MerchantService) RegisterDevice(device *models.Device) (*models.Device, error) {
	device.SN = strings.TrimSpace(device.SN)
	if device.SN == "" {
		return nil, ErrDeviceNotFound
	}
	sku, err := s.skuRepo.GetByID(device.SKUID)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, ErrSKUNotFound
	}
	existing, err := s.deviceRepo.GetBySN(device.SN)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDeviceSNTaken
	}
	now := time.Now()
	device.MerchantID = sku.MerchantID
	if device.Status == "" {
		device.Status = constants.DeviceStatusInStock
	}
	device.CreatedAt = now
	device.UpdatedAt = now
	if err := s.deviceRepo.Create(device); err != nil {
		return nil, err
	}
	return device, nil
}

// GetDevice 获取设备
func (s *MerchantService) GetDevice(deviceID uint) (*models.Device, error) {
	device, err := s.deviceRepo.GetByID(deviceID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, ErrDeviceNotFound
	}
	return device, nil
}

// UpdateDeviceStatus 人工调整设备状态（维修、报废等）
func (s *MerchantService) UpdateDeviceStatus(deviceID uint, status string) (*models.Device, error) {
	switch status {
	case constants.DeviceStatusInStock, constants.DeviceStatusInTransit,
		constants.DeviceStatusInRent, constants.DeviceStatusReturning,
		constants.DeviceStatusMaintenance, constants.DeviceStatusRetired:
	default:
		return nil, ErrDeviceUnavailable
	}
	device, err := s.deviceRepo.GetByID(deviceID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, ErrDeviceNotFound
	}
	device.Status = status
	device.UpdatedAt = time.Now()
	if err := s.deviceRepo.Update(device); err != nil {
		return nil, err
	}
	return device, nil
}

// ListDevices 分页查询设备
func (s *MerchantService) ListDevices(filter repository.DeviceListFilter) ([]models.Device, int64, error) {
	return s.deviceRepo.List(filter)
}

// CreateReturnInfo 新建退货点；设为默认时清除同商户旧默认
func (s *MerchantService) CreateReturnInfo(info *models.ReturnInfo) (*models.ReturnInfo, error) {
	merchant, err := s.merchantRepo.GetByID(info.MerchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	now := time.Now()
	info.CreatedAt = now
	info.UpdatedAt = now
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.returnRepo.WithTx(tx)
		if info.IsDefault {
			if err := repo.ClearDefault(info.MerchantID); err != nil {
				return err
			}
		}
		return repo.Create(info)
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// SetDefaultReturnInfo 切换商户默认退货点
func (s *MerchantService) SetDefaultReturnInfo(infoID uint) (*models.ReturnInfo, error) {
	var result *models.ReturnInfo
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.returnRepo.WithTx(tx)
		info, err := repo.GetByID(infoID)
		if err != nil {
			return err
		}
		if info == nil {
			return ErrReturnInfoNotFound
		}
		if err := repo.ClearDefault(info.MerchantID); err != nil {
			return err
		}
		info.IsDefault = true
		info.Active = true
		info.UpdatedAt = time.Now()
		if err := repo.Update(info); err != nil {
			return err
		}
		result = info
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetReturnInfo 获取退货点
func (s *MerchantService) GetReturnInfo(infoID uint) (*models.ReturnInfo, error) {
	info, err := s.returnRepo.GetByID(infoID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrReturnInfoNotFound
	}
	return info, nil
}

// ListReturnInfos 查询商户退货点
func (s *MerchantService) ListReturnInfos(merchantID uint) ([]models.ReturnInfo, error) {
	return s.returnRepo.ListByMerchant(merchantID)
}
