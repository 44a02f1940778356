package service

import (
	"time"

	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"
	"github.com/zulin-next/internal/shipping"

	"gorm.io/gorm"
)

// TemplateService 运费模板服务
type TemplateService struct {
	tmplRepo repository.ShippingTemplateRepository
}

// NewTemplateService 创建运费模板服务
func NewTemplateService(tmplRepo repository.ShippingTemplateRepository) *TemplateService {
	return &TemplateService{tmplRepo: tmplRepo}
}

// CreateTemplate 新建运费模板；设为默认时清除同商户旧默认
func (s *TemplateService) CreateTemplate(tmpl *models.ShippingTemplate) (*models.ShippingTemplate, error) {
	now := time.Now()
	tmpl.Version = 1
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.tmplRepo.WithTx(tx)
		if tmpl.IsDefault {
			if err := repo.ClearDefault(tmpl.MerchantID); err != nil {
				return err
			}
		}
		return repo.Create(tmpl)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("shipping_template_created",
		"template_id", tmpl.ID,
		"merchant_id", tmpl.MerchantID,
		"is_default", tmpl.IsDefault,
	)
	return tmpl, nil
}

// UpdateTemplateInput 模板更新输入；nil 字段表示不修改
type UpdateTemplateInput struct {
	TemplateID uint
	Name       *string
	DefaultFee *models.Money
	Rules      *models.RegionRules
	Blacklist  *models.BlacklistRegions
	IsDefault  *bool
	Active     *bool
}

// UpdateTemplate 更新运费模板；费率、规则或黑名单的实质变更会递增版本号
func (s *TemplateService) UpdateTemplate(input UpdateTemplateInput) (*models.ShippingTemplate, error) {
	var result *models.ShippingTemplate
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.tmplRepo.WithTx(tx)
		tmpl, err := repo.GetByID(input.TemplateID)
		if err != nil {
			return err
		}
		if tmpl == nil {
			return ErrShippingTemplateNotFound
		}

		substantive := false
		if input.Name != nil {
			tmpl.Name = *input.Name
		}
		if input.DefaultFee != nil {
			if !tmpl.DefaultFee.Decimal.Equal(input.DefaultFee.Decimal) {
				substantive = true
			}
			tmpl.DefaultFee = *input.DefaultFee
		}
		if input.Rules != nil {
			tmpl.Rules = *input.Rules
			substantive = true
		}
		if input.Blacklist != nil {
			tmpl.Blacklist = *input.Blacklist
			substantive = true
		}
		if input.IsDefault != nil {
			if *input.IsDefault && !tmpl.IsDefault {
				if err := repo.ClearDefault(tmpl.MerchantID); err != nil {
					return err
				}
			}
			tmpl.IsDefault = *input.IsDefault
		}
		if input.Active != nil {
			tmpl.Active = *input.Active
		}
		if substantive {
			tmpl.Version++
		}
		tmpl.UpdatedAt = time.Now()
		if err := repo.Update(tmpl); err != nil {
			return err
		}
		result = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetTemplate 获取运费模板
func (s *TemplateService) GetTemplate(id uint) (*models.ShippingTemplate, error) {
	tmpl, err := s.tmplRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrShippingTemplateNotFound
	}
	return tmpl, nil
}

// ListTemplates 分页查询运费模板
func (s *TemplateService) ListTemplates(filter repository.ShippingTemplateListFilter) ([]models.ShippingTemplate, int64, error) {
	return s.tmplRepo.List(filter)
}

// DeleteTemplate 删除运费模板
func (s *TemplateService) DeleteTemplate(id uint) error {
	tmpl, err := s.tmplRepo.GetByID(id)
	if err != nil {
		return err
	}
	if tmpl == nil {
		return ErrShippingTemplateNotFound
	}
	return s.tmplRepo.Delete(id)
}

// PreviewFee 按模板试算地址运费（含黑名单判定，不产生副作用）
func (s *TemplateService) PreviewFee(templateID uint, addr models.Address) (shipping.FeeResult, error) {
	tmpl, err := s.GetTemplate(templateID)
	if err != nil {
		return shipping.FeeResult{}, err
	}
	return shipping.CalculateFee(tmpl, addr), nil
}
