package admin

import (
	"github.com/zulin-next/internal/authz"
	"github.com/zulin-next/internal/http/handlers/shared"
	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"
	"github.com/zulin-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateTemplateRequest 创建运费模板请求
type CreateTemplateRequest struct {
	MerchantID uint                    `json:"merchant_id" binding:"required"`
	Name       string                  `json:"name" binding:"required"`
	DefaultFee models.Money            `json:"default_fee"`
	Rules      models.RegionRules      `json:"rules"`
	Blacklist  models.BlacklistRegions `json:"blacklist"`
	IsDefault  bool                    `json:"is_default"`
	Active     *bool                   `json:"active"`
}

// CreateTemplate 创建运费模板
func (h *Handler) CreateTemplate(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	if !authz.CanManageDevice(principal, req.MerchantID) {
		response.Forbidden(c, "无权管理该商户运费模板")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	tmpl, err := h.TemplateService.CreateTemplate(&models.ShippingTemplate{
		MerchantID: req.MerchantID,
		Name:       req.Name,
		DefaultFee: req.DefaultFee,
		Rules:      req.Rules,
		Blacklist:  req.Blacklist,
		IsDefault:  req.IsDefault,
		Active:     active,
	})
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, tmpl)
}

// UpdateTemplateRequest 更新运费模板请求，均为可选字段
type UpdateTemplateRequest struct {
	Name       *string                  `json:"name"`
	DefaultFee *models.Money            `json:"default_fee"`
	Rules      *models.RegionRules      `json:"rules"`
	Blacklist  *models.BlacklistRegions `json:"blacklist"`
	IsDefault  *bool                    `json:"is_default"`
	Active     *bool                    `json:"active"`
}

// UpdateTemplate 更新运费模板，规则实质变更时版本号递增
func (h *Handler) UpdateTemplate(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	templateID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	existing, err := h.TemplateService.GetTemplate(templateID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	if !authz.CanManageTemplate(principal, existing) {
		response.Forbidden(c, "无权管理该商户运费模板")
		return
	}

	tmpl, err := h.TemplateService.UpdateTemplate(service.UpdateTemplateInput{
		TemplateID: templateID,
		Name:       req.Name,
		DefaultFee: req.DefaultFee,
		Rules:      req.Rules,
		Blacklist:  req.Blacklist,
		IsDefault:  req.IsDefault,
		Active:     req.Active,
	})
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, tmpl)
}

// GetTemplate 运费模板详情
func (h *Handler) GetTemplate(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	templateID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	tmpl, err := h.TemplateService.GetTemplate(templateID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	if !authz.CanManageTemplate(principal, tmpl) {
		response.Forbidden(c, "无权查看该商户运费模板")
		return
	}
	response.Success(c, tmpl)
}

// ListTemplates 运费模板列表，商户管理员限定本商户
func (h *Handler) ListTemplates(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	filter := repository.ShippingTemplateListFilter{
		Page:       page,
		PageSize:   pageSize,
		OnlyActive: c.Query("only_active") == "true",
	}
	if principal.IsPlatformAdmin() {
		filter.MerchantID = shared.ParseUintQuery(c, "merchant_id")
	} else if principal.MerchantID != nil {
		filter.MerchantID = *principal.MerchantID
	}

	templates, total, err := h.TemplateService.ListTemplates(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "运费模板查询失败")
		return
	}
	response.SuccessWithPage(c, templates, response.NewPagination(page, pageSize, total))
}

// DeleteTemplate 删除运费模板
func (h *Handler) DeleteTemplate(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	templateID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := h.TemplateService.GetTemplate(templateID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	if !authz.CanManageTemplate(principal, existing) {
		response.Forbidden(c, "无权管理该商户运费模板")
		return
	}

	if err := h.TemplateService.DeleteTemplate(templateID); err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, nil)
}

// PreviewFeeRequest 运费试算请求
type PreviewFeeRequest struct {
	Address AddressRequest `json:"address" binding:"required"`
}

// PreviewFee 按模板试算一个地址的运费（含黑名单判定）
func (h *Handler) PreviewFee(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	templateID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req PreviewFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	tmpl, err := h.TemplateService.GetTemplate(templateID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	if !authz.CanManageTemplate(principal, tmpl) {
		response.Forbidden(c, "无权查看该商户运费模板")
		return
	}

	result, err := h.TemplateService.PreviewFee(templateID, req.Address.toModel())
	if err != nil {
		respondTemplateError(c, err)
		return
	}
	response.Success(c, result)
}
