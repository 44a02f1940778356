package admin

import (
	"github.com/zulin-next/internal/authz"
	"github.com/zulin-next/internal/http/handlers/shared"
	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// CreateMerchantRequest 创建商户请求
type CreateMerchantRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

// CreateMerchant 创建商户，仅平台管理员
func (h *Handler) CreateMerchant(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	if !principal.IsPlatformAdmin() {
		response.Forbidden(c, "仅平台管理员可创建商户")
		return
	}
	var req CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	merchant, err := h.MerchantService.CreateMerchant(&models.Merchant{
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	response.Success(c, merchant)
}

// ListMerchants 商户列表，仅平台管理员
func (h *Handler) ListMerchants(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	if !principal.IsPlatformAdmin() {
		response.Forbidden(c, "仅平台管理员可查看商户列表")
		return
	}
	page, pageSize := shared.ParsePagination(c)

	merchants, total, err := h.MerchantService.ListMerchants(page, pageSize)
	if err != nil {
		response.Error(c, response.CodeInternal, "商户查询失败")
		return
	}
	response.SuccessWithPage(c, merchants, response.NewPagination(page, pageSize, total))
}

// GetMerchant 商户详情
func (h *Handler) GetMerchant(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	merchantID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if !principal.IsPlatformAdmin() && !principal.IsMerchantAdmin(merchantID) {
		response.Forbidden(c, "无权查看该商户")
		return
	}

	merchant, err := h.MerchantService.GetMerchant(merchantID)
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	response.Success(c, merchant)
}

// CreateSKURequest 创建 SKU 请求
type CreateSKURequest struct {
	MerchantID         uint         `json:"merchant_id" binding:"required"`
	Name               string       `json:"name" binding:"required"`
	Model              string       `json:"model"`
	DailyFee           models.Money `json:"daily_fee"`
	DeviceValue        models.Money `json:"device_value"`
	ShippingTemplateID *uint        `json:"shipping_template_id"`
	Status             string       `json:"status"`
}

// CreateSKU 创建可租赁 SKU
func (h *Handler) CreateSKU(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	var req CreateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	if !authz.CanManageDevice(principal, req.MerchantID) {
		response.Forbidden(c, "无权管理该商户 SKU")
		return
	}

	sku, err := h.MerchantService.CreateSKU(&models.MerchantSKU{
		MerchantID:         req.MerchantID,
		Name:               req.Name,
		Model:              req.Model,
		DailyFee:           req.DailyFee,
		DeviceValue:        req.DeviceValue,
		ShippingTemplateID: req.ShippingTemplateID,
		Status:             req.Status,
	})
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	response.Success(c, sku)
}

// UpdateSKURequest 更新 SKU 请求
type UpdateSKURequest struct {
	Name               string       `json:"name" binding:"required"`
	Model              string       `json:"model"`
	DailyFee           models.Money `json:"daily_fee"`
	DeviceValue        models.Money `json:"device_value"`
	ShippingTemplateID *uint        `json:"shipping_template_id"`
	Status             string       `json:"status" binding:"required"`
}

// UpdateSKU 更新 SKU；日租金与设备价值变更只影响后续新订单
func (h *Handler) UpdateSKU(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	skuID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	existing, err := h.MerchantService.GetSKU(skuID)
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	if !authz.CanManageDevice(principal, existing.MerchantID) {
		response.Forbidden(c, "无权管理该商户 SKU")
		return
	}

	existing.Name = req.Name
	existing.Model = req.Model
	existing.DailyFee = req.DailyFee
	existing.DeviceValue = req.DeviceValue
	existing.ShippingTemplateID = req.ShippingTemplateID
	existing.Status = req.Status
	sku, err := h.MerchantService.UpdateSKU(existing)
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	response.Success(c, sku)
}

// ListSKUs 管理端 SKU 列表，商户管理员限定本商户
func (h *Handler) ListSKUs(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	filter := repository.SKUListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}
	if principal.IsPlatformAdmin() {
		filter.MerchantID = shared.ParseUintQuery(c, "merchant_id")
	} else if principal.MerchantID != nil {
		filter.MerchantID = *principal.MerchantID
	}

	skus, total, err := h.MerchantService.ListSKUs(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "SKU 查询失败")
		return
	}
	response.SuccessWithPage(c, skus, response.NewPagination(page, pageSize, total))
}

// RegisterDeviceRequest 登记设备请求
type RegisterDeviceRequest struct {
	MerchantID uint   `json:"merchant_id" binding:"required"`
	SKUID      uint   `json:"sku_id" binding:"required"`
	SN         string `json:"sn" binding:"required"`
	Status     string `json:"status"`
	Remark     string `json:"remark"`
}

// RegisterDevice 登记一台物理设备
func (h *Handler) RegisterDevice(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	if !authz.CanManageDevice(principal, req.MerchantID) {
		response.Forbidden(c, "无权管理该商户设备")
		return
	}

	device, err := h.MerchantService.RegisterDevice(&models.Device{
		MerchantID: req.MerchantID,
		SKUID:      req.SKUID,
		SN:         req.SN,
		Status:     req.Status,
		Remark:     req.Remark,
	})
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	response.Success(c, device)
}

// UpdateDeviceStatusRequest 更新设备状态请求
type UpdateDeviceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateDeviceStatus 人工调整设备台账状态（维修、退役等）
func (h *Handler) UpdateDeviceStatus(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	deviceID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateDeviceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	existing, err := h.MerchantService.GetDevice(deviceID)
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	if !authz.CanManageDevice(principal, existing.MerchantID) {
		response.Forbidden(c, "无权管理该商户设备")
		return
	}

	device, err := h.MerchantService.UpdateDeviceStatus(deviceID, req.Status)
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	response.Success(c, device)
}

// ListDevices 设备台账列表，商户管理员限定本商户
func (h *Handler) ListDevices(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	filter := repository.DeviceListFilter{
		Page:     page,
		PageSize: pageSize,
		SKUID:    shared.ParseUintQuery(c, "sku_id"),
		Status:   c.Query("status"),
		SN:       c.Query("sn"),
	}
	if principal.IsPlatformAdmin() {
		filter.MerchantID = shared.ParseUintQuery(c, "merchant_id")
	} else if principal.MerchantID != nil {
		filter.MerchantID = *principal.MerchantID
	}

	devices, total, err := h.MerchantService.ListDevices(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "设备查询失败")
		return
	}
	response.SuccessWithPage(c, devices, response.NewPagination(page, pageSize, total))
}

// CreateReturnInfoRequest 新建退货点请求
type CreateReturnInfoRequest struct {
	MerchantID uint           `json:"merchant_id" binding:"required"`
	Address    AddressRequest `json:"address" binding:"required"`
	IsDefault  bool           `json:"is_default"`
}

// CreateReturnInfo 新建商户退货点
func (h *Handler) CreateReturnInfo(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	var req CreateReturnInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	if !authz.CanManageDevice(principal, req.MerchantID) {
		response.Forbidden(c, "无权管理该商户退货点")
		return
	}

	info, err := h.MerchantService.CreateReturnInfo(&models.ReturnInfo{
		MerchantID: req.MerchantID,
		Address:    req.Address.toModel(),
		IsDefault:  req.IsDefault,
		Active:     true,
	})
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	response.Success(c, info)
}

// SetDefaultReturnInfo 将退货点设为商户默认
func (h *Handler) SetDefaultReturnInfo(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	infoID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := h.MerchantService.GetReturnInfo(infoID)
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	if !authz.CanManageDevice(principal, existing.MerchantID) {
		response.Forbidden(c, "无权管理该商户退货点")
		return
	}

	info, err := h.MerchantService.SetDefaultReturnInfo(infoID)
	if err != nil {
		respondMerchantError(c, err)
		return
	}
	response.Success(c, info)
}

// ListReturnInfos 商户退货点列表
func (h *Handler) ListReturnInfos(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	merchantID := shared.ParseUintQuery(c, "merchant_id")
	if merchantID == 0 && principal.MerchantID != nil {
		merchantID = *principal.MerchantID
	}
	if merchantID == 0 {
		response.BadRequest(c, "缺少 merchant_id 参数")
		return
	}
	if !authz.CanManageDevice(principal, merchantID) {
		response.Forbidden(c, "无权查看该商户退货点")
		return
	}

	infos, err := h.MerchantService.ListReturnInfos(merchantID)
	if err != nil {
		response.Error(c, response.CodeInternal, "退货点查询失败")
		return
	}
	response.Success(c, infos)
}
