package public

import (
	"strconv"

	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/http/handlers/shared"
	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/repository"
	"github.com/zulin-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListSKUs 可租赁设备目录，仅展示上架 SKU
func (h *Handler) ListSKUs(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)

	filter := repository.SKUListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   constants.SKUStatusActive,
		Search:   c.Query("search"),
	}
	if raw := c.Query("merchant_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.MerchantID = uint(id)
		}
	}

	skus, total, err := h.MerchantService.ListSKUs(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "设备目录查询失败")
		return
	}
	response.SuccessWithPage(c, skus, response.NewPagination(page, pageSize, total))
}

// GetSKU 设备目录详情
func (h *Handler) GetSKU(c *gin.Context) {
	skuID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sku, err := h.MerchantService.GetSKU(skuID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if sku.Status != constants.SKUStatusActive {
		response.Error(c, response.CodeNotFound, service.ErrSKUInactive.Error())
		return
	}
	response.Success(c, sku)
}
