package admin

import (
	"fmt"
	"time"

	"github.com/zulin-next/internal/authz"
	"github.com/zulin-next/internal/http/handlers/shared"
	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/repository"
	"github.com/zulin-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders 管理端订单列表，商户管理员只能看到本商户订单
func (h *Handler) ListOrders(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      c.Query("status"),
		OrderNo:     c.Query("order_no"),
		OnlyOverdue: c.Query("only_overdue") == "true",
	}
	if principal.IsPlatformAdmin() {
		filter.MerchantID = shared.ParseUintQuery(c, "merchant_id")
		filter.UserID = shared.ParseUintQuery(c, "user_id")
	} else if principal.MerchantID != nil {
		filter.MerchantID = *principal.MerchantID
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "订单查询失败")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 管理端订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if !authz.CanReadOrder(principal, order) {
		response.Forbidden(c, "无权查看该订单")
		return
	}
	response.Success(c, order)
}

// TransitionOrderRequest 订单状态流转请求
type TransitionOrderRequest struct {
	Target          string     `json:"target" binding:"required"`
	Notes           string     `json:"notes"`
	DeviceSN        string     `json:"device_sn"`
	ReturnConfirmAt *time.Time `json:"return_confirm_at"`
	Force           bool       `json:"force"`
}

// TransitionOrder 推进订单状态（发货、起租、归还、完成等）
func (h *Handler) TransitionOrder(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req TransitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if !authz.CanShipOrder(principal, order) {
		response.Forbidden(c, "无权操作该订单")
		return
	}
	if req.Force && !authz.CanForceTransition(principal) {
		response.Forbidden(c, "仅平台管理员可强制流转")
		return
	}

	order, err = h.OrderService.TransitionOrder(service.TransitionInput{
		OrderID:         orderID,
		Target:          req.Target,
		Operator:        fmt.Sprintf("%s:%d", principal.Role, principal.UserID),
		Notes:           req.Notes,
		DeviceSN:        req.DeviceSN,
		ReturnConfirmAt: req.ReturnConfirmAt,
		Force:           req.Force,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// DeleteOrder 删除订单，仅平台管理员
func (h *Handler) DeleteOrder(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	if !authz.CanDeleteOrder(principal) {
		response.Forbidden(c, "仅平台管理员可删除订单")
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.OrderService.DeleteOrder(orderID); err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, nil)
}
