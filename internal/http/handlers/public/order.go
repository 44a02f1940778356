package public

import (
	"fmt"
	"time"

	"github.com/zulin-next/internal/authz"
	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/http/handlers/shared"
	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"
	"github.com/zulin-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 收货地址请求体
type AddressRequest struct {
	Contact    string `json:"contact"`
	Phone      string `json:"phone"`
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district"`
	Street     string `json:"street"`
	RegionCode string `json:"region_code"`
}

func (r AddressRequest) toModel() models.Address {
	return models.Address{
		Contact:    r.Contact,
		Phone:      r.Phone,
		Province:   r.Province,
		City:       r.City,
		District:   r.District,
		Street:     r.Street,
		RegionCode: r.RegionCode,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	SKUID         uint           `json:"sku_id" binding:"required"`
	RentStartDate time.Time      `json:"rent_start_date" binding:"required"`
	RentEndDate   time.Time      `json:"rent_end_date" binding:"required"`
	Address       AddressRequest `json:"address" binding:"required"`
}

// CreateOrder 创建租赁订单
func (h *Handler) CreateOrder(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:        principal.UserID,
		SKUID:         req.SKUID,
		RentStartDate: req.RentStartDate,
		RentEndDate:   req.RentEndDate,
		Address:       req.Address.toModel(),
		Operator:      operatorLabel(principal),
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	// 支付超时取消走延迟任务，投递失败时兜底巡检仍会取消
	if h.QueueClient.Enabled() && h.Config.Rental.PaymentExpireMinutes > 0 {
		delay := time.Duration(h.Config.Rental.PaymentExpireMinutes) * time.Minute
		if err := h.QueueClient.EnqueueTimeoutCancel(order.ID, delay); err != nil {
			logger.Warnw("queue_enqueue_timeout_cancel_failed",
				"order_id", order.ID, "error", err)
		}
	}

	response.Success(c, order)
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   principal.UserID,
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
	})
	if err != nil {
		response.Error(c, response.CodeInternal, "订单查询失败")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情（仅本人可见）
func (h *Handler) GetOrder(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderForUser(orderID, principal.UserID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单（发货前）
func (h *Handler) CancelOrder(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForUser(orderID, principal.UserID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if !authz.CanCancelOrder(principal, order) {
		response.Forbidden(c, "无权取消该订单")
		return
	}

	order, err = h.OrderService.TransitionOrder(service.TransitionInput{
		OrderID:  orderID,
		Target:   constants.OrderStatusCanceled,
		Operator: operatorLabel(principal),
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// ChangeAddressRequest 修改收货地址请求
type ChangeAddressRequest struct {
	Address AddressRequest `json:"address" binding:"required"`
}

// ChangeOrderAddress 修改收货地址并重新计价
func (h *Handler) ChangeOrderAddress(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangeAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	order, err := h.OrderService.GetOrderForUser(orderID, principal.UserID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if !authz.CanChangeOrderAddress(principal, order) {
		response.Forbidden(c, "无权修改该订单地址")
		return
	}

	order, err = h.OrderService.ChangeOrderAddress(service.ChangeAddressInput{
		OrderID:  orderID,
		Address:  req.Address.toModel(),
		Operator: operatorLabel(principal),
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrderPayments 订单下的支付单列表
func (h *Handler) ListOrderPayments(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.OrderService.GetOrderForUser(orderID, principal.UserID); err != nil {
		respondOrderError(c, err)
		return
	}

	payments, err := h.PaymentService.ListByOrder(orderID)
	if err != nil {
		response.Error(c, response.CodeInternal, "支付单查询失败")
		return
	}
	response.Success(c, payments)
}

func operatorLabel(principal authz.Principal) string {
	return fmt.Sprintf("%s:%d", principal.Role, principal.UserID)
}
