package admin

import (
	"fmt"

	"github.com/zulin-next/internal/authz"
	"github.com/zulin-next/internal/http/handlers/shared"
	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"
	"github.com/zulin-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPayments 管理端支付单列表
func (h *Handler) ListPayments(c *gin.Context) {
	if _, ok := shared.MustPrincipal(c); !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	payments, total, err := h.PaymentService.ListAdmin(repository.PaymentListFilter{
		Page:     page,
		PageSize: pageSize,
		OrderID:  shared.ParseUintQuery(c, "order_id"),
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Method:   c.Query("method"),
	})
	if err != nil {
		response.Error(c, response.CodeInternal, "支付单查询失败")
		return
	}
	response.SuccessWithPage(c, payments, response.NewPagination(page, pageSize, total))
}

// CreatePaymentRequest 补录支付单请求
type CreatePaymentRequest struct {
	OrderID uint         `json:"order_id" binding:"required"`
	Type    string       `json:"type" binding:"required"`
	Amount  models.Money `json:"amount"`
	Remark  string       `json:"remark"`
}

// CreatePayment 手工创建支付单（补收、补退）
func (h *Handler) CreatePayment(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	order, err := h.OrderService.GetOrder(req.OrderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if !authz.CanRecordPayment(principal, order) {
		response.Forbidden(c, "无权登记该订单支付")
		return
	}

	payment, err := h.PaymentService.CreatePayment(service.CreatePaymentInput{
		OrderID: req.OrderID,
		Type:    req.Type,
		Amount:  req.Amount,
		Remark:  req.Remark,
	})
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, payment)
}

// MarkPaymentPaidRequest 线下确认收款请求
type MarkPaymentPaidRequest struct {
	Method      string `json:"method" binding:"required"`
	ProviderRef string `json:"provider_ref"`
}

// MarkPaymentPaid 线下确认收款；租金支付会联动订单进入待发货
func (h *Handler) MarkPaymentPaid(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	paymentID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req MarkPaymentPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	payment, err := h.PaymentService.GetPayment(paymentID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	order, err := h.OrderService.GetOrder(payment.OrderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if !authz.CanRecordPayment(principal, order) {
		response.Forbidden(c, "无权登记该订单支付")
		return
	}

	payment, err = h.PaymentService.MarkPaid(paymentID, req.Method, req.ProviderRef,
		fmt.Sprintf("%s:%d", principal.Role, principal.UserID))
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, payment)
}

// MarkPaymentRefunded 标记退款完成
func (h *Handler) MarkPaymentRefunded(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	paymentID, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.PaymentService.GetPayment(paymentID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	order, err := h.OrderService.GetOrder(payment.OrderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if !authz.CanRecordPayment(principal, order) {
		response.Forbidden(c, "无权登记该订单支付")
		return
	}

	payment, err = h.PaymentService.MarkRefunded(paymentID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, payment)
}
