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

// CreateCreditAccountRequest 开通授信账户请求
type CreateCreditAccountRequest struct {
	UserID     uint         `json:"user_id" binding:"required"`
	MerchantID uint         `json:"merchant_id" binding:"required"`
	Limit      models.Money `json:"limit"`
}

// CreateCreditAccount 为客户在某商户下开通授信账户
func (h *Handler) CreateCreditAccount(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	var req CreateCreditAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	if !authz.CanManageCredit(principal, req.MerchantID) {
		response.Forbidden(c, "无权管理该商户授信")
		return
	}

	account, err := h.CreditService.CreateAccount(req.UserID, req.MerchantID, req.Limit)
	if err != nil {
		respondCreditError(c, err)
		return
	}
	response.Success(c, account)
}

// AdjustCreditLimitRequest 调整授信额度请求
type AdjustCreditLimitRequest struct {
	UserID     uint         `json:"user_id" binding:"required"`
	MerchantID uint         `json:"merchant_id" binding:"required"`
	NewLimit   models.Money `json:"new_limit"`
	Remark     string       `json:"remark"`
}

// AdjustCreditLimit 调整授信额度，留流水
func (h *Handler) AdjustCreditLimit(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	var req AdjustCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	if !authz.CanManageCredit(principal, req.MerchantID) {
		response.Forbidden(c, "无权管理该商户授信")
		return
	}

	account, err := h.CreditService.AdjustLimit(service.CreditAdjustInput{
		UserID:     req.UserID,
		MerchantID: req.MerchantID,
		NewLimit:   req.NewLimit,
		Operator:   fmt.Sprintf("%s:%d", principal.Role, principal.UserID),
		Remark:     req.Remark,
	})
	if err != nil {
		respondCreditError(c, err)
		return
	}
	response.Success(c, account)
}

// SetCreditStatusRequest 变更授信账户状态请求
type SetCreditStatusRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	MerchantID uint   `json:"merchant_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// SetCreditStatus 启用/禁用/冻结授信账户
func (h *Handler) SetCreditStatus(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	var req SetCreditStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	if !authz.CanManageCredit(principal, req.MerchantID) {
		response.Forbidden(c, "无权管理该商户授信")
		return
	}

	account, err := h.CreditService.SetStatus(req.UserID, req.MerchantID, req.Status)
	if err != nil {
		respondCreditError(c, err)
		return
	}
	response.Success(c, account)
}

// ListCreditAccounts 授信账户列表，商户管理员限定本商户
func (h *Handler) ListCreditAccounts(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	filter := repository.CreditAccountListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   shared.ParseUintQuery(c, "user_id"),
		Status:   c.Query("status"),
	}
	if principal.IsPlatformAdmin() {
		filter.MerchantID = shared.ParseUintQuery(c, "merchant_id")
	} else if principal.MerchantID != nil {
		filter.MerchantID = *principal.MerchantID
	}

	accounts, total, err := h.CreditService.ListAccounts(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "授信账户查询失败")
		return
	}
	response.SuccessWithPage(c, accounts, response.NewPagination(page, pageSize, total))
}

// ListCreditTransactions 授信流水列表，商户管理员限定本商户
func (h *Handler) ListCreditTransactions(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	filter := repository.CreditTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   shared.ParseUintQuery(c, "user_id"),
		OrderID:  shared.ParseUintQuery(c, "order_id"),
		Type:     c.Query("type"),
	}
	if principal.IsPlatformAdmin() {
		filter.MerchantID = shared.ParseUintQuery(c, "merchant_id")
	} else if principal.MerchantID != nil {
		filter.MerchantID = *principal.MerchantID
	}

	txns, total, err := h.CreditService.ListTransactions(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "授信流水查询失败")
		return
	}
	response.SuccessWithPage(c, txns, response.NewPagination(page, pageSize, total))
}
