package public

import (
	"strconv"

	"github.com/zulin-next/internal/http/handlers/shared"
	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetCreditAccount 查询本人在指定商户下的授信账户
func (h *Handler) GetCreditAccount(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	merchantID, err := strconv.ParseUint(c.Query("merchant_id"), 10, 64)
	if err != nil || merchantID == 0 {
		response.BadRequest(c, "缺少 merchant_id 参数")
		return
	}

	account, err := h.CreditService.GetAccount(principal.UserID, uint(merchantID))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, account)
}

// ListCreditTransactions 本人授信流水
func (h *Handler) ListCreditTransactions(c *gin.Context) {
	principal, ok := shared.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)

	filter := repository.CreditTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   principal.UserID,
		Type:     c.Query("type"),
	}
	if raw := c.Query("merchant_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.MerchantID = uint(id)
		}
	}

	txns, total, err := h.CreditService.ListTransactions(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "授信流水查询失败")
		return
	}
	response.SuccessWithPage(c, txns, response.NewPagination(page, pageSize, total))
}
