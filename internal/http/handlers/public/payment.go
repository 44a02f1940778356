package public

import (
	"net/http"

	"github.com/zulin-next/internal/authz"
	"github.com/zulin-next/internal/http/handlers/shared"
	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/logger"

	"github.com/gin-gonic/gin"
)

// CreateWechatPrepay 对支付单发起微信 Native 预下单
func (h *Handler) CreateWechatPrepay(c *gin.Context) {
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
	if !authz.CanReadOrder(principal, order) {
		response.Forbidden(c, "无权操作该支付单")
		return
	}

	codeURL, outTradeNo, err := h.PaymentService.CreateWechatPrepay(paymentID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, gin.H{
		"code_url":     codeURL,
		"out_trade_no": outTradeNo,
	})
}

// WechatPayNotify 微信支付回调：验签解密后驱动支付单与订单状态。
// 按微信 APIv3 约定，处理失败须返回非 2xx 以触发重试。
func (h *Handler) WechatPayNotify(c *gin.Context) {
	if h.WechatProvider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "FAIL", "message": "支付通道未启用"})
		return
	}

	result, err := h.WechatProvider.VerifyWebhook(c.Request.Context(), c.Request)
	if err != nil {
		logger.Warnw("wechat_notify_verify_failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": "FAIL", "message": "验签失败"})
		return
	}
	if !result.Success {
		// 非成功终态仅确认收到，不改动支付单
		logger.Infow("wechat_notify_ignored",
			"out_trade_no", result.OutTradeNo,
			"trade_state", result.TradeState,
		)
		c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "成功"})
		return
	}

	if _, err := h.PaymentService.HandleWechatPaid(result.OutTradeNo, result.TransactionID); err != nil {
		logger.Errorw("wechat_notify_apply_failed",
			"out_trade_no", result.OutTradeNo,
			"transaction_id", result.TransactionID,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "处理失败"})
		return
	}

	logger.Infow("wechat_notify_applied",
		"out_trade_no", result.OutTradeNo,
		"transaction_id", result.TransactionID,
	)
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "成功"})
}
