package public

import (
	"errors"

	"github.com/zulin-next/internal/http/response"
	"github.com/zulin-next/internal/logger"
	"github.com/zulin-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 业务错误到接口响应码的映射
type mappedHandlerError struct {
	target error
	code   int
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, err.Error())
			return
		}
	}
	logger.Errorw("handler_unmapped_error", "path", c.Request.URL.Path, "error", err)
	response.Error(c, response.CodeInternal, fallbackMsg)
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrSKUNotFound, code: response.CodeNotFound},
	{target: service.ErrSKUInactive, code: response.CodeBadRequest},
	{target: service.ErrRentPeriodInvalid, code: response.CodeBadRequest},
	{target: service.ErrRentPeriodTooLong, code: response.CodeBadRequest},
	{target: service.ErrAddressInvalid, code: response.CodeBadRequest},
	{target: service.ErrRegionBlacklisted, code: response.CodeBadRequest},
	{target: service.ErrShippingTemplateNotFound, code: response.CodeBadRequest},
	{target: service.ErrReturnInfoNotFound, code: response.CodeBadRequest},
	{target: service.ErrCreditNotFound, code: response.CodeBadRequest},
	{target: service.ErrCreditStateInvalid, code: response.CodeBadRequest},
	{target: service.ErrCreditInsufficient, code: response.CodeBadRequest},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrAddressNotEditable, code: response.CodeBadRequest},
	{target: service.ErrAddressChangeLimit, code: response.CodeBadRequest},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound},
	{target: service.ErrPaymentStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, "订单操作失败")
}

func respondPaymentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentErrorRules, "支付操作失败")
}
