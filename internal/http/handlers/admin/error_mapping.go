package admin

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
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrOverdueUnpaid, code: response.CodeBadRequest},
	{target: service.ErrDeviceNotFound, code: response.CodeNotFound},
	{target: service.ErrDeviceUnavailable, code: response.CodeBadRequest},
	{target: service.ErrDeviceSKUMismatch, code: response.CodeBadRequest},
	{target: service.ErrDeviceOutOfStock, code: response.CodeBadRequest},
	{target: service.ErrAddressInvalid, code: response.CodeBadRequest},
	{target: service.ErrRegionBlacklisted, code: response.CodeBadRequest},
}

var creditErrorRules = []mappedHandlerError{
	{target: service.ErrCreditNotFound, code: response.CodeNotFound},
	{target: service.ErrCreditAlreadyExists, code: response.CodeConflict},
	{target: service.ErrCreditStateInvalid, code: response.CodeBadRequest},
	{target: service.ErrCreditInsufficient, code: response.CodeBadRequest},
	{target: service.ErrCreditInvalidAmount, code: response.CodeBadRequest},
	{target: service.ErrUserNotFound, code: response.CodeNotFound},
	{target: service.ErrMerchantNotFound, code: response.CodeNotFound},
}

var merchantErrorRules = []mappedHandlerError{
	{target: service.ErrMerchantNotFound, code: response.CodeNotFound},
	{target: service.ErrSKUNotFound, code: response.CodeNotFound},
	{target: service.ErrDeviceNotFound, code: response.CodeNotFound},
	{target: service.ErrDeviceSNTaken, code: response.CodeConflict},
	{target: service.ErrDeviceUnavailable, code: response.CodeBadRequest},
	{target: service.ErrReturnInfoNotFound, code: response.CodeNotFound},
}

var templateErrorRules = []mappedHandlerError{
	{target: service.ErrShippingTemplateNotFound, code: response.CodeNotFound},
	{target: service.ErrMerchantNotFound, code: response.CodeNotFound},
	{target: service.ErrAddressInvalid, code: response.CodeBadRequest},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound},
	{target: service.ErrPaymentStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, "订单操作失败")
}

func respondCreditError(c *gin.Context, err error) {
	respondWithMappedError(c, err, creditErrorRules, "授信操作失败")
}

func respondMerchantError(c *gin.Context, err error) {
	respondWithMappedError(c, err, merchantErrorRules, "商户资料操作失败")
}

func respondTemplateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, templateErrorRules, "运费模板操作失败")
}

func respondPaymentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentErrorRules, "支付操作失败")
}
