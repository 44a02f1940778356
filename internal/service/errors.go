package service

import "errors"

// 业务哨兵错误，handler 层通过 errors.Is 映射为响应码。
var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserDisabled       = errors.New("用户已被禁用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailTaken         = errors.New("邮箱已被注册")

	ErrMerchantNotFound = errors.New("商户不存在")

	ErrSKUNotFound = errors.New("SKU 不存在")
	ErrSKUInactive = errors.New("SKU 已下架")

	ErrCreditNotFound      = errors.New("授信账户不存在")
	ErrCreditAlreadyExists = errors.New("授信账户已存在")
	ErrCreditStateInvalid  = errors.New("授信账户状态不可用")
	ErrCreditInsufficient  = errors.New("授信额度不足")
	ErrCreditInvalidAmount = errors.New("授信变动金额无效")

	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderStatusInvalid = errors.New("订单当前状态不允许该操作")
	ErrRentPeriodInvalid  = errors.New("租期无效")
	ErrRentPeriodTooLong  = errors.New("租期超出允许上限")

	ErrAddressInvalid     = errors.New("收货地址不完整")
	ErrAddressNotEditable = errors.New("订单当前状态不允许修改地址")
	ErrAddressChangeLimit = errors.New("地址修改次数已达上限")

	ErrRegionBlacklisted        = errors.New("收货区域不可发货")
	ErrShippingTemplateNotFound = errors.New("没有可用的运费模板")
	ErrReturnInfoNotFound       = errors.New("商户未配置默认退货点")

	ErrDeviceNotFound      = errors.New("设备不存在")
	ErrDeviceUnavailable   = errors.New("设备当前状态不可发货")
	ErrDeviceSKUMismatch   = errors.New("设备与订单 SKU 不匹配")
	ErrDeviceOutOfStock    = errors.New("该 SKU 暂无可发货设备")
	ErrDeviceSNTaken       = errors.New("设备序列号已存在")

	ErrOverdueUnpaid = errors.New("逾期费用未结清")

	ErrPaymentNotFound      = errors.New("支付单不存在")
	ErrPaymentStatusInvalid = errors.New("支付单状态不允许该操作")
)
