// Package authz 提供纯函数形式的资源级授权策略。
// 调用方（HTTP 层）负责构造 Principal，策略不做任何 I/O。
package authz

import (
	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"
)

// Principal 已认证的调用方身份
type Principal struct {
	UserID     uint
	Role       string
	MerchantID *uint
}

// IsPlatformAdmin 是否平台管理员
func (p Principal) IsPlatformAdmin() bool {
	return p.Role == constants.RolePlatformAdmin
}

// IsMerchantAdmin 是否指定商户的管理员
func (p Principal) IsMerchantAdmin(merchantID uint) bool {
	return p.Role == constants.RoleMerchantAdmin &&
		p.MerchantID != nil && *p.MerchantID == merchantID
}

// CanReadOrder 订单可见性：本人、所属商户管理员、平台管理员
func CanReadOrder(p Principal, order *models.Order) bool {
	if order == nil {
		return false
	}
	if p.IsPlatformAdmin() {
		return true
	}
	if p.IsMerchantAdmin(order.MerchantID) {
		return true
	}
	return p.Role == constants.RoleCustomer && p.UserID == order.UserID
}

// CanChangeOrderAddress 收货地址仅客户本人或平台管理员可改
func CanChangeOrderAddress(p Principal, order *models.Order) bool {
	if order == nil {
		return false
	}
	if p.IsPlatformAdmin() {
		return true
	}
	return p.Role == constants.RoleCustomer && p.UserID == order.UserID
}

// CanCancelOrder 取消订单：客户本人或平台管理员
func CanCancelOrder(p Principal, order *models.Order) bool {
	return CanChangeOrderAddress(p, order)
}

// CanShipOrder 发货/归还确认等履约操作：商户管理员或平台管理员
func CanShipOrder(p Principal, order *models.Order) bool {
	if order == nil {
		return false
	}
	return p.IsPlatformAdmin() || p.IsMerchantAdmin(order.MerchantID)
}

// CanForceTransition 任意状态强制流转仅平台管理员可用
func CanForceTransition(p Principal) bool {
	return p.IsPlatformAdmin()
}

// CanDeleteOrder 订单只允许平台管理员硬删除
func CanDeleteOrder(p Principal) bool {
	return p.IsPlatformAdmin()
}

// CanManageCredit 授信账户管理：该商户的管理员或平台管理员
func CanManageCredit(p Principal, merchantID uint) bool {
	return p.IsPlatformAdmin() || p.IsMerchantAdmin(merchantID)
}

// CanReadCredit 授信账户可见性：客户本人、该商户管理员、平台管理员
func CanReadCredit(p Principal, account *models.CreditAccount) bool {
	if account == nil {
		return false
	}
	if CanManageCredit(p, account.MerchantID) {
		return true
	}
	return p.Role == constants.RoleCustomer && p.UserID == account.UserID
}

// CanManageTemplate 运费模板管理：该商户管理员或平台管理员
func CanManageTemplate(p Principal, tmpl *models.ShippingTemplate) bool {
	if tmpl == nil {
		return false
	}
	return p.IsPlatformAdmin() || p.IsMerchantAdmin(tmpl.MerchantID)
}

// CanManageDevice 设备台账管理：该商户管理员或平台管理员
func CanManageDevice(p Principal, merchantID uint) bool {
	return p.IsPlatformAdmin() || p.IsMerchantAdmin(merchantID)
}

// CanRecordPayment 登记/确认支付：该商户管理员或平台管理员
func CanRecordPayment(p Principal, order *models.Order) bool {
	return CanShipOrder(p, order)
}
