package constants

// 订单状态常量
const (
	OrderStatusNew       = "new"
	OrderStatusPaid      = "paid"
	OrderStatusToShip    = "to_ship"
	OrderStatusShipped   = "shipped"
	OrderStatusInRent    = "in_rent"
	OrderStatusReturning = "returning"
	OrderStatusReturned  = "returned"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 设备状态常量
const (
	DeviceStatusInStock     = "in_stock"
	DeviceStatusInTransit   = "in_transit"
	DeviceStatusInRent      = "in_rent"
	DeviceStatusReturning   = "returning"
	DeviceStatusMaintenance = "maintenance"
	DeviceStatusRetired     = "retired"
)

// 授信账户状态常量
const (
	CreditStatusActive   = "active"
	CreditStatusDisabled = "disabled"
	CreditStatusFrozen   = "frozen"
)

// 授信流水类型常量
const (
	CreditTxnTypeFreeze      = "freeze"
	CreditTxnTypeRelease     = "release"
	CreditTxnTypeAdminAdjust = "admin_adjust"
)

// 支付单类型常量
const (
	PaymentTypeRent         = "rent"
	PaymentTypeOverdue      = "overdue"
	PaymentTypeAddressUp    = "address_up"
	PaymentTypeAddressDown  = "address_down"
	PaymentTypeCancelRefund = "cancel_refund"
)

// 支付单状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFailed   = "failed"
)

// SKU 状态常量
const (
	SKUStatusActive   = "active"
	SKUStatusInactive = "inactive"
)

// 用户角色常量
const (
	RoleCustomer      = "customer"
	RoleMerchantAdmin = "merchant_admin"
	RolePlatformAdmin = "platform_admin"
)

// 地址变更上限：同一订单最多允许修改两次收货地址
const MaxAddressChanges = 2

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderStatusNotify  = "order:status_notify"
	TaskOverdueScan        = "order:overdue_scan"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)
