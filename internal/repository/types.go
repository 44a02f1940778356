package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	MerchantID  uint
	SKUID       uint
	Status      string
	OrderNo     string
	OnlyOverdue bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CreditAccountListFilter 查询授信账户列表的过滤条件
type CreditAccountListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	MerchantID uint
	Status     string
}

// CreditTransactionListFilter 查询授信流水列表的过滤条件
type CreditTransactionListFilter struct {
	Page        int
	PageSize    int
	AccountID   uint
	UserID      uint
	MerchantID  uint
	OrderID     uint
	Type        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PaymentListFilter 查询支付单列表的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	Type        string
	Status      string
	Method      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// DeviceListFilter 查询设备列表的过滤条件
type DeviceListFilter struct {
	Page       int
	PageSize   int
	MerchantID uint
	SKUID      uint
	Status     string
	SN         string
}

// SKUListFilter 查询商户 SKU 列表的过滤条件
type SKUListFilter struct {
	Page       int
	PageSize   int
	MerchantID uint
	Status     string
	Search     string
}

// ShippingTemplateListFilter 查询运费模板列表的过滤条件
type ShippingTemplateListFilter struct {
	Page       int
	PageSize   int
	MerchantID uint
	OnlyActive bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	Status      string
	MerchantID  uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
