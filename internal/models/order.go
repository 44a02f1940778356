package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// StatusChange 订单状态流转记录
type StatusChange struct {
	Status    string    `json:"status"`
	Operator  string    `json:"operator"`
	Notes     string    `json:"notes,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// StatusHistory 状态流转审计日志（只追加）
type StatusHistory []StatusChange

// Value 实现 driver.Valuer 接口
func (h StatusHistory) Value() (driver.Value, error) {
	if h == nil {
		return json.Marshal(StatusHistory{})
	}
	return json.Marshal(h)
}

// Scan 实现 sql.Scanner 接口
func (h *StatusHistory) Scan(value interface{}) error {
	if value == nil {
		*h = StatusHistory{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	}
	return nil
}

// AddressChange 单次地址变更记录（含变更前后运费）
type AddressChange struct {
	Before    Address   `json:"before"`
	After     Address   `json:"after"`
	FeeBefore Money     `json:"fee_before"`
	FeeAfter  Money     `json:"fee_after"`
	FeeDelta  Money     `json:"fee_delta"`
	Operator  string    `json:"operator"`
	ChangedAt time.Time `json:"changed_at"`
}

// AddressChangeHistory 地址变更日志（只追加）
type AddressChangeHistory []AddressChange

// Value 实现 driver.Valuer 接口
func (h AddressChangeHistory) Value() (driver.Value, error) {
	if h == nil {
		return json.Marshal(AddressChangeHistory{})
	}
	return json.Marshal(h)
}

// Scan 实现 sql.Scanner 接口
func (h *AddressChangeHistory) Scan(value interface{}) error {
	if value == nil {
		*h = AddressChangeHistory{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	}
	return nil
}

// Order 租赁订单：一个订单对应 一个客户 × 一个商户 × 一个 SKU × 至多一台设备
type Order struct {
	ID         uint   `gorm:"primarykey" json:"id"`                 // 主键
	OrderNo    string `gorm:"uniqueIndex;not null" json:"order_no"` // 订单编号
	UserID     uint   `gorm:"index;not null" json:"user_id"`        // 客户ID
	MerchantID uint   `gorm:"index;not null" json:"merchant_id"`    // 商户ID（下单时从 SKU 冗余）
	SKUID      uint   `gorm:"column:sku_id;index;not null" json:"sku_id"` // 商户 SKU ID
	DeviceID   *uint  `gorm:"index" json:"device_id,omitempty"`     // 绑定设备ID（发货时写入）
	DeviceSN   string `gorm:"index" json:"device_sn,omitempty"`     // 绑定设备序列号
	Status     string `gorm:"index;not null" json:"status"`         // 订单状态

	RentStartDate   time.Time  `gorm:"not null" json:"rent_start_date"`     // 约定起租日
	RentEndDate     time.Time  `gorm:"not null" json:"rent_end_date"`       // 约定到期日
	RentDays        int        `gorm:"not null" json:"rent_days"`           // 租期天数 = ceil(end - start)
	ActualStartDate *time.Time `gorm:"index" json:"actual_start_date"`      // 计费起始日：发货后次日零点
	ShippedAt       *time.Time `json:"shipped_at,omitempty"`                // 实际发货时间
	ReturnConfirmAt *time.Time `json:"return_confirm_at,omitempty"`         // 归还确认时间

	DailyFeeSnapshot      Money `gorm:"type:decimal(20,2);not null;default:0" json:"daily_fee_snapshot"`       // 日租金快照
	DeviceValueSnapshot   Money `gorm:"type:decimal(20,2);not null;default:0" json:"device_value_snapshot"`    // 设备价值快照
	ShippingFeeSnapshot   Money `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee_snapshot"`    // 运费快照（创建时定格，付款后不再改写）
	ShippingFeeAdjustment Money `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee_adjustment"`  // 付款后地址变更产生的运费差额（可为负）
	CreditHoldAmount      Money `gorm:"type:decimal(20,2);not null;default:0" json:"credit_hold_amount"`       // 授信冻结金额 = 设备价值快照
	TotalAmount           Money `gorm:"type:decimal(20,2);not null;default:0" json:"order_total_amount"`       // 订单总额（租金+运费+调整+逾期）

	CreditReleasedAt *time.Time `json:"credit_released_at,omitempty"` // 授信释放时间（终态释放，且仅释放一次）

	ShippingAddress Address `gorm:"type:json" json:"shipping_address"` // 收货地址
	ReturnAddress   Address `gorm:"type:json" json:"return_address"`   // 退回地址（商户默认退货点）

	AddressChangeCount int                  `gorm:"not null;default:0" json:"address_change_count"` // 地址变更次数（上限 2）
	AddressChanges     AddressChangeHistory `gorm:"type:json" json:"address_change_history"`        // 地址变更日志

	IsOverdue     bool  `gorm:"not null;default:false" json:"is_overdue"`                  // 是否逾期
	OverdueDays   int   `gorm:"not null;default:0" json:"overdue_days"`                    // 逾期天数
	OverdueAmount Money `gorm:"type:decimal(20,2);not null;default:0" json:"overdue_amount"` // 逾期费用

	History StatusHistory `gorm:"type:json" json:"status_history"` // 状态流转审计日志

	PaidAt      *time.Time     `gorm:"index" json:"paid_at"`      // 支付时间
	CanceledAt  *time.Time     `gorm:"index" json:"canceled_at"`  // 取消时间
	CompletedAt *time.Time     `gorm:"index" json:"completed_at"` // 完成时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`   // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`            // 软删除时间（仅平台管理员可删）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ShippingFeeTotal 返回运费快照与调整的合计
func (o *Order) ShippingFeeTotal() Money {
	return NewMoneyFromDecimal(o.ShippingFeeSnapshot.Decimal.Add(o.ShippingFeeAdjustment.Decimal))
}
