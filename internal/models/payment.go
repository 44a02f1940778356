package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付/附加费记录：只追加，除状态流转外不修改
type Payment struct {
	ID          uint           `gorm:"primarykey" json:"id"`                      // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`            // 关联订单ID
	Type        string         `gorm:"index;not null" json:"type"`                // rent/overdue/address_up/address_down/cancel_refund
	Amount      Money          `gorm:"type:decimal(20,2);not null" json:"amount"` // 金额（正=应收，负=应退）
	Status      string         `gorm:"index;not null" json:"status"`              // pending/paid/refunded/failed
	Method      string         `gorm:"type:varchar(32)" json:"method,omitempty"`  // 支付方式（wechat/manual）
	ProviderRef string         `gorm:"index" json:"provider_ref,omitempty"`       // 第三方流水号
	Remark      string         `gorm:"type:varchar(255)" json:"remark,omitempty"` // 备注
	PaidAt      *time.Time     `gorm:"index" json:"paid_at"`                      // 支付时间
	RefundedAt  *time.Time     `json:"refunded_at,omitempty"`                     // 退款时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
