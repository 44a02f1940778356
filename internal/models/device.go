package models

import (
	"time"

	"gorm.io/gorm"
)

// Device 物理设备：一台具体可出租的机器
type Device struct {
	ID         uint           `gorm:"primarykey" json:"id"`            // 主键
	SN         string         `gorm:"uniqueIndex;not null" json:"sn"`  // 设备序列号
	SKUID      uint           `gorm:"column:sku_id;index;not null" json:"sku_id"` // 所属 SKU
	MerchantID uint           `gorm:"index;not null" json:"merchant_id"` // 所属商户
	Status     string         `gorm:"index;not null" json:"status"`    // in_stock/in_transit/in_rent/returning/maintenance/retired
	Remark     string         `gorm:"type:varchar(255)" json:"remark,omitempty"` // 备注
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`         // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`         // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                  // 软删除时间
}

// TableName 指定表名
func (Device) TableName() string {
	return "devices"
}

// Shippable 设备是否处于可发货状态
func (d *Device) Shippable() bool {
	return d.Status == "in_stock" || d.Status == "in_transit"
}
