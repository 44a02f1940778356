package models

import (
	"time"

	"gorm.io/gorm"
)

// Merchant 商户
type Merchant struct {
	ID           uint           `gorm:"primarykey" json:"id"`              // 主键
	Name         string         `gorm:"uniqueIndex;not null" json:"name"`  // 商户名称
	ContactName  string         `gorm:"type:varchar(64)" json:"contact_name"`  // 联系人
	ContactPhone string         `gorm:"type:varchar(32)" json:"contact_phone"` // 联系电话
	Status       string         `gorm:"index;not null" json:"status"`      // active/disabled
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (Merchant) TableName() string {
	return "merchants"
}

// MerchantSKU 商户可租赁 SKU
type MerchantSKU struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                      // 主键
	MerchantID         uint           `gorm:"index;not null" json:"merchant_id"`                         // 商户ID
	Name               string         `gorm:"not null" json:"name"`                                      // SKU 名称
	Model              string         `gorm:"type:varchar(128)" json:"model,omitempty"`                  // 设备型号
	DailyFee           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"daily_fee"`    // 日租金
	DeviceValue        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"device_value"` // 设备价值（授信冻结依据）
	ShippingTemplateID *uint          `gorm:"index" json:"shipping_template_id,omitempty"`               // 专属运费模板（为空时用商户默认模板）
	Status             string         `gorm:"index;not null" json:"status"`                              // active/inactive
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (MerchantSKU) TableName() string {
	return "merchant_skus"
}

// ReturnInfo 商户退货地址
type ReturnInfo struct {
	ID         uint      `gorm:"primarykey" json:"id"`                           // 主键
	MerchantID uint      `gorm:"index;not null" json:"merchant_id"`              // 商户ID
	Address    Address   `gorm:"type:json" json:"address"`                       // 退货地址
	IsDefault  bool      `gorm:"index;not null;default:false" json:"is_default"` // 默认退货点
	Active     bool      `gorm:"index;not null;default:true" json:"active"`      // 是否启用
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (ReturnInfo) TableName() string {
	return "return_infos"
}
