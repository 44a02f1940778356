package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// RegionRule 区域运费规则：区划代码前缀 → 运费
type RegionRule struct {
	RegionCodePath string `json:"region_code_path"` // 行政区划代码（可带补零，匹配时去除）
	Label          string `json:"label,omitempty"`  // 展示名称
	Fee            Money  `json:"fee"`              // 该区域运费
}

// RegionRules 区域运费规则列表
type RegionRules []RegionRule

// Value 实现 driver.Valuer 接口
func (r RegionRules) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal(RegionRules{})
	}
	return json.Marshal(r)
}

// Scan 实现 sql.Scanner 接口
func (r *RegionRules) Scan(value interface{}) error {
	if value == nil {
		*r = RegionRules{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return nil
}

// BlacklistRegion 不发货区域
type BlacklistRegion struct {
	RegionCodePath string `json:"region_code_path"` // 行政区划代码（可带补零，匹配时去除）
	Label          string `json:"label,omitempty"`  // 展示名称
	Reason         string `json:"reason,omitempty"` // 不发货原因
}

// BlacklistRegions 不发货区域列表
type BlacklistRegions []BlacklistRegion

// Value 实现 driver.Valuer 接口
func (r BlacklistRegions) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal(BlacklistRegions{})
	}
	return json.Marshal(r)
}

// Scan 实现 sql.Scanner 接口
func (r *BlacklistRegions) Scan(value interface{}) error {
	if value == nil {
		*r = BlacklistRegions{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return nil
}

// ShippingTemplate 商户运费模板
type ShippingTemplate struct {
	ID         uint             `gorm:"primarykey" json:"id"`                                   // 主键
	MerchantID uint             `gorm:"index;not null" json:"merchant_id"`                      // 商户ID
	Name       string           `gorm:"not null" json:"name"`                                   // 模板名称
	IsDefault  bool             `gorm:"index;not null;default:false" json:"is_default"`         // 商户默认模板（每商户至多一个）
	Active     bool             `gorm:"index;not null;default:true" json:"active"`              // 是否启用
	DefaultFee Money            `gorm:"type:decimal(20,2);not null;default:0" json:"default_fee"` // 兜底运费
	Rules      RegionRules      `gorm:"type:json" json:"rules"`                                 // 区域运费规则
	Blacklist  BlacklistRegions `gorm:"type:json" json:"blacklist"`                             // 不发货区域
	Version    int              `gorm:"not null;default:1" json:"version"`                      // 规则版本号，规则变更时递增
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt  time.Time        `gorm:"index" json:"updated_at"`                                // 更新时间
}

// TableName 指定表名
func (ShippingTemplate) TableName() string {
	return "shipping_templates"
}
