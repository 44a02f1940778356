package models

import (
	"time"

	"gorm.io/gorm"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User 平台用户（客户 / 商户管理员 / 平台管理员）
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`              // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // 登录邮箱
	PasswordHash string         `gorm:"type:varchar(200)" json:"-"`        // 密码哈希（bcrypt）
	Name         string         `gorm:"type:varchar(64)" json:"name"`      // 姓名
	Role         string         `gorm:"index;not null" json:"role"`        // customer/merchant_admin/platform_admin
	MerchantID   *uint          `gorm:"index" json:"merchant_id,omitempty"` // 商户管理员所属商户
	Status       string         `gorm:"index;not null" json:"status"`      // active/disabled
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
