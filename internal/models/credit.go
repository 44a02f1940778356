package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditAccount 授信账户：每个 (客户, 商户) 至多一条
type CreditAccount struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                          // 主键
	UserID      uint      `gorm:"uniqueIndex:idx_credit_user_merchant;not null" json:"user_id"`  // 客户ID
	MerchantID  uint      `gorm:"uniqueIndex:idx_credit_user_merchant;not null" json:"merchant_id"` // 商户ID
	CreditLimit Money     `gorm:"type:decimal(20,2);not null;default:0" json:"credit_limit"`     // 授信额度
	UsedCredit  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"used_credit"`      // 已占用额度
	Status      string    `gorm:"index;not null" json:"status"`                                  // active/disabled/frozen
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (CreditAccount) TableName() string {
	return "credit_accounts"
}

// Available 可用额度 = 授信额度 - 已占用（每次读取即时计算）
func (a *CreditAccount) Available() decimal.Decimal {
	return a.CreditLimit.Decimal.Sub(a.UsedCredit.Decimal).Round(2)
}

// CreditTransaction 授信流水：冻结/释放/管理员调整的审计记录
type CreditTransaction struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                      // 主键
	AccountID  uint      `gorm:"index;not null" json:"account_id"`                          // 授信账户ID
	UserID     uint      `gorm:"index;not null" json:"user_id"`                             // 客户ID
	MerchantID uint      `gorm:"index;not null" json:"merchant_id"`                         // 商户ID
	OrderID    *uint     `gorm:"index" json:"order_id,omitempty"`                           // 关联订单ID
	Type       string    `gorm:"index;not null" json:"type"`                                // freeze/release/admin_adjust
	Amount     Money     `gorm:"type:decimal(20,2);not null" json:"amount"`                 // 变动金额
	UsedBefore Money     `gorm:"type:decimal(20,2);not null;default:0" json:"used_before"`  // 变动前已占用
	UsedAfter  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"used_after"`   // 变动后已占用
	Reference  string    `gorm:"index" json:"reference"`                                    // 幂等引用号
	Remark     string    `gorm:"type:varchar(255)" json:"remark"`                           // 备注
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
}

// TableName 指定表名
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
