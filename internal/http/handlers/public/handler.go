// Package public 客户侧 API 处理器：注册登录、商品目录、下单与支付。
package public

import "github.com/zulin-next/internal/provider"

// Handler 客户侧接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建客户侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
