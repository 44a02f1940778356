// Package admin 提供商户与平台管理端接口。
// 路由层已用 RequireRoles 限制到管理员角色，本包内仍按资源做商户归属校验。
package admin

import "github.com/zulin-next/internal/provider"

// Handler 管理端接口处理器
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
