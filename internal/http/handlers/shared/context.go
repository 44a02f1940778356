// Package shared 公共的处理器辅助函数。
package shared

import (
	"strconv"
	"strings"

	"github.com/zulin-next/internal/authz"
	"github.com/zulin-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// principalContextKey 与鉴权中间件写入的上下文 key 保持一致
const principalContextKey = "principal"

// MustPrincipal 读取上下文身份，缺失时写 401 并返回 false
func MustPrincipal(c *gin.Context) (authz.Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		response.Unauthorized(c, "未登录")
		return authz.Principal{}, false
	}
	principal, ok := value.(authz.Principal)
	if !ok || principal.UserID == 0 {
		response.Unauthorized(c, "未登录")
		return authz.Principal{}, false
	}
	return principal, true
}

// ParseIDParam 解析路径中的数字 ID
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "无效的 ID 参数")
		return 0, false
	}
	return uint(id), true
}

// ParseUintQuery 解析可选的数字查询参数，缺省或非法时返回 0
func ParseUintQuery(c *gin.Context, name string) uint {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// ParsePagination 解析并归一化分页查询参数
func ParsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return NormalizePagination(page, pageSize)
}

// NormalizePagination 归一化分页参数
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
