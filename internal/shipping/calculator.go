// Package shipping 实现运费模板到目的地址的费用决策。
// 计算是纯函数：不读库、不校验模板归属，调用方负责先解析好 region_code。
package shipping

import (
	"strings"

	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/region"
)

// DefaultBlacklistReason 黑名单区域的兜底提示
const DefaultBlacklistReason = "该区域暂不支持发货"

// FeeResult 运费决策结果
type FeeResult struct {
	Fee             models.Money `json:"fee"`
	IsBlacklisted   bool         `json:"is_blacklisted"`
	BlacklistReason string       `json:"blacklist_reason,omitempty"`
	MatchedRule     string       `json:"matched_rule"` // blacklist:<code> / region:<code> / default
}

// CalculateFee 按 黑名单 → 区域规则 → 兜底运费 的优先级计算运费。
// 地址缺少 region_code 时黑名单与区域规则均无法命中，直接落到兜底运费；
// 调用方必须先补全 region_code，黑名单拦截才会生效。
func CalculateFee(tmpl *models.ShippingTemplate, addr models.Address) FeeResult {
	if tmpl == nil {
		return FeeResult{MatchedRule: "default"}
	}
	addrCode := strings.TrimSpace(addr.RegionCode)

	if addrCode != "" {
		for _, entry := range tmpl.Blacklist {
			prefix := region.TrimCode(entry.RegionCodePath)
			if prefix == "" || !strings.HasPrefix(addrCode, prefix) {
				continue
			}
			reason := strings.TrimSpace(entry.Reason)
			if reason == "" {
				reason = DefaultBlacklistReason
			}
			return FeeResult{
				IsBlacklisted:   true,
				BlacklistReason: reason,
				MatchedRule:     "blacklist:" + entry.RegionCodePath,
			}
		}

		// 取去零后前缀最长的规则：区 > 市 > 省
		bestLen := -1
		var best *models.RegionRule
		for i := range tmpl.Rules {
			prefix := region.TrimCode(tmpl.Rules[i].RegionCodePath)
			if prefix == "" || !strings.HasPrefix(addrCode, prefix) {
				continue
			}
			if len(prefix) > bestLen {
				bestLen = len(prefix)
				best = &tmpl.Rules[i]
			}
		}
		if best != nil {
			return FeeResult{
				Fee:         best.Fee,
				MatchedRule: "region:" + best.RegionCodePath,
			}
		}
	}

	return FeeResult{
		Fee:         tmpl.DefaultFee,
		MatchedRule: "default",
	}
}
