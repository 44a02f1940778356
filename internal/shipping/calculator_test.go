package shipping

import (
	"testing"

	"github.com/zulin-next/internal/models"

	"github.com/shopspring/decimal"
)

func money(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}

func newTemplate() *models.ShippingTemplate {
	return &models.ShippingTemplate{
		MerchantID: 1,
		Name:       "华南配送",
		DefaultFee: money(20),
		Rules: models.RegionRules{
			{RegionCodePath: "440000", Fee: money(10)},
			{RegionCodePath: "440300", Fee: money(5)},
		},
		Blacklist: models.BlacklistRegions{
			{RegionCodePath: "540000", Reason: "高原地区物流不可达"},
			{RegionCodePath: "810000"},
		},
	}
}

func TestCalculateFeeLongestPrefixWins(t *testing.T) {
	result := CalculateFee(newTemplate(), models.Address{RegionCode: "440305"})
	if result.IsBlacklisted {
		t.Fatalf("unexpected blacklist hit")
	}
	if !result.Fee.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected district rule fee 5, got %s", result.Fee)
	}
	if result.MatchedRule != "region:440300" {
		t.Fatalf("unexpected matched rule: %s", result.MatchedRule)
	}
}

func TestCalculateFeeProvinceRuleFallback(t *testing.T) {
	result := CalculateFee(newTemplate(), models.Address{RegionCode: "440103"})
	if !result.Fee.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected province rule fee 10, got %s", result.Fee)
	}
}

func TestCalculateFeeDefaultWhenNoRuleMatches(t *testing.T) {
	result := CalculateFee(newTemplate(), models.Address{RegionCode: "330106"})
	if !result.Fee.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected default fee 20, got %s", result.Fee)
	}
	if result.MatchedRule != "default" {
		t.Fatalf("unexpected matched rule: %s", result.MatchedRule)
	}
}

func TestCalculateFeeBlacklistShortCircuits(t *testing.T) {
	tmpl := newTemplate()
	// 同一区域既在黑名单又有区域规则时，黑名单优先
	tmpl.Rules = append(tmpl.Rules, models.RegionRule{RegionCodePath: "540100", Fee: money(50)})
	result := CalculateFee(tmpl, models.Address{RegionCode: "540102"})
	if !result.IsBlacklisted {
		t.Fatalf("expected blacklist hit")
	}
	if !result.Fee.Decimal.IsZero() {
		t.Fatalf("blacklisted region must not be charged, got %s", result.Fee)
	}
	if result.BlacklistReason != "高原地区物流不可达" {
		t.Fatalf("unexpected reason: %s", result.BlacklistReason)
	}
}

func TestCalculateFeeBlacklistDefaultReason(t *testing.T) {
	result := CalculateFee(newTemplate(), models.Address{RegionCode: "810000"})
	if !result.IsBlacklisted {
		t.Fatalf("expected blacklist hit")
	}
	if result.BlacklistReason != DefaultBlacklistReason {
		t.Fatalf("unexpected reason: %s", result.BlacklistReason)
	}
}

func TestCalculateFeeMissingRegionCodeFallsToDefault(t *testing.T) {
	// 已知局限：没有 region_code 时黑名单无法命中，只能返回兜底运费
	result := CalculateFee(newTemplate(), models.Address{Province: "西藏自治区"})
	if result.IsBlacklisted {
		t.Fatalf("missing region code must not hit blacklist")
	}
	if !result.Fee.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected default fee, got %s", result.Fee)
	}
}
