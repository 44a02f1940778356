package region

import "testing"

func TestParseAddressFullThreeLevels(t *testing.T) {
	got := ParseAddress("广东省深圳市南山区科技园南路")
	if got.Province != "广东省" {
		t.Fatalf("unexpected province: %q", got.Province)
	}
	if got.City != "深圳市" {
		t.Fatalf("unexpected city: %q", got.City)
	}
	if got.District != "南山区" {
		t.Fatalf("unexpected district: %q", got.District)
	}
	if got.Street != "科技园南路" {
		t.Fatalf("unexpected street: %q", got.Street)
	}
}

func TestParseAddressEmptyInput(t *testing.T) {
	got := ParseAddress("")
	if got.Province != "" || got.City != "" || got.District != "" || got.Street != "" {
		t.Fatalf("expected all empty fields, got: %+v", got)
	}
	got = ParseAddress("   ")
	if got.Province != "" || got.Street != "" {
		t.Fatalf("expected whitespace input to yield empty fields, got: %+v", got)
	}
}

func TestParseAddressMunicipalitySkipsCityLevel(t *testing.T) {
	got := ParseAddress("北京市海淀区西土城路10号")
	if got.Province != "北京市" {
		t.Fatalf("unexpected province: %q", got.Province)
	}
	if got.City != "" {
		t.Fatalf("municipality should leave city empty, got: %q", got.City)
	}
	if got.District != "海淀区" {
		t.Fatalf("unexpected district: %q", got.District)
	}
	if got.Street != "西土城路10号" {
		t.Fatalf("unexpected street: %q", got.Street)
	}
}

func TestParseAddressAutonomousRegion(t *testing.T) {
	got := ParseAddress("内蒙古自治区锡林郭勒盟锡林浩特市希望大街1号")
	if got.Province != "内蒙古自治区" {
		t.Fatalf("unexpected province: %q", got.Province)
	}
	if got.City != "锡林郭勒盟" {
		t.Fatalf("unexpected city: %q", got.City)
	}
	// 已识别出市（盟）后允许“市”后缀捕获县级市
	if got.District != "锡林浩特市" {
		t.Fatalf("unexpected district: %q", got.District)
	}
}

func TestParseAddressCityNameContainingZhou(t *testing.T) {
	got := ParseAddress("浙江省杭州市西湖区文三路90号")
	if got.City != "杭州市" {
		t.Fatalf("unexpected city: %q", got.City)
	}
	if got.District != "西湖区" {
		t.Fatalf("unexpected district: %q", got.District)
	}
}

func TestParseAddressCountyLevelCity(t *testing.T) {
	got := ParseAddress("江苏省苏州市昆山市玉山镇人民路99号")
	if got.City != "苏州市" {
		t.Fatalf("unexpected city: %q", got.City)
	}
	if got.District != "昆山市" {
		t.Fatalf("unexpected district: %q", got.District)
	}
}

func TestParseAddressMissingLevels(t *testing.T) {
	got := ParseAddress("深圳市南山区科技园")
	if got.Province != "" {
		t.Fatalf("expected empty province, got: %q", got.Province)
	}
	if got.City != "深圳市" || got.District != "南山区" {
		t.Fatalf("unexpected parse: %+v", got)
	}

	got = ParseAddress("某条没有区划后缀的街道")
	if got.Province != "" || got.City != "" || got.District != "" {
		t.Fatalf("expected no levels matched, got: %+v", got)
	}
	if got.Street != "某条没有区划后缀的街道" {
		t.Fatalf("unexpected street: %q", got.Street)
	}
}

func TestTrimCode(t *testing.T) {
	cases := map[string]string{
		"440000": "44",
		"440300": "4403",
		"440305": "440305",
		"":       "",
		"00":     "",
	}
	for input, expected := range cases {
		if got := TrimCode(input); got != expected {
			t.Fatalf("TrimCode(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestNameForCode(t *testing.T) {
	names, ok := NameForCode("440305")
	if !ok {
		t.Fatalf("expected lookup to succeed")
	}
	if names.Province != "广东省" || names.City != "深圳市" || names.District != "南山区" {
		t.Fatalf("unexpected names: %+v", names)
	}

	names, ok = NameForCode("110108")
	if !ok {
		t.Fatalf("expected municipality lookup to succeed")
	}
	if names.Province != "北京市" || names.District != "海淀区" {
		t.Fatalf("unexpected names: %+v", names)
	}

	if _, ok := NameForCode("990101"); ok {
		t.Fatalf("unknown province code should fail")
	}
	if _, ok := NameForCode("4403"); ok {
		t.Fatalf("short code should fail")
	}
}

func TestCodeForNames(t *testing.T) {
	code, ok := CodeForNames("广东省", "深圳市", "南山区")
	if !ok || code != "440305" {
		t.Fatalf("unexpected code: %q ok=%v", code, ok)
	}
	code, ok = CodeForNames("广东省", "深圳市", "")
	if !ok || code != "440300" {
		t.Fatalf("unexpected city code: %q ok=%v", code, ok)
	}
	code, ok = CodeForNames("广东省", "", "")
	if !ok || code != "440000" {
		t.Fatalf("unexpected province code: %q ok=%v", code, ok)
	}
	// 直辖市：市级为空，区县直接挂在市辖区下
	code, ok = CodeForNames("北京市", "", "海淀区")
	if !ok || code != "110108" {
		t.Fatalf("unexpected municipality district code: %q ok=%v", code, ok)
	}
	if _, ok := CodeForNames("广东省", "深圳市", "不存在的区"); ok {
		t.Fatalf("unknown district should fail")
	}
	if _, ok := CodeForNames("", "深圳市", ""); ok {
		t.Fatalf("empty province should fail")
	}
}
