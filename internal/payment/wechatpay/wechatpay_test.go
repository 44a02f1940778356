package wechatpay

import (
	"testing"
	"time"

	"github.com/zulin-next/internal/config"
)

func validTestConfig() config.WeChatConfig {
	return config.WeChatConfig{
		Enabled:        true,
		MchID:          "1900000000",
		CertSerialNo:   "5157F09EFDC096DE15EBE81A47057A72",
		APIv3Key:       "0123456789abcdef0123456789abcdef",
		PrivateKeyPath: "/etc/wechat/apiclient_key.pem",
		AppID:          "wx1234567890abcdef",
		NotifyURL:      "https://pay.example.com/api/payments/wechat/notify",
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validTestConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*config.WeChatConfig)
	}{
		{"missing mch_id", func(c *config.WeChatConfig) { c.MchID = "" }},
		{"missing serial", func(c *config.WeChatConfig) { c.CertSerialNo = " " }},
		{"short apiv3 key", func(c *config.WeChatConfig) { c.APIv3Key = "tooshort" }},
		{"missing app_id", func(c *config.WeChatConfig) { c.AppID = "" }},
		{"missing key path", func(c *config.WeChatConfig) { c.PrivateKeyPath = "" }},
		{"missing notify_url", func(c *config.WeChatConfig) { c.NotifyURL = "" }},
	}
	for _, tc := range cases {
		cfg := validTestConfig()
		tc.mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestParseTransactionTime(t *testing.T) {
	if got := parseTransactionTime(""); got != nil {
		t.Fatalf("empty input must return nil, got %v", got)
	}
	if got := parseTransactionTime("not-a-time"); got != nil {
		t.Fatalf("invalid input must return nil, got %v", got)
	}
	got := parseTransactionTime("2025-10-23T14:30:00+08:00")
	if got == nil {
		t.Fatal("rfc3339 input must parse")
	}
	want := time.Date(2025, 10, 23, 14, 30, 0, 0, time.FixedZone("CST", 8*3600))
	if !got.Equal(want) {
		t.Fatalf("parsed time want %v got %v", want, got)
	}
}
