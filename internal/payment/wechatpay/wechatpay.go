// Package wechatpay 封装微信支付 APIv3 的 Native 收款与回调验签。
// 平台只收人民币整租金，交互形态固定为扫码，不做 H5/JSAPI。
package wechatpay

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zulin-next/internal/config"

	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
)

var (
	ErrConfigInvalid    = errors.New("微信支付配置无效")
	ErrRequestFailed    = errors.New("微信支付请求失败")
	ErrResponseInvalid  = errors.New("微信支付响应无效")
	ErrSignatureInvalid = errors.New("微信支付回调验签失败")
)

// Provider 微信支付提供方，实现 service.WechatPrepayer
type Provider struct {
	cfg        config.WeChatConfig
	privateKey *rsa.PrivateKey
	client     *core.Client
}

// NewProvider 创建微信支付提供方：加载商户私钥并初始化 API 客户端
func NewProvider(cfg config.WeChatConfig) (*Provider, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	privateKey, err := loadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	client, err := core.NewClient(ctx,
		option.WithWechatPayAutoAuthCipher(cfg.MchID, cfg.CertSerialNo, privateKey, cfg.APIv3Key),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: 初始化客户端失败: %v", ErrConfigInvalid, err)
	}
	return &Provider{
		cfg:        cfg,
		privateKey: privateKey,
		client:     client,
	}, nil
}

// PrepayNative 发起 Native 预下单，返回收款二维码链接
func (p *Provider) PrepayNative(outTradeNo, description string, amountFen int64) (string, error) {
	if amountFen <= 0 {
		return "", fmt.Errorf("%w: 金额必须大于零", ErrConfigInvalid)
	}
	outTradeNo = strings.TrimSpace(outTradeNo)
	if outTradeNo == "" {
		return "", fmt.Errorf("%w: 外部单号为空", ErrConfigInvalid)
	}
	if strings.TrimSpace(description) == "" {
		description = "设备租赁"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc := native.NativeApiService{Client: p.client}
	resp, result, err := svc.Prepay(ctx, native.PrepayRequest{
		Appid:       core.String(p.cfg.AppID),
		Mchid:       core.String(p.cfg.MchID),
		Description: core.String(description),
		OutTradeNo:  core.String(outTradeNo),
		NotifyUrl:   core.String(p.cfg.NotifyURL),
		Amount: &native.Amount{
			Total:    core.Int64(amountFen),
			Currency: core.String("CNY"),
		},
	})
	if err != nil {
		return "", wrapRequestError(err)
	}
	if result != nil && result.Response != nil &&
		(result.Response.StatusCode < 200 || result.Response.StatusCode >= 300) {
		return "", fmt.Errorf("%w: status %d", ErrResponseInvalid, result.Response.StatusCode)
	}
	if resp == nil || resp.CodeUrl == nil || strings.TrimSpace(*resp.CodeUrl) == "" {
		return "", fmt.Errorf("%w: 缺少 code_url", ErrResponseInvalid)
	}
	return strings.TrimSpace(*resp.CodeUrl), nil
}

// WebhookResult 回调验签解密后的交易信息
type WebhookResult struct {
	OutTradeNo    string
	TransactionID string
	TradeState    string
	Success       bool
	AmountFen     int64
	PaidAt        *time.Time
}

// VerifyWebhook 验签并解密支付回调
func (p *Provider) VerifyWebhook(ctx context.Context, req *http.Request) (*WebhookResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	mgr := downloader.MgrInstance()
	if !mgr.HasDownloader(ctx, p.cfg.MchID) {
		if err := mgr.RegisterDownloaderWithPrivateKey(ctx, p.privateKey, p.cfg.CertSerialNo, p.cfg.MchID, p.cfg.APIv3Key); err != nil {
			return nil, fmt.Errorf("%w: 注册平台证书下载器失败", ErrRequestFailed)
		}
	}
	verifier := verifiers.NewSHA256WithRSAVerifier(mgr.GetCertificateVisitor(p.cfg.MchID))
	handler, err := notify.NewRSANotifyHandler(p.cfg.APIv3Key, verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: 初始化回调处理器失败", ErrConfigInvalid)
	}

	transaction := new(payments.Transaction)
	if _, err := handler.ParseNotifyRequest(ctx, req, transaction); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	state := strings.ToUpper(pointerString(transaction.TradeState))
	result := &WebhookResult{
		OutTradeNo:    pointerString(transaction.OutTradeNo),
		TransactionID: pointerString(transaction.TransactionId),
		TradeState:    state,
		Success:       state == "SUCCESS",
		PaidAt:        parseTransactionTime(pointerString(transaction.SuccessTime)),
	}
	if transaction.Amount != nil && transaction.Amount.Total != nil {
		result.AmountFen = *transaction.Amount.Total
	}
	return result, nil
}

func validateConfig(cfg config.WeChatConfig) error {
	if strings.TrimSpace(cfg.MchID) == "" {
		return fmt.Errorf("%w: 缺少 mch_id", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.CertSerialNo) == "" {
		return fmt.Errorf("%w: 缺少 cert_serial_no", ErrConfigInvalid)
	}
	if len(strings.TrimSpace(cfg.APIv3Key)) != 32 {
		return fmt.Errorf("%w: apiv3_key 必须为 32 位", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.AppID) == "" {
		return fmt.Errorf("%w: 缺少 app_id", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.PrivateKeyPath) == "" {
		return fmt.Errorf("%w: 缺少 private_key_path", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.NotifyURL) == "" {
		return fmt.Errorf("%w: 缺少 notify_url", ErrConfigInvalid)
	}
	return nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取商户私钥失败: %v", ErrConfigInvalid, err)
	}
	privateKey, err := utils.LoadPrivateKey(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: 解析商户私钥失败", ErrConfigInvalid)
	}
	return privateKey, nil
}

func wrapRequestError(err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", ErrResponseInvalid, strings.TrimSpace(apiErr.Message))
	}
	return fmt.Errorf("%w: %v", ErrRequestFailed, err)
}

func pointerString(val *string) string {
	if val == nil {
		return ""
	}
	return strings.TrimSpace(*val)
}

func parseTransactionTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &parsed
}
