package service

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"
)

// VNPayConfig holds the merchant credentials and endpoints for the VNPay
// redirect gateway.
type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
	Version    string
	Command    string
	OrderType  string
}

func VNPayConfigFromEnv() VNPayConfig {
	cfg := VNPayConfig{
		TmnCode:    os.Getenv("VNP_TMN_CODE"),
		HashSecret: os.Getenv("VNP_HASH_SECRET"),
		PayURL:     os.Getenv("VNP_PAY_URL"),
		ReturnURL:  os.Getenv("VNP_RETURN_URL"),
		Version:    os.Getenv("VNP_VERSION"),
		Command:    os.Getenv("VNP_COMMAND"),
		OrderType:  os.Getenv("VNP_ORDER_TYPE"),
	}
	if cfg.Version == "" {
		cfg.Version = "2.1.0"
	}
	if cfg.Command == "" {
		cfg.Command = "pay"
	}
	if cfg.OrderType == "" {
		cfg.OrderType = "other"
	}
	return cfg
}

type VNPayService struct {
	cfg VNPayConfig
	now func() time.Time
}

func NewVNPayService(cfg VNPayConfig) *VNPayService {
	return &VNPayService{cfg: cfg, now: time.Now}
}

// vnpLocation is VNPay's timezone for vnp_CreateDate/vnp_ExpireDate.
var vnpLocation = time.FixedZone("GMT+7", 7*60*60)

// CreatePaymentURL builds the signed redirect URL for one payment attempt.
// amountVND is a whole-VND integer; VNPay wants its smallest unit, so the
// vnp_Amount parameter carries amountVND*100. The URL expires 15 minutes
// after creation.
func (s *VNPayService) CreatePaymentURL(txnRef string, amountVND int64, orderInfo, ipAddr string) (string, error) {
	if s.cfg.TmnCode == "" || s.cfg.HashSecret == "" || s.cfg.PayURL == "" {
		return "", fmt.Errorf("VNPay gateway is not configured")
	}

	createdAt := s.now().In(vnpLocation)
	params := map[string]string{
		"vnp_Version":    s.cfg.Version,
		"vnp_Command":    s.cfg.Command,
		"vnp_TmnCode":    s.cfg.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%d", amountVND*100),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  s.cfg.OrderType,
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  s.cfg.ReturnURL,
		"vnp_IpAddr":     ipAddr,
		"vnp_CreateDate": createdAt.Format("20060102150405"),
		"vnp_ExpireDate": createdAt.Add(15 * time.Minute).Format("20060102150405"),
	}

	hashData, query := buildSignableStrings(params)
	secureHash := hmacSHA512(s.cfg.HashSecret, hashData)
	return s.cfg.PayURL + "?" + query + "&vnp_SecureHash=" + secureHash, nil
}

// VerifyReturn checks the signature the gateway attached to the return query
// parameters. The hash fields themselves are excluded from the signed data.
func (s *VNPayService) VerifyReturn(params map[string]string) bool {
	received := params["vnp_SecureHash"]
	if received == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		filtered[k] = v
	}

	hashData, _ := buildSignableStrings(filtered)
	expected := hmacSHA512(s.cfg.HashSecret, hashData)
	return hmac.Equal([]byte(expected), []byte(received))
}

// buildSignableStrings sorts the params by name and produces the hash input
// (plain name, encoded value) and the query string (both encoded), matching
// the gateway's signing contract. Empty values are skipped.
func buildSignableStrings(params map[string]string) (hashData, query string) {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var hashBuf, queryBuf strings.Builder
	for i, name := range names {
		if i > 0 {
			hashBuf.WriteByte('&')
			queryBuf.WriteByte('&')
		}
		encoded := url.QueryEscape(params[name])
		hashBuf.WriteString(name)
		hashBuf.WriteByte('=')
		hashBuf.WriteString(encoded)
		queryBuf.WriteString(url.QueryEscape(name))
		queryBuf.WriteByte('=')
		queryBuf.WriteString(encoded)
	}
	return hashBuf.String(), queryBuf.String()
}

func hmacSHA512(key, data string) string {
	mac := hmac.New(sha512.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
