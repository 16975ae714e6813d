package service

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVNPay() *VNPayService {
	svc := NewVNPayService(VNPayConfig{
		TmnCode:    "TESTTMN1",
		HashSecret: "test-secret",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:3000/payment-result",
		Version:    "2.1.0",
		Command:    "pay",
		OrderType:  "other",
	})
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCreatePaymentURL(t *testing.T) {
	svc := testVNPay()

	raw, err := svc.CreatePaymentURL("42", 810_000, "Dat coc booking #7", "203.0.113.9")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	// vnp_Amount is in VNPay's smallest unit: whole VND times 100.
	assert.Equal(t, "81000000", q.Get("vnp_Amount"))
	assert.Equal(t, "42", q.Get("vnp_TxnRef"))
	assert.Equal(t, "VND", q.Get("vnp_CurrCode"))
	assert.Equal(t, "vn", q.Get("vnp_Locale"))
	assert.Equal(t, "TESTTMN1", q.Get("vnp_TmnCode"))
	assert.NotEmpty(t, q.Get("vnp_SecureHash"))

	// Expiry is 15 minutes after creation in the gateway's timezone.
	created, err := time.ParseInLocation("20060102150405", q.Get("vnp_CreateDate"), vnpLocation)
	require.NoError(t, err)
	expires, err := time.ParseInLocation("20060102150405", q.Get("vnp_ExpireDate"), vnpLocation)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, expires.Sub(created))
}

func TestCreatePaymentURLUnconfigured(t *testing.T) {
	svc := NewVNPayService(VNPayConfig{})
	_, err := svc.CreatePaymentURL("1", 1000, "x", "127.0.0.1")
	assert.Error(t, err)
}

func TestVerifyReturnRoundTrip(t *testing.T) {
	svc := testVNPay()

	raw, err := svc.CreatePaymentURL("42", 810_000, "Dat coc booking #7", "203.0.113.9")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)

	params := map[string]string{}
	for k, vs := range u.Query() {
		params[k] = vs[0]
	}
	assert.True(t, svc.VerifyReturn(params))
}

func TestVerifyReturnDetectsTampering(t *testing.T) {
	svc := testVNPay()

	raw, err := svc.CreatePaymentURL("42", 810_000, "Dat coc booking #7", "203.0.113.9")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)

	params := map[string]string{}
	for k, vs := range u.Query() {
		params[k] = vs[0]
	}

	// Inflate the amount: the signature must no longer match.
	amount, err := strconv.ParseInt(params["vnp_Amount"], 10, 64)
	require.NoError(t, err)
	params["vnp_Amount"] = strconv.FormatInt(amount*10, 10)
	assert.False(t, svc.VerifyReturn(params))
}

func TestVerifyReturnMissingHash(t *testing.T) {
	svc := testVNPay()
	assert.False(t, svc.VerifyReturn(map[string]string{"vnp_TxnRef": "42"}))
}

func TestVerifyReturnIgnoresHashTypeField(t *testing.T) {
	svc := testVNPay()

	raw, err := svc.CreatePaymentURL("42", 810_000, "Dat coc booking #7", "203.0.113.9")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)

	params := map[string]string{}
	for k, vs := range u.Query() {
		params[k] = vs[0]
	}
	// Gateways may echo the hash algorithm; it is not part of the signed data.
	params["vnp_SecureHashType"] = "HmacSHA512"
	assert.True(t, svc.VerifyReturn(params))
}
