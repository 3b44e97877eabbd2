package payment

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRazorpayIntentIsDeterministic(t *testing.T) {
	p := Razorpay{KeyID: "rzp_test_key", KeySecret: "secret", WebhookSecret: "whsecret"}

	first, err := p.CreateIntent(context.Background(), IntentRequest{RentalID: "a3c9b2f0-1111-2222-3333-444455556666", Amount: 150000, Currency: "INR", ExpiresAtSec: 900})
	require.NoError(t, err)
	second, err := p.CreateIntent(context.Background(), IntentRequest{RentalID: "a3c9b2f0-1111-2222-3333-444455556666", Amount: 150000, Currency: "INR", ExpiresAtSec: 900})
	require.NoError(t, err)

	require.Equal(t, first.Token, second.Token)
	require.True(t, strings.HasPrefix(first.Token, "order_"))
	require.Equal(t, "razorpay", first.Provider)
	require.Contains(t, first.RedirectURL, first.Token)
}

func TestRazorpayIntentRejectsBadInput(t *testing.T) {
	p := Razorpay{KeySecret: "secret"}
	_, err := p.CreateIntent(context.Background(), IntentRequest{Amount: 100})
	require.Error(t, err)
	_, err = p.CreateIntent(context.Background(), IntentRequest{RentalID: "r1", Amount: 0})
	require.Error(t, err)
}

func TestRazorpayVerifyWebhook(t *testing.T) {
	p := Razorpay{WebhookSecret: "whsecret"}
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"order_id":"order_abc123","amount":150000,"status":"captured"}}}}`)

	r := httptest.NewRequest("POST", "/webhooks/payment/razorpay", strings.NewReader(string(body)))
	r.Header.Set(SignatureHeader, ComputeWebhookSignature("whsecret", body))

	result, err := p.VerifyWebhook(r, body)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "order_abc123", result.IntentToken)
	require.Equal(t, int64(150000), result.Amount)
	require.Equal(t, "PAID", result.Status)
}

func TestRazorpayVerifyWebhookRejectsBadSignature(t *testing.T) {
	p := Razorpay{WebhookSecret: "whsecret"}
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"order_id":"order_abc123","amount":150000,"status":"captured"}}}}`)

	r := httptest.NewRequest("POST", "/webhooks/payment/razorpay", strings.NewReader(string(body)))
	r.Header.Set(SignatureHeader, "deadbeef")

	result, err := p.VerifyWebhook(r, body)
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestRazorpayStatusFallsBackToEvent(t *testing.T) {
	p := Razorpay{WebhookSecret: "whsecret"}
	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"order_id":"order_abc123","amount":150000}}}}`)

	r := httptest.NewRequest("POST", "/webhooks/payment/razorpay", strings.NewReader(string(body)))
	r.Header.Set(SignatureHeader, ComputeWebhookSignature("whsecret", body))

	result, err := p.VerifyWebhook(r, body)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "FAILED", result.Status)
}

func TestNormaliseWebhookStatus(t *testing.T) {
	require.Equal(t, "PAID", string(normaliseWebhookStatus("captured")))
	require.Equal(t, "PAID", string(normaliseWebhookStatus("PAID")))
	require.Equal(t, "FAILED", string(normaliseWebhookStatus("failed")))
	require.Equal(t, "EXPIRED", string(normaliseWebhookStatus("expired")))
	require.Equal(t, "REFUNDED", string(normaliseWebhookStatus("refunded")))
	require.Equal(t, "PENDING", string(normaliseWebhookStatus("created")))
}
