package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Razorpay-Signature"

// Razorpay implements the Provider interface for Razorpay order/payment style
// integrations. Amounts are INR paise throughout.
type Razorpay struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
}

// CreateIntent synthesises an order-style intent without a network call. The
// token is deterministic per rental so a retried checkout maps to the same
// provider order.
func (p Razorpay) CreateIntent(_ context.Context, req IntentRequest) (IntentResponse, error) {
	if strings.TrimSpace(req.RentalID) == "" {
		return IntentResponse{}, errors.New("rental id is required")
	}
	if req.Amount <= 0 {
		return IntentResponse{}, errors.New("amount must be positive")
	}
	token := "order_" + p.orderDigest(req.RentalID)
	expiresAt := time.Now().Add(time.Duration(req.ExpiresAtSec) * time.Second)
	return IntentResponse{
		Provider:    "razorpay",
		Token:       token,
		RedirectURL: fmt.Sprintf("%s/v1/checkout/embedded/%s", strings.TrimRight(p.host(), "/"), token),
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

func (p Razorpay) host() string {
	host := strings.TrimSpace(p.BaseURL)
	if host == "" {
		return "https://api.razorpay.com"
	}
	return host
}

func (p Razorpay) orderDigest(rentalID string) string {
	mac := hmac.New(sha256.New, []byte(p.KeySecret))
	mac.Write([]byte(rentalID))
	return hex.EncodeToString(mac.Sum(nil))[:14]
}

// VerifyWebhook checks the body signature and normalises the event payload.
func (p Razorpay) VerifyWebhook(r *http.Request, body []byte) (WebhookVerifyResult, error) {
	secret := strings.TrimSpace(p.WebhookSecret)
	if secret == "" {
		return WebhookVerifyResult{Valid: false, Err: errors.New("webhook secret not configured")}, nil
	}
	provided := strings.TrimSpace(r.Header.Get(SignatureHeader))
	expected := ComputeWebhookSignature(secret, body)
	if provided == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
		return WebhookVerifyResult{Valid: false, Err: errors.New("invalid signature")}, nil
	}

	var payload struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					OrderID string `json:"order_id"`
					Amount  int64  `json:"amount"`
					Status  string `json:"status"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return WebhookVerifyResult{Valid: false, Err: err}, nil
	}
	entity := payload.Payload.Payment.Entity
	if entity.OrderID == "" {
		return WebhookVerifyResult{Valid: false, Err: errors.New("missing order id")}, nil
	}

	status := entity.Status
	if status == "" {
		status = statusFromEvent(payload.Event)
	}
	return WebhookVerifyResult{
		Valid:           true,
		IntentToken:     entity.OrderID,
		Amount:          entity.Amount,
		Status:          normaliseRazorpayStatus(status),
		ProviderPayload: body,
	}, nil
}

// ComputeWebhookSignature returns the hex HMAC-SHA256 over the raw body.
func ComputeWebhookSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func statusFromEvent(event string) string {
	if idx := strings.LastIndex(event, "."); idx >= 0 {
		return event[idx+1:]
	}
	return event
}

func normaliseRazorpayStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "captured", "authorized", "paid":
		return "PAID"
	case "failed":
		return "FAILED"
	case "expired":
		return "EXPIRED"
	case "refunded":
		return "REFUNDED"
	default:
		return "PENDING"
	}
}
