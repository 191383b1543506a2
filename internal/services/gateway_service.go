package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PaymentGateway abstracts the external payment provider. Amounts are always
// integer counts of the smallest currency unit; no floats cross this boundary.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency string) (string, error)
	VerifySignature(orderRef, paymentRef, signature string) bool
}

// GatewayClient talks to a Razorpay-style payment gateway over HTTP.
type GatewayClient struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewGatewayClient(keyID, keySecret, baseURL string, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

type gatewayOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PaymentCapture int    `json:"payment_capture"`
}

type gatewayOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers a payment intent with the gateway and returns its
// opaque order reference. The HTTP client carries a bounded timeout so a slow
// gateway cannot hang the checkout request.
func (g *GatewayClient) CreateOrder(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	payload, err := json.Marshal(gatewayOrderRequest{
		Amount:         amountMinorUnits,
		Currency:       currency,
		PaymentCapture: 1,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var result gatewayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("gateway response missing order id")
	}

	return result.ID, nil
}

// VerifySignature checks the gateway's HMAC-SHA256 checksum over the
// (orderRef, paymentRef) pair. Constant-time comparison; a mismatch means the
// callback is untrusted.
func (g *GatewayClient) VerifySignature(orderRef, paymentRef, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderRef, paymentRef)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
