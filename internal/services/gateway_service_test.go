package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayment(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestGatewayCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 105000, body["amount"])
		assert.Equal(t, "INR", body["currency"])

		json.NewEncoder(w).Encode(map[string]string{"id": "order_live42"})
	}))
	defer server.Close()

	client := NewGatewayClient("key_test", "secret_test", server.URL, 5*time.Second)

	ref, err := client.CreateOrder(context.Background(), 105000, "INR")
	require.NoError(t, err)
	assert.Equal(t, "order_live42", ref)
}

func TestGatewayCreateOrderErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewGatewayClient("key_test", "bad_secret", server.URL, 5*time.Second)
		_, err := client.CreateOrder(context.Background(), 1000, "INR")
		assert.Error(t, err)
	})

	t.Run("missing order id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewGatewayClient("key_test", "secret_test", server.URL, 5*time.Second)
		_, err := client.CreateOrder(context.Background(), 1000, "INR")
		assert.Error(t, err)
	})
}

func TestGatewayVerifySignature(t *testing.T) {
	client := NewGatewayClient("key_test", "secret_test", "http://unused", time.Second)

	good := signPayment("secret_test", "order_live42", "pay_abc")
	assert.True(t, client.VerifySignature("order_live42", "pay_abc", good))

	// Wrong secret, tampered refs or a truncated signature all fail.
	assert.False(t, client.VerifySignature("order_live42", "pay_abc", signPayment("other", "order_live42", "pay_abc")))
	assert.False(t, client.VerifySignature("order_live42", "pay_xyz", good))
	assert.False(t, client.VerifySignature("order_live42", "pay_abc", good[:10]))
	assert.False(t, client.VerifySignature("order_live42", "pay_abc", ""))
}
