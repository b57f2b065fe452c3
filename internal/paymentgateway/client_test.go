package paymentgateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		fxRate float64
		amount int
		want   int64
	}{
		{name: "identity rate", fxRate: 1.0, amount: 999, want: 99900},
		{name: "fixed fx rate", fxRate: 80, amount: 999, want: 7992000},
		{name: "fractional rate rounds", fxRate: 1.5, amount: 3, want: 450},
		{name: "zero amount", fxRate: 1.0, amount: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient("key", "secret", "http://example.com", tt.fxRate)
			assert.Equal(t, tt.want, client.MinorUnits(tt.amount))
		})
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orders", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key_id", user)
			assert.Equal(t, "key_secret", pass)

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": "order_123", "amount": 99900, "currency": "INR", "status": "created"}`))
		}))
		defer srv.Close()

		client := NewClient("key_id", "key_secret", srv.URL, 1.0)
		order, err := client.CreateOrder(CreateOrderRequest{
			Amount:   99900,
			Currency: "INR",
			Receipt:  "rcpt-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "order_123", order.ID)
		assert.Equal(t, int64(99900), order.Amount)
		assert.Equal(t, "created", order.Status)
	})

	t.Run("unexpected status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewClient("key_id", "key_secret", srv.URL, 1.0)
		_, err := client.CreateOrder(CreateOrderRequest{Amount: 100, Currency: "INR"})
		assert.Error(t, err)
	})
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := NewClient("key_id", "key_secret", "http://example.com", 1.0)

	mac := hmac.New(sha256.New, []byte("key_secret"))
	mac.Write([]byte("order_123|pay_456"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifyPaymentSignature("order_123", "pay_456", valid))
	assert.False(t, client.VerifyPaymentSignature("order_123", "pay_456", "forged"))
	assert.False(t, client.VerifyPaymentSignature("order_999", "pay_456", valid))
}
