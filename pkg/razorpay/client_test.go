package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureIsDeterministic(t *testing.T) {
	a := Signature("secret", "order_1", "pay_1")
	b := Signature("secret", "order_1", "pay_1")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, Signature("other", "order_1", "pay_1"))
	assert.NotEqual(t, a, Signature("secret", "order_2", "pay_1"))
}

func TestVerifySignature(t *testing.T) {
	c := NewClient("key", "secret", "http://localhost")

	sig := Signature("secret", "order_1", "pay_1")
	assert.True(t, c.VerifySignature("order_1", "pay_1", sig))
	assert.False(t, c.VerifySignature("order_1", "pay_1", "forged"))
	assert.False(t, c.VerifySignature("order_1", "pay_2", sig))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", username)
		assert.Equal(t, "secret", password)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(49900), req["amount"])
		assert.Equal(t, "INR", req["currency"])

		json.NewEncoder(w).Encode(Order{
			ID:       "order_test_1",
			Amount:   49900,
			Currency: "INR",
			Receipt:  req["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := NewClient("key", "secret", srv.URL)

	order, err := c.CreateOrder(context.Background(), 49900, "INR", "rcpt_1")
	require.NoError(t, err)
	assert.Equal(t, "order_test_1", order.ID)
	assert.Equal(t, "rcpt_1", order.Receipt)
}

func TestCreateOrderRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Order{})
	}))
	defer srv.Close()

	c := NewClient("key", "secret", srv.URL)

	_, err := c.CreateOrder(context.Background(), 100, "INR", "rcpt_1")
	assert.Error(t, err)
}

func TestCreateOrderRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("key", "secret", srv.URL)

	_, err := c.CreateOrder(context.Background(), 100, "INR", "rcpt_1")
	assert.Error(t, err)
}
