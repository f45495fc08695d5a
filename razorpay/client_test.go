package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	return NewClient(Config{BaseURL: srv.URL + "/", KeyID: "rzp_test_key", KeySecret: "s3cret"}, logger)
}

func TestClient_CreateOrder(t *testing.T) {
	var got createOrderRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "s3cret" {
			t.Errorf("Unexpected basic auth %q %q", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_Nx81aPq2","entity":"order","amount":2500,"currency":"INR","receipt":"order_rcptid_1","status":"created"}`))
	})

	intent, err := client.CreateOrder(context.Background(), 2500, "INR", "order_rcptid_1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.Amount != 2500 || got.Currency != "INR" || got.PaymentCapture != 1 || got.Receipt != "order_rcptid_1" {
		t.Errorf("Unexpected request body: %+v", got)
	}
	if intent.ID != "order_Nx81aPq2" || intent.Amount != 2500 || intent.Currency != "INR" {
		t.Errorf("Unexpected intent: %+v", intent)
	}
}

func TestClient_CreateOrder_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
	})

	_, err := client.CreateOrder(context.Background(), 10, "INR", "r")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "BAD_REQUEST_ERROR" {
		t.Errorf("Unexpected APIError: %+v", apiErr)
	}
}

func TestSignature(t *testing.T) {
	sig := Signature("secret", "order_A", "pay_B")
	if len(sig) != 64 {
		t.Fatalf("Expected 64 hex chars, got %d", len(sig))
	}

	if !VerifySignature("secret", "order_A", "pay_B", sig) {
		t.Error("Expected signature to verify")
	}
	if VerifySignature("secret", "order_A", "pay_C", sig) {
		t.Error("Expected signature for another payment to fail")
	}
	if VerifySignature("other", "order_A", "pay_B", sig) {
		t.Error("Expected signature under another secret to fail")
	}
	if VerifySignature("secret", "order_A", "pay_B", "") {
		t.Error("Expected empty signature to fail")
	}
}

func TestClient_VerifyPaymentSignature(t *testing.T) {
	client := NewClient(Config{KeySecret: "s3cret"}, zap.NewNop())

	if !client.VerifyPaymentSignature("order_1", "pay_1", Signature("s3cret", "order_1", "pay_1")) {
		t.Error("Expected valid signature")
	}
	if client.VerifyPaymentSignature("order_1", "pay_1", Signature("wrong", "order_1", "pay_1")) {
		t.Error("Expected invalid signature")
	}
}
