package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DivyaP1063/shophub/circuitbreaker"
	"github.com/DivyaP1063/shophub/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// Client talks to the Razorpay Orders API.
type Client struct {
	baseURL        string
	keyID          string
	keySecret      string
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	logger         *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		keyID:          cfg.KeyID,
		keySecret:      cfg.KeySecret,
		httpClient:     &http.Client{Timeout: timeout},
		circuitBreaker: circuitbreaker.NewCircuitBreaker(5, 30*time.Second),
		logger:         logger,
	}
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// CreateOrder creates an auto-captured payment order for amount, given in
// the currency's minor unit.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*models.PaymentIntent, error) {
	ctx, span := otel.Tracer("razorpay").Start(ctx, "CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("payment.amount", amount),
		attribute.String("payment.currency", currency),
	)

	body, err := json.Marshal(createOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	var out orderResponse
	err = c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodPost, "/orders", body, &out)
	})
	if err != nil {
		span.RecordError(err)
		c.logger.Error("Razorpay order creation failed",
			zap.String("receipt", receipt),
			zap.String("circuit_state", c.circuitBreaker.GetState().String()),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("razorpay.order_id", out.ID))
	return &models.PaymentIntent{
		ID:       out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		Receipt:  out.Receipt,
	}, nil
}

// VerifyPaymentSignature checks a checkout callback against the key secret.
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return VerifySignature(c.keySecret, orderID, paymentID, signature)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read razorpay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e errorResponse
		if json.Unmarshal(data, &e) == nil {
			apiErr.Code = e.Error.Code
			apiErr.Description = e.Error.Description
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode razorpay response: %w", err)
	}
	return nil
}
