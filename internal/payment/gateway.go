package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dishpatch-be/internal/logger"
	"dishpatch-be/internal/money"
	"dishpatch-be/internal/resilience"

	"go.uber.org/zap"
)

type httpGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ----------------- Constructor -----------------

func NewHTTPGateway(baseURL, apiKey string) Gateway {
	if apiKey == "" {
		logger.L().Warn("payment API key is empty")
	}

	return &httpGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ----------------- Charge -----------------

func (g *httpGateway) Charge(
	ctx context.Context,
	customerID, paymentMethodID string,
	amount money.Cents,
	idempotencyKey string,
) (*Result, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("customer_id", customerID),
		zap.String("payment_method_id", paymentMethodID),
		zap.String("amount", amount.String()),
		zap.String("idempotency_key", idempotencyKey),
	)

	body := map[string]interface{}{
		"customer_id":       customerID,
		"payment_method_id": paymentMethodID,
		"amount":            int64(amount),
		"currency":          "USD",
		"capture":           true,
	}

	result, err := g.post(ctx, "/v1/charges", body, idempotencyKey)
	if err != nil {
		log.Warn("charge failed", zap.Error(err))
		return nil, err
	}

	log.Info("charge succeeded", zap.String("provider_payment_id", result.ProviderPaymentID))
	return result, nil
}

// ----------------- Refund -----------------

func (g *httpGateway) Refund(
	ctx context.Context,
	providerPaymentID string,
	amount money.Cents,
) (*Result, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("provider_payment_id", providerPaymentID),
	)

	body := map[string]interface{}{
		"payment_id": providerPaymentID,
	}
	if amount > 0 {
		body["amount"] = int64(amount)
	}

	result, err := g.post(ctx, "/v1/refunds", body, "")
	if err != nil {
		log.Warn("refund request failed", zap.Error(err))
		return nil, err
	}

	log.Info("refund accepted", zap.String("status", result.Status))
	return result, nil
}

func (g *httpGateway) post(ctx context.Context, path string, body map[string]interface{}, idempotencyKey string) (*Result, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// Network errors and timeouts are worth retrying.
		return nil, resilience.Transient(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.Transient(err)
	}

	if err := classifyStatus(resp.StatusCode, raw); err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return &result, nil
}

// classifyStatus maps provider HTTP statuses onto the retry taxonomy:
// 5xx and 429 are transient, 402 is a terminal decline, other 4xx are
// invalid requests.
func classifyStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusPaymentRequired:
		return ErrDeclined
	case status == http.StatusTooManyRequests || status >= 500:
		return resilience.Transient(fmt.Errorf("provider error %d: %s", status, body))
	default:
		return fmt.Errorf("%w: provider error %d: %s", ErrInvalid, status, body)
	}
}
