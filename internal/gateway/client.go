// Package gateway is the HTTP client for the loan calculation service.
// Every completed dialog turn ends in exactly one POST here; the
// resolver never retries on its own.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"loan-clarity-resolver/internal/common/config"
	"loan-clarity-resolver/internal/common/errors"
	"loan-clarity-resolver/internal/common/logger"
	"loan-clarity-resolver/internal/common/metrics"
	"loan-clarity-resolver/internal/intent"
	"loan-clarity-resolver/internal/models"
)

// intentPaths maps each intent to its gateway endpoint. EMI is resolved
// per-request because the path depends on the interest method.
var intentPaths = map[intent.Intent]string{
	intent.Schedule:      "/api/loans/schedule",
	intent.Outstanding:   "/api/loans/schedule/outstanding",
	intent.Prepayment:    "/api/loans/prepayment",
	intent.Settlement:    "/api/loans/early-settlement",
	intent.ModifyEMI:     "/api/loans/modify/emi",
	intent.ModifyTenure:  "/api/loans/modify/tenure",
	intent.Compare:       "/api/loans/compare",
	intent.Tax:           "/api/loans/tax-benefits",
	intent.Eligibility:   "/api/loans/eligibility",
	intent.Affordability: "/api/loans/affordability",
	intent.EffectiveRate: "/api/loans/effective-rate",
}

// Client posts completed request bodies to the calculation gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg config.GatewayConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		logger: log,
	}
}

// Path returns the endpoint for an intent given the request body. The
// EMI endpoint splits by interest method.
func Path(in intent.Intent, body map[string]interface{}) string {
	if in == intent.EMI {
		if method, _ := body["interest_method"].(string); method == models.MethodFlat {
			return "/api/loans/emi/flat"
		}
		return "/api/loans/emi/reducing"
	}
	return intentPaths[in]
}

// Invoke validates the body against the endpoint's schema, posts it once,
// and returns the raw gateway response. Transport failures come back as
// retryable GATEWAY_UNAVAILABLE; any non-2xx status as GATEWAY_REJECTED.
func (c *Client) Invoke(ctx context.Context, in intent.Intent, body map[string]interface{}) (json.RawMessage, error) {
	if err := Validate(in, body); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("unencodable request body: %v", err))
	}

	url := c.baseURL + Path(in, body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("building gateway request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(string(in), "unreachable").Inc()
		return nil, errors.NewGatewayUnavailableError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(string(in), "unreachable").Inc()
		return nil, errors.NewGatewayUnavailableError(err)
	}

	metrics.GatewayRequestsTotal.WithLabelValues(string(in), strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("gateway rejected request", map[string]interface{}{
			"intent": string(in),
			"status": resp.StatusCode,
		})
		return nil, errors.NewGatewayRejectedError(resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return json.RawMessage(respBody), nil
}

