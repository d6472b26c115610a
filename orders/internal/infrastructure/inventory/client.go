package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// ErrUnavailable means the stock check could not be answered. It never
// means "out of stock".
var ErrUnavailable = errors.New("inventory service unavailable")

// Client calls the inventory service's stock check endpoint.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory service URL (%s): %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("inventory service URL must be absolute: %s", baseURL)
	}
	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}, nil
}

// CheckStock asks whether quantity units of skuCode are available. Any
// transport, status or decoding problem is reported as ErrUnavailable.
func (c *Client) CheckStock(ctx context.Context, skuCode string, quantity int) (bool, error) {
	endpoint := c.baseURL.JoinPath("/api/inventory")
	q := endpoint.Query()
	q.Set("skuCode", skuCode)
	q.Set("quantity", strconv.Itoa(quantity))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Inventory call failed", zap.String("sku_code", skuCode), zap.Error(err))
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Inventory service returned non-success status",
			zap.String("sku_code", skuCode),
			zap.Int("status", resp.StatusCode))
		return false, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	// A nil answer (JSON null) is not "false"; only a literal boolean counts.
	var answer *bool
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&answer); err != nil {
		c.logger.Warn("Failed to decode inventory response", zap.String("sku_code", skuCode), zap.Error(err))
		return false, fmt.Errorf("%w: invalid response body: %v", ErrUnavailable, err)
	}
	if answer == nil {
		c.logger.Warn("Inventory response carried no answer", zap.String("sku_code", skuCode))
		return false, fmt.Errorf("%w: empty stock answer", ErrUnavailable)
	}
	inStock := *answer

	c.logger.Debug("Inventory check completed",
		zap.String("sku_code", skuCode),
		zap.Int("quantity", quantity),
		zap.Bool("in_stock", inStock))
	return inStock, nil
}
