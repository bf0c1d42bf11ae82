package woocommerce

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"order-relay/config"
)

const fetchTimeout = 5 * time.Second

// Client fetches full order records from the commerce API for webhook
// payloads that only reference an order by id.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient builds a commerce API client authenticated with the configured
// key pair.
func NewClient(cfg config.WooCommerceConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetBasicAuth(cfg.Key, cfg.Secret).
		SetTimeout(fetchTimeout).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, logger: logger}
}

// FetchOrder retrieves one order record. A non-success response is an
// upstream fetch error; the caller does not retry.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (map[string]any, error) {
	var record map[string]any

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&record).
		Get("/orders/" + url.PathEscape(orderID))
	if err != nil {
		return nil, fmt.Errorf("commerce api request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("commerce api returned error status",
			zap.String("order_id", orderID),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return nil, fmt.Errorf("commerce api returned status %d for order %s", resp.StatusCode(), orderID)
	}

	return record, nil
}
