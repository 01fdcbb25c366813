package restaurant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dishpatch-be/internal/logger"
	"dishpatch-be/internal/resilience"

	"go.uber.org/zap"
)

type Client struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a client for the restaurant catalog service,
// serving both the restaurant-info and menu-item lookups.
func NewHTTPClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Get(ctx context.Context, restaurantID string) (*Info, error) {
	log := logger.FromCtx(ctx).With(zap.String("restaurant_id", restaurantID))

	var info Info
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/restaurants/%s", restaurantID), &info); err != nil {
		log.Warn("restaurant lookup failed", zap.Error(err))
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetItem(ctx context.Context, restaurantID, menuItemID string) (*MenuItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("restaurant_id", restaurantID),
		zap.String("menu_item_id", menuItemID),
	)

	var item MenuItem
	path := fmt.Sprintf("/v1/restaurants/%s/menu-items/%s", restaurantID, menuItemID)
	if err := c.getJSON(ctx, path, &item); err != nil {
		log.Warn("menu item lookup failed", zap.Error(err))
		return nil, err
	}
	return &item, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return resilience.Transient(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resilience.Transient(err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 500:
		return resilience.Transient(fmt.Errorf("catalog error %d: %s", resp.StatusCode, raw))
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("catalog error %d: %s", resp.StatusCode, raw)
	}

	return json.Unmarshal(raw, out)
}
