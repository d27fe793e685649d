// Package remote is the HTTP client for the item API served by stockmanager.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/pkg/httpx"
	"github.com/fekuna/stockmanager/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.ZapLogger
}

// NewClient builds a client for baseURL. A zero timeout leaves requests bounded only by ctx.
func NewClient(baseURL string, timeout time.Duration, log logger.ZapLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// itemPayload is the request body for create and update; ids are never sent.
type itemPayload struct {
	Name     string   `json:"name"`
	Category *string  `json:"category"`
	Brand    *string  `json:"brand"`
	Color    *string  `json:"color"`
	Unit     *string  `json:"unit"`
	Quantity *int64   `json:"quantity"`
	Price    *float64 `json:"price"`
	Supplier *string  `json:"supplier"`
	Notes    *string  `json:"notes"`
	Date     *string  `json:"date"`
}

func payloadOf(it model.Item) itemPayload {
	return itemPayload{
		Name:     it.Name,
		Category: it.Category,
		Brand:    it.Brand,
		Color:    it.Color,
		Unit:     it.Unit,
		Quantity: it.Quantity,
		Price:    it.Price,
		Supplier: it.Supplier,
		Notes:    it.Notes,
		Date:     it.Date,
	}
}

func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, it model.Item) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodPost, "/api/items", payloadOf(it), &out)
	return out, err
}

func (c *Client) UpdateItem(ctx context.Context, id int64, it model.Item) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodPut, "/api/items/"+strconv.FormatInt(id, 10), payloadOf(it), &out)
	return out, err
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(httpx.HeaderRequestID, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
