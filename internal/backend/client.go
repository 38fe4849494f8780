package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pos-terminal/internal/domain"
)

// Client talks to the back-office REST API the terminal depends on. Each
// endpoint is a black box: any non-2xx response surfaces as an error and is
// assumed to have performed no side effects.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SearchProducts(ctx context.Context, category, search string) ([]domain.Product, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if search != "" {
		q.Set("search", search)
	}
	path := "/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var products []domain.Product
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListTables(ctx context.Context) ([]domain.Table, error) {
	var tables []domain.Table
	if err := c.getJSON(ctx, "/tables", &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// OccupyTable marks the table occupied and returns the updated record. The
// server treats the call as idempotent for already-occupied tables.
func (c *Client) OccupyTable(ctx context.Context, id int64) (*domain.Table, error) {
	var table domain.Table
	if err := c.postJSON(ctx, fmt.Sprintf("/tables/%d/occupy", id), nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (c *Client) ReleaseTable(ctx context.Context, id int64) error {
	return c.postJSON(ctx, fmt.Sprintf("/tables/%d/release", id), nil, nil)
}

// FetchPending returns the fired-order record for a table, or the global
// take-away record when tableID is nil. A 404 maps to domain.ErrNotFound.
func (c *Client) FetchPending(ctx context.Context, tableID *int64) (*domain.PendingOrder, error) {
	path := "/orders/pending"
	if tableID != nil {
		path += "?tableId=" + strconv.FormatInt(*tableID, 10)
	}
	var pending domain.PendingOrder
	if err := c.getJSON(ctx, path, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// SubmitPending overwrites the server's pending record for the submission's
// context with the full current cart.
func (c *Client) SubmitPending(ctx context.Context, sub domain.OrderSubmission) error {
	return c.postJSON(ctx, "/orders/pending", sub, nil)
}

func (c *Client) SubmitOrder(ctx context.Context, sub domain.OrderSubmission) (*domain.OrderReceipt, error) {
	var receipt domain.OrderReceipt
	if err := c.postJSON(ctx, "/orders", sub, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: unexpected status %d", path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
