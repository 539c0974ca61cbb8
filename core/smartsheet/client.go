package smartsheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sheet-sync/core/reconcile"

	"golang.org/x/time/rate"
)

// Client is a Smartsheet REST API client implementing reconcile.Table.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

var _ reconcile.Table = (*Client)(nil)

// NewClient creates a client from the configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ApiKey == "" {
		return nil, fmt.Errorf("%w: smartsheet api key is not set", reconcile.ErrConfig)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid smartsheet base url %q", reconcile.ErrConfig, cfg.BaseURL)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.ApiKey,
		http:    &http.Client{Transport: transport, Timeout: timeoutDuration},
		limiter: limiter,
	}, nil
}

// GetSnapshot loads the columns and all rows of a sheet.
func (c *Client) GetSnapshot(ctx context.Context, tableID string) (*reconcile.Snapshot, error) {
	var s sheet
	err := c.do(ctx, http.MethodGet, sheetPath(tableID), nil, &s)

	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.ErrorCode == errorCodeNotFound) {
		return nil, fmt.Errorf("%w: sheet %s: %v", reconcile.ErrTableNotFound, tableID, err)
	}
	if err != nil {
		return nil, err
	}

	return toSnapshot(tableID, &s), nil
}

// UpdateRows rewrites existing rows.
func (c *Client) UpdateRows(ctx context.Context, tableID string, rows []reconcile.RowUpdate) error {
	body := make([]writeRow, len(rows))
	for i, r := range rows {
		body[i] = writeRow{ID: r.RowID, Cells: toWriteCells(r.Cells)}
	}
	return c.do(ctx, http.MethodPut, sheetPath(tableID)+"/rows", body, &result{})
}

// AddRows appends rows at the bottom of the sheet and returns their ids.
func (c *Client) AddRows(ctx context.Context, tableID string, rows []reconcile.RowInsert) ([]int64, error) {
	body := make([]writeRow, len(rows))
	for i, r := range rows {
		body[i] = writeRow{ToBottom: true, Cells: toWriteCells(r.Cells)}
	}

	var res result
	if err := c.do(ctx, http.MethodPost, sheetPath(tableID)+"/rows", body, &res); err != nil {
		return nil, err
	}

	ids := make([]int64, len(res.Result))
	for i, r := range res.Result {
		ids[i] = r.ID
	}
	return ids, nil
}

func sheetPath(tableID string) string {
	return "/sheets/" + url.PathEscape(tableID)
}

// do sends one request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("smartsheet %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
