package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simonvc/ledgerbook/internal/ledger"
)

// APIError is a non-2xx response from the server. It unwraps to the ledger
// sentinel named by its code, or matching its status when the body carried
// no code, so callers can use errors.Is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "validation":
		return ledger.ErrValidation
	case "invalid_input":
		return ledger.ErrInvalidInput
	case "not_found":
		return ledger.ErrTransactionNotFound
	case "storage_unavailable":
		return ledger.ErrStorageUnavailable
	}

	switch e.Status {
	case http.StatusBadRequest:
		return ledger.ErrValidation
	case http.StatusNotFound:
		return ledger.ErrTransactionNotFound
	case http.StatusServiceUnavailable:
		return ledger.ErrStorageUnavailable
	}
	return nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateTransaction(ctx context.Context, d ledger.Draft) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.post(ctx, "/api/v1/transactions", d, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTransactions returns transactions newest first. An empty typ lists
// both types and limit <= 0 means no limit.
func (c *Client) ListTransactions(ctx context.Context, typ ledger.Type, limit int) ([]ledger.Transaction, error) {
	params := url.Values{}
	if typ != "" {
		params.Set("type", string(typ))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/v1/transactions"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var result []ledger.Transaction
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetTransaction(ctx context.Context, id int64) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.get(ctx, "/api/v1/transactions/"+strconv.FormatInt(id, 10), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Summary(ctx context.Context) (*ledger.Summary, error) {
	var result ledger.Summary
	if err := c.get(ctx, "/api/v1/reports/summary", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type amountResponse struct {
	Type   ledger.Type     `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

func (c *Client) Balance(ctx context.Context) (decimal.Decimal, error) {
	var result amountResponse
	if err := c.get(ctx, "/api/v1/reports/balance", &result); err != nil {
		return decimal.Zero, err
	}
	return result.Amount, nil
}

func (c *Client) SumByType(ctx context.Context, typ ledger.Type) (decimal.Decimal, error) {
	var result amountResponse
	if err := c.get(ctx, "/api/v1/reports/sum/"+url.PathEscape(string(typ)), &result); err != nil {
		return decimal.Zero, err
	}
	return result.Amount, nil
}

func (c *Client) TotalsByType(ctx context.Context) ([]ledger.TypeTotal, error) {
	var result []ledger.TypeTotal
	if err := c.get(ctx, "/api/v1/reports/totals", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// QuoteVAT asks the server's calculator. An empty rate uses the server's
// default.
func (c *Client) QuoteVAT(ctx context.Context, price, rate string) (*ledger.Quote, error) {
	params := url.Values{}
	params.Set("price", price)
	if rate != "" {
		params.Set("rate", rate)
	}

	var result ledger.Quote
	if err := c.get(ctx, "/api/v1/vat?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.doRequest(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return &APIError{Status: resp.StatusCode, Code: errResp.Code, Message: errResp.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: string(body)}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
