package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBase = "https://proxy.quadrahub.com.br/api/gateway"

// Client talks to the payment-gateway HTTP proxy. The proxy holds the
// platform-level account; per-arena sub-account keys travel with each request.
// Timeouts are the HTTP client's own; no call here retries on its own.
type Client struct {
	platformKey string
	http        *http.Client
	baseURL     string
}

func New(platformKey string, opts ...Option) *Client {
	c := &Client{
		platformKey: platformKey,
		http:        &http.Client{Timeout: 15 * time.Second},
		baseURL:     defaultBase,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) doJSON(ctx context.Context, method, path, arenaKey string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway encode: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.platformKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if arenaKey != "" {
		req.Header.Set("X-Arena-Access-Token", arenaKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		return &APIError{Status: res.StatusCode, Message: extractMessage(b)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// GetConfig reports whether the platform-level gateway account is enabled.
func (c *Client) GetConfig(ctx context.Context) (*ConfigStatus, error) {
	var status ConfigStatus
	if err := c.doJSON(ctx, http.MethodGet, "/config", "", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SaveConfig enables or updates the platform-level gateway account.
func (c *Client) SaveConfig(ctx context.Context, req ConfigRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/config", "", req, nil)
}

func (c *Client) CreateCustomer(ctx context.Context, arenaKey string, req CustomerRequest) (*CustomerResponse, error) {
	var customer CustomerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/customers", arenaKey, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) GetCustomer(ctx context.Context, arenaKey, customerID string) (*CustomerResponse, error) {
	var customer CustomerResponse
	if err := c.doJSON(ctx, http.MethodGet, "/customers/"+customerID, arenaKey, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreatePayment(ctx context.Context, arenaKey string, req PaymentRequest) (*PaymentResponse, error) {
	var payment PaymentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/payments", arenaKey, req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) GetPayment(ctx context.Context, arenaKey, paymentID string) (*PaymentResponse, error) {
	var payment PaymentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/payments/"+paymentID, arenaKey, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) GetPixQRCode(ctx context.Context, arenaKey, paymentID string) (*PixQRCodeResponse, error) {
	var qr PixQRCodeResponse
	if err := c.doJSON(ctx, http.MethodGet, "/payments/"+paymentID+"/qr-code", arenaKey, nil, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) GetBankSlip(ctx context.Context, arenaKey, paymentID string) (*BankSlipResponse, error) {
	var slip BankSlipResponse
	if err := c.doJSON(ctx, http.MethodGet, "/payments/"+paymentID+"/bank-slip", arenaKey, nil, &slip); err != nil {
		return nil, err
	}
	return &slip, nil
}
