// Package payments wraps the Paystack-style gateway used for wallet
// withdrawals. Only the two endpoints the wallet needs are covered.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// shared HTTP client for gateway calls
var gatewayHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for gateway calls (5 requests/second with burst capacity of 2)
var gatewayRateLimiter = rate.NewLimiter(5, 2)

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// a transfer accepted by the gateway
type Transfer struct {
	Reference    string `json:"reference"`
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
}

// a resolved bank account
type Account struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

type transferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"` // subunits (kobo)
	Recipient string `json:"recipient"`
	Reason    string `json:"reason,omitempty"`
	Reference string `json:"reference"`
}

// every gateway response carries this envelope
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: gatewayHTTPClient,
		limiter:    gatewayRateLimiter,
	}
}

// reports whether a secret key was configured; withdrawals are disabled
// without one
func (c *Client) Enabled() bool {
	return c.secretKey != ""
}

// starts a transfer of amount (in subunits) to a prepared recipient code
func (c *Client) InitiateTransfer(ctx context.Context, amount int64, recipient, reason, reference string) (*Transfer, error) {
	body := transferRequest{
		Source:    "balance",
		Amount:    amount,
		Recipient: recipient,
		Reason:    reason,
		Reference: reference,
	}

	var transfer Transfer
	if err := c.post(ctx, "/transfer", body, &transfer); err != nil {
		return nil, err
	}

	return &transfer, nil
}

// looks up the account name behind an account number and bank code
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*Account, error) {
	path := fmt.Sprintf("/bank/resolve?account_number=%s&bank_code=%s", accountNumber, bankCode)

	var account Account
	if err := c.get(ctx, path, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	// respect the gateway's rate limits client-side
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck // G104: defer cleanup

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to decode gateway response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return fmt.Errorf("gateway error (status %d): %s", resp.StatusCode, env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode gateway data: %w", err)
		}
	}

	return nil
}
