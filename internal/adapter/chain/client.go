// Package chain submits crypto sends to a JSON-RPC node. Submission is
// best-effort: callers fall back to a locally generated transaction hash
// when the node is unreachable or rejects the request.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"custodial-wallet/config"
	"custodial-wallet/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.ChainSubmitter against an Ethereum-style JSON-RPC
// endpoint.
type Client struct {
	rpcURL     string
	network    string
	timeout    time.Duration
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a chain client from config. Pass nil for httpClient to
// use http.DefaultClient.
func NewClient(cfg config.ChainConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		rpcURL:     cfg.RPCURL,
		network:    cfg.Network,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		log:        log,
	}
}

// Network returns the configured network label, e.g. "Base Sepolia".
func (c *Client) Network() string {
	return c.network
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error"`
}

type txParams struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data,omitempty"`
}

// Submit sends an eth_sendTransaction request and returns the node's
// transaction hash.
func (c *Client) Submit(ctx context.Context, from, to string, asset domain.Asset, amount decimal.Decimal) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := txParams{
		From:  from,
		To:    to,
		Value: amount.String(),
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_sendTransaction",
		Params:  []any{params},
		ID:      1,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting to %s: %w", c.network, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rpc node returned status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return "", fmt.Errorf("decoding rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result == "" {
		return "", fmt.Errorf("rpc response missing transaction hash")
	}

	c.log.Info().
		Str("network", c.network).
		Str("asset", string(asset)).
		Str("tx_hash", rpcResp.Result).
		Msg("transaction submitted")

	return rpcResp.Result, nil
}
