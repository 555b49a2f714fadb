package jupiter

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

	"github.com/iqbalbaharum/swap-executor/internal/types"
)

type Client struct {
	apiURL     string
	headers    map[string]string
	httpClient *http.Client
}

func NewClient(apiURL string) *Client {
	return &Client{
		apiURL: apiURL,
		headers: map[string]string{
			"User-Agent": "swap-executor/1.0",
			"Accept":     "application/json",
		},
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	u, err := url.Parse(c.apiURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, er := json.Marshal(body)
		if er != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", er)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make http call: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("status_code: %d, res_body: %s", res.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}

// GetQuote fails with types.ErrRouteUnavailable on any transport, status or payload error.
func (c *Client) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps uint16) (*Route, error) {
	queryParams := url.Values{}
	queryParams.Set("inputMint", inputMint)
	queryParams.Set("outputMint", outputMint)
	queryParams.Set("amount", strconv.FormatUint(amount, 10))
	queryParams.Set("slippageBps", strconv.FormatUint(uint64(slippageBps), 10))
	queryParams.Set("onlyDirectRoutes", "false")
	queryParams.Set("asLegacyTransaction", "false")

	bodyBytes, err := c.makeRequest(ctx, http.MethodGet, "/quote?"+queryParams.Encode(), nil)
	if err != nil {
		return nil, types.NewExecError(types.ErrRouteUnavailable, "Jupiter quote failed", err)
	}

	route, err := ParseRoute(bodyBytes)
	if err != nil {
		return nil, types.NewExecError(types.ErrRouteUnavailable, "failed to unmarshal quote", err)
	}
	if route.Quote.OutAmount == "" {
		return nil, types.NewExecError(types.ErrRouteUnavailable, "quote has no outAmount", nil)
	}

	return route, nil
}

// GetSwapTransaction fails with types.ErrSwapBuildFailed on any transport, status or payload error.
func (c *Client) GetSwapTransaction(ctx context.Context, route *Route, userPublicKey string) (*SwapResponse, error) {
	if route == nil || len(route.Raw()) == 0 {
		return nil, types.NewExecError(types.ErrSwapBuildFailed, "route is empty", nil)
	}

	swapReq := SwapRequest{
		QuoteResponse:       route.Raw(),
		UserPublicKey:       userPublicKey,
		WrapAndUnwrapSol:    true,
		UseSharedAccounts:   true,
		AsLegacyTransaction: false,
		UseTokenLedger:      false,
	}

	bodyBytes, err := c.makeRequest(ctx, http.MethodPost, "/swap", swapReq)
	if err != nil {
		return nil, types.NewExecError(types.ErrSwapBuildFailed, "Jupiter swap failed", err)
	}

	var resp SwapResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, types.NewExecError(types.ErrSwapBuildFailed, "failed to unmarshal swap response", err)
	}
	if resp.SwapTransaction == "" {
		return nil, types.NewExecError(types.ErrSwapBuildFailed, "swap response has no transaction", errors.New(string(resp.SimulationError)))
	}

	return &resp, nil
}

const (
	healthInputMint  = "So11111111111111111111111111111111111111112"
	healthOutputMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	healthAmount     = 1_000_000
)

// HealthCheck quotes a small SOL to USDC swap.
func (c *Client) HealthCheck(ctx context.Context) (bool, error) {
	if _, err := c.GetQuote(ctx, healthInputMint, healthOutputMint, healthAmount, 50); err != nil {
		return false, err
	}
	return true, nil
}
