package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"vdash/internal/application/port"
	"vdash/internal/domain"
)

// Client is the pull/command side of the backend API, implementing
// port.Backend. Requests go through a shared rate limiter so operator
// actions (manual scanner refreshes included) cannot hammer the backend.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration, requestsPerSec float64) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), int(requestsPerSec)+1),
	}
}

type initialPayload struct {
	Balance float64                   `json:"balance"`
	Markets map[string]marketPayload  `json:"markets"`
	Scanner map[string]map[string]int `json:"scanner"`
	Signals []signalPayload           `json:"signals"`
}

type refreshPayload struct {
	Balance   *float64 `json:"balance"`
	Timestamp string   `json:"timestamp"`
}

type executeTradeRequest struct {
	BotID     int     `json:"bot_id"`
	Market    string  `json:"market"`
	Stake     float64 `json:"stake"`
	RequestID string  `json:"request_id"`
}

type executeSignalRequest struct {
	SignalID  string `json:"signal_id"`
	RequestID string `json:"request_id"`
}

type tradeResponse struct {
	Success    bool    `json:"success"`
	ContractID string  `json:"contract_id"`
	Reason     string  `json:"reason"`
	NewBalance float64 `json:"new_balance"`
}

func (c *Client) InitialData(ctx context.Context) (*port.InitialData, error) {
	var payload initialPayload
	if err := c.getJSON(ctx, "/api/initial-data", &payload); err != nil {
		return nil, err
	}
	return &port.InitialData{
		Balance: payload.Balance,
		Markets: toMarkets(payload.Markets),
		Scanner: toScoreMatrix(payload.Scanner),
		Signals: toSignals(payload.Signals),
	}, nil
}

func (c *Client) RefreshBalance(ctx context.Context) (float64, bool, error) {
	var payload refreshPayload
	if err := c.getJSON(ctx, "/api/refresh", &payload); err != nil {
		return 0, false, err
	}
	if payload.Balance == nil {
		return 0, false, nil
	}
	return *payload.Balance, true, nil
}

func (c *Client) Scanner(ctx context.Context) (domain.ScoreMatrix, error) {
	var payload map[string]map[string]int
	if err := c.getJSON(ctx, "/api/scanner", &payload); err != nil {
		return nil, err
	}
	return toScoreMatrix(payload), nil
}

func (c *Client) ExecuteTrade(ctx context.Context, req domain.TradeRequest) (*port.TradeOutcome, error) {
	body := executeTradeRequest{
		BotID:     req.BotID,
		Market:    req.Market,
		Stake:     req.Stake,
		RequestID: req.RequestID,
	}
	var resp tradeResponse
	if err := c.postJSON(ctx, "/api/execute-trade", body, &resp); err != nil {
		return nil, err
	}
	return toOutcome(resp), nil
}

func (c *Client) ExecuteSignal(ctx context.Context, signalID, requestID string) (*port.TradeOutcome, error) {
	body := executeSignalRequest{SignalID: signalID, RequestID: requestID}
	var resp tradeResponse
	if err := c.postJSON(ctx, "/api/execute-signal", body, &resp); err != nil {
		return nil, err
	}
	return toOutcome(resp), nil
}

func toOutcome(resp tradeResponse) *port.TradeOutcome {
	return &port.TradeOutcome{
		Success:    resp.Success,
		ContractID: resp.ContractID,
		Reason:     resp.Reason,
		NewBalance: resp.NewBalance,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend http %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
