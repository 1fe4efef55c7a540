package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rustyeddy/cyclebot/broker"
	"github.com/rustyeddy/cyclebot/market"
)

// Client talks to the Alpaca v2 REST API and implements broker.Broker.
type Client struct {
	BaseURL string // trading API, e.g. https://paper-api.alpaca.markets
	DataURL string // market data API, e.g. https://data.alpaca.markets
	Key     string
	Secret  string
	HTTP    *http.Client

	// Alpaca's free tier allows 200 requests/minute; stay under it
	// client-side rather than eating 429s.
	limiter *rate.Limiter
}

func New(baseURL, dataURL, key, secret string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		DataURL: strings.TrimRight(dataURL, "/"),
		Key:     key,
		Secret:  secret,
		limiter: rate.NewLimiter(rate.Limit(200.0/60.0), 10),
	}
}

// NewFromEnv builds a client from ALPACA_API_KEY, ALPACA_SECRET_KEY and the
// optional ALPACA_BASE_URL / ALPACA_DATA_URL overrides.
func NewFromEnv(baseURL, dataURL string) (*Client, error) {
	key := os.Getenv("ALPACA_API_KEY")
	secret := os.Getenv("ALPACA_SECRET_KEY")
	if key == "" || secret == "" {
		return nil, errors.New("ALPACA_API_KEY and ALPACA_SECRET_KEY must be set")
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		baseURL = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		dataURL = v
	}
	return New(baseURL, dataURL, key, secret), nil
}

type account struct {
	BuyingPower string `json:"buying_power"`
}

func (c *Client) GetBuyingPower(ctx context.Context) (float64, error) {
	var acct account
	if err := c.get(ctx, c.BaseURL+"/v2/account", &acct); err != nil {
		return 0, err
	}
	bp, err := strconv.ParseFloat(acct.BuyingPower, 64)
	if err != nil {
		return 0, &broker.TransportError{Op: "get account", Err: fmt.Errorf("bad buying_power %q: %w", acct.BuyingPower, err)}
	}
	return bp, nil
}

type latestQuote struct {
	Quote struct {
		AskPrice float64   `json:"ap"`
		BidPrice float64   `json:"bp"`
		Time     time.Time `json:"t"`
	} `json:"quote"`
}

func (c *Client) GetLatestQuote(ctx context.Context, symbol string) (market.Quote, error) {
	var lq latestQuote
	url := fmt.Sprintf("%s/v2/stocks/%s/quotes/latest", c.DataURL, symbol)
	if err := c.get(ctx, url, &lq); err != nil {
		return market.Quote{}, err
	}
	return market.Quote{
		Symbol: symbol,
		Bid:    lq.Quote.BidPrice,
		Ask:    lq.Quote.AskPrice,
		Time:   lq.Quote.Time,
	}, nil
}

type clock struct {
	IsOpen bool `json:"is_open"`
}

func (c *Client) IsMarketOpen(ctx context.Context) (bool, error) {
	var cl clock
	if err := c.get(ctx, c.BaseURL+"/v2/clock", &cl); err != nil {
		return false, err
	}
	return cl.IsOpen, nil
}

type orderRequest struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	TimeInForce   string `json:"time_in_force"`
	ClientOrderID string `json:"client_order_id,omitempty"`
}

type orderResponse struct {
	ID            string    `json:"id"`
	ClientOrderID string    `json:"client_order_id"`
	Symbol        string    `json:"symbol"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

func (c *Client) SubmitMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.Order, error) {
	body := orderRequest{
		Symbol:        req.Symbol,
		Qty:           strconv.FormatFloat(req.Qty, 'f', -1, 64),
		Side:          string(req.Side),
		Type:          "market",
		TimeInForce:   "day",
		ClientOrderID: req.ClientOrderID,
	}

	var resp orderResponse
	if err := c.post(ctx, c.BaseURL+"/v2/orders", req.Symbol, body, &resp); err != nil {
		return broker.Order{}, err
	}
	return broker.Order{
		ID:            resp.ID,
		ClientOrderID: resp.ClientOrderID,
		Symbol:        resp.Symbol,
		Qty:           req.Qty,
		Side:          req.Side,
		SubmittedAt:   resp.SubmittedAt,
	}, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &broker.TransportError{Op: "GET " + url, Err: err}
	}
	return c.do(req, "", out)
}

func (c *Client) post(ctx context.Context, url, symbol string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &broker.TransportError{Op: "POST " + url, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return &broker.TransportError{Op: "POST " + url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, symbol, out)
}

// do runs one request with auth headers and the client-side rate limit.
// A 4xx on an order submission becomes a RejectedError; anything else that
// is not a 2xx becomes a TransportError.
func (c *Client) do(req *http.Request, symbol string, out any) error {
	op := req.Method + " " + req.URL.Path

	if err := c.limiter.Wait(req.Context()); err != nil {
		return &broker.TransportError{Op: op, Err: err}
	}

	req.Header.Set("APCA-API-KEY-ID", c.Key)
	req.Header.Set("APCA-API-SECRET-KEY", c.Secret)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return &broker.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		msg := apiMessage(b)

		if symbol != "" && resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != 429 {
			return &broker.RejectedError{Symbol: symbol, Reason: msg}
		}
		return &broker.TransportError{Op: op, Err: fmt.Errorf("http %d: %s", resp.StatusCode, msg)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &broker.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func apiMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}
