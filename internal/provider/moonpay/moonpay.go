package moonpay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"onrampcompare/internal/httpx"
	"onrampcompare/internal/provider"
)

type Config struct {
	Name   string
	URL    string
	APIKey string // publishable key, sent as apiKey query param
}

type Provider struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "MoonPay"
	}
	if cfg.URL == "" {
		cfg.URL = "https://api.moonpay.com/v3/currencies/btc/buy_quote"
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Estimate(ctx context.Context, amountUSD float64) (float64, error) {
	u, err := url.Parse(p.cfg.URL)
	if err != nil {
		return 0, fmt.Errorf("moonpay: parse url: %w", err)
	}
	q := u.Query()
	q.Set("apiKey", p.cfg.APIKey)
	q.Set("baseCurrencyCode", "usd")
	q.Set("baseCurrencyAmount", provider.FormatAmount(amountUSD))
	q.Set("areFeesIncluded", "true")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("moonpay: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("moonpay: performing request: %w", provider.StripURL(err))
	}
	defer resp.Body.Close()
	if err := provider.CheckStatus(resp); err != nil {
		return 0, fmt.Errorf("moonpay: %w", err)
	}

	var body apiResponse
	if err := provider.DecodeJSON(resp.Body, &body); err != nil {
		return 0, fmt.Errorf("moonpay: %w", err)
	}
	btc, err := provider.ParseAmount(body.QuoteCurrencyAmount)
	if err != nil {
		return 0, fmt.Errorf("moonpay: quoteCurrencyAmount: %w", err)
	}
	return btc, nil
}

type apiResponse struct {
	BaseCurrencyAmount  json.RawMessage `json:"baseCurrencyAmount"`
	QuoteCurrencyAmount json.RawMessage `json:"quoteCurrencyAmount"`
	FeeAmount           json.RawMessage `json:"feeAmount"`
}
