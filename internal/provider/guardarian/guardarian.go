package guardarian

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"onrampcompare/internal/httpx"
	"onrampcompare/internal/provider"
)

// Config controls the Guardarian provider. The estimate endpoint is meant for
// the Guardarian web widget, so requests carry the widget's Origin and Referer.
type Config struct {
	Name    string
	URL     string
	APIKey  string            // sent as X-Api-Key
	Origin  string
	Referer string
	Headers map[string]string // optional extra headers
}

type Provider struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Guardarian"
	}
	if cfg.URL == "" {
		cfg.URL = "https://api-payments.guardarian.com/v1/estimate"
	}
	if cfg.Origin == "" {
		cfg.Origin = "https://guardarian.com"
	}
	if cfg.Referer == "" {
		cfg.Referer = "https://guardarian.com/"
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

// Estimate asks for the BTC received for amountUSD paid in USD.
func (p *Provider) Estimate(ctx context.Context, amountUSD float64) (float64, error) {
	u, err := url.Parse(p.cfg.URL)
	if err != nil {
		return 0, fmt.Errorf("guardarian: parse url: %w", err)
	}
	q := u.Query()
	q.Set("from_amount", provider.FormatAmount(amountUSD))
	q.Set("from_currency", "USD")
	q.Set("to_currency", "BTC")
	q.Set("platform", "web")
	q.Set("from_network", "USD")
	q.Set("to_network", "BTC")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("guardarian: creating request: %w", err)
	}
	for k, v := range p.cfg.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", p.cfg.Origin)
	req.Header.Set("Referer", p.cfg.Referer)
	if p.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", p.cfg.APIKey)
	}

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("guardarian: performing request: %w", err)
	}
	defer resp.Body.Close()
	if err := provider.CheckStatus(resp); err != nil {
		return 0, fmt.Errorf("guardarian: %w", err)
	}

	var body apiResponse
	if err := provider.DecodeJSON(resp.Body, &body); err != nil {
		return 0, fmt.Errorf("guardarian: %w", err)
	}
	raw := body.Value
	if len(raw) == 0 || string(raw) == "null" {
		raw = body.EstimatedAmount
	}
	btc, err := provider.ParseAmount(raw)
	if err != nil {
		return 0, fmt.Errorf("guardarian: value: %w", err)
	}
	return btc, nil
}

// The payments API answers {"value": ...}; the older public API used
// {"estimated_amount": ...}.
type apiResponse struct {
	Value           json.RawMessage `json:"value"`
	EstimatedAmount json.RawMessage `json:"estimated_amount"`
}
