package transak

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
	Name          string
	URL           string
	PartnerAPIKey string // sent as partnerApiKey query param
	PaymentMethod string // defaults to credit_debit_card
	Network       string // defaults to mainnet
}

type Provider struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Transak"
	}
	if cfg.URL == "" {
		cfg.URL = "https://api.transak.com/api/v1/pricing/public/quotes"
	}
	if cfg.PaymentMethod == "" {
		cfg.PaymentMethod = "credit_debit_card"
	}
	if cfg.Network == "" {
		cfg.Network = "mainnet"
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Estimate(ctx context.Context, amountUSD float64) (float64, error) {
	u, err := url.Parse(p.cfg.URL)
	if err != nil {
		return 0, fmt.Errorf("transak: parse url: %w", err)
	}
	q := u.Query()
	q.Set("partnerApiKey", p.cfg.PartnerAPIKey)
	q.Set("fiatCurrency", "USD")
	q.Set("cryptoCurrency", "BTC")
	q.Set("isBuyOrSell", "BUY")
	q.Set("network", p.cfg.Network)
	q.Set("paymentMethod", p.cfg.PaymentMethod)
	q.Set("fiatAmount", provider.FormatAmount(amountUSD))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("transak: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("transak: performing request: %w", provider.StripURL(err))
	}
	defer resp.Body.Close()
	if err := provider.CheckStatus(resp); err != nil {
		return 0, fmt.Errorf("transak: %w", err)
	}

	var body apiResponse
	if err := provider.DecodeJSON(resp.Body, &body); err != nil {
		return 0, fmt.Errorf("transak: %w", err)
	}
	if body.Response == nil {
		return 0, fmt.Errorf("transak: %w: missing response object", provider.ErrShape)
	}
	btc, err := provider.ParseAmount(body.Response.CryptoAmount)
	if err != nil {
		return 0, fmt.Errorf("transak: cryptoAmount: %w", err)
	}
	return btc, nil
}

type apiResponse struct {
	Response *struct {
		CryptoAmount json.RawMessage `json:"cryptoAmount"`
		FiatAmount   json.RawMessage `json:"fiatAmount"`
		TotalFee     json.RawMessage `json:"totalFee"`
	} `json:"response"`
}
