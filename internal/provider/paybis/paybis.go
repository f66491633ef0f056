package paybis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"onrampcompare/internal/httpx"
	"onrampcompare/internal/provider"
)

type Config struct {
	Name          string
	URL           string
	PaymentMethod string            // defaults to credit-card
	Headers       map[string]string // optional extra headers
}

// Provider quotes through the public Paybis buy-crypto endpoint.
// No credentials are required.
type Provider struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Paybis"
	}
	if cfg.URL == "" {
		cfg.URL = "https://api.paybis.com/public/processing/v2/quote/buy-crypto"
	}
	if cfg.PaymentMethod == "" {
		cfg.PaymentMethod = "credit-card"
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Estimate(ctx context.Context, amountUSD float64) (float64, error) {
	payload := quoteRequest{
		CurrencyCodeFrom: "USD",
		CurrencyCodeTo:   "BTC",
		RequestedAmount: money{
			Amount:       provider.FormatAmount(amountUSD),
			CurrencyCode: "USD",
		},
		RequestedAmountType: "from",
		PaymentMethod:       p.cfg.PaymentMethod,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("paybis: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("paybis: creating request: %w", err)
	}
	for k, v := range p.cfg.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("paybis: performing request: %w", err)
	}
	defer resp.Body.Close()
	if err := provider.CheckStatus(resp); err != nil {
		return 0, fmt.Errorf("paybis: %w", err)
	}

	var quote quoteResponse
	if err := provider.DecodeJSON(resp.Body, &quote); err != nil {
		return 0, fmt.Errorf("paybis: %w", err)
	}
	if len(quote.PaymentMethods) == 0 {
		return 0, fmt.Errorf("paybis: %w: no payment methods", provider.ErrShape)
	}
	// {
	//   "paymentMethods": [
	//     {"id": "credit-card", "amountTo": {"amount": "0.00151200", "currencyCode": "BTC"}, ...}
	//   ]
	// }
	amountTo := quote.PaymentMethods[0].AmountTo
	if amountTo == nil {
		return 0, fmt.Errorf("paybis: %w: missing amountTo", provider.ErrShape)
	}
	btc, err := provider.ParseAmount(amountTo.Amount)
	if err != nil {
		return 0, fmt.Errorf("paybis: amountTo: %w", err)
	}
	return btc, nil
}

type money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type quoteRequest struct {
	CurrencyCodeFrom    string  `json:"currencyCodeFrom"`
	CurrencyCodeTo      string  `json:"currencyCodeTo"`
	RequestedAmount     money   `json:"requestedAmount"`
	RequestedAmountType string  `json:"requestedAmountType"`
	PromoCode           *string `json:"promoCode"`
	PaymentMethod       string  `json:"paymentMethod"`
}

type quoteResponse struct {
	PaymentMethods []struct {
		ID       string `json:"id"`
		AmountTo *struct {
			Amount       json.RawMessage `json:"amount"`
			CurrencyCode string          `json:"currencyCode"`
		} `json:"amountTo"`
	} `json:"paymentMethods"`
}
