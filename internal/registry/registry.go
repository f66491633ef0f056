// Package registry builds the configured provider set in a fixed order.
// That order is the tie-break order of a comparison.
package registry

import (
	"onrampcompare/internal/config"
	"onrampcompare/internal/httpx"
	"onrampcompare/internal/provider"
	"onrampcompare/internal/provider/guardarian"
	"onrampcompare/internal/provider/moonpay"
	"onrampcompare/internal/provider/paybis"
	"onrampcompare/internal/provider/transak"
)

// Providers returns the enabled providers: Guardarian, Paybis, Transak, MoonPay.
func Providers(cfg config.Config, hc *httpx.Client) []provider.Provider {
	var out []provider.Provider
	if cfg.Guardarian.Enabled {
		out = append(out, guardarian.New(guardarian.Config{
			URL:     cfg.Guardarian.URL,
			APIKey:  cfg.Guardarian.APIKey,
			Origin:  cfg.Guardarian.Origin,
			Referer: cfg.Guardarian.Referer,
		}, hc))
	}
	if cfg.Paybis.Enabled {
		out = append(out, paybis.New(paybis.Config{
			URL:           cfg.Paybis.URL,
			PaymentMethod: cfg.Paybis.PaymentMethod,
		}, hc))
	}
	if cfg.Transak.Enabled {
		out = append(out, transak.New(transak.Config{
			URL:           cfg.Transak.URL,
			PartnerAPIKey: cfg.Transak.APIKey,
		}, hc))
	}
	if cfg.MoonPay.Enabled {
		out = append(out, moonpay.New(moonpay.Config{
			URL:    cfg.MoonPay.URL,
			APIKey: cfg.MoonPay.APIKey,
		}, hc))
	}
	return out
}
