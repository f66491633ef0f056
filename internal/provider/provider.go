package provider

import (
	"context"
	"time"
)

// Quote is the normalized result of one provider call.
// BTC is 0 whenever OK is false; a provider that legitimately quotes 0
// is reported with OK=true.
type Quote struct {
	Name    string        `json:"name"`
	BTC     float64       `json:"btc"`
	OK      bool          `json:"ok"`
	Err     string        `json:"error,omitempty"`
	Latency time.Duration `json:"-"`
}

// Provider is one USD->BTC on-ramp. Estimate may fail in any way it likes;
// callers go through Fetch, which turns every failure into a zeroed Quote.
//
//go:generate mockgen -destination=providermock/provider_mock.go -package=providermock onrampcompare/internal/provider Provider
type Provider interface {
	Name() string
	Estimate(ctx context.Context, amountUSD float64) (float64, error)
}
