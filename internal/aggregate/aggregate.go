package aggregate

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"onrampcompare/internal/metrics"
	"onrampcompare/internal/provider"
)

// DefaultTimeout bounds a single provider call when WithTimeout is not given.
const DefaultTimeout = 8 * time.Second

// ComparisonResult is the ranked outcome of one Compare call.
// Providers always holds one Quote per configured provider.
type ComparisonResult struct {
	Providers []provider.Quote `json:"providers"`
	Amount    float64          `json:"amount"`
	RequestID string           `json:"request_id"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Duration  time.Duration    `json:"-"`
	// DurationMS mirrors Duration for JSON consumers.
	DurationMS int64 `json:"duration_ms"`
}

// Best returns the top-ranked successful quote.
func (r ComparisonResult) Best() (provider.Quote, bool) {
	for _, q := range r.Providers {
		if q.OK {
			return q, true
		}
	}
	return provider.Quote{}, false
}

type Option func(*Aggregator)

// WithTimeout sets the per-provider deadline.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// Aggregator fans a USD amount out to every configured provider and ranks
// the answers. It holds no per-request state and is safe for concurrent use.
type Aggregator struct {
	providers []provider.Provider
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func New(providers []provider.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		providers: append([]provider.Provider(nil), providers...),
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Providers returns the configured provider names in configuration order.
func (a *Aggregator) Providers() []string {
	out := make([]string, 0, len(a.providers))
	for _, p := range a.providers {
		out = append(out, p.Name())
	}
	return out
}

// Compare queries all providers concurrently and waits for every one of them.
// Provider failures never fail the comparison; they show up as zeroed quotes
// ranked after any positive quote.
func (a *Aggregator) Compare(ctx context.Context, amountUSD float64) ComparisonResult {
	start := time.Now()
	reqID := uuid.NewString()
	logger := a.logger.With("request_id", reqID)

	// each goroutine owns exactly one slot
	quotes := make([]provider.Quote, len(a.providers))
	var g errgroup.Group
	for i, p := range a.providers {
		g.Go(func() error {
			q := provider.Fetch(ctx, p, amountUSD, a.timeout, logger)
			a.metrics.ObserveQuote(q.Name, q.OK, q.Latency)
			quotes[i] = q
			return nil
		})
	}
	_ = g.Wait()

	Rank(quotes)

	res := ComparisonResult{
		Providers: quotes,
		Amount:    amountUSD,
		RequestID: reqID,
		Duration:  time.Since(start),
	}
	for _, q := range quotes {
		if q.OK {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}
	res.DurationMS = res.Duration.Milliseconds()
	a.metrics.ObserveComparison(res.Duration)

	logger.Info("comparison done",
		"amount_usd", amountUSD,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration", res.Duration,
	)
	return res
}

// Rank sorts quotes by BTC descending in place. Equal amounts keep their
// input order.
func Rank(quotes []provider.Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].BTC > quotes[j].BTC
	})
}
