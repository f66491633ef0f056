package provider

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

type estimate struct {
	btc float64
	err error
}

// Fetch calls p.Estimate under its own deadline and converts every failure
// (error, panic, timeout, invalid amount) into a zeroed Quote. It never
// returns an error and never blocks longer than timeout, even when p
// ignores its context.
func Fetch(ctx context.Context, p Provider, amountUSD float64, timeout time.Duration, logger *slog.Logger) Quote {
	if logger == nil {
		logger = slog.Default()
	}
	name := p.Name()
	start := time.Now()

	callCtx := ctx
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	done := make(chan estimate, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- estimate{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		btc, err := p.Estimate(callCtx, amountUSD)
		done <- estimate{btc: btc, err: err}
	}()

	var res estimate
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = estimate{err: fmt.Errorf("estimate: %w", callCtx.Err())}
	}
	if res.err == nil && (math.IsNaN(res.btc) || math.IsInf(res.btc, 0) || res.btc < 0) {
		res.err = fmt.Errorf("%w: invalid amount %v", ErrShape, res.btc)
	}

	q := Quote{Name: name, Latency: time.Since(start)}
	if res.err != nil {
		q.Err = res.err.Error()
		logger.Warn("provider quote failed", "provider", name, "amount_usd", amountUSD, "latency", q.Latency, "error", res.err)
		return q
	}
	q.BTC = res.btc
	q.OK = true
	logger.Debug("provider quote", "provider", name, "amount_usd", amountUSD, "btc", q.BTC, "latency", q.Latency)
	return q
}
