package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"onrampcompare/internal/provider"
	"onrampcompare/internal/provider/providermock"
)

type funcProvider struct {
	name string
	fn   func(ctx context.Context, amountUSD float64) (float64, error)
}

func (f funcProvider) Name() string { return f.name }
func (f funcProvider) Estimate(ctx context.Context, amountUSD float64) (float64, error) {
	return f.fn(ctx, amountUSD)
}

func TestFetch_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := providermock.NewMockProvider(ctrl)
	p.EXPECT().Name().Return("MoonPay").AnyTimes()
	p.EXPECT().Estimate(gomock.Any(), 100.0).Return(0.0021, nil).Times(1)

	q := provider.Fetch(t.Context(), p, 100, time.Second, nil)

	require.True(t, q.OK)
	require.Equal(t, "MoonPay", q.Name)
	require.InDelta(t, 0.0021, q.BTC, 1e-12)
	require.Empty(t, q.Err)
}

func TestFetch_ErrorBecomesZeroQuote(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	p := providermock.NewMockProvider(ctrl)
	p.EXPECT().Name().Return("Paybis").AnyTimes()
	p.EXPECT().Estimate(gomock.Any(), gomock.Any()).Return(0.5, errors.New("connection refused")).Times(1)

	q := provider.Fetch(t.Context(), p, 100, time.Second, nil)

	require.False(t, q.OK)
	require.Zero(t, q.BTC)
	require.Contains(t, q.Err, "connection refused")
}

func TestFetch_LegitimateZeroIsOK(t *testing.T) {
	t.Parallel()

	p := funcProvider{name: "Zero", fn: func(context.Context, float64) (float64, error) { return 0, nil }}
	q := provider.Fetch(t.Context(), p, 1, time.Second, nil)
	require.True(t, q.OK)
	require.Zero(t, q.BTC)
}

func TestFetch_RecoversPanic(t *testing.T) {
	t.Parallel()

	p := funcProvider{name: "Boom", fn: func(context.Context, float64) (float64, error) { panic("nil map") }}
	q := provider.Fetch(t.Context(), p, 100, time.Second, nil)
	require.False(t, q.OK)
	require.Contains(t, q.Err, "panic: nil map")
}

func TestFetch_RejectsInvalidAmounts(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		p := funcProvider{name: "Odd", fn: func(context.Context, float64) (float64, error) { return v, nil }}
		q := provider.Fetch(t.Context(), p, 100, time.Second, nil)
		assert.False(t, q.OK, "amount %v", v)
		assert.Zero(t, q.BTC, "amount %v", v)
	}
}

func TestFetch_TimeoutBoundsSlowProvider(t *testing.T) {
	t.Parallel()

	// Ignores its context on purpose.
	p := funcProvider{name: "Slow", fn: func(context.Context, float64) (float64, error) {
		time.Sleep(500 * time.Millisecond)
		return 1, nil
	}}

	start := time.Now()
	q := provider.Fetch(t.Context(), p, 100, 50*time.Millisecond, nil)
	elapsed := time.Since(start)

	require.False(t, q.OK)
	require.Contains(t, q.Err, context.DeadlineExceeded.Error())
	require.Less(t, elapsed, 400*time.Millisecond)
}

func TestFetch_PassesDeadlineToProvider(t *testing.T) {
	t.Parallel()

	p := funcProvider{name: "CtxAware", fn: func(ctx context.Context, _ float64) (float64, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "expected a deadline on the provider context")
		<-ctx.Done()
		return 0, ctx.Err()
	}}
	q := provider.Fetch(t.Context(), p, 100, 20*time.Millisecond, nil)
	require.False(t, q.OK)
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: `0.0021`, want: 0.0021},
		{raw: `"0.00193"`, want: 0.00193},
		{raw: `" 1.5e-3 "`, want: 0.0015},
		{raw: `0`, want: 0},
		{raw: `null`, wantErr: true},
		{raw: ``, wantErr: true},
		{raw: `"abc"`, wantErr: true},
		{raw: `true`, wantErr: true},
		{raw: `{"amount":1}`, wantErr: true},
		{raw: `-0.1`, wantErr: true},
	}
	for _, tc := range tests {
		got, err := provider.ParseAmount(json.RawMessage(tc.raw))
		if tc.wantErr {
			require.ErrorIs(t, err, provider.ErrShape, "raw=%q", tc.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tc.raw)
		require.InDelta(t, tc.want, got, 1e-12, "raw=%q", tc.raw)
	}
}

func TestCheckStatus(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("https://api.example.com/v1/estimate?apiKey=secret")
	require.NoError(t, err)

	ok := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}
	require.NoError(t, provider.CheckStatus(ok))

	bad := &http.Response{
		StatusCode: http.StatusForbidden,
		Body:       io.NopCloser(strings.NewReader(`{"message":"invalid key"}`)),
		Request:    &http.Request{Method: http.MethodGet, URL: u},
	}
	err = provider.CheckStatus(bad)
	require.ErrorIs(t, err, provider.ErrStatus)
	require.Contains(t, err.Error(), "403")
	require.Contains(t, err.Error(), "invalid key")
	require.NotContains(t, err.Error(), "secret")
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var v struct{ A int }
	require.NoError(t, provider.DecodeJSON(strings.NewReader(`{"A":1}`), &v))
	require.Equal(t, 1, v.A)
	require.ErrorIs(t, provider.DecodeJSON(strings.NewReader(`<html>`), &v), provider.ErrShape)
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "100", provider.FormatAmount(100))
	require.Equal(t, "99.5", provider.FormatAmount(99.5))
}
