package transak

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onrampcompare/internal/httpx"
	"onrampcompare/internal/provider"
)

func TestEstimate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "partner-1", q.Get("partnerApiKey"))
		assert.Equal(t, "USD", q.Get("fiatCurrency"))
		assert.Equal(t, "BTC", q.Get("cryptoCurrency"))
		assert.Equal(t, "BUY", q.Get("isBuyOrSell"))
		assert.Equal(t, "mainnet", q.Get("network"))
		assert.Equal(t, "credit_debit_card", q.Get("paymentMethod"))
		assert.Equal(t, "75.25", q.Get("fiatAmount"))

		_, _ = w.Write([]byte(`{"response":{"cryptoAmount":0.00111,"fiatAmount":75.25,"totalFee":2.1}}`))
	}))
	defer server.Close()

	p := New(Config{URL: server.URL, PartnerAPIKey: "partner-1"}, httpx.New(time.Second))
	btc, err := p.Estimate(t.Context(), 75.25)

	require.NoError(t, err)
	assert.InDelta(t, 0.00111, btc, 1e-12)
	assert.Equal(t, "Transak", p.Name())
}

func TestEstimate_MissingResponseObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"statusCode":400,"message":"Invalid fiat amount"}}`))
	}))
	defer server.Close()

	p := New(Config{URL: server.URL}, httpx.New(time.Second))
	_, err := p.Estimate(t.Context(), 1)
	require.ErrorIs(t, err, provider.ErrShape)
}

func TestEstimate_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := New(Config{URL: server.URL, PartnerAPIKey: "partner-secret"}, httpx.New(time.Second))
	_, err := p.Estimate(t.Context(), 100)
	require.ErrorIs(t, err, provider.ErrStatus)
	require.Contains(t, err.Error(), "429")
	require.NotContains(t, err.Error(), "partner-secret")
}

func TestEstimate_HonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	p := New(Config{URL: server.URL}, httpx.New(5*time.Second))
	_, err := p.Estimate(ctx, 100)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}
