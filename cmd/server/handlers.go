package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"onrampcompare/internal/aggregate"
)

// defaultOffersAmount is used by /offers when no amount is given.
const defaultOffersAmount = "100"

type comparer interface {
	Compare(ctx context.Context, amountUSD float64) aggregate.ComparisonResult
}

type compareHandler struct {
	agg     comparer
	timeout time.Duration
	logger  *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func newRouter(h *compareHandler, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/compare/{amount}", h.byPath)
	mux.HandleFunc("GET /api/compare", h.byQuery)
	mux.HandleFunc("GET /offers", h.offers)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	return mux
}

func (h *compareHandler) byPath(w http.ResponseWriter, r *http.Request) {
	h.compare(w, r, r.PathValue("amount"))
}

func (h *compareHandler) byQuery(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("amount") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing amount query param"})
		return
	}
	h.compare(w, r, r.URL.Query().Get("amount"))
}

// offers never rejects: a missing or unusable amount falls back to the default.
func (h *compareHandler) offers(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("amount")
	if _, err := aggregate.ParseAmount(raw); err != nil {
		raw = defaultOffersAmount
	}
	h.compare(w, r, raw)
}

func (h *compareHandler) compare(w http.ResponseWriter, r *http.Request, raw string) {
	amount, err := aggregate.ParseAmount(raw)
	if err != nil {
		h.logger.Debug("rejected amount", "raw", raw, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	writeJSON(w, http.StatusOK, h.agg.Compare(ctx, amount))
}

// metricsHandler exposes reg. Compression is left to withGzip so scrapes
// are not encoded twice.
func metricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{DisableCompression: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
