package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"onrampcompare/internal/config"
	"onrampcompare/internal/httpx"
)

func providerNames(cfg config.Config) []string {
	var out []string
	for _, p := range Providers(cfg, httpx.New(time.Second)) {
		out = append(out, p.Name())
	}
	return out
}

func TestProviders_DefaultOrder(t *testing.T) {
	require.Equal(t, []string{"Guardarian", "Paybis", "Transak", "MoonPay"}, providerNames(config.Default()))
}

func TestProviders_SkipsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Paybis.Enabled = false
	cfg.Transak.Enabled = false
	require.Equal(t, []string{"Guardarian", "MoonPay"}, providerNames(cfg))

	cfg.Guardarian.Enabled = false
	cfg.MoonPay.Enabled = false
	require.Empty(t, providerNames(cfg))
}
