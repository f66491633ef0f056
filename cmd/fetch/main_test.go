package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"onrampcompare/internal/aggregate"
	"onrampcompare/internal/provider"
)

func TestPrintTable(t *testing.T) {
	res := aggregate.ComparisonResult{
		Providers: []provider.Quote{
			{Name: "MoonPay", BTC: 0.0021, OK: true},
			{Name: "Transak", Err: "transak: unexpected status"},
		},
		Amount:    100,
		Succeeded: 1,
		Failed:    1,
		Duration:  412 * time.Millisecond,
	}

	var buf bytes.Buffer
	printTable(&buf, res)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "MoonPay")
	require.Contains(t, lines[1], "0.00210000")
	require.Contains(t, lines[2], "failed: transak: unexpected status")
	require.Equal(t, "100 USD, 1 ok, 1 failed, 412ms", lines[3])
}
