package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"onrampcompare/internal/aggregate"
	"onrampcompare/internal/config"
	"onrampcompare/internal/httpx"
	"onrampcompare/internal/logging"
	"onrampcompare/internal/registry"
)

func main() {
	var amountRaw string
	var configPath string
	var envFile string
	var asJSON bool
	var timeout time.Duration
	var logLevel string

	flag.StringVar(&amountRaw, "amount", getenv("AMOUNT", "100"), "USD amount to compare")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.yaml (optional)")
	flag.StringVar(&envFile, "env-file", "", "path to an env file with provider keys (optional)")
	flag.BoolVar(&asJSON, "json", false, "print the comparison as JSON")
	flag.DurationVar(&timeout, "timeout", 0, "per-provider timeout (overrides config)")
	flag.StringVar(&logLevel, "log-level", "warn", "log level for provider diagnostics")
	flag.Parse()

	amount, err := aggregate.ParseAmount(amountRaw)
	if err != nil {
		log.Fatalf("amount: %v", err)
	}
	var opts []config.Option
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg, err := config.Load(configPath, opts...)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if timeout > 0 {
		cfg.Server.ProviderTimeout = timeout
	}

	logger := logging.New(logLevel, os.Stderr)
	for _, name := range cfg.MissingKeys() {
		logger.Warn("provider enabled without api key", "provider", name)
	}

	agg := aggregate.New(
		registry.Providers(cfg, httpx.New(cfg.Server.ProviderTimeout)),
		aggregate.WithTimeout(cfg.Server.ProviderTimeout),
		aggregate.WithLogger(logger),
	)
	if len(agg.Providers()) == 0 {
		log.Fatal("no providers enabled; check config.yaml or ONRAMP_* overrides")
	}

	res := agg.Compare(context.Background(), amount)
	if asJSON {
		b, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(b))
		return
	}
	printTable(os.Stdout, res)
}

// printTable writes the ranked providers as an aligned table.
func printTable(w io.Writer, res aggregate.ComparisonResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tPROVIDER\tBTC\tSTATUS\n")
	for i, q := range res.Providers {
		status := "ok"
		if !q.OK {
			status = "failed: " + q.Err
		}
		fmt.Fprintf(tw, "%d\t%s\t%.8f\t%s\n", i+1, q.Name, q.BTC, status)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%s USD, %d ok, %d failed, %s\n",
		strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", res.Amount), "0"), "."),
		res.Succeeded, res.Failed, res.Duration.Round(time.Millisecond))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
