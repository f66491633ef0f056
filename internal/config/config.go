package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. ONRAMP_MOONPAY_API_KEY.
const EnvPrefix = "ONRAMP"

type Server struct {
	Port            string        `yaml:"port" split_words:"true"`
	RequestTimeout  time.Duration `yaml:"request_timeout" split_words:"true"`
	ProviderTimeout time.Duration `yaml:"provider_timeout" split_words:"true"`
	LogLevel        string        `yaml:"log_level" split_words:"true"`
}

// Provider is the part of every provider section.
type Provider struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	URL     string `yaml:"url" split_words:"true"`
	APIKey  string `yaml:"api_key" split_words:"true"`
}

type Guardarian struct {
	Provider `yaml:",inline"`
	Origin   string `yaml:"origin" split_words:"true"`
	Referer  string `yaml:"referer" split_words:"true"`
}

type Paybis struct {
	Provider      `yaml:",inline"`
	PaymentMethod string `yaml:"payment_method" split_words:"true"`
}

type Config struct {
	Server     Server     `yaml:"server" split_words:"true"`
	Guardarian Guardarian `yaml:"guardarian" split_words:"true"`
	Paybis     Paybis     `yaml:"paybis" split_words:"true"`
	Transak    Provider   `yaml:"transak" split_words:"true"`
	MoonPay    Provider   `yaml:"moonpay" envconfig:"MOONPAY"`
}

// Default returns a config with every provider enabled on its public endpoint.
// API keys have no defaults.
func Default() Config {
	return Config{
		Server: Server{
			Port:            "8000",
			RequestTimeout:  15 * time.Second,
			ProviderTimeout: 8 * time.Second,
			LogLevel:        "info",
		},
		Guardarian: Guardarian{
			Provider: Provider{Enabled: true, URL: "https://api-payments.guardarian.com/v1/estimate"},
			Origin:   "https://guardarian.com",
			Referer:  "https://guardarian.com/",
		},
		Paybis: Paybis{
			Provider:      Provider{Enabled: true, URL: "https://api.paybis.com/public/processing/v2/quote/buy-crypto"},
			PaymentMethod: "credit-card",
		},
		Transak: Provider{Enabled: true, URL: "https://api.transak.com/api/v1/pricing/public/quotes"},
		MoonPay: Provider{Enabled: true, URL: "https://api.moonpay.com/v3/currencies/btc/buy_quote"},
	}
}

type loadOptions struct {
	envFile string
}

type Option func(*loadOptions)

// WithEnvFile loads variables from path before applying environment overrides.
// A missing file is an error; without this option ".env" is loaded if present.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// Load builds the config from defaults, an optional YAML file, an optional
// .env file and ONRAMP_* environment variables, in that order.
// If path is empty, config.yaml in the working directory is used when present.
func Load(path string, opts ...Option) (Config, error) {
	var lo loadOptions
	for _, opt := range opts {
		opt(&lo)
	}

	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if lo.envFile != "" {
		if err := godotenv.Load(lo.envFile); err != nil {
			return cfg, fmt.Errorf("load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at request time.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	if c.Server.ProviderTimeout <= 0 {
		return errors.New("server.provider_timeout must be positive")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("server.request_timeout must not be negative")
	}
	for name, p := range map[string]Provider{
		"guardarian": c.Guardarian.Provider,
		"paybis":     c.Paybis.Provider,
		"transak":    c.Transak,
		"moonpay":    c.MoonPay,
	} {
		if p.Enabled && strings.TrimSpace(p.URL) == "" {
			return fmt.Errorf("%s.url is required when enabled", name)
		}
	}
	return nil
}

// MissingKeys lists enabled providers that normally need a key but have none.
func (c Config) MissingKeys() []string {
	var out []string
	if c.Guardarian.Enabled && c.Guardarian.APIKey == "" {
		out = append(out, "guardarian")
	}
	if c.Transak.Enabled && c.Transak.APIKey == "" {
		out = append(out, "transak")
	}
	if c.MoonPay.Enabled && c.MoonPay.APIKey == "" {
		out = append(out, "moonpay")
	}
	return out
}
