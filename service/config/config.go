package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	sm "pnlanalyzer/service/models"
)

const (
	ConfigPathEnv = "PNL_CONFIG"
	PortEnv       = "PORT"
	ApiKeyEnv     = "ALPHAVANTAGE_API_KEY"
	ProviderEnv   = "PNL_PROVIDER"
	LogLevelEnv   = "LOG_LEVEL"

	DefaultConfigPath = "config.yaml"

	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
)

type Config struct {
	Server struct {
		Addr           string        `yaml:"addr"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		MaxHeaderBytes int           `yaml:"max_header_bytes"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`
	Source struct {
		Provider          string        `yaml:"provider"`
		ApiKey            string        `yaml:"api_key"`
		FetchTimeout      time.Duration `yaml:"fetch_timeout"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
	} `yaml:"source"`
	Cache struct {
		TTL        time.Duration `yaml:"ttl"`
		MaxEntries int           `yaml:"max_entries"`
	} `yaml:"cache"`
	Insights sm.InsightThresholds `yaml:"insights"`
	Examples []sm.ExampleTicker   `yaml:"examples"`
	Log      struct {
		Level          string `yaml:"level"`
		Format         string `yaml:"format"`
		TracingEnabled bool   `yaml:"tracing_enabled"`
	} `yaml:"log"`
}

// Default returns a configuration usable without any file or environment
func Default() *Config {
	c := &Config{}

	c.Server.Addr = ":8080"
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.MaxHeaderBytes = 1 << 20
	c.Server.AllowedOrigins = []string{"http://localhost:3000"}

	c.Source.Provider = ProviderYahoo
	c.Source.FetchTimeout = 15 * time.Second
	c.Source.RequestsPerMinute = 60

	c.Cache.TTL = 15 * time.Minute
	c.Cache.MaxEntries = 256

	c.Insights = sm.DefaultInsightThresholds()
	c.Examples = []sm.ExampleTicker{
		{Name: "Reliance Industries", Symbol: "RELIANCE.NS"},
		{Name: "TCS", Symbol: "TCS.NS"},
		{Name: "Infosys", Symbol: "INFY.NS"},
		{Name: "HDFC Bank", Symbol: "HDFCBANK.NS"},
		{Name: "ICICI Bank", Symbol: "ICICIBANK.NS"},
		{Name: "State Bank of India", Symbol: "SBIN.NS"},
		{Name: "ITC", Symbol: "ITC.NS"},
		{Name: "Wipro", Symbol: "WIPRO.NS"},
		{Name: "Bharti Airtel", Symbol: "BHARTIARTL.NS"},
		{Name: "Maruti Suzuki", Symbol: "MARUTI.NS"},
	}

	c.Log.Level = "info"
	c.Log.Format = "json"

	return c
}

// Load reads .env (when present), the yaml file named by PNL_CONFIG or config.yaml, then
// applies environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	path := os.Getenv(ConfigPathEnv)
	if path == "" {
		path = DefaultConfigPath
	}

	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return c, nil
}

// LoadFile overlays the yaml file at path onto the defaults
func LoadFile(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", path, err)
	}

	return c, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv(PortEnv); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if key := os.Getenv(ApiKeyEnv); key != "" {
		c.Source.ApiKey = key
	}
	if provider := os.Getenv(ProviderEnv); provider != "" {
		c.Source.Provider = provider
	}
	if level := os.Getenv(LogLevelEnv); level != "" {
		c.Log.Level = level
	}
	c.Source.Provider = strings.ToLower(strings.TrimSpace(c.Source.Provider))
}

func (c *Config) Validate() error {
	switch c.Source.Provider {
	case ProviderYahoo:
	case ProviderAlphaVantage:
		if c.Source.ApiKey == "" {
			return fmt.Errorf("source.api_key or %s is required for provider %s", ApiKeyEnv, ProviderAlphaVantage)
		}
	default:
		return fmt.Errorf("invalid source.provider '%s': must be '%s' or '%s'", c.Source.Provider, ProviderYahoo, ProviderAlphaVantage)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}
	if c.Source.FetchTimeout <= 0 {
		return fmt.Errorf("source.fetch_timeout must be positive, got %v", c.Source.FetchTimeout)
	}
	if c.Source.RequestsPerMinute < 0 {
		return fmt.Errorf("source.requests_per_minute cannot be negative, got %d", c.Source.RequestsPerMinute)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	for _, e := range c.Examples {
		if strings.TrimSpace(e.Symbol) == "" {
			return fmt.Errorf("example %q has no symbol", e.Name)
		}
	}
	if err := c.Insights.Validate(); err != nil {
		return fmt.Errorf("insights: %w", err)
	}
	return nil
}
