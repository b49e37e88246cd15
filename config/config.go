package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// DefaultCatalogURL is the smartphone listing scraped when nothing else is set.
const DefaultCatalogURL = "https://www.magpiehq.com/developer-challenge/smartphones/"

// Config holds all application configuration.
type Config struct {
	// Crawl
	CatalogURL string `yaml:"catalogURL" json:"catalogURL"`
	OutputPath string `yaml:"output" json:"output"`
	MaxPages   int    `yaml:"maxPages" json:"maxPages"`
	Source     string `yaml:"source" json:"source"` // "http", "headless"
	BrowserBin string `yaml:"browserBin" json:"browserBin"`
	DebugDir   string `yaml:"debugDir" json:"debugDir"`

	// Politeness
	DelayProfile  string        `yaml:"delayProfile" json:"delayProfile"` // "cautious", "normal", "aggressive", "none"
	RatePerSecond float64       `yaml:"ratePerSecond" json:"ratePerSecond"`
	RateBurst     int           `yaml:"rateBurst" json:"rateBurst"`
	RespectRobots bool          `yaml:"respectRobots" json:"respectRobots"`
	UserAgent     string        `yaml:"userAgent" json:"userAgent"`
	ProxyFile     string        `yaml:"proxyFile" json:"proxyFile"`
	Retries       int           `yaml:"retries" json:"retries"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`

	// Storage
	DatabaseURL string        `yaml:"databaseURL" json:"databaseURL"`
	RedisURL    string        `yaml:"redisURL" json:"redisURL"`
	RedisKey    string        `yaml:"redisKey" json:"redisKey"`
	RedisTTL    time.Duration `yaml:"redisTTL" json:"redisTTL"`

	// HTTP server
	HTTPPort string `yaml:"port" json:"port"`
	APIKey   string `yaml:"apiKey" json:"apiKey"`

	// Logging
	Verbose bool `yaml:"verbose" json:"verbose"`
	LogJSON bool `yaml:"logJSON" json:"logJSON"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CatalogURL:    DefaultCatalogURL,
		OutputPath:    "output.json",
		MaxPages:      100,
		Source:        "http",
		DelayProfile:  "normal",
		RatePerSecond: 2.0,
		RateBurst:     3,
		RespectRobots: true,
		Retries:       2,
		Timeout:       30 * time.Second,
		RedisKey:      "catalog:latest",
		HTTPPort:      "8080",
	}
}

// LoadFile overlays values from a YAML file. Keys absent from the file keep
// their current value.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("CATALOG_URL"); v != "" {
		c.CatalogURL = v
	}
	if v := os.Getenv("CATALOG_OUTPUT"); v != "" {
		c.OutputPath = v
	}
	if v := os.Getenv("CATALOG_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPages = n
		}
	}
	if v := os.Getenv("CATALOG_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("ROD_BROWSER_BIN"); v != "" {
		c.BrowserBin = v
	}
	if v := os.Getenv("CATALOG_DEBUG_DIR"); v != "" {
		c.DebugDir = v
	}
	if v := os.Getenv("CATALOG_DELAY_PROFILE"); v != "" {
		c.DelayProfile = v
	}
	if v := os.Getenv("CATALOG_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("CATALOG_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("CATALOG_RESPECT_ROBOTS"); v == "false" {
		c.RespectRobots = false
	}
	if v := os.Getenv("CATALOG_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("CATALOG_PROXIES"); v != "" {
		c.ProxyFile = v
	}
	if v := os.Getenv("CATALOG_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Retries = n
		}
	}
	if v := os.Getenv("CATALOG_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("CATALOG_REDIS_KEY"); v != "" {
		c.RedisKey = v
	}
	if v := os.Getenv("CATALOG_REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RedisTTL = d
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("CATALOG_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("CATALOG_LOG_JSON"); v == "true" {
		c.LogJSON = true
	}
}

// Validate rejects settings the crawler cannot run with.
func (c *Config) Validate() error {
	if c.CatalogURL == "" {
		return fmt.Errorf("catalog URL is required")
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages must be >= 0, got %d", c.MaxPages)
	}
	switch c.Source {
	case "http", "headless":
	default:
		return fmt.Errorf("unknown source %q (want http or headless)", c.Source)
	}
	return nil
}
