package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-asset-cache/internal/models"
)

// Duration wraps time.Duration with human-readable YAML parsing ("30s", "24h")
type Duration time.Duration

// UnmarshalYAML implements custom YAML unmarshaling for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(str)
	if err != nil {
		return fmt.Errorf("invalid duration '%s': %w", str, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the main configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Origin     OriginConfig     `yaml:"origin"`
	Memory     MemoryConfig     `yaml:"memory"`
	Redis      RedisConfig      `yaml:"redis"`
	TTL        TTLConfig        `yaml:"ttl"`
	Warmer     WarmerConfig     `yaml:"warmer"`
	Prefetch   PrefetchConfig   `yaml:"prefetch"`
	ImageProxy ImageProxyConfig `yaml:"image_proxy"`
	Perf       PerfConfig       `yaml:"perf"`
	Session    SessionConfig    `yaml:"session"`
}

// ServerConfig configures the inbound HTTP surface
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	SocketPath string `yaml:"socket_path"`
}

// OriginConfig configures the outbound fetch boundary
type OriginConfig struct {
	BaseURL      string   `yaml:"base_url"`
	FetchTimeout Duration `yaml:"fetch_timeout"`
}

// MemoryConfig configures the in-memory store level
type MemoryConfig struct {
	Enabled bool `yaml:"enabled"`
	SizeMB  int  `yaml:"size_mb"`
}

// RedisConfig configures the optional persistent store level
type RedisConfig struct {
	Enabled      bool     `yaml:"enabled"`
	URL          string   `yaml:"url"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
}

// TTLConfig is the per-class freshness table. Values must be monotonically
// ordered by payload volatility: session < api < thumbnail < full_image.
type TTLConfig struct {
	SessionEphemeral Duration `yaml:"session_ephemeral"`
	API              Duration `yaml:"api"`
	Thumbnail        Duration `yaml:"thumbnail"`
	FullImage        Duration `yaml:"full_image"`
	Static           Duration `yaml:"static"`
}

// WarmerConfig configures critical and speculative cache warming
type WarmerConfig struct {
	CriticalResources []string `yaml:"critical_resources"`
	SpeculativeLimit  int      `yaml:"speculative_limit"`
	BatchSize         int      `yaml:"batch_size"`
	IdleDelay         Duration `yaml:"idle_delay"`
	TimeBudget        Duration `yaml:"time_budget"`
}

// BudgetConfig is one row of the connection-class prefetch budget table
type BudgetConfig struct {
	MaxImages     int `yaml:"max_images"`
	MaxConcurrent int `yaml:"max_concurrent"`
}

// PrefetchConfig configures the behavior-learning prefetcher
type PrefetchConfig struct {
	Budgets       map[models.ConnectionClass]BudgetConfig `yaml:"budgets"`
	PatternMaxAge Duration                                `yaml:"pattern_max_age"`
}

// ImageProxyConfig configures the rate-limited image proxy path
type ImageProxyConfig struct {
	PathPrefix     string   `yaml:"path_prefix"`
	MinSpacing     Duration `yaml:"min_spacing"`
	DefaultSize    string   `yaml:"default_size"`
	DefaultQuality int      `yaml:"default_quality"`
	RecordValidity Duration `yaml:"record_validity"`
	ImageHosts     []string `yaml:"image_hosts"`
	PageSlots      []string `yaml:"page_slots"`
}

// PerfConfig configures the performance monitor
type PerfConfig struct {
	MaxSamples int `yaml:"max_samples"`
}

// SessionConfig configures device-local session persistence
type SessionConfig struct {
	Path string `yaml:"path"`
}

// Load loads configuration from file path
func Load(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with all defaults applied, used when no
// config file is present
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults sets default values for missing configuration
func (c *Config) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8650"
	}
	if c.Origin.BaseURL == "" {
		c.Origin.BaseURL = "http://localhost:3000"
	}
	if c.Origin.FetchTimeout == 0 {
		c.Origin.FetchTimeout = Duration(10 * time.Second)
	}
	if c.Memory.SizeMB == 0 {
		c.Memory.Enabled = true
		c.Memory.SizeMB = 64
	}
	if c.Redis.URL == "" {
		c.Redis.URL = "redis://localhost:6379"
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = Duration(500 * time.Millisecond)
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = Duration(500 * time.Millisecond)
	}

	if c.TTL.SessionEphemeral == 0 {
		c.TTL.SessionEphemeral = Duration(5 * time.Minute)
	}
	if c.TTL.API == 0 {
		c.TTL.API = Duration(time.Hour)
	}
	if c.TTL.Thumbnail == 0 {
		c.TTL.Thumbnail = Duration(7 * 24 * time.Hour)
	}
	if c.TTL.FullImage == 0 {
		c.TTL.FullImage = Duration(30 * 24 * time.Hour)
	}
	if c.TTL.Static == 0 {
		c.TTL.Static = Duration(7 * 24 * time.Hour)
	}

	if len(c.Warmer.CriticalResources) == 0 {
		c.Warmer.CriticalResources = []string{
			"/css/base.css",
			"/css/typography.css",
			"/js/navigation.js",
			"/js/main.js",
			"/images/logo.png",
			"/images/hero-default.jpg",
		}
	}
	if c.Warmer.SpeculativeLimit == 0 {
		c.Warmer.SpeculativeLimit = 15
	}
	if c.Warmer.BatchSize == 0 {
		c.Warmer.BatchSize = 5
	}
	if c.Warmer.IdleDelay == 0 {
		c.Warmer.IdleDelay = Duration(200 * time.Millisecond)
	}
	if c.Warmer.TimeBudget == 0 {
		c.Warmer.TimeBudget = Duration(10 * time.Second)
	}

	if len(c.Prefetch.Budgets) == 0 {
		c.Prefetch.Budgets = map[models.ConnectionClass]BudgetConfig{
			models.ConnectionSlow2G: {MaxImages: 0, MaxConcurrent: 0},
			models.Connection2G:     {MaxImages: 0, MaxConcurrent: 0},
			models.Connection3G:     {MaxImages: 5, MaxConcurrent: 2},
			models.Connection4G:     {MaxImages: 20, MaxConcurrent: 6},
		}
	}
	if c.Prefetch.PatternMaxAge == 0 {
		c.Prefetch.PatternMaxAge = Duration(30 * 24 * time.Hour)
	}

	if c.ImageProxy.PathPrefix == "" {
		c.ImageProxy.PathPrefix = "/api/image-proxy/"
	}
	if c.ImageProxy.MinSpacing == 0 {
		c.ImageProxy.MinSpacing = Duration(2 * time.Second)
	}
	if c.ImageProxy.DefaultSize == "" {
		c.ImageProxy.DefaultSize = "medium"
	}
	if c.ImageProxy.DefaultQuality == 0 {
		c.ImageProxy.DefaultQuality = 85
	}
	if c.ImageProxy.RecordValidity == 0 {
		c.ImageProxy.RecordValidity = Duration(24 * time.Hour)
	}
	if len(c.ImageProxy.ImageHosts) == 0 {
		c.ImageProxy.ImageHosts = []string{
			"drive.google.com",
			"googleusercontent.com",
		}
	}
	if len(c.ImageProxy.PageSlots) == 0 {
		c.ImageProxy.PageSlots = []string{
			"hero-home", "hero-about", "hero-artists",
			"hero-schedule", "hero-gallery", "hero-tickets",
		}
	}

	if c.Perf.MaxSamples == 0 {
		c.Perf.MaxSamples = 1000
	}
}

// Validate checks the configuration invariants
func (c *Config) Validate() error {
	if c.TTL.SessionEphemeral >= c.TTL.API {
		return fmt.Errorf("ttl ordering violated: session_ephemeral (%s) must be shorter than api (%s)",
			c.TTL.SessionEphemeral.Std(), c.TTL.API.Std())
	}
	if c.TTL.API >= c.TTL.Thumbnail {
		return fmt.Errorf("ttl ordering violated: api (%s) must be shorter than thumbnail (%s)",
			c.TTL.API.Std(), c.TTL.Thumbnail.Std())
	}
	if c.TTL.Thumbnail >= c.TTL.FullImage {
		return fmt.Errorf("ttl ordering violated: thumbnail (%s) must be shorter than full_image (%s)",
			c.TTL.Thumbnail.Std(), c.TTL.FullImage.Std())
	}
	if c.ImageProxy.MinSpacing.Std() < 0 {
		return fmt.Errorf("image_proxy.min_spacing cannot be negative")
	}
	if c.Perf.MaxSamples < 1 {
		return fmt.Errorf("perf.max_samples must be positive")
	}
	for class, budget := range c.Prefetch.Budgets {
		if budget.MaxImages < 0 || budget.MaxConcurrent < 0 {
			return fmt.Errorf("prefetch budget for '%s' cannot be negative", class)
		}
	}
	return nil
}
